package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/helphub/internal/app/models/dto"
	"github.com/yigit/helphub/internal/pkg/apperrors"
)

func TestRegister(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.auth.Register(ctx, &dto.RegisterRequest{
		Name:     "  Ada Lovelace ",
		Email:    " Ada@Example.COM ",
		Password: "password123",
		Phone:    "555-0100",
		Location: "London",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.NotEmpty(t, resp.User.ID)
	assert.Equal(t, "Ada Lovelace", resp.User.Name)
	assert.Equal(t, "ada@example.com", resp.User.Email)

	stored, err := f.repos.Users.GetByID(ctx, resp.User.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "password123", stored.PasswordHash)
}

func TestRegister_DuplicateEmailIgnoresCase(t *testing.T) {
	f := newFixture(t)
	f.register(t, "Ada", "ada@example.com")

	_, err := f.auth.Register(context.Background(), &dto.RegisterRequest{
		Name: "Other", Email: "ADA@example.com", Password: "secret1", Phone: "1", Location: "x",
	})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	id := f.register(t, "Ada", "ada@example.com")

	resp, err := f.auth.Login(context.Background(), &dto.LoginRequest{Email: "ADA@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, id, resp.User.ID)
	assert.NotEmpty(t, resp.Token)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	f := newFixture(t)
	f.register(t, "Ada", "ada@example.com")
	ctx := context.Background()

	_, wrongPassword := f.auth.Login(ctx, &dto.LoginRequest{Email: "ada@example.com", Password: "nope"})
	_, unknownEmail := f.auth.Login(ctx, &dto.LoginRequest{Email: "ghost@example.com", Password: "password123"})

	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)
	assert.ErrorIs(t, wrongPassword, apperrors.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, apperrors.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestGetProfile(t *testing.T) {
	f := newFixture(t)
	id := f.register(t, "Ada", "ada@example.com")

	profile, err := f.auth.GetProfile(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Ada", profile.Name)

	_, err = f.auth.GetProfile(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
