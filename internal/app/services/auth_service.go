package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/yigit/helphub/internal/app/models"
	"github.com/yigit/helphub/internal/app/models/dto"
	"github.com/yigit/helphub/internal/app/repositories"
	"github.com/yigit/helphub/internal/pkg/apperrors"
	"github.com/yigit/helphub/internal/pkg/auth"
)

// AuthService defines the interface for account operations
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	GetProfile(ctx context.Context, userID string) (*dto.UserResponse, error)
}

// authServiceImpl implements AuthService
type authServiceImpl struct {
	userRepo   repositories.IUserRepository
	jwtService *auth.JWTService
	logger     zerolog.Logger

	// compared against when the email is unknown so both login failures cost one bcrypt check
	dummyHashOnce sync.Once
	dummyHash     string
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repositories.IUserRepository, jwtService *auth.JWTService, logger zerolog.Logger) AuthService {
	return &authServiceImpl{
		userRepo:   userRepo,
		jwtService: jwtService,
		logger:     logger,
	}
}

// NormalizeEmail is the form emails are stored and looked up in
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates the account and signs the user in
func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        NormalizeEmail(req.Email),
		PasswordHash: hash,
		Phone:        strings.TrimSpace(req.Phone),
		Location:     strings.TrimSpace(req.Location),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil, apperrors.NewCustomError(apperrors.ErrEmailAlreadyExists, "User already exists")
		}
		s.logger.Error().Err(err).Str("email", user.Email).Msg("Failed to create user")
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info().Str("userID", user.ID).Msg("User registered")
	return s.issue(user)
}

// Login verifies credentials. Unknown emails and wrong passwords fail identically.
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	invalid := apperrors.NewCustomError(apperrors.ErrInvalidCredentials, "Invalid credentials")

	user, err := s.userRepo.GetByEmail(ctx, NormalizeEmail(req.Email))
	if err != nil {
		if !errors.Is(err, apperrors.ErrUserNotFound) {
			s.logger.Error().Err(err).Msg("Failed to look up user for login")
			return nil, fmt.Errorf("failed to find user: %w", err)
		}
		auth.CheckPassword(s.fallbackHash(), req.Password)
		return nil, invalid
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.logger.Debug().Str("userID", user.ID).Msg("Password mismatch")
		return nil, invalid
	}

	return s.issue(user)
}

// GetProfile returns the authenticated user's account
func (s *authServiceImpl) GetProfile(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func (s *authServiceImpl) issue(user *models.User) (*dto.AuthResponse, error) {
	token, expiresAt, err := s.jwtService.GenerateToken(auth.Identity{ID: user.ID, Email: user.Email, Name: user.Name})
	if err != nil {
		s.logger.Error().Err(err).Str("userID", user.ID).Msg("Failed to generate token")
		return nil, err
	}

	return &dto.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      dto.NewUserResponse(user),
	}, nil
}

func (s *authServiceImpl) fallbackHash() string {
	s.dummyHashOnce.Do(func() {
		hash, err := auth.HashPassword("helphub-unknown-account")
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to prepare fallback hash")
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}
