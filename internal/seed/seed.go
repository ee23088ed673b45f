package seed

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/helphub/internal/app/models"
	appRepos "github.com/yigit/helphub/internal/app/repositories"
	"github.com/yigit/helphub/internal/pkg/apperrors"
	"github.com/yigit/helphub/internal/pkg/auth"
)

// Demo account credentials
const (
	DemoEmail    = "demo@example.com"
	DemoPassword = "password123"
)

// CreateDefaultData creates the demo user together with a sample help request
// and event. Nothing is created when the demo user already exists.
func CreateDefaultData(ctx context.Context, repos *appRepos.Repositories, lgr zerolog.Logger) error {
	_, err := repos.Users.GetByEmail(ctx, DemoEmail)
	if err == nil {
		lgr.Debug().Str("email", DemoEmail).Msg("Demo data already present")
		return nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return err
	}

	lgr.Info().Msg("Creating demo data...")

	hash, err := auth.HashPassword(DemoPassword)
	if err != nil {
		return err
	}

	demo := &appModels.User{
		Name:         "Demo User",
		Email:        DemoEmail,
		PasswordHash: hash,
		Phone:        "+1-555-0100",
		Location:     "Downtown",
	}
	if err := repos.Users.Create(ctx, demo); err != nil {
		// a concurrent start may have created it first
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil
		}
		return err
	}

	// Sample content is best effort; the account is what matters
	var finalErr error

	post := &appModels.Post{
		UserID:      demo.ID,
		Category:    appModels.PostCategoryFood,
		Title:       "Groceries for an elderly neighbour",
		Description: "Looking for someone to pick up weekly groceries on Saturdays.",
		Location:    "Downtown",
		Status:      appModels.PostStatusOpen,
		Urgency:     appModels.PostUrgencyMedium,
		Images:      []string{},
		Tags:        []string{"groceries", "weekly"},
	}
	if err := repos.Posts.Create(ctx, post); err != nil {
		lgr.Error().Err(err).Msg("Error creating demo post")
		finalErr = errors.Join(finalErr, err)
	}

	start := time.Now().UTC().Add(7 * 24 * time.Hour).Truncate(time.Hour)
	event := &appModels.Event{
		Title:           "Neighbourhood clean-up",
		Description:     "Bring gloves, we provide bags and snacks.",
		OrganizerID:     demo.ID,
		StartTime:       start,
		EndTime:         start.Add(3 * time.Hour),
		Location:        "Central Park",
		Type:            "volunteering",
		Status:          appModels.EventStatusUpcoming,
		MaxParticipants: 25,
		ParticipantIDs:  []string{},
		Tags:            []string{"outdoors"},
	}
	if err := repos.Events.Create(ctx, event); err != nil {
		lgr.Error().Err(err).Msg("Error creating demo event")
		finalErr = errors.Join(finalErr, err)
	}

	lgr.Info().Str("email", DemoEmail).Msg("Demo user created")
	return finalErr
}
