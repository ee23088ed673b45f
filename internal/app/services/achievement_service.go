package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/helphub/internal/app/models"
	"github.com/yigit/helphub/internal/app/models/dto"
	"github.com/yigit/helphub/internal/app/repositories"
	"github.com/yigit/helphub/internal/pkg/helpers"
)

// AchievementService defines the interface for achievement operations
type AchievementService interface {
	GetCatalog(ctx context.Context) *dto.ListResponse[models.Achievement]
	GetStats(ctx context.Context, userID string, page helpers.Pagination) (*dto.AchievementStatsResponse, error)
}

// achievementServiceImpl implements AchievementService
type achievementServiceImpl struct {
	repos  *repositories.Repositories
	logger zerolog.Logger
}

// NewAchievementService creates a new AchievementService
func NewAchievementService(repos *repositories.Repositories, logger zerolog.Logger) AchievementService {
	return &achievementServiceImpl{
		repos:  repos,
		logger: logger,
	}
}

// GetCatalog returns the static achievement catalog
func (s *achievementServiceImpl) GetCatalog(_ context.Context) *dto.ListResponse[models.Achievement] {
	resp := dto.NewListResponse(models.AchievementCatalog())
	return &resp
}

// activity holds the counters achievements are measured against
type activity struct {
	helps              int
	helpful            int
	posts              int
	eventsJoined       int
	emergencyResponses int
}

func (a activity) count(metric models.AchievementMetric) int {
	switch metric {
	case models.MetricHelps:
		return a.helps
	case models.MetricPosts:
		return a.posts
	case models.MetricEventsJoined:
		return a.eventsJoined
	case models.MetricEmergencyResponses:
		return a.emergencyResponses
	default:
		return 0
	}
}

// GetStats measures the catalog against the user's recorded activity
func (s *achievementServiceImpl) GetStats(ctx context.Context, userID string, page helpers.Pagination) (*dto.AchievementStatsResponse, error) {
	act, err := s.loadActivity(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("userID", userID).Msg("Failed to load activity")
		return nil, err
	}

	stats := &dto.AchievementStatsResponse{
		UserID:                  userID,
		TotalHelps:              act.helps,
		TotalPosts:              act.posts,
		HelpfulComments:         act.helpful,
		TotalEvents:             act.eventsJoined,
		TotalEmergencyResponses: act.emergencyResponses,
		CategoryStats:           make(map[string]int, len(models.AchievementCategories)),
		UnlockedAchievements:    []string{},
	}
	for _, category := range models.AchievementCategories {
		stats.CategoryStats[category] = 0
	}

	catalog := models.AchievementCatalog()
	progress := make([]dto.AchievementProgress, 0, len(catalog))
	for _, a := range catalog {
		current := act.count(a.Metric)
		unlocked := current >= a.RequiredCount
		if unlocked {
			stats.TotalPoints += a.Points
			stats.UnlockedAchievements = append(stats.UnlockedAchievements, a.ID)
			stats.CategoryStats[a.Category]++
		}
		progress = append(progress, dto.AchievementProgress{
			AchievementID: a.ID,
			Title:         a.Title,
			Category:      a.Category,
			Points:        a.Points,
			Current:       current,
			Required:      a.RequiredCount,
			Unlocked:      unlocked,
		})
	}
	stats.TotalAchievements = len(stats.UnlockedAchievements)
	stats.Progress = dto.NewPagedResponse(helpers.Paginate(progress, page), helpers.NewPageInfo(len(progress), page))

	return stats, nil
}

func (s *achievementServiceImpl) loadActivity(ctx context.Context, userID string) (activity, error) {
	var act activity
	var err error

	if act.helps, act.helpful, err = s.repos.Comments.CountByUser(ctx, userID); err != nil {
		return act, fmt.Errorf("error counting comments: %w", err)
	}
	if act.posts, err = s.repos.Posts.CountByUser(ctx, userID); err != nil {
		return act, fmt.Errorf("error counting posts: %w", err)
	}
	if act.eventsJoined, err = s.repos.Events.CountJoinedByUser(ctx, userID); err != nil {
		return act, fmt.Errorf("error counting joined events: %w", err)
	}
	if act.emergencyResponses, err = s.repos.Emergency.CountRespondedByUser(ctx, userID); err != nil {
		return act, fmt.Errorf("error counting emergency responses: %w", err)
	}
	return act, nil
}
