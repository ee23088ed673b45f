package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/helphub/internal/app/services"
	"github.com/yigit/helphub/internal/middleware"
	"github.com/yigit/helphub/internal/pkg/helpers"
)

// AchievementController serves the achievement catalog and per-user stats
type AchievementController struct {
	achievementService services.AchievementService
}

// NewAchievementController creates a new AchievementController
func NewAchievementController(achievementService services.AchievementService) *AchievementController {
	return &AchievementController{achievementService: achievementService}
}

// GetCatalog returns every achievement
// @Summary Achievement catalog
// @Tags achievements
// @Produce json
// @Success 200 {object} dto.ListResponse[models.Achievement]
// @Router /achievements [get]
func (c *AchievementController) GetCatalog(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, c.achievementService.GetCatalog(ctx.Request.Context()))
}

// GetStats returns the caller's activity counters and achievement progress
// @Summary Achievement stats
// @Tags achievements
// @Produce json
// @Security BearerAuth
// @Param page query int false "Progress page" default(1)
// @Param limit query int false "Progress page size" default(10)
// @Success 200 {object} dto.AchievementStatsResponse
// @Router /achievements/stats [get]
func (c *AchievementController) GetStats(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	stats, err := c.achievementService.GetStats(ctx.Request.Context(), userID, helpers.ParsePaginationParams(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, stats)
}
