package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/helphub/internal/app/models"
	"github.com/yigit/helphub/internal/app/models/dto"
	"github.com/yigit/helphub/internal/app/services"
	"github.com/yigit/helphub/internal/middleware"
)

// EmergencyController handles emergency alerts
type EmergencyController struct {
	emergencyService services.EmergencyService
}

// NewEmergencyController creates a new EmergencyController
func NewEmergencyController(emergencyService services.EmergencyService) *EmergencyController {
	return &EmergencyController{emergencyService: emergencyService}
}

// ListAlerts returns alerts, newest first
// @Summary List emergency alerts
// @Tags emergency
// @Produce json
// @Param status query string false "Alert status"
// @Param type query string false "Alert type"
// @Param priority query string false "Alert priority"
// @Success 200 {object} dto.ListResponse[models.EmergencyAlert]
// @Router /emergency [get]
func (c *EmergencyController) ListAlerts(ctx *gin.Context) {
	var query dto.AlertListQuery
	if !middleware.BindQuery(ctx, &query) {
		return
	}

	filter := models.AlertFilter{Status: query.Status, Type: query.Type, Priority: query.Priority}
	alerts, err := c.emergencyService.ListAlerts(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, alerts)
}

// GetAlert returns one alert with its responses
// @Summary Get emergency alert
// @Tags emergency
// @Produce json
// @Param id path string true "Alert ID"
// @Success 200 {object} models.EmergencyAlert
// @Failure 404 {object} dto.ErrorResponse "Alert not found"
// @Router /emergency/{id} [get]
func (c *EmergencyController) GetAlert(ctx *gin.Context) {
	alert, err := c.emergencyService.GetAlert(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, alert)
}

// CreateAlert raises an alert on behalf of the caller
// @Summary Create emergency alert
// @Tags emergency
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateAlertRequest true "Alert"
// @Success 201 {object} models.EmergencyAlert
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Router /emergency [post]
func (c *EmergencyController) CreateAlert(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreateAlertRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	alert, err := c.emergencyService.CreateAlert(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, alert)
}

// RespondToAlert records the caller as a responder. The body is optional.
// @Summary Respond to emergency alert
// @Tags emergency
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Alert ID"
// @Param request body dto.RespondAlertRequest false "Response"
// @Success 200 {object} models.EmergencyAlert
// @Failure 404 {object} dto.ErrorResponse "Alert not found"
// @Router /emergency/{id}/respond [post]
func (c *EmergencyController) RespondToAlert(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.RespondAlertRequest
	if ctx.Request.ContentLength != 0 && !middleware.BindJSON(ctx, &req) {
		return
	}

	alert, err := c.emergencyService.RespondToAlert(ctx.Request.Context(), ctx.Param("id"), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, alert)
}
