package dto

import "github.com/yigit/helphub/internal/app/models"

// CreateAlertRequest represents a new emergency alert
type CreateAlertRequest struct {
	Type                      string   `json:"type" binding:"required"`
	Priority                  string   `json:"priority" binding:"required"`
	Title                     string   `json:"title" binding:"required,notblank,max=200"`
	Description               string   `json:"description" binding:"required,notblank"`
	Location                  string   `json:"location" binding:"required,notblank"`
	Latitude                  *float64 `json:"latitude" binding:"required,min=-90,max=90"`
	Longitude                 *float64 `json:"longitude" binding:"required,min=-180,max=180"`
	RequiresImmediateResponse bool     `json:"requiresImmediateResponse"`
	EstimatedResponseTime     *int     `json:"estimatedResponseTime" binding:"omitempty,min=0"`
}

// RespondAlertRequest is the optional body of a respond call
type RespondAlertRequest struct {
	Message              string `json:"message" binding:"max=500"`
	EstimatedArrivalTime int    `json:"estimatedArrivalTime" binding:"min=0"`
}

// AlertListQuery holds the optional list filters
type AlertListQuery struct {
	Status   models.AlertStatus `form:"status" binding:"omitempty,oneof=active responded resolved"`
	Type     string             `form:"type"`
	Priority string             `form:"priority"`
}
