package dto

import (
	"time"

	"github.com/yigit/helphub/internal/app/models"
)

// CreateEventRequest represents event creation data
type CreateEventRequest struct {
	Title              string    `json:"title" binding:"required,notblank,max=200"`
	Description        string    `json:"description" binding:"required,notblank"`
	StartTime          time.Time `json:"startTime" binding:"required"`
	EndTime            time.Time `json:"endTime" binding:"required,gtfield=StartTime"`
	Location           string    `json:"location" binding:"required,notblank"`
	Latitude           *float64  `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude          *float64  `json:"longitude" binding:"omitempty,min=-180,max=180"`
	Type               string    `json:"type" binding:"required,notblank"`
	MaxParticipants    int       `json:"maxParticipants" binding:"min=0"`
	Tags               []string  `json:"tags"`
	IsVirtual          bool      `json:"isVirtual"`
	VirtualMeetingLink *string   `json:"virtualMeetingLink" binding:"omitempty,url"`
}

// EventListQuery holds the optional list filters
type EventListQuery struct {
	Type   string             `form:"type"`
	Status models.EventStatus `form:"status" binding:"omitempty,oneof=upcoming ongoing completed cancelled"`
}
