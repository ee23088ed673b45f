package models

import "time"

// AlertStatus of an emergency alert
type AlertStatus string

const (
	AlertStatusActive    AlertStatus = "active"
	AlertStatusResponded AlertStatus = "responded"
	AlertStatusResolved  AlertStatus = "resolved"
)

// DefaultResponseMessage is logged when a responder sends no message
const DefaultResponseMessage = "Responding"

// EmergencyAlert is an urgent call for help at a geographic position
type EmergencyAlert struct {
	ID                        string              `json:"id" db:"id"`
	UserID                    string              `json:"userId" db:"user_id"`
	Type                      string              `json:"type" db:"type"`
	Priority                  string              `json:"priority" db:"priority"`
	Title                     string              `json:"title" db:"title"`
	Description               string              `json:"description" db:"description"`
	Location                  string              `json:"location" db:"location"`
	Latitude                  float64             `json:"latitude" db:"latitude"`
	Longitude                 float64             `json:"longitude" db:"longitude"`
	Status                    AlertStatus         `json:"status" db:"status"`
	ResponderIDs              []string            `json:"responderIds" db:"responder_ids"`
	Responses                 []EmergencyResponse `json:"responses"`
	RequiresImmediateResponse bool                `json:"requiresImmediateResponse" db:"requires_immediate_response"`
	EstimatedResponseTime     int                 `json:"estimatedResponseTime" db:"estimated_response_time"`
	CreatedAt                 time.Time           `json:"createdAt" db:"created_at"`
	UpdatedAt                 time.Time           `json:"updatedAt" db:"updated_at"`
	ResolvedAt                *time.Time          `json:"resolvedAt" db:"resolved_at"`
}

// EmergencyResponse is one entry of an alert's append-only response log
type EmergencyResponse struct {
	ID                   string    `json:"id" db:"id"`
	AlertID              string    `json:"-" db:"alert_id"`
	ResponderID          string    `json:"responderId" db:"responder_id"`
	Message              string    `json:"message" db:"message"`
	Status               string    `json:"status" db:"status"`
	Timestamp            time.Time `json:"timestamp" db:"created_at"`
	EstimatedArrivalTime int       `json:"estimatedArrivalTime" db:"estimated_arrival_time"`
}

// AlertFilter narrows alert listings
type AlertFilter struct {
	Status   AlertStatus
	Type     string
	Priority string
}
