package models

import "time"

// EventStatus is set at creation and never advanced automatically
type EventStatus string

const (
	EventStatusUpcoming  EventStatus = "upcoming"
	EventStatusOngoing   EventStatus = "ongoing"
	EventStatusCompleted EventStatus = "completed"
	EventStatusCancelled EventStatus = "cancelled"
)

// Event is a scheduled community activity with an optional capacity cap
type Event struct {
	ID                 string      `json:"id" db:"id"`
	Title              string      `json:"title" db:"title"`
	Description        string      `json:"description" db:"description"`
	OrganizerID        string      `json:"organizerId" db:"organizer_id"`
	StartTime          time.Time   `json:"startTime" db:"start_time"`
	EndTime            time.Time   `json:"endTime" db:"end_time"`
	Location           string      `json:"location" db:"location"`
	Latitude           *float64    `json:"latitude" db:"latitude"`
	Longitude          *float64    `json:"longitude" db:"longitude"`
	Type               string      `json:"type" db:"type"`
	Status             EventStatus `json:"status" db:"status"`
	MaxParticipants    int         `json:"maxParticipants" db:"max_participants"` // 0 means unlimited
	ParticipantIDs     []string    `json:"participantIds" db:"participant_ids"`
	Tags               []string    `json:"tags" db:"tags"`
	IsVirtual          bool        `json:"isVirtual" db:"is_virtual"`
	VirtualMeetingLink *string     `json:"virtualMeetingLink" db:"virtual_meeting_link"`
	CreatedAt          time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt          time.Time   `json:"updatedAt" db:"updated_at"`
}

// HasParticipant reports whether userID already joined
func (e *Event) HasParticipant(userID string) bool {
	for _, id := range e.ParticipantIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// IsFull reports whether a new participant would exceed the cap
func (e *Event) IsFull() bool {
	return e.MaxParticipants > 0 && len(e.ParticipantIDs) >= e.MaxParticipants
}

// EventFilter narrows event listings
type EventFilter struct {
	Type   string
	Status EventStatus
}
