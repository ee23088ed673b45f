package models

import "time"

// PostCategory classifies a help request
type PostCategory string

const (
	PostCategoryMedical        PostCategory = "medical"
	PostCategoryEducation      PostCategory = "education"
	PostCategoryTransportation PostCategory = "transportation"
	PostCategoryFood           PostCategory = "food"
	PostCategoryShelter        PostCategory = "shelter"
	PostCategoryTechnology     PostCategory = "technology"
	PostCategoryOther          PostCategory = "other"
)

// PostStatus is the lifecycle state of a help request. It only changes when the owner sets it.
type PostStatus string

const (
	PostStatusOpen       PostStatus = "open"
	PostStatusInProgress PostStatus = "in-progress"
	PostStatusResolved   PostStatus = "resolved"
	PostStatusClosed     PostStatus = "closed"
)

// PostUrgency tells helpers how quickly a request needs attention
type PostUrgency string

const (
	PostUrgencyLow      PostUrgency = "low"
	PostUrgencyMedium   PostUrgency = "medium"
	PostUrgencyHigh     PostUrgency = "high"
	PostUrgencyCritical PostUrgency = "critical"
)

// Post is a help request published by a user
type Post struct {
	ID          string       `json:"id" db:"id"`
	UserID      string       `json:"userId" db:"user_id"`
	Category    PostCategory `json:"category" db:"category"`
	Title       string       `json:"title" db:"title"`
	Description string       `json:"description" db:"description"`
	Location    string       `json:"location" db:"location"`
	Status      PostStatus   `json:"status" db:"status"`
	Urgency     PostUrgency  `json:"urgency" db:"urgency"`
	Images      []string     `json:"images" db:"images"`
	Tags        []string     `json:"tags" db:"tags"`
	CreatedAt   time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time    `json:"updatedAt" db:"updated_at"`
}

// PostFilter narrows post listings. Empty fields match everything.
type PostFilter struct {
	UserID   string
	Category PostCategory
	Status   PostStatus
	Location string
	Search   string
}
