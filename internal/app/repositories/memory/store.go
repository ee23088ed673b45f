// Package memory keeps every collection in process memory. Records are copied on
// the way in and out so callers never share state with the store.
package memory

import (
	"sync"
	"time"

	"github.com/yigit/helphub/internal/app/models"
	"github.com/yigit/helphub/internal/app/repositories"
)

// Store holds all collections behind one lock, which keeps cross-collection
// operations such as the post/comment cascade atomic.
type Store struct {
	mu sync.RWMutex

	users    []*models.User
	posts    []*models.Post
	comments []*models.Comment
	events   []*models.Event
	alerts   []*models.EmergencyAlert
	rooms    []*models.ChatRoom
	messages []*models.ChatMessage
	now      func() time.Time
	newID    func() string
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		now:   func() time.Time { return time.Now().UTC() },
		newID: repositories.NewID,
	}
}

// Repositories exposes the store through the repository interfaces
func (s *Store) Repositories() *repositories.Repositories {
	return &repositories.Repositories{
		Users:     &UserRepository{s},
		Posts:     &PostRepository{s},
		Comments:  &CommentRepository{s},
		Events:    &EventRepository{s},
		Emergency: &EmergencyRepository{s},
		Chat:      &ChatRepository{s},
	}
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func containsString(items []string, s string) bool {
	for _, item := range items {
		if item == s {
			return true
		}
	}
	return false
}

func cloneUser(u *models.User) *models.User {
	c := *u
	return &c
}

func clonePost(p *models.Post) *models.Post {
	c := *p
	c.Images = cloneStrings(p.Images)
	c.Tags = cloneStrings(p.Tags)
	return &c
}

func cloneComment(cm *models.Comment) *models.Comment {
	c := *cm
	return &c
}

func cloneEvent(e *models.Event) *models.Event {
	c := *e
	c.ParticipantIDs = cloneStrings(e.ParticipantIDs)
	c.Tags = cloneStrings(e.Tags)
	if e.Latitude != nil {
		v := *e.Latitude
		c.Latitude = &v
	}
	if e.Longitude != nil {
		v := *e.Longitude
		c.Longitude = &v
	}
	if e.VirtualMeetingLink != nil {
		v := *e.VirtualMeetingLink
		c.VirtualMeetingLink = &v
	}
	return &c
}

func cloneAlert(a *models.EmergencyAlert) *models.EmergencyAlert {
	c := *a
	c.ResponderIDs = cloneStrings(a.ResponderIDs)
	c.Responses = make([]models.EmergencyResponse, len(a.Responses))
	copy(c.Responses, a.Responses)
	if a.ResolvedAt != nil {
		v := *a.ResolvedAt
		c.ResolvedAt = &v
	}
	return &c
}

func cloneRoom(r *models.ChatRoom) *models.ChatRoom {
	c := *r
	c.ParticipantIDs = cloneStrings(r.ParticipantIDs)
	if r.LastMessage != nil {
		v := *r.LastMessage
		c.LastMessage = &v
	}
	if r.LastMessageTime != nil {
		v := *r.LastMessageTime
		c.LastMessageTime = &v
	}
	return &c
}

func cloneMessage(m *models.ChatMessage) *models.ChatMessage {
	c := *m
	c.ReadBy = cloneStrings(m.ReadBy)
	if m.Metadata != nil {
		c.Metadata = make(map[string]interface{}, len(m.Metadata))
		for k, v := range m.Metadata {
			c.Metadata[k] = v
		}
	}
	return &c
}
