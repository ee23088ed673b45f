package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/helphub/internal/app/models"
	"github.com/yigit/helphub/internal/app/models/dto"
	"github.com/yigit/helphub/internal/pkg/apperrors"
	"github.com/yigit/helphub/internal/pkg/helpers"
)

func eventRequest(title string, start time.Time, capacity int) *dto.CreateEventRequest {
	return &dto.CreateEventRequest{
		Title:           title,
		Description:     "Park cleanup",
		StartTime:       start,
		EndTime:         start.Add(2 * time.Hour),
		Location:        "Riverside Park",
		Type:            "cleanup",
		MaxParticipants: capacity,
	}
}

func TestCreateEvent(t *testing.T) {
	f := newFixture(t)
	organizer := f.register(t, "Ada", "ada@example.com")

	link := " https://meet.example.com/abc "
	req := eventRequest("Cleanup", time.Date(2030, 5, 1, 9, 0, 0, 0, time.UTC), 10)
	req.IsVirtual = true
	req.VirtualMeetingLink = &link

	event, err := f.events.CreateEvent(context.Background(), organizer, req)
	require.NoError(t, err)
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, organizer, event.OrganizerID)
	assert.Equal(t, models.EventStatusUpcoming, event.Status)
	assert.Equal(t, []string{}, event.ParticipantIDs)
	require.NotNil(t, event.VirtualMeetingLink)
	assert.Equal(t, "https://meet.example.com/abc", *event.VirtualMeetingLink)

	got, err := f.events.GetEvent(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, event.ID, got.ID)
}

func TestJoinEvent_CapacityAndIdempotence(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	organizer := f.register(t, "Ada", "ada@example.com")
	event, err := f.events.CreateEvent(ctx, organizer, eventRequest("Small", time.Now().Add(24*time.Hour), 2))
	require.NoError(t, err)

	_, err = f.events.JoinEvent(ctx, event.ID, "u1")
	require.NoError(t, err)
	joined, err := f.events.JoinEvent(ctx, event.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, joined.ParticipantIDs, "joining twice adds the caller once")

	_, err = f.events.JoinEvent(ctx, event.ID, "u2")
	require.NoError(t, err)

	_, err = f.events.JoinEvent(ctx, event.ID, "u3")
	assert.ErrorIs(t, err, apperrors.ErrEventFull)

	again, err := f.events.JoinEvent(ctx, event.ID, "u2")
	require.NoError(t, err, "an existing participant may rejoin a full event")
	assert.Len(t, again.ParticipantIDs, 2)

	_, err = f.events.JoinEvent(ctx, "missing", "u1")
	assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
}

func TestJoinEvent_Unlimited(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	event, err := f.events.CreateEvent(ctx, "org", eventRequest("Open", time.Now(), 0))
	require.NoError(t, err)

	for i := 0; i < 25; i++ {
		_, err := f.events.JoinEvent(ctx, event.ID, fmt.Sprintf("u%d", i))
		require.NoError(t, err)
	}
	got, err := f.events.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Len(t, got.ParticipantIDs, 25)
}

func TestListEvents_SortedByStartAndPaged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	base := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, day := range []int{5, 1, 3, 2, 4} {
		_, err := f.events.CreateEvent(ctx, "org", eventRequest(fmt.Sprintf("day %d", day), base.AddDate(0, 0, day), 0))
		require.NoError(t, err)
	}

	page, err := f.events.ListEvents(ctx, models.EventFilter{}, helpers.Pagination{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "day 1", page.Items[0].Title)
	assert.Equal(t, "day 2", page.Items[1].Title)

	filtered, err := f.events.ListEvents(ctx, models.EventFilter{Type: "concert"}, helpers.Pagination{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, filtered.Total)
	assert.NotNil(t, filtered.Items)
}
