package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEventDate(t *testing.T) {
	cases := map[string]time.Time{
		"2024-06-20":                time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC),
		"2024-06-20T18:30":          time.Date(2024, 6, 20, 18, 30, 0, 0, time.UTC),
		"2024-06-20T18:30:05":       time.Date(2024, 6, 20, 18, 30, 5, 0, time.UTC),
		"2024-06-20T18:30:05Z":      time.Date(2024, 6, 20, 18, 30, 5, 0, time.UTC),
		"2024-06-20T20:30:05+02:00": time.Date(2024, 6, 20, 18, 30, 5, 0, time.UTC),
	}
	for in, want := range cases {
		got, err := parseEventDate(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), "%s: got %s", in, got)
	}

	for _, in := range []string{"", "tomorrow", "20/06/2024", "2024-13-01"} {
		_, err := parseEventDate(in)
		assert.ErrorIs(t, err, ErrInvalidInput, in)
	}
}

func TestEventService_CreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "A", "a@x.com")

	_, err := f.Events.Create(ctx, a.ID, EventInput{Title: strPtr("T")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.Events.Create(ctx, a.ID, EventInput{Title: strPtr("  "), Date: strPtr("2024-06-20")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.Events.Create(ctx, a.ID, EventInput{Title: strPtr(strings.Repeat("x", 201)), Date: strPtr("2024-06-20")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.Events.Create(ctx, a.ID, EventInput{Title: strPtr("T"), Date: strPtr("soon")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.Events.Create(ctx, 999, EventInput{Title: strPtr("T"), Date: strPtr("2024-06-20")})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestEventService_CreateReturnsView(t *testing.T) {
	f := newFixture(t)
	a := f.register(t, "A", "a@x.com")

	e, err := f.Events.Create(context.Background(), a.ID, EventInput{
		Title:       strPtr("Launch"),
		Description: strPtr("party"),
		Date:        strPtr("2024-06-20"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Launch", e.Title)
	require.NotNil(t, e.Description)
	assert.Equal(t, "party", *e.Description)
	assert.Equal(t, a.ID, e.CreatedBy)
	require.NotNil(t, e.Creator)
	assert.Equal(t, a, *e.Creator)
	assert.Empty(t, e.Subscribers)
	assert.Nil(t, e.DeletedAt)
}

func TestEventService_SubscriptionScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "A", "a@x.com")
	b := f.register(t, "B", "b@x.com")
	e := f.createEvent(t, a.ID, "E", "2024-06-20")

	res, err := f.Events.Subscribe(ctx, e.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{b.ID}, res.Subscribers)
	assert.Equal(t, 1, res.SubscribersCount)

	_, err = f.Events.Subscribe(ctx, e.ID, b.ID)
	assert.ErrorIs(t, err, ErrAlreadySubscribed)

	parts, err := f.Events.Participants(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, parts.ParticipantsCount)
	assert.Equal(t, "E", parts.EventTitle)
	assert.Equal(t, b, parts.Participants[0])

	res, err = f.Events.Unsubscribe(ctx, e.ID, b.ID)
	require.NoError(t, err)
	assert.Empty(t, res.Subscribers)
	assert.Equal(t, 0, res.SubscribersCount)

	_, err = f.Events.Unsubscribe(ctx, e.ID, b.ID)
	assert.ErrorIs(t, err, ErrNotSubscribed)

	_, err = f.Events.Subscribe(ctx, e.ID, a.ID)
	assert.ErrorIs(t, err, ErrSelfSubscription)

	got, err := f.Events.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Subscribers)
}

func TestEventService_SubscribeRequiresActiveParties(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "A", "a@x.com")
	b := f.register(t, "B", "b@x.com")
	e := f.createEvent(t, a.ID, "E", "2024-06-20")

	_, err := f.Events.Subscribe(ctx, 999, b.ID)
	assert.ErrorIs(t, err, ErrEventNotFound)

	_, err = f.Events.Subscribe(ctx, e.ID, 999)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = f.Users.Delete(ctx, b.ID)
	require.NoError(t, err)
	_, err = f.Events.Subscribe(ctx, e.ID, b.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = f.Events.Delete(ctx, a.ID, e.ID)
	require.NoError(t, err)
	_, err = f.Events.Unsubscribe(ctx, e.ID, b.ID)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestEventService_DeleteRestoreScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "A", "a@x.com")
	e := f.createEvent(t, a.ID, "E", "2024-06-20")

	deletedAt, err := f.Events.Delete(ctx, a.ID, e.ID)
	require.NoError(t, err)
	assert.False(t, deletedAt.IsZero())

	active, err := f.Events.List(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := f.Events.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.NotNil(t, all[0].DeletedAt)

	summary, alreadyActive, err := f.Events.Restore(ctx, a.ID, e.ID)
	require.NoError(t, err)
	assert.False(t, alreadyActive)
	assert.Equal(t, e.ID, summary.ID)

	active, err = f.Events.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Nil(t, active[0].DeletedAt)
	assert.Equal(t, e.Title, active[0].Title)
	assert.True(t, e.Date.Equal(active[0].Date))

	_, alreadyActive, err = f.Events.Restore(ctx, a.ID, e.ID)
	require.NoError(t, err)
	assert.True(t, alreadyActive)
}

func TestEventService_OwnerOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "A", "a@x.com")
	b := f.register(t, "B", "b@x.com")
	e := f.createEvent(t, a.ID, "E", "2024-06-20")

	_, err := f.Events.Update(ctx, b.ID, e.ID, EventInput{Title: strPtr("Mine")})
	assert.ErrorIs(t, err, ErrNotEventOwner)

	_, err = f.Events.Delete(ctx, b.ID, e.ID)
	assert.ErrorIs(t, err, ErrNotEventOwner)

	_, _, err = f.Events.Restore(ctx, b.ID, e.ID)
	assert.ErrorIs(t, err, ErrNotEventOwner)

	_, err = f.Events.Delete(ctx, a.ID, 999)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestEventService_Update(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "A", "a@x.com")
	e := f.createEvent(t, a.ID, "E", "2024-06-20")

	_, err := f.Events.Update(ctx, a.ID, e.ID, EventInput{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	updated, err := f.Events.Update(ctx, a.ID, e.ID, EventInput{
		Title:       strPtr("Renamed"),
		Description: strPtr("details"),
		Date:        strPtr("2024-07-01T10:00:00Z"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "details", *updated.Description)
	assert.True(t, time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC).Equal(updated.Date))

	_, err = f.Events.Delete(ctx, a.ID, e.ID)
	require.NoError(t, err)
	_, err = f.Events.Update(ctx, a.ID, e.ID, EventInput{Title: strPtr("Ghost")})
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestEventService_GetAndParticipantsSeeDeleted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "A", "a@x.com")
	e := f.createEvent(t, a.ID, "E", "2024-06-20")
	_, err := f.Events.Delete(ctx, a.ID, e.ID)
	require.NoError(t, err)

	got, err := f.Events.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.DeletedAt)

	parts, err := f.Events.Participants(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, parts.ParticipantsCount)

	_, err = f.Events.Get(ctx, 999)
	assert.ErrorIs(t, err, ErrEventNotFound)
}
