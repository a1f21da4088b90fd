package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_DeleteRestoreRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "A", "a@x.com")

	before, err := f.Users.Get(ctx, u.ID)
	require.NoError(t, err)

	deletedAt, err := f.Users.Delete(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, deletedAt.IsZero())

	_, err = f.Users.Get(ctx, u.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	active, err := f.Users.List(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := f.Users.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.NotNil(t, all[0].DeletedAt)

	summary, alreadyActive, err := f.Users.Restore(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, alreadyActive)
	assert.Equal(t, u, summary)

	after, err := f.Users.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, before.ID, after.ID)
	assert.Equal(t, before.Email, after.Email)
	assert.Nil(t, after.DeletedAt)
}

func TestUserService_RestoreActiveIsNoop(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "A", "a@x.com")

	summary, alreadyActive, err := f.Users.Restore(context.Background(), u.ID)
	require.NoError(t, err)
	assert.True(t, alreadyActive)
	assert.Equal(t, u, summary)
}

func TestUserService_UnknownIDs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.Users.Delete(ctx, 42)
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, _, err = f.Users.Restore(ctx, 42)
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = f.Users.Info(ctx, 42)
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = f.Users.CreatedEvents(ctx, 42)
	assert.ErrorIs(t, err, ErrUserNotFound)

	ok, err := f.Users.IsActive(ctx, 42)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUserService_InfoIsCachedAndEvicted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "A", "a@x.com")

	got, err := f.Users.Info(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u, got)
	assert.Equal(t, 0, f.cache.hits)

	_, err = f.Users.Info(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, f.cache.hits)

	_, err = f.Users.Delete(ctx, u.ID)
	require.NoError(t, err)
	_, cached := f.cache.items[u.ID]
	assert.False(t, cached)

	// deleted users stay resolvable by id
	got, err = f.Users.Info(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u, got)
}

func TestUserService_CreatedEventsExcludesDeleted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "A", "a@x.com")

	keep := f.createEvent(t, a.ID, "Keep", "2024-06-20")
	drop := f.createEvent(t, a.ID, "Drop", "2024-06-21")
	_, err := f.Events.Delete(ctx, a.ID, drop.ID)
	require.NoError(t, err)

	events, err := f.Users.CreatedEvents(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, keep.ID, events[0].ID)
}
