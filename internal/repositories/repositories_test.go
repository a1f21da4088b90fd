package repositories_test

import (
	"context"
	"testing"
	"time"

	"github.com/rohits-web03/evently/internal/models"
	"github.com/rohits-web03/evently/internal/repositories"
	"github.com/rohits-web03/evently/internal/testing/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createUser(t *testing.T, repo *repositories.UserRepository, name, email string) *models.User {
	t.Helper()
	u := &models.User{Name: name, Email: email, Password: "hash"}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestUserRepository_SoftDeleteQueries(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewUserRepository(testdb.New(t))

	a := createUser(t, repo, "A", "a@x.com")
	b := createUser(t, repo, "B", "b@x.com")

	now := time.Now()
	require.NoError(t, repo.SetDeletedAt(ctx, b.ID, &now))

	_, err := repo.FindActive(ctx, b.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	anyB, err := repo.FindAny(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, anyB.DeletedAt.Valid)

	active, err := repo.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, a.ID, active[0].ID)

	all, err := repo.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, repo.SetDeletedAt(ctx, b.ID, nil))
	restored, err := repo.FindActive(ctx, b.ID)
	require.NoError(t, err)
	assert.False(t, restored.DeletedAt.Valid)

	assert.ErrorIs(t, repo.SetDeletedAt(ctx, 999, &now), repositories.ErrNotFound)
}

func TestUserRepository_EmailUniqueAcrossDeletion(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewUserRepository(testdb.New(t))

	u := createUser(t, repo, "A", "x@x.com")
	now := time.Now()
	require.NoError(t, repo.SetDeletedAt(ctx, u.ID, &now))

	found, err := repo.FindByEmailAny(ctx, "x@x.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)

	err = repo.Create(ctx, &models.User{Name: "Other", Email: "x@x.com", Password: "hash"})
	assert.ErrorIs(t, err, repositories.ErrDuplicate)
}

func TestUserRepository_SaveLoginHistory(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewUserRepository(testdb.New(t))

	u := createUser(t, repo, "A", "a@x.com")
	u.RememberDevice("1.2.3.4", "curl/8", time.Now())
	require.NoError(t, repo.SaveLoginHistory(ctx, u))

	got, err := repo.FindAny(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, got.LoginHistory, 1)
	assert.Equal(t, "1.2.3.4", got.LoginHistory[0].IP)
	assert.Equal(t, "curl/8", got.LoginHistory[0].UserAgent)
}

func TestEventRepository_ListAndRelations(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	users := repositories.NewUserRepository(db)
	events := repositories.NewEventRepository(db)
	participants := repositories.NewParticipantRepository(db)

	owner := createUser(t, users, "Owner", "o@x.com")
	guest := createUser(t, users, "Guest", "g@x.com")

	e1 := &models.Event{Title: "First", Date: time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC), CreatedBy: owner.ID}
	e2 := &models.Event{Title: "Second", Date: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), CreatedBy: owner.ID}
	require.NoError(t, events.Create(ctx, e1))
	require.NoError(t, events.Create(ctx, e2))
	require.NoError(t, participants.Add(ctx, e1.ID, guest.ID))

	got, err := events.FindActive(ctx, e1.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Creator)
	assert.Equal(t, "Owner", got.Creator.Name)
	assert.Equal(t, []uint{guest.ID}, got.SubscriberIDs())

	now := time.Now()
	require.NoError(t, events.SetDeletedAt(ctx, e2.ID, &now))

	active, err := events.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, e1.ID, active[0].ID)

	all, err := events.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	created, err := events.ListByCreator(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, created, 1)

	_, err = events.FindActive(ctx, e2.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	deleted, err := events.FindAny(ctx, e2.ID)
	require.NoError(t, err)
	assert.True(t, deleted.DeletedAt.Valid)
}

func TestEventRepository_Update(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	users := repositories.NewUserRepository(db)
	events := repositories.NewEventRepository(db)

	owner := createUser(t, users, "Owner", "o@x.com")
	e := &models.Event{Title: "Old", Date: time.Now(), CreatedBy: owner.ID}
	require.NoError(t, events.Create(ctx, e))

	require.NoError(t, events.Update(ctx, e.ID, map[string]any{"title": "New"}))
	got, err := events.FindActive(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", got.Title)

	assert.ErrorIs(t, events.Update(ctx, 999, map[string]any{"title": "x"}), repositories.ErrNotFound)
}

func TestParticipantRepository_AddRemove(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	users := repositories.NewUserRepository(db)
	events := repositories.NewEventRepository(db)
	participants := repositories.NewParticipantRepository(db)

	owner := createUser(t, users, "Owner", "o@x.com")
	b := createUser(t, users, "B", "b@x.com")
	c := createUser(t, users, "C", "c@x.com")
	e := &models.Event{Title: "E", Date: time.Now(), CreatedBy: owner.ID}
	require.NoError(t, events.Create(ctx, e))

	require.NoError(t, participants.Add(ctx, e.ID, b.ID))
	require.NoError(t, participants.Add(ctx, e.ID, c.ID))
	assert.ErrorIs(t, participants.Add(ctx, e.ID, b.ID), repositories.ErrDuplicate)

	ok, err := participants.Exists(ctx, e.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ids, err := participants.UserIDs(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{b.ID, c.ID}, ids)

	summaries, err := participants.Users(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.UserSummary{
		{ID: b.ID, Name: "B", Email: "b@x.com"},
		{ID: c.ID, Name: "C", Email: "c@x.com"},
	}, summaries)

	require.NoError(t, participants.Remove(ctx, e.ID, b.ID))
	assert.ErrorIs(t, participants.Remove(ctx, e.ID, b.ID), repositories.ErrNotFound)

	ids, err = participants.UserIDs(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{c.ID}, ids)
}
