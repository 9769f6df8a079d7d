package repositories

import (
	"context"
	"testing"

	"kanban-board/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMemoryUserRepo_DuplicateEmail(t *testing.T) {
	repo := NewMemoryUserRepo()
	ctx := context.Background()

	_, err := repo.Create(ctx, &models.User{Name: "A", Email: "a@x.com", Password: "h1"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &models.User{Name: "Other", Email: "a@x.com", Password: "h2"})
	assert.ErrorIs(t, err, models.ErrDuplicateEmail)

	_, err = repo.FindByEmail(ctx, "b@x.com")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestMemoryTaskRepo_OwnerScoping(t *testing.T) {
	repo := NewMemoryTaskRepo()
	ctx := context.Background()
	alice, bob := primitive.NewObjectID(), primitive.NewObjectID()

	task, err := repo.Create(ctx, &models.Task{Title: "T1", Owner: alice})
	require.NoError(t, err)
	assert.Equal(t, models.StatusToDo, task.Status)

	bobs, err := repo.ListByOwner(ctx, bob, "")
	require.NoError(t, err)
	assert.Empty(t, bobs)

	_, err = repo.UpdateStatusByIDAndOwner(ctx, task.ID, bob, models.StatusDone)
	assert.ErrorIs(t, err, models.ErrNotFound)

	title := "stolen"
	_, err = repo.UpdateByIDAndOwner(ctx, task.ID, bob, models.TaskFields{Title: &title})
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = repo.DeleteByIDAndOwner(ctx, task.ID, bob)
	assert.ErrorIs(t, err, models.ErrNotFound)

	alices, err := repo.ListByOwner(ctx, alice, models.StatusToDo)
	require.NoError(t, err)
	require.Len(t, alices, 1)
	assert.Equal(t, "T1", alices[0].Title)

	deleted, err := repo.DeleteByIDAndOwner(ctx, task.ID, alice)
	require.NoError(t, err)
	assert.Equal(t, task.ID, deleted.ID)

	alices, err = repo.ListByOwner(ctx, alice, "")
	require.NoError(t, err)
	assert.Empty(t, alices)
}
