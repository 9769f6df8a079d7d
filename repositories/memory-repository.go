package repositories

import (
	"context"
	"sync"

	"kanban-board/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryUserRepo is an in-process UserRepository for tests and local runs
// without MongoDB. It enforces the same email uniqueness as the unique index.
type MemoryUserRepo struct {
	mu      sync.RWMutex
	byEmail map[string]models.User
}

func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{byEmail: make(map[string]models.User)}
}

func (r *MemoryUserRepo) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[user.Email]; ok {
		return nil, models.ErrDuplicateEmail
	}
	doc := *user
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	r.byEmail[doc.Email] = doc
	return &doc, nil
}

func (r *MemoryUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byEmail[email]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &user, nil
}

// MemoryTaskRepo is an in-process TaskRepository. Tasks are kept in insertion
// order, which stands in for the store's natural order.
type MemoryTaskRepo struct {
	mu    sync.RWMutex
	tasks []models.Task
}

func NewMemoryTaskRepo() *MemoryTaskRepo {
	return &MemoryTaskRepo{}
}

func (r *MemoryTaskRepo) Create(_ context.Context, task *models.Task) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc := *task
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	if doc.Status == "" {
		doc.Status = models.StatusToDo
	}
	r.tasks = append(r.tasks, doc)
	return &doc, nil
}

func (r *MemoryTaskRepo) ListByOwner(_ context.Context, owner primitive.ObjectID, status models.TaskStatus) ([]models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := []models.Task{}
	for _, t := range r.tasks {
		if t.Owner != owner {
			continue
		}
		if status != "" && t.Status != status {
			continue
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func (r *MemoryTaskRepo) UpdateByIDAndOwner(_ context.Context, id, owner primitive.ObjectID, fields models.TaskFields) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id, owner)
	if i < 0 {
		return nil, models.ErrNotFound
	}
	t := &r.tasks[i]
	if fields.Title != nil {
		t.Title = *fields.Title
	}
	if fields.Description != nil {
		t.Description = *fields.Description
	}
	if fields.Priority != nil {
		t.Priority = *fields.Priority
	}
	if fields.DueDate != nil {
		due := *fields.DueDate
		t.DueDate = &due
	}
	if fields.Status != nil {
		t.Status = *fields.Status
	}
	updated := *t
	return &updated, nil
}

func (r *MemoryTaskRepo) UpdateStatusByIDAndOwner(_ context.Context, id, owner primitive.ObjectID, status models.TaskStatus) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id, owner)
	if i < 0 {
		return nil, models.ErrNotFound
	}
	r.tasks[i].Status = status
	updated := r.tasks[i]
	return &updated, nil
}

func (r *MemoryTaskRepo) DeleteByIDAndOwner(_ context.Context, id, owner primitive.ObjectID) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id, owner)
	if i < 0 {
		return nil, models.ErrNotFound
	}
	deleted := r.tasks[i]
	r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
	return &deleted, nil
}

func (r *MemoryTaskRepo) indexOf(id, owner primitive.ObjectID) int {
	for i, t := range r.tasks {
		if t.ID == id && t.Owner == owner {
			return i
		}
	}
	return -1
}

// MemoryPinger always reports a healthy store.
type MemoryPinger struct{}

func (MemoryPinger) Ping(context.Context) error { return nil }
