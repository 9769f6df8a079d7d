package services

import (
	"context"

	"kanban-board/logging"
	"kanban-board/models"
	"kanban-board/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskService scopes every task operation to the caller. IDs arrive as hex
// strings from the URL and the token.
type TaskService struct {
	tasks repositories.TaskRepository
}

func NewTaskService(tasks repositories.TaskRepository) *TaskService {
	return &TaskService{tasks: tasks}
}

func (s *TaskService) CreateTask(ctx context.Context, ownerID string, fields models.TaskFields) (*models.Task, error) {
	owner, err := ownerObjectID(ownerID)
	if err != nil {
		return nil, err
	}

	task := &models.Task{Owner: owner, Status: models.StatusToDo}
	if fields.Title != nil {
		task.Title = *fields.Title
	}
	if fields.Description != nil {
		task.Description = *fields.Description
	}
	if fields.Priority != nil {
		task.Priority = *fields.Priority
	}
	if fields.DueDate != nil {
		task.DueDate = fields.DueDate
	}
	if fields.Status != nil {
		task.Status = *fields.Status
	}

	created, err := s.tasks.Create(ctx, task)
	if err != nil {
		return nil, err
	}
	logging.Logger.Infof("Event ID: TASK_CREATED, Description: Task %s created for user %s", created.ID.Hex(), ownerID)
	return created, nil
}

// GetTasks lists the caller's tasks, optionally only those with status.
func (s *TaskService) GetTasks(ctx context.Context, ownerID, status string) ([]models.Task, error) {
	owner, err := ownerObjectID(ownerID)
	if err != nil {
		return nil, err
	}
	return s.tasks.ListByOwner(ctx, owner, models.TaskStatus(status))
}

func (s *TaskService) UpdateTask(ctx context.Context, taskID, ownerID string, fields models.TaskFields) (*models.Task, error) {
	id, owner, err := taskAndOwner(taskID, ownerID)
	if err != nil {
		return nil, err
	}
	return s.tasks.UpdateByIDAndOwner(ctx, id, owner, fields)
}

// ChangeTaskStatus rejects an unknown status before looking the task up, so
// the answer does not depend on whether the task exists.
func (s *TaskService) ChangeTaskStatus(ctx context.Context, taskID, ownerID, status string) (*models.Task, error) {
	newStatus := models.TaskStatus(status)
	if !newStatus.Valid() {
		return nil, models.ErrInvalidStatus
	}

	id, owner, err := taskAndOwner(taskID, ownerID)
	if err != nil {
		return nil, err
	}

	task, err := s.tasks.UpdateStatusByIDAndOwner(ctx, id, owner, newStatus)
	if err != nil {
		return nil, err
	}
	logging.Logger.Infof("Event ID: TASK_STATUS_CHANGED, Description: Task %s moved to %s", taskID, status)
	return task, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, taskID, ownerID string) (*models.Task, error) {
	id, owner, err := taskAndOwner(taskID, ownerID)
	if err != nil {
		return nil, err
	}

	task, err := s.tasks.DeleteByIDAndOwner(ctx, id, owner)
	if err != nil {
		return nil, err
	}
	logging.Logger.Infof("Event ID: TASK_DELETED, Description: Task %s deleted", taskID)
	return task, nil
}

// An id that cannot name any task is reported exactly like a missing one.
func taskAndOwner(taskID, ownerID string) (primitive.ObjectID, primitive.ObjectID, error) {
	owner, err := ownerObjectID(ownerID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, err
	}
	id, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, models.ErrNotFound
	}
	return id, owner, nil
}

// Owner ids come from a verified token, so a malformed one means the token
// does not describe a user of this system.
func ownerObjectID(ownerID string) (primitive.ObjectID, error) {
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return primitive.NilObjectID, models.ErrInvalidToken
	}
	return owner, nil
}
