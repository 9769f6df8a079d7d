package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskStatus string

const (
	StatusToDo       TaskStatus = "to-do"
	StatusInProgress TaskStatus = "in-progress"
	StatusDone       TaskStatus = "done"
)

// Valid reports whether s is one of the three board columns.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusToDo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

type Task struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Priority    TaskPriority       `bson:"priority,omitempty" json:"priority,omitempty"`
	DueDate     *time.Time         `bson:"dueDate,omitempty" json:"dueDate,omitempty"`
	Status      TaskStatus         `bson:"status" json:"status"`
	Owner       primitive.ObjectID `bson:"owner" json:"owner"`
}

// TaskFields carries the mutable fields of a task as submitted by a client.
// Nil means the field was not provided.
type TaskFields struct {
	Title       *string
	Description *string
	Priority    *TaskPriority
	DueDate     *time.Time
	Status      *TaskStatus
}
