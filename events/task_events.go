package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// TaskCreatedEvent is emitted when a new task (and its catalyst) is created.
type TaskCreatedEvent struct {
	TaskID    string    `json:"task_id"`
	Title     string    `json:"title"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// TaskCreatedV1 is the typed event definition for task creation.
// Subject: events.tasks.v1.task-created
var TaskCreatedV1 = helper.EventDefinition[TaskCreatedEvent](
	"tasks", "TaskCreated", "v1",
)

// TaskStartedEvent is emitted when a task moves to in_progress.
type TaskStartedEvent struct {
	TaskID      string    `json:"task_id"`
	Title       string    `json:"title"`
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	TimeToStart int       `json:"time_to_start"`
	StartedAt   time.Time `json:"started_at"`
}

// TaskStartedV1 is the typed event definition for a task entering progress.
// Subject: events.tasks.v1.task-started
var TaskStartedV1 = helper.EventDefinition[TaskStartedEvent](
	"tasks", "TaskStarted", "v1",
)

// TaskCompletedEvent is emitted when a task is marked complete.
// ProductivityScore carries the user's score after the completion award.
type TaskCompletedEvent struct {
	TaskID            string    `json:"task_id"`
	Title             string    `json:"title"`
	UserID            string    `json:"user_id"`
	Username          string    `json:"username"`
	TimeToComplete    int       `json:"time_to_complete"`
	ProductivityScore int       `json:"productivity_score"`
	CompletedAt       time.Time `json:"completed_at"`
}

// TaskCompletedV1 is the typed event definition for task completion.
// Subject: events.tasks.v1.task-completed
var TaskCompletedV1 = helper.EventDefinition[TaskCompletedEvent](
	"tasks", "TaskCompleted", "v1",
)

// TaskDeletedEvent is emitted when a task is deleted.
type TaskDeletedEvent struct {
	TaskID    string    `json:"task_id"`
	UserID    string    `json:"user_id"`
	DeletedAt time.Time `json:"deleted_at"`
}

// TaskDeletedV1 is the typed event definition for task deletion.
// Subject: events.tasks.v1.task-deleted
var TaskDeletedV1 = helper.EventDefinition[TaskDeletedEvent](
	"tasks", "TaskDeleted", "v1",
)

// CatalystCompletedEvent is emitted when a user completes a catalyst.
type CatalystCompletedEvent struct {
	CatalystID  string    `json:"catalyst_id"`
	TaskID      string    `json:"task_id"`
	TaskTitle   string    `json:"task_title"`
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	CompletedAt time.Time `json:"completed_at"`
}

// CatalystCompletedV1 is the typed event definition for catalyst completion.
// Subject: events.tasks.v1.catalyst-completed
var CatalystCompletedV1 = helper.EventDefinition[CatalystCompletedEvent](
	"tasks", "CatalystCompleted", "v1",
)
