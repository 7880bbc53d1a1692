package tasks

import (
	"time"

	domain "github.com/HichamMeziani/TaskCatalyst/domain/task"
)

// CreateTaskRequest creates a task and its catalyst.
type CreateTaskRequest struct {
	UserID      string `json:"user_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	Priority    string `json:"priority,omitempty"`
}

// CreateTaskResponse carries the created task and its catalyst.
type CreateTaskResponse struct {
	Task     TaskResponse     `json:"task"`
	Catalyst CatalystResponse `json:"catalyst"`
}

// GetTaskRequest fetches one task with its catalyst.
type GetTaskRequest struct {
	UserID string `json:"user_id"`
	TaskID string `json:"task_id"`
}

// ListTasksRequest lists a user's tasks.
type ListTasksRequest struct {
	UserID string `json:"user_id"`
}

// ListTasksResponse carries all tasks, newest first.
type ListTasksResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Total int            `json:"total"`
}

// UpdateTaskStatusRequest moves a task along the status state machine.
type UpdateTaskStatusRequest struct {
	UserID string `json:"user_id"`
	TaskID string `json:"task_id"`
	Status string `json:"status"`
}

// DeleteTaskRequest deletes a task and its catalyst.
type DeleteTaskRequest struct {
	UserID string `json:"user_id"`
	TaskID string `json:"task_id"`
}

// DeleteTaskResponse reports the deletion outcome.
type DeleteTaskResponse struct {
	Deleted bool `json:"deleted"`
}

// CompleteCatalystRequest toggles a catalyst's completion flag.
type CompleteCatalystRequest struct {
	UserID     string `json:"user_id"`
	CatalystID string `json:"catalyst_id"`
	Completed  bool   `json:"completed"`
}

// RegenerateCatalystRequest replaces a task's catalyst with a fresh one.
type RegenerateCatalystRequest struct {
	UserID string `json:"user_id"`
	TaskID string `json:"task_id"`
}

// GetAnalyticsRequest computes the analytics snapshot for a user.
type GetAnalyticsRequest struct {
	UserID string `json:"user_id"`
}

// TaskResponse is the wire representation of a task.
type TaskResponse struct {
	ID          string            `json:"id"`
	UserID      string            `json:"user_id"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Category    string            `json:"category"`
	Priority    string            `json:"priority"`
	Status      string            `json:"status"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Catalyst    *CatalystResponse `json:"catalyst,omitempty"`
}

// CatalystResponse is the wire representation of a catalyst.
type CatalystResponse struct {
	ID               string     `json:"id"`
	TaskID           string     `json:"task_id"`
	Content          string     `json:"content"`
	EstimatedMinutes int        `json:"estimated_minutes"`
	Completed        bool       `json:"completed"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	RelevanceScore   int        `json:"relevance_score"`
	MatchedInterests []string   `json:"matched_interests,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// toTaskResponse converts a domain Task to its wire representation.
func toTaskResponse(t *domain.Task) TaskResponse {
	resp := TaskResponse{
		ID:          t.ID,
		UserID:      t.UserID,
		Title:       t.Title,
		Description: t.Description,
		Category:    t.Category,
		Priority:    string(t.Priority),
		Status:      string(t.Status),
		CompletedAt: t.CompletedAt,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.Catalyst != nil {
		c := toCatalystResponse(t.Catalyst)
		resp.Catalyst = &c
	}
	return resp
}

// toCatalystResponse converts a domain Catalyst to its wire representation.
func toCatalystResponse(c *domain.Catalyst) CatalystResponse {
	return CatalystResponse{
		ID:               c.ID,
		TaskID:           c.TaskID,
		Content:          c.Content,
		EstimatedMinutes: c.EstimatedMinutes,
		Completed:        c.Completed,
		CompletedAt:      c.CompletedAt,
		RelevanceScore:   c.RelevanceScore,
		MatchedInterests: c.MatchedInterestList(),
		CreatedAt:        c.CreatedAt,
	}
}
