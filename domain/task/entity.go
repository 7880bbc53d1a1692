package task

import (
	"encoding/json"
	"time"
)

// Status represents the state of a task. Transitions only move forward:
// not_started -> in_progress -> completed, with the in_progress step
// optionally skipped.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Valid reports whether s is one of the three known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// rank orders statuses along the forward path.
func (s Status) rank() int {
	switch s {
	case StatusNotStarted:
		return 0
	case StatusInProgress:
		return 1
	case StatusCompleted:
		return 2
	}
	return -1
}

// CanTransitionTo reports whether moving from s to next is a forward
// transition. Skipping in_progress is allowed; backward and same-state
// moves are not.
func (s Status) CanTransitionTo(next Status) bool {
	return s.Valid() && next.Valid() && next.rank() > s.rank()
}

// Priority represents task priority.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the three known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task is the core domain entity. Invariant: CompletedAt is set if and
// only if Status is completed.
type Task struct {
	ID          string     `gorm:"primaryKey;type:text" json:"id"`
	UserID      string     `gorm:"index;not null;type:text" json:"user_id"`
	Title       string     `gorm:"not null;type:text" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Category    string     `gorm:"type:text;default:personal" json:"category"`
	Priority    Priority   `gorm:"type:text;default:medium" json:"priority"`
	Status      Status     `gorm:"type:text;default:not_started" json:"status"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Catalyst *Catalyst `gorm:"foreignKey:TaskID" json:"catalyst,omitempty"`
}

// TableName returns the table name for the Task entity.
func (Task) TableName() string {
	return "tasks"
}

// Catalyst is the micro-task attached to a Task. At most one is active
// per task; regeneration replaces it. Deleted with its task.
type Catalyst struct {
	ID               string     `gorm:"primaryKey;type:text" json:"id"`
	TaskID           string     `gorm:"index;not null;type:text" json:"task_id"`
	Content          string     `gorm:"not null;type:text" json:"content"`
	EstimatedMinutes int        `gorm:"default:5" json:"estimated_minutes"`
	Completed        bool       `json:"completed"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	// RelevanceScore is 0-100 based on how many user interests the task
	// touches. MatchedInterests is a JSON-encoded string list.
	RelevanceScore   int       `json:"relevance_score"`
	MatchedInterests string    `gorm:"type:text" json:"-"`
	CreatedAt        time.Time `json:"created_at"`
}

// TableName returns the table name for the Catalyst entity.
func (Catalyst) TableName() string {
	return "catalysts"
}

// MatchedInterestList decodes the JSON-encoded matched interests column.
func (c *Catalyst) MatchedInterestList() []string {
	if c.MatchedInterests == "" {
		return nil
	}
	var interests []string
	if err := json.Unmarshal([]byte(c.MatchedInterests), &interests); err != nil {
		return nil
	}
	return interests
}

// SetMatchedInterestList encodes the matched interests into the JSON column.
func (c *Catalyst) SetMatchedInterestList(interests []string) {
	data, err := json.Marshal(interests)
	if err != nil {
		c.MatchedInterests = "[]"
		return
	}
	c.MatchedInterests = string(data)
}

// Event is one row of the append-only task transition log. One row is
// written at task creation (all flags false) and one per transition or
// milestone afterwards. Rows are never updated.
type Event struct {
	ID                string `gorm:"primaryKey;type:text" json:"id"`
	UserID            string `gorm:"index;not null;type:text" json:"user_id"`
	TaskID            string `gorm:"index;not null;type:text" json:"task_id"`
	CatalystCompleted bool   `json:"catalyst_completed"`
	TaskStarted       bool   `json:"task_started"`
	TaskCompleted     bool   `json:"task_completed"`
	// Elapsed minutes from task creation; nil when the row does not
	// record the corresponding transition.
	TimeToStart    *int      `json:"time_to_start,omitempty"`
	TimeToComplete *int      `json:"time_to_complete,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName returns the table name for the Event entity.
func (Event) TableName() string {
	return "task_events"
}
