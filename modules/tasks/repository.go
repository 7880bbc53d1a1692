package tasks

import (
	"database/sql"
	"errors"
	"time"

	"gorm.io/gorm"

	domain "github.com/HichamMeziani/TaskCatalyst/domain/task"
)

var (
	// ErrTaskNotFound is returned when a task does not exist or is not
	// owned by the requesting user.
	ErrTaskNotFound = errors.New("task not found")
	// ErrCatalystNotFound is returned when a catalyst does not exist or
	// its task is not owned by the requesting user.
	ErrCatalystNotFound = errors.New("catalyst not found")
)

// Repository handles task, catalyst, and task-event persistence using
// GORM. All reads and writes are scoped by the owning user id.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new Repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

// CreateTask creates a new task.
func (r *Repository) CreateTask(task *domain.Task) error {
	return r.db.Create(task).Error
}

// FindTask finds a task owned by userID, with its catalyst attached.
func (r *Repository) FindTask(taskID, userID string) (*domain.Task, error) {
	var task domain.Task
	result := r.db.Preload("Catalyst").
		First(&task, "id = ? AND user_id = ?", taskID, userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, result.Error
	}
	return &task, nil
}

// ListTasks returns all of a user's tasks with catalysts, newest first.
func (r *Repository) ListTasks(userID string) ([]*domain.Task, error) {
	var tasks []*domain.Task
	result := r.db.Preload("Catalyst").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}
	return tasks, nil
}

// UpdateTask saves the full task row.
func (r *Repository) UpdateTask(task *domain.Task) error {
	return r.db.Omit("Catalyst").Save(task).Error
}

// DeleteTask removes a task and its catalyst. Task events are an
// append-only log and are retained. Returns ErrTaskNotFound when the
// task does not exist for that user.
func (r *Repository) DeleteTask(taskID, userID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND user_id = ?", taskID, userID).
			Delete(&domain.Task{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrTaskNotFound
		}
		return tx.Where("task_id = ?", taskID).Delete(&domain.Catalyst{}).Error
	})
}

// CreateCatalyst creates a new catalyst row.
func (r *Repository) CreateCatalyst(c *domain.Catalyst) error {
	return r.db.Create(c).Error
}

// FindCatalyst finds a catalyst whose task is owned by userID.
func (r *Repository) FindCatalyst(catalystID, userID string) (*domain.Catalyst, error) {
	var c domain.Catalyst
	result := r.db.
		Joins("JOIN tasks ON tasks.id = catalysts.task_id").
		Where("catalysts.id = ? AND tasks.user_id = ?", catalystID, userID).
		First(&c)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCatalystNotFound
		}
		return nil, result.Error
	}
	return &c, nil
}

// UpdateCatalyst saves the full catalyst row.
func (r *Repository) UpdateCatalyst(c *domain.Catalyst) error {
	return r.db.Save(c).Error
}

// ReplaceCatalyst atomically swaps the task's catalyst for a new one,
// keeping at most one active catalyst per task.
func (r *Repository) ReplaceCatalyst(c *domain.Catalyst) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", c.TaskID).Delete(&domain.Catalyst{}).Error; err != nil {
			return err
		}
		return tx.Create(c).Error
	})
}

// AppendEvent appends one row to the task event log.
func (r *Repository) AppendEvent(e *domain.Event) error {
	return r.db.Create(e).Error
}

// CountTasks returns the number of tasks owned by userID.
func (r *Repository) CountTasks(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&domain.Task{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// CountCompletedTasks returns the number of completed tasks.
func (r *Repository) CountCompletedTasks(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&domain.Task{}).
		Where("user_id = ? AND status = ?", userID, domain.StatusCompleted).
		Count(&count).Error
	return count, err
}

// CountTasksStartedSince returns the number of tasks created on or after
// since that have moved out of not_started.
func (r *Repository) CountTasksStartedSince(userID string, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&domain.Task{}).
		Where("user_id = ? AND created_at >= ? AND status != ?", userID, since, domain.StatusNotStarted).
		Count(&count).Error
	return count, err
}

// EventCounts returns the total number of event rows for the user and
// how many of them carry the catalyst-completed flag.
func (r *Repository) EventCounts(userID string) (total, catalystCompleted int64, err error) {
	if err = r.db.Model(&domain.Event{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err = r.db.Model(&domain.Event{}).
		Where("user_id = ? AND catalyst_completed = ?", userID, true).
		Count(&catalystCompleted).Error; err != nil {
		return 0, 0, err
	}
	return total, catalystCompleted, nil
}

// AverageTimeToStart returns the mean of the user's non-null
// time_to_start values in minutes, and false when no such values exist.
func (r *Repository) AverageTimeToStart(userID string) (float64, bool, error) {
	var avg sql.NullFloat64
	err := r.db.Model(&domain.Event{}).
		Where("user_id = ? AND time_to_start IS NOT NULL", userID).
		Select("AVG(time_to_start)").
		Scan(&avg).Error
	if err != nil {
		return 0, false, err
	}
	if !avg.Valid {
		return 0, false, nil
	}
	return avg.Float64, true, nil
}
