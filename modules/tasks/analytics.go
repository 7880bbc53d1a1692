package tasks

import (
	"errors"
	"math"
	"time"
)

// ErrAnalyticsUnavailable is returned when the underlying storage reads
// behind the snapshot fail. There is no meaningful fallback for
// aggregate statistics.
var ErrAnalyticsUnavailable = errors.New("analytics unavailable")

// Snapshot is a point-in-time summary of a user's task history. It is
// recomputed from task and event rows on every request and never stored.
type Snapshot struct {
	TotalTasks          int `json:"total_tasks"`
	CompletedTasks      int `json:"completed_tasks"`
	TasksStartedToday   int `json:"tasks_started_today"`
	CatalystSuccessRate int `json:"catalyst_success_rate"`
	AverageTimeToStart  int `json:"average_time_to_start"`
	CompletionRate      int `json:"completion_rate"`
}

// localMidnight returns today's midnight in server local time, the
// boundary for "started today".
func localMidnight(now time.Time) time.Time {
	year, month, day := now.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, now.Location())
}

// ComputeAnalytics builds the snapshot for one user. A user with no data
// gets all-zero fields; rates are rounded to the nearest integer. The
// individual metrics have no ordering dependency between them.
func (r *Repository) ComputeAnalytics(userID string) (Snapshot, error) {
	totalTasks, err := r.CountTasks(userID)
	if err != nil {
		return Snapshot{}, err
	}

	completedTasks, err := r.CountCompletedTasks(userID)
	if err != nil {
		return Snapshot{}, err
	}

	startedToday, err := r.CountTasksStartedSince(userID, localMidnight(time.Now()))
	if err != nil {
		return Snapshot{}, err
	}

	totalEvents, completedCatalysts, err := r.EventCounts(userID)
	if err != nil {
		return Snapshot{}, err
	}

	avgTimeToStart, hasAvg, err := r.AverageTimeToStart(userID)
	if err != nil {
		return Snapshot{}, err
	}

	snapshot := Snapshot{
		TotalTasks:        int(totalTasks),
		CompletedTasks:    int(completedTasks),
		TasksStartedToday: int(startedToday),
	}
	if totalEvents > 0 {
		snapshot.CatalystSuccessRate = roundPercent(completedCatalysts, totalEvents)
	}
	if hasAvg {
		snapshot.AverageTimeToStart = int(math.Round(avgTimeToStart))
	}
	if totalTasks > 0 {
		snapshot.CompletionRate = roundPercent(completedTasks, totalTasks)
	}

	return snapshot, nil
}

// roundPercent computes part/whole as a percentage rounded to the
// nearest integer. Callers guard against a zero whole.
func roundPercent(part, whole int64) int {
	return int(math.Round(float64(part) / float64(whole) * 100))
}
