package tasks

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-monolith/mono"
	"github.com/google/uuid"

	domain "github.com/HichamMeziani/TaskCatalyst/domain/task"
	"github.com/HichamMeziani/TaskCatalyst/events"
	"github.com/HichamMeziani/TaskCatalyst/modules/catalyst"
)

var (
	// ErrTitleRequired is returned when a task is created without a title.
	ErrTitleRequired = errors.New("task title is required")
	// ErrInvalidPriority is returned for an unknown priority value.
	ErrInvalidPriority = errors.New("invalid priority")
	// ErrInvalidStatus is returned for an unknown status value.
	ErrInvalidStatus = errors.New("invalid status")
	// ErrInvalidTransition is returned when a status change would move
	// backward or stay in place.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Productivity points awarded per action.
const (
	pointsTaskStarted       = 3
	pointsTaskCompleted     = 10
	pointsCatalystCompleted = 3
)

// createTask handles the create-task service request. The response
// always carries a catalyst: generation falls back to the template table
// and, failing even the service call, to a local fallback.
func (m *TasksModule) createTask(ctx context.Context, req CreateTaskRequest, _ *mono.Msg) (CreateTaskResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return CreateTaskResponse{}, ErrTitleRequired
	}

	priority := domain.Priority(req.Priority)
	if req.Priority == "" {
		priority = domain.PriorityMedium
	} else if !priority.Valid() {
		return CreateTaskResponse{}, fmt.Errorf("%w: %q", ErrInvalidPriority, req.Priority)
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = "personal"
	}

	username, interests := m.userContext(ctx, req.UserID)

	now := time.Now()
	newTask := &domain.Task{
		ID:          uuid.New().String(),
		UserID:      req.UserID,
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		Category:    category,
		Priority:    priority,
		Status:      domain.StatusNotStarted,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := m.repo.CreateTask(newTask); err != nil {
		return CreateTaskResponse{}, fmt.Errorf("failed to save task: %w", err)
	}

	generated := m.generateCatalyst(ctx, newTask, interests)
	newCatalyst := &domain.Catalyst{
		ID:               uuid.New().String(),
		TaskID:           newTask.ID,
		Content:          generated.Content,
		EstimatedMinutes: generated.EstimatedMinutes,
		RelevanceScore:   generated.RelevanceScore,
		CreatedAt:        now,
	}
	newCatalyst.SetMatchedInterestList(generated.MatchedInterests)

	if err := m.repo.CreateCatalyst(newCatalyst); err != nil {
		return CreateTaskResponse{}, fmt.Errorf("failed to save catalyst: %w", err)
	}

	// Initial all-false row of the append-only event log.
	if err := m.repo.AppendEvent(&domain.Event{
		ID:        uuid.New().String(),
		UserID:    req.UserID,
		TaskID:    newTask.ID,
		CreatedAt: now,
	}); err != nil {
		return CreateTaskResponse{}, fmt.Errorf("failed to record task event: %w", err)
	}

	m.publish("TaskCreated", func() error {
		return events.TaskCreatedV1.Publish(m.eventBus, events.TaskCreatedEvent{
			TaskID:    newTask.ID,
			Title:     newTask.Title,
			UserID:    newTask.UserID,
			Username:  username,
			CreatedAt: now,
		}, nil)
	})

	return CreateTaskResponse{
		Task:     toTaskResponse(newTask),
		Catalyst: toCatalystResponse(newCatalyst),
	}, nil
}

// getTask handles the get-task service request.
func (m *TasksModule) getTask(_ context.Context, req GetTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	task, err := m.repo.FindTask(req.TaskID, req.UserID)
	if err != nil {
		return TaskResponse{}, err
	}
	return toTaskResponse(task), nil
}

// listTasks handles the list-tasks service request.
func (m *TasksModule) listTasks(_ context.Context, req ListTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	userTasks, err := m.repo.ListTasks(req.UserID)
	if err != nil {
		return ListTasksResponse{}, fmt.Errorf("failed to list tasks: %w", err)
	}

	response := ListTasksResponse{
		Tasks: make([]TaskResponse, 0, len(userTasks)),
		Total: len(userTasks),
	}
	for _, t := range userTasks {
		response.Tasks = append(response.Tasks, toTaskResponse(t))
	}
	return response, nil
}

// updateTaskStatus handles the update-task-status service request,
// enforcing the forward-only state machine and appending one event row
// per transition.
func (m *TasksModule) updateTaskStatus(ctx context.Context, req UpdateTaskStatusRequest, _ *mono.Msg) (TaskResponse, error) {
	next := domain.Status(req.Status)
	if !next.Valid() {
		return TaskResponse{}, fmt.Errorf("%w: %q", ErrInvalidStatus, req.Status)
	}

	task, err := m.repo.FindTask(req.TaskID, req.UserID)
	if err != nil {
		return TaskResponse{}, err
	}

	if !task.Status.CanTransitionTo(next) {
		return TaskResponse{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, task.Status, next)
	}

	now := time.Now()
	elapsed := minutesSince(task.CreatedAt, now)

	task.Status = next
	task.UpdatedAt = now
	if next == domain.StatusCompleted {
		task.CompletedAt = &now
	}

	if err := m.repo.UpdateTask(task); err != nil {
		return TaskResponse{}, fmt.Errorf("failed to update task: %w", err)
	}

	event := &domain.Event{
		ID:        uuid.New().String(),
		UserID:    req.UserID,
		TaskID:    task.ID,
		CreatedAt: now,
	}
	switch next {
	case domain.StatusInProgress:
		event.TaskStarted = true
		event.TimeToStart = &elapsed
	case domain.StatusCompleted:
		event.TaskCompleted = true
		event.TimeToComplete = &elapsed
	}
	if err := m.repo.AppendEvent(event); err != nil {
		return TaskResponse{}, fmt.Errorf("failed to record task event: %w", err)
	}

	username, _ := m.userContext(ctx, req.UserID)
	switch next {
	case domain.StatusInProgress:
		m.awardPoints(ctx, req.UserID, pointsTaskStarted)
		m.publish("TaskStarted", func() error {
			return events.TaskStartedV1.Publish(m.eventBus, events.TaskStartedEvent{
				TaskID:      task.ID,
				Title:       task.Title,
				UserID:      task.UserID,
				Username:    username,
				TimeToStart: elapsed,
				StartedAt:   now,
			}, nil)
		})
	case domain.StatusCompleted:
		score := m.awardPoints(ctx, req.UserID, pointsTaskCompleted)
		m.publish("TaskCompleted", func() error {
			return events.TaskCompletedV1.Publish(m.eventBus, events.TaskCompletedEvent{
				TaskID:            task.ID,
				Title:             task.Title,
				UserID:            task.UserID,
				Username:          username,
				TimeToComplete:    elapsed,
				ProductivityScore: score,
				CompletedAt:       now,
			}, nil)
		})
	}

	return toTaskResponse(task), nil
}

// deleteTask handles the delete-task service request.
func (m *TasksModule) deleteTask(_ context.Context, req DeleteTaskRequest, _ *mono.Msg) (DeleteTaskResponse, error) {
	if err := m.repo.DeleteTask(req.TaskID, req.UserID); err != nil {
		return DeleteTaskResponse{Deleted: false}, err
	}

	m.publish("TaskDeleted", func() error {
		return events.TaskDeletedV1.Publish(m.eventBus, events.TaskDeletedEvent{
			TaskID:    req.TaskID,
			UserID:    req.UserID,
			DeletedAt: time.Now(),
		}, nil)
	})

	return DeleteTaskResponse{Deleted: true}, nil
}

// completeCatalyst handles the complete-catalyst service request.
// Completing appends a catalyst-completed event row; un-completing only
// clears the flag.
func (m *TasksModule) completeCatalyst(ctx context.Context, req CompleteCatalystRequest, _ *mono.Msg) (CatalystResponse, error) {
	c, err := m.repo.FindCatalyst(req.CatalystID, req.UserID)
	if err != nil {
		return CatalystResponse{}, err
	}

	now := time.Now()
	c.Completed = req.Completed
	if req.Completed {
		c.CompletedAt = &now
	} else {
		c.CompletedAt = nil
	}

	if err := m.repo.UpdateCatalyst(c); err != nil {
		return CatalystResponse{}, fmt.Errorf("failed to update catalyst: %w", err)
	}

	if req.Completed {
		if err := m.repo.AppendEvent(&domain.Event{
			ID:                uuid.New().String(),
			UserID:            req.UserID,
			TaskID:            c.TaskID,
			CatalystCompleted: true,
			CreatedAt:         now,
		}); err != nil {
			return CatalystResponse{}, fmt.Errorf("failed to record task event: %w", err)
		}

		m.awardPoints(ctx, req.UserID, pointsCatalystCompleted)

		username, _ := m.userContext(ctx, req.UserID)
		title := ""
		if task, err := m.repo.FindTask(c.TaskID, req.UserID); err == nil {
			title = task.Title
		}
		m.publish("CatalystCompleted", func() error {
			return events.CatalystCompletedV1.Publish(m.eventBus, events.CatalystCompletedEvent{
				CatalystID:  c.ID,
				TaskID:      c.TaskID,
				TaskTitle:   title,
				UserID:      req.UserID,
				Username:    username,
				CompletedAt: now,
			}, nil)
		})
	}

	return toCatalystResponse(c), nil
}

// regenerateCatalyst handles the regenerate-catalyst service request,
// replacing the task's catalyst so at most one stays active.
func (m *TasksModule) regenerateCatalyst(ctx context.Context, req RegenerateCatalystRequest, _ *mono.Msg) (CatalystResponse, error) {
	task, err := m.repo.FindTask(req.TaskID, req.UserID)
	if err != nil {
		return CatalystResponse{}, err
	}

	_, interests := m.userContext(ctx, req.UserID)
	generated := m.generateCatalyst(ctx, task, interests)

	now := time.Now()
	newCatalyst := &domain.Catalyst{
		ID:               uuid.New().String(),
		TaskID:           task.ID,
		Content:          generated.Content,
		EstimatedMinutes: generated.EstimatedMinutes,
		RelevanceScore:   generated.RelevanceScore,
		CreatedAt:        now,
	}
	newCatalyst.SetMatchedInterestList(generated.MatchedInterests)

	if err := m.repo.ReplaceCatalyst(newCatalyst); err != nil {
		return CatalystResponse{}, fmt.Errorf("failed to replace catalyst: %w", err)
	}

	return toCatalystResponse(newCatalyst), nil
}

// getAnalytics handles the get-analytics service request.
func (m *TasksModule) getAnalytics(_ context.Context, req GetAnalyticsRequest, _ *mono.Msg) (Snapshot, error) {
	snapshot, err := m.repo.ComputeAnalytics(req.UserID)
	if err != nil {
		log.Printf("[tasks] analytics computation failed for user %s: %v", req.UserID, err)
		return Snapshot{}, ErrAnalyticsUnavailable
	}
	return snapshot, nil
}

// generateCatalyst asks the catalyst service for a suggestion. A failed
// service call degrades to the local fallback table so the task still
// gets a catalyst.
func (m *TasksModule) generateCatalyst(ctx context.Context, task *domain.Task, interests []string) catalyst.Result {
	result, err := m.catalystPort.Generate(ctx, catalyst.GenerateRequest{
		TaskTitle:       task.Title,
		TaskDescription: task.Description,
		Category:        task.Category,
		Priority:        string(task.Priority),
		Interests:       interests,
	})
	if err != nil {
		log.Printf("[tasks] catalyst service unavailable, using local fallback: %v", err)
		return catalyst.Fallback(task.Title)
	}
	return result
}

// awardPoints raises the user's productivity score, best-effort. A
// failed award never fails the triggering operation; the returned score
// is zero in that case.
func (m *TasksModule) awardPoints(ctx context.Context, userID string, points int) int {
	score, err := m.authPort.AddProductivityPoints(ctx, userID, points)
	if err != nil {
		log.Printf("[tasks] failed to award productivity points to user %s: %v", userID, err)
		return 0
	}
	return score
}

// userContext fetches the user's display name and interests, degrading
// to anonymous defaults when the auth lookup fails.
func (m *TasksModule) userContext(ctx context.Context, userID string) (string, []string) {
	profile, err := m.authPort.GetUser(ctx, userID)
	if err != nil {
		log.Printf("[tasks] failed to load user %s: %v", userID, err)
		return "Someone", nil
	}
	return profile.DisplayName, profile.Interests
}

// minutesSince returns whole elapsed minutes between from and now.
func minutesSince(from, now time.Time) int {
	return int(now.Sub(from).Minutes())
}
