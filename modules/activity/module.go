package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/google/uuid"

	"github.com/HichamMeziani/TaskCatalyst/events"
)

// ActivityModule keeps a bounded in-memory community feed of recent task
// activity, built from task events. The feed is ephemeral and rebuilds
// from new events after a restart.
type ActivityModule struct {
	feed *Feed
}

// Compile-time interface checks.
var _ mono.Module = (*ActivityModule)(nil)
var _ mono.EventConsumerModule = (*ActivityModule)(nil)
var _ mono.ServiceProviderModule = (*ActivityModule)(nil)

// NewModule creates a new ActivityModule.
func NewModule() *ActivityModule {
	return &ActivityModule{
		feed: NewFeed(),
	}
}

// Name returns the module name.
func (m *ActivityModule) Name() string {
	return "activity"
}

// RegisterEventConsumers subscribes to the task events that appear in
// the feed.
func (m *ActivityModule) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskCreatedV1, m.handleTaskCreated, m); err != nil {
		return fmt.Errorf("failed to register TaskCreated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskStartedV1, m.handleTaskStarted, m); err != nil {
		return fmt.Errorf("failed to register TaskStarted consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskCompletedV1, m.handleTaskCompleted, m); err != nil {
		return fmt.Errorf("failed to register TaskCompleted consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.CatalystCompletedV1, m.handleCatalystCompleted, m); err != nil {
		return fmt.Errorf("failed to register CatalystCompleted consumer: %w", err)
	}

	log.Printf("[activity] Registered event consumers: TaskCreated, TaskStarted, TaskCompleted, CatalystCompleted")
	return nil
}

func (m *ActivityModule) handleTaskCreated(_ context.Context, event events.TaskCreatedEvent, _ *mono.Msg) error {
	m.feed.Add(Entry{
		ID:        uuid.New().String(),
		UserID:    event.UserID,
		Username:  event.Username,
		Action:    ActionCreated,
		TaskTitle: event.Title,
		Timestamp: event.CreatedAt,
	})
	return nil
}

func (m *ActivityModule) handleTaskStarted(_ context.Context, event events.TaskStartedEvent, _ *mono.Msg) error {
	m.feed.Add(Entry{
		ID:        uuid.New().String(),
		UserID:    event.UserID,
		Username:  event.Username,
		Action:    ActionStarted,
		TaskTitle: event.Title,
		Timestamp: event.StartedAt,
	})
	return nil
}

func (m *ActivityModule) handleTaskCompleted(_ context.Context, event events.TaskCompletedEvent, _ *mono.Msg) error {
	m.feed.Add(Entry{
		ID:                uuid.New().String(),
		UserID:            event.UserID,
		Username:          event.Username,
		Action:            ActionCompleted,
		TaskTitle:         event.Title,
		ProductivityScore: event.ProductivityScore,
		Timestamp:         event.CompletedAt,
	})
	return nil
}

func (m *ActivityModule) handleCatalystCompleted(_ context.Context, event events.CatalystCompletedEvent, _ *mono.Msg) error {
	m.feed.Add(Entry{
		ID:        uuid.New().String(),
		UserID:    event.UserID,
		Username:  event.Username,
		Action:    ActionCatalystCompleted,
		TaskTitle: event.TaskTitle,
		Timestamp: event.CompletedAt,
	})
	return nil
}

// GetFeedRequest requests the most recent feed entries.
type GetFeedRequest struct {
	Limit int `json:"limit,omitempty"`
}

// GetFeedResponse carries feed entries, newest first.
type GetFeedResponse struct {
	Entries []Entry `json:"entries"`
}

// defaultFeedLimit is the number of entries returned when the request
// does not specify one.
const defaultFeedLimit = 20

// getFeed handles the get-feed service request.
func (m *ActivityModule) getFeed(_ context.Context, req GetFeedRequest, _ *mono.Msg) (GetFeedResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultFeedLimit
	}
	return GetFeedResponse{Entries: m.feed.Recent(limit)}, nil
}

// RegisterServices registers request-reply services in the service container.
func (m *ActivityModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "get-feed", json.Unmarshal, json.Marshal, m.getFeed,
	); err != nil {
		return fmt.Errorf("failed to register get-feed service: %w", err)
	}

	log.Printf("[activity] Registered services: get-feed")
	return nil
}

// Start initializes the module.
func (m *ActivityModule) Start(_ context.Context) error {
	log.Println("[activity] Module started - listening for task events")
	return nil
}

// Stop shuts the module down.
func (m *ActivityModule) Stop(_ context.Context) error {
	log.Println("[activity] Module stopped")
	return nil
}
