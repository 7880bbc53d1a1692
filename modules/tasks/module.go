package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	domain "github.com/HichamMeziani/TaskCatalyst/domain/task"
	"github.com/HichamMeziani/TaskCatalyst/events"
	"github.com/HichamMeziani/TaskCatalyst/modules/auth"
	"github.com/HichamMeziani/TaskCatalyst/modules/catalyst"
)

// TasksModule owns task, catalyst, and task-event persistence plus the
// analytics snapshot. It depends on auth for user profiles and on the
// catalyst module for generation.
type TasksModule struct {
	db           *gorm.DB
	repo         *Repository
	authPort     auth.AuthPort
	catalystPort catalyst.Port
	eventBus     mono.EventBus
	dbPath       string
}

// Compile-time interface checks.
var _ mono.Module = (*TasksModule)(nil)
var _ mono.ServiceProviderModule = (*TasksModule)(nil)
var _ mono.DependentModule = (*TasksModule)(nil)
var _ mono.EventEmitterModule = (*TasksModule)(nil)
var _ mono.HealthCheckableModule = (*TasksModule)(nil)

// NewModule creates a new TasksModule.
func NewModule() *TasksModule {
	return &TasksModule{
		dbPath: auth.DBPath(),
	}
}

// Name returns the module name.
func (m *TasksModule) Name() string {
	return "tasks"
}

// Dependencies returns the list of module dependencies.
func (m *TasksModule) Dependencies() []string {
	return []string{"auth", "catalyst"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *TasksModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "auth":
		m.authPort = auth.NewAuthAdapter(container)
	case "catalyst":
		m.catalystPort = catalyst.NewAdapter(container)
	}
}

// SetEventBus receives the application event bus.
func (m *TasksModule) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events this module publishes.
func (m *TasksModule) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.TaskCreatedV1.ToBase(),
		events.TaskStartedV1.ToBase(),
		events.TaskCompletedV1.ToBase(),
		events.TaskDeletedV1.ToBase(),
		events.CatalystCompletedV1.ToBase(),
	}
}

// Start opens the database and wires the repository.
func (m *TasksModule) Start(_ context.Context) error {
	if m.authPort == nil {
		return fmt.Errorf("auth dependency not set")
	}
	if m.catalystPort == nil {
		return fmt.Errorf("catalyst dependency not set")
	}
	if m.eventBus == nil {
		log.Println("[tasks] Warning: eventBus not set, events will not be published")
	}

	db, err := gorm.Open(sqlite.Open(m.dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	m.db = db

	if err := db.AutoMigrate(&domain.Task{}, &domain.Catalyst{}, &domain.Event{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	m.repo = NewRepository(db)

	log.Printf("[tasks] Module started (database: %s)", m.dbPath)
	return nil
}

// Stop closes the database.
func (m *TasksModule) Stop(_ context.Context) error {
	if m.db != nil {
		sqlDB, err := m.db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
	log.Println("[tasks] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *TasksModule) Health(_ context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get database connection: %v", err),
		}
	}

	if err := sqlDB.Ping(); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"database": m.dbPath,
		},
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *TasksModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "create-task", json.Unmarshal, json.Marshal, m.createTask,
	); err != nil {
		return fmt.Errorf("failed to register create-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get-task", json.Unmarshal, json.Marshal, m.getTask,
	); err != nil {
		return fmt.Errorf("failed to register get-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "list-tasks", json.Unmarshal, json.Marshal, m.listTasks,
	); err != nil {
		return fmt.Errorf("failed to register list-tasks service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "update-task-status", json.Unmarshal, json.Marshal, m.updateTaskStatus,
	); err != nil {
		return fmt.Errorf("failed to register update-task-status service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "delete-task", json.Unmarshal, json.Marshal, m.deleteTask,
	); err != nil {
		return fmt.Errorf("failed to register delete-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "complete-catalyst", json.Unmarshal, json.Marshal, m.completeCatalyst,
	); err != nil {
		return fmt.Errorf("failed to register complete-catalyst service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "regenerate-catalyst", json.Unmarshal, json.Marshal, m.regenerateCatalyst,
	); err != nil {
		return fmt.Errorf("failed to register regenerate-catalyst service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get-analytics", json.Unmarshal, json.Marshal, m.getAnalytics,
	); err != nil {
		return fmt.Errorf("failed to register get-analytics service: %w", err)
	}

	log.Printf("[tasks] Registered services: create-task, get-task, list-tasks, update-task-status, delete-task, complete-catalyst, regenerate-catalyst, get-analytics")
	return nil
}

// publish sends an event when the bus is wired. Publishing is
// best-effort; failures are logged and do not fail the operation.
func (m *TasksModule) publish(eventName string, publish func() error) {
	if m.eventBus == nil {
		return
	}
	if err := publish(); err != nil {
		log.Printf("[tasks] Warning: failed to publish %s event: %v", eventName, err)
	}
}
