package api

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/go-monolith/mono"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/HichamMeziani/TaskCatalyst/modules/auth"
)

// APIModule is the HTTP edge of the application. It translates HTTP
// requests into service calls on the other modules.
type APIModule struct {
	app               *fiber.App
	port              string
	authContainer     mono.ServiceContainer
	tasksContainer    mono.ServiceContainer
	activityContainer mono.ServiceContainer
	billingContainer  mono.ServiceContainer
	authAdapter       auth.AuthPort
}

// Compile-time interface checks.
var _ mono.Module = (*APIModule)(nil)
var _ mono.DependentModule = (*APIModule)(nil)
var _ mono.HealthCheckableModule = (*APIModule)(nil)

// NewModule creates a new APIModule. The listen port comes from PORT,
// defaulting to 5000.
func NewModule() *APIModule {
	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}
	return &APIModule{
		port: port,
	}
}

// Name returns the module name.
func (m *APIModule) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *APIModule) Dependencies() []string {
	return []string{"auth", "tasks", "activity", "billing"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *APIModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "auth":
		m.authContainer = container
		m.authAdapter = auth.NewAuthAdapter(container)
	case "tasks":
		m.tasksContainer = container
	case "activity":
		m.activityContainer = container
	case "billing":
		m.billingContainer = container
	}
}

// Start initializes the Fiber HTTP server.
func (m *APIModule) Start(_ context.Context) error {
	if m.authContainer == nil {
		return fmt.Errorf("auth dependency not set")
	}
	if m.tasksContainer == nil {
		return fmt.Errorf("tasks dependency not set")
	}
	if m.activityContainer == nil {
		return fmt.Errorf("activity dependency not set")
	}
	if m.billingContainer == nil {
		return fmt.Errorf("billing dependency not set")
	}

	m.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          customErrorHandler,
	})

	m.app.Use(recover.New())
	m.app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	m.app.Use(cors.New())

	m.setupRoutes()

	go func() {
		if err := m.app.Listen(":" + m.port); err != nil {
			log.Printf("[api] HTTP server error: %v", err)
		}
	}()

	log.Printf("[api] HTTP server started on :%s", m.port)
	return nil
}

// Stop shuts down the Fiber HTTP server.
func (m *APIModule) Stop(_ context.Context) error {
	if m.app == nil {
		return nil
	}
	log.Println("[api] Shutting down HTTP server...")
	return m.app.Shutdown()
}

// Health returns the health status of the module.
func (m *APIModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"port": m.port,
		},
	}
}

// setupRoutes configures all API routes.
func (m *APIModule) setupRoutes() {
	handlers := NewHandlers(
		m.authContainer,
		m.tasksContainer,
		m.activityContainer,
		m.billingContainer,
		m.authAdapter,
	)

	// Health check endpoint
	m.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"module": "api",
		})
	})

	api := m.app.Group("/api")

	// Public auth routes
	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", handlers.Register)
	authRoutes.Post("/login", handlers.Login)
	authRoutes.Post("/refresh", handlers.Refresh)

	// Everything else requires authentication
	protected := api.Group("")
	protected.Use(AuthMiddleware(m.authAdapter))

	protected.Get("/auth/user", handlers.CurrentUser)
	protected.Post("/onboarding", handlers.CompleteOnboarding)

	protected.Post("/tasks", handlers.CreateTask)
	protected.Get("/tasks", handlers.ListTasks)
	protected.Get("/tasks/:taskId", handlers.GetTask)
	protected.Patch("/tasks/:taskId/status", handlers.UpdateTaskStatus)
	protected.Delete("/tasks/:taskId", handlers.DeleteTask)
	protected.Post("/tasks/:taskId/catalyst/regenerate", handlers.RegenerateCatalyst)
	protected.Patch("/catalysts/:catalystId/complete", handlers.CompleteCatalyst)

	protected.Get("/analytics", handlers.GetAnalytics)
	protected.Get("/activity-feed", handlers.ActivityFeed)
	protected.Post("/get-or-create-subscription", handlers.GetOrCreateSubscription)
}

// customErrorHandler handles Fiber errors.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(ErrorResponse{
		Error:   "server_error",
		Message: message,
	})
}
