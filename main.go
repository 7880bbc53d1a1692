package main

import (
	"context"
	"log"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"

	"github.com/HichamMeziani/TaskCatalyst/modules/activity"
	"github.com/HichamMeziani/TaskCatalyst/modules/api"
	"github.com/HichamMeziani/TaskCatalyst/modules/auth"
	"github.com/HichamMeziani/TaskCatalyst/modules/billing"
	"github.com/HichamMeziani/TaskCatalyst/modules/catalyst"
	"github.com/HichamMeziani/TaskCatalyst/modules/tasks"
)

const shutdownTimeout = 30 * time.Second

func main() {
	log.Println("=== TaskCatalyst ===")

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Register modules with the framework
	// Order: independent modules first, then dependent modules
	app.Register(auth.NewModule())     // Identity, onboarding profile, billing ids
	app.Register(catalyst.NewModule()) // Catalyst generation with fallback templates
	app.Register(tasks.NewModule())    // Tasks, catalysts, events, analytics
	app.Register(activity.NewModule()) // Community feed built from task events
	app.Register(billing.NewModule())  // Paid subscriptions via Stripe
	app.Register(api.NewModule())      // HTTP edge

	// Start application
	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo()

	// Graceful shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}

	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Printf("REST API Endpoints (http://localhost:%s):", port)
	log.Println("")
	log.Println("  Public Endpoints:")
	log.Println("  POST   /api/auth/register                      - Register a new user")
	log.Println("  POST   /api/auth/login                         - Login and get tokens")
	log.Println("  POST   /api/auth/refresh                       - Refresh access token")
	log.Println("  GET    /health                                 - Health check")
	log.Println("")
	log.Println("  Protected Endpoints (require Bearer token):")
	log.Println("  GET    /api/auth/user                          - Current user profile")
	log.Println("  POST   /api/onboarding                         - Complete onboarding")
	log.Println("  POST   /api/tasks                              - Create task with catalyst")
	log.Println("  GET    /api/tasks                              - List tasks")
	log.Println("  GET    /api/tasks/:taskId                      - Get one task")
	log.Println("  PATCH  /api/tasks/:taskId/status               - Update task status")
	log.Println("  DELETE /api/tasks/:taskId                      - Delete task")
	log.Println("  POST   /api/tasks/:taskId/catalyst/regenerate  - Regenerate catalyst")
	log.Println("  PATCH  /api/catalysts/:catalystId/complete     - Toggle catalyst completion")
	log.Println("  GET    /api/analytics                          - Analytics snapshot")
	log.Println("  GET    /api/activity-feed                      - Recent community activity")
	log.Println("  POST   /api/get-or-create-subscription         - Start a paid subscription")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
