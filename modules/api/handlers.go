package api

import (
	"encoding/json"
	"log"
	"strings"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/gofiber/fiber/v2"

	domain "github.com/HichamMeziani/TaskCatalyst/domain/user"
	"github.com/HichamMeziani/TaskCatalyst/modules/activity"
	"github.com/HichamMeziani/TaskCatalyst/modules/auth"
	"github.com/HichamMeziani/TaskCatalyst/modules/billing"
	"github.com/HichamMeziani/TaskCatalyst/modules/tasks"
)

// Handlers contains HTTP handlers for the API.
type Handlers struct {
	authContainer     mono.ServiceContainer
	tasksContainer    mono.ServiceContainer
	activityContainer mono.ServiceContainer
	billingContainer  mono.ServiceContainer
	authAdapter       auth.AuthPort
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(
	authContainer, tasksContainer, activityContainer, billingContainer mono.ServiceContainer,
	authAdapter auth.AuthPort,
) *Handlers {
	return &Handlers{
		authContainer:     authContainer,
		tasksContainer:    tasksContainer,
		activityContainer: activityContainer,
		billingContainer:  billingContainer,
		authAdapter:       authAdapter,
	}
}

// userID returns the authenticated user id placed in the context by the
// auth middleware. The empty string means the middleware did not run.
func userID(c *fiber.Ctx) string {
	claims, ok := c.Locals(UserContextKey).(*domain.Claims)
	if !ok {
		return ""
	}
	return claims.UserID
}

// Register handles user registration.
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if req.Email == "" || req.Password == "" {
		return badRequest(c, "Email and password are required")
	}

	authReq := auth.RegisterRequest{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	var resp auth.RegisterResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.authContainer,
		"register",
		json.Marshal,
		json.Unmarshal,
		&authReq,
		&resp,
	); err != nil {
		return h.handleAuthError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Login handles user login.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if req.Email == "" || req.Password == "" {
		return badRequest(c, "Email and password are required")
	}

	authReq := auth.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	}
	var resp auth.LoginResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.authContainer,
		"login",
		json.Marshal,
		json.Unmarshal,
		&authReq,
		&resp,
	); err != nil {
		return h.handleAuthError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(TokenResponse{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
		TokenType:    resp.TokenType,
	})
}

// Refresh handles token refresh.
func (h *Handlers) Refresh(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if req.RefreshToken == "" {
		return badRequest(c, "Refresh token is required")
	}

	authReq := auth.RefreshRequest{
		RefreshToken: req.RefreshToken,
	}
	var resp auth.RefreshResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.authContainer,
		"refresh-token",
		json.Marshal,
		json.Unmarshal,
		&authReq,
		&resp,
	); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "Invalid or expired refresh token",
		})
	}

	return c.Status(fiber.StatusOK).JSON(TokenResponse{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
		TokenType:    resp.TokenType,
	})
}

// CurrentUser returns the authenticated user's profile.
func (h *Handlers) CurrentUser(c *fiber.Ctx) error {
	user, err := h.authAdapter.GetUser(c.UserContext(), userID(c))
	if err != nil {
		log.Printf("[api] failed to load user profile: %v", err)
		return internalError(c, "Failed to retrieve user profile")
	}
	return c.Status(fiber.StatusOK).JSON(user)
}

// CompleteOnboarding stores the user's interests, goal, and free time.
func (h *Handlers) CompleteOnboarding(c *fiber.Ctx) error {
	var req OnboardingRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	authReq := auth.CompleteOnboardingRequest{
		UserID:        userID(c),
		Interests:     req.Interests,
		LifeGoal:      req.LifeGoal,
		DailyFreeTime: req.DailyFreeTime,
		Age:           req.Age,
		Gender:        req.Gender,
	}
	var resp auth.CompleteOnboardingResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.authContainer,
		"complete-onboarding",
		json.Marshal,
		json.Unmarshal,
		&authReq,
		&resp,
	); err != nil {
		if strings.Contains(err.Error(), "invalid onboarding") {
			return badRequest(c, "Onboarding requires 3-5 interests, a life goal up to 200 characters, daily free time between 0 and 24 hours, an age between 13 and 120, and a valid gender value")
		}
		log.Printf("[api] onboarding failed: %v", err)
		return internalError(c, "Failed to complete onboarding")
	}

	return c.Status(fiber.StatusOK).JSON(resp.User)
}

// CreateTask creates a task together with its catalyst.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	taskReq := tasks.CreateTaskRequest{
		UserID:      userID(c),
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
	}
	var resp tasks.CreateTaskResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.tasksContainer,
		"create-task",
		json.Marshal,
		json.Unmarshal,
		&taskReq,
		&resp,
	); err != nil {
		return h.handleTaskError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// ListTasks returns the user's tasks, newest first.
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	taskReq := tasks.ListTasksRequest{UserID: userID(c)}
	var resp tasks.ListTasksResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.tasksContainer,
		"list-tasks",
		json.Marshal,
		json.Unmarshal,
		&taskReq,
		&resp,
	); err != nil {
		return h.handleTaskError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// GetTask returns one task with its catalyst.
func (h *Handlers) GetTask(c *fiber.Ctx) error {
	taskReq := tasks.GetTaskRequest{
		UserID: userID(c),
		TaskID: c.Params("taskId"),
	}
	var resp tasks.TaskResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.tasksContainer,
		"get-task",
		json.Marshal,
		json.Unmarshal,
		&taskReq,
		&resp,
	); err != nil {
		return h.handleTaskError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// UpdateTaskStatus moves a task along the status state machine.
func (h *Handlers) UpdateTaskStatus(c *fiber.Ctx) error {
	var req UpdateTaskStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	taskReq := tasks.UpdateTaskStatusRequest{
		UserID: userID(c),
		TaskID: c.Params("taskId"),
		Status: req.Status,
	}
	var resp tasks.TaskResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.tasksContainer,
		"update-task-status",
		json.Marshal,
		json.Unmarshal,
		&taskReq,
		&resp,
	); err != nil {
		return h.handleTaskError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// DeleteTask removes a task and its catalyst.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	taskReq := tasks.DeleteTaskRequest{
		UserID: userID(c),
		TaskID: c.Params("taskId"),
	}
	var resp tasks.DeleteTaskResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.tasksContainer,
		"delete-task",
		json.Marshal,
		json.Unmarshal,
		&taskReq,
		&resp,
	); err != nil {
		return h.handleTaskError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// RegenerateCatalyst replaces a task's catalyst with a fresh one.
func (h *Handlers) RegenerateCatalyst(c *fiber.Ctx) error {
	taskReq := tasks.RegenerateCatalystRequest{
		UserID: userID(c),
		TaskID: c.Params("taskId"),
	}
	var resp tasks.CatalystResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.tasksContainer,
		"regenerate-catalyst",
		json.Marshal,
		json.Unmarshal,
		&taskReq,
		&resp,
	); err != nil {
		return h.handleTaskError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// CompleteCatalyst toggles a catalyst's completion flag.
func (h *Handlers) CompleteCatalyst(c *fiber.Ctx) error {
	var req CompleteCatalystRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	taskReq := tasks.CompleteCatalystRequest{
		UserID:     userID(c),
		CatalystID: c.Params("catalystId"),
		Completed:  req.Completed,
	}
	var resp tasks.CatalystResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.tasksContainer,
		"complete-catalyst",
		json.Marshal,
		json.Unmarshal,
		&taskReq,
		&resp,
	); err != nil {
		return h.handleTaskError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// GetAnalytics returns the user's analytics snapshot.
func (h *Handlers) GetAnalytics(c *fiber.Ctx) error {
	taskReq := tasks.GetAnalyticsRequest{UserID: userID(c)}
	var resp tasks.Snapshot

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.tasksContainer,
		"get-analytics",
		json.Marshal,
		json.Unmarshal,
		&taskReq,
		&resp,
	); err != nil {
		log.Printf("[api] analytics request failed: %v", err)
		return internalError(c, "Failed to compute analytics")
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// ActivityFeed returns the recent community activity entries.
func (h *Handlers) ActivityFeed(c *fiber.Ctx) error {
	feedReq := activity.GetFeedRequest{
		Limit: c.QueryInt("limit"),
	}
	var resp activity.GetFeedResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.activityContainer,
		"get-feed",
		json.Marshal,
		json.Unmarshal,
		&feedReq,
		&resp,
	); err != nil {
		log.Printf("[api] activity feed request failed: %v", err)
		return internalError(c, "Failed to load activity feed")
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// GetOrCreateSubscription starts or resumes a paid subscription.
func (h *Handlers) GetOrCreateSubscription(c *fiber.Ctx) error {
	billingReq := billing.GetOrCreateSubscriptionRequest{UserID: userID(c)}
	var resp billing.GetOrCreateSubscriptionResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.billingContainer,
		"get-or-create-subscription",
		json.Marshal,
		json.Unmarshal,
		&billingReq,
		&resp,
	); err != nil {
		if strings.Contains(err.Error(), "billing is not configured") {
			return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
				Error:   "unavailable",
				Message: "Billing is not configured",
			})
		}
		log.Printf("[api] subscription request failed: %v", err)
		return internalError(c, "Failed to create subscription")
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// handleAuthError maps auth service errors onto HTTP statuses without
// exposing internals.
func (h *Handlers) handleAuthError(c *fiber.Ctx, err error) error {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "invalid email or password"):
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "Invalid email or password",
		})
	case strings.Contains(errStr, "user with this email already exists"):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Error:   "conflict",
			Message: "User with this email already exists",
		})
	case strings.Contains(errStr, "invalid email format"):
		return badRequest(c, "Invalid email format")
	case strings.Contains(errStr, "password must be at least"):
		return badRequest(c, "Password must be at least 8 characters")
	case strings.Contains(errStr, "password must be at most"):
		return badRequest(c, "Password must be at most 72 characters")
	default:
		log.Printf("[api] Internal error: %v", err)
		return internalError(c, "An internal error occurred")
	}
}

// handleTaskError maps tasks service errors onto HTTP statuses. Bad
// input and unknown resources stay 4xx; everything else is a 500.
func (h *Handlers) handleTaskError(c *fiber.Ctx, err error) error {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "task not found"):
		return notFound(c, "Task not found")
	case strings.Contains(errStr, "catalyst not found"):
		return notFound(c, "Catalyst not found")
	case strings.Contains(errStr, "task title is required"):
		return badRequest(c, "Task title is required")
	case strings.Contains(errStr, "invalid priority"):
		return badRequest(c, "Priority must be one of: low, medium, high")
	case strings.Contains(errStr, "invalid status transition"):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Error:   "conflict",
			Message: "Task status can only move forward",
		})
	case strings.Contains(errStr, "invalid status"):
		return badRequest(c, "Status must be one of: not_started, in_progress, completed")
	default:
		log.Printf("[api] Internal error: %v", err)
		return internalError(c, "An internal error occurred")
	}
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   "bad_request",
		Message: message,
	})
}

func notFound(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
		Error:   "not_found",
		Message: message,
	})
}

func internalError(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Error:   "internal_error",
		Message: message,
	})
}
