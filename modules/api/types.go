package api

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest represents a token refresh request.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// TokenResponse represents an authentication token response.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// OnboardingRequest carries the user's onboarding profile.
type OnboardingRequest struct {
	Interests     []string `json:"interests"`
	LifeGoal      string   `json:"life_goal"`
	DailyFreeTime int      `json:"daily_free_time"`
	Age           int      `json:"age"`
	Gender        string   `json:"gender"`
}

// CreateTaskRequest represents a task creation request.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	Priority    string `json:"priority,omitempty"`
}

// UpdateTaskStatusRequest moves a task along its status state machine.
type UpdateTaskStatusRequest struct {
	Status string `json:"status"`
}

// CompleteCatalystRequest toggles a catalyst's completion flag.
type CompleteCatalystRequest struct {
	Completed bool `json:"completed"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
