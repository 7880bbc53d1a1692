package auth

import (
	"time"
)

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// RegisterResponse represents a user registration response.
type RegisterResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents a user login response with tokens.
type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// RefreshRequest represents a token refresh request.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// RefreshResponse represents a token refresh response.
type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// ValidateTokenRequest represents a token validation request.
type ValidateTokenRequest struct {
	Token string `json:"token"`
}

// ValidateTokenResponse represents a token validation response.
type ValidateTokenResponse struct {
	Valid  bool   `json:"valid"`
	UserID string `json:"user_id,omitempty"`
	Email  string `json:"email,omitempty"`
	Error  string `json:"error,omitempty"`
}

// GetUserRequest represents a get user request.
type GetUserRequest struct {
	UserID string `json:"user_id"`
}

// GetUserResponse carries the full user profile.
type GetUserResponse struct {
	ID                   string    `json:"id"`
	Email                string    `json:"email"`
	FirstName            string    `json:"first_name,omitempty"`
	LastName             string    `json:"last_name,omitempty"`
	DisplayName          string    `json:"display_name"`
	SubscriptionStatus   string    `json:"subscription_status"`
	StripeCustomerID     string    `json:"stripe_customer_id,omitempty"`
	StripeSubscriptionID string    `json:"stripe_subscription_id,omitempty"`
	Interests            []string  `json:"interests"`
	LifeGoal             string    `json:"life_goal,omitempty"`
	DailyFreeTime        int       `json:"daily_free_time"`
	Age                  int       `json:"age,omitempty"`
	Gender               string    `json:"gender,omitempty"`
	OnboardingCompleted  bool      `json:"onboarding_completed"`
	ProductivityScore    int       `json:"productivity_score"`
	ProductivityStreak   int       `json:"productivity_streak"`
	CreatedAt            time.Time `json:"created_at"`
}

// CompleteOnboardingRequest carries the onboarding profile.
type CompleteOnboardingRequest struct {
	UserID        string   `json:"user_id"`
	Interests     []string `json:"interests"`
	LifeGoal      string   `json:"life_goal"`
	DailyFreeTime int      `json:"daily_free_time"`
	Age           int      `json:"age"`
	Gender        string   `json:"gender"`
}

// CompleteOnboardingResponse returns the updated profile.
type CompleteOnboardingResponse struct {
	User GetUserResponse `json:"user"`
}

// UpdateBillingInfoRequest stores payment-processor ids on the user.
type UpdateBillingInfoRequest struct {
	UserID               string `json:"user_id"`
	StripeCustomerID     string `json:"stripe_customer_id"`
	StripeSubscriptionID string `json:"stripe_subscription_id"`
}

// UpdateBillingInfoResponse returns the updated profile.
type UpdateBillingInfoResponse struct {
	User GetUserResponse `json:"user"`
}

// AddProductivityPointsRequest raises a user's productivity score.
type AddProductivityPointsRequest struct {
	UserID string `json:"user_id"`
	Points int    `json:"points"`
}

// AddProductivityPointsResponse carries the updated counters.
type AddProductivityPointsResponse struct {
	ProductivityScore  int `json:"productivity_score"`
	ProductivityStreak int `json:"productivity_streak"`
}
