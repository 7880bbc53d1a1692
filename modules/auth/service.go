package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	domain "github.com/HichamMeziani/TaskCatalyst/domain/user"
)

var (
	// ErrInvalidCredentials is returned when login credentials are invalid.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidEmail is returned when email format is invalid.
	ErrInvalidEmail = errors.New("invalid email format")
	// ErrWeakPassword is returned when password is too weak.
	ErrWeakPassword = errors.New("password must be at least 8 characters")
	// ErrPasswordTooLong is returned when password exceeds bcrypt's 72-byte limit.
	ErrPasswordTooLong = errors.New("password must be at most 72 characters")
	// ErrInvalidOnboarding is returned when onboarding data fails validation.
	ErrInvalidOnboarding = errors.New("invalid onboarding data")
)

// OnboardingData is the profile collected during onboarding.
type OnboardingData struct {
	Interests     []string
	LifeGoal      string
	DailyFreeTime int
	Age           int
	Gender        string
}

// Validate checks the onboarding constraints: 3-5 interests, a life goal
// of 1-200 characters, 0-24 hours of daily free time, an age of 13-120,
// and a known gender value.
func (d OnboardingData) Validate() error {
	if len(d.Interests) < 3 || len(d.Interests) > 5 {
		return fmt.Errorf("%w: between 3 and 5 interests required", ErrInvalidOnboarding)
	}
	for _, interest := range d.Interests {
		if strings.TrimSpace(interest) == "" {
			return fmt.Errorf("%w: interests must be non-empty", ErrInvalidOnboarding)
		}
	}
	if goal := strings.TrimSpace(d.LifeGoal); goal == "" || len(goal) > 200 {
		return fmt.Errorf("%w: life goal must be 1-200 characters", ErrInvalidOnboarding)
	}
	if d.DailyFreeTime < 0 || d.DailyFreeTime > 24 {
		return fmt.Errorf("%w: daily free time must be 0-24 hours", ErrInvalidOnboarding)
	}
	if d.Age < 13 || d.Age > 120 {
		return fmt.Errorf("%w: age must be 13-120", ErrInvalidOnboarding)
	}
	if !slices.Contains(domain.Genders, d.Gender) {
		return fmt.Errorf("%w: unknown gender value %q", ErrInvalidOnboarding, d.Gender)
	}
	return nil
}

// AuthService handles account business logic: registration, login,
// token refresh, onboarding, and billing info updates.
type AuthService struct {
	repo   *UserRepository
	hasher *PasswordHasher
	jwt    *JWTManager
}

// NewAuthService creates a new AuthService.
func NewAuthService(repo *UserRepository, hasher *PasswordHasher, jwt *JWTManager) *AuthService {
	return &AuthService{
		repo:   repo,
		hasher: hasher,
		jwt:    jwt,
	}
}

// Register creates a new user account.
func (s *AuthService) Register(_ context.Context, email, password, firstName, lastName string) (*domain.User, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}

	// bcrypt has a 72-byte limit
	if len(password) < 8 {
		return nil, ErrWeakPassword
	}
	if len(password) > 72 {
		return nil, ErrPasswordTooLong
	}

	exists, err := s.repo.EmailExists(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, ErrUserExists
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:                 uuid.New().String(),
		Email:              email,
		PasswordHash:       passwordHash,
		FirstName:          firstName,
		LastName:           lastName,
		SubscriptionStatus: domain.SubscriptionFree,
		ProductivityScore:  100,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.repo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login authenticates a user and returns tokens.
func (s *AuthService) Login(_ context.Context, email, password string) (*domain.TokenPair, error) {
	user, err := s.repo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.jwt.IssuePair(user.ID, user.Email)
}

// RefreshTokens generates new access and refresh tokens.
func (s *AuthService) RefreshTokens(_ context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	// Verify user still exists
	user, err := s.repo.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return s.jwt.IssuePair(user.ID, user.Email)
}

// ValidateToken validates an access token and returns claims.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*domain.Claims, error) {
	claims, err := s.jwt.ValidateAccessToken(token)
	if err != nil {
		return nil, err
	}

	return &domain.Claims{
		UserID: claims.UserID,
		Email:  claims.Email,
	}, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(_ context.Context, userID string) (*domain.User, error) {
	return s.repo.FindByID(userID)
}

// CompleteOnboarding stores the onboarding profile and marks the user
// as onboarded.
func (s *AuthService) CompleteOnboarding(_ context.Context, userID string, data OnboardingData) (*domain.User, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}

	user, err := s.repo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	user.SetInterestList(data.Interests)
	user.LifeGoal = strings.TrimSpace(data.LifeGoal)
	user.DailyFreeTime = data.DailyFreeTime
	user.Age = data.Age
	user.Gender = data.Gender
	user.OnboardingCompleted = true
	user.UpdatedAt = time.Now()

	if err := s.repo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to save onboarding profile: %w", err)
	}

	return user, nil
}

// UpdateBillingInfo stores the payment-processor customer and
// subscription ids and activates the subscription.
func (s *AuthService) UpdateBillingInfo(_ context.Context, userID, customerID, subscriptionID string) (*domain.User, error) {
	user, err := s.repo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	user.StripeCustomerID = customerID
	user.StripeSubscriptionID = subscriptionID
	user.SubscriptionStatus = domain.SubscriptionActive
	user.UpdatedAt = time.Now()

	if err := s.repo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to save billing info: %w", err)
	}

	return user, nil
}

// AddProductivityPoints raises the user's productivity score. The first
// scored action of a local day also advances the streak.
func (s *AuthService) AddProductivityPoints(_ context.Context, userID string, points int) (*domain.User, error) {
	user, err := s.repo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user.ProductivityScore += points
	if user.LastActivityDate == nil || user.LastActivityDate.Before(localMidnight(now)) {
		user.ProductivityStreak++
	}
	user.LastActivityDate = &now
	user.UpdatedAt = now

	if err := s.repo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to save productivity score: %w", err)
	}

	return user, nil
}

// localMidnight returns today's midnight in server local time.
func localMidnight(now time.Time) time.Time {
	year, month, day := now.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, now.Location())
}
