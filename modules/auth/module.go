package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	domain "github.com/HichamMeziani/TaskCatalyst/domain/user"
)

// DBPath returns the SQLite path shared by the persistence-owning
// modules, from TASKCATALYST_DB_PATH with a local-file default.
func DBPath() string {
	if path := os.Getenv("TASKCATALYST_DB_PATH"); path != "" {
		return path
	}
	return "taskcatalyst.db"
}

// AuthModule provides account and identity services.
type AuthModule struct {
	db      *gorm.DB
	service *AuthService
	dbPath  string
}

// Compile-time interface checks.
var _ mono.Module = (*AuthModule)(nil)
var _ mono.ServiceProviderModule = (*AuthModule)(nil)
var _ mono.HealthCheckableModule = (*AuthModule)(nil)

// NewModule creates a new AuthModule.
func NewModule() *AuthModule {
	return &AuthModule{
		dbPath: DBPath(),
	}
}

// Name returns the module name.
func (m *AuthModule) Name() string {
	return "auth"
}

// Start initializes the auth module.
func (m *AuthModule) Start(_ context.Context) error {
	db, err := gorm.Open(sqlite.Open(m.dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	m.db = db

	if err := db.AutoMigrate(&domain.User{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	repo := NewUserRepository(db)
	hasher := NewPasswordHasher()
	jwtManager := NewJWTManager(LoadJWTConfig())

	m.service = NewAuthService(repo, hasher, jwtManager)

	log.Printf("[auth] Module started (database: %s)", m.dbPath)
	return nil
}

// Stop shuts down the module.
func (m *AuthModule) Stop(_ context.Context) error {
	if m.db != nil {
		sqlDB, err := m.db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
	log.Println("[auth] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *AuthModule) Health(_ context.Context) mono.HealthStatus {
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
func (m *AuthModule) RegisterServices(container mono.ServiceContainer) error {
	services := map[string]func(mono.ServiceContainer) error{
		"register": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "register", json.Unmarshal, json.Marshal, m.handleRegister)
		},
		"login": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "login", json.Unmarshal, json.Marshal, m.handleLogin)
		},
		"refresh-token": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "refresh-token", json.Unmarshal, json.Marshal, m.handleRefresh)
		},
		"validate-token": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "validate-token", json.Unmarshal, json.Marshal, m.handleValidateToken)
		},
		"get-user": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "get-user", json.Unmarshal, json.Marshal, m.handleGetUser)
		},
		"complete-onboarding": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "complete-onboarding", json.Unmarshal, json.Marshal, m.handleCompleteOnboarding)
		},
		"update-billing-info": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "update-billing-info", json.Unmarshal, json.Marshal, m.handleUpdateBillingInfo)
		},
		"add-productivity-points": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "add-productivity-points", json.Unmarshal, json.Marshal, m.handleAddProductivityPoints)
		},
	}

	for name, register := range services {
		if err := register(container); err != nil {
			return fmt.Errorf("failed to register %s service: %w", name, err)
		}
	}

	log.Printf("[auth] Registered services: register, login, refresh-token, validate-token, get-user, complete-onboarding, update-billing-info, add-productivity-points")
	return nil
}

// handleRegister handles user registration.
func (m *AuthModule) handleRegister(ctx context.Context, req RegisterRequest, _ *mono.Msg) (RegisterResponse, error) {
	user, err := m.service.Register(ctx, req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		return RegisterResponse{}, err
	}

	return RegisterResponse{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		CreatedAt: user.CreatedAt,
	}, nil
}

// handleLogin handles user login.
func (m *AuthModule) handleLogin(ctx context.Context, req LoginRequest, _ *mono.Msg) (LoginResponse, error) {
	tokens, err := m.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		return LoginResponse{}, err
	}

	return LoginResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresIn:    tokens.ExpiresIn,
		TokenType:    tokens.TokenType,
	}, nil
}

// handleRefresh handles token refresh.
func (m *AuthModule) handleRefresh(ctx context.Context, req RefreshRequest, _ *mono.Msg) (RefreshResponse, error) {
	tokens, err := m.service.RefreshTokens(ctx, req.RefreshToken)
	if err != nil {
		return RefreshResponse{}, err
	}

	return RefreshResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresIn:    tokens.ExpiresIn,
		TokenType:    tokens.TokenType,
	}, nil
}

// handleValidateToken handles token validation.
func (m *AuthModule) handleValidateToken(ctx context.Context, req ValidateTokenRequest, _ *mono.Msg) (ValidateTokenResponse, error) {
	claims, err := m.service.ValidateToken(ctx, req.Token)
	if err != nil {
		errMsg := "invalid token"
		if errors.Is(err, ErrExpiredToken) {
			errMsg = "token expired"
		}
		// Validation failures are a response, not an error
		return ValidateTokenResponse{
			Valid: false,
			Error: errMsg,
		}, nil
	}

	return ValidateTokenResponse{
		Valid:  true,
		UserID: claims.UserID,
		Email:  claims.Email,
	}, nil
}

// handleGetUser handles get user requests.
func (m *AuthModule) handleGetUser(ctx context.Context, req GetUserRequest, _ *mono.Msg) (GetUserResponse, error) {
	user, err := m.service.GetUser(ctx, req.UserID)
	if err != nil {
		return GetUserResponse{}, err
	}
	return toGetUserResponse(user), nil
}

// handleCompleteOnboarding stores the onboarding profile.
func (m *AuthModule) handleCompleteOnboarding(ctx context.Context, req CompleteOnboardingRequest, _ *mono.Msg) (CompleteOnboardingResponse, error) {
	user, err := m.service.CompleteOnboarding(ctx, req.UserID, OnboardingData{
		Interests:     req.Interests,
		LifeGoal:      req.LifeGoal,
		DailyFreeTime: req.DailyFreeTime,
		Age:           req.Age,
		Gender:        req.Gender,
	})
	if err != nil {
		return CompleteOnboardingResponse{}, err
	}
	return CompleteOnboardingResponse{User: toGetUserResponse(user)}, nil
}

// handleUpdateBillingInfo stores payment-processor ids.
func (m *AuthModule) handleUpdateBillingInfo(ctx context.Context, req UpdateBillingInfoRequest, _ *mono.Msg) (UpdateBillingInfoResponse, error) {
	user, err := m.service.UpdateBillingInfo(ctx, req.UserID, req.StripeCustomerID, req.StripeSubscriptionID)
	if err != nil {
		return UpdateBillingInfoResponse{}, err
	}
	return UpdateBillingInfoResponse{User: toGetUserResponse(user)}, nil
}

// handleAddProductivityPoints raises a user's productivity score.
func (m *AuthModule) handleAddProductivityPoints(ctx context.Context, req AddProductivityPointsRequest, _ *mono.Msg) (AddProductivityPointsResponse, error) {
	user, err := m.service.AddProductivityPoints(ctx, req.UserID, req.Points)
	if err != nil {
		return AddProductivityPointsResponse{}, err
	}
	return AddProductivityPointsResponse{
		ProductivityScore:  user.ProductivityScore,
		ProductivityStreak: user.ProductivityStreak,
	}, nil
}

func toGetUserResponse(user *domain.User) GetUserResponse {
	return GetUserResponse{
		ID:                   user.ID,
		Email:                user.Email,
		FirstName:            user.FirstName,
		LastName:             user.LastName,
		DisplayName:          user.DisplayName(),
		SubscriptionStatus:   user.SubscriptionStatus,
		StripeCustomerID:     user.StripeCustomerID,
		StripeSubscriptionID: user.StripeSubscriptionID,
		Interests:            user.InterestList(),
		LifeGoal:             user.LifeGoal,
		DailyFreeTime:        user.DailyFreeTime,
		Age:                  user.Age,
		Gender:               user.Gender,
		OnboardingCompleted:  user.OnboardingCompleted,
		ProductivityScore:    user.ProductivityScore,
		ProductivityStreak:   user.ProductivityStreak,
		CreatedAt:            user.CreatedAt,
	}
}
