package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	domain "github.com/HichamMeziani/TaskCatalyst/domain/user"
)

// setupTestService wires an AuthService against an in-memory SQLite
// database.
func setupTestService(t *testing.T) *AuthService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&domain.User{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return NewAuthService(NewUserRepository(db), NewPasswordHasher(), NewJWTManager(DefaultJWTConfig()))
}

func TestAuthService_Register(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "new@example.com", "password123", "Ada", "Lovelace")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if user.ID == "" {
		t.Error("Register() returned user with empty ID")
	}
	if user.SubscriptionStatus != domain.SubscriptionFree {
		t.Errorf("new user subscription = %q, want %q", user.SubscriptionStatus, domain.SubscriptionFree)
	}
	if user.OnboardingCompleted {
		t.Error("new user should not be onboarded")
	}

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Register(ctx, "new@example.com", "password123", "", "")
		if !errors.Is(err, ErrUserExists) {
			t.Errorf("expected ErrUserExists, got %v", err)
		}
	})

	t.Run("invalid email", func(t *testing.T) {
		_, err := svc.Register(ctx, "not-an-email", "password123", "", "")
		if !errors.Is(err, ErrInvalidEmail) {
			t.Errorf("expected ErrInvalidEmail, got %v", err)
		}
	})

	t.Run("weak password", func(t *testing.T) {
		_, err := svc.Register(ctx, "other@example.com", "short", "", "")
		if !errors.Is(err, ErrWeakPassword) {
			t.Errorf("expected ErrWeakPassword, got %v", err)
		}
	})
}

func TestAuthService_LoginAndRefresh(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "login@example.com", "password123", "", ""); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	tokens, err := svc.Login(ctx, "login@example.com", "password123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Error("Login() returned empty tokens")
	}

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "login@example.com", "wrong-password")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Login(ctx, "ghost@example.com", "password123")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("refresh", func(t *testing.T) {
		refreshed, err := svc.RefreshTokens(ctx, tokens.RefreshToken)
		if err != nil {
			t.Fatalf("RefreshTokens() error = %v", err)
		}
		if refreshed.AccessToken == "" {
			t.Error("RefreshTokens() returned empty access token")
		}
	})

	t.Run("refresh with access token", func(t *testing.T) {
		if _, err := svc.RefreshTokens(ctx, tokens.AccessToken); err == nil {
			t.Error("RefreshTokens() should reject an access token")
		}
	})
}

func TestAuthService_CompleteOnboarding(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "onboard@example.com", "password123", "", "")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	updated, err := svc.CompleteOnboarding(ctx, user.ID, OnboardingData{
		Interests:     []string{"coding", "music", "fitness"},
		LifeGoal:      "Ship more, procrastinate less",
		DailyFreeTime: 3,
		Age:           29,
		Gender:        "prefer-not-to-say",
	})
	if err != nil {
		t.Fatalf("CompleteOnboarding() error = %v", err)
	}

	if !updated.OnboardingCompleted {
		t.Error("OnboardingCompleted not set")
	}
	interests := updated.InterestList()
	if len(interests) != 3 || interests[0] != "coding" {
		t.Errorf("interests round-trip = %v", interests)
	}
	if updated.Age != 29 {
		t.Errorf("age = %d, want 29", updated.Age)
	}
	if updated.Gender != "prefer-not-to-say" {
		t.Errorf("gender = %q, want %q", updated.Gender, "prefer-not-to-say")
	}
}

func TestOnboardingDataValidate(t *testing.T) {
	valid := OnboardingData{
		Interests:     []string{"a", "b", "c"},
		LifeGoal:      "goal",
		DailyFreeTime: 2,
		Age:           30,
		Gender:        "female",
	}

	tests := []struct {
		name    string
		mutate  func(d *OnboardingData)
		wantErr bool
	}{
		{"valid", func(d *OnboardingData) {}, false},
		{"five interests", func(d *OnboardingData) {
			d.Interests = []string{"a", "b", "c", "d", "e"}
		}, false},
		{"too few interests", func(d *OnboardingData) {
			d.Interests = []string{"a", "b"}
		}, true},
		{"too many interests", func(d *OnboardingData) {
			d.Interests = []string{"a", "b", "c", "d", "e", "f"}
		}, true},
		{"blank interest", func(d *OnboardingData) {
			d.Interests = []string{"a", " ", "c"}
		}, true},
		{"empty goal", func(d *OnboardingData) { d.LifeGoal = "  " }, true},
		{"negative free time", func(d *OnboardingData) { d.DailyFreeTime = -1 }, true},
		{"too much free time", func(d *OnboardingData) { d.DailyFreeTime = 25 }, true},
		{"minimum age", func(d *OnboardingData) { d.Age = 13 }, false},
		{"maximum age", func(d *OnboardingData) { d.Age = 120 }, false},
		{"too young", func(d *OnboardingData) { d.Age = 12 }, true},
		{"too old", func(d *OnboardingData) { d.Age = 121 }, true},
		{"custom gender", func(d *OnboardingData) { d.Gender = "custom" }, false},
		{"unknown gender", func(d *OnboardingData) { d.Gender = "robot" }, true},
		{"empty gender", func(d *OnboardingData) { d.Gender = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := valid
			tt.mutate(&data)
			err := data.Validate()
			if tt.wantErr && !errors.Is(err, ErrInvalidOnboarding) {
				t.Errorf("expected ErrInvalidOnboarding, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestAuthService_UpdateBillingInfo(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "billing@example.com", "password123", "", "")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	updated, err := svc.UpdateBillingInfo(ctx, user.ID, "cus_123", "sub_456")
	if err != nil {
		t.Fatalf("UpdateBillingInfo() error = %v", err)
	}

	if updated.StripeCustomerID != "cus_123" || updated.StripeSubscriptionID != "sub_456" {
		t.Errorf("billing ids = (%q, %q)", updated.StripeCustomerID, updated.StripeSubscriptionID)
	}
	if updated.SubscriptionStatus != domain.SubscriptionActive {
		t.Errorf("subscription status = %q, want %q", updated.SubscriptionStatus, domain.SubscriptionActive)
	}
}

func TestAuthService_AddProductivityPoints(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "points@example.com", "password123", "", "")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.ProductivityScore != 100 {
		t.Fatalf("new user score = %d, want 100", user.ProductivityScore)
	}

	updated, err := svc.AddProductivityPoints(ctx, user.ID, 10)
	if err != nil {
		t.Fatalf("AddProductivityPoints() error = %v", err)
	}
	if updated.ProductivityScore != 110 {
		t.Errorf("score = %d, want 110", updated.ProductivityScore)
	}
	if updated.ProductivityStreak != 1 {
		t.Errorf("streak = %d, want 1", updated.ProductivityStreak)
	}
	if updated.LastActivityDate == nil {
		t.Fatal("LastActivityDate not set")
	}

	t.Run("same day does not advance streak", func(t *testing.T) {
		again, err := svc.AddProductivityPoints(ctx, user.ID, 3)
		if err != nil {
			t.Fatalf("AddProductivityPoints() error = %v", err)
		}
		if again.ProductivityScore != 113 {
			t.Errorf("score = %d, want 113", again.ProductivityScore)
		}
		if again.ProductivityStreak != 1 {
			t.Errorf("streak = %d, want 1", again.ProductivityStreak)
		}
	})

	t.Run("new day advances streak", func(t *testing.T) {
		stored, err := svc.repo.FindByID(user.ID)
		if err != nil {
			t.Fatalf("FindByID() error = %v", err)
		}
		yesterday := time.Now().AddDate(0, 0, -1)
		stored.LastActivityDate = &yesterday
		if err := svc.repo.Update(stored); err != nil {
			t.Fatalf("Update() error = %v", err)
		}

		next, err := svc.AddProductivityPoints(ctx, user.ID, 3)
		if err != nil {
			t.Fatalf("AddProductivityPoints() error = %v", err)
		}
		if next.ProductivityStreak != 2 {
			t.Errorf("streak = %d, want 2", next.ProductivityStreak)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		if _, err := svc.AddProductivityPoints(ctx, "missing", 10); !errors.Is(err, ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})
}
