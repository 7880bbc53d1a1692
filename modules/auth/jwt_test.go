package auth

import (
	"errors"
	"testing"
	"time"
)

func testJWTConfig() JWTConfig {
	return JWTConfig{
		SecretKey:            "test-secret-key",
		AccessTokenDuration:  15 * time.Minute,
		RefreshTokenDuration: 7 * 24 * time.Hour,
		Issuer:               "test-issuer",
	}
}

func TestJWTManager_AccessTokenRoundTrip(t *testing.T) {
	config := testJWTConfig()
	manager := NewJWTManager(config)

	token, err := manager.GenerateAccessToken("user-123", "test@example.com")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}
	if token == "" {
		t.Fatal("GenerateAccessToken() returned empty token")
	}

	claims, err := manager.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken() error = %v", err)
	}

	if claims.UserID != "user-123" {
		t.Errorf("claims.UserID = %v, want user-123", claims.UserID)
	}
	if claims.Email != "test@example.com" {
		t.Errorf("claims.Email = %v, want test@example.com", claims.Email)
	}
	if claims.TokenType != "access" {
		t.Errorf("claims.TokenType = %v, want access", claims.TokenType)
	}
	if claims.Issuer != config.Issuer {
		t.Errorf("claims.Issuer = %v, want %v", claims.Issuer, config.Issuer)
	}
}

func TestJWTManager_RefreshTokenRoundTrip(t *testing.T) {
	manager := NewJWTManager(testJWTConfig())

	token, err := manager.GenerateRefreshToken("user-456", "refresh@example.com")
	if err != nil {
		t.Fatalf("GenerateRefreshToken() error = %v", err)
	}

	claims, err := manager.ValidateRefreshToken(token)
	if err != nil {
		t.Fatalf("ValidateRefreshToken() error = %v", err)
	}

	if claims.UserID != "user-456" {
		t.Errorf("claims.UserID = %v, want user-456", claims.UserID)
	}
	if claims.TokenType != "refresh" {
		t.Errorf("claims.TokenType = %v, want refresh", claims.TokenType)
	}
}

func TestJWTManager_IssuePair(t *testing.T) {
	config := testJWTConfig()
	manager := NewJWTManager(config)

	pair, err := manager.IssuePair("user-789", "pair@example.com")
	if err != nil {
		t.Fatalf("IssuePair() error = %v", err)
	}

	if pair.TokenType != "Bearer" {
		t.Errorf("pair.TokenType = %q, want %q", pair.TokenType, "Bearer")
	}
	if pair.ExpiresIn != int64(config.AccessTokenDuration.Seconds()) {
		t.Errorf("pair.ExpiresIn = %d, want %d", pair.ExpiresIn, int64(config.AccessTokenDuration.Seconds()))
	}

	access, err := manager.ValidateAccessToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("ValidateAccessToken() error = %v", err)
	}
	if access.UserID != "user-789" {
		t.Errorf("access claims.UserID = %v, want user-789", access.UserID)
	}

	refresh, err := manager.ValidateRefreshToken(pair.RefreshToken)
	if err != nil {
		t.Fatalf("ValidateRefreshToken() error = %v", err)
	}
	if refresh.UserID != "user-789" {
		t.Errorf("refresh claims.UserID = %v, want user-789", refresh.UserID)
	}
}

func TestJWTManager_TokenTypeIsEnforced(t *testing.T) {
	manager := NewJWTManager(DefaultJWTConfig())

	accessToken, err := manager.GenerateAccessToken("user-123", "test@example.com")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}
	refreshToken, err := manager.GenerateRefreshToken("user-123", "test@example.com")
	if err != nil {
		t.Fatalf("GenerateRefreshToken() error = %v", err)
	}

	if _, err := manager.ValidateRefreshToken(accessToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("ValidateRefreshToken(access) error = %v, want ErrInvalidToken", err)
	}
	if _, err := manager.ValidateAccessToken(refreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("ValidateAccessToken(refresh) error = %v, want ErrInvalidToken", err)
	}
}

func TestJWTManager_InvalidToken(t *testing.T) {
	manager := NewJWTManager(DefaultJWTConfig())

	tests := []struct {
		name  string
		token string
	}{
		{"empty token", ""},
		{"random string", "not.a.valid.token"},
		{"malformed jwt", "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := manager.ValidateToken(tt.token); err == nil {
				t.Error("ValidateToken() should return error for invalid token")
			}
		})
	}
}

func TestJWTManager_WrongSecretKey(t *testing.T) {
	config1 := testJWTConfig()
	config2 := testJWTConfig()
	config2.SecretKey = "a-different-secret"

	token, err := NewJWTManager(config1).GenerateAccessToken("user-123", "test@example.com")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	if _, err := NewJWTManager(config2).ValidateToken(token); err == nil {
		t.Error("ValidateToken() should fail with different secret key")
	}
}

func TestJWTManager_ExpiredToken(t *testing.T) {
	config := testJWTConfig()
	config.AccessTokenDuration = 1 * time.Millisecond
	manager := NewJWTManager(config)

	token, err := manager.GenerateAccessToken("user-123", "test@example.com")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	if _, err := manager.ValidateToken(token); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("ValidateToken() error = %v, want ErrExpiredToken", err)
	}
}

func TestJWTManager_AccessTokenDuration(t *testing.T) {
	config := testJWTConfig()
	config.AccessTokenDuration = 30 * time.Minute
	manager := NewJWTManager(config)

	if got := manager.AccessTokenDuration(); got != 30*60 {
		t.Errorf("AccessTokenDuration() = %v, want %v", got, 30*60)
	}
}

func TestLoadJWTConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("JWT_SECRET_KEY", "")
		t.Setenv("JWT_ISSUER", "")

		config := LoadJWTConfig()
		want := DefaultJWTConfig()
		if config.SecretKey != want.SecretKey {
			t.Errorf("SecretKey = %q, want default %q", config.SecretKey, want.SecretKey)
		}
		if config.Issuer != want.Issuer {
			t.Errorf("Issuer = %q, want default %q", config.Issuer, want.Issuer)
		}
		if config.AccessTokenDuration != 15*time.Minute {
			t.Errorf("AccessTokenDuration = %v, want 15m", config.AccessTokenDuration)
		}
	})

	t.Run("env overrides", func(t *testing.T) {
		t.Setenv("JWT_SECRET_KEY", "from-env")
		t.Setenv("JWT_ISSUER", "issuer-from-env")

		config := LoadJWTConfig()
		if config.SecretKey != "from-env" {
			t.Errorf("SecretKey = %q, want from-env", config.SecretKey)
		}
		if config.Issuer != "issuer-from-env" {
			t.Errorf("Issuer = %q, want issuer-from-env", config.Issuer)
		}
	})
}
