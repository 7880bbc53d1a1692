package auth

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"

	domain "github.com/HichamMeziani/TaskCatalyst/domain/user"
)

// AuthPort defines the interface other modules use to access identity
// and account operations.
type AuthPort interface {
	ValidateToken(ctx context.Context, token string) (*domain.Claims, error)
	GetUser(ctx context.Context, userID string) (*GetUserResponse, error)
	UpdateBillingInfo(ctx context.Context, userID, customerID, subscriptionID string) (*GetUserResponse, error)
	AddProductivityPoints(ctx context.Context, userID string, points int) (int, error)
}

// AuthAdapter implements AuthPort using the service container.
type AuthAdapter struct {
	container mono.ServiceContainer
}

// NewAuthAdapter creates a new AuthAdapter.
func NewAuthAdapter(container mono.ServiceContainer) *AuthAdapter {
	return &AuthAdapter{
		container: container,
	}
}

// ValidateToken validates an access token and returns claims.
func (a *AuthAdapter) ValidateToken(ctx context.Context, token string) (*domain.Claims, error) {
	req := ValidateTokenRequest{Token: token}
	var resp ValidateTokenResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"validate-token",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("validate-token request failed: %w", err)
	}

	if !resp.Valid {
		return nil, fmt.Errorf("token validation failed: %s", resp.Error)
	}

	return &domain.Claims{
		UserID: resp.UserID,
		Email:  resp.Email,
	}, nil
}

// GetUser retrieves a user profile by ID.
func (a *AuthAdapter) GetUser(ctx context.Context, userID string) (*GetUserResponse, error) {
	req := GetUserRequest{UserID: userID}
	var resp GetUserResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"get-user",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("get-user request failed: %w", err)
	}

	return &resp, nil
}

// UpdateBillingInfo stores payment-processor ids on the user.
func (a *AuthAdapter) UpdateBillingInfo(ctx context.Context, userID, customerID, subscriptionID string) (*GetUserResponse, error) {
	req := UpdateBillingInfoRequest{
		UserID:               userID,
		StripeCustomerID:     customerID,
		StripeSubscriptionID: subscriptionID,
	}
	var resp UpdateBillingInfoResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"update-billing-info",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("update-billing-info request failed: %w", err)
	}

	return &resp.User, nil
}

// AddProductivityPoints raises the user's productivity score and
// returns the new value.
func (a *AuthAdapter) AddProductivityPoints(ctx context.Context, userID string, points int) (int, error) {
	req := AddProductivityPointsRequest{
		UserID: userID,
		Points: points,
	}
	var resp AddProductivityPointsResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"add-productivity-points",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return 0, fmt.Errorf("add-productivity-points request failed: %w", err)
	}

	return resp.ProductivityScore, nil
}
