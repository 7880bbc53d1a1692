package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"

	"github.com/HichamMeziani/TaskCatalyst/modules/auth"
)

// ErrBillingNotConfigured is returned when no payment-processor
// credentials were provided at startup.
var ErrBillingNotConfigured = errors.New("billing is not configured")

// GetOrCreateSubscriptionRequest requests a subscription for a user,
// reusing an existing one when present.
type GetOrCreateSubscriptionRequest struct {
	UserID string `json:"user_id"`
}

// GetOrCreateSubscriptionResponse carries the subscription id and the
// client secret the frontend confirms payment with.
type GetOrCreateSubscriptionResponse struct {
	SubscriptionID string `json:"subscription_id"`
	ClientSecret   string `json:"client_secret"`
}

// BillingModule manages paid subscriptions through a payment gateway.
// Without STRIPE_SECRET_KEY it starts in an unconfigured state and its
// service returns ErrBillingNotConfigured.
type BillingModule struct {
	gateway  PaymentGateway
	authPort auth.AuthPort
	priceID  string
}

// Compile-time interface checks.
var _ mono.Module = (*BillingModule)(nil)
var _ mono.ServiceProviderModule = (*BillingModule)(nil)
var _ mono.DependentModule = (*BillingModule)(nil)
var _ mono.HealthCheckableModule = (*BillingModule)(nil)

// NewModule creates a BillingModule configured from the environment.
func NewModule() *BillingModule {
	m := &BillingModule{
		priceID: os.Getenv("STRIPE_PRICE_ID"),
	}
	if key := os.Getenv("STRIPE_SECRET_KEY"); key != "" {
		m.gateway = NewStripeGateway(key)
	}
	return m
}

// NewModuleWithGateway creates a BillingModule with an explicit gateway.
func NewModuleWithGateway(gateway PaymentGateway, priceID string) *BillingModule {
	return &BillingModule{
		gateway: gateway,
		priceID: priceID,
	}
}

// Name returns the module name.
func (m *BillingModule) Name() string {
	return "billing"
}

// Dependencies returns the list of module dependencies.
func (m *BillingModule) Dependencies() []string {
	return []string{"auth"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *BillingModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	if dependency == "auth" {
		m.authPort = auth.NewAuthAdapter(container)
	}
}

// Start validates the wiring.
func (m *BillingModule) Start(_ context.Context) error {
	if m.authPort == nil {
		return fmt.Errorf("auth dependency not set")
	}
	if m.gateway == nil {
		log.Println("[billing] Warning: STRIPE_SECRET_KEY not set, subscriptions are disabled")
	} else if m.priceID == "" {
		log.Println("[billing] Warning: STRIPE_PRICE_ID not set, subscription creation will fail")
	}
	log.Println("[billing] Module started")
	return nil
}

// Stop shuts the module down.
func (m *BillingModule) Stop(_ context.Context) error {
	log.Println("[billing] Module stopped")
	return nil
}

// Health reports whether billing is configured. An unconfigured gateway
// is healthy; the feature is simply disabled.
func (m *BillingModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"configured": m.gateway != nil,
		},
	}
}

// getOrCreateSubscription handles the get-or-create-subscription
// service request. A user with an existing subscription gets its
// payment details back; otherwise a customer and an incomplete
// subscription are created and stored on the user.
func (m *BillingModule) getOrCreateSubscription(ctx context.Context, req GetOrCreateSubscriptionRequest, _ *mono.Msg) (GetOrCreateSubscriptionResponse, error) {
	if m.gateway == nil {
		return GetOrCreateSubscriptionResponse{}, ErrBillingNotConfigured
	}

	user, err := m.authPort.GetUser(ctx, req.UserID)
	if err != nil {
		return GetOrCreateSubscriptionResponse{}, fmt.Errorf("failed to load user: %w", err)
	}

	if user.StripeSubscriptionID != "" {
		secret, err := m.gateway.RetrieveSubscription(user.StripeSubscriptionID)
		if err != nil {
			return GetOrCreateSubscriptionResponse{}, fmt.Errorf("failed to retrieve subscription: %w", err)
		}
		return GetOrCreateSubscriptionResponse{
			SubscriptionID: user.StripeSubscriptionID,
			ClientSecret:   secret,
		}, nil
	}

	customerID := user.StripeCustomerID
	if customerID == "" {
		customerID, err = m.gateway.CreateCustomer(user.Email, user.DisplayName)
		if err != nil {
			return GetOrCreateSubscriptionResponse{}, fmt.Errorf("failed to create customer: %w", err)
		}
	}

	subscriptionID, secret, err := m.gateway.CreateSubscription(customerID, m.priceID)
	if err != nil {
		return GetOrCreateSubscriptionResponse{}, fmt.Errorf("failed to create subscription: %w", err)
	}

	if _, err := m.authPort.UpdateBillingInfo(ctx, req.UserID, customerID, subscriptionID); err != nil {
		return GetOrCreateSubscriptionResponse{}, fmt.Errorf("failed to store billing info: %w", err)
	}

	return GetOrCreateSubscriptionResponse{
		SubscriptionID: subscriptionID,
		ClientSecret:   secret,
	}, nil
}

// RegisterServices registers request-reply services in the service container.
func (m *BillingModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "get-or-create-subscription", json.Unmarshal, json.Marshal, m.getOrCreateSubscription,
	); err != nil {
		return fmt.Errorf("failed to register get-or-create-subscription service: %w", err)
	}

	log.Printf("[billing] Registered services: get-or-create-subscription")
	return nil
}
