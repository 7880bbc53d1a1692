package billing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	userdomain "github.com/HichamMeziani/TaskCatalyst/domain/user"
	"github.com/HichamMeziani/TaskCatalyst/modules/auth"
)

type stubGateway struct {
	customerID     string
	subscriptionID string
	clientSecret   string
	err            error

	customersCreated     int
	subscriptionsCreated int
	retrieved            []string
}

func (s *stubGateway) CreateCustomer(_, _ string) (string, error) {
	s.customersCreated++
	return s.customerID, s.err
}

func (s *stubGateway) CreateSubscription(_, _ string) (string, string, error) {
	s.subscriptionsCreated++
	return s.subscriptionID, s.clientSecret, s.err
}

func (s *stubGateway) RetrieveSubscription(id string) (string, error) {
	s.retrieved = append(s.retrieved, id)
	return s.clientSecret, s.err
}

type stubAuthPort struct {
	user    *auth.GetUserResponse
	err     error
	updates []string
}

func (s *stubAuthPort) ValidateToken(_ context.Context, _ string) (*userdomain.Claims, error) {
	return nil, errors.New("not used")
}

func (s *stubAuthPort) GetUser(_ context.Context, _ string) (*auth.GetUserResponse, error) {
	return s.user, s.err
}

func (s *stubAuthPort) UpdateBillingInfo(_ context.Context, _, customerID, subscriptionID string) (*auth.GetUserResponse, error) {
	s.updates = append(s.updates, customerID+"/"+subscriptionID)
	return s.user, nil
}

func (s *stubAuthPort) AddProductivityPoints(_ context.Context, _ string, _ int) (int, error) {
	return 0, errors.New("not used")
}

func TestGetOrCreateSubscription_CreatesForNewCustomer(t *testing.T) {
	gateway := &stubGateway{
		customerID:     "cus_123",
		subscriptionID: "sub_456",
		clientSecret:   "pi_secret",
	}
	authPort := &stubAuthPort{
		user: &auth.GetUserResponse{
			ID:          "user-1",
			Email:       "alex@example.com",
			DisplayName: "Alex",
		},
	}
	m := NewModuleWithGateway(gateway, "price_789")
	m.authPort = authPort

	resp, err := m.getOrCreateSubscription(context.Background(), GetOrCreateSubscriptionRequest{UserID: "user-1"}, nil)
	require.NoError(t, err)

	assert.Equal(t, "sub_456", resp.SubscriptionID)
	assert.Equal(t, "pi_secret", resp.ClientSecret)
	assert.Equal(t, 1, gateway.customersCreated)
	assert.Equal(t, 1, gateway.subscriptionsCreated)
	require.Len(t, authPort.updates, 1)
	assert.Equal(t, "cus_123/sub_456", authPort.updates[0])
}

func TestGetOrCreateSubscription_ReusesExistingSubscription(t *testing.T) {
	gateway := &stubGateway{clientSecret: "pi_secret"}
	authPort := &stubAuthPort{
		user: &auth.GetUserResponse{
			ID:                   "user-1",
			StripeCustomerID:     "cus_123",
			StripeSubscriptionID: "sub_existing",
		},
	}
	m := NewModuleWithGateway(gateway, "price_789")
	m.authPort = authPort

	resp, err := m.getOrCreateSubscription(context.Background(), GetOrCreateSubscriptionRequest{UserID: "user-1"}, nil)
	require.NoError(t, err)

	assert.Equal(t, "sub_existing", resp.SubscriptionID)
	assert.Equal(t, []string{"sub_existing"}, gateway.retrieved)
	assert.Zero(t, gateway.customersCreated)
	assert.Zero(t, gateway.subscriptionsCreated)
	assert.Empty(t, authPort.updates)
}

func TestGetOrCreateSubscription_ReusesExistingCustomer(t *testing.T) {
	gateway := &stubGateway{
		subscriptionID: "sub_456",
		clientSecret:   "pi_secret",
	}
	authPort := &stubAuthPort{
		user: &auth.GetUserResponse{
			ID:               "user-1",
			StripeCustomerID: "cus_existing",
		},
	}
	m := NewModuleWithGateway(gateway, "price_789")
	m.authPort = authPort

	resp, err := m.getOrCreateSubscription(context.Background(), GetOrCreateSubscriptionRequest{UserID: "user-1"}, nil)
	require.NoError(t, err)

	assert.Equal(t, "sub_456", resp.SubscriptionID)
	assert.Zero(t, gateway.customersCreated)
	require.Len(t, authPort.updates, 1)
	assert.Equal(t, "cus_existing/sub_456", authPort.updates[0])
}

func TestGetOrCreateSubscription_Unconfigured(t *testing.T) {
	m := NewModuleWithGateway(nil, "")
	m.authPort = &stubAuthPort{}

	_, err := m.getOrCreateSubscription(context.Background(), GetOrCreateSubscriptionRequest{UserID: "user-1"}, nil)
	assert.ErrorIs(t, err, ErrBillingNotConfigured)
}

func TestGetOrCreateSubscription_AuthFailure(t *testing.T) {
	m := NewModuleWithGateway(&stubGateway{}, "price_789")
	m.authPort = &stubAuthPort{err: errors.New("user not found")}

	_, err := m.getOrCreateSubscription(context.Background(), GetOrCreateSubscriptionRequest{UserID: "user-1"}, nil)
	assert.Error(t, err)
}
