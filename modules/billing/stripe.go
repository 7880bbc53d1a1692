package billing

import (
	"errors"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// ErrNoClientSecret is returned when Stripe does not attach a payment
// intent to the subscription's latest invoice.
var ErrNoClientSecret = errors.New("subscription has no payment intent client secret")

// PaymentGateway abstracts the payment-processor calls the billing
// module makes, so tests can substitute a double.
type PaymentGateway interface {
	CreateCustomer(email, name string) (customerID string, err error)
	CreateSubscription(customerID, priceID string) (subscriptionID, clientSecret string, err error)
	RetrieveSubscription(subscriptionID string) (clientSecret string, err error)
}

// StripeGateway implements PaymentGateway against the Stripe API.
type StripeGateway struct {
	api *client.API
}

// NewStripeGateway creates a gateway authenticated with the given
// secret key.
func NewStripeGateway(secretKey string) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeGateway{api: api}
}

// CreateCustomer creates a Stripe customer for the user.
func (g *StripeGateway) CreateCustomer(email, name string) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
		Name:  stripe.String(name),
	}
	c, err := g.api.Customers.New(params)
	if err != nil {
		return "", err
	}
	return c.ID, nil
}

// CreateSubscription creates an incomplete subscription whose first
// invoice carries a payment intent for the client to confirm.
func (g *StripeGateway) CreateSubscription(customerID, priceID string) (string, string, error) {
	params := &stripe.SubscriptionParams{
		Customer: stripe.String(customerID),
		Items: []*stripe.SubscriptionItemsParams{
			{Price: stripe.String(priceID)},
		},
		PaymentBehavior: stripe.String("default_incomplete"),
	}
	params.AddExpand("latest_invoice.payment_intent")

	sub, err := g.api.Subscriptions.New(params)
	if err != nil {
		return "", "", err
	}

	secret, err := clientSecret(sub)
	if err != nil {
		return "", "", err
	}
	return sub.ID, secret, nil
}

// RetrieveSubscription fetches an existing subscription's payment
// intent client secret.
func (g *StripeGateway) RetrieveSubscription(subscriptionID string) (string, error) {
	params := &stripe.SubscriptionParams{}
	params.AddExpand("latest_invoice.payment_intent")

	sub, err := g.api.Subscriptions.Get(subscriptionID, params)
	if err != nil {
		return "", err
	}
	return clientSecret(sub)
}

func clientSecret(sub *stripe.Subscription) (string, error) {
	if sub.LatestInvoice == nil || sub.LatestInvoice.PaymentIntent == nil {
		return "", ErrNoClientSecret
	}
	return sub.LatestInvoice.PaymentIntent.ClientSecret, nil
}
