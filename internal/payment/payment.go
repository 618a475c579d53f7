// Package payment creates payment intents with the card payment provider.
package payment

import (
	"context"
	"fmt"
	"math"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// Gateway creates payment intents and returns their client secret.
type Gateway interface {
	CreatePaymentIntent(ctx context.Context, price float64) (string, error)
}

// intentCreator is the part of the Stripe API the gateway uses.
type intentCreator interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

// StripeGateway is a Gateway backed by Stripe PaymentIntents.
type StripeGateway struct {
	intents  intentCreator
	currency string
}

// NewStripeGateway creates a gateway authenticated with secretKey.
func NewStripeGateway(secretKey, currency string) *StripeGateway {
	sc := client.New(secretKey, nil)
	return &StripeGateway{
		intents:  sc.PaymentIntents,
		currency: currency,
	}
}

// ToMinorUnits converts a price in major units to the smallest currency unit.
func ToMinorUnits(price float64) int64 {
	return int64(math.Round(price * 100))
}

// CreatePaymentIntent creates a card payment intent for price.
func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, price float64) (string, error) {
	amount := ToMinorUnits(price)
	if amount <= 0 {
		return "", fmt.Errorf("invalid payment amount %.2f", price)
	}

	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(g.currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx

	intent, err := g.intents.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create payment intent: %w", err)
	}
	return intent.ClientSecret, nil
}
