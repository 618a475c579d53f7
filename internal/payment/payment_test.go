package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"
)

type mockIntents struct {
	mock.Mock
}

func (m *mockIntents) New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	args := m.Called(params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.PaymentIntent), args.Error(1)
}

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(1999), ToMinorUnits(19.99))
	assert.Equal(t, int64(100), ToMinorUnits(1))
	assert.Equal(t, int64(0), ToMinorUnits(0))
}

func TestStripeGateway_CreatePaymentIntent(t *testing.T) {
	intents := new(mockIntents)
	g := &StripeGateway{intents: intents, currency: "usd"}

	intents.On("New", mock.MatchedBy(func(p *stripe.PaymentIntentParams) bool {
		return *p.Amount == 4550 && *p.Currency == "usd" && *p.PaymentMethodTypes[0] == "card"
	})).Return(&stripe.PaymentIntent{ClientSecret: "pi_secret"}, nil).Once()

	secret, err := g.CreatePaymentIntent(context.Background(), 45.5)
	require.NoError(t, err)
	assert.Equal(t, "pi_secret", secret)
	intents.AssertExpectations(t)
}

func TestStripeGateway_Errors(t *testing.T) {
	intents := new(mockIntents)
	g := &StripeGateway{intents: intents, currency: "usd"}

	_, err := g.CreatePaymentIntent(context.Background(), 0)
	assert.Error(t, err)
	intents.AssertNotCalled(t, "New", mock.Anything)

	intents.On("New", mock.Anything).Return(nil, errors.New("card declined")).Once()
	_, err = g.CreatePaymentIntent(context.Background(), 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "card declined")
}
