package core

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"go.uber.org/zap"
)

type paymentService struct {
	gateway  PaymentGateway
	currency string
	logger   *zap.Logger
}

// NewPaymentService creates a PaymentService charging in currency.
func NewPaymentService(gateway PaymentGateway, currency string, logger *zap.Logger) PaymentService {
	return &paymentService{gateway: gateway, currency: currency, logger: logger}
}

// ToMinorUnits converts a user-facing price to minor currency units, truncating.
func ToMinorUnits(price float64) int64 {
	return int64(price * 100)
}

func (s *paymentService) CreatePaymentIntent(ctx context.Context, price float64) (string, error) {
	amount := ToMinorUnits(price)
	if amount <= 0 {
		return "", fmt.Errorf("%w: price must be positive", ErrInvalidInput)
	}
	secret, err := s.gateway.CreatePaymentIntent(ctx, amount, s.currency)
	if err != nil {
		s.logger.Error("Payment intent creation failed", zap.Int64("amount", amount), zap.Error(err))
		return "", fmt.Errorf("%w: %w", ErrUpstreamPayment, err)
	}
	return secret, nil
}

type stripeGateway struct {
	api *client.API
}

// NewStripeGateway returns a PaymentGateway backed by the Stripe API.
func NewStripeGateway(secretKey string) PaymentGateway {
	return &stripeGateway{api: client.New(secretKey, nil)}
}

func (g *stripeGateway) CreatePaymentIntent(ctx context.Context, amount int64, currency string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx
	intent, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe payment intent: %w", err)
	}
	return intent.ClientSecret, nil
}
