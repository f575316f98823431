// Package payments talks to Stripe PaymentIntents through a circuit breaker.
package payments

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"go.uber.org/zap"
)

// ErrUnavailable means the breaker is open and Stripe was not called.
var ErrUnavailable = errors.New("payment provider temporarily unavailable")

// intentAPI is the subset of the Stripe PaymentIntents client in use.
type intentAPI interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
	Get(id string, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

// BreakerConfig controls when the Stripe breaker opens.
type BreakerConfig struct {
	MaxFailures uint32
	OpenTimeout time.Duration
}

// DefaultBreakerConfig trips after 5 consecutive failures and probes again after 30s.
var DefaultBreakerConfig = BreakerConfig{MaxFailures: 5, OpenTimeout: 30 * time.Second}

// StripeProcessor creates and inspects PaymentIntents.
type StripeProcessor struct {
	intents  intentAPI
	currency string
	cb       *gobreaker.CircuitBreaker
	log      *zap.Logger
}

// NewStripeProcessor builds a processor for secretKey charging in currency.
func NewStripeProcessor(secretKey, currency string, cbCfg BreakerConfig, logger *zap.Logger) (*StripeProcessor, error) {
	if secretKey == "" {
		return nil, errors.New("stripe secret key cannot be empty")
	}
	sc := client.New(secretKey, nil)
	return newStripeProcessor(sc.PaymentIntents, currency, cbCfg, logger), nil
}

func newStripeProcessor(intents intentAPI, currency string, cbCfg BreakerConfig, logger *zap.Logger) *StripeProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if currency == "" {
		currency = string(stripe.CurrencyUSD)
	}
	st := gobreaker.Settings{
		Name:        "stripe",
		MaxRequests: 1,
		Timeout:     cbCfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cbCfg.MaxFailures
		},
		// Card and request errors are the caller's problem, not an outage.
		IsSuccessful: func(err error) bool {
			return err == nil || isClientError(err)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state", zap.String("name", name), zap.String("from", from.String()), zap.String("to", to.String()))
		},
	}
	return &StripeProcessor{
		intents:  intents,
		currency: currency,
		cb:       gobreaker.NewCircuitBreaker(st),
		log:      logger,
	}
}

// CreatePaymentIntent returns the client secret of a new PaymentIntent for amount,
// expressed in the smallest currency unit.
func (p *StripeProcessor) CreatePaymentIntent(ctx context.Context, amount int64) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(p.currency),
	}
	params.Context = ctx

	res, err := p.execute(func() (interface{}, error) {
		return p.intents.New(params)
	})
	if err != nil {
		return "", err
	}
	pi, ok := res.(*stripe.PaymentIntent)
	if !ok || pi == nil {
		return "", errors.New("invalid payment intent result")
	}
	return pi.ClientSecret, nil
}

// PaymentSucceeded reports whether the PaymentIntent paymentID has been captured.
// An unknown ID is reported as not succeeded rather than as an error.
func (p *StripeProcessor) PaymentSucceeded(ctx context.Context, paymentID string) (bool, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	res, err := p.execute(func() (interface{}, error) {
		return p.intents.Get(paymentID, params)
	})
	if err != nil {
		if isNotFound(err) {
			p.log.Info("payment intent not found", zap.String("paymentId", paymentID))
			return false, nil
		}
		return false, err
	}
	pi, ok := res.(*stripe.PaymentIntent)
	if !ok || pi == nil {
		return false, errors.New("invalid payment intent result")
	}
	return pi.Status == stripe.PaymentIntentStatusSucceeded, nil
}

func (p *StripeProcessor) execute(fn func() (interface{}, error)) (interface{}, error) {
	res, err := p.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		p.log.Warn("stripe call blocked by circuit breaker", zap.Error(err))
		return nil, ErrUnavailable
	}
	if err != nil {
		return nil, fmt.Errorf("stripe: %w", err)
	}
	return res, nil
}

func isClientError(err error) bool {
	var se *stripe.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.HTTPStatusCode >= 400 && se.HTTPStatusCode < 500 && se.HTTPStatusCode != http.StatusTooManyRequests
}

func isNotFound(err error) bool {
	var se *stripe.Error
	return errors.As(err, &se) && (se.HTTPStatusCode == http.StatusNotFound || se.Code == stripe.ErrorCodeResourceMissing)
}
