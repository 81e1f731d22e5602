package booking

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// ErrPaymentDeclined is the recoverable failure of a simulated
// payment.  The draft survives, so the client may retry without
// re-entering its data.
var ErrPaymentDeclined = errors.New("payment failed, please try again")

// PaymentResult is returned by a successful charge.
type PaymentResult struct {
	TransactionID string    `json:"transactionId"`
	Amount        int       `json:"amount"`
	Timestamp     time.Time `json:"timestamp"`
}

// Gateway is the payment dependency of the workflow.
type Gateway interface {
	Charge(ctx context.Context, amount int) (PaymentResult, error)
}

// SimulatedGateway resolves after an artificial delay and succeeds
// with a single configurable probability, default 0.85, shared by
// every entry point.  Rand and Sleep are injectable so tests run
// deterministically and instantly.
type SimulatedGateway struct {
	SuccessRate float64
	Delay       time.Duration
	Rand        func() float64                              // defaults to math/rand
	Sleep       func(ctx context.Context, d time.Duration) // defaults to ctx-aware sleep
}

// NewSimulatedGateway builds a gateway with the production defaults.
func NewSimulatedGateway(successRate float64, delay time.Duration) *SimulatedGateway {
	return &SimulatedGateway{SuccessRate: successRate, Delay: delay}
}

// Charge blocks for the configured delay, then draws the outcome.
// A cancelled context aborts the wait and reports the context error.
func (g *SimulatedGateway) Charge(ctx context.Context, amount int) (PaymentResult, error) {
	sleep := g.Sleep
	if sleep == nil {
		sleep = sleepCtx
	}
	sleep(ctx, g.Delay)
	if err := ctx.Err(); err != nil {
		return PaymentResult{}, err
	}

	draw := g.Rand
	if draw == nil {
		draw = rand.Float64
	}
	if draw() >= g.SuccessRate {
		return PaymentResult{}, ErrPaymentDeclined
	}
	return PaymentResult{
		TransactionID: fmt.Sprintf("TXN-%s", uuid.NewString()),
		Amount:        amount,
		Timestamp:     time.Now().UTC(),
	}, nil
}

func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
