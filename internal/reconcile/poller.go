package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"easyorder-core/internal/domain"
)

// ErrTooManyFailures is returned when consecutive status fetches keep failing
// past the configured bound.
var ErrTooManyFailures = errors.New("status polling gave up after repeated failures")

// StatusFetcher is the read-only store slice the poller needs.
type StatusFetcher interface {
	GetOrder(ctx context.Context, id string) (domain.Order, error)
}

// Poller is the customer-facing reconciliation loop: it polls one order's
// status until the restaurant has visibly taken it (accepted set) or closed it
// (cancelled/rejected/payment failed), then stops for good.
type Poller struct {
	store         StatusFetcher
	interval      time.Duration
	redirectDelay time.Duration
	failureLimit  int
}

func NewPoller(store StatusFetcher, interval, redirectDelay time.Duration) *Poller {
	if interval <= 0 {
		interval = 4 * time.Second
	}
	return &Poller{
		store:         store,
		interval:      interval,
		redirectDelay: redirectDelay,
		failureLimit:  15,
	}
}

// Run polls immediately and then on every interval. Transient fetch failures
// keep the loop going (up to the failure bound); cancellation of ctx stops it
// regardless of in-flight requests. onAccepted fires exactly once, after the
// redirect delay, so the accepted state is visible before navigating away.
func (p *Poller) Run(ctx context.Context, orderID string, onAccepted, onClosed func(domain.Order)) error {
	failures := 0
	for {
		order, err := p.store.GetOrder(ctx, orderID)
		switch {
		case err == nil:
			failures = 0
			if domain.AcceptedStatuses[order.Status] {
				select {
				case <-time.After(p.redirectDelay):
				case <-ctx.Done():
					return ctx.Err()
				}
				if onAccepted != nil {
					onAccepted(order)
				}
				return nil
			}
			switch order.Status {
			case domain.StatusCancelled, domain.StatusRejected, domain.StatusPaymentFailed:
				if onClosed != nil {
					onClosed(order)
				}
				return nil
			}
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return err
		default:
			// A single failed request is not evidence of anything; retry.
			failures++
			if p.failureLimit > 0 && failures >= p.failureLimit {
				return fmt.Errorf("%w: %v", ErrTooManyFailures, err)
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.interval):
		}
	}
}
