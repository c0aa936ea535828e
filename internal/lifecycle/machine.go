package lifecycle

import (
	"fmt"

	"easyorder-core/internal/domain"
)

// IllegalTransitionError names the offending from/to pair so staff UIs can show
// it instead of swallowing it.
type IllegalTransitionError struct {
	From domain.OrderStatus
	To   domain.OrderStatus
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal transition %s -> %s", e.From, e.To)
}

// allowed holds the legal transitions. PAYMENT_FAILED is reachable only from
// the pre-capture states; OUT_FOR_DELIVERY is additionally gated to delivery
// orders at commit time, since the table alone cannot see the order type.
var allowed = map[domain.OrderStatus]map[domain.OrderStatus]bool{
	domain.StatusPending: {
		domain.StatusConfirmed:     true,
		domain.StatusRejected:      true,
		domain.StatusCancelled:     true,
		domain.StatusPaymentFailed: true,
	},
	domain.StatusConfirmed: {
		domain.StatusPreparing:     true,
		domain.StatusCancelled:     true,
		domain.StatusPaymentFailed: true,
	},
	domain.StatusPreparing: {
		domain.StatusReady:     true,
		domain.StatusCancelled: true,
	},
	domain.StatusReady: {
		domain.StatusOutForDelivery: true,
		domain.StatusCompleted:      true,
		domain.StatusCancelled:      true,
	},
	domain.StatusOutForDelivery: {
		domain.StatusCompleted: true,
		domain.StatusCancelled: true,
	},
	domain.StatusCompleted:     {},
	domain.StatusCancelled:     {},
	domain.StatusRejected:      {},
	domain.StatusPaymentFailed: {},
}

// CanTransition reports whether from -> to is legal. A same-status request is
// not a transition and is handled by the manager as an idempotent no-op.
func CanTransition(from, to domain.OrderStatus) bool {
	next := allowed[from]
	return next != nil && next[to]
}

// Terminal reports whether no further transitions are legal from the status.
func Terminal(s domain.OrderStatus) bool {
	switch s {
	case domain.StatusCompleted, domain.StatusCancelled,
		domain.StatusRejected, domain.StatusPaymentFailed:
		return true
	}
	return false
}
