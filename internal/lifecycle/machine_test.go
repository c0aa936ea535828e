package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"easyorder-core/internal/domain"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from domain.OrderStatus
		to   domain.OrderStatus
		want bool
	}{
		{"pending to confirmed", domain.StatusPending, domain.StatusConfirmed, true},
		{"pending to rejected", domain.StatusPending, domain.StatusRejected, true},
		{"pending to payment failed", domain.StatusPending, domain.StatusPaymentFailed, true},
		{"confirmed to preparing", domain.StatusConfirmed, domain.StatusPreparing, true},
		{"confirmed to payment failed", domain.StatusConfirmed, domain.StatusPaymentFailed, true},
		{"preparing to ready", domain.StatusPreparing, domain.StatusReady, true},
		{"ready to out for delivery", domain.StatusReady, domain.StatusOutForDelivery, true},
		{"ready to completed", domain.StatusReady, domain.StatusCompleted, true},
		{"out for delivery to completed", domain.StatusOutForDelivery, domain.StatusCompleted, true},

		{"pending to preparing skips confirm", domain.StatusPending, domain.StatusPreparing, false},
		{"preparing to payment failed after capture", domain.StatusPreparing, domain.StatusPaymentFailed, false},
		{"ready to payment failed after capture", domain.StatusReady, domain.StatusPaymentFailed, false},
		{"completed is terminal", domain.StatusCompleted, domain.StatusPreparing, false},
		{"cancelled is terminal", domain.StatusCancelled, domain.StatusConfirmed, false},
		{"rejected is terminal", domain.StatusRejected, domain.StatusConfirmed, false},
		{"payment failed is terminal", domain.StatusPaymentFailed, domain.StatusPending, false},
		{"backwards ready to preparing", domain.StatusReady, domain.StatusPreparing, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanTransition(tc.from, tc.to))
		})
	}
}

func TestTerminal(t *testing.T) {
	terminal := []domain.OrderStatus{
		domain.StatusCompleted, domain.StatusCancelled,
		domain.StatusRejected, domain.StatusPaymentFailed,
	}
	for _, s := range terminal {
		assert.True(t, Terminal(s), "expected %s to be terminal", s)
	}

	live := []domain.OrderStatus{
		domain.StatusPending, domain.StatusConfirmed, domain.StatusPreparing,
		domain.StatusReady, domain.StatusOutForDelivery,
	}
	for _, s := range live {
		assert.False(t, Terminal(s), "expected %s to be live", s)
	}
}

func TestIllegalTransitionErrorMessage(t *testing.T) {
	err := &IllegalTransitionError{From: domain.StatusCompleted, To: domain.StatusPreparing}
	assert.Equal(t, "illegal transition COMPLETED -> PREPARING", err.Error())
}
