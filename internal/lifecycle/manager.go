package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"easyorder-core/internal/domain"
)

var ErrUnknownStatus = errors.New("unknown order status")

// Manager is the sole writer path for order status. It serializes concurrent
// transition requests per order, persists through the store and then fans the
// change out; the local optimistic status is rolled back when the persistence
// write fails.
type Manager struct {
	store     StatusStore
	publisher EventPublisher
	audit     AuditSink
	clock     func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
	local map[string]domain.OrderStatus
}

func NewManager(store StatusStore, publisher EventPublisher, audit AuditSink) *Manager {
	return &Manager{
		store:     store,
		publisher: publisher,
		audit:     audit,
		clock:     time.Now,
		locks:     make(map[string]*sync.Mutex),
		local:     make(map[string]domain.OrderStatus),
	}
}

// Transition advances one order to the requested status.
//
// Requesting the current status again succeeds without side effects, so retry
// storms from flaky clients stay harmless. Anything outside the transition
// table fails with *IllegalTransitionError.
func (m *Manager) Transition(ctx context.Context, orderID string, to domain.OrderStatus, changedBy string) (domain.Order, error) {
	if !to.Valid() {
		return domain.Order{}, fmt.Errorf("%w: %q", ErrUnknownStatus, to)
	}

	lock := m.lockFor(orderID)
	lock.Lock()
	defer lock.Unlock()

	order, err := m.store.GetOrder(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	from := order.Status

	if to == from {
		return order, nil
	}
	if !CanTransition(from, to) {
		return domain.Order{}, &IllegalTransitionError{From: from, To: to}
	}
	if to == domain.StatusOutForDelivery && order.Type != domain.OrderDelivery {
		return domain.Order{}, &IllegalTransitionError{From: from, To: to}
	}

	m.setLocal(orderID, to)

	updated, err := m.store.UpdateOrderStatus(ctx, orderID, to)
	if err != nil {
		m.setLocal(orderID, from)
		return domain.Order{}, fmt.Errorf("persist status: %w", err)
	}

	m.broadcast(ctx, domain.Event{
		Type:         domain.EventOrderUpdated,
		RestaurantID: updated.RestaurantID,
		OrderID:      updated.ID,
		Status:       updated.Status,
		OccurredAt:   m.clock(),
	})

	if m.audit != nil {
		if err := m.audit.Record(ctx, domain.AuditMessage{
			OrderID:      updated.ID,
			RestaurantID: updated.RestaurantID,
			OldStatus:    string(from),
			NewStatus:    string(to),
			ChangedBy:    changedBy,
			Timestamp:    m.clock(),
		}); err != nil {
			log.Printf("audit record failed for order %s: %v", updated.ID, err)
		}
	}

	return updated, nil
}

// Accept confirms a pending order on behalf of restaurant staff.
func (m *Manager) Accept(ctx context.Context, orderID, changedBy string) (domain.Order, error) {
	return m.Transition(ctx, orderID, domain.StatusConfirmed, changedBy)
}

// Reject declines a pending order.
func (m *Manager) Reject(ctx context.Context, orderID, changedBy string) (domain.Order, error) {
	return m.Transition(ctx, orderID, domain.StatusRejected, changedBy)
}

// AnnounceCreated publishes the orderCreated event for a freshly stored order.
func (m *Manager) AnnounceCreated(ctx context.Context, order domain.Order) {
	o := order
	m.setLocal(order.ID, order.Status)
	m.broadcast(ctx, domain.Event{
		Type:         domain.EventOrderCreated,
		RestaurantID: order.RestaurantID,
		Order:        &o,
		OccurredAt:   m.clock(),
	})
}

// LocalStatus returns the last known-good status for an order, when the
// manager has seen it in this process.
func (m *Manager) LocalStatus(orderID string) (domain.OrderStatus, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.local[orderID]
	return s, ok
}

// Forget drops per-order bookkeeping once an order is terminal. The mutex is
// removed only when nobody holds it; a contended lock stays so an in-flight
// transition keeps its serialization.
func (m *Manager) Forget(orderID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.local, orderID)
	if l, ok := m.locks[orderID]; ok && l.TryLock() {
		l.Unlock()
		delete(m.locks, orderID)
	}
}

func (m *Manager) broadcast(ctx context.Context, ev domain.Event) {
	if m.publisher == nil {
		return
	}
	if err := m.publisher.Publish(ctx, ev.RestaurantID, ev); err != nil {
		// Best-effort: staff views reconcile via background polling.
		log.Printf("publish %s for order %s failed: %v", ev.Type, ev.OrderID, err)
	}
}

func (m *Manager) setLocal(orderID string, s domain.OrderStatus) {
	m.mu.Lock()
	m.local[orderID] = s
	m.mu.Unlock()
}

func (m *Manager) lockFor(orderID string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[orderID]
	if !ok {
		l = &sync.Mutex{}
		m.locks[orderID] = l
	}
	return l
}
