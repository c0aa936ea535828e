package lifecycle_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"easyorder-core/internal/domain"
	"easyorder-core/internal/lifecycle"
	"easyorder-core/internal/mocks"
)

func pendingOrder() domain.Order {
	return domain.Order{
		ID:           "ord-1",
		RestaurantID: "rest-1",
		Status:       domain.StatusPending,
		Type:         domain.OrderDelivery,
	}
}

func TestTransitionHappyPath(t *testing.T) {
	store := mocks.NewStatusStore(t)
	pub := mocks.NewEventPublisher(t)
	audit := mocks.NewAuditSink(t)
	mgr := lifecycle.NewManager(store, pub, audit)

	order := pendingOrder()
	confirmed := order
	confirmed.Status = domain.StatusConfirmed

	store.On("GetOrder", mock.Anything, "ord-1").Return(order, nil).Once()
	store.On("UpdateOrderStatus", mock.Anything, "ord-1", domain.StatusConfirmed).Return(confirmed, nil).Once()
	pub.On("Publish", mock.Anything, "rest-1", mock.MatchedBy(func(ev domain.Event) bool {
		return ev.Type == domain.EventOrderUpdated && ev.OrderID == "ord-1" && ev.Status == domain.StatusConfirmed
	})).Return(nil).Once()
	audit.On("Record", mock.Anything, mock.MatchedBy(func(m domain.AuditMessage) bool {
		return m.OldStatus == "PENDING" && m.NewStatus == "CONFIRMED" && m.ChangedBy == "alex"
	})).Return(nil).Once()

	got, err := mgr.Transition(context.Background(), "ord-1", domain.StatusConfirmed, "alex")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, got.Status)

	local, ok := mgr.LocalStatus("ord-1")
	assert.True(t, ok)
	assert.Equal(t, domain.StatusConfirmed, local)
}

func TestTransitionSameStatusIsNoOp(t *testing.T) {
	store := mocks.NewStatusStore(t)
	pub := mocks.NewEventPublisher(t)
	mgr := lifecycle.NewManager(store, pub, nil)

	order := pendingOrder()
	order.Status = domain.StatusConfirmed

	// A repeated CONFIRMED request reads the order but never writes, publishes
	// or audits.
	store.On("GetOrder", mock.Anything, "ord-1").Return(order, nil).Once()

	got, err := mgr.Transition(context.Background(), "ord-1", domain.StatusConfirmed, "alex")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, got.Status)
}

func TestTransitionFromTerminalFails(t *testing.T) {
	store := mocks.NewStatusStore(t)
	mgr := lifecycle.NewManager(store, nil, nil)

	order := pendingOrder()
	order.Status = domain.StatusCompleted
	store.On("GetOrder", mock.Anything, "ord-1").Return(order, nil).Once()

	_, err := mgr.Transition(context.Background(), "ord-1", domain.StatusPreparing, "alex")

	var illegal *lifecycle.IllegalTransitionError
	require.ErrorAs(t, err, &illegal)
	assert.Equal(t, domain.StatusCompleted, illegal.From)
	assert.Equal(t, domain.StatusPreparing, illegal.To)
}

func TestTransitionOutForDeliveryNeedsDeliveryOrder(t *testing.T) {
	store := mocks.NewStatusStore(t)
	mgr := lifecycle.NewManager(store, nil, nil)

	order := pendingOrder()
	order.Status = domain.StatusReady
	order.Type = domain.OrderCollection
	store.On("GetOrder", mock.Anything, "ord-1").Return(order, nil).Once()

	_, err := mgr.Transition(context.Background(), "ord-1", domain.StatusOutForDelivery, "alex")

	var illegal *lifecycle.IllegalTransitionError
	require.ErrorAs(t, err, &illegal)
}

func TestTransitionUnknownStatus(t *testing.T) {
	store := mocks.NewStatusStore(t)
	mgr := lifecycle.NewManager(store, nil, nil)

	_, err := mgr.Transition(context.Background(), "ord-1", domain.OrderStatus("SHMONFIRMED"), "alex")
	assert.ErrorIs(t, err, lifecycle.ErrUnknownStatus)
}

func TestTransitionRollsBackLocalStatusOnPersistFailure(t *testing.T) {
	store := mocks.NewStatusStore(t)
	pub := mocks.NewEventPublisher(t)
	mgr := lifecycle.NewManager(store, pub, nil)

	order := pendingOrder()
	store.On("GetOrder", mock.Anything, "ord-1").Return(order, nil).Once()
	store.On("UpdateOrderStatus", mock.Anything, "ord-1", domain.StatusConfirmed).
		Return(domain.Order{}, errors.New("connection reset")).Once()

	_, err := mgr.Transition(context.Background(), "ord-1", domain.StatusConfirmed, "alex")
	require.Error(t, err)

	// No event escapes for a failed write, and the local view reverts to the
	// last persisted status.
	local, ok := mgr.LocalStatus("ord-1")
	assert.True(t, ok)
	assert.Equal(t, domain.StatusPending, local)
}

func TestTransitionSucceedsWhenPublishFails(t *testing.T) {
	store := mocks.NewStatusStore(t)
	pub := mocks.NewEventPublisher(t)
	mgr := lifecycle.NewManager(store, pub, nil)

	order := pendingOrder()
	confirmed := order
	confirmed.Status = domain.StatusConfirmed

	store.On("GetOrder", mock.Anything, "ord-1").Return(order, nil).Once()
	store.On("UpdateOrderStatus", mock.Anything, "ord-1", domain.StatusConfirmed).Return(confirmed, nil).Once()
	pub.On("Publish", mock.Anything, "rest-1", mock.Anything).Return(errors.New("broker gone")).Once()

	got, err := mgr.Transition(context.Background(), "ord-1", domain.StatusConfirmed, "alex")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, got.Status)
}

func TestAcceptRejectHelpers(t *testing.T) {
	store := mocks.NewStatusStore(t)
	mgr := lifecycle.NewManager(store, nil, nil)

	order := pendingOrder()
	confirmed := order
	confirmed.Status = domain.StatusConfirmed
	rejected := order
	rejected.Status = domain.StatusRejected

	store.On("GetOrder", mock.Anything, "ord-1").Return(order, nil).Twice()
	store.On("UpdateOrderStatus", mock.Anything, "ord-1", domain.StatusConfirmed).Return(confirmed, nil).Once()
	store.On("UpdateOrderStatus", mock.Anything, "ord-1", domain.StatusRejected).Return(rejected, nil).Once()

	got, err := mgr.Accept(context.Background(), "ord-1", "alex")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, got.Status)

	got, err = mgr.Reject(context.Background(), "ord-1", "alex")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, got.Status)
}

func TestAnnounceCreatedPublishesAndSeedsLocal(t *testing.T) {
	pub := mocks.NewEventPublisher(t)
	mgr := lifecycle.NewManager(nil, pub, nil)

	order := pendingOrder()
	pub.On("Publish", mock.Anything, "rest-1", mock.MatchedBy(func(ev domain.Event) bool {
		return ev.Type == domain.EventOrderCreated && ev.Order != nil && ev.Order.ID == "ord-1"
	})).Return(nil).Once()

	mgr.AnnounceCreated(context.Background(), order)

	local, ok := mgr.LocalStatus("ord-1")
	assert.True(t, ok)
	assert.Equal(t, domain.StatusPending, local)
}

func TestForgetDropsBookkeeping(t *testing.T) {
	pub := mocks.NewEventPublisher(t)
	mgr := lifecycle.NewManager(nil, pub, nil)

	pub.On("Publish", mock.Anything, "rest-1", mock.Anything).Return(nil).Once()
	mgr.AnnounceCreated(context.Background(), pendingOrder())

	mgr.Forget("ord-1")
	_, ok := mgr.LocalStatus("ord-1")
	assert.False(t, ok)
}

// fakeStatusStore is a stateful in-memory store so concurrent transitions read
// whatever the previous one committed.
type fakeStatusStore struct {
	mu      sync.Mutex
	order   domain.Order
	updates int
}

func (s *fakeStatusStore) GetOrder(_ context.Context, _ string) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order, nil
}

func (s *fakeStatusStore) UpdateOrderStatus(_ context.Context, _ string, status domain.OrderStatus) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order.Status = status
	s.updates++
	return s.order, nil
}

func (s *fakeStatusStore) updateCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updates
}

type countingPublisher struct {
	n atomic.Int32
}

func (p *countingPublisher) Publish(context.Context, string, domain.Event) error {
	p.n.Add(1)
	return nil
}

func TestConcurrentSameTargetTransitionsCommitOnce(t *testing.T) {
	store := &fakeStatusStore{order: pendingOrder()}
	pub := &countingPublisher{}
	mgr := lifecycle.NewManager(store, pub, nil)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = mgr.Transition(context.Background(), "ord-1", domain.StatusConfirmed, "staff")
		}(i)
	}
	wg.Wait()

	// One request commits, the other lands on the already-current status and
	// no-ops; both report success with exactly one write and one publish.
	assert.NoError(t, errs[0])
	assert.NoError(t, errs[1])
	assert.Equal(t, 1, store.updateCount())
	assert.EqualValues(t, 1, pub.n.Load())
}

func TestConcurrentConflictingTransitions(t *testing.T) {
	store := &fakeStatusStore{order: pendingOrder()}
	pub := &countingPublisher{}
	mgr := lifecycle.NewManager(store, pub, nil)

	targets := []domain.OrderStatus{domain.StatusConfirmed, domain.StatusRejected}
	var wg sync.WaitGroup
	errs := make([]error, len(targets))
	for i, to := range targets {
		wg.Add(1)
		go func(i int, to domain.OrderStatus) {
			defer wg.Done()
			_, errs[i] = mgr.Transition(context.Background(), "ord-1", to, "staff")
		}(i, to)
	}
	wg.Wait()

	// Whichever request wins the lock commits; the loser sees the new status
	// and fails on the transition table. Never two writes.
	var succeeded, illegal int
	for _, err := range errs {
		var it *lifecycle.IllegalTransitionError
		switch {
		case err == nil:
			succeeded++
		case errors.As(err, &it):
			illegal++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, illegal)
	assert.Equal(t, 1, store.updateCount())
	assert.EqualValues(t, 1, pub.n.Load())
}

// blockingStore parks the first status write until released, holding the
// per-order lock mid-transition.
type blockingStore struct {
	fakeStatusStore
	writes  atomic.Int32
	entered chan struct{}
	release chan struct{}
}

func (s *blockingStore) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.Order, error) {
	if s.writes.Add(1) == 1 {
		close(s.entered)
		<-s.release
	}
	return s.fakeStatusStore.UpdateOrderStatus(ctx, id, status)
}

func TestForgetDuringInFlightTransitionKeepsSerialization(t *testing.T) {
	store := &blockingStore{
		fakeStatusStore: fakeStatusStore{order: pendingOrder()},
		entered:         make(chan struct{}),
		release:         make(chan struct{}),
	}
	mgr := lifecycle.NewManager(store, nil, nil)

	errs := make(chan error, 2)
	go func() {
		_, err := mgr.Transition(context.Background(), "ord-1", domain.StatusConfirmed, "staff")
		errs <- err
	}()
	<-store.entered

	// Forget while the first transition holds the order lock, then race a
	// second request for the same order.
	mgr.Forget("ord-1")
	go func() {
		_, err := mgr.Transition(context.Background(), "ord-1", domain.StatusConfirmed, "staff")
		errs <- err
	}()
	time.Sleep(20 * time.Millisecond)
	close(store.release)

	require.NoError(t, <-errs)
	require.NoError(t, <-errs)
	// The second request must have waited for the commit and no-opped.
	assert.Equal(t, 1, store.updateCount())
}
