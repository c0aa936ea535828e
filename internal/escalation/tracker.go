package escalation

import (
	"context"
	"math"
	"sync"
	"time"
)

type Band string

const (
	BandNormal  Band = "normal"
	BandWarning Band = "warning"
	BandOverdue Band = "overdue"
)

const warningThresholdMinutes = 10

// Deadline is an order's creation time plus the restaurant's target
// fulfillment duration.
type Deadline struct {
	CreatedAt time.Time
	Target    time.Duration
}

// Escalation is the derived attention state for one order at one instant.
// Bands are never stored; callers recompute on every tick.
type Escalation struct {
	RemainingMinutes int
	Band             Band
	MinutesLate      int // populated only when overdue
}

// RemainingMinutes is floor((createdAt + target - now) / 1 minute); negative
// once the deadline has passed.
func (d Deadline) RemainingMinutes(now time.Time) int {
	diff := d.CreatedAt.Add(d.Target).Sub(now)
	return int(math.Floor(diff.Minutes()))
}

func (d Deadline) Evaluate(now time.Time) Escalation {
	remaining := d.RemainingMinutes(now)
	e := Escalation{RemainingMinutes: remaining}
	switch {
	case remaining > warningThresholdMinutes:
		e.Band = BandNormal
	case remaining > 0:
		e.Band = BandWarning
	default:
		e.Band = BandOverdue
		e.MinutesLate = -remaining
	}
	return e
}

// Tracker recomputes escalation for each tracked order on an interval. Every
// order gets its own goroutine and ticker, so stopping one order never stalls
// the others.
type Tracker struct {
	interval time.Duration
	clock    func() time.Time

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
	wg      sync.WaitGroup
}

func NewTracker(interval time.Duration) *Tracker {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Tracker{
		interval: interval,
		clock:    time.Now,
		cancels:  make(map[string]context.CancelFunc),
	}
}

// SetClock overrides the time source; used by tests.
func (t *Tracker) SetClock(clock func() time.Time) { t.clock = clock }

// Track starts periodic recomputation for one order, invoking onTick with the
// fresh escalation immediately and then on every interval. Tracking an order
// that is already tracked restarts it.
func (t *Tracker) Track(orderID string, d Deadline, onTick func(orderID string, e Escalation)) {
	ctx, cancel := context.WithCancel(context.Background())

	t.mu.Lock()
	if prev, ok := t.cancels[orderID]; ok {
		prev()
	}
	t.cancels[orderID] = cancel
	t.mu.Unlock()

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()

		onTick(orderID, d.Evaluate(t.clock()))
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				onTick(orderID, d.Evaluate(t.clock()))
			}
		}
	}()
}

// Stop ends recomputation for one order; unknown ids are a no-op.
func (t *Tracker) Stop(orderID string) {
	t.mu.Lock()
	if cancel, ok := t.cancels[orderID]; ok {
		cancel()
		delete(t.cancels, orderID)
	}
	t.mu.Unlock()
}

// Close stops all tracked orders and waits for their loops to exit.
func (t *Tracker) Close() {
	t.mu.Lock()
	for id, cancel := range t.cancels {
		cancel()
		delete(t.cancels, id)
	}
	t.mu.Unlock()
	t.wg.Wait()
}
