package batch

import (
	"context"
	"sync"
	"time"

	"lookbook/internal/domain"
)

// doneFrameWait bounds how long finish waits for a subscriber with a full
// buffer to take the done frame.
const doneFrameWait = 5 * time.Second

// EventType distinguishes stream frames.
type EventType string

const (
	EventResult EventType = "result"
	EventDone   EventType = "done"
	// EventSnapshot opens a stream with the state at subscription time.
	EventSnapshot EventType = "snapshot"
)

// Event is one frame pushed to subscribers of a run.
type Event struct {
	Type     EventType                `json:"type"`
	Result   *domain.GenerationResult `json:"result,omitempty"`
	Snapshot *Snapshot                `json:"snapshot,omitempty"`
}

// Snapshot is a point-in-time view of a run.
type Snapshot struct {
	ID        string                    `json:"id"`
	AccountID string                    `json:"-"`
	State     State                     `json:"state"`
	Seed      int64                     `json:"seed"`
	Total     int                       `json:"total"`
	Succeeded int                       `json:"succeeded"`
	Failed    int                       `json:"failed"`
	Results   []domain.GenerationResult `json:"results"`
	Error     string                    `json:"error,omitempty"`
}

// Run is a live batch. Only the batch goroutine appends results; readers go
// through Snapshot and Subscribe.
type Run struct {
	id        string
	accountID string
	stop      *StopToken

	mu      sync.RWMutex
	state   State
	seed    int64
	total   int
	results []domain.GenerationResult
	failed  int
	errMsg  string
	subs    map[chan Event]struct{}
	done    chan struct{}
}

func newRun(id, accountID string, seed int64, total int) *Run {
	return &Run{
		id:        id,
		accountID: accountID,
		stop:      NewStopToken(),
		state:     StateIdle,
		seed:      seed,
		total:     total,
		subs:      make(map[chan Event]struct{}),
		done:      make(chan struct{}),
	}
}

// ID returns the run id.
func (r *Run) ID() string { return r.id }

// AccountID returns the owner of the run.
func (r *Run) AccountID() string { return r.accountID }

// Stop requests a cooperative stop.
func (r *Run) Stop() { r.stop.Stop() }

// Done is closed once the run reaches a terminal state.
func (r *Run) Done() <-chan struct{} { return r.done }

// Snapshot copies the current state.
func (r *Run) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshotLocked()
}

func (r *Run) snapshotLocked() Snapshot {
	results := make([]domain.GenerationResult, len(r.results))
	copy(results, r.results)
	return Snapshot{
		ID:        r.id,
		AccountID: r.accountID,
		State:     r.state,
		Seed:      r.seed,
		Total:     r.total,
		Succeeded: len(r.results),
		Failed:    r.failed,
		Results:   results,
		Error:     r.errMsg,
	}
}

// Subscribe returns a channel receiving every result produced after the
// call, then a final done frame. Results produced earlier are in Snapshot.
// The cancel func must be called by the subscriber when it stops reading.
func (r *Run) Subscribe() (<-chan Event, Snapshot, func()) {
	ch := make(chan Event, 16)
	r.mu.Lock()
	snap := r.snapshotLocked()
	if r.state.Terminal() {
		r.mu.Unlock()
		ch <- Event{Type: EventDone, Snapshot: &snap}
		close(ch)
		return ch, snap, func() {}
	}
	r.subs[ch] = struct{}{}
	r.mu.Unlock()
	cancel := func() {
		r.mu.Lock()
		if _, ok := r.subs[ch]; ok {
			delete(r.subs, ch)
			close(ch)
		}
		r.mu.Unlock()
	}
	return ch, snap, cancel
}

func (r *Run) setState(s State) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}

func (r *Run) append(res domain.GenerationResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, res)
	ev := Event{Type: EventResult, Result: &res}
	for ch := range r.subs {
		select {
		case ch <- ev:
		default:
			// Slow subscriber; it can resync from Snapshot.
		}
	}
}

// fail counts a shot that produced no result.
func (r *Run) fail() {
	r.mu.Lock()
	r.failed++
	r.mu.Unlock()
}

// finish moves the run to its terminal state and hands every subscriber
// the done frame. Unlike result frames it is never dropped while the
// subscriber is still reading.
func (r *Run) finish(out Outcome) {
	r.mu.Lock()
	r.state = out.State
	r.failed = out.Failed
	if out.Err != nil {
		r.errMsg = out.Err.Error()
	}
	snap := r.snapshotLocked()
	subs := make([]chan Event, 0, len(r.subs))
	for ch := range r.subs {
		subs = append(subs, ch)
		delete(r.subs, ch)
	}
	r.mu.Unlock()
	close(r.done)

	ctx, cancel := context.WithTimeout(context.Background(), doneFrameWait)
	defer cancel()
	for _, ch := range subs {
		select {
		case ch <- Event{Type: EventDone, Snapshot: &snap}:
		case <-ctx.Done():
		}
		close(ch)
	}
}
