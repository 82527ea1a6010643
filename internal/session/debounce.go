package session

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"lookbook/internal/infra"
)

// DefaultDebounce is the quiet period before a pending save is written.
const DefaultDebounce = 500 * time.Millisecond

type pendingSave struct {
	timer *time.Timer
	state State
}

// Debouncer coalesces rapid saves of the same session. Only the last state
// seen within the quiet period reaches the store.
type Debouncer struct {
	store   Store
	delay   time.Duration
	timeout time.Duration
	logger  *infra.Logger

	mu      sync.Mutex
	pending map[string]*pendingSave
	wg      sync.WaitGroup
}

// NewDebouncer builds a Debouncer writing to store.
func NewDebouncer(store Store, delay time.Duration, logger *infra.Logger) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	if logger == nil {
		l := infra.Logger(zerolog.New(io.Discard))
		logger = &l
	}
	return &Debouncer{
		store:   store,
		delay:   delay,
		timeout: 5 * time.Second,
		logger:  logger,
		pending: make(map[string]*pendingSave),
	}
}

// Save schedules st to be written once no newer save for the same session
// arrives within the delay.
func (d *Debouncer) Save(st State) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if prev, ok := d.pending[st.ID]; ok && prev.timer.Stop() {
		d.wg.Done()
	}
	p := &pendingSave{state: st}
	id := st.ID
	d.wg.Add(1)
	p.timer = time.AfterFunc(d.delay, func() {
		defer d.wg.Done()
		d.fire(id, p)
	})
	d.pending[id] = p
}

// fire writes p unless a newer save replaced it.
func (d *Debouncer) fire(id string, p *pendingSave) {
	d.mu.Lock()
	if d.pending[id] != p {
		d.mu.Unlock()
		return
	}
	delete(d.pending, id)
	d.mu.Unlock()
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	d.write(ctx, p.state)
}

func (d *Debouncer) write(ctx context.Context, st State) {
	if err := d.store.Save(ctx, &st); err != nil {
		d.logger.Error().Err(err).Str("session_id", st.ID).Msg("persist session state")
	}
}

// Pending reports how many sessions have an unwritten save.
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// Flush writes every pending save immediately and waits for in-flight
// timers to return.
func (d *Debouncer) Flush(ctx context.Context) {
	d.mu.Lock()
	batch := make([]State, 0, len(d.pending))
	for id, p := range d.pending {
		if p.timer.Stop() {
			d.wg.Done()
		}
		batch = append(batch, p.state)
		delete(d.pending, id)
	}
	d.mu.Unlock()
	for _, st := range batch {
		d.write(ctx, st)
	}
	d.wg.Wait()
}
