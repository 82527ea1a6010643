package batch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"lookbook/internal/domain"
)

// DefaultRetention is how long finished runs stay readable.
const DefaultRetention = 10 * time.Minute

// Registry launches runs in the background and tracks them by id.
type Registry struct {
	exec     *Executor
	mu       sync.RWMutex
	live     map[string]*Run
	finished *cache.Cache
	wg       sync.WaitGroup
}

// NewRegistry builds a Registry on top of an Executor.
func NewRegistry(exec *Executor, retention time.Duration) *Registry {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &Registry{
		exec:     exec,
		live:     make(map[string]*Run),
		finished: cache.New(retention, 2*retention),
	}
}

// Launch runs the pre-flight checks synchronously and, when they pass,
// starts the shot loop on its own goroutine. The loop is detached from ctx
// so a closed HTTP request does not stop the batch; use Run.Stop for that.
func (g *Registry) Launch(ctx context.Context, req Request) (*Run, error) {
	if req.BatchID == "" {
		req.BatchID = uuid.NewString()
	}
	p, err := g.exec.Prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	run := newRun(req.BatchID, req.AccountID, p.Seed(), p.Total())
	g.mu.Lock()
	g.live[run.id] = run
	g.mu.Unlock()

	run.setState(StateRunning)
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		out := g.exec.Run(context.WithoutCancel(ctx), p, run.stop, runObserver{run})
		run.finish(out)
		g.finished.SetDefault(run.id, run)
		g.mu.Lock()
		delete(g.live, run.id)
		g.mu.Unlock()
	}()
	return run, nil
}

// runObserver feeds executor progress into a Run.
type runObserver struct{ run *Run }

func (o runObserver) Result(res domain.GenerationResult) { o.run.append(res) }

func (o runObserver) Failed(int, domain.View, error) { o.run.fail() }

// Get returns a live or recently finished run.
func (g *Registry) Get(id string) (*Run, error) {
	g.mu.RLock()
	run, ok := g.live[id]
	g.mu.RUnlock()
	if ok {
		return run, nil
	}
	if v, ok := g.finished.Get(id); ok {
		return v.(*Run), nil
	}
	return nil, fmt.Errorf("batch: %w: %s", domain.ErrBatchNotFound, id)
}

// GetForAccount is Get restricted to runs owned by accountID.
func (g *Registry) GetForAccount(id, accountID string) (*Run, error) {
	run, err := g.Get(id)
	if err != nil {
		return nil, err
	}
	if run.accountID != accountID {
		return nil, fmt.Errorf("batch: %w: %s", domain.ErrBatchNotFound, id)
	}
	return run, nil
}

// StopAll requests every live run to stop.
func (g *Registry) StopAll() {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, run := range g.live {
		run.Stop()
	}
}

// Wait blocks until every launched run has finished and its history
// writes are flushed, or ctx expires.
func (g *Registry) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		g.exec.Flush()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
