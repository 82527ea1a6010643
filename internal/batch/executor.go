// Package batch commits a confirmed set of previews one shot at a time under
// a shared seed and a single up-front charge.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"lookbook/internal/assets"
	"lookbook/internal/domain"
	"lookbook/internal/infra"
	"lookbook/internal/payload"
	"lookbook/internal/providers/generation"
)

// State is the lifecycle of a batch run.
type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateStopped   State = "stopped"
	StateFailed    State = "failed"
)

// Terminal reports whether no further transitions are possible.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateStopped || s == StateFailed
}

// StopToken is a cooperative stop request checked between shots. An
// in-flight call is never interrupted by it.
type StopToken struct {
	stopped atomic.Bool
}

// NewStopToken returns an untriggered token.
func NewStopToken() *StopToken { return &StopToken{} }

// Stop requests the batch to end after the current shot.
func (t *StopToken) Stop() { t.stopped.Store(true) }

// Stopped reports whether Stop was called.
func (t *StopToken) Stopped() bool { return t != nil && t.stopped.Load() }

// Request is everything a batch needs. Selected and EditedPrompts are
// index-aligned with Previews; missing entries mean unselected / unedited.
type Request struct {
	BatchID       string
	AccountID     string
	Previews      []domain.ShotPreview
	Selected      []bool
	EditedPrompts []string
	// Seed is reused for every shot. Zero draws a fresh one.
	Seed         int64
	Input        payload.Input
	CostPerImage int
}

func (r Request) selected(i int) bool { return i < len(r.Selected) && r.Selected[i] }

func (r Request) selectedCount() int {
	n := 0
	for i := range r.Previews {
		if r.selected(i) {
			n++
		}
	}
	return n
}

// Outcome is the terminal summary of a run.
type Outcome struct {
	State   State                     `json:"state"`
	Seed    int64                     `json:"seed"`
	Total   int                       `json:"total"`
	Results []domain.GenerationResult `json:"results"`
	Failed  int                       `json:"failed"`
	Err     error                     `json:"-"`
}

// Observer hears about each shot as soon as it ends. It runs on the batch
// goroutine and must not block for long.
type Observer interface {
	Result(domain.GenerationResult)
	Failed(index int, view domain.View, err error)
}

// ResultFunc is an Observer that only cares about results.
type ResultFunc func(domain.GenerationResult)

func (f ResultFunc) Result(r domain.GenerationResult) { f(r) }

func (ResultFunc) Failed(int, domain.View, error) {}

// Options configures an Executor.
type Options struct {
	Generator generation.Generator
	Ledger    domain.CreditLedger
	History   domain.HistoryRecorder
	Logger    *infra.Logger
	// SeedSource draws a seed when the request carries none.
	SeedSource     func() int64
	HistoryTimeout time.Duration
}

// Executor runs batches.
type Executor struct {
	gen            generation.Generator
	ledger         domain.CreditLedger
	history        domain.HistoryRecorder
	logger         *infra.Logger
	seed           func() int64
	historyTimeout time.Duration
	pending        sync.WaitGroup
}

// NewExecutor builds an Executor.
func NewExecutor(opts Options) *Executor {
	logger := opts.Logger
	if logger == nil {
		l := infra.Logger(zerolog.New(io.Discard))
		logger = &l
	}
	seed := opts.SeedSource
	if seed == nil {
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		var mu sync.Mutex
		seed = func() int64 {
			mu.Lock()
			defer mu.Unlock()
			return rng.Int63n(math.MaxInt32) + 1
		}
	}
	timeout := opts.HistoryTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Executor{
		gen:            opts.Generator,
		ledger:         opts.Ledger,
		history:        opts.History,
		logger:         logger,
		seed:           seed,
		historyTimeout: timeout,
	}
}

// Prepared is a batch that passed pre-flight and has been charged.
type Prepared struct {
	req   Request
	seed  int64
	total int
}

// Seed returns the shared seed of the prepared batch.
func (p *Prepared) Seed() int64 { return p.seed }

// Total returns the number of selected shots.
func (p *Prepared) Total() int { return p.total }

// Prepare runs the pre-flight checks and the single charge for the whole
// batch. Nothing is charged when an earlier check fails.
func (e *Executor) Prepare(ctx context.Context, req Request) (*Prepared, error) {
	if req.Seed < 0 || req.Seed > math.MaxInt32 {
		return nil, fmt.Errorf("batch: %w: %d", domain.ErrInvalidSeed, req.Seed)
	}
	total := req.selectedCount()
	if total == 0 {
		return nil, fmt.Errorf("batch: %w", domain.ErrEmptySelection)
	}
	if req.Input.Library == nil {
		return nil, fmt.Errorf("batch: %w: no asset library", domain.ErrMissingAsset)
	}
	if err := assets.CheckRequired(req.Input.Library); err != nil {
		return nil, fmt.Errorf("batch: %w", err)
	}
	if e.ledger != nil && req.CostPerImage > 0 {
		if _, err := e.ledger.Charge(ctx, req.AccountID, total*req.CostPerImage); err != nil {
			return nil, fmt.Errorf("batch: charge: %w", err)
		}
	}
	seed := req.Seed
	if seed == 0 {
		seed = e.seed()
	}
	return &Prepared{req: req, seed: seed, total: total}, nil
}

// Execute prepares and runs a batch synchronously.
func (e *Executor) Execute(ctx context.Context, req Request, stop *StopToken, observe Observer) Outcome {
	p, err := e.Prepare(ctx, req)
	if err != nil {
		return Outcome{State: StateFailed, Err: err}
	}
	return e.Run(ctx, p, stop, observe)
}

// Run commits every selected shot in order. Per-shot failures are logged and
// skipped. A stop request or a cancelled context ends the loop before the
// next shot and keeps the results produced so far.
func (e *Executor) Run(ctx context.Context, p *Prepared, stop *StopToken, observe Observer) Outcome {
	req := p.req
	out := Outcome{State: StateRunning, Seed: p.seed, Total: p.total, Results: []domain.GenerationResult{}}
	log := e.logger.With().Str("batch_id", req.BatchID).Int64("seed", p.seed).Logger()
	log.Info().Int("selected", p.total).Msg("batch: started")

	for i, prev := range req.Previews {
		if stop.Stopped() || ctx.Err() != nil {
			out.State = StateStopped
			log.Info().Int("results", len(out.Results)).Msg("batch: stopped")
			return out
		}
		if !req.selected(i) {
			continue
		}
		genReq := payload.Build(prev.Spec, req.Input)
		genReq.Seed = p.seed
		genReq.Prompt = commitPrompt(prev, req.EditedPrompts, i)

		res, err := e.gen.Commit(ctx, genReq)
		if err != nil {
			out.Failed++
			log.Warn().Err(err).Int("index", i).Str("view", string(prev.Spec.View)).Msg("batch: shot failed")
			if observe != nil {
				observe.Failed(i, prev.Spec.View, err)
			}
			continue
		}
		result := domain.GenerationResult{
			Index:  i,
			Title:  prev.Title,
			View:   prev.Spec.View,
			URL:    res.FirstImage(),
			Prompt: firstNonEmpty(res.FirstPrompt(), genReq.Prompt),
			Seed:   p.seed,
		}
		out.Results = append(out.Results, result)
		if observe != nil {
			observe.Result(result)
		}
		e.record(ctx, req, result)
	}
	out.State = StateCompleted
	log.Info().Int("results", len(out.Results)).Int("failed", out.Failed).Msg("batch: completed")
	return out
}

// Flush waits for outstanding history writes.
func (e *Executor) Flush() {
	e.pending.Wait()
}

func (e *Executor) record(ctx context.Context, req Request, result domain.GenerationResult) {
	if e.history == nil {
		return
	}
	kind := "technical"
	if i := result.Index; i < len(req.Previews) && req.Previews[i].Spec.IsStyling {
		kind = "styling"
	}
	entry := domain.HistoryEntry{
		AccountID:   req.AccountID,
		BatchID:     req.BatchID,
		Title:       result.Title,
		Type:        kind,
		ImageURL:    result.URL,
		Description: result.Prompt,
		Seed:        result.Seed,
		CreatedAt:   time.Now().UTC(),
	}
	e.pending.Add(1)
	go func() {
		defer e.pending.Done()
		hctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.historyTimeout)
		defer cancel()
		if err := e.history.Record(hctx, entry); err != nil {
			e.logger.Warn().Err(err).Str("batch_id", req.BatchID).Str("view", string(result.View)).Msg("batch: history record failed")
		}
	}()
}

// commitPrompt picks the text sent on commit: a user edit wins, then the
// generated preview prompt. Fallback previews hold the structured payload,
// which is not sent back as prose.
func commitPrompt(prev domain.ShotPreview, edited []string, i int) string {
	if i < len(edited) {
		if e := strings.TrimSpace(edited[i]); e != "" && (e != strings.TrimSpace(prev.Prompt) || !prev.Fallback) {
			return e
		}
	}
	if prev.Fallback {
		return ""
	}
	return strings.TrimSpace(prev.Prompt)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// IsPreflight reports whether err came from a pre-flight check.
func IsPreflight(err error) bool {
	return errors.Is(err, domain.ErrInvalidSeed) ||
		errors.Is(err, domain.ErrEmptySelection) ||
		errors.Is(err, domain.ErrMissingAsset) ||
		errors.Is(err, domain.ErrInsufficientCredit)
}
