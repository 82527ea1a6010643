// Package preview turns shot specs into editable prompts before a batch is
// committed.
package preview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"lookbook/internal/domain"
	"lookbook/internal/infra"
	"lookbook/internal/payload"
	"lookbook/internal/providers/generation"
)

const defaultConcurrency = 3

// Options configures an Assembler.
type Options struct {
	Generator   generation.Generator
	Concurrency int
	Logger      *infra.Logger
}

// Assembler calls the generator in preview mode for every shot.
type Assembler struct {
	gen         generation.Generator
	concurrency int
	logger      *infra.Logger
}

// NewAssembler builds an Assembler.
func NewAssembler(opts Options) *Assembler {
	logger := opts.Logger
	if logger == nil {
		l := infra.Logger(zerolog.New(io.Discard))
		logger = &l
	}
	n := opts.Concurrency
	if n <= 0 {
		n = defaultConcurrency
	}
	return &Assembler{gen: opts.Generator, concurrency: n, logger: logger}
}

// Title renders a view id for display, e.g. "technical_back" -> "Technical Back".
func Title(v domain.View) string {
	return cases.Title(language.English).String(strings.ReplaceAll(string(v), "_", " "))
}

// Assemble returns one preview per spec in the same order. A failed preview
// call never aborts the others; its prompt falls back to the structured
// request so the user can edit it by hand. Only context cancellation is
// returned as an error.
func (a *Assembler) Assemble(ctx context.Context, specs []domain.ShotSpec, in payload.Input) ([]domain.ShotPreview, error) {
	out := make([]domain.ShotPreview, len(specs))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(a.concurrency)
	for i, spec := range specs {
		i, spec := i, spec
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			out[i] = a.one(egCtx, spec, in)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("preview: assemble: %w", err)
	}
	return out, nil
}

func (a *Assembler) one(ctx context.Context, spec domain.ShotSpec, in payload.Input) domain.ShotPreview {
	req := payload.Build(spec, in)
	p := domain.ShotPreview{Title: Title(spec.View), Spec: spec}
	structured, _ := json.MarshalIndent(req, "", "  ")

	res, err := a.gen.Preview(ctx, req)
	if err == nil && (res == nil || len(res.Previews) == 0) {
		err = errors.New("empty preview response")
	}
	if err != nil {
		a.logger.Warn().Err(err).Str("view", string(spec.View)).Msg("preview: falling back to structured payload")
		p.Structured = structured
		p.Prompt = string(structured)
		p.Fallback = true
		return p
	}
	item := res.Previews[0]
	p.Prompt = strings.TrimSpace(item.Prompt)
	p.Structured = item.Structured
	if len(p.Structured) == 0 {
		p.Structured = structured
	}
	if p.Prompt == "" {
		p.Prompt = string(p.Structured)
		p.Fallback = true
	}
	return p
}
