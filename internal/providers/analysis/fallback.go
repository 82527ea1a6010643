package analysis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"lookbook/internal/domain"
	"lookbook/internal/infra"
)

type fallback struct {
	primary  Analyzer
	fallback Analyzer
	logger   *infra.Logger
}

// WithFallback returns an analyzer that never fails: errors from primary
// are logged and answered by the static describer. A nil primary always
// uses the static describer.
func WithFallback(primary Analyzer, logger *infra.Logger) Analyzer {
	if logger == nil {
		l := infra.Logger(zerolog.New(io.Discard))
		logger = &l
	}
	return &fallback{primary: primary, fallback: Static{}, logger: logger}
}

func (f *fallback) Analyze(ctx context.Context, req Request) (*domain.GarmentAnalysis, error) {
	if f.primary != nil {
		res, err := f.primary.Analyze(ctx, req)
		if err == nil {
			return res, nil
		}
		f.logger.Warn().Err(err).Str("workflow", string(req.Workflow)).Msg("analysis: using fallback description")
	}
	return f.fallback.Analyze(ctx, req)
}

// DefaultCacheTTL is how long an analysis result is reused.
const DefaultCacheTTL = 30 * time.Minute

type cached struct {
	inner Analyzer
	store *cache.Cache
}

// Cached memoises results by workflow, product name and image content.
// Fallback results are not cached so a recovered primary is used next time.
func Cached(inner Analyzer, ttl time.Duration) Analyzer {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &cached{inner: inner, store: cache.New(ttl, 2*ttl)}
}

func (c *cached) Analyze(ctx context.Context, req Request) (*domain.GarmentAnalysis, error) {
	key := fingerprint(req)
	if v, ok := c.store.Get(key); ok {
		res := v.(domain.GarmentAnalysis)
		return &res, nil
	}
	res, err := c.inner.Analyze(ctx, req)
	if err != nil {
		return nil, err
	}
	if !res.Fallback {
		c.store.SetDefault(key, *res)
	}
	return res, nil
}

func fingerprint(req Request) string {
	h := sha256.New()
	io.WriteString(h, string(req.Workflow))
	h.Write([]byte{0})
	io.WriteString(h, req.ProductName)
	for _, img := range req.Images {
		h.Write([]byte{0})
		io.WriteString(h, img.MIMEType)
		h.Write(img.Data)
	}
	return hex.EncodeToString(h.Sum(nil))
}
