package generation

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"lookbook/internal/domain"
	"lookbook/internal/infra"
)

const maxReferenceBytes = 20 << 20

// ImageModel is the part of the genai Models service the Gemini backend
// calls.
type ImageModel interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// ImageStore persists generated images and returns their public url.
type ImageStore interface {
	PutGenerated(ctx context.Context, data []byte, mimeType string) (string, error)
}

// GeminiOptions configures the Gemini image backend.
type GeminiOptions struct {
	Models        ImageModel
	Model         string
	Store         ImageStore
	HTTPClient    *http.Client
	Logger        *infra.Logger
	RatePerMinute int
}

// Gemini generates shots in-process with a Gemini image model. Previews are
// rendered locally; only commits reach the model.
type Gemini struct {
	models  ImageModel
	model   string
	store   ImageStore
	fetch   *http.Client
	limiter *rate.Limiter
	logger  *infra.Logger
}

// NewGeminiBackend connects to the Gemini API.
func NewGeminiBackend(ctx context.Context, apiKey string, opts GeminiOptions) (*Gemini, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, fmt.Errorf("generation: gemini client: %w", err)
	}
	opts.Models = client.Models
	return NewGemini(opts)
}

// NewGemini builds the backend around an existing model service.
func NewGemini(opts GeminiOptions) (*Gemini, error) {
	if opts.Models == nil {
		return nil, errors.New("generation: gemini models service is required")
	}
	if opts.Store == nil {
		return nil, errors.New("generation: image store is required")
	}
	model := opts.Model
	if model == "" {
		model = "gemini-2.5-flash-image"
	}
	fetch := opts.HTTPClient
	if fetch == nil {
		fetch = &http.Client{Timeout: 30 * time.Second}
	}
	var limiter *rate.Limiter
	if opts.RatePerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RatePerMinute)), 1)
	}
	logger := opts.Logger
	if logger == nil {
		l := infra.Logger(zerolog.New(io.Discard))
		logger = &l
	}
	return &Gemini{models: opts.Models, model: model, store: opts.Store, fetch: fetch, limiter: limiter, logger: logger}, nil
}

// Preview renders the prompt locally. It never calls the model.
func (g *Gemini) Preview(ctx context.Context, req Request) (*PreviewResult, error) {
	req.Preview = true
	structured, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("generation: encode preview: %w", err)
	}
	return &PreviewResult{Previews: []PreviewItem{{Prompt: RenderPrompt(req), Structured: structured}}}, nil
}

// Commit generates one image and stores it.
func (g *Gemini) Commit(ctx context.Context, req Request) (*CommitResult, error) {
	if req.Seed < 0 || req.Seed > math.MaxInt32 {
		return nil, fmt.Errorf("generation: gemini: %w: %d", domain.ErrInvalidSeed, req.Seed)
	}
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	prompt := RenderPrompt(req)
	parts := make([]*genai.Part, 0, len(req.Assets)+2)
	for _, ref := range req.Assets {
		data, mime, err := g.reference(ctx, ref.URL)
		if err != nil {
			return nil, fmt.Errorf("generation: %w: reference %s: %v", domain.ErrProviderFailure, ref.Slot, err)
		}
		parts = append(parts, genai.NewPartFromBytes(data, mime))
	}
	if req.StickmanURL != "" {
		if data, mime, err := g.reference(ctx, req.StickmanURL); err == nil {
			parts = append(parts, genai.NewPartFromBytes(data, mime))
		} else {
			g.logger.Warn().Err(err).Str("view", string(req.View)).Msg("generation: skeleton reference skipped")
		}
	}
	parts = append(parts, genai.NewPartFromText(prompt))

	cfg := &genai.GenerateContentConfig{
		ImageConfig: &genai.ImageConfig{AspectRatio: req.AspectRatio},
	}
	if req.Seed != 0 {
		cfg.Seed = genai.Ptr(int32(req.Seed))
	}
	resp, err := g.models.GenerateContent(ctx, g.model, []*genai.Content{{Role: "user", Parts: parts}}, cfg)
	if err != nil {
		return nil, fmt.Errorf("generation: %w: %v", domain.ErrProviderFailure, err)
	}
	blob := firstImage(resp)
	if blob == nil {
		return nil, fmt.Errorf("generation: %w: no image in response", domain.ErrProviderFailure)
	}
	mime := blob.MIMEType
	if mime == "" {
		mime = http.DetectContentType(blob.Data)
	}
	url, err := g.store.PutGenerated(ctx, blob.Data, mime)
	if err != nil {
		return nil, fmt.Errorf("generation: store image: %w", err)
	}
	g.logger.Debug().Str("view", string(req.View)).Int("bytes", len(blob.Data)).Msg("generation: image stored")
	return &CommitResult{Images: []string{url}, Prompts: []string{prompt}}, nil
}

func firstImage(resp *genai.GenerateContentResponse) *genai.Blob {
	if resp == nil {
		return nil
	}
	for _, c := range resp.Candidates {
		if c == nil || c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if p != nil && p.InlineData != nil && len(p.InlineData.Data) > 0 {
				return p.InlineData
			}
		}
	}
	return nil
}

// reference loads a data url or fetches a remote one.
func (g *Gemini) reference(ctx context.Context, ref string) ([]byte, string, error) {
	if rest, ok := strings.CutPrefix(ref, "data:"); ok {
		meta, payload, found := strings.Cut(rest, ",")
		if !found || !strings.HasSuffix(meta, ";base64") {
			return nil, "", errors.New("unsupported data url")
		}
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, "", err
		}
		return data, strings.TrimSuffix(meta, ";base64"), nil
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := g.fetch.Do(httpReq)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("fetch status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxReferenceBytes))
	if err != nil {
		return nil, "", err
	}
	mime := resp.Header.Get("Content-Type")
	if mime == "" || mime == "application/octet-stream" {
		mime = http.DetectContentType(data)
	}
	return data, mime, nil
}

var _ Generator = (*Gemini)(nil)
