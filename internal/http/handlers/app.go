package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"lookbook/internal/assets"
	"lookbook/internal/batch"
	"lookbook/internal/domain"
	"lookbook/internal/infra"
	"lookbook/internal/middleware"
	"lookbook/internal/poses"
	"lookbook/internal/preview"
	"lookbook/internal/providers/analysis"
	"lookbook/internal/session"
)

const maxJSONBody = 1 << 20

// HistoryLister reads project history.
type HistoryLister interface {
	List(ctx context.Context, accountID string, limit int) ([]domain.HistoryEntry, error)
}

// App carries the collaborators every handler needs.
type App struct {
	Logger          *infra.Logger
	Sessions        *session.Manager
	Poses           domain.PoseRepository
	Stickman        *poses.StickmanResolver
	Analyzer        analysis.Analyzer
	Previews        *preview.Assembler
	Batches         *batch.Registry
	Ledger          domain.CreditLedger
	History         HistoryLister
	CreditsPerImage int
	MaxUploadBytes  int64
	Upgrader        websocket.Upgrader
	// Fetch downloads result images for archives.
	Fetch *http.Client
}

// NewApp fills defaults for optional fields.
func NewApp(app App) *App {
	if app.Logger == nil {
		l := infra.Logger(zerolog.New(io.Discard))
		app.Logger = &l
	}
	if app.CreditsPerImage <= 0 {
		app.CreditsPerImage = 1
	}
	if app.MaxUploadBytes <= 0 {
		app.MaxUploadBytes = 20 << 20
	}
	if app.Fetch == nil {
		app.Fetch = &http.Client{Timeout: 30 * time.Second}
	}
	if app.Analyzer == nil {
		app.Analyzer = analysis.Static{}
	}
	return &app
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}

// fail maps domain errors onto HTTP responses.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		a.Logger.Error().Err(err).
			Str("path", r.URL.Path).
			Str("request_id", middleware.RequestIDFromContext(r.Context())).
			Msg("request failed")
	}
	a.error(w, status, code, err.Error())
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrBatchNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, domain.ErrInsufficientCredit):
		return http.StatusPaymentRequired, "insufficient_credit"
	case errors.Is(err, domain.ErrEmptySelection):
		return http.StatusBadRequest, "empty_selection"
	case errors.Is(err, domain.ErrInvalidSeed):
		return http.StatusBadRequest, "invalid_seed"
	case errors.Is(err, domain.ErrInvalidSideOnly):
		return http.StatusBadRequest, "invalid_side_only"
	case errors.Is(err, domain.ErrInvalidSlot):
		return http.StatusBadRequest, "invalid_slot"
	case errors.Is(err, domain.ErrMissingAsset):
		return http.StatusUnprocessableEntity, "missing_asset"
	case errors.Is(err, domain.ErrToggleNotCapable):
		return http.StatusUnprocessableEntity, "toggle_not_capable"
	case errors.Is(err, assets.ErrHighWithoutLow):
		return http.StatusUnprocessableEntity, "invalid_asset"
	case errors.Is(err, domain.ErrProviderFailure):
		return http.StatusBadGateway, "provider_failure"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func (a *App) currentAccountID(r *http.Request) string {
	return middleware.AccountIDFromContext(r.Context())
}

// decode reads a JSON body. An empty body leaves v untouched.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid payload: %w", err)
	}
	return nil
}

func queryInt(r *http.Request, key string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}
