package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"lookbook/internal/batch"
	"lookbook/internal/billing"
	"lookbook/internal/domain"
)

const (
	streamWriteWait  = 10 * time.Second
	streamPongWait   = 60 * time.Second
	streamPingPeriod = streamPongWait * 9 / 10
)

type batchRequest struct {
	Selected      []bool   `json:"selected"`
	EditedPrompts []string `json:"edited_prompts"`
	Seed          int64    `json:"seed"`
}

type batchResponse struct {
	BatchID string      `json:"batch_id"`
	State   batch.State `json:"state"`
	Seed    int64       `json:"seed"`
	Total   int         `json:"total"`
	Cost    int         `json:"cost"`
}

// StartBatch charges credits and launches generation of the selected
// previews. It returns once the run is started.
func (a *App) StartBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := decode(r, &req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	id, account := chi.URLParam(r, "id"), a.currentAccountID(r)
	st, lib, err := a.Sessions.Workspace(r.Context(), id, account)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	previews, err := a.Sessions.Previews(r.Context(), id, account)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if len(previews) == 0 {
		a.error(w, http.StatusConflict, "no_previews", "assemble previews before starting a batch")
		return
	}
	cost := billing.CostPerImage(st.Resolution, a.CreditsPerImage)
	run, err := a.Batches.Launch(r.Context(), batch.Request{
		AccountID:     account,
		Previews:      previews,
		Selected:      req.Selected,
		EditedPrompts: req.EditedPrompts,
		Seed:          req.Seed,
		Input:         st.PayloadInput(lib),
		CostPerImage:  cost,
	})
	if err != nil {
		if batch.IsPreflight(err) {
			a.Logger.Info().Err(err).
				Str("session_id", id).
				Str("account_id", account).
				Msg("batch rejected before charge")
		}
		a.fail(w, r, err)
		return
	}
	snap := run.Snapshot()
	a.json(w, http.StatusAccepted, batchResponse{
		BatchID: snap.ID,
		State:   snap.State,
		Seed:    snap.Seed,
		Total:   snap.Total,
		Cost:    cost * snap.Total,
	})
}

// GetBatch returns a snapshot of a live or recently finished run.
func (a *App) GetBatch(w http.ResponseWriter, r *http.Request) {
	run, err := a.Batches.GetForAccount(chi.URLParam(r, "id"), a.currentAccountID(r))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, run.Snapshot())
}

// StopBatch requests a cooperative stop. The shot in flight finishes.
func (a *App) StopBatch(w http.ResponseWriter, r *http.Request) {
	run, err := a.Batches.GetForAccount(chi.URLParam(r, "id"), a.currentAccountID(r))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	run.Stop()
	a.json(w, http.StatusAccepted, run.Snapshot())
}

// StreamBatch upgrades to a websocket and pushes results as they land. The
// first frame is the current snapshot so late subscribers catch up.
func (a *App) StreamBatch(w http.ResponseWriter, r *http.Request) {
	run, err := a.Batches.GetForAccount(chi.URLParam(r, "id"), a.currentAccountID(r))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	conn, err := a.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		a.Logger.Warn().Err(err).Str("batch_id", run.ID()).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	events, snap, cancel := run.Subscribe()
	defer cancel()

	closed := make(chan struct{})
	go readUntilClosed(conn, closed)

	if err := writeFrame(conn, batch.Event{Type: batch.EventSnapshot, Snapshot: &snap}); err != nil {
		return
	}
	ticker := time.NewTicker(streamPingPeriod)
	defer ticker.Stop()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "done"),
					time.Now().Add(streamWriteWait))
				return
			}
			if err := writeFrame(conn, ev); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(streamWriteWait)); err != nil {
				return
			}
		case <-closed:
			return
		}
	}
}

func writeFrame(conn *websocket.Conn, ev batch.Event) error {
	_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
	return conn.WriteJSON(ev)
}

// readUntilClosed drains client frames so pongs and close messages are
// processed, and signals when the peer goes away.
func readUntilClosed(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)
	_ = conn.SetReadDeadline(time.Now().Add(streamPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(streamPongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Balance returns the caller's credit balance.
func (a *App) Balance(w http.ResponseWriter, r *http.Request) {
	if a.Ledger == nil {
		a.fail(w, r, errors.New("billing not configured"))
		return
	}
	balance, err := a.Ledger.Balance(r.Context(), a.currentAccountID(r))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]int{"balance": balance})
}

// ListHistory returns the caller's generated shots, newest first.
func (a *App) ListHistory(w http.ResponseWriter, r *http.Request) {
	if a.History == nil {
		a.json(w, http.StatusOK, map[string]any{"items": []domain.HistoryEntry{}})
		return
	}
	items, err := a.History.List(r.Context(), a.currentAccountID(r), queryInt(r, "limit", 50))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if items == nil {
		items = []domain.HistoryEntry{}
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}
