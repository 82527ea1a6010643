package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"lookbook/internal/assets"
	"lookbook/internal/domain"
	"lookbook/internal/providers/analysis"
	"lookbook/internal/session"
	"lookbook/internal/shots"
)

type sessionResponse struct {
	session.State
	Framing framingResponse `json:"framing"`
}

func present(st session.State) sessionResponse {
	return sessionResponse{State: st, Framing: framingFor(st.PoseFocus)}
}

// stateUpdate is a partial update; nil fields are left as they are.
type stateUpdate struct {
	Workflow       *string              `json:"workflow"`
	PoseFocus      *string              `json:"pose_focus"`
	Gender         *string              `json:"gender"`
	ProductName    *string              `json:"product_name"`
	FitDescription *string              `json:"fit_description"`
	Style          *domain.StyleOptions `json:"style"`
	AspectRatio    *string              `json:"aspect_ratio"`
	Resolution     *string              `json:"resolution"`
	Family         *shots.Family        `json:"family"`
	PrimaryPoseID  *string              `json:"primary_pose_id"`
	PoseText       *string              `json:"pose_text"`
	SideOnlyView   *domain.View         `json:"side_only_view"`
	Policy         *assets.Policy       `json:"policy"`
}

func (u stateUpdate) apply(st *session.State) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	if u.Workflow != nil {
		st.Workflow = domain.WorkflowType(*u.Workflow)
	}
	if u.PoseFocus != nil {
		st.PoseFocus = domain.PoseFocus(*u.PoseFocus)
	}
	if u.Gender != nil {
		st.Gender = domain.Gender(*u.Gender)
	}
	set(&st.ProductName, u.ProductName)
	set(&st.FitDescription, u.FitDescription)
	set(&st.AspectRatio, u.AspectRatio)
	set(&st.Resolution, u.Resolution)
	set(&st.PrimaryPoseID, u.PrimaryPoseID)
	set(&st.PoseText, u.PoseText)
	if u.Style != nil {
		st.Style = *u.Style
	}
	if u.Family != nil {
		st.Family = *u.Family
	}
	if u.SideOnlyView != nil {
		st.SideOnlyView = *u.SideOnlyView
	}
	if u.Policy != nil {
		st.Policy = *u.Policy
	}
}

// CreateSession starts a session, optionally seeded with initial state.
func (a *App) CreateSession(w http.ResponseWriter, r *http.Request) {
	var u stateUpdate
	if err := decode(r, &u); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	var init session.State
	u.apply(&init)
	st, err := a.Sessions.Create(r.Context(), a.currentAccountID(r), init)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, present(st))
}

// GetSession restores persisted state.
func (a *App) GetSession(w http.ResponseWriter, r *http.Request) {
	st, err := a.Sessions.Get(r.Context(), chi.URLParam(r, "id"), a.currentAccountID(r))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, present(st))
}

// UpdateState applies a partial update and schedules a debounced save.
func (a *App) UpdateState(w http.ResponseWriter, r *http.Request) {
	var u stateUpdate
	if err := decode(r, &u); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	st, err := a.Sessions.Update(r.Context(), chi.URLParam(r, "id"), a.currentAccountID(r), func(st *session.State) error {
		u.apply(st)
		return nil
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, present(st))
}

type optionRequest struct {
	Value string `json:"value"`
}

// SetOption sets one styling toggle, gated by the current framing.
func (a *App) SetOption(w http.ResponseWriter, r *http.Request) {
	var req optionRequest
	if err := decode(r, &req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	toggle := domain.Toggle(chi.URLParam(r, "toggle"))
	st, err := a.Sessions.SetOption(r.Context(), chi.URLParam(r, "id"), a.currentAccountID(r), toggle, req.Value)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, present(st))
}

// PutAsset stores an uploaded image in a slot. The body is the raw image.
func (a *App) PutAsset(w http.ResponseWriter, r *http.Request) {
	slot, err := domain.ParseSlot(chi.URLParam(r, "slot"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, a.MaxUploadBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			a.error(w, http.StatusRequestEntityTooLarge, "too_large", "upload exceeds size limit")
			return
		}
		a.error(w, http.StatusBadRequest, "bad_request", "failed to read upload")
		return
	}
	st, err := a.Sessions.PutAsset(r.Context(), chi.URLParam(r, "id"), a.currentAccountID(r), slot, data)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, present(st))
}

// DeleteAsset empties a slot.
func (a *App) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	slot, err := domain.ParseSlot(chi.URLParam(r, "slot"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	st, err := a.Sessions.ClearAsset(r.Context(), chi.URLParam(r, "id"), a.currentAccountID(r), slot)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, present(st))
}

var analysisSlots = []domain.Slot{
	domain.SlotTopFront, domain.SlotBottomFront, domain.SlotTopBack, domain.SlotBottomBack,
}

// Analyze runs the analysis collaborator on the session's garment uploads
// and stores the result on the session.
func (a *App) Analyze(w http.ResponseWriter, r *http.Request) {
	id, account := chi.URLParam(r, "id"), a.currentAccountID(r)
	st, err := a.Sessions.Get(r.Context(), id, account)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	st, err = a.analyze(r.Context(), id, account, st)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"analysis": st.Analysis, "session": present(st)})
}

// analyze describes the garment uploads and stores the result. The
// configured analyzer falls back to a static description on failure.
func (a *App) analyze(ctx context.Context, id, account string, st session.State) (session.State, error) {
	uploads, err := a.Sessions.Uploads(ctx, id, account, analysisSlots...)
	if err != nil {
		return st, err
	}
	req := analysis.Request{Workflow: st.EffectiveWorkflow(), ProductName: st.ProductName}
	for _, u := range uploads {
		req.Images = append(req.Images, analysis.Image{MIMEType: u.MIMEType, Data: u.Data})
	}
	result, err := a.Analyzer.Analyze(ctx, req)
	if err != nil {
		return st, err
	}
	return a.Sessions.Update(ctx, id, account, func(st *session.State) error {
		st.Analysis = result
		if st.ProductName == "" {
			st.ProductName = result.ProductName
		}
		return nil
	})
}
