package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"lookbook/internal/domain"
)

type previewResponse struct {
	SessionID string               `json:"session_id"`
	Previews  []domain.ShotPreview `json:"previews"`
}

// AssemblePreviews builds the session's shot list and asks the generation
// collaborator for a preview of each. The result is kept on the session for
// the batch that follows. A session that was never analyzed is analyzed
// first so every preview carries a garment description.
func (a *App) AssemblePreviews(w http.ResponseWriter, r *http.Request) {
	id, account := chi.URLParam(r, "id"), a.currentAccountID(r)
	st, lib, err := a.Sessions.Workspace(r.Context(), id, account)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if st.Analysis == nil {
		if st, err = a.analyze(r.Context(), id, account, st); err != nil {
			a.fail(w, r, err)
			return
		}
	}
	specs, err := a.buildSpecs(r.Context(), st)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	previews, err := a.Previews.Assemble(r.Context(), specs, st.PayloadInput(lib))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if err := a.Sessions.StorePreviews(r.Context(), id, account, previews); err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, previewResponse{SessionID: id, Previews: previews})
}
