package handlers

import (
	"net/http"

	"lookbook/internal/domain"
)

type framingRequest struct {
	PoseFocus string `json:"pose_focus"`
}

type framingResponse struct {
	PoseFocus domain.PoseFocus `json:"pose_focus"`
	domain.Framing
	Camera domain.Camera `json:"camera"`
}

func framingFor(focus domain.PoseFocus) framingResponse {
	f := domain.DeriveFraming(focus)
	return framingResponse{PoseFocus: focus, Framing: f, Camera: domain.CameraFor(f.Mode)}
}

// Framing derives the framing mode and capability flags for a pose focus.
func (a *App) Framing(w http.ResponseWriter, r *http.Request) {
	var req framingRequest
	if err := decode(r, &req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	a.json(w, http.StatusOK, framingFor(domain.ParsePoseFocus(req.PoseFocus)))
}
