package handlers

import (
	"context"
	"net/http"

	"lookbook/internal/domain"
	"lookbook/internal/session"
	"lookbook/internal/shots"
)

type planRequest struct {
	Family        shots.Family        `json:"family"`
	Workflow      string              `json:"workflow"`
	ProductName   string              `json:"product_name"`
	PoseFocus     string              `json:"pose_focus"`
	Gender        string              `json:"gender"`
	PoseText      string              `json:"pose_text"`
	PrimaryPoseID string              `json:"primary_pose_id"`
	SideOnlyView  domain.View         `json:"side_only_view"`
	Style         domain.StyleOptions `json:"style"`
}

func (p planRequest) state() session.State {
	st := session.State{
		Workflow:      domain.WorkflowType(p.Workflow),
		ProductName:   p.ProductName,
		PoseFocus:     domain.PoseFocus(p.PoseFocus),
		Gender:        domain.Gender(p.Gender),
		PoseText:      p.PoseText,
		PrimaryPoseID: p.PrimaryPoseID,
		SideOnlyView:  p.SideOnlyView,
		Style:         p.Style,
		Family:        p.Family,
	}
	st.Normalize()
	return st
}

type planResponse struct {
	Family   shots.Family        `json:"family"`
	Workflow domain.WorkflowType `json:"workflow"`
	Framing  framingResponse     `json:"framing"`
	Style    domain.StyleOptions `json:"style"`
	Shots    []domain.ShotSpec   `json:"shots"`
}

// PlanShots builds the ordered shot list without touching a session.
func (a *App) PlanShots(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := decode(r, &req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	st := req.state()
	specs, err := a.buildSpecs(r.Context(), st)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, planResponse{
		Family:   st.Family,
		Workflow: st.EffectiveWorkflow(),
		Framing:  framingFor(st.PoseFocus),
		Style:    st.Style,
		Shots:    specs,
	})
}

// buildSpecs resolves the pose library for st and runs the spec builder.
func (a *App) buildSpecs(ctx context.Context, st session.State) ([]domain.ShotSpec, error) {
	primary, library, err := a.resolvePoses(ctx, st)
	if err != nil {
		return nil, err
	}
	return shots.Build(st.Family, st.ShotRequest(primary, library), nil)
}

// resolvePoses loads the gendered pose library and the chosen primary pose.
// Without a repository, builders fall back to pose text.
func (a *App) resolvePoses(ctx context.Context, st session.State) (*domain.Pose, []domain.Pose, error) {
	if a.Poses == nil {
		return nil, nil, nil
	}
	library, err := a.Poses.ListPoses(ctx, st.Gender)
	if err != nil {
		return nil, nil, err
	}
	if st.PrimaryPoseID == "" {
		return nil, library, nil
	}
	var primary *domain.Pose
	if a.Stickman != nil {
		primary, err = a.Stickman.Ensure(ctx, st.PrimaryPoseID)
	} else {
		primary, err = a.Poses.GetPose(ctx, st.PrimaryPoseID)
	}
	if err != nil {
		return nil, nil, err
	}
	return primary, library, nil
}

// ListPoses returns the pose library for a gender.
func (a *App) ListPoses(w http.ResponseWriter, r *http.Request) {
	if a.Poses == nil {
		a.json(w, http.StatusOK, map[string]any{"poses": []domain.Pose{}})
		return
	}
	items, err := a.Poses.ListPoses(r.Context(), domain.ParseGender(r.URL.Query().Get("gender")))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if items == nil {
		items = []domain.Pose{}
	}
	a.json(w, http.StatusOK, map[string]any{"poses": items})
}
