// Package session keeps the per-user working state of a shoot: styling
// choices, uploaded asset references and the last analysis. Only low-fidelity
// references are persisted; uploaded bytes stay in process memory.
package session

import (
	"strings"
	"time"

	"lookbook/internal/assets"
	"lookbook/internal/domain"
	"lookbook/internal/payload"
	"lookbook/internal/shots"
)

// State is the persisted part of a session.
type State struct {
	ID             string                  `json:"id"`
	AccountID      string                  `json:"account_id"`
	Workflow       domain.WorkflowType     `json:"workflow,omitempty"`
	PoseFocus      domain.PoseFocus        `json:"pose_focus"`
	Gender         domain.Gender           `json:"gender"`
	ProductName    string                  `json:"product_name,omitempty"`
	FitDescription string                  `json:"fit_description,omitempty"`
	Style          domain.StyleOptions     `json:"style"`
	AspectRatio    string                  `json:"aspect_ratio"`
	Resolution     string                  `json:"resolution"`
	Family         shots.Family            `json:"family"`
	PrimaryPoseID  string                  `json:"primary_pose_id,omitempty"`
	PoseText       string                  `json:"pose_text,omitempty"`
	SideOnlyView   domain.View             `json:"side_only_view,omitempty"`
	Policy         assets.Policy           `json:"policy"`
	Assets         map[domain.Slot]string  `json:"assets,omitempty"`
	Analysis       *domain.GarmentAnalysis `json:"analysis,omitempty"`
	UpdatedAt      time.Time               `json:"updated_at"`
}

// Normalize fills defaults and canonicalises enumerations in place.
func (s *State) Normalize() {
	s.PoseFocus = domain.ParsePoseFocus(string(s.PoseFocus))
	s.Gender = domain.ParseGender(string(s.Gender))
	if wf, ok := domain.ParseWorkflowType(string(s.Workflow)); ok {
		s.Workflow = wf
	} else {
		s.Workflow = ""
	}
	if s.Family == "" {
		s.Family = shots.FamilyStandard
	}
	s.ProductName = strings.TrimSpace(s.ProductName)
	s.AspectRatio = payload.NormalizeAspectRatio(s.AspectRatio)
	s.Resolution = payload.NormalizeResolution(s.Resolution)
	if s.Assets == nil {
		s.Assets = map[domain.Slot]string{}
	}
	s.Style = s.Style.Effective(s.Framing().Flags)
}

// Framing derives the current framing from the pose focus.
func (s State) Framing() domain.Framing {
	return domain.DeriveFraming(s.PoseFocus)
}

// EffectiveWorkflow resolves the workflow, inferring it from the product name
// when none was chosen.
func (s State) EffectiveWorkflow() domain.WorkflowType {
	return domain.ResolveWorkflow(string(s.Workflow), s.ProductName)
}

// ShotRequest builds the spec-builder input. primary and library come from
// the pose library and may be empty.
func (s State) ShotRequest(primary *domain.Pose, library []domain.Pose) shots.Request {
	return shots.Request{
		Workflow:     s.EffectiveWorkflow(),
		PoseFocus:    s.PoseFocus,
		Gender:       s.Gender,
		PoseText:     s.PoseText,
		PrimaryPose:  primary,
		Library:      library,
		Style:        s.Style.Effective(s.Framing().Flags),
		SideOnlyView: s.SideOnlyView,
	}
}

// PayloadInput builds the payload input shared by previews and batches.
func (s State) PayloadInput(lib *assets.Library) payload.Input {
	in := payload.Input{
		Workflow:       s.EffectiveWorkflow(),
		Gender:         s.Gender,
		ProductName:    s.ProductName,
		FitDescription: s.FitDescription,
		Style:          s.Style.Effective(s.Framing().Flags),
		AspectRatio:    s.AspectRatio,
		Resolution:     s.Resolution,
		Library:        lib,
		Policy:         s.Policy,
	}
	if s.Analysis != nil {
		in.Analysis = *s.Analysis
	}
	return in
}
