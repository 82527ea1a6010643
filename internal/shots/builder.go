// Package shots expands styling choices into ordered shot specifications.
package shots

import (
	"fmt"
	"math/rand"

	"lookbook/internal/domain"
)

// Family selects a spec-building strategy.
type Family string

const (
	FamilyStandard Family = "standard"
	FamilyWorkflow Family = "workflow"
)

// Request carries every input a builder needs.
type Request struct {
	Workflow  domain.WorkflowType
	PoseFocus domain.PoseFocus
	Gender    domain.Gender
	// PoseText is the free-text primary pose used when PrimaryPose is nil.
	PoseText    string
	PrimaryPose *domain.Pose
	Library     []domain.Pose
	Style       domain.StyleOptions
	// SideOnlyView optionally restricts one technical view to styling-only
	// framing. Only the standard family honours it.
	SideOnlyView domain.View
}

// SpecBuilder produces the ordered shot list for one batch.
type SpecBuilder interface {
	Build(req Request) ([]domain.ShotSpec, error)
}

// New returns the builder for a family. rng drives the angled pose pick; a
// nil rng uses a time-seeded source.
func New(family Family, rng *rand.Rand) (SpecBuilder, error) {
	if rng == nil {
		rng = newRand()
	}
	switch family {
	case FamilyStandard, "":
		return standardBuilder{rng: rng}, nil
	case FamilyWorkflow:
		return workflowBuilder{rng: rng}, nil
	default:
		return nil, fmt.Errorf("shots: unknown family %q", family)
	}
}

// Build is a convenience wrapper around New(...).Build.
func Build(family Family, req Request, rng *rand.Rand) ([]domain.ShotSpec, error) {
	b, err := New(family, rng)
	if err != nil {
		return nil, err
	}
	return b.Build(req)
}
