package shots

import (
	"fmt"
	"math/rand"

	"lookbook/internal/domain"
)

type standardBuilder struct {
	rng *rand.Rand
}

func (b standardBuilder) Build(req Request) ([]domain.ShotSpec, error) {
	if req.SideOnlyView != "" && !req.SideOnlyView.IsTechnical() {
		return nil, fmt.Errorf("shots: %w: %s", domain.ErrInvalidSideOnly, req.SideOnlyView)
	}
	poses := resolvePoses(req, b.rng)
	front, back := angles(domain.AngleFront), angles(domain.AngleBack)
	specs := []domain.ShotSpec{
		{View: domain.ViewStylingFull, Camera: domain.CameraFullBody, IsStyling: true, Assets: front},
		{View: domain.ViewStylingUpper, Camera: domain.CameraCowboyShot, IsStyling: true, Assets: front},
		{View: domain.ViewTechnicalFront, Camera: domain.CameraFullBody, Assets: front},
		{View: domain.ViewTechnicalBack, Camera: domain.CameraFullBody, Assets: back},
		{View: domain.ViewTechnicalUpperFront, Camera: domain.CameraCowboyShot, Assets: front},
		{View: domain.ViewTechnicalUpperBack, Camera: domain.CameraCowboyShot, Assets: back},
		{View: domain.ViewDetailFront, Camera: domain.CameraCloseUp, Assets: front},
		{View: domain.ViewDetailBack, Camera: domain.CameraCloseUp, Assets: back},
	}
	found := req.SideOnlyView == ""
	for i := range specs {
		if specs[i].View != req.SideOnlyView {
			continue
		}
		specs[i].IsStyling = true
		specs[i].Pose = poses.angled
		found = true
	}
	if !found {
		return nil, fmt.Errorf("shots: %w: %s", domain.ErrInvalidSideOnly, req.SideOnlyView)
	}
	return finalize(specs, req, poses), nil
}
