package shots

import (
	"math/rand"

	"lookbook/internal/domain"
)

type workflowBuilder struct {
	rng *rand.Rand
}

func (b workflowBuilder) Build(req Request) ([]domain.ShotSpec, error) {
	poses := resolvePoses(req, b.rng)
	camera := domain.CameraFor(domain.FramingModeFor(req.PoseFocus))
	front, back := angles(domain.AngleFront), angles(domain.AngleBack)

	var specs []domain.ShotSpec
	if req.Workflow == domain.WorkflowUpper {
		specs = []domain.ShotSpec{
			{View: domain.ViewStylingFront, Camera: camera, IsStyling: true, Assets: front},
			{View: domain.ViewStylingFrontUpper, Camera: domain.CameraCowboyShot, IsStyling: true, Assets: front},
			{View: domain.ViewTechnicalFrontAngled, Camera: domain.CameraCowboyShot, Assets: front},
			{View: domain.ViewTechnicalBack, Camera: domain.CameraCowboyShot, Assets: back},
			{View: domain.ViewDetailFront, Camera: domain.CameraCloseUp, Assets: front},
		}
		return finalize(specs, req, poses), nil
	}

	specs = []domain.ShotSpec{
		{View: domain.ViewStylingFront, Camera: camera, IsStyling: true, Assets: front},
		{View: domain.ViewStylingAngled, Camera: camera, IsStyling: true, Assets: front},
		{View: domain.ViewTechnicalFront, Camera: domain.CameraFullBody, Assets: front},
		{View: domain.ViewTechnicalBack, Camera: domain.CameraFullBody, Assets: back},
		{View: domain.ViewDetailFront, Camera: domain.CameraCloseUp, Assets: front},
		{View: domain.ViewDetailBack, Camera: domain.CameraCloseUp, Assets: back},
	}
	return finalize(specs, req, poses), nil
}
