package poses

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"lookbook/internal/domain"
	"lookbook/internal/infra"
)

// Skeletonizer turns a reference image into a skeletal overlay image.
type Skeletonizer interface {
	Skeleton(ctx context.Context, imageURL string) (string, error)
}

// StickmanResolver makes sure a pose has a skeletal reference before it is
// used as the primary pose of a batch.
type StickmanResolver struct {
	repo   domain.PoseRepository
	skel   Skeletonizer
	logger *infra.Logger
}

func NewStickmanResolver(repo domain.PoseRepository, skel Skeletonizer, logger *infra.Logger) *StickmanResolver {
	if logger == nil {
		l := infra.Logger(zerolog.New(io.Discard))
		logger = &l
	}
	return &StickmanResolver{repo: repo, skel: skel, logger: logger}
}

// Ensure returns the pose with StickmanURL filled in when possible. A pose
// without a reference image, or a skeleton failure, leaves it unset: the
// batch then runs on pose text alone.
func (r *StickmanResolver) Ensure(ctx context.Context, id string) (*domain.Pose, error) {
	p, err := r.repo.GetPose(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.StickmanURL != "" || strings.TrimSpace(p.ImageURL) == "" || r.skel == nil {
		return p, nil
	}
	url, err := r.skel.Skeleton(ctx, p.ImageURL)
	if err != nil {
		r.logger.Warn().Err(err).Str("pose_id", id).Msg("poses: skeleton generation failed")
		return p, nil
	}
	if err := r.repo.SetStickman(ctx, id, url); err != nil {
		return nil, fmt.Errorf("poses: store stickman: %w", err)
	}
	p.StickmanURL = url
	return p, nil
}
