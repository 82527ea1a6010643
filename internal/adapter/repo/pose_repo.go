package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"lookbook/internal/domain"
	"lookbook/internal/infra"
	"lookbook/internal/sqlinline"
)

// PoseRepositoryPG implements domain.PoseRepository backed by PostgreSQL.
type PoseRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewPoseRepository creates a new PoseRepositoryPG.
func NewPoseRepository(sql infra.SQLExecutor) *PoseRepositoryPG {
	return &PoseRepositoryPG{sql: sql}
}

// ListPoses returns the library poses for one gender ordered by name.
func (r *PoseRepositoryPG) ListPoses(ctx context.Context, gender domain.Gender) ([]domain.Pose, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListPosesByGender, string(gender))
	if err != nil {
		return nil, fmt.Errorf("repo: list poses: %w", err)
	}
	defer rows.Close()
	var out []domain.Pose
	for rows.Next() {
		p, err := scanPose(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo: list poses: %w", err)
	}
	return out, nil
}

// GetPose fetches a pose by id.
func (r *PoseRepositoryPG) GetPose(ctx context.Context, id string) (*domain.Pose, error) {
	p, err := scanPose(r.sql.QueryRow(ctx, sqlinline.QSelectPose, id))
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, fmt.Errorf("repo: pose %s: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return p, nil
}

// SetStickman stores the skeletal reference of a pose.
func (r *PoseRepositoryPG) SetStickman(ctx context.Context, id, url string) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QUpdatePoseStickman, id, url)
	if err != nil {
		return fmt.Errorf("repo: set stickman: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo: pose %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func scanPose(row pgx.Row) (*domain.Pose, error) {
	var (
		p      domain.Pose
		gender string
	)
	if err := row.Scan(&p.ID, &p.Name, &gender, &p.Tags, &p.Text, &p.ImageURL, &p.StickmanURL); err != nil {
		if infra.IsNoRows(err) {
			return nil, err
		}
		return nil, fmt.Errorf("repo: scan pose: %w", err)
	}
	p.Gender = domain.ParseGender(gender)
	return &p, nil
}

var _ domain.PoseRepository = (*PoseRepositoryPG)(nil)
