package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"lookbook/internal/domain"
)

type stubExecutor struct {
	row      stubRow
	execTag  pgconn.CommandTag
	execArgs []any
}

func (s *stubExecutor) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	s.execArgs = args
	return s.execTag, nil
}

func (s *stubExecutor) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	return s.row
}

func (s *stubExecutor) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

type stubRow struct {
	pose domain.Pose
	err  error
}

func (r stubRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*string) = r.pose.ID
	*dest[1].(*string) = r.pose.Name
	*dest[2].(*string) = string(r.pose.Gender)
	*dest[3].(*[]string) = r.pose.Tags
	*dest[4].(*string) = r.pose.Text
	*dest[5].(*string) = r.pose.ImageURL
	*dest[6].(*string) = r.pose.StickmanURL
	return nil
}

func TestGetPose(t *testing.T) {
	exec := &stubExecutor{row: stubRow{pose: domain.Pose{ID: "p1", Name: "Side", Gender: "male", Tags: []string{"yan_aci"}, Text: "turned"}}}
	p, err := NewPoseRepository(exec).GetPose(context.Background(), "p1")
	if err != nil {
		t.Fatalf("GetPose: %v", err)
	}
	if p.Gender != domain.GenderMale || !p.HasTag(domain.AngledPoseTag) {
		t.Fatalf("pose = %+v", p)
	}
}

func TestGetPoseNotFound(t *testing.T) {
	exec := &stubExecutor{row: stubRow{err: pgx.ErrNoRows}}
	if _, err := NewPoseRepository(exec).GetPose(context.Background(), "p1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSetStickmanMissingRow(t *testing.T) {
	exec := &stubExecutor{execTag: pgconn.NewCommandTag("UPDATE 0")}
	err := NewPoseRepository(exec).SetStickman(context.Background(), "p1", "https://cdn.test/s.png")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
	exec.execTag = pgconn.NewCommandTag("UPDATE 1")
	if err := NewPoseRepository(exec).SetStickman(context.Background(), "p1", "u"); err != nil {
		t.Fatalf("SetStickman: %v", err)
	}
	if exec.execArgs[1] != "u" {
		t.Fatalf("args = %v", exec.execArgs)
	}
}
