package domain

import (
	"context"
	"time"
)

// PoseRepository lists library poses.
type PoseRepository interface {
	ListPoses(ctx context.Context, gender Gender) ([]Pose, error)
	GetPose(ctx context.Context, id string) (*Pose, error)
	SetStickman(ctx context.Context, id, url string) error
}

// CreditLedger is the billing collaborator. Charge checks and deducts in one
// step and returns the remaining balance.
type CreditLedger interface {
	Charge(ctx context.Context, accountID string, amount int) (int, error)
	Balance(ctx context.Context, accountID string) (int, error)
}

// HistoryEntry is one persisted shot.
type HistoryEntry struct {
	AccountID   string    `json:"account_id"`
	BatchID     string    `json:"batch_id"`
	Title       string    `json:"title"`
	Type        string    `json:"type"`
	ImageURL    string    `json:"image_url"`
	Description string    `json:"description"`
	Seed        int64     `json:"seed"`
	CreatedAt   time.Time `json:"created_at"`
}

// HistoryRecorder appends project history entries.
type HistoryRecorder interface {
	Record(ctx context.Context, entry HistoryEntry) error
}
