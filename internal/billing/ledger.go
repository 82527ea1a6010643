// Package billing charges credits for committed batches.
package billing

import (
	"context"
	"fmt"
	"strings"

	"lookbook/internal/domain"
	"lookbook/internal/infra"
	"lookbook/internal/sqlinline"
)

var tierMultiplier = map[string]int{
	"1K": 1,
	"2K": 2,
	"4K": 4,
}

// CostPerImage scales the base cost by the resolution tier. Unknown tiers
// cost the base amount.
func CostPerImage(resolution string, base int) int {
	if base < 0 {
		base = 0
	}
	if m, ok := tierMultiplier[strings.ToUpper(strings.TrimSpace(resolution))]; ok {
		return base * m
	}
	return base
}

// Ledger implements domain.CreditLedger on Postgres.
type Ledger struct {
	sql infra.SQLExecutor
}

func NewLedger(sql infra.SQLExecutor) *Ledger {
	return &Ledger{sql: sql}
}

// Charge deducts amount in a single conditional update. No matching row
// means the account is missing or short on credit; both are reported as
// ErrInsufficientCredit.
func (l *Ledger) Charge(ctx context.Context, accountID string, amount int) (int, error) {
	if amount <= 0 {
		return l.Balance(ctx, accountID)
	}
	var remaining int
	err := l.sql.QueryRow(ctx, sqlinline.QChargeCredits, accountID, amount).Scan(&remaining)
	if err != nil {
		if infra.IsNoRows(err) {
			return 0, fmt.Errorf("billing: charge %d: %w", amount, domain.ErrInsufficientCredit)
		}
		return 0, fmt.Errorf("billing: charge: %w", err)
	}
	return remaining, nil
}

// Balance returns the current balance; unknown accounts have zero.
func (l *Ledger) Balance(ctx context.Context, accountID string) (int, error) {
	var balance int
	err := l.sql.QueryRow(ctx, sqlinline.QSelectCreditBalance, accountID).Scan(&balance)
	if err != nil {
		if infra.IsNoRows(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("billing: balance: %w", err)
	}
	return balance, nil
}

// Grant adds credits, creating the account when needed.
func (l *Ledger) Grant(ctx context.Context, accountID string, amount int) (int, error) {
	if strings.TrimSpace(accountID) == "" {
		return 0, fmt.Errorf("billing: account id is required")
	}
	if amount <= 0 {
		return 0, fmt.Errorf("billing: grant amount must be positive")
	}
	var balance int
	if err := l.sql.QueryRow(ctx, sqlinline.QGrantCredits, accountID, amount).Scan(&balance); err != nil {
		return 0, fmt.Errorf("billing: grant: %w", err)
	}
	return balance, nil
}

var _ domain.CreditLedger = (*Ledger)(nil)
