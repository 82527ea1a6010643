// Package credentials reads and writes provider API keys kept in the
// provider_credentials table. Environment variables take precedence; the table
// is the fallback for deployments that rotate keys without a restart.
package credentials

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"lookbook/internal/infra"
	"lookbook/internal/sqlinline"
)

const (
	ProviderGemini     = "gemini"
	ProviderGeneration = "generation"
	ProviderSkeleton   = "skeleton"
)

// Providers lists every provider name the store accepts.
var Providers = []string{ProviderGemini, ProviderGeneration, ProviderSkeleton}

type Store struct {
	sql infra.SQLExecutor
}

func NewStore(sql infra.SQLExecutor) *Store {
	return &Store{sql: sql}
}

// Token returns the stored token for provider, or "" when none is stored.
func (s *Store) Token(ctx context.Context, provider string) (string, error) {
	row := s.sql.QueryRow(ctx, sqlinline.QSelectProviderCredential, provider)
	var token string
	if err := row.Scan(&token); err != nil {
		if infra.IsNoRows(err) {
			return "", nil
		}
		return "", fmt.Errorf("credentials: read %s: %w", provider, err)
	}
	return strings.TrimSpace(token), nil
}

// Resolve prefers envValue and falls back to the stored token.
func (s *Store) Resolve(ctx context.Context, provider, envValue string) (string, error) {
	if v := strings.TrimSpace(envValue); v != "" {
		return v, nil
	}
	if s == nil {
		return "", nil
	}
	return s.Token(ctx, provider)
}

// SetToken stores a token for a known provider.
func (s *Store) SetToken(ctx context.Context, provider, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("credentials: %s token is required", provider)
	}
	if !known(provider) {
		return fmt.Errorf("credentials: unknown provider %q", provider)
	}
	return s.upsert(ctx, provider, token, map[string]any{"source": "cli"})
}

func known(provider string) bool {
	for _, p := range Providers {
		if p == provider {
			return true
		}
	}
	return false
}

func (s *Store) upsert(ctx context.Context, provider, token string, props map[string]any) error {
	payload := props
	if payload == nil {
		payload = map[string]any{}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := s.sql.Exec(ctx, sqlinline.QUpsertProviderCredential, provider, token, raw); err != nil {
		return fmt.Errorf("credentials: write %s: %w", provider, err)
	}
	return nil
}
