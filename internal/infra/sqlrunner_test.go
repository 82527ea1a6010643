package infra

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"lookbook/internal/sqlinline"
)

func TestExtractMarker(t *testing.T) {
	marker, body, err := extractMarker(sqlinline.QChargeCredits)
	if err != nil {
		t.Fatalf("extractMarker: %v", err)
	}
	if len(marker) != 36 {
		t.Fatalf("marker = %q", marker)
	}
	if !strings.HasPrefix(strings.TrimSpace(body), "update credit_accounts") {
		t.Fatalf("body = %q", body)
	}
}

func TestExtractMarkerRejectsUnmarked(t *testing.T) {
	for _, q := range []string{"", "select 1", "--sql not-a-uuid\nselect 1"} {
		if _, _, err := extractMarker(q); !errors.Is(err, ErrMissingMarker) {
			t.Fatalf("extractMarker(%q) err = %v", q, err)
		}
	}
}

func TestIsNoRows(t *testing.T) {
	if !IsNoRows(fmt.Errorf("wrapped: %w", pgx.ErrNoRows)) {
		t.Fatal("wrapped ErrNoRows not detected")
	}
	if IsNoRows(errors.New("other")) {
		t.Fatal("unexpected match")
	}
}

func TestSlowQueryTracerLogsMarker(t *testing.T) {
	var buf bytes.Buffer
	tracer := &slowQueryTracer{logger: zerolog.New(&buf), threshold: 0}
	ctx := tracer.TraceQueryStart(withMarker(context.Background(), "abc"), nil, pgx.TraceQueryStartData{SQL: "select 1"})
	tracer.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{})
	if !strings.Contains(buf.String(), `"sql":"abc"`) || !strings.Contains(buf.String(), "slow query") {
		t.Fatalf("log = %s", buf.String())
	}

	buf.Reset()
	tracer.threshold = time.Hour
	ctx = tracer.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{})
	tracer.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{})
	if buf.Len() != 0 {
		t.Fatalf("fast query logged: %s", buf.String())
	}
}
