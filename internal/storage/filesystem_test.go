package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitizeKey(t *testing.T) {
	cases := map[string]string{
		"a/b.jpg":           "a/b.jpg",
		"/a//b.jpg":         "a/b.jpg",
		`a\b.jpg`:           "a/b.jpg",
		"./x/../y.jpg":      "y.jpg",
		"sessions/s1/m.jpg": "sessions/s1/m.jpg",
	}
	for in, want := range cases {
		got, err := sanitizeKey(in)
		if err != nil || got != want {
			t.Fatalf("sanitizeKey(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	for _, bad := range []string{"", " ", "../etc/passwd", "a/../../b", ".."} {
		if _, err := sanitizeKey(bad); err == nil {
			t.Fatalf("sanitizeKey(%q) expected error", bad)
		}
	}
}

func TestPutLowFidelity(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, "https://cdn.test/static/")
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	url, err := store.PutLowFidelity(context.Background(), "sess-1", "top_front", []byte("jpeg"))
	if err != nil {
		t.Fatalf("PutLowFidelity: %v", err)
	}
	prefix := "https://cdn.test/static/sessions/sess-1/top_front-"
	if !strings.HasPrefix(url, prefix) || !strings.HasSuffix(url, ".jpg") {
		t.Fatalf("url = %q", url)
	}
	key := strings.TrimPrefix(url, "https://cdn.test/static/")
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(key)))
	if err != nil || string(data) != "jpeg" {
		t.Fatalf("stored = %q, %v", data, err)
	}
}

func TestWriteCancelled(t *testing.T) {
	store, _ := NewFileStore(t.TempDir(), "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.Write(ctx, "a.jpg", nil); err == nil {
		t.Fatal("expected context error")
	}
}

func TestPutGenerated(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, "https://cdn.test/files/")
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	url, err := store.PutGenerated(context.Background(), []byte("jpeg"), "image/jpeg")
	if err != nil {
		t.Fatalf("PutGenerated: %v", err)
	}
	if !strings.HasPrefix(url, "https://cdn.test/files/generated/") || !strings.HasSuffix(url, ".jpg") {
		t.Fatalf("unexpected url %q", url)
	}
	key := strings.TrimPrefix(url, "https://cdn.test/files/")
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(key)))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(data) != "jpeg" {
		t.Fatalf("stored %q", data)
	}
}
