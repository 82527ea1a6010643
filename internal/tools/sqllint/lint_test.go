package main

import (
	"strings"
	"testing"
)

func TestLinter(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		want    int
		message string
	}{
		{
			name: "marked query",
			src:  "package q\nconst A = `--sql 412bac9b-f68e-4cb4-9090-8e9b3ad5738f\nselect 1;`\n",
		},
		{
			name:    "unmarked query",
			src:     "package q\nconst A = `select balance from credit_accounts`\n",
			want:    1,
			message: "missing",
		},
		{
			name:    "malformed marker",
			src:     "package q\nconst A = `--sql nope\nupdate x set y = 1`\n",
			want:    1,
			message: "missing",
		},
		{
			name:    "duplicate marker",
			src:     "package q\nconst (\n\tA = `--sql 412bac9b-f68e-4cb4-9090-8e9b3ad5738f\nselect 1;`\n\tB = `--sql 412bac9b-f68e-4cb4-9090-8e9b3ad5738f\nselect 2;`\n)\n",
			want:    1,
			message: "already used",
		},
		{
			name: "plain string",
			src:  "package q\nconst A = \"hello there\"\n",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			l := newLinter()
			if err := l.lintSource("q.go", tc.src); err != nil {
				t.Fatalf("lintSource: %v", err)
			}
			if len(l.violations) != tc.want {
				t.Fatalf("violations = %+v, want %d", l.violations, tc.want)
			}
			if tc.want > 0 && !strings.Contains(l.violations[0].message, tc.message) {
				t.Fatalf("message = %q, want %q", l.violations[0].message, tc.message)
			}
		})
	}
}
