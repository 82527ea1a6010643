// Package poses loads the pose library and fills in skeletal references.
package poses

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"lookbook/internal/domain"
)

type libraryFile struct {
	Poses []domain.Pose `yaml:"poses"`
}

// FileLibrary is a YAML-backed pose repository. Stickman urls set at runtime
// are kept in memory only.
type FileLibrary struct {
	mu    sync.RWMutex
	poses map[string]domain.Pose
	order []string
}

// ParseLibraryYAML decodes and validates a pose library document.
func ParseLibraryYAML(data []byte) (*FileLibrary, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("poses: library payload is empty")
	}
	var doc libraryFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("poses: decode library: %w", err)
	}
	lib := &FileLibrary{poses: make(map[string]domain.Pose, len(doc.Poses))}
	for i, p := range doc.Poses {
		p.ID = strings.TrimSpace(p.ID)
		if p.ID == "" {
			return nil, fmt.Errorf("poses: entry %d has no id", i)
		}
		if strings.TrimSpace(p.Text) == "" {
			return nil, fmt.Errorf("poses: %s has no text", p.ID)
		}
		if _, dup := lib.poses[p.ID]; dup {
			return nil, fmt.Errorf("poses: duplicate id %s", p.ID)
		}
		p.Gender = domain.ParseGender(string(p.Gender))
		lib.poses[p.ID] = p
		lib.order = append(lib.order, p.ID)
	}
	return lib, nil
}

// LoadLibraryFile reads a YAML pose library from disk.
func LoadLibraryFile(path string) (*FileLibrary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("poses: read %s: %w", path, err)
	}
	lib, err := ParseLibraryYAML(data)
	if err != nil {
		return nil, fmt.Errorf("poses: %s: %w", path, err)
	}
	return lib, nil
}

// ListPoses returns poses for gender in file order.
func (l *FileLibrary) ListPoses(ctx context.Context, gender domain.Gender) ([]domain.Pose, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []domain.Pose
	for _, id := range l.order {
		if p := l.poses[id]; p.Gender == gender {
			out = append(out, p)
		}
	}
	return out, nil
}

// GetPose returns one pose or ErrNotFound.
func (l *FileLibrary) GetPose(ctx context.Context, id string) (*domain.Pose, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	p, ok := l.poses[id]
	if !ok {
		return nil, fmt.Errorf("poses: %w: %s", domain.ErrNotFound, id)
	}
	return &p, nil
}

// SetStickman records the skeletal reference for a pose.
func (l *FileLibrary) SetStickman(ctx context.Context, id, url string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.poses[id]
	if !ok {
		return fmt.Errorf("poses: %w: %s", domain.ErrNotFound, id)
	}
	p.StickmanURL = url
	l.poses[id] = p
	return nil
}

// Tags returns every tag in use, sorted.
func (l *FileLibrary) Tags() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	seen := map[string]struct{}{}
	for _, p := range l.poses {
		for _, t := range p.Tags {
			seen[t] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

var _ domain.PoseRepository = (*FileLibrary)(nil)
