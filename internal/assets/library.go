// Package assets holds session asset slots and decides which of them a shot
// sends to the generator.
package assets

import (
	"errors"
	"fmt"
	"sync"

	"lookbook/internal/domain"
)

// ErrHighWithoutLow is returned when a high-fidelity value would be stored
// for a slot that has no low-fidelity value.
var ErrHighWithoutLow = errors.New("assets: high-fidelity value requires a low-fidelity value")

type variant struct {
	low  string
	high string
}

// Library is the per-session slot table. Low-fidelity references are the
// persistable part; high-fidelity references live only in memory.
type Library struct {
	mu    sync.RWMutex
	slots map[domain.Slot]variant
}

// NewLibrary returns an empty library, optionally seeded from persisted
// low-fidelity references.
func NewLibrary(low map[domain.Slot]string) *Library {
	l := &Library{slots: make(map[domain.Slot]variant, len(low))}
	for slot, ref := range low {
		if ref != "" {
			l.slots[slot] = variant{low: ref}
		}
	}
	return l
}

// Set stores both variants for a slot. high may be empty.
func (l *Library) Set(slot domain.Slot, low, high string) error {
	if high != "" && low == "" {
		return fmt.Errorf("%w: %s", ErrHighWithoutLow, slot)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if low == "" {
		delete(l.slots, slot)
		return nil
	}
	l.slots[slot] = variant{low: low, high: high}
	return nil
}

// Clear removes a slot entirely.
func (l *Library) Clear(slot domain.Slot) {
	l.mu.Lock()
	delete(l.slots, slot)
	l.mu.Unlock()
}

// Has reports whether the slot holds any value.
func (l *Library) Has(slot domain.Slot) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.slots[slot]
	return ok
}

// Resolve returns the high-fidelity reference when present, else the
// low-fidelity one.
func (l *Library) Resolve(slot domain.Slot) (string, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	v, ok := l.slots[slot]
	if !ok {
		return "", false
	}
	if v.high != "" {
		return v.high, true
	}
	return v.low, true
}

// LowRefs snapshots the persistable low-fidelity references.
func (l *Library) LowRefs() map[domain.Slot]string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[domain.Slot]string, len(l.slots))
	for slot, v := range l.slots {
		out[slot] = v.low
	}
	return out
}

// DropHighFidelity forgets every transient high-fidelity reference.
func (l *Library) DropHighFidelity() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for slot, v := range l.slots {
		v.high = ""
		l.slots[slot] = v
	}
}
