package session

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"lookbook/internal/assets"
	"lookbook/internal/domain"
	"lookbook/internal/infra"
)

// DefaultIdleTTL bounds how long a session's uploaded bytes stay in memory
// after its last use.
const DefaultIdleTTL = 6 * time.Hour

// Upload is one high-fidelity asset as received from the client.
type Upload struct {
	Slot     domain.Slot
	MIMEType string
	Data     []byte
}

// LowFidelityWriter stores derived variants and returns their public url.
type LowFidelityWriter interface {
	PutLowFidelity(ctx context.Context, sessionID, slot string, data []byte) (string, error)
}

// Options configures a Manager.
type Options struct {
	Store     Store
	Debouncer *Debouncer
	Files     LowFidelityWriter
	Logger    *infra.Logger
	IdleTTL   time.Duration
	Now       func() time.Time
}

type entry struct {
	owner string

	mu      sync.Mutex
	state   State
	library *assets.Library
	uploads map[domain.Slot]Upload
	// previews holds the last assembled preview set. Never persisted.
	previews []domain.ShotPreview
}

// Manager owns live sessions. Reads hit memory first and fall back to the
// store; writes go through the debouncer.
type Manager struct {
	store     Store
	debouncer *Debouncer
	files     LowFidelityWriter
	logger    *infra.Logger
	now       func() time.Time

	mu   sync.Mutex
	live *cache.Cache
}

// NewManager builds a Manager. Store is required.
func NewManager(opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		l := infra.Logger(zerolog.New(io.Discard))
		logger = &l
	}
	ttl := opts.IdleTTL
	if ttl <= 0 {
		ttl = DefaultIdleTTL
	}
	deb := opts.Debouncer
	if deb == nil {
		deb = NewDebouncer(opts.Store, DefaultDebounce, logger)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	live := cache.New(ttl, ttl/4)
	live.OnEvicted(func(id string, v any) {
		e := v.(*entry)
		e.mu.Lock()
		e.library.DropHighFidelity()
		e.uploads = map[domain.Slot]Upload{}
		e.previews = nil
		e.mu.Unlock()
		logger.Debug().Str("session_id", id).Msg("session evicted")
	})
	return &Manager{
		store:     opts.Store,
		debouncer: deb,
		files:     opts.Files,
		logger:    logger,
		now:       now,
		live:      live,
	}
}

// Create starts a new session owned by accountID and persists it right away.
func (m *Manager) Create(ctx context.Context, accountID string, init State) (State, error) {
	st := init
	st.ID = uuid.NewString()
	st.AccountID = accountID
	st.Assets = nil
	st.Analysis = nil
	st.Normalize()
	st.UpdatedAt = m.now().UTC()
	if err := m.store.Save(ctx, &st); err != nil {
		return State{}, err
	}
	e := &entry{owner: accountID, state: st, library: assets.NewLibrary(nil), uploads: map[domain.Slot]Upload{}}
	m.live.SetDefault(st.ID, e)
	return st, nil
}

// Get returns the current state of a session.
func (m *Manager) Get(ctx context.Context, id, accountID string) (State, error) {
	e, err := m.entry(ctx, id, accountID)
	if err != nil {
		return State{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state, nil
}

// Workspace returns the state together with its asset library for preview
// and batch requests.
func (m *Manager) Workspace(ctx context.Context, id, accountID string) (State, *assets.Library, error) {
	e, err := m.entry(ctx, id, accountID)
	if err != nil {
		return State{}, nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state, e.library, nil
}

// Update applies fn to a copy of the state and schedules a debounced save.
// Identity fields and asset references cannot be changed through fn.
func (m *Manager) Update(ctx context.Context, id, accountID string, fn func(*State) error) (State, error) {
	e, err := m.entry(ctx, id, accountID)
	if err != nil {
		return State{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	next := e.state
	if err := fn(&next); err != nil {
		return State{}, err
	}
	next.ID, next.AccountID = e.state.ID, e.state.AccountID
	next.Assets = e.state.Assets
	return m.commit(e, next), nil
}

// SetOption sets one styling toggle, rejecting toggles the current framing
// does not support.
func (m *Manager) SetOption(ctx context.Context, id, accountID string, toggle domain.Toggle, value string) (State, error) {
	return m.Update(ctx, id, accountID, func(st *State) error {
		return st.Style.Set(st.Framing().Flags, toggle, value)
	})
}

// PutAsset stores an upload. The original bytes stay in memory as the
// high-fidelity reference; a derived JPEG is written to file storage and its
// url is what gets persisted.
func (m *Manager) PutAsset(ctx context.Context, id, accountID string, slot domain.Slot, data []byte) (State, error) {
	if len(data) == 0 {
		return State{}, fmt.Errorf("session: %w: %s", domain.ErrMissingAsset, slot)
	}
	if m.files == nil {
		return State{}, errors.New("session: no file storage configured")
	}
	e, err := m.entry(ctx, id, accountID)
	if err != nil {
		return State{}, err
	}
	low, err := assets.LowFidelity(data, assets.LowFidelityMaxSize)
	if err != nil {
		return State{}, err
	}
	url, err := m.files.PutLowFidelity(ctx, id, string(slot), low)
	if err != nil {
		return State{}, fmt.Errorf("session: store low fidelity: %w", err)
	}
	mime := http.DetectContentType(data)

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.library.Set(slot, url, dataURL(mime, data)); err != nil {
		return State{}, err
	}
	e.uploads[slot] = Upload{Slot: slot, MIMEType: mime, Data: data}
	next := e.state
	next.Assets = e.library.LowRefs()
	return m.commit(e, next), nil
}

// ClearAsset empties a slot.
func (m *Manager) ClearAsset(ctx context.Context, id, accountID string, slot domain.Slot) (State, error) {
	e, err := m.entry(ctx, id, accountID)
	if err != nil {
		return State{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.library.Clear(slot)
	delete(e.uploads, slot)
	next := e.state
	next.Assets = e.library.LowRefs()
	return m.commit(e, next), nil
}

// Uploads returns the in-memory uploads for the given slots, in order.
// Slots without bytes in memory are skipped.
func (m *Manager) Uploads(ctx context.Context, id, accountID string, slots ...domain.Slot) ([]Upload, error) {
	e, err := m.entry(ctx, id, accountID)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Upload, 0, len(slots))
	for _, s := range slots {
		if u, ok := e.uploads[s]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

// StorePreviews remembers the latest preview set so a batch runs exactly
// what the user reviewed.
func (m *Manager) StorePreviews(ctx context.Context, id, accountID string, previews []domain.ShotPreview) error {
	e, err := m.entry(ctx, id, accountID)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.previews = append([]domain.ShotPreview(nil), previews...)
	e.mu.Unlock()
	return nil
}

// Previews returns the last stored preview set, or nil.
func (m *Manager) Previews(ctx context.Context, id, accountID string) ([]domain.ShotPreview, error) {
	e, err := m.entry(ctx, id, accountID)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]domain.ShotPreview(nil), e.previews...), nil
}

// Flush writes every pending save. Call it on shutdown.
func (m *Manager) Flush(ctx context.Context) {
	m.debouncer.Flush(ctx)
}

// commit must be called with e.mu held.
func (m *Manager) commit(e *entry, next State) State {
	next.Normalize()
	next.UpdatedAt = m.now().UTC()
	e.state = next
	m.debouncer.Save(next)
	return next
}

// entry returns the live entry for id, restoring it from the store when it
// is not in memory. Sessions of other accounts look like missing ones.
func (m *Manager) entry(ctx context.Context, id, accountID string) (*entry, error) {
	if id == "" {
		return nil, domain.ErrNotFound
	}
	if v, ok := m.live.Get(id); ok {
		e := v.(*entry)
		if e.owner != accountID {
			return nil, domain.ErrNotFound
		}
		m.live.SetDefault(id, e)
		return e, nil
	}

	st, err := m.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if st.AccountID != accountID {
		return nil, domain.ErrNotFound
	}
	st.Normalize()
	restored := &entry{owner: st.AccountID, state: *st, library: assets.NewLibrary(st.Assets), uploads: map[domain.Slot]Upload{}}

	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.live.Get(id); ok {
		return v.(*entry), nil
	}
	m.live.SetDefault(id, restored)
	m.logger.Debug().Str("session_id", id).Int("assets", len(st.Assets)).Msg("session restored")
	return restored, nil
}

func dataURL(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
