// Package state holds the persisted application state: habits, tasks,
// settings, focus-session counter, notifications, XP and achievements. Every
// mutation is written through to a storage.Provider before it is committed in
// memory.
package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/julianstephens/focos/internal/audio"
	apperrors "github.com/julianstephens/focos/internal/errors"
	"github.com/julianstephens/focos/internal/logger"
	"github.com/julianstephens/focos/internal/models"
	"github.com/julianstephens/focos/internal/storage"
)

// Change is delivered to subscribers after every committed mutation. Version
// increases by one per mutation, so consumers that receive changes from
// several goroutines can drop stale ones.
type Change struct {
	Version uint64          `json:"version"`
	Slices  []string        `json:"slices"`
	State   models.AppState `json:"state"`
}

type Option func(*Store)

// WithClock replaces time.Now. Rollover compares the clock's local calendar
// date against the stored one.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithAudio sets the player driven by distraction-free mode.
func WithAudio(p audio.Player) Option {
	return func(s *Store) { s.player = p }
}

// WithIDGenerator replaces the uuid-based id source.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

type Store struct {
	mu       sync.Mutex
	provider storage.Provider
	now      func() time.Time
	player   audio.Player
	newID    func() string

	state   models.AppState
	loaded  bool
	version uint64

	audioMu sync.Mutex
	audioWG sync.WaitGroup

	subMu   sync.Mutex
	subs    map[int]func(Change)
	nextSub int
}

// New builds a store over an opened provider. The caller must Init or Load
// the provider first, then call Load on the store.
func New(provider storage.Provider, opts ...Option) *Store {
	s := &Store{
		provider: provider,
		now:      time.Now,
		player:   audio.Nop{},
		newID:    newID,
		state:    models.DefaultState(),
		subs:     make(map[int]func(Change)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads every slice from storage and then runs the rollover check.
func (s *Store) Load() error {
	s.mu.Lock()
	st, err := readState(s.provider)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.state = st
	s.loaded = true
	s.mu.Unlock()

	logger.Debug("State loaded",
		"habits", len(st.Habits),
		"tasks", len(st.Tasks),
		"sessions", st.CompletedSessions,
		"xp", st.UserXP)

	if _, err := s.CheckRollover(); err != nil {
		return fmt.Errorf("rollover on load: %w", err)
	}
	return nil
}

// Close drops all subscribers, stops ambient audio and closes the provider.
func (s *Store) Close() error {
	s.mu.Lock()
	s.loaded = false
	s.mu.Unlock()

	s.subMu.Lock()
	s.subs = make(map[int]func(Change))
	s.subMu.Unlock()

	s.audioMu.Lock()
	if err := s.player.Stop(); err != nil {
		logger.Warn("Failed to stop ambient audio", "error", err)
	}
	s.audioMu.Unlock()
	return s.provider.Close()
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() models.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Version returns the number of mutations committed since Load.
func (s *Store) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Provider exposes the underlying storage, for backups and migrations.
func (s *Store) Provider() storage.Provider {
	return s.provider
}

// Subscribe registers fn for every later Change and returns a function that
// removes it. fn runs on the mutating goroutine after the store lock is
// released.
func (s *Store) Subscribe(fn func(Change)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) publish(c Change) {
	s.subMu.Lock()
	fns := make([]func(Change), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(c)
	}
}

// mutate runs fn against a private copy of the state. fn returns the storage
// keys it touched; nothing is written or published when it touches none.
// The touched slices are persisted in one SetMany and the copy is committed
// only after the write succeeds.
func (s *Store) mutate(op string, fn func(next *models.AppState) []string) error {
	log := logger.With("op", op)
	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return apperrors.ErrNotLoaded
	}

	next := s.state.Clone()
	touched := fn(&next)
	if len(touched) == 0 {
		s.mu.Unlock()
		return nil
	}

	entries, err := encodeSlices(next, touched)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.provider.SetMany(entries); err != nil {
		s.mu.Unlock()
		log.Error("Failed to persist state", "error", err)
		return fmt.Errorf("%s: %w", op, err)
	}

	s.state = next
	s.version++
	change := Change{
		Version: s.version,
		Slices:  touched,
		State:   next.Clone(),
	}
	s.mu.Unlock()

	log.Debug("State changed", "version", change.Version, "slices", touched)
	s.publish(change)
	return nil
}
