package importer

import (
	"sync"

	"github.com/google/uuid"

	"github.com/Azarem/gaia-scribe/internal/debug"
	"github.com/Azarem/gaia-scribe/internal/storage"
	"github.com/Azarem/gaia-scribe/internal/types"
)

// ProgressFunc receives a human-readable step label and a (current, total)
// phase pair before each phase begins. Invoked synchronously; implementations
// must not block.
type ProgressFunc func(label string, current, total int)

// Options configures one import session.
type Options struct {
	// RootName overrides the snapshot's own name for the root entity.
	RootName string
	// Actor is recorded as the root entity's owner and scopes the
	// duplicate-name check.
	Actor string
	// Public marks the created root entity as visible to everyone.
	Public bool
	// ConcurrentIndependent runs the independent phases (those with no
	// cross-references into other dependent kinds) concurrently.
	ConcurrentIndependent bool
	// SkipDependentsOnFailure skips a child phase outright when a phase it
	// references has failed. The default (false) preserves the historical
	// behavior: attempt the phase anyway and drop unresolvable drafts.
	SkipDependentsOnFailure bool
	// OnProgress, when set, is invoked before each phase.
	OnProgress ProgressFunc
}

// session owns all mutable state for one pipeline invocation. Sessions
// share nothing; concurrent imports each build their own batch, key maps
// and error list.
type session struct {
	id    string
	store storage.Storage
	batch *types.NormalizedBatch
	opts  Options

	result *Result

	// mu guards keys, failed and the result's error lists when independent
	// phases run concurrently.
	mu     sync.Mutex
	keys   map[types.EntityKind]map[string]string
	failed map[types.EntityKind]bool
}

func newSession(store storage.Storage, batch *types.NormalizedBatch, opts Options) *session {
	return &session{
		id:    uuid.NewString(),
		store: store,
		batch: batch,
		opts:  opts,
		result: &Result{
			RootName: batch.Root.Name,
			Created:  make(map[types.EntityKind]int),
			Skipped:  batch.Skipped,
		},
		keys:   make(map[types.EntityKind]map[string]string),
		failed: make(map[types.EntityKind]bool),
	}
}

// mapKey records a natural-key -> surrogate-id mapping for one entity kind.
func (s *session) mapKey(kind types.EntityKind, name, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.keys[kind]
	if !ok {
		m = make(map[string]string)
		s.keys[kind] = m
	}
	m[name] = id
}

// lookup resolves a natural key to the surrogate id assigned when the
// parent phase inserted its rows.
func (s *session) lookup(kind types.EntityKind, name string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.keys[kind][name]
	return id, ok
}

// drop discards a draft whose cross-reference cannot be resolved. Dropped
// drafts are not counted as created.
func (s *session) drop(kind types.EntityKind, key string) {
	s.mu.Lock()
	s.result.Dropped++
	s.mu.Unlock()
	debug.Logf("import %s: dropping %s %q: unresolved reference", s.id, kind, key)
}

func (s *session) recordCreated(kind types.EntityKind, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result.Created[kind] = n
}

func (s *session) recordPhaseError(ph phase, err error) {
	s.mu.Lock()
	s.result.PhaseErrors = append(s.result.PhaseErrors, PhaseError{Phase: ph.label, Message: err.Error()})
	s.result.Created[ph.kind] = 0
	s.failed[ph.kind] = true
	s.mu.Unlock()
	debug.Warnf("import %s: phase %s failed: %v", s.id, ph.label, err)
}

func (s *session) phaseFailed(kinds ...types.EntityKind) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, kind := range kinds {
		if s.failed[kind] {
			return true
		}
	}
	return false
}

func (s *session) progress(label string, current, total int) {
	if s.opts.OnProgress != nil {
		s.opts.OnProgress(label, current, total)
	}
}
