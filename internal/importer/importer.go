package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/Azarem/gaia-scribe/internal/debug"
	"github.com/Azarem/gaia-scribe/internal/idgen"
	"github.com/Azarem/gaia-scribe/internal/snapshot"
	"github.com/Azarem/gaia-scribe/internal/storage"
	"github.com/Azarem/gaia-scribe/internal/transform"
	"github.com/Azarem/gaia-scribe/internal/types"
)

// ImportPlatform imports a platform branch snapshot: addressing modes,
// instruction groups, per-(group, mode) opcodes and vectors under a new
// Platform root entity.
func ImportPlatform(ctx context.Context, store storage.Storage, branch *snapshot.Branch, opts Options) (*Result, error) {
	batch, err := transform.Platform(branch, transformOptions(opts, ""))
	if err != nil {
		return nil, err
	}
	s := newSession(store, batch, opts)
	return s.run(ctx, s.platformPhases())
}

// ImportGame imports a ROM branch snapshot under a new Project root
// entity. platformID must name an already-imported platform; callers
// obtain it from FindPlatformBinding before starting the import.
func ImportGame(ctx context.Context, store storage.Storage, branch *snapshot.Branch, platformID string, opts Options) (*Result, error) {
	batch, err := transform.Game(branch, transformOptions(opts, platformID))
	if err != nil {
		return nil, err
	}
	s := newSession(store, batch, opts)
	return s.run(ctx, s.gamePhases())
}

// ImportBatch runs the pipeline on an already-transformed batch. Exposed
// for callers that build batches programmatically (and for tests).
func ImportBatch(ctx context.Context, store storage.Storage, batch *types.NormalizedBatch, opts Options) (*Result, error) {
	s := newSession(store, batch, opts)
	switch batch.Root.Kind {
	case types.KindProject:
		return s.run(ctx, s.gamePhases())
	default:
		return s.run(ctx, s.platformPhases())
	}
}

func transformOptions(opts Options, platformID string) transform.Options {
	return transform.Options{
		RootName:   opts.RootName,
		Actor:      opts.Actor,
		Public:     opts.Public,
		PlatformID: platformID,
	}
}

// run executes the pipeline: validate, create the root entity, then load
// dependent phases in order. Validation failure and root-creation failure
// are terminal with zero (respectively zero dependent) writes; any later
// phase failure is recorded and the loader moves on.
func (s *session) run(ctx context.Context, phases []phase) (*Result, error) {
	debug.Logf("import %s: starting %s import %q (branch %s)",
		s.id, s.batch.Root.Kind, s.batch.Root.Name, s.batch.Root.BranchID)

	if errs := Validate(s.batch); len(errs) > 0 {
		s.result.ValidationErrors = errs
		return s.result, fmt.Errorf("%w: %d error(s)", ErrValidation, len(errs))
	}

	if err := ctx.Err(); err != nil {
		return s.result, err
	}

	if err := s.createRoot(ctx); err != nil {
		return s.result, fmt.Errorf("creating %s %q: %w", s.batch.Root.Kind, s.batch.Root.Name, err)
	}

	if err := s.load(ctx, phases); err != nil {
		// Only cancellation aborts the loader; phase write failures are
		// absorbed into the result.
		return s.result, err
	}

	s.result.Success = true
	if s.result.Partial() {
		debug.Warnf("import %s: finished with incomplete sections: %d phase error(s), %d skipped phase(s)",
			s.id, len(s.result.PhaseErrors), len(s.result.SkippedPhases))
	}
	return s.result, nil
}

// createRoot creates the single top-level entity every dependent row will
// reference. Its success is a hard precondition: failure here is fatal and
// guarantees zero writes.
func (s *session) createRoot(ctx context.Context) error {
	root := s.batch.Root
	switch root.Kind {
	case types.KindPlatform:
		if _, err := s.store.GetPlatformByName(ctx, root.CreatedBy, root.Name); err == nil {
			return storage.ErrNameExists
		} else if !errors.Is(err, storage.ErrNotFound) {
			return err
		}
		p := &types.Platform{
			ID:            idgen.NewID(),
			Name:          root.Name,
			Public:        root.Public,
			BranchID:      root.BranchID,
			BranchName:    root.BranchName,
			BranchVersion: root.BranchVersion,
			Meta:          root.Meta,
			CreatedBy:     root.CreatedBy,
		}
		if err := s.store.CreatePlatform(ctx, p); err != nil {
			return err
		}
		s.result.RootID = p.ID
	case types.KindProject:
		if _, err := s.store.GetProjectByName(ctx, root.CreatedBy, root.Name); err == nil {
			return storage.ErrNameExists
		} else if !errors.Is(err, storage.ErrNotFound) {
			return err
		}
		p := &types.Project{
			ID:            idgen.NewID(),
			Name:          root.Name,
			Public:        root.Public,
			PlatformID:    root.PlatformID,
			BranchID:      root.BranchID,
			BranchVersion: root.BranchVersion,
			Meta:          root.Meta,
			CreatedBy:     root.CreatedBy,
		}
		if err := s.store.CreateProject(ctx, p); err != nil {
			return err
		}
		s.result.RootID = p.ID
	default:
		return fmt.Errorf("unsupported root kind %q", root.Kind)
	}
	debug.Logf("import %s: created root %s %s", s.id, root.Kind, s.result.RootID)
	return nil
}
