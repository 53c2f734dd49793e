package importer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Azarem/gaia-scribe/internal/snapshot"
	"github.com/Azarem/gaia-scribe/internal/storage"
	"github.com/Azarem/gaia-scribe/internal/storage/sqlstore"
	"github.com/Azarem/gaia-scribe/internal/types"
)

const platformBranchJSON = `{
	"id": "branch-p1",
	"name": "SNES v3",
	"version": 3,
	"platform": {
		"name": "SNES",
		"addressingModes": {
			"imm": {"size": 2, "format": "#$%02X"},
			"abs": {"size": 3, "format": "$%04X"}
		},
		"instructionSet": {
			"LDA": {"imm": 169, "abs": 173}
		},
		"vectors": {
			"RESET": {"address": 65532}
		}
	}
}`

const gameBranchJSON = `{
	"id": "branch-g1",
	"name": "Illusion of Gaia",
	"version": 7,
	"game": {
		"name": "Illusion of Gaia",
		"platformBranchId": "branch-p1",
		"files": {"rom": {"type": "Binary", "start": 0, "end": 4194304}},
		"blocks": {
			"maintext": {
				"movable": true,
				"parts": {"intro": {"start": 100, "end": 200, "type": "String"}},
				"transforms": {"$C40000": "maintext_ptr"}
			}
		},
		"stringTypes": {
			"dialog": {
				"delimiter": "[END]",
				"commands": {"[PAUSE]": {"code": 3}}
			}
		},
		"labels": {"$C40000": "start"},
		"cops": {"jump": {"code": 16, "mnemonic": "JMP"}}
	}
}`

func newTestStore(t *testing.T) *sqlstore.Store {
	t.Helper()
	store, err := sqlstore.New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func parseBranch(t *testing.T, raw string) *snapshot.Branch {
	t.Helper()
	b, err := snapshot.Parse([]byte(raw))
	require.NoError(t, err)
	return b
}

func TestImportPlatform(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	res, err := ImportPlatform(ctx, store, parseBranch(t, platformBranchJSON), Options{Actor: "kara"})
	require.NoError(t, err)
	require.True(t, res.Success)
	require.False(t, res.Partial())
	require.NotEmpty(t, res.RootID)
	require.Equal(t, "SNES", res.RootName)

	require.Equal(t, map[types.EntityKind]int{
		types.KindAddressingMode:   2,
		types.KindInstructionGroup: 1,
		types.KindInstructionCode:  2,
		types.KindVector:           1,
	}, res.Created)
	require.Equal(t, 6, res.TotalCreated())
	require.Zero(t, res.Dropped)

	p, err := store.GetPlatformByName(ctx, "kara", "SNES")
	require.NoError(t, err)
	require.Equal(t, res.RootID, p.ID)
	require.Equal(t, "branch-p1", p.BranchID)
	require.Equal(t, 3, p.BranchVersion)

	for table, want := range map[string]int{
		"addressing_modes":   2,
		"instruction_groups": 1,
		"instruction_codes":  2,
		"vectors":            1,
	} {
		n, err := store.CountRows(ctx, table)
		require.NoError(t, err)
		require.Equal(t, want, n, "table %s", table)
	}
}

func TestImportPlatformDuplicateName(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	branch := parseBranch(t, platformBranchJSON)

	_, err := ImportPlatform(ctx, store, branch, Options{Actor: "kara"})
	require.NoError(t, err)

	res, err := ImportPlatform(ctx, store, branch, Options{Actor: "kara"})
	require.ErrorIs(t, err, storage.ErrNameExists)
	require.False(t, res.Success)

	// A different owner may reuse the name.
	_, err = ImportPlatform(ctx, store, branch, Options{Actor: "lance"})
	require.NoError(t, err)
}

func TestImportValidationHaltsBeforeAnyWrite(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	batch := validPlatformBatch()
	batch.AddressingModes = append(batch.AddressingModes, types.AddressingModeDraft{Name: "imm"})

	res, err := ImportBatch(ctx, store, batch, Options{})
	require.ErrorIs(t, err, ErrValidation)
	require.False(t, res.Success)
	require.Len(t, res.ValidationErrors, 1)
	require.Empty(t, res.RootID)

	n, err := store.CountRows(ctx, "platforms")
	require.NoError(t, err)
	require.Zero(t, n, "validation failure must precede the first write")
}

func TestImportGameEndToEnd(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := ImportPlatform(ctx, store, parseBranch(t, platformBranchJSON), Options{Actor: "kara"})
	require.NoError(t, err)

	gameBranch := parseBranch(t, gameBranchJSON)
	platform, err := FindPlatformBinding(ctx, store, gameBranch.Game.PlatformBranchID, "kara")
	require.NoError(t, err)

	res, err := ImportGame(ctx, store, gameBranch, platform.ID, Options{Actor: "kara"})
	require.NoError(t, err)
	require.True(t, res.Success)
	require.False(t, res.Partial())

	for _, kind := range []types.EntityKind{
		types.KindFile, types.KindBlock, types.KindBlockPart,
		types.KindBlockTransform, types.KindStringType,
		types.KindStringCommand, types.KindLabel, types.KindCop,
	} {
		require.Equal(t, 1, res.Created[kind], "created %s", kind)
	}
	require.Equal(t, 8, res.TotalCreated())

	proj, err := store.GetProjectByName(ctx, "kara", "Illusion of Gaia")
	require.NoError(t, err)
	require.Equal(t, platform.ID, proj.PlatformID)
}

func TestImportGameWithoutBinding(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := FindPlatformBinding(ctx, store, "branch-p1", "kara")
	require.ErrorIs(t, err, ErrBindingNotFound)

	_, err = FindPlatformBinding(ctx, store, "", "kara")
	require.ErrorIs(t, err, ErrBindingNotFound)
}

// failingStore wraps a real store and fails selected batch writes.
type failingStore struct {
	storage.Storage
	failGroups     bool
	failTransforms bool
	failFiles      bool
	failLabels     bool
}

func (f *failingStore) CreateInstructionGroups(ctx context.Context, rows []*types.InstructionGroup) error {
	if f.failGroups {
		return errors.New("injected write failure")
	}
	return f.Storage.CreateInstructionGroups(ctx, rows)
}

func (f *failingStore) CreateFiles(ctx context.Context, rows []*types.File) error {
	if f.failFiles {
		return errors.New("injected write failure")
	}
	return f.Storage.CreateFiles(ctx, rows)
}

func (f *failingStore) CreateLabels(ctx context.Context, rows []*types.Label) error {
	if f.failLabels {
		return errors.New("injected write failure")
	}
	return f.Storage.CreateLabels(ctx, rows)
}

func (f *failingStore) CreateBlockTransforms(ctx context.Context, rows []*types.BlockTransform) error {
	if f.failTransforms {
		return errors.New("injected write failure")
	}
	return f.Storage.CreateBlockTransforms(ctx, rows)
}

func TestImportGamePartialFailure(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := ImportPlatform(ctx, store, parseBranch(t, platformBranchJSON), Options{Actor: "kara"})
	require.NoError(t, err)
	platform, err := FindPlatformBinding(ctx, store, "branch-p1", "kara")
	require.NoError(t, err)

	wrapped := &failingStore{Storage: store, failTransforms: true}
	res, err := ImportGame(ctx, wrapped, parseBranch(t, gameBranchJSON), platform.ID, Options{Actor: "kara"})
	require.NoError(t, err, "phase failure must not fail the import")
	require.True(t, res.Success)
	require.True(t, res.Partial())

	require.Len(t, res.PhaseErrors, 1)
	require.Equal(t, "Creating block transforms", res.PhaseErrors[0].Phase)
	require.Equal(t, 1, res.Created[types.KindBlock])
	require.Zero(t, res.Created[types.KindBlockTransform])

	// Everything before and after the failed phase landed.
	n, err := store.CountRows(ctx, "blocks")
	require.NoError(t, err)
	require.Equal(t, 1, n)
	n, err = store.CountRows(ctx, "block_transforms")
	require.NoError(t, err)
	require.Zero(t, n)
	n, err = store.CountRows(ctx, "string_commands")
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestImportDependentsDroppedWhenParentPhaseFails(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	wrapped := &failingStore{Storage: store, failGroups: true}

	res, err := ImportPlatform(ctx, wrapped, parseBranch(t, platformBranchJSON), Options{Actor: "kara"})
	require.NoError(t, err)
	require.True(t, res.Success)
	require.True(t, res.Partial())

	// Codes reference the failed group phase: every draft is dropped rather
	// than mis-linked, and no code row reaches the store.
	require.Equal(t, 2, res.Created[types.KindAddressingMode])
	require.Zero(t, res.Created[types.KindInstructionGroup])
	require.Zero(t, res.Created[types.KindInstructionCode])
	require.Equal(t, 2, res.Dropped)
	require.Empty(t, res.SkippedPhases)

	n, err := store.CountRows(ctx, "instruction_codes")
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestImportSkipDependentsOnFailure(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	wrapped := &failingStore{Storage: store, failGroups: true}

	res, err := ImportPlatform(ctx, wrapped, parseBranch(t, platformBranchJSON), Options{
		Actor:                   "kara",
		SkipDependentsOnFailure: true,
	})
	require.NoError(t, err)
	require.True(t, res.Success)
	require.True(t, res.Partial())

	require.Equal(t, []string{"Creating instruction codes"}, res.SkippedPhases)
	require.Zero(t, res.Dropped, "a skipped phase never touches its drafts")
}

func TestImportProgressReporting(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	type step struct {
		label          string
		current, total int
	}
	var steps []step
	_, err := ImportPlatform(ctx, store, parseBranch(t, platformBranchJSON), Options{
		Actor: "kara",
		OnProgress: func(label string, current, total int) {
			steps = append(steps, step{label, current, total})
		},
	})
	require.NoError(t, err)

	require.Len(t, steps, 4)
	require.Equal(t, step{"Creating addressing modes", 1, 4}, steps[0])
	require.Equal(t, step{"Creating instruction codes", 4, 4}, steps[3])
	for _, s := range steps {
		require.Equal(t, 4, s.total)
	}
}

func TestImportConcurrentIndependentPhases(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	platRes, err := ImportPlatform(ctx, store, parseBranch(t, platformBranchJSON), Options{Actor: "kara"})
	require.NoError(t, err)

	res, err := ImportGame(ctx, store, parseBranch(t, gameBranchJSON), platRes.RootID, Options{
		Actor:                 "kara",
		ConcurrentIndependent: true,
	})
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Equal(t, 1, res.Created[types.KindFile])
	require.Equal(t, 1, res.Created[types.KindLabel])
	require.Equal(t, 1, res.Created[types.KindCop])
	require.Equal(t, 1, res.Created[types.KindBlockPart])
}

func TestImportConcurrentPhaseFailuresIsolated(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	platRes, err := ImportPlatform(ctx, store, parseBranch(t, platformBranchJSON), Options{Actor: "kara"})
	require.NoError(t, err)

	// Two independent phases fail while the rest of the concurrent run
	// proceeds; each failure must be recorded without disturbing siblings.
	wrapped := &failingStore{Storage: store, failFiles: true, failLabels: true}
	res, err := ImportGame(ctx, wrapped, parseBranch(t, gameBranchJSON), platRes.RootID, Options{
		Actor:                 "kara",
		ConcurrentIndependent: true,
	})
	require.NoError(t, err)
	require.True(t, res.Success)
	require.True(t, res.Partial())

	require.Len(t, res.PhaseErrors, 2)
	failed := make(map[string]bool)
	for _, pe := range res.PhaseErrors {
		failed[pe.Phase] = true
	}
	require.True(t, failed["Creating files"], "files failure not recorded: %v", res.PhaseErrors)
	require.True(t, failed["Creating labels"], "labels failure not recorded: %v", res.PhaseErrors)

	require.Zero(t, res.Created[types.KindFile])
	require.Zero(t, res.Created[types.KindLabel])
	require.Equal(t, 1, res.Created[types.KindCop])
	require.Equal(t, 1, res.Created[types.KindBlock])
	require.Equal(t, 1, res.Created[types.KindBlockPart])
	require.Equal(t, 1, res.Created[types.KindStringCommand])

	n, err := store.CountRows(ctx, "files")
	require.NoError(t, err)
	require.Zero(t, n)
	n, err = store.CountRows(ctx, "cops")
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestImportCancelledContext(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := ImportPlatform(ctx, store, parseBranch(t, platformBranchJSON), Options{Actor: "kara"})
	require.ErrorIs(t, err, context.Canceled)
	require.False(t, res.Success)
	require.Empty(t, res.RootID)
}
