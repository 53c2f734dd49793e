package sqlstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/Azarem/gaia-scribe/internal/idgen"
	"github.com/Azarem/gaia-scribe/internal/storage"
	"github.com/Azarem/gaia-scribe/internal/types"
)

func newMemStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func mustCreatePlatform(t *testing.T, s *Store, p *types.Platform) *types.Platform {
	t.Helper()
	if p.ID == "" {
		p.ID = idgen.NewID()
	}
	if err := s.CreatePlatform(context.Background(), p); err != nil {
		t.Fatalf("CreatePlatform: %v", err)
	}
	return p
}

func TestStoreCreateAndGetPlatform(t *testing.T) {
	ctx := context.Background()
	s := newMemStore(t)

	created := mustCreatePlatform(t, s, &types.Platform{
		Name:          "SNES",
		BranchID:      "branch-p1",
		BranchName:    "SNES v3",
		BranchVersion: 3,
		Meta:          `{"branchId":"branch-p1"}`,
		CreatedBy:     "kara",
	})

	got, err := s.GetPlatformByName(ctx, "kara", "SNES")
	if err != nil {
		t.Fatalf("GetPlatformByName: %v", err)
	}
	if got.ID != created.ID || got.BranchID != "branch-p1" || got.BranchVersion != 3 {
		t.Errorf("unexpected platform: %+v", got)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Errorf("timestamps not persisted: %+v", got)
	}

	if _, err := s.GetPlatformByName(ctx, "kara", "NES"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("missing platform: got %v, want ErrNotFound", err)
	}
	if _, err := s.GetPlatformByName(ctx, "lance", "SNES"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("lookup scoped by owner: got %v, want ErrNotFound", err)
	}
}

func TestStoreListPlatformsVisibility(t *testing.T) {
	ctx := context.Background()
	s := newMemStore(t)

	mustCreatePlatform(t, s, &types.Platform{Name: "mine", BranchID: "B1", CreatedBy: "kara"})
	mustCreatePlatform(t, s, &types.Platform{Name: "shared", BranchID: "B1", CreatedBy: "lance", Public: true})
	mustCreatePlatform(t, s, &types.Platform{Name: "private", BranchID: "B1", CreatedBy: "lance"})
	mustCreatePlatform(t, s, &types.Platform{Name: "other-branch", BranchID: "B2", CreatedBy: "kara"})

	got, err := s.ListPlatforms(ctx, storage.PlatformFilter{BranchID: "B1", VisibleTo: "kara"})
	if err != nil {
		t.Fatalf("ListPlatforms: %v", err)
	}
	names := make(map[string]bool)
	for _, p := range got {
		names[p.Name] = true
	}
	if len(got) != 2 || !names["mine"] || !names["shared"] {
		t.Errorf("visible platforms = %v, want mine and shared", names)
	}

	all, err := s.ListPlatforms(ctx, storage.PlatformFilter{})
	if err != nil {
		t.Fatalf("ListPlatforms (no filter): %v", err)
	}
	if len(all) != 4 {
		t.Errorf("unfiltered count = %d, want 4", len(all))
	}
}

func TestStoreBatchInsertAtomic(t *testing.T) {
	ctx := context.Background()
	s := newMemStore(t)

	plat := mustCreatePlatform(t, s, &types.Platform{Name: "SNES", BranchID: "B1", CreatedBy: "kara"})

	group := &types.InstructionGroup{ID: idgen.NewID(), PlatformID: plat.ID, Name: "LDA"}
	if err := s.CreateInstructionGroups(ctx, []*types.InstructionGroup{group}); err != nil {
		t.Fatalf("CreateInstructionGroups: %v", err)
	}
	mode := &types.AddressingMode{ID: idgen.NewID(), PlatformID: plat.ID, Name: "imm", Size: 2}
	if err := s.CreateAddressingModes(ctx, []*types.AddressingMode{mode}); err != nil {
		t.Fatalf("CreateAddressingModes: %v", err)
	}

	// The second row violates UNIQUE(group_id, mode_id); the whole batch
	// must roll back.
	err := s.CreateInstructionCodes(ctx, []*types.InstructionCode{
		{ID: idgen.NewID(), GroupID: group.ID, ModeID: mode.ID, Code: 0xA9},
		{ID: idgen.NewID(), GroupID: group.ID, ModeID: mode.ID, Code: 0xAD},
	})
	if err == nil {
		t.Fatal("expected unique constraint violation")
	}
	n, err := s.CountRows(ctx, "instruction_codes")
	if err != nil {
		t.Fatalf("CountRows: %v", err)
	}
	if n != 0 {
		t.Errorf("partial batch persisted: %d rows", n)
	}
}

func TestStoreForeignKeysEnforced(t *testing.T) {
	ctx := context.Background()
	s := newMemStore(t)

	err := s.CreateVectors(ctx, []*types.Vector{
		{ID: idgen.NewID(), PlatformID: "no-such-platform", Name: "RESET", Address: 0xFFFC},
	})
	if err == nil {
		t.Fatal("expected foreign key violation")
	}
}

func TestStoreEmptyBatchIsNoop(t *testing.T) {
	s := newMemStore(t)
	if err := s.CreateLabels(context.Background(), nil); err != nil {
		t.Errorf("empty batch: %v", err)
	}
}

func TestStoreFileDatabase(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "scribe.db")

	s, err := New(ctx, path)
	if err != nil {
		t.Fatalf("New(%q): %v", path, err)
	}
	mustCreatePlatform(t, s, &types.Platform{Name: "SNES", BranchID: "B1", CreatedBy: "kara"})
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Reopen: schema init is idempotent, data survives.
	s, err = New(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = s.Close() }()
	if _, err := s.GetPlatformByName(ctx, "kara", "SNES"); err != nil {
		t.Errorf("platform lost across reopen: %v", err)
	}
}

func TestStoreCloseIdempotent(t *testing.T) {
	s := newMemStore(t)
	if err := s.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second close: %v", err)
	}
}
