package importer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Azarem/gaia-scribe/internal/storage"
	"github.com/Azarem/gaia-scribe/internal/types"
)

// platformLister serves canned ListPlatforms results.
type platformLister struct {
	storage.Storage
	platforms []*types.Platform
	err       error
	lastQuery storage.PlatformFilter
}

func (l *platformLister) ListPlatforms(_ context.Context, filter storage.PlatformFilter) ([]*types.Platform, error) {
	l.lastQuery = filter
	if l.err != nil {
		return nil, l.err
	}
	return l.platforms, nil
}

func TestFindPlatformBindingLatestUpdatedWins(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	lister := &platformLister{platforms: []*types.Platform{
		{ID: "old", BranchID: "B1", UpdatedAt: base, CreatedAt: base},
		{ID: "newest", BranchID: "B1", UpdatedAt: base.Add(2 * time.Hour), CreatedAt: base},
		{ID: "middle", BranchID: "B1", UpdatedAt: base.Add(time.Hour), CreatedAt: base},
	}}

	p, err := FindPlatformBinding(context.Background(), lister, "B1", "kara")
	if err != nil {
		t.Fatalf("FindPlatformBinding: %v", err)
	}
	if p.ID != "newest" {
		t.Errorf("matched %s, want newest", p.ID)
	}
	if lister.lastQuery.BranchID != "B1" || lister.lastQuery.VisibleTo != "kara" {
		t.Errorf("unexpected filter: %+v", lister.lastQuery)
	}
}

func TestFindPlatformBindingCreatedAtBreaksTies(t *testing.T) {
	at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	lister := &platformLister{platforms: []*types.Platform{
		{ID: "first", BranchID: "B1", UpdatedAt: at, CreatedAt: at.Add(-time.Hour)},
		{ID: "second", BranchID: "B1", UpdatedAt: at, CreatedAt: at},
	}}

	p, err := FindPlatformBinding(context.Background(), lister, "B1", "")
	if err != nil {
		t.Fatalf("FindPlatformBinding: %v", err)
	}
	if p.ID != "second" {
		t.Errorf("matched %s, want second (newer created_at)", p.ID)
	}
}

func TestFindPlatformBindingErrors(t *testing.T) {
	ctx := context.Background()

	if _, err := FindPlatformBinding(ctx, &platformLister{}, "", "kara"); !errors.Is(err, ErrBindingNotFound) {
		t.Errorf("empty branch id: got %v, want ErrBindingNotFound", err)
	}
	if _, err := FindPlatformBinding(ctx, &platformLister{}, "B1", "kara"); !errors.Is(err, ErrBindingNotFound) {
		t.Errorf("no candidates: got %v, want ErrBindingNotFound", err)
	}

	queryErr := errors.New("connection reset")
	if _, err := FindPlatformBinding(ctx, &platformLister{err: queryErr}, "B1", "kara"); !errors.Is(err, queryErr) {
		t.Errorf("query failure: got %v, want wrapped store error", err)
	}
}
