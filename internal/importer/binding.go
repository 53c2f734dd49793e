package importer

import (
	"context"
	"fmt"
	"sort"

	"github.com/Azarem/gaia-scribe/internal/storage"
	"github.com/Azarem/gaia-scribe/internal/types"
)

// FindPlatformBinding resolves a ROM branch's declared platform branch to
// a previously-imported platform entity. It is the single authority for
// the invariant that a ROM import may only proceed once its platform
// branch has been imported; callers must run it before starting a ROM
// import and abort on failure.
//
// Candidates are the platforms visible to owner (owned plus public) whose
// stored branch id equals branchID exactly; the most recently updated one
// wins, with created-at breaking ties.
func FindPlatformBinding(ctx context.Context, store storage.Storage, branchID, owner string) (*types.Platform, error) {
	if branchID == "" {
		return nil, fmt.Errorf("%w: branch id is empty", ErrBindingNotFound)
	}

	candidates, err := store.ListPlatforms(ctx, storage.PlatformFilter{
		BranchID:  branchID,
		VisibleTo: owner,
	})
	if err != nil {
		return nil, fmt.Errorf("querying platforms for branch %s: %w", branchID, err)
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: platform branch %s has not been imported", ErrBindingNotFound, branchID)
	}

	// The store already orders by updated-at then created-at descending;
	// re-sort locally so the invariant does not hinge on one backend's
	// ORDER BY.
	sort.SliceStable(candidates, func(i, j int) bool {
		if !candidates[i].UpdatedAt.Equal(candidates[j].UpdatedAt) {
			return candidates[i].UpdatedAt.After(candidates[j].UpdatedAt)
		}
		return candidates[i].CreatedAt.After(candidates[j].CreatedAt)
	})
	return candidates[0], nil
}
