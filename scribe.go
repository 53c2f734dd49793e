// Package scribe provides a minimal public API for embedding the branch
// import pipeline in other tools.
//
// Most consumers should use the scribe CLI. This package exports only the
// types and functions needed to run imports programmatically against a
// store the caller owns.
package scribe

import (
	"context"

	"github.com/Azarem/gaia-scribe/internal/importer"
	"github.com/Azarem/gaia-scribe/internal/snapshot"
	"github.com/Azarem/gaia-scribe/internal/storage"
	"github.com/Azarem/gaia-scribe/internal/storage/sqlstore"
	"github.com/Azarem/gaia-scribe/internal/types"
)

// Core types for working with imports.
type (
	Branch          = snapshot.Branch
	EntityKind      = types.EntityKind
	ImportOptions   = importer.Options
	ImportResult    = importer.Result
	Platform        = types.Platform
	Project         = types.Project
	ProgressFunc    = importer.ProgressFunc
	ValidationError = importer.ValidationError
)

// Storage is the target-store contract imports write through.
type Storage = storage.Storage

// Terminal error kinds callers may test with errors.Is.
var (
	ErrValidation      = importer.ErrValidation
	ErrBindingNotFound = importer.ErrBindingNotFound
	ErrNameExists      = storage.ErrNameExists
)

// OpenStorage opens a target store. conn is a SQLite path (or :memory:)
// or a MySQL DSN.
func OpenStorage(ctx context.Context, conn string) (Storage, error) {
	return sqlstore.New(ctx, conn)
}

// ImportPlatform imports a platform branch snapshot.
func ImportPlatform(ctx context.Context, store Storage, branch *Branch, opts ImportOptions) (*ImportResult, error) {
	return importer.ImportPlatform(ctx, store, branch, opts)
}

// ImportGame imports a ROM branch snapshot under the given platform id;
// obtain the id from FindPlatformBinding first.
func ImportGame(ctx context.Context, store Storage, branch *Branch, platformID string, opts ImportOptions) (*ImportResult, error) {
	return importer.ImportGame(ctx, store, branch, platformID, opts)
}

// FindPlatformBinding resolves a platform branch id to the most recently
// updated imported platform visible to owner.
func FindPlatformBinding(ctx context.Context, store Storage, branchID, owner string) (*Platform, error) {
	return importer.FindPlatformBinding(ctx, store, branchID, owner)
}

// ParseBranch decodes a branch snapshot document.
func ParseBranch(data []byte) (*Branch, error) {
	return snapshot.Parse(data)
}
