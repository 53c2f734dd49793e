// Package storage defines the target-store contract for imported entities.
//
// The concrete implementation lives in the sqlstore sub-package. Consumers
// depend on this interface rather than on the concrete type so that mocks
// and failure-injecting wrappers can be substituted in tests.
package storage

import (
	"context"
	"errors"

	"github.com/Azarem/gaia-scribe/internal/types"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrNameExists is returned when creating a root entity whose name is
// already taken under the same owner.
var ErrNameExists = errors.New("name already exists")

// PlatformFilter narrows ListPlatforms. Zero-value fields are ignored.
type PlatformFilter struct {
	BranchID string
	// VisibleTo restricts results to platforms owned by this actor plus
	// public platforms. Empty means no visibility restriction.
	VisibleTo string
}

// Storage is the target relational store for normalized entities.
//
// Batch creates are atomic per call (one transaction per batch) but not
// atomic across calls; the import pipeline leans on that distinction for
// its best-effort phase semantics.
type Storage interface {
	// Root entities
	CreatePlatform(ctx context.Context, p *types.Platform) error
	CreateProject(ctx context.Context, p *types.Project) error
	GetPlatformByName(ctx context.Context, owner, name string) (*types.Platform, error)
	GetProjectByName(ctx context.Context, owner, name string) (*types.Project, error)
	ListPlatforms(ctx context.Context, filter PlatformFilter) ([]*types.Platform, error)

	// Dependent entity batches
	CreateAddressingModes(ctx context.Context, rows []*types.AddressingMode) error
	CreateInstructionGroups(ctx context.Context, rows []*types.InstructionGroup) error
	CreateInstructionCodes(ctx context.Context, rows []*types.InstructionCode) error
	CreateVectors(ctx context.Context, rows []*types.Vector) error
	CreateFiles(ctx context.Context, rows []*types.File) error
	CreateBlocks(ctx context.Context, rows []*types.Block) error
	CreateBlockParts(ctx context.Context, rows []*types.BlockPart) error
	CreateBlockTransforms(ctx context.Context, rows []*types.BlockTransform) error
	CreateStringTypes(ctx context.Context, rows []*types.StringType) error
	CreateStringCommands(ctx context.Context, rows []*types.StringCommand) error
	CreateLabels(ctx context.Context, rows []*types.Label) error
	CreateOverrides(ctx context.Context, rows []*types.Override) error
	CreateRewrites(ctx context.Context, rows []*types.Rewrite) error
	CreateStructs(ctx context.Context, rows []*types.Struct) error
	CreateCops(ctx context.Context, rows []*types.Cop) error

	// Lifecycle
	Close() error
}
