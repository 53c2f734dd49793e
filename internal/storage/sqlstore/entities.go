package sqlstore

import (
	"context"
	"time"

	"github.com/Azarem/gaia-scribe/internal/types"
)

// CreatePlatform inserts the root platform row.
func (s *Store) CreatePlatform(ctx context.Context, p *types.Platform) error {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	return s.batchInsert(ctx, "platforms",
		[]string{"id", "name", "public", "branch_id", "branch_name", "branch_version", "meta", "created_by", "created_at", "updated_at"},
		[][]any{{p.ID, p.Name, p.Public, p.BranchID, p.BranchName, p.BranchVersion, p.Meta, p.CreatedBy, p.CreatedAt, p.UpdatedAt}})
}

// CreateProject inserts the root project row.
func (s *Store) CreateProject(ctx context.Context, p *types.Project) error {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	return s.batchInsert(ctx, "projects",
		[]string{"id", "name", "public", "platform_id", "branch_id", "branch_version", "meta", "created_by", "created_at", "updated_at"},
		[][]any{{p.ID, p.Name, p.Public, p.PlatformID, p.BranchID, p.BranchVersion, p.Meta, p.CreatedBy, p.CreatedAt, p.UpdatedAt}})
}

func (s *Store) CreateAddressingModes(ctx context.Context, rows []*types.AddressingMode) error {
	vals := make([][]any, 0, len(rows))
	for _, r := range rows {
		vals = append(vals, []any{r.ID, r.PlatformID, r.Name, r.Size, r.Format, r.ParseRegex})
	}
	return s.batchInsert(ctx, "addressing_modes",
		[]string{"id", "platform_id", "name", "size", "format", "parse_regex"}, vals)
}

func (s *Store) CreateInstructionGroups(ctx context.Context, rows []*types.InstructionGroup) error {
	vals := make([][]any, 0, len(rows))
	for _, r := range rows {
		vals = append(vals, []any{r.ID, r.PlatformID, r.Name, r.Meta})
	}
	return s.batchInsert(ctx, "instruction_groups",
		[]string{"id", "platform_id", "name", "meta"}, vals)
}

func (s *Store) CreateInstructionCodes(ctx context.Context, rows []*types.InstructionCode) error {
	vals := make([][]any, 0, len(rows))
	for _, r := range rows {
		vals = append(vals, []any{r.ID, r.GroupID, r.ModeID, r.Code})
	}
	return s.batchInsert(ctx, "instruction_codes",
		[]string{"id", "group_id", "mode_id", "code"}, vals)
}

func (s *Store) CreateVectors(ctx context.Context, rows []*types.Vector) error {
	vals := make([][]any, 0, len(rows))
	for _, r := range rows {
		vals = append(vals, []any{r.ID, r.PlatformID, r.Name, r.Address})
	}
	return s.batchInsert(ctx, "vectors",
		[]string{"id", "platform_id", "name", "address"}, vals)
}

func (s *Store) CreateFiles(ctx context.Context, rows []*types.File) error {
	vals := make([][]any, 0, len(rows))
	for _, r := range rows {
		vals = append(vals, []any{r.ID, r.ProjectID, r.Name, r.Type, r.Start, r.End, r.Compressed})
	}
	return s.batchInsert(ctx, "files",
		[]string{"id", "project_id", "name", "type", "range_start", "range_end", "compressed"}, vals)
}

func (s *Store) CreateBlocks(ctx context.Context, rows []*types.Block) error {
	vals := make([][]any, 0, len(rows))
	for _, r := range rows {
		vals = append(vals, []any{r.ID, r.ProjectID, r.Name, r.Movable, r.Group, r.Meta})
	}
	return s.batchInsert(ctx, "blocks",
		[]string{"id", "project_id", "name", "movable", "block_group", "meta"}, vals)
}

func (s *Store) CreateBlockParts(ctx context.Context, rows []*types.BlockPart) error {
	vals := make([][]any, 0, len(rows))
	for _, r := range rows {
		vals = append(vals, []any{r.ID, r.BlockID, r.Name, r.Start, r.End, r.Type})
	}
	return s.batchInsert(ctx, "block_parts",
		[]string{"id", "block_id", "name", "range_start", "range_end", "type"}, vals)
}

func (s *Store) CreateBlockTransforms(ctx context.Context, rows []*types.BlockTransform) error {
	vals := make([][]any, 0, len(rows))
	for _, r := range rows {
		vals = append(vals, []any{r.ID, r.BlockID, r.Key, r.Value})
	}
	return s.batchInsert(ctx, "block_transforms",
		[]string{"id", "block_id", "map_key", "value"}, vals)
}

func (s *Store) CreateStringTypes(ctx context.Context, rows []*types.StringType) error {
	vals := make([][]any, 0, len(rows))
	for _, r := range rows {
		vals = append(vals, []any{r.ID, r.ProjectID, r.Name, r.Delimiter, r.ShiftType, r.CharMap})
	}
	return s.batchInsert(ctx, "string_types",
		[]string{"id", "project_id", "name", "delimiter", "shift_type", "char_map"}, vals)
}

func (s *Store) CreateStringCommands(ctx context.Context, rows []*types.StringCommand) error {
	vals := make([][]any, 0, len(rows))
	for _, r := range rows {
		vals = append(vals, []any{r.ID, r.StringTypeID, r.Key, r.Code, r.Types, r.Delimiter, r.Halt})
	}
	return s.batchInsert(ctx, "string_commands",
		[]string{"id", "string_type_id", "cmd_key", "code", "types", "delimiter", "halt"}, vals)
}

func (s *Store) CreateLabels(ctx context.Context, rows []*types.Label) error {
	vals := make([][]any, 0, len(rows))
	for _, r := range rows {
		vals = append(vals, []any{r.ID, r.ProjectID, r.Location, r.Text})
	}
	return s.batchInsert(ctx, "labels",
		[]string{"id", "project_id", "location", "text"}, vals)
}

func (s *Store) CreateOverrides(ctx context.Context, rows []*types.Override) error {
	vals := make([][]any, 0, len(rows))
	for _, r := range rows {
		vals = append(vals, []any{r.ID, r.ProjectID, r.Location, r.Register, r.Value})
	}
	return s.batchInsert(ctx, "overrides",
		[]string{"id", "project_id", "location", "register", "value"}, vals)
}

func (s *Store) CreateRewrites(ctx context.Context, rows []*types.Rewrite) error {
	vals := make([][]any, 0, len(rows))
	for _, r := range rows {
		vals = append(vals, []any{r.ID, r.ProjectID, r.Location, r.Value})
	}
	return s.batchInsert(ctx, "rewrites",
		[]string{"id", "project_id", "location", "value"}, vals)
}

func (s *Store) CreateStructs(ctx context.Context, rows []*types.Struct) error {
	vals := make([][]any, 0, len(rows))
	for _, r := range rows {
		vals = append(vals, []any{r.ID, r.ProjectID, r.Name, r.Types, r.Delimiter, r.Discriminator, r.Parent})
	}
	return s.batchInsert(ctx, "structs",
		[]string{"id", "project_id", "name", "types", "delimiter", "discriminator", "parent"}, vals)
}

func (s *Store) CreateCops(ctx context.Context, rows []*types.Cop) error {
	vals := make([][]any, 0, len(rows))
	for _, r := range rows {
		vals = append(vals, []any{r.ID, r.ProjectID, r.Code, r.Mnemonic, r.Parts, r.Halt})
	}
	return s.batchInsert(ctx, "cops",
		[]string{"id", "project_id", "code", "mnemonic", "parts", "halt"}, vals)
}
