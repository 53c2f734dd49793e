package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Azarem/gaia-scribe/internal/storage"
	"github.com/Azarem/gaia-scribe/internal/types"
)

const platformCols = "id, name, public, branch_id, branch_name, branch_version, meta, created_by, created_at, updated_at"

func scanPlatform(row interface{ Scan(...any) error }) (*types.Platform, error) {
	var p types.Platform
	var branchName, meta, createdBy sql.NullString
	err := row.Scan(&p.ID, &p.Name, &p.Public, &p.BranchID, &branchName, &p.BranchVersion, &meta, &createdBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.BranchName = branchName.String
	p.Meta = meta.String
	p.CreatedBy = createdBy.String
	return &p, nil
}

// GetPlatformByName finds a platform by (owner, name). Returns
// storage.ErrNotFound when absent.
func (s *Store) GetPlatformByName(ctx context.Context, owner, name string) (*types.Platform, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+platformCols+" FROM platforms WHERE created_by = ? AND name = ?", owner, name)
	p, err := scanPlatform(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get platform by name: %w", err)
	}
	return p, nil
}

// GetProjectByName finds a project by (owner, name). Returns
// storage.ErrNotFound when absent.
func (s *Store) GetProjectByName(ctx context.Context, owner, name string) (*types.Project, error) {
	var p types.Project
	var meta, createdBy sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, public, platform_id, branch_id, branch_version, meta, created_by, created_at, updated_at FROM projects WHERE created_by = ? AND name = ?",
		owner, name).
		Scan(&p.ID, &p.Name, &p.Public, &p.PlatformID, &p.BranchID, &p.BranchVersion, &meta, &createdBy, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get project by name: %w", err)
	}
	p.Meta = meta.String
	p.CreatedBy = createdBy.String
	return &p, nil
}

// ListPlatforms returns platforms matching the filter, most recently
// updated first (created-at breaks ties). The binding matcher relies on
// that ordering.
func (s *Store) ListPlatforms(ctx context.Context, filter storage.PlatformFilter) ([]*types.Platform, error) {
	var conds []string
	var args []any
	if filter.BranchID != "" {
		conds = append(conds, "branch_id = ?")
		args = append(args, filter.BranchID)
	}
	if filter.VisibleTo != "" {
		conds = append(conds, "(created_by = ? OR public = ?)")
		args = append(args, filter.VisibleTo, true)
	}

	query := "SELECT " + platformCols + " FROM platforms"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY updated_at DESC, created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list platforms: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*types.Platform
	for rows.Next() {
		p, err := scanPlatform(rows)
		if err != nil {
			return nil, fmt.Errorf("list platforms: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list platforms: %w", err)
	}
	return out, nil
}

// CountRows reports the number of rows in one entity table. Used by the
// CLI summary and tests; table names come from a fixed map, never from
// user input.
func (s *Store) CountRows(ctx context.Context, table string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}
