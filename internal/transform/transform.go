// Package transform converts branch snapshots into normalized entity
// batches.
//
// Transformation is pure: no stores are touched, and running it twice on
// the same snapshot yields structurally identical batches. Sub-trees are
// name-keyed JSON maps; map keys become draft natural keys, and keys are
// visited in sorted order so draft slices are deterministic. A malformed
// record (wrong JSON shape for its entity kind) is skipped and counted,
// never fatal.
package transform

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Azarem/gaia-scribe/internal/debug"
	"github.com/Azarem/gaia-scribe/internal/snapshot"
)

// Options carries the target metadata for an import: what the root entity
// will be called and who is performing the import.
type Options struct {
	RootName string // defaults to the snapshot's own name
	Actor    string
	Public   bool
	// PlatformID is the already-matched internal platform id; required for
	// game transforms, unused for platform transforms.
	PlatformID string
}

// provenance is the metadata blob stored on the root entity. ImportedAt is
// non-semantic: batch comparisons must ignore it.
type provenance struct {
	BranchID   string    `json:"branchId"`
	BranchName string    `json:"branchName,omitempty"`
	Version    int       `json:"version,omitempty"`
	ImportedAt time.Time `json:"importedAt"`
}

func provenanceBlob(b *snapshot.Branch) string {
	blob, err := json.Marshal(provenance{
		BranchID:   b.ID,
		BranchName: b.Name,
		Version:    b.Version,
		ImportedAt: time.Now().UTC(),
	})
	if err != nil {
		return ""
	}
	return string(blob)
}

// sortedKeys returns the map's keys in lexical order. Draft ordering
// follows key order, which keeps transformation deterministic.
func sortedKeys(m map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// decodeRecord unmarshals one sub-tree record into its typed shape.
// A false return means the record is malformed for its kind.
func decodeRecord(raw json.RawMessage, out any) bool {
	if err := json.Unmarshal(raw, out); err != nil {
		return false
	}
	return true
}

// parseLocation parses a ROM address key. Addresses are hexadecimal with
// an optional "$" or "0x" prefix.
func parseLocation(key string) (int, error) {
	k := strings.TrimSpace(key)
	k = strings.TrimPrefix(k, "$")
	k = strings.TrimPrefix(strings.TrimPrefix(k, "0x"), "0X")
	if k == "" {
		return 0, fmt.Errorf("empty location")
	}
	n, err := strconv.ParseInt(k, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("location %q: %w", key, err)
	}
	return int(n), nil
}

// jsonList re-marshals a decoded JSON array into its canonical string
// form for storage in a TEXT column. Nil slices become "".
func jsonList[T any](items []T) string {
	if len(items) == 0 {
		return ""
	}
	blob, err := json.Marshal(items)
	if err != nil {
		return ""
	}
	return string(blob)
}

func skip(skipped *int, tree, key string, why any) {
	*skipped++
	debug.Logf("transform: skipping %s[%s]: %v", tree, key, why)
}
