// Package importer runs the branch import pipeline: validate the
// normalized batch, create the root entity, then insert dependent entity
// groups in dependency order with best-effort accounting.
package importer

import (
	"errors"
	"fmt"

	"github.com/Azarem/gaia-scribe/internal/types"
)

// ErrValidation is returned when the batch fails structural or uniqueness
// checks. No writes have occurred.
var ErrValidation = errors.New("batch validation failed")

// ErrBindingNotFound is returned when no previously-imported platform
// matches a ROM branch's declared platform branch.
var ErrBindingNotFound = errors.New("no imported platform matches branch")

// ValidationError describes one failed batch check.
type ValidationError struct {
	Kind    types.EntityKind `json:"kind"`
	Index   int              `json:"index"`
	Field   string           `json:"field,omitempty"`
	Message string           `json:"message"`
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s[%d].%s: %s", e.Kind, e.Index, e.Field, e.Message)
	}
	return fmt.Sprintf("%s[%d]: %s", e.Kind, e.Index, e.Message)
}

// PhaseError records a dependent phase whose batch write failed. The
// pipeline continues past it; the error surfaces only here.
type PhaseError struct {
	Phase   string `json:"phase"`
	Message string `json:"message"`
}

func (e PhaseError) Error() string {
	return fmt.Sprintf("phase %s: %s", e.Phase, e.Message)
}

// Result is the sole externally observed contract of an import.
//
// Three outcomes exist:
//   - failed, nothing created: Success false, ValidationErrors set or the
//     returned error names the fatal root-creation failure;
//   - finished cleanly: Success true, empty PhaseErrors;
//   - finished partially: Success true with non-empty PhaseErrors — the
//     store holds the root plus a strict subset of its dependents. Partial
//     is a first-class outcome, not an edge case.
type Result struct {
	Success  bool                     `json:"success"`
	RootID   string                   `json:"root_id,omitempty"`
	RootName string                   `json:"root_name,omitempty"`
	Created  map[types.EntityKind]int `json:"created,omitempty"`

	// Dropped counts drafts discarded because a cross-reference could not
	// be resolved (parent phase failed or the natural key was absent).
	Dropped int `json:"dropped,omitempty"`
	// Skipped counts malformed snapshot records the transformer discarded.
	Skipped int `json:"skipped,omitempty"`

	ValidationErrors []ValidationError `json:"validation_errors,omitempty"`
	PhaseErrors      []PhaseError      `json:"phase_errors,omitempty"`
	SkippedPhases    []string          `json:"skipped_phases,omitempty"`
}

// Partial reports whether the import finished but under-populated one or
// more dependent phases.
func (r *Result) Partial() bool {
	return r.Success && (len(r.PhaseErrors) > 0 || len(r.SkippedPhases) > 0)
}

// TotalCreated sums created counts across all dependent entity kinds.
func (r *Result) TotalCreated() int {
	total := 0
	for _, n := range r.Created {
		total += n
	}
	return total
}
