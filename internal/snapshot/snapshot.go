// Package snapshot defines the wire shape of an external branch document.
//
// A branch holds name-keyed JSON sub-trees. Each tree value stays a
// json.RawMessage until the transformer decodes it, so one malformed record
// can be skipped without failing the whole document.
package snapshot

import (
	"encoding/json"
	"fmt"
	"time"
)

// Branch is one versioned snapshot fetched from the external branch service.
// Exactly one of Platform or Game is set, depending on the branch kind.
type Branch struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Version   int       `json:"version"`
	UpdatedAt time.Time `json:"updatedAt"`

	Platform *PlatformPayload `json:"platform,omitempty"`
	Game     *GamePayload     `json:"game,omitempty"`
}

// PlatformPayload carries a platform's instruction-set description.
// InstructionSet is the densest tree: group-name -> {mode-name -> opcode}.
type PlatformPayload struct {
	Name            string                     `json:"name"`
	Meta            json.RawMessage            `json:"meta,omitempty"`
	AddressingModes map[string]json.RawMessage `json:"addressingModes,omitempty"`
	InstructionSet  map[string]json.RawMessage `json:"instructionSet,omitempty"`
	Vectors         map[string]json.RawMessage `json:"vectors,omitempty"`
}

// GamePayload carries a ROM's block/string/fixup layout. PlatformBranchID
// names the platform branch this ROM was disassembled against; a ROM import
// may only proceed once that branch has been imported as a platform entity.
type GamePayload struct {
	Name             string                     `json:"name"`
	PlatformBranchID string                     `json:"platformBranchId"`
	Meta             json.RawMessage            `json:"meta,omitempty"`
	Files            map[string]json.RawMessage `json:"files,omitempty"`
	Blocks           map[string]json.RawMessage `json:"blocks,omitempty"`
	StringTypes      map[string]json.RawMessage `json:"stringTypes,omitempty"`
	Labels           map[string]json.RawMessage `json:"labels,omitempty"`
	Overrides        map[string]json.RawMessage `json:"overrides,omitempty"`
	Rewrites         map[string]json.RawMessage `json:"rewrites,omitempty"`
	Structs          map[string]json.RawMessage `json:"structs,omitempty"`
	Cops             map[string]json.RawMessage `json:"cops,omitempty"`
}

// Kind reports which payload the branch carries.
func (b *Branch) Kind() string {
	switch {
	case b.Platform != nil:
		return "platform"
	case b.Game != nil:
		return "game"
	default:
		return "unknown"
	}
}

// Parse decodes a branch document and verifies it carries a payload.
func Parse(data []byte) (*Branch, error) {
	var b Branch
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parsing branch snapshot: %w", err)
	}
	if b.Platform == nil && b.Game == nil {
		return nil, fmt.Errorf("branch %s carries neither a platform nor a game payload", b.ID)
	}
	return &b, nil
}
