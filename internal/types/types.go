// Package types defines the persisted entity rows and in-memory draft
// structures used by the gaia-scribe branch import pipeline.
package types

import "time"

// EntityKind identifies one normalized entity table.
type EntityKind string

const (
	KindPlatform         EntityKind = "platform"
	KindProject          EntityKind = "project"
	KindAddressingMode   EntityKind = "addressingMode"
	KindInstructionGroup EntityKind = "instructionGroup"
	KindInstructionCode  EntityKind = "instructionCode"
	KindVector           EntityKind = "vector"
	KindFile             EntityKind = "file"
	KindBlock            EntityKind = "block"
	KindBlockPart        EntityKind = "blockPart"
	KindBlockTransform   EntityKind = "blockTransform"
	KindStringType       EntityKind = "stringType"
	KindStringCommand    EntityKind = "stringCommand"
	KindLabel            EntityKind = "label"
	KindOverride         EntityKind = "override"
	KindRewrite          EntityKind = "rewrite"
	KindStruct           EntityKind = "struct"
	KindCop              EntityKind = "cop"
)

// Platform is the root entity created by a platform-branch import.
// BranchID records which external branch the platform was imported from;
// the binding matcher keys on it when a ROM import declares its platform.
type Platform struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Public        bool      `json:"public"`
	BranchID      string    `json:"branch_id"`
	BranchName    string    `json:"branch_name,omitempty"`
	BranchVersion int       `json:"branch_version,omitempty"`
	Meta          string    `json:"meta,omitempty"` // provenance blob, JSON
	CreatedBy     string    `json:"created_by,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Project is the root entity created by a ROM-branch import.
type Project struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Public        bool      `json:"public"`
	PlatformID    string    `json:"platform_id"`
	BranchID      string    `json:"branch_id"`
	BranchVersion int       `json:"branch_version,omitempty"`
	Meta          string    `json:"meta,omitempty"`
	CreatedBy     string    `json:"created_by,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// AddressingMode describes one operand-encoding form of a platform's
// instruction set (e.g. "imm", "abs").
type AddressingMode struct {
	ID         string `json:"id"`
	PlatformID string `json:"platform_id"`
	Name       string `json:"name"`
	Size       int    `json:"size"`
	Format     string `json:"format,omitempty"`
	ParseRegex string `json:"parse_regex,omitempty"`
}

// InstructionGroup is a mnemonic family (e.g. "LDA"). Its per-mode opcodes
// live in InstructionCode rows.
type InstructionGroup struct {
	ID         string `json:"id"`
	PlatformID string `json:"platform_id"`
	Name       string `json:"name"`
	Meta       string `json:"meta,omitempty"`
}

// InstructionCode is one (group, addressing mode) -> opcode assignment.
// It references two parents, which is why the loader must insert it after
// both the instruction-group and addressing-mode phases.
type InstructionCode struct {
	ID      string `json:"id"`
	GroupID string `json:"group_id"`
	ModeID  string `json:"mode_id"`
	Code    int    `json:"code"`
}

// Vector is a fixed interrupt/reset entry address.
type Vector struct {
	ID         string `json:"id"`
	PlatformID string `json:"platform_id"`
	Name       string `json:"name"`
	Address    int    `json:"address"`
}

// File is one extracted ROM asset (bitmap, tilemap, binary span).
type File struct {
	ID         string `json:"id"`
	ProjectID  string `json:"project_id"`
	Name       string `json:"name"`
	Type       string `json:"type,omitempty"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
	Compressed bool   `json:"compressed,omitempty"`
}

// Block is a named region of the ROM that owns parts and transforms.
type Block struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	Name      string `json:"name"`
	Movable   bool   `json:"movable,omitempty"`
	Group     string `json:"group,omitempty"`
	Meta      string `json:"meta,omitempty"`
}

// BlockPart is an addressed sub-range of a block.
type BlockPart struct {
	ID      string `json:"id"`
	BlockID string `json:"block_id"`
	Name    string `json:"name"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Type    string `json:"type,omitempty"`
}

// BlockTransform is a relocation fixup keyed by the location it patches.
type BlockTransform struct {
	ID      string `json:"id"`
	BlockID string `json:"block_id"`
	Key     string `json:"key"`
	Value   string `json:"value"`
}

// StringType describes one text encoding used by the ROM (dialog, menus).
type StringType struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	Name      string `json:"name"`
	Delimiter string `json:"delimiter,omitempty"`
	ShiftType string `json:"shift_type,omitempty"`
	CharMap   string `json:"char_map,omitempty"` // JSON array
}

// StringCommand is one control code inside a string type.
type StringCommand struct {
	ID           string `json:"id"`
	StringTypeID string `json:"string_type_id"`
	Key          string `json:"key"`
	Code         int    `json:"code"`
	Types        string `json:"types,omitempty"` // JSON array of argument types
	Delimiter    bool   `json:"delimiter,omitempty"`
	Halt         bool   `json:"halt,omitempty"`
}

// Label annotates a ROM location with a symbolic name.
type Label struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	Location  int    `json:"location"`
	Text      string `json:"text"`
}

// Override forces a register state at a location during disassembly.
type Override struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	Location  int    `json:"location"`
	Register  string `json:"register,omitempty"`
	Value     int    `json:"value"`
}

// Rewrite replaces the raw value read at a location.
type Rewrite struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	Location  int    `json:"location"`
	Value     int    `json:"value"`
}

// Struct is a composite data layout used when typing block parts.
type Struct struct {
	ID            string `json:"id"`
	ProjectID     string `json:"project_id"`
	Name          string `json:"name"`
	Types         string `json:"types,omitempty"` // JSON array of member types
	Delimiter     int    `json:"delimiter,omitempty"`
	Discriminator int    `json:"discriminator,omitempty"`
	Parent        string `json:"parent,omitempty"`
}

// Cop is one coprocessor command definition (code + mnemonic + argument
// layout). The (Code, Mnemonic) pair is unique within a project.
type Cop struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	Code      int    `json:"code"`
	Mnemonic  string `json:"mnemonic"`
	Parts     string `json:"parts,omitempty"` // JSON array
	Halt      bool   `json:"halt,omitempty"`
}
