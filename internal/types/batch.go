package types

// Draft structures are flat records extracted from a branch snapshot.
// They carry natural keys (names, mnemonics) instead of surrogate ids;
// the loader resolves those keys once parent rows have been inserted.

// RootDraft is the top-level entity a branch import will create: a
// Platform for platform branches, a Project for ROM branches.
type RootDraft struct {
	Kind          EntityKind
	Name          string
	Public        bool
	BranchID      string
	BranchName    string
	BranchVersion int
	PlatformID    string // set for project roots once the binding is matched
	CreatedBy     string
	Meta          string // provenance blob, JSON
}

type AddressingModeDraft struct {
	Name       string
	Size       int
	Format     string
	ParseRegex string
}

type InstructionGroupDraft struct {
	Name string
	Meta string
}

// InstructionCodeDraft carries two cross-references: the mnemonic group it
// belongs to and the addressing mode it encodes. Code is a pointer so the
// validator can distinguish "missing" from a legitimate zero opcode.
type InstructionCodeDraft struct {
	GroupName string
	ModeName  string
	Code      *int
}

type VectorDraft struct {
	Name    string
	Address int
}

type FileDraft struct {
	Name       string
	Type       string
	Start      int
	End        int
	Compressed bool
}

type BlockDraft struct {
	Name    string
	Movable bool
	Group   string
	Meta    string
}

type BlockPartDraft struct {
	BlockName string // cross-reference
	Name      string
	Start     int
	End       int
	Type      string
}

type BlockTransformDraft struct {
	BlockName string // cross-reference
	Key       string
	Value     string
}

type StringTypeDraft struct {
	Name      string
	Delimiter string
	ShiftType string
	CharMap   string
}

type StringCommandDraft struct {
	TypeName  string // cross-reference
	Key       string
	Code      *int
	Types     string
	Delimiter bool
	Halt      bool
}

type LabelDraft struct {
	Location int
	Text     string
}

type OverrideDraft struct {
	Location int
	Register string
	Value    int
}

type RewriteDraft struct {
	Location int
	Value    int
}

type StructDraft struct {
	Name          string
	Types         string
	Delimiter     int
	Discriminator int
	Parent        string
}

type CopDraft struct {
	Key      string
	Code     *int
	Mnemonic string
	Parts    string
	Halt     bool
}

// NormalizedBatch is the transformer's output: one flat, typed list per
// dependent entity kind, plus the root draft. A platform branch fills the
// instruction-set lists; a ROM branch fills the rest. Skipped counts
// malformed snapshot records dropped during decoding.
type NormalizedBatch struct {
	Root RootDraft

	AddressingModes   []AddressingModeDraft
	InstructionGroups []InstructionGroupDraft
	InstructionCodes  []InstructionCodeDraft
	Vectors           []VectorDraft

	Files           []FileDraft
	Blocks          []BlockDraft
	BlockParts      []BlockPartDraft
	BlockTransforms []BlockTransformDraft
	StringTypes     []StringTypeDraft
	StringCommands  []StringCommandDraft
	Labels          []LabelDraft
	Overrides       []OverrideDraft
	Rewrites        []RewriteDraft
	Structs         []StructDraft
	Cops            []CopDraft

	Skipped int
}

// Counts reports the number of drafts per entity kind, omitting empty kinds.
func (b *NormalizedBatch) Counts() map[EntityKind]int {
	counts := make(map[EntityKind]int)
	put := func(kind EntityKind, n int) {
		if n > 0 {
			counts[kind] = n
		}
	}
	put(KindAddressingMode, len(b.AddressingModes))
	put(KindInstructionGroup, len(b.InstructionGroups))
	put(KindInstructionCode, len(b.InstructionCodes))
	put(KindVector, len(b.Vectors))
	put(KindFile, len(b.Files))
	put(KindBlock, len(b.Blocks))
	put(KindBlockPart, len(b.BlockParts))
	put(KindBlockTransform, len(b.BlockTransforms))
	put(KindStringType, len(b.StringTypes))
	put(KindStringCommand, len(b.StringCommands))
	put(KindLabel, len(b.Labels))
	put(KindOverride, len(b.Overrides))
	put(KindRewrite, len(b.Rewrites))
	put(KindStruct, len(b.Structs))
	put(KindCop, len(b.Cops))
	return counts
}
