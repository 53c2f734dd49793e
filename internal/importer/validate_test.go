package importer

import (
	"strings"
	"testing"

	"github.com/Azarem/gaia-scribe/internal/types"
)

func intp(n int) *int { return &n }

func validPlatformBatch() *types.NormalizedBatch {
	return &types.NormalizedBatch{
		Root: types.RootDraft{Kind: types.KindPlatform, Name: "SNES"},
		AddressingModes: []types.AddressingModeDraft{
			{Name: "imm", Size: 2},
			{Name: "abs", Size: 3},
		},
		InstructionGroups: []types.InstructionGroupDraft{{Name: "LDA"}},
		InstructionCodes: []types.InstructionCodeDraft{
			{GroupName: "LDA", ModeName: "imm", Code: intp(0xA9)},
			{GroupName: "LDA", ModeName: "abs", Code: intp(0xAD)},
		},
		Vectors: []types.VectorDraft{{Name: "RESET", Address: 0xFFFC}},
	}
}

func TestValidateCleanBatch(t *testing.T) {
	if errs := Validate(validPlatformBatch()); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestValidateRootName(t *testing.T) {
	batch := validPlatformBatch()
	batch.Root.Name = ""
	errs := Validate(batch)
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %v", errs)
	}
	if errs[0].Field != "name" || errs[0].Kind != types.KindPlatform {
		t.Errorf("unexpected error: %v", errs[0])
	}

	batch.Root.Name = strings.Repeat("x", MaxRootNameLength)
	if errs := Validate(batch); len(errs) != 0 {
		t.Fatalf("name at the limit should pass, got %v", errs)
	}

	batch.Root.Name = strings.Repeat("x", MaxRootNameLength+1)
	if errs := Validate(batch); len(errs) != 1 {
		t.Fatalf("expected 1 error for overlong name, got %v", errs)
	}

	// Length is measured in runes, not bytes.
	batch.Root.Name = strings.Repeat("é", MaxRootNameLength)
	if errs := Validate(batch); len(errs) != 0 {
		t.Fatalf("100 multibyte runes should pass, got %v", errs)
	}
}

func TestValidateDuplicateNames(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*types.NormalizedBatch)
		kind   types.EntityKind
	}{
		{
			name: "addressing mode",
			mutate: func(b *types.NormalizedBatch) {
				b.AddressingModes = append(b.AddressingModes, types.AddressingModeDraft{Name: "imm"})
			},
			kind: types.KindAddressingMode,
		},
		{
			name: "instruction group",
			mutate: func(b *types.NormalizedBatch) {
				b.InstructionGroups = append(b.InstructionGroups, types.InstructionGroupDraft{Name: "LDA"})
			},
			kind: types.KindInstructionGroup,
		},
		{
			name: "block",
			mutate: func(b *types.NormalizedBatch) {
				b.Blocks = []types.BlockDraft{{Name: "maintext"}, {Name: "maintext"}}
			},
			kind: types.KindBlock,
		},
		{
			name: "string type",
			mutate: func(b *types.NormalizedBatch) {
				b.StringTypes = []types.StringTypeDraft{{Name: "dialog"}, {Name: "dialog"}}
			},
			kind: types.KindStringType,
		},
		{
			name: "struct",
			mutate: func(b *types.NormalizedBatch) {
				b.Structs = []types.StructDraft{{Name: "sprite"}, {Name: "sprite"}}
			},
			kind: types.KindStruct,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batch := validPlatformBatch()
			tt.mutate(batch)
			errs := Validate(batch)
			if len(errs) != 1 {
				t.Fatalf("expected 1 error, got %v", errs)
			}
			if errs[0].Kind != tt.kind {
				t.Errorf("kind = %s, want %s", errs[0].Kind, tt.kind)
			}
			if !strings.Contains(errs[0].Message, "duplicate name") {
				t.Errorf("unexpected message: %s", errs[0].Message)
			}
		})
	}
}

func TestValidateInstructionCodes(t *testing.T) {
	batch := validPlatformBatch()
	batch.InstructionCodes = append(batch.InstructionCodes,
		types.InstructionCodeDraft{GroupName: "STA", ModeName: "abs", Code: nil},
		types.InstructionCodeDraft{GroupName: "STA", ModeName: "imm", Code: intp(0xA9)},
	)
	errs := Validate(batch)
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %v", errs)
	}
	if !strings.Contains(errs[0].Message, "code is required") {
		t.Errorf("unexpected nil-code message: %s", errs[0].Message)
	}
	if !strings.Contains(errs[1].Message, "duplicate opcode 0xA9") {
		t.Errorf("unexpected duplicate message: %s", errs[1].Message)
	}
}

func TestValidateStringCommands(t *testing.T) {
	batch := &types.NormalizedBatch{
		Root: types.RootDraft{Kind: types.KindProject, Name: "Gaia"},
		StringCommands: []types.StringCommandDraft{
			{TypeName: "dialog", Key: "[PAUSE]", Code: intp(3)},
			{TypeName: "dialog", Key: "[NAME]", Code: intp(3)},
			{TypeName: "credits", Key: "[PAUSE]", Code: intp(3)}, // different type: fine
			{TypeName: "dialog", Key: "[END]", Code: nil},
		},
	}
	errs := Validate(batch)
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %v", errs)
	}
	if errs[0].Index != 1 || !strings.Contains(errs[0].Message, "duplicate command code 3") {
		t.Errorf("unexpected error: %v", errs[0])
	}
	if errs[1].Index != 3 || !strings.Contains(errs[1].Message, "code is required") {
		t.Errorf("unexpected error: %v", errs[1])
	}
}

func TestValidateCops(t *testing.T) {
	batch := &types.NormalizedBatch{
		Root: types.RootDraft{Kind: types.KindProject, Name: "Gaia"},
		Cops: []types.CopDraft{
			{Key: "jump", Code: intp(0x10), Mnemonic: "JMP"},
			{Key: "jump2", Code: intp(0x10), Mnemonic: "JML"}, // same code, different mnemonic: fine
			{Key: "jump3", Code: intp(0x10), Mnemonic: "JMP"},
			{Key: "sprite", Code: nil, Mnemonic: "SPR"},
		},
	}
	errs := Validate(batch)
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %v", errs)
	}
	if errs[0].Index != 2 || !strings.Contains(errs[0].Message, "(0x10, JMP)") {
		t.Errorf("unexpected error: %v", errs[0])
	}
	if errs[1].Index != 3 || !strings.Contains(errs[1].Message, "code is required") {
		t.Errorf("unexpected error: %v", errs[1])
	}
}
