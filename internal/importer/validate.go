package importer

import (
	"fmt"
	"unicode/utf8"

	"github.com/Azarem/gaia-scribe/internal/types"
)

// MaxRootNameLength bounds platform and project names.
const MaxRootNameLength = 100

// Validate checks the batch before any write occurs: required fields and
// intra-batch uniqueness. Uniqueness is checked within the batch only;
// collisions against rows already in the store are the root creator's and
// the schema's concern.
func Validate(batch *types.NormalizedBatch) []ValidationError {
	var errs []ValidationError

	if batch.Root.Name == "" {
		errs = append(errs, ValidationError{
			Kind: batch.Root.Kind, Field: "name", Message: "name is required",
		})
	} else if utf8.RuneCountInString(batch.Root.Name) > MaxRootNameLength {
		errs = append(errs, ValidationError{
			Kind: batch.Root.Kind, Field: "name",
			Message: fmt.Sprintf("name exceeds %d characters", MaxRootNameLength),
		})
	}

	errs = append(errs, validateUniqueNames(types.KindAddressingMode, modeNames(batch))...)
	errs = append(errs, validateUniqueNames(types.KindInstructionGroup, groupNames(batch))...)
	errs = append(errs, validateUniqueNames(types.KindBlock, blockNames(batch))...)
	errs = append(errs, validateUniqueNames(types.KindStringType, stringTypeNames(batch))...)
	errs = append(errs, validateUniqueNames(types.KindStruct, structNames(batch))...)

	// Instruction codes: numeric code required; opcode values are unique
	// across the whole platform instruction set.
	seenOpcodes := make(map[int]int)
	for i, d := range batch.InstructionCodes {
		if d.Code == nil {
			errs = append(errs, ValidationError{
				Kind: types.KindInstructionCode, Index: i, Field: "code",
				Message: fmt.Sprintf("%s.%s: numeric code is required", d.GroupName, d.ModeName),
			})
			continue
		}
		if first, dup := seenOpcodes[*d.Code]; dup {
			errs = append(errs, ValidationError{
				Kind: types.KindInstructionCode, Index: i, Field: "code",
				Message: fmt.Sprintf("duplicate opcode 0x%02X (first at index %d)", *d.Code, first),
			})
			continue
		}
		seenOpcodes[*d.Code] = i
	}

	// String commands: numeric code required; codes unique per string type.
	seenCommands := make(map[string]int)
	for i, d := range batch.StringCommands {
		if d.Code == nil {
			errs = append(errs, ValidationError{
				Kind: types.KindStringCommand, Index: i, Field: "code",
				Message: fmt.Sprintf("%s.%s: numeric code is required", d.TypeName, d.Key),
			})
			continue
		}
		key := fmt.Sprintf("%s\x00%d", d.TypeName, *d.Code)
		if first, dup := seenCommands[key]; dup {
			errs = append(errs, ValidationError{
				Kind: types.KindStringCommand, Index: i, Field: "code",
				Message: fmt.Sprintf("duplicate command code %d in type %s (first at index %d)", *d.Code, d.TypeName, first),
			})
			continue
		}
		seenCommands[key] = i
	}

	// Cops: numeric code required; (code, mnemonic) pairs unique.
	seenCops := make(map[string]int)
	for i, d := range batch.Cops {
		if d.Code == nil {
			errs = append(errs, ValidationError{
				Kind: types.KindCop, Index: i, Field: "code",
				Message: fmt.Sprintf("%s: numeric code is required", d.Mnemonic),
			})
			continue
		}
		key := fmt.Sprintf("%d\x00%s", *d.Code, d.Mnemonic)
		if first, dup := seenCops[key]; dup {
			errs = append(errs, ValidationError{
				Kind: types.KindCop, Index: i,
				Message: fmt.Sprintf("duplicate (code, mnemonic) pair (0x%02X, %s) (first at index %d)", *d.Code, d.Mnemonic, first),
			})
			continue
		}
		seenCops[key] = i
	}

	return errs
}

func validateUniqueNames(kind types.EntityKind, names []string) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]int)
	for i, name := range names {
		if first, dup := seen[name]; dup {
			errs = append(errs, ValidationError{
				Kind: kind, Index: i, Field: "name",
				Message: fmt.Sprintf("duplicate name %q (first at index %d)", name, first),
			})
			continue
		}
		seen[name] = i
	}
	return errs
}

func modeNames(b *types.NormalizedBatch) []string {
	names := make([]string, len(b.AddressingModes))
	for i, d := range b.AddressingModes {
		names[i] = d.Name
	}
	return names
}

func groupNames(b *types.NormalizedBatch) []string {
	names := make([]string, len(b.InstructionGroups))
	for i, d := range b.InstructionGroups {
		names[i] = d.Name
	}
	return names
}

func blockNames(b *types.NormalizedBatch) []string {
	names := make([]string, len(b.Blocks))
	for i, d := range b.Blocks {
		names[i] = d.Name
	}
	return names
}

func stringTypeNames(b *types.NormalizedBatch) []string {
	names := make([]string, len(b.StringTypes))
	for i, d := range b.StringTypes {
		names[i] = d.Name
	}
	return names
}

func structNames(b *types.NormalizedBatch) []string {
	names := make([]string, len(b.Structs))
	for i, d := range b.Structs {
		names[i] = d.Name
	}
	return names
}
