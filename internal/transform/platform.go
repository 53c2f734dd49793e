package transform

import (
	"encoding/json"
	"fmt"

	"github.com/Azarem/gaia-scribe/internal/snapshot"
	"github.com/Azarem/gaia-scribe/internal/types"
)

type addressingModeRecord struct {
	Size       int    `json:"size"`
	Format     string `json:"format"`
	ParseRegex string `json:"parseRegex"`
}

type vectorRecord struct {
	Address *int `json:"address"`
}

// Platform flattens a platform branch into a normalized batch: one draft
// per addressing mode, instruction group, instruction code and vector.
//
// The instruction set is the densest tree. Each group key maps to a
// {mode-name -> opcode} object; every (group, mode, code) triple becomes
// one instruction-code draft carrying cross-references to both the group
// and the addressing mode it names.
func Platform(b *snapshot.Branch, opts Options) (*types.NormalizedBatch, error) {
	p := b.Platform
	if p == nil {
		return nil, fmt.Errorf("branch %s is not a platform branch", b.ID)
	}

	name := opts.RootName
	if name == "" {
		name = p.Name
	}
	if name == "" {
		name = b.Name
	}

	batch := &types.NormalizedBatch{
		Root: types.RootDraft{
			Kind:          types.KindPlatform,
			Name:          name,
			Public:        opts.Public,
			BranchID:      b.ID,
			BranchName:    b.Name,
			BranchVersion: b.Version,
			CreatedBy:     opts.Actor,
			Meta:          provenanceBlob(b),
		},
	}

	for _, key := range sortedKeys(p.AddressingModes) {
		var rec addressingModeRecord
		if !decodeRecord(p.AddressingModes[key], &rec) {
			skip(&batch.Skipped, "addressingModes", key, "not an object")
			continue
		}
		batch.AddressingModes = append(batch.AddressingModes, types.AddressingModeDraft{
			Name:       key,
			Size:       rec.Size,
			Format:     rec.Format,
			ParseRegex: rec.ParseRegex,
		})
	}

	for _, key := range sortedKeys(p.InstructionSet) {
		var modes map[string]json.RawMessage
		if !decodeRecord(p.InstructionSet[key], &modes) {
			skip(&batch.Skipped, "instructionSet", key, "not an object")
			continue
		}
		batch.InstructionGroups = append(batch.InstructionGroups, types.InstructionGroupDraft{Name: key})

		for _, mode := range sortedKeys(modes) {
			var code *int
			if !decodeRecord(modes[mode], &code) {
				skip(&batch.Skipped, "instructionSet", key+"."+mode, "opcode is not numeric")
				continue
			}
			batch.InstructionCodes = append(batch.InstructionCodes, types.InstructionCodeDraft{
				GroupName: key,
				ModeName:  mode,
				Code:      code,
			})
		}
	}

	for _, key := range sortedKeys(p.Vectors) {
		var rec vectorRecord
		if !decodeRecord(p.Vectors[key], &rec) || rec.Address == nil {
			skip(&batch.Skipped, "vectors", key, "missing numeric address")
			continue
		}
		batch.Vectors = append(batch.Vectors, types.VectorDraft{
			Name:    key,
			Address: *rec.Address,
		})
	}

	return batch, nil
}
