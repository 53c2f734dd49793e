package transform

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/Azarem/gaia-scribe/internal/snapshot"
	"github.com/Azarem/gaia-scribe/internal/types"
)

type fileRecord struct {
	Type       string `json:"type"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
	Compressed bool   `json:"compressed"`
}

type blockRecord struct {
	Movable    bool                       `json:"movable"`
	Group      string                     `json:"group"`
	Meta       json.RawMessage            `json:"meta"`
	Parts      map[string]json.RawMessage `json:"parts"`
	Transforms map[string]string          `json:"transforms"`
}

type blockPartRecord struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Type  string `json:"type"`
}

type stringTypeRecord struct {
	Delimiter string                     `json:"delimiter"`
	ShiftType string                     `json:"shiftType"`
	CharMap   []string                   `json:"charMap"`
	Commands  map[string]json.RawMessage `json:"commands"`
}

type stringCommandRecord struct {
	Code      *int     `json:"code"`
	Types     []string `json:"types"`
	Delimiter bool     `json:"delimiter"`
	Halt      bool     `json:"halt"`
}

type overrideRecord struct {
	Register string `json:"register"`
	Value    int    `json:"value"`
}

type structRecord struct {
	Types         []string `json:"types"`
	Delimiter     int      `json:"delimiter"`
	Discriminator int      `json:"discriminator"`
	Parent        string   `json:"parent"`
}

type copRecord struct {
	Code     *int     `json:"code"`
	Mnemonic string   `json:"mnemonic"`
	Parts    []string `json:"parts"`
	Halt     bool     `json:"halt"`
}

// Game flattens a ROM branch into a normalized batch. Blocks and string
// types are compound: each emits its own draft plus child drafts (parts,
// transforms, commands) that reference the parent by natural key.
func Game(b *snapshot.Branch, opts Options) (*types.NormalizedBatch, error) {
	g := b.Game
	if g == nil {
		return nil, fmt.Errorf("branch %s is not a ROM branch", b.ID)
	}
	if opts.PlatformID == "" {
		return nil, fmt.Errorf("branch %s: game transform requires a matched platform id", b.ID)
	}

	name := opts.RootName
	if name == "" {
		name = g.Name
	}
	if name == "" {
		name = b.Name
	}

	batch := &types.NormalizedBatch{
		Root: types.RootDraft{
			Kind:          types.KindProject,
			Name:          name,
			Public:        opts.Public,
			BranchID:      b.ID,
			BranchName:    b.Name,
			BranchVersion: b.Version,
			PlatformID:    opts.PlatformID,
			CreatedBy:     opts.Actor,
			Meta:          provenanceBlob(b),
		},
	}

	for _, key := range sortedKeys(g.Files) {
		var rec fileRecord
		if !decodeRecord(g.Files[key], &rec) {
			skip(&batch.Skipped, "files", key, "not an object")
			continue
		}
		batch.Files = append(batch.Files, types.FileDraft{
			Name:       key,
			Type:       rec.Type,
			Start:      rec.Start,
			End:        rec.End,
			Compressed: rec.Compressed,
		})
	}

	for _, key := range sortedKeys(g.Blocks) {
		var rec blockRecord
		if !decodeRecord(g.Blocks[key], &rec) {
			skip(&batch.Skipped, "blocks", key, "not an object")
			continue
		}
		meta := ""
		if len(rec.Meta) > 0 {
			meta = string(rec.Meta)
		}
		batch.Blocks = append(batch.Blocks, types.BlockDraft{
			Name:    key,
			Movable: rec.Movable,
			Group:   rec.Group,
			Meta:    meta,
		})

		for _, part := range sortedKeys(rec.Parts) {
			var pr blockPartRecord
			if !decodeRecord(rec.Parts[part], &pr) {
				skip(&batch.Skipped, "blocks."+key+".parts", part, "not an object")
				continue
			}
			batch.BlockParts = append(batch.BlockParts, types.BlockPartDraft{
				BlockName: key,
				Name:      part,
				Start:     pr.Start,
				End:       pr.End,
				Type:      pr.Type,
			})
		}

		transformKeys := make([]string, 0, len(rec.Transforms))
		for tk := range rec.Transforms {
			transformKeys = append(transformKeys, tk)
		}
		sort.Strings(transformKeys)
		for _, tk := range transformKeys {
			batch.BlockTransforms = append(batch.BlockTransforms, types.BlockTransformDraft{
				BlockName: key,
				Key:       tk,
				Value:     rec.Transforms[tk],
			})
		}
	}

	for _, key := range sortedKeys(g.StringTypes) {
		var rec stringTypeRecord
		if !decodeRecord(g.StringTypes[key], &rec) {
			skip(&batch.Skipped, "stringTypes", key, "not an object")
			continue
		}
		batch.StringTypes = append(batch.StringTypes, types.StringTypeDraft{
			Name:      key,
			Delimiter: rec.Delimiter,
			ShiftType: rec.ShiftType,
			CharMap:   jsonList(rec.CharMap),
		})

		for _, cmd := range sortedKeys(rec.Commands) {
			var cr stringCommandRecord
			if !decodeRecord(rec.Commands[cmd], &cr) {
				skip(&batch.Skipped, "stringTypes."+key+".commands", cmd, "not an object")
				continue
			}
			batch.StringCommands = append(batch.StringCommands, types.StringCommandDraft{
				TypeName:  key,
				Key:       cmd,
				Code:      cr.Code,
				Types:     jsonList(cr.Types),
				Delimiter: cr.Delimiter,
				Halt:      cr.Halt,
			})
		}
	}

	for _, key := range sortedKeys(g.Labels) {
		loc, err := parseLocation(key)
		if err != nil {
			skip(&batch.Skipped, "labels", key, err)
			continue
		}
		var text string
		if !decodeRecord(g.Labels[key], &text) {
			skip(&batch.Skipped, "labels", key, "not a string")
			continue
		}
		batch.Labels = append(batch.Labels, types.LabelDraft{Location: loc, Text: text})
	}

	for _, key := range sortedKeys(g.Overrides) {
		loc, err := parseLocation(key)
		if err != nil {
			skip(&batch.Skipped, "overrides", key, err)
			continue
		}
		var rec overrideRecord
		if !decodeRecord(g.Overrides[key], &rec) {
			skip(&batch.Skipped, "overrides", key, "not an object")
			continue
		}
		batch.Overrides = append(batch.Overrides, types.OverrideDraft{
			Location: loc,
			Register: rec.Register,
			Value:    rec.Value,
		})
	}

	for _, key := range sortedKeys(g.Rewrites) {
		loc, err := parseLocation(key)
		if err != nil {
			skip(&batch.Skipped, "rewrites", key, err)
			continue
		}
		var value int
		if !decodeRecord(g.Rewrites[key], &value) {
			skip(&batch.Skipped, "rewrites", key, "not numeric")
			continue
		}
		batch.Rewrites = append(batch.Rewrites, types.RewriteDraft{Location: loc, Value: value})
	}

	for _, key := range sortedKeys(g.Structs) {
		var rec structRecord
		if !decodeRecord(g.Structs[key], &rec) {
			skip(&batch.Skipped, "structs", key, "not an object")
			continue
		}
		batch.Structs = append(batch.Structs, types.StructDraft{
			Name:          key,
			Types:         jsonList(rec.Types),
			Delimiter:     rec.Delimiter,
			Discriminator: rec.Discriminator,
			Parent:        rec.Parent,
		})
	}

	for _, key := range sortedKeys(g.Cops) {
		var rec copRecord
		if !decodeRecord(g.Cops[key], &rec) {
			skip(&batch.Skipped, "cops", key, "not an object")
			continue
		}
		mnemonic := rec.Mnemonic
		if mnemonic == "" {
			mnemonic = key
		}
		batch.Cops = append(batch.Cops, types.CopDraft{
			Key:      key,
			Code:     rec.Code,
			Mnemonic: mnemonic,
			Parts:    jsonList(rec.Parts),
			Halt:     rec.Halt,
		})
	}

	return batch, nil
}
