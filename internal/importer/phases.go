package importer

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/Azarem/gaia-scribe/internal/debug"
	"github.com/Azarem/gaia-scribe/internal/idgen"
	"github.com/Azarem/gaia-scribe/internal/types"
)

// maxConcurrentPhases bounds parallelism when independent phases run
// concurrently.
const maxConcurrentPhases = 4

// phase is one ordered step of the loader: a single entity kind's batch
// insert. Independent phases reference nothing but the root id; phases
// with parents resolve natural keys through maps the parent phases built.
type phase struct {
	label       string
	kind        types.EntityKind
	independent bool
	parents     []types.EntityKind
	run         func(ctx context.Context) (int, error)
}

// platformPhases orders a platform import. Addressing modes are
// independent of other dependent kinds but still feed the key map that
// instruction codes resolve against, so they stay in step one while
// groups and codes follow.
func (s *session) platformPhases() []phase {
	return []phase{
		{label: "Creating addressing modes", kind: types.KindAddressingMode, independent: true, run: s.loadAddressingModes},
		{label: "Creating vectors", kind: types.KindVector, independent: true, run: s.loadVectors},
		{label: "Creating instruction groups", kind: types.KindInstructionGroup, run: s.loadInstructionGroups},
		{label: "Creating instruction codes", kind: types.KindInstructionCode,
			parents: []types.EntityKind{types.KindInstructionGroup, types.KindAddressingMode},
			run:     s.loadInstructionCodes},
	}
}

// gamePhases orders a ROM import: independent kinds first, then the kinds
// later groups reference, then the referencing kinds.
func (s *session) gamePhases() []phase {
	return []phase{
		{label: "Creating files", kind: types.KindFile, independent: true, run: s.loadFiles},
		{label: "Creating labels", kind: types.KindLabel, independent: true, run: s.loadLabels},
		{label: "Creating overrides", kind: types.KindOverride, independent: true, run: s.loadOverrides},
		{label: "Creating rewrites", kind: types.KindRewrite, independent: true, run: s.loadRewrites},
		{label: "Creating structs", kind: types.KindStruct, independent: true, run: s.loadStructs},
		{label: "Creating COP commands", kind: types.KindCop, independent: true, run: s.loadCops},
		{label: "Creating blocks", kind: types.KindBlock, run: s.loadBlocks},
		{label: "Creating string types", kind: types.KindStringType, run: s.loadStringTypes},
		{label: "Creating block parts", kind: types.KindBlockPart,
			parents: []types.EntityKind{types.KindBlock}, run: s.loadBlockParts},
		{label: "Creating block transforms", kind: types.KindBlockTransform,
			parents: []types.EntityKind{types.KindBlock}, run: s.loadBlockTransforms},
		{label: "Creating string commands", kind: types.KindStringCommand,
			parents: []types.EntityKind{types.KindStringType}, run: s.loadStringCommands},
	}
}

// load walks the phase list in order. A phase's write failure is recorded
// and the loader proceeds (best-effort import); only cancellation stops
// it. Runs of consecutive independent phases execute concurrently when
// the session asks for it.
func (s *session) load(ctx context.Context, phases []phase) error {
	total := len(phases)
	for i := 0; i < total; {
		if err := ctx.Err(); err != nil {
			return err
		}

		if s.opts.ConcurrentIndependent && phases[i].independent {
			j := i
			for j < total && phases[j].independent {
				j++
			}
			var g errgroup.Group
			g.SetLimit(maxConcurrentPhases)
			for k := i; k < j; k++ {
				ph := phases[k]
				s.progress(ph.label, k+1, total)
				g.Go(func() error {
					s.runPhase(ctx, ph)
					return nil
				})
			}
			_ = g.Wait()
			i = j
			continue
		}

		ph := phases[i]
		s.progress(ph.label, i+1, total)

		if s.opts.SkipDependentsOnFailure && len(ph.parents) > 0 && s.phaseFailed(ph.parents...) {
			s.mu.Lock()
			s.result.SkippedPhases = append(s.result.SkippedPhases, ph.label)
			s.failed[ph.kind] = true
			s.mu.Unlock()
			debug.Logf("import %s: skipping phase %q: prerequisite phase failed", s.id, ph.label)
			i++
			continue
		}

		s.runPhase(ctx, ph)
		i++
	}
	return nil
}

func (s *session) runPhase(ctx context.Context, ph phase) {
	created, err := ph.run(ctx)
	if err != nil {
		s.recordPhaseError(ph, err)
		return
	}
	s.recordCreated(ph.kind, created)
	debug.Logf("import %s: phase %q created %d", s.id, ph.label, created)
}

func (s *session) loadAddressingModes(ctx context.Context) (int, error) {
	drafts := s.batch.AddressingModes
	if len(drafts) == 0 {
		return 0, nil
	}
	rows := make([]*types.AddressingMode, 0, len(drafts))
	for _, d := range drafts {
		rows = append(rows, &types.AddressingMode{
			ID:         idgen.NewID(),
			PlatformID: s.result.RootID,
			Name:       d.Name,
			Size:       d.Size,
			Format:     d.Format,
			ParseRegex: d.ParseRegex,
		})
	}
	if err := s.store.CreateAddressingModes(ctx, rows); err != nil {
		return 0, err
	}
	for _, r := range rows {
		s.mapKey(types.KindAddressingMode, r.Name, r.ID)
	}
	return len(rows), nil
}

func (s *session) loadVectors(ctx context.Context) (int, error) {
	drafts := s.batch.Vectors
	if len(drafts) == 0 {
		return 0, nil
	}
	rows := make([]*types.Vector, 0, len(drafts))
	for _, d := range drafts {
		rows = append(rows, &types.Vector{
			ID:         idgen.NewID(),
			PlatformID: s.result.RootID,
			Name:       d.Name,
			Address:    d.Address,
		})
	}
	if err := s.store.CreateVectors(ctx, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

func (s *session) loadInstructionGroups(ctx context.Context) (int, error) {
	drafts := s.batch.InstructionGroups
	if len(drafts) == 0 {
		return 0, nil
	}
	rows := make([]*types.InstructionGroup, 0, len(drafts))
	for _, d := range drafts {
		rows = append(rows, &types.InstructionGroup{
			ID:         idgen.NewID(),
			PlatformID: s.result.RootID,
			Name:       d.Name,
			Meta:       d.Meta,
		})
	}
	if err := s.store.CreateInstructionGroups(ctx, rows); err != nil {
		return 0, err
	}
	for _, r := range rows {
		s.mapKey(types.KindInstructionGroup, r.Name, r.ID)
	}
	return len(rows), nil
}

// loadInstructionCodes resolves two cross-references per draft: the
// mnemonic group and the addressing mode. A draft whose group or mode is
// missing from the key maps (parent phase failed, or the snapshot never
// declared the key) is dropped, never mis-linked.
func (s *session) loadInstructionCodes(ctx context.Context) (int, error) {
	rows := make([]*types.InstructionCode, 0, len(s.batch.InstructionCodes))
	for _, d := range s.batch.InstructionCodes {
		groupID, groupOK := s.lookup(types.KindInstructionGroup, d.GroupName)
		modeID, modeOK := s.lookup(types.KindAddressingMode, d.ModeName)
		if !groupOK || !modeOK || d.Code == nil {
			s.drop(types.KindInstructionCode, d.GroupName+"."+d.ModeName)
			continue
		}
		rows = append(rows, &types.InstructionCode{
			ID:      idgen.NewID(),
			GroupID: groupID,
			ModeID:  modeID,
			Code:    *d.Code,
		})
	}
	if len(rows) == 0 {
		return 0, nil
	}
	if err := s.store.CreateInstructionCodes(ctx, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

func (s *session) loadFiles(ctx context.Context) (int, error) {
	drafts := s.batch.Files
	if len(drafts) == 0 {
		return 0, nil
	}
	rows := make([]*types.File, 0, len(drafts))
	for _, d := range drafts {
		rows = append(rows, &types.File{
			ID:         idgen.NewID(),
			ProjectID:  s.result.RootID,
			Name:       d.Name,
			Type:       d.Type,
			Start:      d.Start,
			End:        d.End,
			Compressed: d.Compressed,
		})
	}
	if err := s.store.CreateFiles(ctx, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

func (s *session) loadLabels(ctx context.Context) (int, error) {
	drafts := s.batch.Labels
	if len(drafts) == 0 {
		return 0, nil
	}
	rows := make([]*types.Label, 0, len(drafts))
	for _, d := range drafts {
		rows = append(rows, &types.Label{
			ID:        idgen.NewID(),
			ProjectID: s.result.RootID,
			Location:  d.Location,
			Text:      d.Text,
		})
	}
	if err := s.store.CreateLabels(ctx, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

func (s *session) loadOverrides(ctx context.Context) (int, error) {
	drafts := s.batch.Overrides
	if len(drafts) == 0 {
		return 0, nil
	}
	rows := make([]*types.Override, 0, len(drafts))
	for _, d := range drafts {
		rows = append(rows, &types.Override{
			ID:        idgen.NewID(),
			ProjectID: s.result.RootID,
			Location:  d.Location,
			Register:  d.Register,
			Value:     d.Value,
		})
	}
	if err := s.store.CreateOverrides(ctx, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

func (s *session) loadRewrites(ctx context.Context) (int, error) {
	drafts := s.batch.Rewrites
	if len(drafts) == 0 {
		return 0, nil
	}
	rows := make([]*types.Rewrite, 0, len(drafts))
	for _, d := range drafts {
		rows = append(rows, &types.Rewrite{
			ID:        idgen.NewID(),
			ProjectID: s.result.RootID,
			Location:  d.Location,
			Value:     d.Value,
		})
	}
	if err := s.store.CreateRewrites(ctx, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

func (s *session) loadStructs(ctx context.Context) (int, error) {
	drafts := s.batch.Structs
	if len(drafts) == 0 {
		return 0, nil
	}
	rows := make([]*types.Struct, 0, len(drafts))
	for _, d := range drafts {
		rows = append(rows, &types.Struct{
			ID:            idgen.NewID(),
			ProjectID:     s.result.RootID,
			Name:          d.Name,
			Types:         d.Types,
			Delimiter:     d.Delimiter,
			Discriminator: d.Discriminator,
			Parent:        d.Parent,
		})
	}
	if err := s.store.CreateStructs(ctx, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

func (s *session) loadCops(ctx context.Context) (int, error) {
	drafts := s.batch.Cops
	if len(drafts) == 0 {
		return 0, nil
	}
	rows := make([]*types.Cop, 0, len(drafts))
	for _, d := range drafts {
		if d.Code == nil {
			s.drop(types.KindCop, d.Key)
			continue
		}
		rows = append(rows, &types.Cop{
			ID:        idgen.NewID(),
			ProjectID: s.result.RootID,
			Code:      *d.Code,
			Mnemonic:  d.Mnemonic,
			Parts:     d.Parts,
			Halt:      d.Halt,
		})
	}
	if err := s.store.CreateCops(ctx, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

func (s *session) loadBlocks(ctx context.Context) (int, error) {
	drafts := s.batch.Blocks
	if len(drafts) == 0 {
		return 0, nil
	}
	rows := make([]*types.Block, 0, len(drafts))
	for _, d := range drafts {
		rows = append(rows, &types.Block{
			ID:        idgen.NewID(),
			ProjectID: s.result.RootID,
			Name:      d.Name,
			Movable:   d.Movable,
			Group:     d.Group,
			Meta:      d.Meta,
		})
	}
	if err := s.store.CreateBlocks(ctx, rows); err != nil {
		return 0, err
	}
	for _, r := range rows {
		s.mapKey(types.KindBlock, r.Name, r.ID)
	}
	return len(rows), nil
}

func (s *session) loadStringTypes(ctx context.Context) (int, error) {
	drafts := s.batch.StringTypes
	if len(drafts) == 0 {
		return 0, nil
	}
	rows := make([]*types.StringType, 0, len(drafts))
	for _, d := range drafts {
		rows = append(rows, &types.StringType{
			ID:        idgen.NewID(),
			ProjectID: s.result.RootID,
			Name:      d.Name,
			Delimiter: d.Delimiter,
			ShiftType: d.ShiftType,
			CharMap:   d.CharMap,
		})
	}
	if err := s.store.CreateStringTypes(ctx, rows); err != nil {
		return 0, err
	}
	for _, r := range rows {
		s.mapKey(types.KindStringType, r.Name, r.ID)
	}
	return len(rows), nil
}

func (s *session) loadBlockParts(ctx context.Context) (int, error) {
	rows := make([]*types.BlockPart, 0, len(s.batch.BlockParts))
	for _, d := range s.batch.BlockParts {
		blockID, ok := s.lookup(types.KindBlock, d.BlockName)
		if !ok {
			s.drop(types.KindBlockPart, d.BlockName+"."+d.Name)
			continue
		}
		rows = append(rows, &types.BlockPart{
			ID:      idgen.NewID(),
			BlockID: blockID,
			Name:    d.Name,
			Start:   d.Start,
			End:     d.End,
			Type:    d.Type,
		})
	}
	if len(rows) == 0 {
		return 0, nil
	}
	if err := s.store.CreateBlockParts(ctx, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

func (s *session) loadBlockTransforms(ctx context.Context) (int, error) {
	rows := make([]*types.BlockTransform, 0, len(s.batch.BlockTransforms))
	for _, d := range s.batch.BlockTransforms {
		blockID, ok := s.lookup(types.KindBlock, d.BlockName)
		if !ok {
			s.drop(types.KindBlockTransform, d.BlockName+"."+d.Key)
			continue
		}
		rows = append(rows, &types.BlockTransform{
			ID:      idgen.NewID(),
			BlockID: blockID,
			Key:     d.Key,
			Value:   d.Value,
		})
	}
	if len(rows) == 0 {
		return 0, nil
	}
	if err := s.store.CreateBlockTransforms(ctx, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

func (s *session) loadStringCommands(ctx context.Context) (int, error) {
	rows := make([]*types.StringCommand, 0, len(s.batch.StringCommands))
	for _, d := range s.batch.StringCommands {
		typeID, ok := s.lookup(types.KindStringType, d.TypeName)
		if !ok || d.Code == nil {
			s.drop(types.KindStringCommand, d.TypeName+"."+d.Key)
			continue
		}
		rows = append(rows, &types.StringCommand{
			ID:           idgen.NewID(),
			StringTypeID: typeID,
			Key:          d.Key,
			Code:         *d.Code,
			Types:        d.Types,
			Delimiter:    d.Delimiter,
			Halt:         d.Halt,
		})
	}
	if len(rows) == 0 {
		return 0, nil
	}
	if err := s.store.CreateStringCommands(ctx, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}
