package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/Azarem/gaia-scribe/internal/debug"
	"github.com/Azarem/gaia-scribe/internal/importer"
	"github.com/Azarem/gaia-scribe/internal/storage/sqlstore"
	"github.com/Azarem/gaia-scribe/internal/types"
	"github.com/Azarem/gaia-scribe/internal/ui"
)

var (
	importName           string
	importPublic         bool
	importConcurrent     bool
	importSkipDependents bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a branch snapshot into the store",
}

var importPlatformCmd = &cobra.Command{
	Use:   "platform <branch-id>",
	Short: "Import a platform branch (instruction set, vectors)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(args[0], true)
	},
}

var importRomCmd = &cobra.Command{
	Use:   "rom <branch-id>",
	Short: "Import a ROM branch (blocks, files, string tables, fixups)",
	Long: `Import a ROM branch. The branch's declared platform branch must already
have been imported as a platform entity; the import aborts otherwise.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(args[0], false)
	},
}

func init() {
	for _, cmd := range []*cobra.Command{importPlatformCmd, importRomCmd} {
		cmd.Flags().StringVar(&importName, "name", "", "name for the created root entity (default: snapshot name)")
		cmd.Flags().BoolVar(&importPublic, "public", false, "make the created entity visible to everyone")
		cmd.Flags().BoolVar(&importConcurrent, "concurrent", false, "run independent phases concurrently")
		cmd.Flags().BoolVar(&importSkipDependents, "skip-dependents", false, "skip child phases whose prerequisite phase failed")
	}
	importCmd.AddCommand(importPlatformCmd)
	importCmd.AddCommand(importRomCmd)
}

func runImport(branchID string, platform bool) error {
	st, err := resolveSettings()
	if err != nil {
		return err
	}

	store, err := sqlstore.New(rootCtx, st.Database)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	client := newBranchClient(st)
	debug.PrintNormal("Fetching branch %s...\n", branchID)
	branch, err := client.FetchBranch(rootCtx, branchID)
	if err != nil {
		return err
	}

	opts := importer.Options{
		RootName:                importName,
		Actor:                   st.Actor,
		Public:                  importPublic,
		ConcurrentIndependent:   importConcurrent || st.ConcurrentImports,
		SkipDependentsOnFailure: importSkipDependents || st.SkipDependentsOnFailure,
		OnProgress: func(label string, current, total int) {
			if !jsonOutput {
				debug.PrintNormal("%s %s\n", ui.MutedStyle.Render(fmt.Sprintf("[%d/%d]", current, total)), label)
			}
		},
	}

	var res *importer.Result
	if platform {
		res, err = importer.ImportPlatform(rootCtx, store, branch, opts)
	} else {
		if branch.Game == nil {
			return fmt.Errorf("branch %s is not a ROM branch", branchID)
		}
		binding, bindErr := importer.FindPlatformBinding(rootCtx, store, branch.Game.PlatformBranchID, st.Actor)
		if bindErr != nil {
			if errors.Is(bindErr, importer.ErrBindingNotFound) {
				return fmt.Errorf("%w (import the platform branch first)", bindErr)
			}
			return bindErr
		}
		debug.Logf("matched platform %s (%s) for branch %s", binding.Name, binding.ID, branch.Game.PlatformBranchID)
		res, err = importer.ImportGame(rootCtx, store, branch, binding.ID, opts)
	}

	printResult(res)
	if err != nil {
		return err
	}
	return nil
}

func printResult(res *importer.Result) {
	if res == nil {
		return
	}
	if jsonOutput {
		data, err := json.MarshalIndent(res, "", "  ")
		if err == nil {
			fmt.Println(string(data))
		}
		return
	}

	if len(res.ValidationErrors) > 0 {
		fmt.Println(ui.FailStyle.Render("Validation failed; nothing was created:"))
		for _, ve := range res.ValidationErrors {
			fmt.Printf("  %s %s\n", ui.FailStyle.Render("✗"), ve.Error())
		}
		return
	}
	if !res.Success {
		fmt.Println(ui.FailStyle.Render("Import failed; nothing was created."))
		return
	}

	fmt.Printf("%s %s (%s)\n", ui.PassStyle.Render("Imported"), ui.BoldStyle.Render(res.RootName), ui.AccentStyle.Render(res.RootID))

	// Per-kind breakdown is noise in quiet mode; warnings below still print.
	if !debug.IsQuiet() {
		kinds := make([]string, 0, len(res.Created))
		for kind := range res.Created {
			kinds = append(kinds, string(kind))
		}
		sort.Strings(kinds)
		for _, kind := range kinds {
			fmt.Printf("  %-18s %d\n", kind, res.Created[types.EntityKind(kind)])
		}
		if res.Skipped > 0 {
			fmt.Printf("  %s\n", ui.MutedStyle.Render(fmt.Sprintf("skipped %d malformed snapshot record(s)", res.Skipped)))
		}
		if res.Dropped > 0 {
			fmt.Printf("  %s\n", ui.MutedStyle.Render(fmt.Sprintf("dropped %d draft(s) with unresolved references", res.Dropped)))
		}
	}

	if res.Partial() {
		fmt.Println(ui.WarnStyle.Render("Import finished, but some sections are incomplete:"))
		for _, pe := range res.PhaseErrors {
			fmt.Fprintf(os.Stderr, "  %s %s: %s\n", ui.WarnStyle.Render("!"), pe.Phase, pe.Message)
		}
		for _, label := range res.SkippedPhases {
			fmt.Fprintf(os.Stderr, "  %s %s: skipped (prerequisite failed)\n", ui.WarnStyle.Render("!"), label)
		}
	}
}
