package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Azarem/gaia-scribe/internal/configfile"
	"github.com/Azarem/gaia-scribe/internal/importer"
	"github.com/Azarem/gaia-scribe/internal/storage"
	"github.com/Azarem/gaia-scribe/internal/storage/sqlstore"
	"github.com/Azarem/gaia-scribe/internal/ui"
)

var platformsCmd = &cobra.Command{
	Use:   "platforms",
	Short: "Inspect imported platforms",
}

var platformsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List imported platforms visible to the actor",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := resolveSettings()
		if err != nil {
			return err
		}
		store, err := sqlstore.New(rootCtx, st.Database)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		platforms, err := store.ListPlatforms(rootCtx, storage.PlatformFilter{VisibleTo: st.Actor})
		if err != nil {
			return err
		}
		if jsonOutput {
			data, err := json.MarshalIndent(platforms, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}
		if len(platforms) == 0 {
			fmt.Println(ui.MutedStyle.Render("No platforms imported yet."))
			return nil
		}
		for _, p := range platforms {
			visibility := "private"
			if p.Public {
				visibility = "public"
			}
			fmt.Printf("%s  %s  branch=%s  %s  updated %s\n",
				p.ID, ui.BoldStyle.Render(p.Name), ui.AccentStyle.Render(p.BranchID),
				ui.MutedStyle.Render(visibility), p.UpdatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var platformsFindCmd = &cobra.Command{
	Use:   "find <branch-id>",
	Short: "Find the platform a ROM branch would bind to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := resolveSettings()
		if err != nil {
			return err
		}
		store, err := sqlstore.New(rootCtx, st.Database)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		p, err := importer.FindPlatformBinding(rootCtx, store, args[0], st.Actor)
		if err != nil {
			return err
		}
		if jsonOutput {
			data, err := json.MarshalIndent(p, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}
		fmt.Printf("%s %s (%s), updated %s\n",
			ui.PassStyle.Render("Matched"), ui.BoldStyle.Render(p.Name), p.ID,
			p.UpdatedAt.Format("2006-01-02 15:04"))
		return nil
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default scribe.json in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		existing, err := configfile.Load(".")
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%s already exists", configfile.ConfigFileName)
		}
		cfg := configfile.DefaultConfig()
		if dbPath != "" {
			cfg.Database = dbPath
		}
		if apiURL != "" {
			cfg.APIBaseURL = apiURL
		}
		if actor != "" {
			cfg.DefaultActor = actor
		}
		if err := cfg.Save("."); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", configfile.ConfigFileName)
		return nil
	},
}

func init() {
	platformsCmd.AddCommand(platformsListCmd)
	platformsCmd.AddCommand(platformsFindCmd)
}
