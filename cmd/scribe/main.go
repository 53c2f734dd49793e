// Command scribe imports versioned branch snapshots (platform instruction
// sets, game ROM layouts) into a relational store as normalized entities.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Azarem/gaia-scribe/internal/branchapi"
	"github.com/Azarem/gaia-scribe/internal/configfile"
	"github.com/Azarem/gaia-scribe/internal/debug"
)

var (
	dbPath      string
	apiURL      string
	actor       string
	jsonOutput  bool
	verboseFlag bool
	quietFlag   bool

	// Signal-aware context for graceful cancellation between phases.
	rootCtx    context.Context
	rootCancel context.CancelFunc
)

var rootCmd = &cobra.Command{
	Use:   "scribe",
	Short: "Manage ROM disassembly metadata imports",
	Long: `scribe imports branch snapshots from the external branch service into a
local or hosted relational store: platforms (addressing modes, instruction
groups, opcodes, vectors) and ROM projects (blocks, files, string tables,
labels, fixups).`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		debug.SetVerbose(verboseFlag)
		debug.SetQuiet(quietFlag)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// settings is the merged view of scribe.json, SCRIBE_* env vars and flags.
// Precedence: flag > env > config file > default.
type settings struct {
	Database                string
	APIBaseURL              string
	FetchTimeout            time.Duration
	Actor                   string
	ConcurrentImports       bool
	SkipDependentsOnFailure bool
}

func resolveSettings() (*settings, error) {
	cfg, err := configfile.Load(".")
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = configfile.DefaultConfig()
	}

	v := viper.New()
	v.SetEnvPrefix("scribe")
	v.AutomaticEnv()

	st := &settings{
		Database:                cfg.Database,
		APIBaseURL:              cfg.APIBaseURL,
		Actor:                   cfg.DefaultActor,
		ConcurrentImports:       cfg.ConcurrentImports,
		SkipDependentsOnFailure: cfg.SkipDependentsOnFailure,
	}
	if cfg.FetchTimeoutSeconds > 0 {
		st.FetchTimeout = time.Duration(cfg.FetchTimeoutSeconds) * time.Second
	}

	if s := v.GetString("db"); s != "" {
		st.Database = s
	}
	if s := v.GetString("api_url"); s != "" {
		st.APIBaseURL = s
	}
	if d := v.GetString("fetch_timeout"); d != "" {
		timeout, err := time.ParseDuration(d)
		if err != nil {
			return nil, fmt.Errorf("SCRIBE_FETCH_TIMEOUT: %w", err)
		}
		st.FetchTimeout = timeout
	}

	if dbPath != "" {
		st.Database = dbPath
	}
	if apiURL != "" {
		st.APIBaseURL = apiURL
	}
	if actor != "" {
		st.Actor = actor
	}
	return st, nil
}

func newBranchClient(st *settings) *branchapi.Client {
	var opts []branchapi.Option
	if st.APIBaseURL != "" {
		opts = append(opts, branchapi.WithBaseURL(st.APIBaseURL))
	}
	if st.FetchTimeout > 0 {
		opts = append(opts, branchapi.WithTimeout(st.FetchTimeout))
	}
	return branchapi.New(opts...)
}

func main() {
	rootCtx, rootCancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer rootCancel()

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "target store: SQLite path or MySQL DSN (env: SCRIBE_DB)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "branch service base URL (env: SCRIBE_API_URL)")
	rootCmd.PersistentFlags().StringVar(&actor, "actor", "", "user performing the operation")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "machine-readable JSON output")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "verbose diagnostic output")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "suppress non-essential output")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(platformsCmd)
	rootCmd.AddCommand(initCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
