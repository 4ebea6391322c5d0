package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/motherlabs/kernel/internal/engine"
	"github.com/motherlabs/kernel/internal/proposer"
	"github.com/motherlabs/kernel/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database   string
	PolicyFile string
	Pin        string
	RunID      string
	TSBase     string
	Recordings string

	// Proposer allows overriding the proposer (for testing).
	// If nil, it is built from the recordings file, or Null.
	Proposer proposer.Proposer
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <seed-text>",
		Short: "Run a seed through the kernel",
		Long: `Run an ambiguous seed through deterministic ambiguity resolution.

The kernel records every step in a hash-chained evidence ledger,
commits a single interpretation, builds the decision DAG, and emits
either a blueprint with a verification pack or a refusal report.

Interpretations come from the recordings file; without one the null
proposer is used, which always refuses.

Example:
  kernel run --db ./kernel.db --recordings ./proposals.json "build a cache"
  kernel run --db ./kernel.db --policy ./policy.yaml --pin '{"target":"svc"}' "build a cache"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.PolicyFile, "policy", "", "path to YAML policy file (default: built-in budgets)")
	cmd.Flags().StringVar(&opts.Pin, "pin", "", "pinned target as a JSON object")
	cmd.Flags().StringVar(&opts.RunID, "run-id", "", "run identifier (default: random UUID)")
	cmd.Flags().StringVar(&opts.TSBase, "ts-base", "", "base ordering token (default: run id)")
	cmd.Flags().StringVar(&opts.Recordings, "recordings", "", "path to recorded proposals JSON file")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runSeed(opts *RunOptions, seedText string, cmd *cobra.Command) error {
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(handler))

	pol, err := loadPolicy(opts.PolicyFile)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load policy", err)
	}

	pin, err := loadPin(opts.Pin)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to parse pin", err)
	}

	prop := opts.Proposer
	if prop == nil {
		if opts.Recordings != "" {
			prop, err = loadRecordings(opts.Recordings)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load recordings", err)
			}
		} else {
			slog.Warn("no recordings file given, using null proposer; the run will refuse")
			prop = proposer.Null{}
		}
	}

	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	tsBase := opts.TSBase
	if tsBase == "" {
		tsBase = runID
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	slog.Info("run starting", "run_id", runID, "ts_base", tsBase)
	outcome, err := engine.Run(ctx, engine.Params{
		RunID:    runID,
		SeedText: seedText,
		Pin:      pin,
		Policy:   pol,
		Proposer: proposer.NewBounded(prop, 0),
		TSBase:   tsBase,
	})
	if err != nil {
		return WrapExitError(ExitFailure, "run failed", err)
	}

	if err := saveOutcome(ctx, st, runID, tsBase, outcome); err != nil {
		return WrapExitError(ExitCommandError, "failed to save run", err)
	}

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	return printOutcome(formatter, runID, outcome)
}

// saveOutcome persists either arm of the outcome.
func saveOutcome(ctx context.Context, st *store.Store, runID, tsBase string, outcome engine.Outcome) error {
	if outcome.Refused() {
		return st.SaveRun(ctx, store.RunRow{
			RunID:    runID,
			SeedHash: outcome.Refusal.Report.SeedHash,
			Status:   store.StatusRefused,
			TSBase:   tsBase,
		}, outcome.Refusal.Records)
	}
	return st.SaveRun(ctx, store.RunRow{
		RunID:       runID,
		SeedHash:    outcome.Result.Blueprint.SeedHash,
		Status:      store.StatusConverged,
		SummaryHash: outcome.Result.SummaryHash,
		TSBase:      tsBase,
	}, outcome.Result.Records)
}

// printOutcome renders the outcome in the configured format. A refusal
// is a successful command: the kernel did its job by refusing.
func printOutcome(f *OutputFormatter, runID string, outcome engine.Outcome) error {
	if outcome.Refused() {
		report := outcome.Refusal.Report
		if f.Format == "json" {
			return f.Success(map[string]interface{}{
				"run_id":             runID,
				"status":             report.Status,
				"reason_codes":       report.ReasonCodes,
				"policy_suggestions": report.PolicySuggestions,
			})
		}
		fmt.Fprintf(f.Writer, "run %s: refused\n", runID)
		for _, reason := range report.ReasonCodes {
			fmt.Fprintf(f.Writer, "  reason: %s\n", reason)
		}
		for _, suggestion := range report.PolicySuggestions {
			fmt.Fprintf(f.Writer, "  suggestion: %s\n", suggestion)
		}
		return nil
	}

	result := outcome.Result
	if f.Format == "json" {
		return f.Success(map[string]interface{}{
			"run_id":       runID,
			"status":       "converged",
			"summary_hash": result.SummaryHash,
			"records":      len(result.Records),
			"nodes":        len(result.Graph.Nodes()),
			"edges":        len(result.Graph.Edges()),
		})
	}
	fmt.Fprintf(f.Writer, "run %s: converged\n", runID)
	fmt.Fprintf(f.Writer, "  summary_hash: %s\n", result.SummaryHash)
	fmt.Fprintf(f.Writer, "  records: %d  nodes: %d  edges: %d\n",
		len(result.Records), len(result.Graph.Nodes()), len(result.Graph.Edges()))
	return nil
}
