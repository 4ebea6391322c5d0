package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/motherlabs/kernel/internal/engine"
	"github.com/motherlabs/kernel/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database    string
	RecordsFile string
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay <run-id>",
		Short: "Replay a stored run from its evidence ledger",
		Long: `Replay a run from its evidence records alone.

Validates the hash chain, rebuilds the DAG and artifacts from the
recorded payloads, recomputes the summary hash, and compares it to the
recorded one. No proposer is consulted. Records come from the database
or from a JSON trace file. Exit code 1 means the replay did not
reproduce the original run.

Example:
  kernel replay --db ./kernel.db 4f7c2a
  kernel replay --records ./trace.json 4f7c2a`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return replayRun(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database")
	cmd.Flags().StringVar(&opts.RecordsFile, "records", "", "path to a JSON evidence trace file")
	cmd.MarkFlagsOneRequired("db", "records")
	cmd.MarkFlagsMutuallyExclusive("db", "records")

	return cmd
}

func replayRun(opts *ReplayOptions, runID string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if opts.RecordsFile != "" {
		records, err := loadRecordsFile(opts.RecordsFile)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load records", err)
		}

		// A trace file carries its own expected summary inside the
		// artifact record; replay checks against that.
		outcome, err := engine.Replay(records, runID)
		if err != nil {
			return WrapExitError(ExitFailure, "replay failed", err)
		}
		return printReplayOutcome(formatter, runID, outcome)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	run, err := st.GetRun(ctx, runID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load run", err)
	}
	records, err := st.LoadRecords(ctx, runID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load records", err)
	}

	outcome, err := engine.Replay(records, runID)
	if err != nil {
		return WrapExitError(ExitFailure, "replay failed", err)
	}

	if outcome.Refused() {
		if run.Status != store.StatusRefused {
			return NewExitError(ExitFailure, "replay produced a refusal but the stored run converged")
		}
	} else if outcome.SummaryHash() != run.SummaryHash {
		return NewExitError(ExitFailure, fmt.Sprintf(
			"replay summary %s does not match stored summary %s",
			outcome.SummaryHash(), run.SummaryHash))
	}

	return printReplayOutcome(formatter, runID, outcome)
}

func printReplayOutcome(f *OutputFormatter, runID string, outcome engine.Outcome) error {
	if outcome.Refused() {
		if f.Format == "json" {
			return f.Success(map[string]interface{}{
				"run_id":       runID,
				"status":       "refused",
				"reason_codes": outcome.Refusal.Report.ReasonCodes,
			})
		}
		fmt.Fprintf(f.Writer, "replay %s: refusal reproduced\n", runID)
		return nil
	}

	if f.Format == "json" {
		return f.Success(map[string]interface{}{
			"run_id":       runID,
			"status":       "converged",
			"summary_hash": outcome.SummaryHash(),
		})
	}
	fmt.Fprintf(f.Writer, "replay %s: summary hash reproduced\n", runID)
	fmt.Fprintf(f.Writer, "  summary_hash: %s\n", outcome.SummaryHash())
	return nil
}
