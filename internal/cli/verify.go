package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/motherlabs/kernel/internal/ledger"
	"github.com/motherlabs/kernel/internal/store"
)

// VerifyOptions holds flags for the verify command.
type VerifyOptions struct {
	*RootOptions
	Database string
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VerifyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "verify <run-id>",
		Short: "Verify the evidence chain of a stored run",
		Long: `Verify the hash chain of a stored run without replaying it.

Every payload hash, parent link, and record hash is recomputed from the
stored fields. Exit code 1 identifies the first tampered record.

Example:
  kernel verify --db ./kernel.db 4f7c2a`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return verifyRun(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func verifyRun(opts *VerifyOptions, runID string, cmd *cobra.Command) error {
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	records, err := st.LoadRecords(ctx, runID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load records", err)
	}

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if err := ledger.ValidateChain(records); err != nil {
		var chainErr *ledger.ChainError
		if errors.As(err, &chainErr) {
			_ = formatter.Error("E_CHAIN", fmt.Sprintf(
				"chain broken at record %d: %s", chainErr.Index, chainErr.Check), chainErr)
		}
		return WrapExitError(ExitFailure, "chain verification failed", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(map[string]interface{}{
			"run_id":  runID,
			"status":  "valid",
			"records": len(records),
		})
	}
	fmt.Fprintf(formatter.Writer, "verify %s: chain valid (%d records)\n", runID, len(records))
	return nil
}
