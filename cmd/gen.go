package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// DefaultLockTimeout bounds how long gen waits for another writer to
// release an --append file.
const DefaultLockTimeout = 5 * time.Second

// GenRequest describes one gen invocation. Zero Count or Length defers to
// the config file, then to built-in defaults.
type GenRequest struct {
	Overrides   Overrides
	Count       int
	Length      int
	Workers     int
	AppendPath  string
	LockTimeout time.Duration
}

// GenResult holds the generated identifiers.
type GenResult struct {
	IDs         []string `json:"ids"`
	Length      int      `json:"length"`
	EntropyBits float64  `json:"entropy_bits"`
	Biased      bool     `json:"biased"`
	AppendedTo  string   `json:"appended_to,omitempty"`
}

// GenRunner executes the gen operation.
type GenRunner interface {
	Generate(ctx context.Context, req GenRequest) (*GenResult, error)
}

// NewGenCmd creates the gen command with the given runner.
func NewGenCmd(runner GenRunner) *cobra.Command {
	var gf generatorFlags
	var count, length, workers int
	var appendPath string
	var lockTimeout time.Duration
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:          "gen",
		Short:        "Generate random identifiers",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, f := range []struct {
				name  string
				value int
			}{{"count", count}, {"length", length}, {"workers", workers}} {
				if cmd.Flags().Changed(f.name) && f.value < 1 {
					return &UsageError{Flag: f.name, Reason: "must be at least 1"}
				}
			}

			req := GenRequest{
				Overrides:   gf.overrides(cmd),
				Count:       count,
				Length:      length,
				Workers:     workers,
				AppendPath:  appendPath,
				LockTimeout: lockTimeout,
			}
			result, err := runner.Generate(cmd.Context(), req)
			if err != nil {
				return err
			}

			if jsonOutput || GetJSON() {
				writeJSON(cmd.OutOrStdout(), result)
				return nil
			}
			return writeGenHuman(cmd, result)
		},
	}

	gf.register(cmd)
	cmd.Flags().IntVarP(&count, "count", "n", 0, "Number of identifiers to generate (default 1)")
	cmd.Flags().IntVarP(&length, "length", "l", 0, "Symbols per identifier (default 22)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 1, "Generate in parallel with one generator per worker")
	cmd.Flags().StringVar(&appendPath, "append", "", "Append identifiers to this file under an advisory lock")
	cmd.Flags().DurationVar(&lockTimeout, "lock-timeout", DefaultLockTimeout, "How long to wait for the --append lock")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")

	return cmd
}

func writeGenHuman(cmd *cobra.Command, result *GenResult) error {
	w := cmd.OutOrStdout()
	if result.AppendedTo != "" {
		_, err := fmt.Fprintf(w, "Appended %d identifier(s) to %s\n", len(result.IDs), result.AppendedTo)
		return err
	}
	for _, id := range result.IDs {
		if _, err := fmt.Fprintln(w, id); err != nil {
			return err
		}
	}
	return nil
}
