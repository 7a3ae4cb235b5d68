package commands

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/batchfs/pkg/batchfile"
	"github.com/walteh/batchfs/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// NewCheckCmd creates a new check command
func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [batch files...]",
		Short: "Validate batch files without touching the store",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "check").Logger().WithContext(ctx)

			reporter := log.NewReporter(ctx, os.Stdout)

			failed := 0
			for _, file := range args {
				ops, err := batchfile.Load(ctx, file)
				if err != nil {
					reporter.Validation(false, fmt.Sprintf("%s is not a valid batch file", file), err)
					failed++
					continue
				}
				reporter.Validation(true, fmt.Sprintf("%s: %d operations", file, len(ops)), nil)
			}

			if failed > 0 {
				return errors.Errorf("%d of %d batch files failed validation", failed, len(args))
			}
			return nil
		},
	}

	return cmd
}
