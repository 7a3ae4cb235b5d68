package commands

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/batchfs/cmd/batchfs/opts"
	"github.com/walteh/batchfs/pkg/batch"
	"github.com/walteh/batchfs/pkg/batchfile"
	"github.com/walteh/batchfs/pkg/log"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// NewApplyCmd creates a new apply command
func NewApplyCmd(newOpts func(ctx context.Context) (*opts.RootOpts, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply [batch files...]",
		Short: "Apply batch files to the store",
		Long: `Apply runs every operation in each batch file against the store.
Operations within a batch execute in a fixed safe order: reads first, then
existence checks, folder creates, file creates, writes, moves and copies,
move-derived deletes, and manual deletes last. Separate batch files share no
state and run concurrently.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "apply").Logger().WithContext(ctx)

			ro, err := newOpts(ctx)
			if err != nil {
				return errors.Errorf("initializing: %w", err)
			}

			// Batches are independent by construction; only the store is
			// shared, and its own discipline governs cross-batch races.
			g, gctx := errgroup.WithContext(ctx)
			for _, file := range args {
				file := file
				g.Go(func() error {
					return applyOne(gctx, ro, file)
				})
			}
			return g.Wait()
		},
	}

	return cmd
}

// applyOne loads and runs a single batch file.
func applyOne(ctx context.Context, ro *opts.RootOpts, file string) error {
	ops, err := batchfile.Load(ctx, file)
	if err != nil {
		return errors.Errorf("loading %s: %w", file, err)
	}

	reporter := log.NewReporter(ctx, os.Stdout)
	reporter.Header(file, len(ops))

	options := []batch.Option{batch.WithReporter(reporter)}
	if len(ro.Protected) > 0 {
		options = append(options, batch.WithProtectedPatterns(ro.Protected...))
	}

	processor := batch.New(ro.Store, options...)
	if _, err := processor.Process(ctx, ops); err != nil {
		return errors.Errorf("applying %s: %w", file, err)
	}

	reporter.Summary(ctx)
	return nil
}
