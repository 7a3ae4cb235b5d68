package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/batchfs/cmd/batchfs/commands"
	"github.com/walteh/batchfs/cmd/batchfs/opts"
	"github.com/walteh/batchfs/pkg/store"
	"gitlab.com/tozd/go/errors"

	// register store backends
	_ "github.com/walteh/batchfs/pkg/store/disk"
	_ "github.com/walteh/batchfs/pkg/store/github"
	_ "github.com/walteh/batchfs/pkg/store/memory"
)

var (
	// Flags
	storeBackend string
	storeRoot    string
	protected    []string
	debug        bool
)

// newRootOpts creates a new RootOpts with initialized dependencies
func newRootOpts(ctx context.Context) (*opts.RootOpts, error) {
	st, err := store.Open(ctx, storeBackend, storeRoot)
	if err != nil {
		return nil, errors.Errorf("opening store: %w", err)
	}

	return &opts.RootOpts{
		Store:     st,
		Protected: protected,
	}, nil
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batchfs",
		Short: "Apply ordered batches of file operations to a virtual filesystem store",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging()
		},
	}

	cmd.PersistentFlags().StringVarP(&storeBackend, "store", "s", "disk", "store backend (memory, disk, github)")
	cmd.PersistentFlags().StringVarP(&storeRoot, "root", "r", ".", "store root (directory for disk, owner/repo[@branch] for github)")
	cmd.PersistentFlags().StringArrayVar(&protected, "protected", nil, "override protected path patterns")
	cmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")

	cmd.AddCommand(commands.NewApplyCmd(newRootOpts))
	cmd.AddCommand(commands.NewCheckCmd())

	return cmd
}

// setupLogging configures zerolog based on flags
func setupLogging() {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log
}
