package opts

import (
	"github.com/walteh/batchfs/pkg/store"
)

// RootOpts carries the shared dependencies for batchfs commands
type RootOpts struct {
	// Store is the opened backend batches run against
	Store store.Store

	// Protected overrides the default protected path patterns when set
	Protected []string
}
