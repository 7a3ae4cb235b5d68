package store

import (
	"context"
	"strings"
	"time"

	"gitlab.com/tozd/go/errors"
)

// ErrNotExist is returned by lookups when no entry lives at the given path.
// Backends must return it (possibly wrapped) so callers can tell absence
// from a failing store.
var ErrNotExist = errors.Base("entry does not exist")

// EntryKind distinguishes files from folders in the virtual tree.
type EntryKind string

const (
	KindFile   EntryKind = "file"
	KindFolder EntryKind = "folder"
)

// Entry is a single node in the virtual tree, owned by the backing store.
type Entry struct {
	ID         string
	Path       string
	Name       string
	Kind       EntryKind
	ParentPath string
	Content    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Store is the narrow boundary to a path-addressed backing store. Paths are
// always in normalized form (see pkg/vpath). Implementations decide their
// own concurrency discipline; last write wins per path.
type Store interface {
	// Lookup returns the entry at path, or ErrNotExist
	Lookup(ctx context.Context, path string) (*Entry, error)
	// LookupContent returns the content of the file at path, or ErrNotExist
	LookupContent(ctx context.Context, path string) (string, error)
	// CreateFile inserts a new file under parentPath
	CreateFile(ctx context.Context, parentPath, name, content string) (*Entry, error)
	// CreateFolder inserts a new folder under parentPath
	CreateFolder(ctx context.Context, parentPath, name string) (*Entry, error)
	// UpdateContent replaces the content of the file at path
	UpdateContent(ctx context.Context, path, content string) error
	// Delete removes the entry with the given id
	Delete(ctx context.Context, id string) error
}

// Factory opens a store backend rooted at the given location. The meaning
// of root is backend-specific (a directory for disk, "owner/repo" for
// github, ignored for memory).
type Factory func(ctx context.Context, root string) (Store, error)

var registry = map[string]Factory{}

// Register makes a backend available under the given name.
func Register(name string, factory Factory) {
	registry[name] = factory
}

// Open opens a registered backend by name.
func Open(ctx context.Context, name, root string) (Store, error) {
	factory, ok := registry[name]
	if !ok {
		options := []string{}
		for k := range registry {
			options = append(options, k)
		}
		return nil, errors.Errorf("store backend %s not found, options: %s", name, strings.Join(options, ", "))
	}
	return factory(ctx, root)
}
