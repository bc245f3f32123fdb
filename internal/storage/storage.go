package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/vectorops/chromactl/pkg/chroma"
)

// Package storage provides the local collection cache abstraction.

// Store caches collection records fetched from the server, keyed by the
// requested collection name.
type Store interface {
	Close() error
	Collection(name string) (chroma.Collection, bool, error)
	Put(name string, col chroma.Collection) error
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	CollectionTTL   time.Duration
	CleanupInterval time.Duration
}

const (
	defaultCollectionTTL   = 24 * time.Hour
	defaultCleanupInterval = time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.CollectionTTL <= 0 {
		opts.CollectionTTL = defaultCollectionTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error { return nil }

func (noopStore) Collection(string) (chroma.Collection, bool, error) {
	return chroma.Collection{}, false, nil
}

func (noopStore) Put(string, chroma.Collection) error { return nil }
