package media

import (
	"context"

	"albumview/internal/log"
)

// Fetcher downloads the original blob of an origin path.
type Fetcher interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
}

// Source is the media currently shown in the viewer.
type Source struct {
	Identity  string
	LocalPath string
	Info      Info
}

// Loader fetches, inspects and caches blobs.
type Loader struct {
	fetcher Fetcher
	engine  *Engine
	cache   *Cache
}

// NewLoader creates a loader.
func NewLoader(fetcher Fetcher, engine *Engine, cache *Cache) *Loader {
	return &Loader{fetcher: fetcher, engine: engine, cache: cache}
}

// Load returns the source for identity. Any failure is returned as is and
// produces no source.
func (l *Loader) Load(ctx context.Context, identity string) (Source, error) {
	data, err := l.fetcher.Fetch(ctx, identity)
	if err != nil {
		return Source{}, err
	}
	info := l.engine.Describe(identity, data)
	local, err := l.cache.Store(identity, data)
	if err != nil {
		return Source{}, err
	}
	log.LogWithFields(
		log.F("identity", identity),
		log.F("mime", info.MIME),
		log.F("size", info.HumanSize()),
	).Debug("Loaded media")
	return Source{Identity: identity, LocalPath: local, Info: info}, nil
}
