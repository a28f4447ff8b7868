package media

import (
	"fmt"
	"os"
	"path/filepath"

	"albumview/internal/errors"
	"albumview/internal/paths"
)

// Cache stores blobs under a directory, mirroring their origin paths.
type Cache struct {
	dir string
}

// NewCache returns a cache rooted at dir. The directory is created lazily.
func NewCache(dir string) *Cache {
	return &Cache{dir: dir}
}

// Dir returns the cache root.
func (c *Cache) Dir() string {
	return c.dir
}

// PathFor returns where the blob of identity is stored.
func (c *Cache) PathFor(identity string) (string, error) {
	rel := paths.Clean(identity)
	if rel == "" {
		return "", errors.Wrapf(errors.ErrInvalidPath, "cache path for %q", identity)
	}
	return filepath.Join(c.dir, filepath.FromSlash(rel)), nil
}

// Store writes data for identity and returns the local file path.
func (c *Cache) Store(identity string, data []byte) (string, error) {
	dest, err := c.PathFor(identity)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}
	tmp := dest + ".part"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to move %s into place: %w", dest, err)
	}
	return dest, nil
}
