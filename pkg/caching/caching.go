package caching

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dtnitsch/gdp-etl/internal/common"
)

// Cache provides a simple file-based page cache with a TTL.
type Cache struct {
	path string
	ttl  time.Duration
	now  func() time.Time
}

// NewCache creates a new Cache instance.
// The cache path will be created if it doesn't exist.
func NewCache(path string, ttl time.Duration) (*Cache, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Cache{
		path: path,
		ttl:  ttl,
		now:  time.Now,
	}, nil
}

func (c *Cache) file(url string) string {
	return filepath.Join(c.path, common.ContentHash([]byte(url))+".html")
}

// Get returns the cached page and true if it exists and is younger than the TTL.
func (c *Cache) Get(url string) ([]byte, bool) {
	filePath := c.file(url)

	info, err := os.Stat(filePath)
	if err != nil {
		return nil, false
	}
	if c.now().Sub(info.ModTime()) > c.ttl {
		return nil, false // expired
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set stores a page under the hash of its URL.
func (c *Cache) Set(url string, data []byte) error {
	if err := os.WriteFile(c.file(url), data, 0644); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	return nil
}
