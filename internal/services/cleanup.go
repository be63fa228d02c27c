package services

import (
	"sync"

	"photo-converter/internal/logger"

	"github.com/sirupsen/logrus"
)

// Cleanup tracks every temp path a request owns and deletes them all
// exactly once, after the response has terminated. Deletion is
// best-effort: one failure never stops the remaining removals, and
// failures are only logged since the response is already gone.
type Cleanup struct {
	mu     sync.Mutex
	once   sync.Once
	paths  []string
	remove func(path string) error
}

func NewCleanup(remove func(path string) error) *Cleanup {
	return &Cleanup{remove: remove}
}

// Track adds paths to the cleanup set. Safe to call from the parallel
// per-file workers.
func (c *Cleanup) Track(paths ...string) {
	c.mu.Lock()
	c.paths = append(c.paths, paths...)
	c.mu.Unlock()
}

// Release deletes every tracked path. Subsequent calls are no-ops.
func (c *Cleanup) Release() {
	c.once.Do(func() {
		c.mu.Lock()
		paths := c.paths
		c.paths = nil
		c.mu.Unlock()

		for _, path := range paths {
			if err := c.remove(path); err != nil {
				logger.WithFields(logrus.Fields{
					"path":  path,
					"error": err.Error(),
				}).Warn("Failed to remove temp file")
			}
		}
	})
}
