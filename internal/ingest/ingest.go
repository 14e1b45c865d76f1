// Package ingest discovers documents on disk and feeds them, one at a time, to a handler.
package ingest

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/lease-analyzer/constants"
)

// Handler processes one discovered document.
type Handler func(ctx context.Context, path string) error

// Stats summarizes a batch of handled documents.
type Stats struct {
	Scanned   uint32
	Matched   uint32
	Succeeded uint32
	Failed    uint32
}

// Supported reports whether path has an extension the readers accept.
func Supported(path string) bool {
	return constants.IsAllowedExt(filepath.Ext(path))
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}

// Scan walks root and returns the supported files under it in lexical order.
// Unreadable entries are counted as failed and skipped.
func Scan(root string, skipHidden bool) ([]string, Stats, error) {
	var (
		paths []string
		stats Stats
	)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			stats.Failed++
			return nil
		}
		if skipHidden && path != root && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		stats.Scanned++
		if !Supported(path) {
			return nil
		}
		stats.Matched++
		paths = append(paths, path)
		return nil
	})
	return paths, stats, err
}

// Consume hands each path from paths to h, strictly one after another, until paths closes
// or ctx is done. A failing document is logged and does not stop the loop.
func Consume(ctx context.Context, paths <-chan string, h Handler, logger *slog.Logger) Stats {
	if logger == nil {
		logger = slog.Default()
	}
	var stats Stats
	for {
		select {
		case <-ctx.Done():
			return stats
		case p, ok := <-paths:
			if !ok {
				return stats
			}
			stats.Matched++
			if err := h(ctx, p); err != nil {
				stats.Failed++
				logger.Error("ingest.handle.failed", "path", p, "error", err)
				continue
			}
			stats.Succeeded++
			logger.Info("ingest.handle.ok", "path", p)
		}
	}
}
