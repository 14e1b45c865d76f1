package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("Tenant: John Roe"), 0o644))
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("/in/lease.PDF"))
	assert.True(t, Supported("contract.docx"))
	assert.True(t, Supported("notes.md"))
	assert.False(t, Supported("scan.png"))
	assert.False(t, Supported("README"))
}

func TestScan(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "b.pdf"))
	touch(t, filepath.Join(root, "a.txt"))
	touch(t, filepath.Join(root, "photo.jpg"))
	touch(t, filepath.Join(root, ".hidden", "c.pdf"))
	touch(t, filepath.Join(root, "sub", "d.html"))

	paths, stats, err := Scan(root, true)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a.txt"),
		filepath.Join(root, "b.pdf"),
		filepath.Join(root, "sub", "d.html"),
	}, paths)
	assert.Equal(t, uint32(4), stats.Scanned)
	assert.Equal(t, uint32(3), stats.Matched)

	paths, _, err = Scan(root, false)
	require.NoError(t, err)
	assert.Len(t, paths, 4)
}

func TestScanMissingRoot(t *testing.T) {
	_, _, err := Scan(filepath.Join(t.TempDir(), "nope"), true)
	assert.Error(t, err)
}

func TestConsumeIsSequentialAndContinuesOnFailure(t *testing.T) {
	paths := make(chan string, 3)
	paths <- "a.pdf"
	paths <- "bad.pdf"
	paths <- "c.pdf"
	close(paths)

	var seen []string
	stats := Consume(context.Background(), paths, func(_ context.Context, p string) error {
		seen = append(seen, p)
		if p == "bad.pdf" {
			return errors.New("unreadable")
		}
		return nil
	}, nil)

	assert.Equal(t, []string{"a.pdf", "bad.pdf", "c.pdf"}, seen)
	assert.Equal(t, uint32(3), stats.Matched)
	assert.Equal(t, uint32(2), stats.Succeeded)
	assert.Equal(t, uint32(1), stats.Failed)
}

func TestConsumeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	stats := Consume(ctx, make(chan string), func(context.Context, string) error { return nil }, nil)
	assert.Zero(t, stats.Matched)
}

func next(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case p := <-ch:
		return p
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for watcher event")
		return ""
	}
}

func TestWatcherInitialScanAndNewFiles(t *testing.T) {
	root := t.TempDir()
	existing := filepath.Join(root, "existing.txt")
	touch(t, existing)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, _, err := StartWatcher(ctx, WatchConfig{
		Roots:       []string{root},
		InitialScan: true,
		Debounce:    50 * time.Millisecond,
		SkipHidden:  true,
		Ignore:      func(p string) bool { return strings.Contains(filepath.Base(p), "_summary.") },
	})
	require.NoError(t, err)
	assert.Equal(t, existing, next(t, events))

	touch(t, filepath.Join(root, "scan.png"))
	touch(t, filepath.Join(root, "lease.lease_summary.pdf"))
	added := filepath.Join(root, "lease.pdf")
	touch(t, added)
	assert.Equal(t, added, next(t, events))

	cancel()
	for range events {
	}
}

func TestWatcherNeedsRoots(t *testing.T) {
	_, _, err := StartWatcher(context.Background(), WatchConfig{})
	assert.Error(t, err)
}
