package catalog_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Amund211/awardtracker/internal/adapters/catalog"
	"github.com/Amund211/awardtracker/internal/registry"
	"github.com/stretchr/testify/require"
)

func TestWatcher(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	dir := t.TempDir()
	path := filepath.Join(dir, "awards.yaml")
	require.NoError(t, os.WriteFile(path, []byte("awards:\n  - id: a\n    requiredProgress: 1\n"), 0o644))

	reg := registry.New()
	definitions, err := catalog.LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, 1, catalog.Apply(ctx, reg, definitions))

	watcher, err := catalog.Watch(ctx, path, reg)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, watcher.Close())
	}()

	// Unrelated files in the directory are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("not: [valid"), 0o644))

	require.NoError(t, os.WriteFile(path, []byte("awards:\n  - id: a\n    requiredProgress: 1\n  - id: b\n    requiredProgress: 2\n"), 0o644))

	require.Eventually(t, func() bool {
		return reg.Exists("b")
	}, 5*time.Second, 20*time.Millisecond)

	// Replacing the file is picked up as well
	tmp := filepath.Join(dir, "awards.yaml.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("awards:\n  - id: a\n  - id: b\n  - id: c\n"), 0o644))
	require.NoError(t, os.Rename(tmp, path))

	require.Eventually(t, func() bool {
		return reg.Exists("c")
	}, 5*time.Second, 20*time.Millisecond)

	required, ok := reg.Get("a")
	require.True(t, ok)
	require.Equal(t, 1, required.RequiredProgress)
}

func TestWatchMissingDirectory(t *testing.T) {
	t.Parallel()

	_, err := catalog.Watch(t.Context(), filepath.Join(t.TempDir(), "missing", "awards.yaml"), registry.New())
	require.Error(t, err)
}
