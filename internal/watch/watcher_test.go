package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchFileDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "openapi.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))

	w, err := WatchFile(path, 50*time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte{byte('b' + i)}, 0o644))
	}

	select {
	case err := <-w.Updates:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("no update received")
	}

	select {
	case <-w.Updates:
		t.Fatal("burst of writes reported more than once")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatchFileIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "openapi.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))

	w, err := WatchFile(path, 20*time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0o644))

	select {
	case <-w.Updates:
		t.Fatal("change to another file reported")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatchFileMissingDirectory(t *testing.T) {
	_, err := WatchFile(filepath.Join(t.TempDir(), "missing", "openapi.yaml"), 0)
	assert.Error(t, err)
}
