package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	t.Run("Overwrites Without Leftovers", func(t *testing.T) {
		dir := t.TempDir()
		filename := filepath.Join(dir, "snapshot.json")

		require.NoError(t, os.WriteFile(filename, []byte("old"), 0o644))
		require.NoError(t, writeFileAtomic(filename, []byte("new"), 0o644))

		got, err := os.ReadFile(filename)
		require.NoError(t, err)
		assert.Equal(t, "new", string(got))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1, "temp file must be renamed away")
	})

	t.Run("Fails if Directory Missing", func(t *testing.T) {
		filename := filepath.Join(t.TempDir(), "missing", "snapshot.json")
		assert.Error(t, writeFileAtomic(filename, []byte("x"), 0o644))
	})
}
