package fs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalker_StopsEarly(t *testing.T) {
	tmpDir := t.TempDir()
	for _, f := range []string{"a.yaml", "b.yaml", "c.yaml"} {
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, f), nil, 0o600))
	}

	var seen []string
	for path, err := range NewWalker().WalkMaterials(tmpDir, nil) {
		require.NoError(t, err)
		seen = append(seen, filepath.Base(path))
		if len(seen) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"a.yaml", "b.yaml"}, seen)
}

func TestWalker_MissingRoot(t *testing.T) {
	var walkErr error
	for _, err := range NewWalker().WalkMaterials(filepath.Join(t.TempDir(), "missing"), nil) {
		walkErr = err
	}
	require.Error(t, walkErr)
	assert.True(t, errors.Is(walkErr, os.ErrNotExist))
}

func TestWalker_SkipDir(t *testing.T) {
	w := NewWalker()
	assert.True(t, w.skipDir(".git", nil))
	assert.True(t, w.skipDir("build", []string{"bu*"}))
	assert.False(t, w.skipDir("materials", []string{"bu*"}))
}
