package git

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocate_WalksUp(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, ".git"), 0o755))
	deep := filepath.Join(tmpDir, "a", "b", "c")
	require.NoError(t, os.MkdirAll(deep, 0o755))

	gitDir, err := Locate(osfs.New("/"), deep, ".git")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, ".git"), gitDir)
}

func TestLocate_StartAtRoot(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, fs.MkdirAll("/work/.git", 0o755))

	gitDir, err := Locate(fs, "/work", ".git")
	require.NoError(t, err)
	assert.Equal(t, "/work/.git", gitDir)
}

func TestLocate_IgnoresGitFile(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, fs.MkdirAll("/outer/.git", 0o755))
	require.NoError(t, fs.MkdirAll("/outer/inner", 0o755))
	// A .git file (worktree pointer) is not a repository directory.
	require.NoError(t, util.WriteFile(fs, "/outer/inner/.git", []byte("gitdir: elsewhere\n"), 0o644))

	gitDir, err := Locate(fs, "/outer/inner", ".git")
	require.NoError(t, err)
	assert.Equal(t, "/outer/.git", gitDir)
}

func TestLocate_NotARepository(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, fs.MkdirAll("/nowhere/deep", 0o755))

	_, err := Locate(fs, "/nowhere/deep", ".git")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotARepository)
	assert.Contains(t, err.Error(), "/nowhere/deep")
}
