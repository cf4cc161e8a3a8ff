// Package gittest builds small on-disk repositories for tests: loose commit
// objects and branch refs written into a billy filesystem rooted at the git
// directory.
package gittest

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/format/objfile"
	"github.com/stretchr/testify/require"
)

const signature = "Test <test@test.com> 1700000000 +0000"

// Hash returns a readable fake hash, e.g. Hash(3) is 000...003.
func Hash(n int) plumbing.Hash {
	return plumbing.NewHash(fmt.Sprintf("%040x", n))
}

// CommitBody renders a commit payload declaring the given parents.
func CommitBody(message string, parents ...plumbing.Hash) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "tree %s\n", plumbing.ZeroHash)
	for _, p := range parents {
		fmt.Fprintf(&sb, "parent %s\n", p)
	}
	fmt.Fprintf(&sb, "author %s\ncommitter %s\n\n%s\n", signature, signature, message)
	return []byte(sb.String())
}

// WriteObject stores content as a loose object of type t under the path
// derived from h. The hash is not checked against the content.
func WriteObject(t testing.TB, fs billy.Filesystem, h plumbing.Hash, typ plumbing.ObjectType, content []byte) {
	t.Helper()

	var buf bytes.Buffer
	w := objfile.NewWriter(&buf)
	require.NoError(t, w.WriteHeader(typ, int64(len(content))))
	_, err := w.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	WriteRaw(t, fs, h, buf.Bytes())
}

// WriteRaw stores data verbatim at the loose object path of h.
func WriteRaw(t testing.TB, fs billy.Filesystem, h plumbing.Hash, data []byte) {
	t.Helper()

	hex := h.String()
	dir := filepath.Join("objects", hex[:2])
	require.NoError(t, fs.MkdirAll(dir, 0o755))
	require.NoError(t, util.WriteFile(fs, filepath.Join(dir, hex[2:]), data, 0o444))
}

// WriteCommit stores a loose commit h with the given parents.
func WriteCommit(t testing.TB, fs billy.Filesystem, h plumbing.Hash, parents ...plumbing.Hash) {
	t.Helper()
	WriteObject(t, fs, h, plumbing.CommitObject, CommitBody("commit "+h.String()[:7], parents...))
}

// WriteRef writes raw ref file content to refs/heads/<name>.
func WriteRef(t testing.TB, fs billy.Filesystem, name, content string) {
	t.Helper()

	path := filepath.Join("refs", "heads", filepath.FromSlash(name))
	require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, util.WriteFile(fs, path, []byte(content), 0o644))
}

// WriteBranch points branch name at h the way git does, with a trailing newline.
func WriteBranch(t testing.TB, fs billy.Filesystem, name string, h plumbing.Hash) {
	t.Helper()
	WriteRef(t, fs, name, h.String()+"\n")
}

// InitHeads creates an empty refs/heads directory.
func InitHeads(t testing.TB, fs billy.Filesystem) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(filepath.Join("refs", "heads"), 0o755))
}
