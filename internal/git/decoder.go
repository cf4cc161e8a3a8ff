package git

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/format/objfile"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// ParentDecoder returns the parents a commit declares.
type ParentDecoder interface {
	Parents(h plumbing.Hash) ([]plumbing.Hash, error)
}

const (
	objectsDir  = "objects"
	parentToken = "parent"
)

// LooseDecoder reads zlib compressed loose objects from objects/<xx>/<rest>
// in a filesystem rooted at the git directory.
type LooseDecoder struct {
	fs billy.Filesystem
}

// NewLooseDecoder returns a decoder over fs, which must be rooted at the git
// directory.
func NewLooseDecoder(fs billy.Filesystem) *LooseDecoder {
	return &LooseDecoder{fs: fs}
}

// Parents returns the parents declared in the header of commit h.
func (d *LooseDecoder) Parents(h plumbing.Hash) ([]plumbing.Hash, error) {
	hex := h.String()
	path := d.fs.Join(objectsDir, hex[:2], hex[2:])

	f, err := d.fs.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, objectError(ErrObjectNotFound, hex, nil)
		}
		return nil, objectError(ErrCorruptObject, hex, err)
	}
	defer f.Close()

	r, err := objfile.NewReader(f)
	if err != nil {
		return nil, objectError(ErrCorruptObject, hex, err)
	}
	defer r.Close()

	t, _, err := r.Header()
	if err != nil {
		return nil, objectError(ErrCorruptObject, hex, err)
	}
	if t != plumbing.CommitObject {
		return nil, objectError(ErrCorruptObject, hex, fmt.Errorf("%s object where a commit was expected", t))
	}

	parents, err := scanParents(r)
	if err != nil {
		return nil, objectError(ErrCorruptObject, hex, err)
	}
	return parents, nil
}

// scanParents reads commit header lines up to the blank line separating
// them from the message. Message lines are never interpreted.
func scanParents(r io.Reader) ([]plumbing.Hash, error) {
	var parents []plumbing.Hash

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			break
		}
		// Continuation lines of multi-line headers (gpgsig, mergetag)
		// start with a space and never match.
		rest, ok := strings.CutPrefix(line, parentToken+" ")
		if !ok {
			continue
		}
		if !plumbing.IsHash(rest) {
			return nil, fmt.Errorf("bad parent line %q", line)
		}
		parents = append(parents, plumbing.NewHash(rest))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return parents, nil
}

// StorerDecoder reads commits through a go-git object storer, which also
// covers objects stored in packfiles.
type StorerDecoder struct {
	s storer.EncodedObjectStorer
}

// NewStorerDecoder returns a decoder reading through s.
func NewStorerDecoder(s storer.EncodedObjectStorer) *StorerDecoder {
	return &StorerDecoder{s: s}
}

// Parents decodes commit h and returns its parent hashes.
func (d *StorerDecoder) Parents(h plumbing.Hash) ([]plumbing.Hash, error) {
	obj, err := d.s.EncodedObject(plumbing.CommitObject, h)
	if err != nil {
		if errors.Is(err, plumbing.ErrObjectNotFound) {
			return nil, objectError(ErrObjectNotFound, h.String(), nil)
		}
		return nil, objectError(ErrCorruptObject, h.String(), err)
	}

	c, err := object.DecodeCommit(d.s, obj)
	if err != nil {
		return nil, objectError(ErrCorruptObject, h.String(), err)
	}
	return c.ParentHashes, nil
}

// MapDecoder serves parents from memory.
type MapDecoder map[plumbing.Hash][]plumbing.Hash

// Parents returns m[h], or ErrObjectNotFound when h is absent.
func (m MapDecoder) Parents(h plumbing.Hash) ([]plumbing.Hash, error) {
	parents, ok := m[h]
	if !ok {
		return nil, objectError(ErrObjectNotFound, h.String(), nil)
	}
	return parents, nil
}
