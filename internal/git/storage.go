package git

import (
	"errors"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/cache"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

// HybridDecoder asks Primary first and falls back to Secondary only when the
// object is missing from Primary. Corrupt objects are never retried.
type HybridDecoder struct {
	Primary   ParentDecoder
	Secondary ParentDecoder
}

// NewHybridDecoder chains primary and secondary. secondary may be nil.
func NewHybridDecoder(primary, secondary ParentDecoder) *HybridDecoder {
	return &HybridDecoder{
		Primary:   primary,
		Secondary: secondary,
	}
}

// Parents implements ParentDecoder.
func (d *HybridDecoder) Parents(h plumbing.Hash) ([]plumbing.Hash, error) {
	parents, err := d.Primary.Parents(h)
	if err == nil {
		return parents, nil
	}
	if !errors.Is(err, ErrObjectNotFound) || d.Secondary == nil {
		return nil, err
	}
	return d.Secondary.Parents(h)
}

// NewRepositoryDecoder reads loose objects directly and falls back to
// go-git's filesystem storage for anything that has been packed.
func NewRepositoryDecoder(fs billy.Filesystem) *HybridDecoder {
	st := filesystem.NewStorage(fs, cache.NewObjectLRUDefault())
	return NewHybridDecoder(NewLooseDecoder(fs), NewStorerDecoder(st))
}
