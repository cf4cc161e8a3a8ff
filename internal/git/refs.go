package git

import (
	"os"
	"sort"
	"strings"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage/filesystem/dotgit"
)

const (
	headsDir      = "refs/heads"
	packedRefs    = "packed-refs"
	symrefPrefix  = "ref: "
	branchRefRoot = "refs/heads/"
)

// MaxRefDepth bounds directory nesting below refs/heads.
const MaxRefDepth = 64

// BranchMap maps a commit hash to the sorted set of branch names pointing at it.
type BranchMap map[plumbing.Hash]*treeset.Set

// Add records that branch name points at h.
func (m BranchMap) Add(h plumbing.Hash, name string) {
	set, ok := m[h]
	if !ok {
		set = treeset.NewWithStringComparator()
		m[h] = set
	}
	set.Add(name)
}

// Names returns the branch names pointing at h in lexicographic order.
func (m BranchMap) Names(h plumbing.Hash) []string {
	set, ok := m[h]
	if !ok {
		return nil
	}
	names := make([]string, 0, set.Size())
	for _, v := range set.Values() {
		names = append(names, v.(string))
	}
	return names
}

// Branches is the result of collecting refs/heads.
type Branches struct {
	Map BranchMap
	// Tips holds every distinct branch tip, sorted by hex.
	Tips []plumbing.Hash
}

type refDir struct {
	path   string
	prefix string
	depth  int
}

// CollectBranches enumerates the local branches of the repository whose git
// directory is the root of fs. Nested directories under refs/heads become
// slash separated branch names. Branches only present in packed-refs are
// included unless a loose ref of the same name exists.
func CollectBranches(fs billy.Filesystem) (*Branches, error) {
	if fi, err := fs.Stat(headsDir); err != nil || !fi.IsDir() {
		return nil, &Error{Kind: ErrNotARepository, Subject: fs.Join(fs.Root(), headsDir), Err: err}
	}

	resolved := make(map[string]plumbing.Hash)
	symbolic := make(map[string]string)

	stack := arraystack.New()
	stack.Push(refDir{path: headsDir})
	for !stack.Empty() {
		v, _ := stack.Pop()
		dir := v.(refDir)

		entries, err := fs.ReadDir(dir.path)
		if err != nil {
			return nil, refError(dir.path, "read directory: %w", err)
		}
		for _, entry := range entries {
			name := entry.Name()
			if dir.prefix != "" {
				name = dir.prefix + "/" + name
			}
			path := fs.Join(dir.path, entry.Name())

			if entry.IsDir() {
				if dir.depth+1 > MaxRefDepth {
					return nil, refError(path, "nested deeper than %d directories", MaxRefDepth)
				}
				stack.Push(refDir{path: path, prefix: name, depth: dir.depth + 1})
				continue
			}
			if !entry.Mode().IsRegular() {
				continue
			}

			target, h, err := readRef(fs, path)
			if err != nil {
				return nil, err
			}
			if target != "" {
				symbolic[name] = target
				continue
			}
			resolved[name] = h
		}
	}

	if err := addPackedBranches(fs, resolved, symbolic); err != nil {
		return nil, err
	}

	if err := resolveSymbolic(fs, resolved, symbolic); err != nil {
		return nil, err
	}

	b := &Branches{Map: make(BranchMap)}
	for name, h := range resolved {
		if _, seen := b.Map[h]; !seen {
			b.Tips = append(b.Tips, h)
		}
		b.Map.Add(h, name)
	}
	sort.Slice(b.Tips, func(i, j int) bool {
		return b.Tips[i].String() < b.Tips[j].String()
	})
	return b, nil
}

// resolveSymbolic follows each symbolic ref through other symbolic refs until
// it reaches a hash ref. Targets are looked up only among hash refs and the
// symbolic set, never among refs resolved in this pass, so the outcome does
// not depend on iteration order.
func resolveSymbolic(fs billy.Filesystem, resolved map[string]plumbing.Hash, symbolic map[string]string) error {
	names := make([]string, 0, len(symbolic))
	for name := range symbolic {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(map[string]plumbing.Hash, len(names))
	for _, name := range names {
		path := fs.Join(headsDir, name)
		target := symbolic[name]
		seen := map[string]struct{}{name: {}}
		for {
			if h, ok := resolved[target]; ok {
				out[name] = h
				break
			}
			next, ok := symbolic[target]
			if !ok {
				return refError(path, "symbolic ref to unknown branch %q", target)
			}
			if _, loop := seen[target]; loop {
				return refError(path, "symbolic ref loop through %q", target)
			}
			if len(seen) > MaxRefDepth {
				return refError(path, "symbolic ref chain longer than %d", MaxRefDepth)
			}
			seen[target] = struct{}{}
			target = next
		}
	}
	for name, h := range out {
		resolved[name] = h
	}
	return nil
}

// readRef returns either the branch a symbolic ref points to or the hash
// stored in the ref file.
func readRef(fs billy.Filesystem, path string) (string, plumbing.Hash, error) {
	data, err := util.ReadFile(fs, path)
	if err != nil {
		return "", plumbing.ZeroHash, refError(path, "read: %w", err)
	}
	content := strings.TrimSpace(string(data))
	if content == "" {
		return "", plumbing.ZeroHash, refError(path, "empty reference file")
	}

	if strings.HasPrefix(content, symrefPrefix) {
		target := plumbing.ReferenceName(strings.TrimSpace(strings.TrimPrefix(content, symrefPrefix)))
		if !target.IsBranch() {
			return "", plumbing.ZeroHash, refError(path, "symbolic ref outside refs/heads: %q", target)
		}
		return strings.TrimPrefix(target.String(), branchRefRoot), plumbing.ZeroHash, nil
	}

	if !plumbing.IsHash(content) {
		return "", plumbing.ZeroHash, refError(path, "not a commit hash: %q", content)
	}
	return "", plumbing.NewHash(content), nil
}

func addPackedBranches(fs billy.Filesystem, resolved map[string]plumbing.Hash, symbolic map[string]string) error {
	if _, err := fs.Stat(packedRefs); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return refError(packedRefs, "stat: %w", err)
	}

	refs, err := dotgit.New(fs).Refs()
	if err != nil {
		return refError(packedRefs, "%w", err)
	}
	for _, ref := range refs {
		if !ref.Name().IsBranch() || ref.Type() != plumbing.HashReference {
			continue
		}
		name := strings.TrimPrefix(ref.Name().String(), branchRefRoot)
		if _, ok := resolved[name]; ok {
			continue
		}
		if _, ok := symbolic[name]; ok {
			continue
		}
		resolved[name] = ref.Hash()
	}
	return nil
}
