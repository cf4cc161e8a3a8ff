// Package topo wires the pipeline together: locate the repository, collect
// branches, build the commit graph, sort it and print it.
package topo

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/kurobon/gittopo/internal/config"
	"github.com/kurobon/gittopo/internal/git"
	"github.com/kurobon/gittopo/internal/graph"
	"github.com/kurobon/gittopo/internal/render"
)

// Run prints the history of the repository enclosing cfg.StartDir to w.
func Run(ctx context.Context, cfg *config.Config, w io.Writer) error {
	return RunFS(ctx, osfs.New("/"), cfg, w)
}

// RunFS is Run over an explicit filesystem rooted at "/". Nothing is written
// to w unless every stage before formatting succeeds.
func RunFS(ctx context.Context, fs billy.Filesystem, cfg *config.Config, w io.Writer) error {
	start, err := cfg.ResolveStartDir()
	if err != nil {
		return fmt.Errorf("resolve start directory: %w", err)
	}
	if !filepath.IsAbs(start) {
		if start, err = filepath.Abs(start); err != nil {
			return fmt.Errorf("resolve start directory: %w", err)
		}
	}

	gitDirName := cfg.GitDirName
	if gitDirName == "" {
		gitDirName = config.DefaultGitDirName
	}
	gitDir, err := git.Locate(fs, start, gitDirName)
	if err != nil {
		return err
	}
	gitFS, err := fs.Chroot(gitDir)
	if err != nil {
		return fmt.Errorf("open %s: %w", gitDir, err)
	}
	debugf(cfg, "Run: repository at %s", gitDir)

	branches, err := git.CollectBranches(gitFS)
	if err != nil {
		return err
	}
	debugf(cfg, "Run: %d branch tips", len(branches.Tips))
	if err := ctx.Err(); err != nil {
		return err
	}

	g, err := graph.Build(branches.Tips, git.NewRepositoryDecoder(gitFS))
	if err != nil {
		return err
	}
	debugf(cfg, "Run: %d reachable commits", g.Len())
	if err := ctx.Err(); err != nil {
		return err
	}

	order, err := graph.Sort(g)
	if err != nil {
		return err
	}
	return render.History(w, g, order, branches.Map)
}

func debugf(cfg *config.Config, format string, args ...any) {
	if cfg.Debug {
		log.Printf(format, args...)
	}
}
