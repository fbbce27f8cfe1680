package git

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// DiffBackend selects how tree diffs are computed.
type DiffBackend string

const (
	// DiffBackendGoGit diffs trees in-process with go-git (renames detected, copies not).
	DiffBackendGoGit DiffBackend = "go-git"
	// DiffBackendCLI shells out to `git diff --raw`, which also reports copies.
	DiffBackendCLI DiffBackend = "git"
)

// ParseDiffBackend parses a diff backend name.
func ParseDiffBackend(s string) (DiffBackend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "go-git", "gogit":
		return DiffBackendGoGit, nil
	case "git", "cli":
		return DiffBackendCLI, nil
	default:
		return "", fmt.Errorf("invalid diff engine %q (expected go-git or git)", s)
	}
}

// OpenOptions configures how a repository is opened.
type OpenOptions struct {
	Backend DiffBackend
}

// Repository is a CommitGraph backed by go-git.
type Repository struct {
	root   string
	opts   OpenOptions
	detect bool
	repo   *gogit.Repository
}

// Open opens the repository containing path.
func Open(path string, opts OpenOptions) (*Repository, error) {
	return open(path, opts, true)
}

func open(path string, opts OpenOptions, detect bool) (*Repository, error) {
	if opts.Backend == "" {
		opts.Backend = DiffBackendGoGit
	}
	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{
		DetectDotGit:          detect,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open repository %s: %w", path, err)
	}

	root := path
	if wt, err := repo.Worktree(); err == nil {
		root = wt.Filesystem.Root()
	}
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}

	return &Repository{root: root, opts: opts, detect: detect, repo: repo}, nil
}

// Root returns the worktree directory.
func (r *Repository) Root() string {
	return r.root
}

// Refresh re-opens the repository. go-git caches pack indexes and objects,
// so packs written by an external `git fetch` are not visible until then.
func (r *Repository) Refresh() error {
	repo, err := gogit.PlainOpenWithOptions(r.root, &gogit.PlainOpenOptions{
		DetectDotGit:          r.detect,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return fmt.Errorf("reopen repository %s: %w", r.root, err)
	}
	r.repo = repo
	return nil
}

// ResolveRef resolves a ref name, revision expression or SHA to a commit id.
func (r *Repository) ResolveRef(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("resolve empty revision: %w", ErrCommitNotFound)
	}
	h, err := r.repo.ResolveRevision(plumbing.Revision(name))
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w (%v)", name, ErrCommitNotFound, err)
	}
	return h.String(), nil
}

// FindCommit verifies that sha names a commit present in the local object store.
func (r *Repository) FindCommit(sha string) (string, error) {
	c, err := r.commit(sha)
	if err != nil {
		return "", err
	}
	return c.Hash.String(), nil
}

// Parent returns the n-th parent of a commit.
func (r *Repository) Parent(sha string, n int) (string, error) {
	c, err := r.commit(sha)
	if err != nil {
		return "", err
	}
	if n < 0 || n >= c.NumParents() {
		return "", fmt.Errorf("parent %d of %s: %w", n, sha, ErrParentNotFound)
	}
	p, err := c.Parent(n)
	if err != nil {
		return "", fmt.Errorf("parent %d of %s: %w (%v)", n, sha, ErrCommitNotFound, err)
	}
	return p.Hash.String(), nil
}

// MergeBase returns the best common ancestor of a and b.
// Walking into a shallow boundary surfaces as ErrNoMergeBase.
func (r *Repository) MergeBase(a, b string) (string, error) {
	ca, err := r.commit(a)
	if err != nil {
		return "", err
	}
	cb, err := r.commit(b)
	if err != nil {
		return "", err
	}
	bases, err := ca.MergeBase(cb)
	if err != nil {
		return "", fmt.Errorf("merge base of %s and %s: %w (%v)", a, b, ErrNoMergeBase, err)
	}
	if len(bases) == 0 {
		return "", fmt.Errorf("merge base of %s and %s: %w", a, b, ErrNoMergeBase)
	}
	return bases[0].Hash.String(), nil
}

// DiffTrees diffs the trees of two commits using the configured backend.
func (r *Repository) DiffTrees(ctx context.Context, from, to string, opts DiffTreeOptions) ([]RawDelta, error) {
	if r.opts.Backend == DiffBackendCLI {
		return diffTreesGitCLI(ctx, r.root, from, to, opts)
	}

	fromTree, err := r.tree(from)
	if err != nil {
		return nil, err
	}
	toTree, err := r.tree(to)
	if err != nil {
		return nil, err
	}

	changes, err := object.DiffTreeWithOptions(ctx, fromTree, toTree, object.DefaultDiffTreeOptions)
	if err != nil {
		return nil, fmt.Errorf("diff %s..%s: %w", from, to, err)
	}
	return deltasFromChanges(changes, opts)
}

// GitlinkAt returns the commit id recorded for a submodule path in a commit's tree.
func (r *Repository) GitlinkAt(sha, path string) (string, error) {
	tree, err := r.tree(sha)
	if err != nil {
		return "", err
	}
	entry, err := tree.FindEntry(path)
	if err != nil {
		return "", fmt.Errorf("%s in %s: %w", path, sha, ErrEntryNotFound)
	}
	if entry.Mode != filemode.Submodule {
		return "", fmt.Errorf("%s in %s is not a gitlink (mode %s)", path, sha, entry.Mode)
	}
	return entry.Hash.String(), nil
}

// Submodules lists the submodules declared in the worktree's .gitmodules.
func (r *Repository) Submodules() ([]Submodule, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		if errors.Is(err, gogit.ErrIsBareRepository) {
			return nil, nil
		}
		return nil, fmt.Errorf("worktree: %w", err)
	}
	subs, err := wt.Submodules()
	if err != nil {
		return nil, fmt.Errorf("list submodules: %w", err)
	}

	result := make([]Submodule, 0, len(subs))
	for _, s := range subs {
		cfg := s.Config()
		result = append(result, Submodule{Name: cfg.Name, Path: filepath.ToSlash(cfg.Path)})
	}
	return result, nil
}

// OpenSubmodule opens the repository checked out at path relative to the worktree.
func (r *Repository) OpenSubmodule(path string) (CommitGraph, error) {
	sub, err := open(filepath.Join(r.root, filepath.FromSlash(path)), r.opts, false)
	if err != nil {
		return nil, fmt.Errorf("submodule %s: %w", path, err)
	}
	return sub, nil
}

// IsShallow reports whether the repository has a shallow file.
func (r *Repository) IsShallow() (bool, error) {
	hashes, err := r.repo.Storer.Shallow()
	if err != nil {
		return false, fmt.Errorf("read shallow file: %w", err)
	}
	return len(hashes) > 0, nil
}

func (r *Repository) commit(sha string) (*object.Commit, error) {
	sha = strings.TrimSpace(sha)
	if sha == "" {
		return nil, fmt.Errorf("empty sha: %w", ErrCommitNotFound)
	}

	hash := plumbing.NewHash(sha)
	if !isFullSHA(sha) {
		h, err := r.repo.ResolveRevision(plumbing.Revision(sha))
		if err != nil {
			return nil, fmt.Errorf("%s: %w (%v)", sha, ErrCommitNotFound, err)
		}
		hash = *h
	}

	c, err := r.repo.CommitObject(hash)
	if err != nil {
		return nil, fmt.Errorf("%s: %w (%v)", sha, ErrCommitNotFound, err)
	}
	return c, nil
}

func (r *Repository) tree(sha string) (*object.Tree, error) {
	c, err := r.commit(sha)
	if err != nil {
		return nil, err
	}
	t, err := c.Tree()
	if err != nil {
		return nil, fmt.Errorf("tree of %s: %w", sha, err)
	}
	return t, nil
}

func isFullSHA(s string) bool {
	if len(s) != 40 {
		return false
	}
	for _, ch := range s {
		switch {
		case ch >= '0' && ch <= '9', ch >= 'a' && ch <= 'f', ch >= 'A' && ch <= 'F':
		default:
			return false
		}
	}
	return true
}
