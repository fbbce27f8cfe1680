package git

import (
	"context"
	"fmt"
	"sort"

	"github.com/go-git/go-git/v5/plumbing/filemode"
)

// MemoryEntry is a tree entry of a MemoryGraph commit.
type MemoryEntry struct {
	Hash string
	Mode filemode.FileMode
}

// Blob returns a regular file entry with the given content id.
func Blob(hash string) MemoryEntry {
	return MemoryEntry{Hash: hash, Mode: filemode.Regular}
}

// Link returns a symlink entry.
func Link(hash string) MemoryEntry {
	return MemoryEntry{Hash: hash, Mode: filemode.Symlink}
}

// Gitlink returns a submodule entry pinned at commit.
func Gitlink(commit string) MemoryEntry {
	return MemoryEntry{Hash: commit, Mode: filemode.Submodule}
}

type memoryCommit struct {
	parents []string
	files   map[string]MemoryEntry
}

// MemoryGraph is an in-memory CommitGraph test double.
// Hidden commits behave as if they lay beyond a shallow boundary.
type MemoryGraph struct {
	RootDir   string
	Shallow   bool
	Refreshes int

	commits    map[string]*memoryCommit
	refs       map[string]string
	hidden     map[string]bool
	deltas     map[string][]RawDelta
	submodules []Submodule
	subGraphs  map[string]*MemoryGraph
}

// NewMemoryGraph creates an empty in-memory commit graph.
func NewMemoryGraph(root string) *MemoryGraph {
	return &MemoryGraph{
		RootDir:   root,
		commits:   make(map[string]*memoryCommit),
		refs:      make(map[string]string),
		hidden:    make(map[string]bool),
		deltas:    make(map[string][]RawDelta),
		subGraphs: make(map[string]*MemoryGraph),
	}
}

// AddCommit adds a commit with the given parents and tree entries.
func (g *MemoryGraph) AddCommit(id string, parents []string, files map[string]MemoryEntry) *MemoryGraph {
	g.commits[id] = &memoryCommit{parents: parents, files: files}
	return g
}

// SetRef points a ref name (e.g. "HEAD", "origin/main") at a commit.
func (g *MemoryGraph) SetRef(name, id string) *MemoryGraph {
	g.refs[name] = id
	return g
}

// SetDeltas overrides the computed diff between two commits.
func (g *MemoryGraph) SetDeltas(from, to string, deltas []RawDelta) *MemoryGraph {
	g.deltas[from+".."+to] = deltas
	return g
}

// AddSubmodule registers a submodule at path backed by sub.
func (g *MemoryGraph) AddSubmodule(path string, sub *MemoryGraph) *MemoryGraph {
	g.submodules = append(g.submodules, Submodule{Name: path, Path: path})
	if sub != nil {
		g.subGraphs[path] = sub
	}
	return g
}

// Hide makes commits unresolvable, as if outside the fetched history.
func (g *MemoryGraph) Hide(ids ...string) *MemoryGraph {
	for _, id := range ids {
		g.hidden[id] = true
	}
	return g
}

// Reveal makes hidden commits resolvable again, as a deepening fetch would.
func (g *MemoryGraph) Reveal(ids ...string) *MemoryGraph {
	for _, id := range ids {
		delete(g.hidden, id)
	}
	return g
}

// Root returns the configured root directory.
func (g *MemoryGraph) Root() string { return g.RootDir }

// Refresh counts refreshes.
func (g *MemoryGraph) Refresh() error {
	g.Refreshes++
	return nil
}

// ResolveRef resolves a ref name or a commit id.
func (g *MemoryGraph) ResolveRef(name string) (string, error) {
	if id, ok := g.refs[name]; ok {
		return g.FindCommit(id)
	}
	return g.FindCommit(name)
}

// FindCommit reports whether a visible commit with the id exists.
func (g *MemoryGraph) FindCommit(sha string) (string, error) {
	if _, ok := g.visible(sha); !ok {
		return "", fmt.Errorf("%q: %w", sha, ErrCommitNotFound)
	}
	return sha, nil
}

// Parent returns the n-th parent of a commit.
func (g *MemoryGraph) Parent(sha string, n int) (string, error) {
	c, ok := g.visible(sha)
	if !ok {
		return "", fmt.Errorf("%q: %w", sha, ErrCommitNotFound)
	}
	if n < 0 || n >= len(c.parents) {
		return "", fmt.Errorf("parent %d of %s: %w", n, sha, ErrParentNotFound)
	}
	p := c.parents[n]
	if _, ok := g.visible(p); !ok {
		return "", fmt.Errorf("parent %d of %s (%s): %w", n, sha, p, ErrCommitNotFound)
	}
	return p, nil
}

// MergeBase returns the first ancestor of b (breadth first) that is also an ancestor of a.
func (g *MemoryGraph) MergeBase(a, b string) (string, error) {
	if _, ok := g.visible(a); !ok {
		return "", fmt.Errorf("%q: %w", a, ErrCommitNotFound)
	}
	if _, ok := g.visible(b); !ok {
		return "", fmt.Errorf("%q: %w", b, ErrCommitNotFound)
	}

	ancestors := make(map[string]bool)
	for _, id := range g.walk(a) {
		ancestors[id] = true
	}
	for _, id := range g.walk(b) {
		if ancestors[id] {
			return id, nil
		}
	}
	return "", fmt.Errorf("merge base of %s and %s: %w", a, b, ErrNoMergeBase)
}

// DiffTrees returns the override set with SetDeltas, or a path-sorted diff of the two trees.
func (g *MemoryGraph) DiffTrees(_ context.Context, from, to string, opts DiffTreeOptions) ([]RawDelta, error) {
	fc, ok := g.visible(from)
	if !ok {
		return nil, fmt.Errorf("%q: %w", from, ErrCommitNotFound)
	}
	tc, ok := g.visible(to)
	if !ok {
		return nil, fmt.Errorf("%q: %w", to, ErrCommitNotFound)
	}

	deltas, ok := g.deltas[from+".."+to]
	if !ok {
		deltas = diffMemoryTrees(fc.files, tc.files)
	}

	result := make([]RawDelta, 0, len(deltas))
	for _, d := range deltas {
		if opts.IgnoreSubmodules && d.touchesSubmodule() {
			continue
		}
		result = append(result, d)
	}
	return result, nil
}

// GitlinkAt returns the commit a submodule path is pinned to.
func (g *MemoryGraph) GitlinkAt(sha, path string) (string, error) {
	c, ok := g.visible(sha)
	if !ok {
		return "", fmt.Errorf("%q: %w", sha, ErrCommitNotFound)
	}
	e, ok := c.files[path]
	if !ok || e.Mode != filemode.Submodule {
		return "", fmt.Errorf("%s in %s: %w", path, sha, ErrEntryNotFound)
	}
	return e.Hash, nil
}

// Submodules lists registered submodules.
func (g *MemoryGraph) Submodules() ([]Submodule, error) {
	return g.submodules, nil
}

// OpenSubmodule returns the graph registered for path.
func (g *MemoryGraph) OpenSubmodule(path string) (CommitGraph, error) {
	sub, ok := g.subGraphs[path]
	if !ok {
		return nil, fmt.Errorf("submodule %s is not initialized", path)
	}
	return sub, nil
}

// IsShallow returns the Shallow field.
func (g *MemoryGraph) IsShallow() (bool, error) {
	return g.Shallow, nil
}

func (g *MemoryGraph) visible(id string) (*memoryCommit, bool) {
	c, ok := g.commits[id]
	if !ok || g.hidden[id] {
		return nil, false
	}
	return c, true
}

// walk lists id and its visible ancestors in breadth-first order.
func (g *MemoryGraph) walk(id string) []string {
	var order []string
	seen := map[string]bool{id: true}
	queue := []string{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		c, ok := g.visible(cur)
		if !ok {
			continue
		}
		order = append(order, cur)
		for _, p := range c.parents {
			if !seen[p] {
				seen[p] = true
				queue = append(queue, p)
			}
		}
	}
	return order
}

func diffMemoryTrees(from, to map[string]MemoryEntry) []RawDelta {
	paths := make([]string, 0, len(from)+len(to))
	for p := range from {
		paths = append(paths, p)
	}
	for p := range to {
		if _, ok := from[p]; !ok {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)

	var deltas []RawDelta
	for _, p := range paths {
		f, inFrom := from[p]
		t, inTo := to[p]
		switch {
		case !inFrom:
			deltas = append(deltas, RawDelta{Status: DeltaAdded, Path: p, NewMode: t.Mode})
		case !inTo:
			deltas = append(deltas, RawDelta{Status: DeltaDeleted, Path: p, OldMode: f.Mode})
		case modeClass(f.Mode) != modeClass(t.Mode):
			deltas = append(deltas, RawDelta{Status: DeltaTypeChanged, Path: p, OldMode: f.Mode, NewMode: t.Mode})
		case f != t:
			deltas = append(deltas, RawDelta{Status: DeltaModified, Path: p, OldMode: f.Mode, NewMode: t.Mode})
		}
	}
	return deltas
}
