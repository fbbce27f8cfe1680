package git

import "context"

// CommitGraph defines read access to a repository's commit graph.
// Commits are addressed by their hex object id; implementations own the
// underlying objects and never expose them.
type CommitGraph interface {
	// Root returns the worktree directory of the repository.
	Root() string
	// ResolveRef resolves a ref name, revision or SHA to a commit id.
	ResolveRef(name string) (string, error)
	// FindCommit verifies that sha names a local commit and returns its full id.
	FindCommit(sha string) (string, error)
	// Parent returns the n-th parent of a commit.
	Parent(sha string, n int) (string, error)
	// MergeBase returns the best common ancestor of a and b.
	MergeBase(a, b string) (string, error)
	// DiffTrees diffs the trees of two commits.
	DiffTrees(ctx context.Context, from, to string, opts DiffTreeOptions) ([]RawDelta, error)
	// GitlinkAt returns the commit id a submodule path is pinned to in a commit's tree.
	GitlinkAt(sha, path string) (string, error)
	// Submodules lists the submodules registered in the worktree.
	Submodules() ([]Submodule, error)
	// OpenSubmodule opens the repository checked out at a submodule path.
	OpenSubmodule(path string) (CommitGraph, error)
	// IsShallow reports whether the local history is truncated.
	IsShallow() (bool, error)
	// Refresh drops cached state so objects fetched by other processes become visible.
	Refresh() error
}

// Fetcher retrieves history from a remote.
type Fetcher interface {
	Fetch(ctx context.Context, req FetchRequest) error
	// TrackBranch creates a local branch tracking upstream.
	TrackBranch(ctx context.Context, dir, branch, upstream string) error
}

// HistoryQuery answers time and tag based history questions.
type HistoryQuery interface {
	// CommitAtOrBefore returns the newest commit at or before the given time expression.
	CommitAtOrBefore(ctx context.Context, until string) (string, error)
	// CommitsSince returns commits newer than the time expression, newest first.
	CommitsSince(ctx context.Context, since string) ([]string, error)
	// TagsByVersionDesc lists tags sorted by descending version.
	TagsByVersionDesc(ctx context.Context) ([]string, error)
	// TagCommit peels a tag name to the commit it points at.
	TagCommit(ctx context.Context, tag string) (string, error)
	// DescribeTags returns `git describe --tags` for a commit.
	DescribeTags(ctx context.Context, sha string) (string, error)
}

// Compile-time interface conformance checks.
var (
	_ CommitGraph  = (*Repository)(nil)
	_ CommitGraph  = (*MemoryGraph)(nil)
	_ Fetcher      = (*CLIFetcher)(nil)
	_ HistoryQuery = (*CLIHistory)(nil)
)
