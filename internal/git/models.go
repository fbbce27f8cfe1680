package git

import (
	"errors"

	"github.com/go-git/go-git/v5/plumbing/filemode"
)

// ZeroSHA is the all-zero object id reported by CI providers for a missing "before" commit.
const ZeroSHA = "0000000000000000000000000000000000000000"

var (
	// ErrCommitNotFound is returned when a ref or SHA does not resolve to a local commit.
	ErrCommitNotFound = errors.New("commit not found")
	// ErrNoMergeBase is returned when two commits have no locally reachable common ancestor.
	ErrNoMergeBase = errors.New("merge base not found")
	// ErrEntryNotFound is returned when a path is not present in a commit tree.
	ErrEntryNotFound = errors.New("tree entry not found")
	// ErrParentNotFound is returned when a commit has no parent at the requested index.
	// A parent that lies outside the fetched history is reported as ErrCommitNotFound.
	ErrParentNotFound = errors.New("parent commit not found")
)

// DeltaStatus is the raw status a tree diff reports for one path.
type DeltaStatus int

const (
	DeltaUnmodified DeltaStatus = iota
	DeltaAdded
	DeltaDeleted
	DeltaModified
	DeltaRenamed
	DeltaCopied
	DeltaIgnored
	DeltaUntracked
	DeltaTypeChanged
	DeltaUnreadable
	DeltaConflicted
)

// String returns a string representation of the delta status.
func (s DeltaStatus) String() string {
	switch s {
	case DeltaUnmodified:
		return "unmodified"
	case DeltaAdded:
		return "added"
	case DeltaDeleted:
		return "deleted"
	case DeltaModified:
		return "modified"
	case DeltaRenamed:
		return "renamed"
	case DeltaCopied:
		return "copied"
	case DeltaIgnored:
		return "ignored"
	case DeltaUntracked:
		return "untracked"
	case DeltaTypeChanged:
		return "typechange"
	case DeltaUnreadable:
		return "unreadable"
	case DeltaConflicted:
		return "conflicted"
	default:
		return "invalid"
	}
}

// RawDelta is a single file-level change between two trees.
type RawDelta struct {
	Status  DeltaStatus
	Path    string // new-side path; for deletions the removed path
	OldPath string // old-side path, set for renames and copies
	OldMode filemode.FileMode
	NewMode filemode.FileMode
}

// DiffTreeOptions configures a tree-to-tree diff.
type DiffTreeOptions struct {
	// IgnoreSubmodules drops gitlink entries from the result.
	IgnoreSubmodules bool
}

// Submodule describes a submodule registered in the worktree.
type Submodule struct {
	Name string
	Path string
}

// FetchRequest describes a single `git fetch` invocation.
type FetchRequest struct {
	Dir       string   // working directory of the fetch
	Remote    string   // e.g. "origin"; empty fetches the default remote
	Refspecs  []string // refspecs appended after the remote
	Depth     int      // --deepen value; 0 omits the flag
	ExtraArgs []string // e.g. --no-tags --prune
}
