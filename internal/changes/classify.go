package changes

import "github.com/masmgr/changed-files-go/internal/git"

// classifyForDetection maps a raw status when no classification context exists.
// Untracked, ignored and unreadable entries count as added.
func classifyForDetection(s git.DeltaStatus) ChangeKind {
	switch s {
	case git.DeltaUntracked, git.DeltaIgnored, git.DeltaUnreadable:
		return Added
	case git.DeltaUnmodified:
		return Unknown
	default:
		return classifyCommon(s)
	}
}

// classifyForFilter maps a raw status for result set filtering.
// Untracked, ignored and unreadable entries are unknown.
func classifyForFilter(s git.DeltaStatus) ChangeKind {
	switch s {
	case git.DeltaUntracked, git.DeltaIgnored, git.DeltaUnreadable, git.DeltaUnmodified:
		return Unknown
	default:
		return classifyCommon(s)
	}
}

func classifyCommon(s git.DeltaStatus) ChangeKind {
	switch s {
	case git.DeltaAdded:
		return Added
	case git.DeltaCopied:
		return Copied
	case git.DeltaDeleted:
		return Deleted
	case git.DeltaModified:
		return Modified
	case git.DeltaRenamed:
		return Renamed
	case git.DeltaTypeChanged:
		return TypeChanged
	case git.DeltaConflicted:
		return Unmerged
	default:
		return Unknown
	}
}
