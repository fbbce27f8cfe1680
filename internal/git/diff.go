package git

import (
	"fmt"
	"sort"

	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/merkletrie"
)

// deltasFromChanges converts go-git tree changes into raw deltas sorted by
// path, matching the order of git diff --raw.
func deltasFromChanges(changes object.Changes, opts DiffTreeOptions) ([]RawDelta, error) {
	deltas := make([]RawDelta, 0, len(changes))
	for _, ch := range changes {
		d, err := deltaFromChange(ch)
		if err != nil {
			return nil, err
		}
		if opts.IgnoreSubmodules && d.touchesSubmodule() {
			continue
		}
		deltas = append(deltas, d)
	}
	sort.SliceStable(deltas, func(i, j int) bool { return deltas[i].Path < deltas[j].Path })
	return deltas, nil
}

func deltaFromChange(ch *object.Change) (RawDelta, error) {
	action, err := ch.Action()
	if err != nil {
		return RawDelta{}, fmt.Errorf("classify change: %w", err)
	}

	from, to := ch.From, ch.To
	switch action {
	case merkletrie.Insert:
		return RawDelta{Status: DeltaAdded, Path: to.Name, NewMode: to.TreeEntry.Mode}, nil
	case merkletrie.Delete:
		return RawDelta{Status: DeltaDeleted, Path: from.Name, OldMode: from.TreeEntry.Mode}, nil
	case merkletrie.Modify:
		d := RawDelta{
			Status:  DeltaModified,
			Path:    to.Name,
			OldMode: from.TreeEntry.Mode,
			NewMode: to.TreeEntry.Mode,
		}
		switch {
		case from.Name != to.Name:
			// Rename detection pairs a delete with an insert.
			d.Status = DeltaRenamed
			d.OldPath = from.Name
		case modeClass(d.OldMode) != modeClass(d.NewMode):
			d.Status = DeltaTypeChanged
		}
		return d, nil
	default:
		return RawDelta{}, fmt.Errorf("unsupported change action %v", action)
	}
}

func (d RawDelta) touchesSubmodule() bool {
	return d.OldMode == filemode.Submodule || d.NewMode == filemode.Submodule
}

// modeClass groups file modes the way git decides a type change:
// regular and executable files are the same type, symlinks and gitlinks are not.
func modeClass(m filemode.FileMode) int {
	switch m {
	case filemode.Symlink:
		return 1
	case filemode.Submodule:
		return 2
	case filemode.Dir:
		return 3
	default:
		return 0
	}
}
