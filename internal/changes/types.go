// Package changes resolves the commit range of a CI run and lists the files
// changed within it.
package changes

import (
	"fmt"
	"path"
	"strings"
)

// ChangeKind classifies a changed path.
type ChangeKind int

const (
	Added ChangeKind = iota
	Copied
	Modified
	Deleted
	Renamed
	TypeChanged
	Unmerged
	Unknown
)

// AllKinds lists every change kind in output order.
var AllKinds = []ChangeKind{Added, Copied, Modified, Deleted, Renamed, TypeChanged, Unmerged, Unknown}

var kindNames = [...]string{"added", "copied", "modified", "deleted", "renamed", "type_changed", "unmerged", "unknown"}

var kindLetters = [...]byte{'A', 'C', 'M', 'D', 'R', 'T', 'U', 'X'}

// String returns the snake_case name of the kind.
func (k ChangeKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("ChangeKind(%d)", int(k))
	}
	return kindNames[k]
}

// Letter returns the one-letter code git uses for the kind (X for unknown).
func (k ChangeKind) Letter() string {
	if k < 0 || int(k) >= len(kindLetters) {
		return "?"
	}
	return string(kindLetters[k])
}

// KindSet is a set of change kinds.
type KindSet uint16

// NewKindSet returns the set holding kinds.
func NewKindSet(kinds ...ChangeKind) KindSet {
	var s KindSet
	for _, k := range kinds {
		s |= 1 << uint(k)
	}
	return s
}

// Predefined kind sets.
var (
	AllChangedAndModified = NewKindSet(AllKinds...)
	AllChanged            = NewKindSet(Added, Copied, Modified, Renamed)
	AllModified           = NewKindSet(Added, Copied, Modified, Renamed, Deleted)
)

// Has reports whether k is in the set.
func (s KindSet) Has(k ChangeKind) bool {
	return s&(1<<uint(k)) != 0
}

// Kinds lists the members in output order.
func (s KindSet) Kinds() []ChangeKind {
	var out []ChangeKind
	for _, k := range AllKinds {
		if s.Has(k) {
			out = append(out, k)
		}
	}
	return out
}

// Letters returns the members' letter codes, e.g. "ACMR".
func (s KindSet) Letters() string {
	var b strings.Builder
	for _, k := range s.Kinds() {
		b.WriteString(k.Letter())
	}
	return b.String()
}

// ParseKindLetters parses letter codes such as "ACMRD" into a set.
func ParseKindLetters(s string) (KindSet, error) {
	var set KindSet
	for _, r := range strings.ToUpper(s) {
		found := false
		for i, l := range kindLetters {
			if byte(r) == l {
				set |= 1 << uint(i)
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("invalid change kind %q (expected one of ACMDRTUX)", r)
		}
	}
	if set == 0 {
		return 0, fmt.Errorf("no change kinds given")
	}
	return set, nil
}

// DiffOperator selects how the ancestor side of a range is chosen.
type DiffOperator string

const (
	// TwoDot diffs the previous commit's tree against the current one.
	TwoDot DiffOperator = ".."
	// ThreeDot diffs the merge base of previous and current against current.
	ThreeDot DiffOperator = "..."
)

// DiffFile is one changed path.
type DiffFile struct {
	Path string
	Kind ChangeKind
	// OldPath is the source path of a rename or copy.
	OldPath string
	// Submodule is the slash-joined submodule path the file belongs to,
	// empty for the top-level repository.
	Submodule string
}

// FullPath returns the path as seen from the top-level repository.
func (f DiffFile) FullPath() string {
	if f.Submodule == "" {
		return f.Path
	}
	return path.Join(f.Submodule, f.Path)
}

// RangeContext is a resolved commit range.
type RangeContext struct {
	Previous string
	Current  string
	Operator DiffOperator
}

// String formats the range as git range syntax.
func (r RangeContext) String() string {
	return r.Previous + string(r.Operator) + r.Current
}

// ResultSet names a kind set reported as one output list.
type ResultSet struct {
	Key   string
	Kinds KindSet
}

// ResultSets lists the reported sets in output order.
var ResultSets = []ResultSet{
	{Key: "added_files", Kinds: NewKindSet(Added)},
	{Key: "copied_files", Kinds: NewKindSet(Copied)},
	{Key: "deleted_files", Kinds: NewKindSet(Deleted)},
	{Key: "modified_files", Kinds: NewKindSet(Modified)},
	{Key: "renamed_files", Kinds: NewKindSet(Renamed)},
	{Key: "type_changed_files", Kinds: NewKindSet(TypeChanged)},
	{Key: "unmerged_files", Kinds: NewKindSet(Unmerged)},
	{Key: "unknown_files", Kinds: NewKindSet(Unknown)},
	{Key: "all_changed_and_modified_files", Kinds: AllChangedAndModified},
	{Key: "all_changed_files", Kinds: AllChanged},
	{Key: "all_modified_files", Kinds: AllModified},
}
