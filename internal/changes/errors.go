package changes

import (
	"errors"
	"fmt"
)

// ErrorKind groups range resolution failures by how a run should end.
type ErrorKind int

const (
	// KindNotFound means a commit did not resolve in the local graph.
	KindNotFound ErrorKind = iota + 1
	// KindUnresolvedRange means no previous commit could be chosen.
	KindUnresolvedRange
	// KindIdenticalCommits means previous and current coincide.
	KindIdenticalCommits
	// KindEmptyDiff means the resolved range has no deltas.
	KindEmptyDiff
	// KindInitialCommit means current has no predecessor; the run ends successfully.
	KindInitialCommit
)

// String returns a string representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindUnresolvedRange:
		return "unresolved_range"
	case KindIdenticalCommits:
		return "identical_commits"
	case KindEmptyDiff:
		return "empty_diff"
	case KindInitialCommit:
		return "initial_commit"
	default:
		return "unknown"
	}
}

// RangeError reports why a commit range could not be resolved.
type RangeError struct {
	Kind ErrorKind
	SHA  string
	Msg  string
	Hint string
	Err  error
}

// Sentinels for errors.Is; they match any RangeError of the same kind.
var (
	ErrNotFound         = &RangeError{Kind: KindNotFound}
	ErrUnresolvedRange  = &RangeError{Kind: KindUnresolvedRange}
	ErrIdenticalCommits = &RangeError{Kind: KindIdenticalCommits}
	ErrEmptyDiff        = &RangeError{Kind: KindEmptyDiff}
	ErrInitialCommit    = &RangeError{Kind: KindInitialCommit}
)

func (e *RangeError) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *RangeError) Unwrap() error {
	return e.Err
}

// Is matches RangeErrors by kind.
func (e *RangeError) Is(target error) bool {
	t, ok := target.(*RangeError)
	return ok && t.Kind == e.Kind
}

// ExitCode maps an error to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var re *RangeError
	if errors.As(err, &re) && re.Kind == KindInitialCommit {
		return 0
	}
	return 1
}

func depthHint(depth int) string {
	return fmt.Sprintf("Please verify that the commit is valid, and increase the fetch_depth to a number higher than %d.", depth)
}

func notFound(sha string, depth int, err error) *RangeError {
	return &RangeError{
		Kind: KindNotFound,
		SHA:  sha,
		Msg:  fmt.Sprintf("The commit %s doesn't exist in the repository. Make sure that the commit SHA is correct", sha),
		Hint: depthHint(depth),
		Err:  err,
	}
}

func identicalCommits(sha string, depth int) *RangeError {
	return &RangeError{
		Kind: KindIdenticalCommits,
		SHA:  sha,
		Msg:  fmt.Sprintf("Similar commit hashes detected: previous sha: %s is equivalent to the current sha: %s", sha, sha),
		Hint: fmt.Sprintf("Please verify that both commits are valid, and increase the fetch_depth to a number higher than %d.", depth),
	}
}
