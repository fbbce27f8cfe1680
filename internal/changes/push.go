package changes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/masmgr/changed-files-go/internal/git"
)

// PushOptions carries the inputs of a push-triggered run.
type PushOptions struct {
	// RefName is the pushed branch or tag name.
	RefName string
	// IsTag is set when the pushed ref is a tag.
	IsTag bool
	// SourceBranch is the branch a pushed tag was created from, if known.
	SourceBranch string
	// Before is the commit the ref pointed at before the push.
	Before string
	Forced bool

	// SHA and BaseSHA override the current and previous commits.
	SHA     string
	BaseSHA string
	// Since and Until are git date expressions.
	Since string
	Until string

	SinceLastRemoteCommit bool
}

// PushResolver resolves the commit range of a push event.
type PushResolver struct {
	graph    git.CommitGraph
	history  git.HistoryQuery
	deepener *Deepener
	logger   *slog.Logger
}

// NewPushResolver creates a push range resolver.
func NewPushResolver(graph git.CommitGraph, history git.HistoryQuery, deepener *Deepener, logger *slog.Logger) *PushResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &PushResolver{graph: graph, history: history, deepener: deepener, logger: logger}
}

// Resolve returns the range of a push. Push ranges always use TwoDot.
// When current has no predecessor the returned error matches ErrInitialCommit.
func (r *PushResolver) Resolve(ctx context.Context, opts PushOptions) (RangeContext, error) {
	r.logger.Info("Running on a push event...")

	if isShallow(r.graph, r.logger) {
		r.deepen(ctx, opts)
	}

	current, err := resolveCurrent(ctx, r.graph, r.history, opts.Until, opts.SHA, r.deepener.Depth(), r.logger)
	if err != nil {
		return RangeContext{}, err
	}

	previous, err := r.resolvePrevious(ctx, opts, current)
	if err != nil {
		return RangeContext{}, err
	}

	if previous == "" {
		return RangeContext{}, &RangeError{Kind: KindUnresolvedRange, Msg: "Unable to locate a previous commit"}
	}

	r.logger.Debug("Verifying the previous commit SHA", "sha", previous)
	prevID, err := r.graph.FindCommit(previous)
	if err != nil {
		return RangeContext{}, notFound(previous, r.deepener.Depth(), err)
	}
	previous = prevID

	if previous == current {
		return RangeContext{}, identicalCommits(current, r.deepener.Depth())
	}

	return RangeContext{Previous: previous, Current: current, Operator: TwoDot}, nil
}

func (r *PushResolver) deepen(ctx context.Context, opts PushOptions) {
	extra := FetchExtraArgs(opts.IsTag)

	var refspecs []string
	switch {
	case !opts.IsTag:
		refspecs = append(refspecs, r.deepener.BranchRefspec(opts.RefName))
	case opts.SourceBranch != "":
		refspecs = append(refspecs, r.deepener.BranchRefspec(opts.SourceBranch))
	}
	_ = r.deepener.Deepen(ctx, r.graph, extra, refspecs...)
	r.deepener.Submodules(ctx, r.graph, extra)
}

func (r *PushResolver) resolvePrevious(ctx context.Context, opts PushOptions, current string) (string, error) {
	switch {
	case opts.BaseSHA != "":
		if opts.IsTag {
			// The describe output is informational only.
			target, err := r.history.DescribeTags(ctx, opts.BaseSHA)
			if err != nil {
				r.logger.Debug("Could not describe base commit", "sha", opts.BaseSHA, "error", err)
			} else {
				r.logger.Debug("Target branch", "branch", target)
			}
		}
		return opts.BaseSHA, nil

	case opts.Since != "":
		r.logger.Debug("Getting base SHA", "since", opts.Since)
		shas, err := r.history.CommitsSince(ctx, opts.Since)
		if err != nil {
			return "", &RangeError{Kind: KindUnresolvedRange, Msg: fmt.Sprintf("Invalid since date: %s", opts.Since), Err: err}
		}
		if len(shas) == 0 {
			return "", &RangeError{Kind: KindUnresolvedRange, Msg: fmt.Sprintf("No commits found since %s", opts.Since)}
		}
		return shas[len(shas)-1], nil

	case opts.IsTag:
		tags, err := r.history.TagsByVersionDesc(ctx)
		if err != nil {
			return "", &RangeError{Kind: KindUnresolvedRange, Msg: "Could not list tags", Err: err}
		}
		if len(tags) < 2 {
			return "", &RangeError{Kind: KindUnresolvedRange, Msg: "Could not get second latest tag"}
		}
		sha, err := r.history.TagCommit(ctx, tags[1])
		if err != nil {
			return "", notFound(tags[1], r.deepener.Depth(), err)
		}
		return sha, nil
	}

	return r.previousFromParent(opts, current)
}

func (r *PushResolver) previousFromParent(opts PushOptions, current string) (string, error) {
	parent, err := r.graph.Parent(current, 0)
	if err != nil && !errors.Is(err, git.ErrParentNotFound) {
		return "", notFound(current+"^", r.deepener.Depth(), err)
	}
	if parent == "" {
		parent = current
	}

	previous := parent
	if opts.SinceLastRemoteCommit && !opts.Forced {
		previous = strings.TrimSpace(opts.Before)
	}
	if previous == "" || previous == git.ZeroSHA {
		previous = parent
	}

	if previous == current {
		p, err := r.graph.Parent(previous, 0)
		if errors.Is(err, git.ErrParentNotFound) {
			r.logger.Warn("Initial commit detected no previous commit found.")
			return "", &RangeError{Kind: KindInitialCommit, SHA: current, Msg: "Initial commit detected", Err: err}
		}
		if err != nil {
			return "", notFound(previous+"^", r.deepener.Depth(), err)
		}
		previous = p
	}
	return previous, nil
}

// resolveCurrent picks the current commit: until query, then override, then HEAD.
func resolveCurrent(ctx context.Context, graph git.CommitGraph, history git.HistoryQuery, until, sha string, depth int, logger *slog.Logger) (string, error) {
	logger.Debug("Getting HEAD SHA...")

	candidate := sha
	switch {
	case until != "":
		logger.Debug("Getting HEAD SHA", "until", until)
		found, err := history.CommitAtOrBefore(ctx, until)
		if err != nil {
			return "", &RangeError{Kind: KindNotFound, SHA: until, Msg: fmt.Sprintf("Invalid until date: %s", until), Hint: depthHint(depth), Err: err}
		}
		candidate = found
	case sha == "":
		head, err := graph.ResolveRef("HEAD")
		if err != nil {
			return "", notFound("HEAD", depth, err)
		}
		candidate = head
	}

	logger.Debug("Verifying the current commit SHA", "sha", candidate)
	current, err := graph.FindCommit(candidate)
	if err != nil {
		return "", notFound(candidate, depth, err)
	}
	return current, nil
}

func isShallow(graph git.CommitGraph, logger *slog.Logger) bool {
	shallow, err := graph.IsShallow()
	if err != nil {
		logger.Warn("Could not determine whether the clone is shallow", "error", err)
		return false
	}
	logger.Debug("is_shallow_clone", "value", shallow)
	return shallow
}
