package changes

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/masmgr/changed-files-go/internal/git"
)

// PullRequestOptions carries the inputs of a pull-request-triggered run.
type PullRequestOptions struct {
	Number  string
	BaseRef string
	HeadRef string
	// BaseCommit is the base commit recorded on the pull request event.
	BaseCommit   string
	HeadRepoFork bool
	// Before is the head commit before the latest push to the pull request.
	Before string

	// SHA and BaseSHA override the current and previous commits.
	SHA     string
	BaseSHA string
	Until   string

	SinceLastRemoteCommit bool
}

// PullRequestResolver resolves the commit range of a pull request event.
type PullRequestResolver struct {
	graph    git.CommitGraph
	history  git.HistoryQuery
	deepener *Deepener
	logger   *slog.Logger
}

// NewPullRequestResolver creates a pull request range resolver.
func NewPullRequestResolver(graph git.CommitGraph, history git.HistoryQuery, deepener *Deepener, logger *slog.Logger) *PullRequestResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &PullRequestResolver{graph: graph, history: history, deepener: deepener, logger: logger}
}

// Resolve returns the range of a pull request. The operator is ThreeDot unless
// the base ref is unknown, the head is a fork, or no merge base is reachable.
func (r *PullRequestResolver) Resolve(ctx context.Context, opts PullRequestOptions) (RangeContext, error) {
	r.logger.Info("Running on a pull request event...")
	depth := r.deepener.Depth()

	operator := ThreeDot
	if opts.BaseRef == "" || opts.HeadRepoFork {
		operator = TwoDot
	}

	targetBranch := opts.BaseRef
	currentBranch := opts.HeadRef
	if opts.SinceLastRemoteCommit {
		targetBranch = currentBranch
	}

	shallow := isShallow(r.graph, r.logger)
	if shallow {
		r.fetchRefs(ctx, opts, currentBranch, targetBranch)
	}

	current, err := resolveCurrent(ctx, r.graph, r.history, opts.Until, opts.SHA, depth, r.logger)
	if err != nil {
		return RangeContext{}, err
	}

	previous := opts.BaseSHA
	if previous == "" {
		previous = r.previousCandidate(ctx, opts, targetBranch, current, shallow)
		if previous == "" || previous == current {
			previous = opts.BaseCommit
		}
	}
	r.logger.Debug("Previous SHA", "sha", previous)
	if previous == "" {
		return RangeContext{}, &RangeError{Kind: KindUnresolvedRange, Msg: "Unable to locate a previous commit", Hint: depthHint(depth)}
	}

	r.logger.Debug("Verifying the previous commit SHA", "sha", previous)
	prevID, err := r.graph.FindCommit(previous)
	if err != nil {
		return RangeContext{}, notFound(previous, depth, err)
	}
	previous = prevID

	if operator == ThreeDot {
		if _, err := r.graph.MergeBase(previous, current); err != nil {
			r.logger.Debug("Merge base is not in the local history, setting diff to ..")
			operator = TwoDot
		}
	}

	rc := RangeContext{Previous: previous, Current: current, Operator: operator}
	if err := r.validate(ctx, rc, depth); err != nil {
		return RangeContext{}, err
	}
	return rc, nil
}

func (r *PullRequestResolver) fetchRefs(ctx context.Context, opts PullRequestOptions, currentBranch, targetBranch string) {
	extra := FetchExtraArgs(false)

	head := fmt.Sprintf("pull/%s/head:%s", opts.Number, currentBranch)
	if err := r.deepener.FetchRefs(ctx, r.graph, extra, head); err != nil {
		r.logger.Info("First fetch failed, falling back to second fetch")
		remote := r.deepener.Remote()
		fallback := fmt.Sprintf("+refs/heads/%s*:refs/remotes/%s/%s*", currentBranch, remote, currentBranch)
		_ = r.deepener.Deepen(ctx, r.graph, extra, fallback)
	} else {
		r.logger.Debug("First fetch succeeded")
	}

	if opts.SinceLastRemoteCommit {
		r.logger.Debug("Fetching remote target branch...")
		_ = r.deepener.Deepen(ctx, r.graph, extra, r.deepener.BranchRefspec(targetBranch))
		r.deepener.Track(ctx, r.graph, targetBranch)
	}

	r.deepener.Submodules(ctx, r.graph, extra)
}

// previousCandidate returns the before commit when preferring the last remote
// commit, otherwise the tip of the tracked base branch.
func (r *PullRequestResolver) previousCandidate(ctx context.Context, opts PullRequestOptions, targetBranch, current string, shallow bool) string {
	if opts.SinceLastRemoteCommit {
		before := strings.TrimSpace(opts.Before)
		if before != "" {
			if _, err := r.graph.FindCommit(before); err == nil {
				return before
			}
		}
		r.logger.Debug("Before commit not found locally, using the pull request base commit", "before", before)
		return opts.BaseCommit
	}

	ref := r.deepener.Remote() + "/" + targetBranch
	previous, err := r.graph.ResolveRef(ref)
	if err != nil {
		r.logger.Debug("Could not resolve base branch", "ref", ref, "error", err)
		return ""
	}
	if !shallow {
		return previous
	}

	attempts, found := r.deepener.Until(ctx, r.graph, r.deepener.BranchRefspec(targetBranch), MaxMergeBaseAttempts, func() bool {
		_, err := r.graph.MergeBase(previous, current)
		return err == nil
	})
	if found {
		r.logger.Debug("Merge base is in the local history", "fetches", attempts)
	} else {
		r.logger.Debug("Merge base is not in the local history", "fetches", attempts)
	}
	return previous
}

// validate rejects ranges with nothing to compare.
func (r *PullRequestResolver) validate(ctx context.Context, rc RangeContext, depth int) error {
	r.logger.Debug("Verifying the difference", "range", rc.String())

	base, err := ancestor(r.graph, rc)
	if err != nil {
		return &RangeError{Kind: KindUnresolvedRange, Msg: fmt.Sprintf("Unable to determine the ancestor of %s", rc), Err: err}
	}
	deltas, err := r.graph.DiffTrees(ctx, base, rc.Current, git.DiffTreeOptions{IgnoreSubmodules: true})
	if err != nil {
		return &RangeError{Kind: KindUnresolvedRange, Msg: fmt.Sprintf("Unable to diff %s", rc), Err: err}
	}
	if len(deltas) == 0 {
		return &RangeError{
			Kind: KindEmptyDiff,
			SHA:  rc.Previous,
			Msg:  fmt.Sprintf("Unable to determine a difference between %s", rc),
			Hint: depthHint(depth),
		}
	}

	counts := make(map[ChangeKind]int)
	for _, d := range deltas {
		counts[classifyForDetection(d.Status)]++
	}
	attrs := make([]any, 0, 2*len(counts))
	for _, k := range AllKinds {
		if n := counts[k]; n > 0 {
			attrs = append(attrs, k.String(), n)
		}
	}
	r.logger.Debug("Detected changes", attrs...)

	if rc.Previous == rc.Current {
		return identicalCommits(rc.Current, depth)
	}
	return nil
}
