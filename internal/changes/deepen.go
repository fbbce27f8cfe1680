package changes

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/masmgr/changed-files-go/internal/git"
)

// MaxMergeBaseAttempts bounds the fetches spent looking for a merge base.
const MaxMergeBaseAttempts = 10

// DefaultRemote is the remote fetched from when none is configured.
const DefaultRemote = "origin"

// FetchExtraArgs returns the arguments added to every fetch of a branch or tag run.
func FetchExtraArgs(isTag bool) []string {
	if isTag {
		return []string{"--prune", "--no-recurse-submodules"}
	}
	return []string{"--no-tags", "--prune", "--recurse-submodules"}
}

// Deepener fetches additional history into a shallow clone.
// Fetch failures are logged and returned but never retried here.
type Deepener struct {
	fetcher git.Fetcher
	remote  string
	depth   int
	logger  *slog.Logger
}

// NewDeepener creates a deepener fetching depth commits per request from remote.
func NewDeepener(fetcher git.Fetcher, remote string, depth int, logger *slog.Logger) *Deepener {
	if remote == "" {
		remote = DefaultRemote
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Deepener{fetcher: fetcher, remote: remote, depth: depth, logger: logger}
}

// Remote returns the remote name.
func (d *Deepener) Remote() string { return d.remote }

// Depth returns the per-fetch depth.
func (d *Deepener) Depth() int { return d.depth }

// BranchRefspec maps a remote branch onto its remote-tracking ref.
func (d *Deepener) BranchRefspec(branch string) string {
	return fmt.Sprintf("+refs/heads/%s:refs/remotes/%s/%s", branch, d.remote, branch)
}

// Deepen fetches depth more commits of refspecs.
func (d *Deepener) Deepen(ctx context.Context, graph git.CommitGraph, extra []string, refspecs ...string) error {
	return d.fetch(ctx, graph, git.FetchRequest{
		Dir:       graph.Root(),
		Remote:    d.remote,
		Refspecs:  refspecs,
		Depth:     d.depth,
		ExtraArgs: extra,
	})
}

// FetchRefs fetches refspecs without deepening.
func (d *Deepener) FetchRefs(ctx context.Context, graph git.CommitGraph, extra []string, refspecs ...string) error {
	return d.fetch(ctx, graph, git.FetchRequest{
		Dir:       graph.Root(),
		Remote:    d.remote,
		Refspecs:  refspecs,
		ExtraArgs: extra,
	})
}

// Track creates a local branch tracking the remote branch of the same name.
func (d *Deepener) Track(ctx context.Context, graph git.CommitGraph, branch string) {
	upstream := d.remote + "/" + branch
	if err := d.fetcher.TrackBranch(ctx, graph.Root(), branch, upstream); err != nil {
		d.logger.Debug("Could not create tracking branch", "branch", branch, "upstream", upstream, "error", err)
	}
}

// Submodules deepens the history of every submodule of graph.
func (d *Deepener) Submodules(ctx context.Context, graph git.CommitGraph, extra []string) {
	subs, err := graph.Submodules()
	if err != nil {
		d.logger.Warn("Could not list submodules", "error", err)
		return
	}
	for _, sm := range subs {
		req := git.FetchRequest{
			Dir:       filepath.Join(graph.Root(), filepath.FromSlash(sm.Path)),
			Depth:     d.depth,
			ExtraArgs: extra,
		}
		if err := d.fetcher.Fetch(ctx, req); err != nil {
			d.logger.Warn("Failed to deepen submodule", "submodule", sm.Path, "error", err)
		}
	}
}

// Until deepens refspec until done reports true or maxAttempts fetches were made.
// It returns the number of fetches made and whether done was reached.
func (d *Deepener) Until(ctx context.Context, graph git.CommitGraph, refspec string, maxAttempts int, done func() bool) (int, bool) {
	if done() {
		return 0, true
	}
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if ctx.Err() != nil {
			return attempt - 1, false
		}
		_ = d.Deepen(ctx, graph, nil, refspec)
		if done() {
			return attempt, true
		}
		d.logger.Debug("Merge base is not in the local history, fetching remote target branch again",
			"attempt", fmt.Sprintf("%d/%d", attempt, maxAttempts))
	}
	return maxAttempts, false
}

func (d *Deepener) fetch(ctx context.Context, graph git.CommitGraph, req git.FetchRequest) error {
	d.logger.Debug("Fetching remote refs", "args", git.FetchArgs(req))
	err := d.fetcher.Fetch(ctx, req)
	if err != nil {
		d.logger.Warn("Fetch failed", "refspecs", req.Refspecs, "error", err)
	}
	if rerr := graph.Refresh(); rerr != nil {
		d.logger.Warn("Could not reload repository after fetch", "error", rerr)
	}
	return err
}
