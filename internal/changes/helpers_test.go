package changes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/masmgr/changed-files-go/internal/git"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recordingFetcher records fetch requests and optionally fails or mutates the graph.
type recordingFetcher struct {
	requests []git.FetchRequest
	tracked  []string
	fail     func(req git.FetchRequest) bool
	onFetch  func(req git.FetchRequest)
}

func (f *recordingFetcher) Fetch(_ context.Context, req git.FetchRequest) error {
	f.requests = append(f.requests, req)
	if f.fail != nil && f.fail(req) {
		return errors.New("exit status 128")
	}
	if f.onFetch != nil {
		f.onFetch(req)
	}
	return nil
}

func (f *recordingFetcher) TrackBranch(_ context.Context, _, branch, upstream string) error {
	f.tracked = append(f.tracked, branch+"->"+upstream)
	return nil
}

// countDeepen counts requests fetching refspec with a deepen depth.
func (f *recordingFetcher) countDeepen(refspec string) int {
	n := 0
	for _, req := range f.requests {
		if req.Depth > 0 && len(req.Refspecs) == 1 && req.Refspecs[0] == refspec {
			n++
		}
	}
	return n
}

type stubHistory struct {
	until      map[string]string
	since      map[string][]string
	tags       []string
	tagCommits map[string]string
	described  []string
}

func (h *stubHistory) CommitAtOrBefore(_ context.Context, until string) (string, error) {
	if sha, ok := h.until[until]; ok {
		return sha, nil
	}
	return "", fmt.Errorf("until %s: %w", until, git.ErrCommitNotFound)
}

func (h *stubHistory) CommitsSince(_ context.Context, since string) ([]string, error) {
	return h.since[since], nil
}

func (h *stubHistory) TagsByVersionDesc(context.Context) ([]string, error) {
	return h.tags, nil
}

func (h *stubHistory) TagCommit(_ context.Context, tag string) (string, error) {
	if sha, ok := h.tagCommits[tag]; ok {
		return sha, nil
	}
	return "", fmt.Errorf("tag %s: %w", tag, git.ErrCommitNotFound)
}

func (h *stubHistory) DescribeTags(_ context.Context, sha string) (string, error) {
	h.described = append(h.described, sha)
	return "v1.0.0-1-g" + sha, nil
}

func paths(files []DiffFile) string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.FullPath()
	}
	return strings.Join(out, ",")
}
