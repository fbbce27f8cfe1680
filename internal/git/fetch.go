package git

import (
	"context"
	"fmt"
)

// CLIFetcher runs `git fetch` as an external process.
type CLIFetcher struct{}

// NewCLIFetcher creates a fetcher backed by the git binary.
func NewCLIFetcher() *CLIFetcher {
	return &CLIFetcher{}
}

// FetchArgs builds the argument list for a fetch request.
func FetchArgs(req FetchRequest) []string {
	args := []string{"fetch"}
	args = append(args, req.ExtraArgs...)
	args = append(args, "-u", "--progress")
	if req.Depth > 0 {
		args = append(args, fmt.Sprintf("--deepen=%d", req.Depth))
	}
	if req.Remote != "" {
		args = append(args, req.Remote)
	}
	return append(args, req.Refspecs...)
}

// Fetch runs a single fetch; a non-zero exit status is returned as an error.
func (f *CLIFetcher) Fetch(ctx context.Context, req FetchRequest) error {
	_, err := runGit(ctx, req.Dir, FetchArgs(req)...)
	return err
}

// TrackBranch creates branch tracking upstream (e.g. origin/main).
func (f *CLIFetcher) TrackBranch(ctx context.Context, dir, branch, upstream string) error {
	_, err := runGit(ctx, dir, "branch", "--track", branch, upstream)
	return err
}
