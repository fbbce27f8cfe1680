package git

import (
	"context"
	"fmt"
	"strings"
)

// CLIHistory answers log, tag and describe queries with the git binary.
type CLIHistory struct {
	Dir string
}

// NewCLIHistory creates a history query runner for the repository at dir.
func NewCLIHistory(dir string) *CLIHistory {
	return &CLIHistory{Dir: dir}
}

// CommitAtOrBefore returns the newest commit whose date is at or before until.
func (h *CLIHistory) CommitAtOrBefore(ctx context.Context, until string) (string, error) {
	out, err := runGit(ctx, h.Dir, "log", "-1", "--format=%H", "--date=local", "--until="+until)
	if err != nil {
		return "", err
	}
	sha := strings.TrimSpace(string(out))
	if sha == "" {
		return "", fmt.Errorf("no commit at or before %q: %w", until, ErrCommitNotFound)
	}
	return sha, nil
}

// CommitsSince returns the commits newer than since, newest first.
func (h *CLIHistory) CommitsSince(ctx context.Context, since string) ([]string, error) {
	out, err := runGit(ctx, h.Dir, "log", "--format=%H", "--date=local", "--since="+since)
	if err != nil {
		return nil, err
	}
	return splitLines(string(out)), nil
}

// TagsByVersionDesc lists tags sorted by descending version.
func (h *CLIHistory) TagsByVersionDesc(ctx context.Context) ([]string, error) {
	out, err := runGit(ctx, h.Dir, "tag", "--sort=-v:refname")
	if err != nil {
		return nil, err
	}
	return splitLines(string(out)), nil
}

// TagCommit returns the commit an (optionally annotated) tag points at.
func (h *CLIHistory) TagCommit(ctx context.Context, tag string) (string, error) {
	out, err := runGit(ctx, h.Dir, "rev-list", "-n", "1", tag)
	if err != nil {
		return "", err
	}
	sha := strings.TrimSpace(string(out))
	if sha == "" {
		return "", fmt.Errorf("tag %s: %w", tag, ErrCommitNotFound)
	}
	return sha, nil
}

// DescribeTags returns the nearest tag description of a commit.
func (h *CLIHistory) DescribeTags(ctx context.Context, sha string) (string, error) {
	out, err := runGit(ctx, h.Dir, "describe", "--tags", sha)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

func splitLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
