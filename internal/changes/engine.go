package changes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"

	"github.com/masmgr/changed-files-go/internal/git"
)

// PathMatcher decides whether a path is reported.
type PathMatcher interface {
	Match(path string) bool
}

type matchAll struct{}

func (matchAll) Match(string) bool { return true }

// Engine lists the changed files of a resolved range.
type Engine struct {
	graph  git.CommitGraph
	filter PathMatcher
	logger *slog.Logger
}

// NewEngine creates an engine over graph. A nil filter keeps every path.
func NewEngine(graph git.CommitGraph, filter PathMatcher, logger *slog.Logger) *Engine {
	if filter == nil {
		filter = matchAll{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{graph: graph, filter: filter, logger: logger}
}

// Diff returns the files of rc whose kind is in kinds and whose path passes the filter,
// followed by the matching files of each submodule whose pinned commit moved.
func (e *Engine) Diff(ctx context.Context, rc RangeContext, kinds KindSet) ([]DiffFile, error) {
	return e.diff(ctx, e.graph, "", rc, kinds)
}

// DiffSets runs Diff once per result set.
func (e *Engine) DiffSets(ctx context.Context, rc RangeContext, sets []ResultSet) (map[string][]DiffFile, error) {
	out := make(map[string][]DiffFile, len(sets))
	for _, set := range sets {
		files, err := e.Diff(ctx, rc, set.Kinds)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", set.Key, err)
		}
		out[set.Key] = files
	}
	return out, nil
}

func (e *Engine) diff(ctx context.Context, graph git.CommitGraph, prefix string, rc RangeContext, kinds KindSet) ([]DiffFile, error) {
	base, err := ancestor(graph, rc)
	if err != nil {
		return nil, err
	}

	deltas, err := graph.DiffTrees(ctx, base, rc.Current, git.DiffTreeOptions{IgnoreSubmodules: true})
	if err != nil {
		return nil, fmt.Errorf("diff %s: %w", rc, err)
	}

	var files []DiffFile
	for _, d := range deltas {
		kind := classifyForFilter(d.Status)
		if !kinds.Has(kind) || !e.filter.Match(d.Path) {
			continue
		}
		files = append(files, DiffFile{Path: d.Path, Kind: kind, OldPath: d.OldPath, Submodule: prefix})
	}

	subs, err := graph.Submodules()
	if err != nil {
		e.logger.Warn("Could not list submodules", "repository", graph.Root(), "error", err)
		return files, nil
	}
	for _, sm := range subs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		subFiles, err := e.diffSubmodule(ctx, graph, prefix, sm, rc, kinds)
		if err != nil {
			return nil, err
		}
		files = append(files, subFiles...)
	}
	return files, nil
}

func (e *Engine) diffSubmodule(ctx context.Context, graph git.CommitGraph, prefix string, sm git.Submodule, rc RangeContext, kinds KindSet) ([]DiffFile, error) {
	fullPath := path.Join(prefix, sm.Path)
	logger := e.logger.With("submodule", fullPath)

	before, err := graph.GitlinkAt(rc.Previous, sm.Path)
	if err != nil {
		logger.Debug("Submodule not present in previous commit", "error", err)
		return nil, nil
	}
	after, err := graph.GitlinkAt(rc.Current, sm.Path)
	if err != nil {
		logger.Debug("Submodule not present in current commit", "error", err)
		return nil, nil
	}
	if before == after {
		return nil, nil
	}

	sub, err := graph.OpenSubmodule(sm.Path)
	if err != nil {
		logger.Warn("Could not open submodule", "error", err)
		return nil, nil
	}
	for _, sha := range []string{before, after} {
		if _, err := sub.FindCommit(sha); err != nil {
			logger.Warn("Submodule commit not found", "sha", sha, "error", err)
			return nil, nil
		}
	}

	subRange := RangeContext{Previous: before, Current: after, Operator: rc.Operator}
	if rc.Operator == ThreeDot {
		if _, err := sub.MergeBase(before, after); err != nil {
			logger.Warn("Submodule merge base not found, falling back to two-dot diff", "error", err)
			subRange.Operator = TwoDot
		}
	}

	return e.diff(ctx, sub, fullPath, subRange, kinds)
}

// ancestor returns the commit the current tree is compared against.
func ancestor(graph git.CommitGraph, rc RangeContext) (string, error) {
	switch rc.Operator {
	case TwoDot:
		return rc.Previous, nil
	case ThreeDot:
		base, err := graph.MergeBase(rc.Previous, rc.Current)
		if err != nil {
			return "", fmt.Errorf("merge base of %s: %w", rc, err)
		}
		return base, nil
	default:
		return "", fmt.Errorf("range %s: %w", rc, errInvalidOperator)
	}
}

var errInvalidOperator = errors.New("invalid diff operator")
