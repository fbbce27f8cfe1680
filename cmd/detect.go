package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/masmgr/changed-files-go/config"
	"github.com/masmgr/changed-files-go/internal/changes"
	"github.com/masmgr/changed-files-go/internal/filter"
	"github.com/masmgr/changed-files-go/internal/git"
	"github.com/masmgr/changed-files-go/internal/output"
	"github.com/urfave/cli/v2"
)

// DetectCmd returns the detect command.
func DetectCmd() *cli.Command {
	return &cli.Command{
		Name:    "detect",
		Aliases: []string{"d"},
		Usage:   "Resolve the event's commit range and list changed files",
		Flags:   detectFlags(),
		Action:  detectAction,
	}
}

func detectAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	format := output.OutputFormat(cfg.Output.Format)
	logOut := io.Writer(os.Stderr)
	if format == output.FormatCI {
		logOut = os.Stdout
		output.StartGroup(os.Stdout, output.DiffGroupName)
		defer output.EndGroup(os.Stdout)
	}
	logger := output.NewLogger(format, c.Bool("verbose"), logOut)

	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}

	version, err := git.CheckVersion(ctx, git.MinimumVersion)
	if err != nil {
		logger.Error(err.Error())
		return cli.Exit("", 1)
	}
	logger.Info("Valid git version found", "version", version)

	event := NewEventContext(c)
	run, err := newDetectRun(c, cfg, event, logger)
	if err != nil {
		logger.Error(err.Error())
		return cli.Exit("", 1)
	}

	report, err := run.resolve(ctx, c)
	if errors.Is(err, changes.ErrInitialCommit) {
		logger.Info("Initial commit detected, skipping...")
		if format == output.FormatCI {
			return nil
		}
		return writeReport(c, cfg, event, &output.ChangeReport{RepoPath: run.root, InitialCommit: true})
	}
	if err != nil {
		logger.Error(err.Error())
		return cli.Exit("", changes.ExitCode(err))
	}

	if err := writeReport(c, cfg, event, report); err != nil {
		return err
	}
	if cfg.Output.WriteOutputFiles {
		dir := cfg.Output.OutputDir
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(event.Workspace, dir)
		}
		written, err := output.WriteOutputFiles(report, valueOptions(cfg), dir)
		if err != nil {
			return err
		}
		logger.Debug("Wrote output files", "dir", dir, "count", len(written))
	}
	return nil
}

// detectRun holds the opened repository and ports of one detect run.
type detectRun struct {
	cfg      *config.Config
	event    EventContext
	repo     *git.Repository
	root     string
	history  git.HistoryQuery
	deepener *changes.Deepener
	logger   *slog.Logger
}

func newDetectRun(c *cli.Context, cfg *config.Config, event EventContext, logger *slog.Logger) (*detectRun, error) {
	backend, err := git.ParseDiffBackend(cfg.Diff.Engine)
	if err != nil {
		return nil, err
	}

	repoPath := filepath.Join(event.Workspace, c.String("path"))
	repo, err := git.Open(repoPath, git.OpenOptions{Backend: backend})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}
	root := repo.Root()

	if event.IsTag() {
		logger.Debug("Detected tag", "is_tag", true, "source_branch", event.SourceBranch())
	}
	logger.Debug("Fetch arguments", "extra_args", strings.Join(changes.FetchExtraArgs(event.IsTag()), " "))

	return &detectRun{
		cfg:      cfg,
		event:    event,
		repo:     repo,
		root:     root,
		history:  git.NewCLIHistory(root),
		deepener: changes.NewDeepener(git.NewCLIFetcher(), cfg.Fetch.Remote, cfg.Fetch.Depth, logger),
		logger:   logger,
	}, nil
}

func (r *detectRun) resolve(ctx context.Context, c *cli.Context) (*output.ChangeReport, error) {
	sets, err := resultSets(c.String("kinds"))
	if err != nil {
		return nil, err
	}

	var rc changes.RangeContext
	switch r.event.Kind() {
	case EventPullRequest:
		resolver := changes.NewPullRequestResolver(r.repo, r.history, r.deepener, r.logger)
		rc, err = resolver.Resolve(ctx, r.event.PullRequestOptions(c))
	default:
		resolver := changes.NewPushResolver(r.repo, r.history, r.deepener, r.logger)
		rc, err = resolver.Resolve(ctx, r.event.PushOptions(c))
	}
	if err != nil {
		return nil, err
	}
	r.logger.Info("Resolved commit range", "previous", rc.Previous, "current", rc.Current, "operator", string(rc.Operator))

	pathFilter := filter.Build(filterSources(c, r.cfg, r.root), r.logger)
	engine := changes.NewEngine(r.repo, pathFilter, r.logger)
	results, err := engine.DiffSets(ctx, rc, sets)
	if err != nil {
		return nil, fmt.Errorf("failed to diff %s: %w", rc, err)
	}
	return output.NewChangeReport(r.root, rc, sets, results), nil
}

// selectedFilesKey names the extra set requested with --kinds.
const selectedFilesKey = "selected_files"

// resultSets returns the standard sets plus a selected_files set when
// kind letters are given.
func resultSets(kinds string) ([]changes.ResultSet, error) {
	sets := slices.Clone(changes.ResultSets)
	if kinds == "" {
		return sets, nil
	}
	ks, err := changes.ParseKindLetters(kinds)
	if err != nil {
		return nil, fmt.Errorf("invalid --kinds: %w", err)
	}
	return append(sets, changes.ResultSet{Key: selectedFilesKey, Kinds: ks}), nil
}

// filterSources merges pattern flags with configured pattern lists.
// Flags replace configured patterns when set.
func filterSources(c *cli.Context, cfg *config.Config, basePath string) filter.Sources {
	f := cfg.Filters
	files := strings.Join(f.Files, f.FilesSeparator)
	if c.IsSet("files") {
		files = c.String("files")
	}
	ignore := strings.Join(f.FilesIgnore, f.FilesIgnoreSeparator)
	if c.IsSet("files-ignore") {
		ignore = c.String("files-ignore")
	}
	return filter.Sources{
		Files:                              files,
		FilesSeparator:                     f.FilesSeparator,
		FilesFromSourceFile:                c.String("files-from-source-file"),
		FilesFromSourceFileSeparator:       f.FilesFromSourceFileSeparator,
		FilesIgnore:                        ignore,
		FilesIgnoreSeparator:               f.FilesIgnoreSeparator,
		FilesIgnoreFromSourceFile:          c.String("files-ignore-from-source-file"),
		FilesIgnoreFromSourceFileSeparator: f.FilesIgnoreFromSourceFileSeparator,
		BasePath:                           basePath,
		MatchDirectories:                   f.MatchDirectories,
	}
}
