package cmd

import (
	"fmt"
	"os"

	"github.com/masmgr/changed-files-go/config"
	"github.com/masmgr/changed-files-go/internal/output"
	"github.com/urfave/cli/v2"
)

// Version is the tool version reported by the version command.
const Version = "1.0.0"

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "changed-files",
		Usage:   "List files changed by a push or pull request",
		Version: Version,
		Commands: []*cli.Command{
			DetectCmd(),
			ConfigCmd(),
			VersionCmd(),
		},
		Flags:  detectFlags(),
		Action: detectAction,
	}
}

// getOutputFormat parses the output format flag.
func getOutputFormat(s string) output.OutputFormat {
	switch s {
	case "json":
		return output.FormatJSON
	case "csv":
		return output.FormatCSV
	case "markdown", "md":
		return output.FormatMarkdown
	case "ci", "github":
		return output.FormatCI
	default:
		return output.FormatConsole
	}
}

// loadConfig loads configuration from file or defaults, then applies
// explicitly set flags on top.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if c.IsSet("fetch-depth") {
		cfg.Fetch.Depth = c.Int("fetch-depth")
	}
	if c.IsSet("remote") {
		cfg.Fetch.Remote = c.String("remote")
	}

	if c.IsSet("files-separator") {
		cfg.Filters.FilesSeparator = c.String("files-separator")
	}
	if c.IsSet("files-from-source-file-separator") {
		cfg.Filters.FilesFromSourceFileSeparator = c.String("files-from-source-file-separator")
	}
	if c.IsSet("files-ignore-separator") {
		cfg.Filters.FilesIgnoreSeparator = c.String("files-ignore-separator")
	}
	if c.IsSet("files-ignore-from-source-file-separator") {
		cfg.Filters.FilesIgnoreFromSourceFileSeparator = c.String("files-ignore-from-source-file-separator")
	}
	if c.IsSet("match-directories") {
		cfg.Filters.MatchDirectories = c.Bool("match-directories")
	}

	if c.IsSet("format") {
		cfg.Output.Format = string(getOutputFormat(c.String("format")))
	}
	if c.IsSet("separator") {
		cfg.Output.Separator = c.String("separator")
	}
	if c.IsSet("old-new-separator") {
		cfg.Output.OldNewSeparator = c.String("old-new-separator")
	}
	if c.IsSet("old-new-files-separator") {
		cfg.Output.OldNewFilesSeparator = c.String("old-new-files-separator")
	}
	if c.IsSet("include-all-old-new-renamed-files") {
		cfg.Output.IncludeAllOldNewRenamedFiles = c.Bool("include-all-old-new-renamed-files")
	}
	if c.IsSet("dir-names") {
		cfg.Output.DirNames = c.Bool("dir-names")
	}
	if c.IsSet("dir-names-max-depth") {
		cfg.Output.DirNamesMaxDepth = c.Int("dir-names-max-depth")
	}
	if c.IsSet("dir-names-exclude-root") {
		cfg.Output.DirNamesExcludeRoot = c.Bool("dir-names-exclude-root")
	}
	if c.IsSet("json") {
		cfg.Output.JSON = c.Bool("json")
	}
	if c.IsSet("write-output-files") {
		cfg.Output.WriteOutputFiles = c.Bool("write-output-files")
	}
	if c.IsSet("output-dir") {
		cfg.Output.OutputDir = c.String("output-dir")
	}

	if c.IsSet("engine") {
		cfg.Diff.Engine = c.String("engine")
	}
	if c.IsSet("diff-relative") {
		cfg.Diff.Relative = c.String("diff-relative")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Run executes the CLI application.
func Run() {
	if err := App().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
