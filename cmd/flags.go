package cmd

import "github.com/urfave/cli/v2"

// Flag categories shown in help output.
const (
	categoryFilters = "Filters"
	categoryRange   = "Commit range"
	categoryOutput  = "Output"
	categoryEvent   = "Event (read from the GitHub Actions environment)"
)

func detectFlags() []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
		},
		&cli.StringFlag{
			Name:  "path",
			Usage: "Repository path relative to the workspace",
			Value: ".",
		},
		&cli.StringFlag{
			Name:  "engine",
			Usage: "Diff engine (go-git, git)",
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "Show debug logging",
		},
	}
	flags = append(flags, filterFlags()...)
	flags = append(flags, rangeFlags()...)
	flags = append(flags, outputFlags()...)
	flags = append(flags, eventFlags()...)
	return flags
}

func filterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "files", Category: categoryFilters, Usage: "Glob patterns of files to include"},
		&cli.StringFlag{Name: "files-separator", Category: categoryFilters, Usage: "Separator of the files patterns", Value: "\n"},
		&cli.StringFlag{Name: "files-from-source-file", Category: categoryFilters, Usage: "Files holding include patterns, one per line"},
		&cli.StringFlag{Name: "files-from-source-file-separator", Category: categoryFilters, Usage: "Separator of the source file list", Value: "\n"},
		&cli.StringFlag{Name: "files-ignore", Category: categoryFilters, Usage: "Glob patterns of files to exclude"},
		&cli.StringFlag{Name: "files-ignore-separator", Category: categoryFilters, Usage: "Separator of the ignore patterns", Value: "\n"},
		&cli.StringFlag{Name: "files-ignore-from-source-file", Category: categoryFilters, Usage: "Files holding exclude patterns, one per line"},
		&cli.StringFlag{Name: "files-ignore-from-source-file-separator", Category: categoryFilters, Usage: "Separator of the ignore source file list", Value: "\n"},
		&cli.StringFlag{Name: "kinds", Category: categoryFilters, Usage: "Change kind letters (A C M D R T U X) reported as selected_files"},
		&cli.BoolFlag{Name: "match-directories", Category: categoryFilters, Usage: "Match patterns against parent directories", Value: true},
	}
}

func rangeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "sha", Category: categoryRange, Usage: "Current commit (default: HEAD)"},
		&cli.StringFlag{Name: "base-sha", Category: categoryRange, Usage: "Previous commit to compare against"},
		&cli.StringFlag{Name: "since", Category: categoryRange, Usage: "Use the oldest commit since this date as previous"},
		&cli.StringFlag{Name: "until", Category: categoryRange, Usage: "Use the newest commit up to this date as current"},
		&cli.IntFlag{Name: "fetch-depth", Category: categoryRange, Usage: "Depth of each history deepening fetch", Value: 50},
		&cli.StringFlag{Name: "remote", Category: categoryRange, Usage: "Remote to fetch from", Value: "origin"},
		&cli.BoolFlag{Name: "since-last-remote-commit", Category: categoryRange, Usage: "Compare against the last commit pushed to the remote"},
	}
}

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Category: categoryOutput, Usage: "Output format (console, json, csv, markdown, ci)", Value: "console"},
		&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Category: categoryOutput, Usage: "Output file path (default: stdout, or $GITHUB_OUTPUT for ci)"},
		&cli.StringFlag{Name: "separator", Category: categoryOutput, Usage: "Separator of output file lists", Value: " "},
		&cli.StringFlag{Name: "old-new-separator", Category: categoryOutput, Usage: "Separator between old and new renamed paths", Value: ","},
		&cli.StringFlag{Name: "old-new-files-separator", Category: categoryOutput, Usage: "Separator between renamed pairs", Value: " "},
		&cli.BoolFlag{Name: "include-all-old-new-renamed-files", Category: categoryOutput, Usage: "Output renamed old/new pairs"},
		&cli.BoolFlag{Name: "dir-names", Category: categoryOutput, Usage: "Output directory names instead of file paths"},
		&cli.IntFlag{Name: "dir-names-max-depth", Category: categoryOutput, Usage: "Truncate directory names to this depth (0: unlimited)"},
		&cli.BoolFlag{Name: "dir-names-exclude-root", Category: categoryOutput, Usage: "Omit the repository root from directory names"},
		&cli.BoolFlag{Name: "json", Category: categoryOutput, Usage: "Render file lists as JSON arrays"},
		&cli.BoolFlag{Name: "write-output-files", Category: categoryOutput, Usage: "Write each output to a file in the output directory"},
		&cli.StringFlag{Name: "output-dir", Category: categoryOutput, Usage: "Directory for output files", Value: ".github/outputs"},
		&cli.StringFlag{Name: "diff-relative", Category: categoryOutput, Usage: "Report paths relative to this directory"},
		&cli.BoolFlag{Name: "step-summary", Category: categoryOutput, Usage: "Append a Markdown summary to $GITHUB_STEP_SUMMARY"},
	}
}

func eventFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "workspace", Category: categoryEvent, EnvVars: []string{"GITHUB_WORKSPACE"}, Usage: "Workspace directory"},
		&cli.StringFlag{Name: "github-output", Category: categoryEvent, EnvVars: []string{"GITHUB_OUTPUT"}, Usage: "Step output file"},
		&cli.StringFlag{Name: "github-step-summary", Category: categoryEvent, EnvVars: []string{"GITHUB_STEP_SUMMARY"}, Usage: "Step summary file"},
		&cli.StringFlag{Name: "event-name", Category: categoryEvent, EnvVars: []string{"GITHUB_EVENT_NAME"}, Usage: "Triggering event"},
		&cli.StringFlag{Name: "ref", Category: categoryEvent, EnvVars: []string{"GITHUB_REF"}, Usage: "Fully qualified triggering ref"},
		&cli.StringFlag{Name: "ref-name", Category: categoryEvent, EnvVars: []string{"GITHUB_REF_NAME"}, Usage: "Short triggering ref name"},
		&cli.StringFlag{Name: "event-base-ref", Category: categoryEvent, EnvVars: []string{"GITHUB_EVENT_BASE_REF"}, Usage: "Branch a pushed tag was created from"},
		&cli.StringFlag{Name: "event-before", Category: categoryEvent, EnvVars: []string{"GITHUB_EVENT_BEFORE"}, Usage: "Commit the ref pointed at before the event"},
		&cli.StringFlag{Name: "event-forced", Category: categoryEvent, EnvVars: []string{"GITHUB_EVENT_FORCED"}, Usage: "Whether the push was forced"},
		&cli.StringFlag{Name: "head-repo-fork", Category: categoryEvent, EnvVars: []string{"GITHUB_EVENT_HEAD_REPO_FORK"}, Usage: "Whether the pull request head is a fork"},
		&cli.StringFlag{Name: "pr-number", Category: categoryEvent, EnvVars: []string{"GITHUB_EVENT_PULL_REQUEST_NUMBER"}, Usage: "Pull request number"},
		&cli.StringFlag{Name: "pr-base-ref", Category: categoryEvent, EnvVars: []string{"GITHUB_EVENT_PULL_REQUEST_BASE_REF"}, Usage: "Pull request base branch"},
		&cli.StringFlag{Name: "pr-head-ref", Category: categoryEvent, EnvVars: []string{"GITHUB_EVENT_PULL_REQUEST_HEAD_REF"}, Usage: "Pull request head branch"},
		&cli.StringFlag{Name: "pr-base-sha", Category: categoryEvent, EnvVars: []string{"GITHUB_EVENT_PULL_REQUEST_BASE_SHA"}, Usage: "Pull request base commit"},
	}
}
