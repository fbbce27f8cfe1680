package cmd

import (
	"github.com/masmgr/changed-files-go/config"
	"github.com/masmgr/changed-files-go/internal/output"
	"github.com/urfave/cli/v2"
)

func valueOptions(cfg *config.Config) output.ValueOptions {
	return output.ValueOptions{
		Separator:                    cfg.Output.Separator,
		OldNewSeparator:              cfg.Output.OldNewSeparator,
		OldNewFilesSeparator:         cfg.Output.OldNewFilesSeparator,
		IncludeAllOldNewRenamedFiles: cfg.Output.IncludeAllOldNewRenamedFiles,
		DirNames:                     cfg.Output.DirNames,
		DirNamesMaxDepth:             cfg.Output.DirNamesMaxDepth,
		DirNamesExcludeRoot:          cfg.Output.DirNamesExcludeRoot,
		JSON:                         cfg.Output.JSON,
		Relative:                     cfg.Diff.Relative,
	}
}

// outputOptions resolves the report destination. CI output goes to the
// step output file unless --output is given.
func outputOptions(c *cli.Context, cfg *config.Config, event EventContext) output.OutputOptions {
	format := output.OutputFormat(cfg.Output.Format)
	path := c.String("output")
	if path == "" && format == output.FormatCI {
		path = event.OutputFile
	}
	return output.OutputOptions{
		Format:     format,
		OutputPath: path,
		Values:     valueOptions(cfg),
	}
}

func writeReport(c *cli.Context, cfg *config.Config, event EventContext, report *output.ChangeReport) error {
	opts := outputOptions(c, cfg, event)
	if err := output.NewReportWriter(opts.Format).Write(report, opts); err != nil {
		return err
	}

	if c.Bool("step-summary") && event.StepSummary != "" && opts.Format != output.FormatMarkdown {
		summary := opts
		summary.Format = output.FormatMarkdown
		summary.OutputPath = event.StepSummary
		return output.NewReportWriter(output.FormatMarkdown).Write(report, summary)
	}
	return nil
}
