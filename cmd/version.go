package cmd

import (
	"fmt"

	"github.com/masmgr/changed-files-go/internal/git"
	"github.com/urfave/cli/v2"
)

// VersionCmd returns the version command.
func VersionCmd() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print the tool and git versions",
		Action: func(c *cli.Context) error {
			fmt.Fprintf(c.App.Writer, "changed-files %s\n", Version)
			v, err := git.Version(c.Context)
			if err != nil {
				fmt.Fprintf(c.App.Writer, "git: unavailable (%v)\n", err)
				return nil
			}
			fmt.Fprintf(c.App.Writer, "git %s (minimum %s)\n", v, git.MinimumVersion)
			return nil
		},
	}
}
