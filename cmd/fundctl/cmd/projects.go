package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newProjectsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List projects that have advances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := opts.app.Advances.Projects(cmd.Context())
			if err != nil {
				return err
			}

			out := stdout(cmd)
			if opts.output == outputJSON {
				return writeJSON(out, projects)
			}
			for _, code := range projects {
				fmt.Fprintln(out, code)
			}
			return nil
		},
	}
}
