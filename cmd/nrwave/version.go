package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of nrwave",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format == "json" {
				return writeJSON(opts.stdout, map[string]string{"version": version})
			}
			_, err := fmt.Fprintf(opts.stdout, "nrwave %s\n", version)
			return err
		},
	}
}
