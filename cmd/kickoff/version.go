package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/kickoff/internal/output"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print version information",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfig: "true"},
		Run: func(cmd *cobra.Command, args []string) {
			output.FromContext(cmd.Context()).Println(versionString())
		},
	}
}
