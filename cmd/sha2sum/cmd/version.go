package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"massnet.org/sha2/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print the version number",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipFileLogs: ""},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "sha2sum version", version.GetVersion())
		},
	}
}
