package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	sha2errors "massnet.org/sha2/errors"
	"massnet.org/sha2/logging"
)

// Execute runs the root command on os.Args and returns the process exit code.
// This is called by main.main().
func Execute() int {
	err := NewRootCmd().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "sha2sum: "+sha2errors.Describe(err))
		logging.VPrint(logging.ERROR, "command failed", logging.LogFormat{"err": err})
	}
	return sha2errors.ExitCode(err)
}

// NewRootCmd builds the command tree with fresh flag state.
func NewRootCmd() *cobra.Command {
	a := new(app)

	root := &cobra.Command{
		Use:           "sha2sum",
		Short:         "Compute and check SHA-256 message digests",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is ./.sha2sum.json)")
	flags.String("log_dir", "", "directory for log files")
	flags.String("log_level", "", "level of logs (trace, debug, info, warn, error, fatal, panic)")
	flags.Int("workers", 0, "number of concurrent hashers, 0 means one per logical cpu")

	root.AddCommand(newSumCmd(a))
	root.AddCommand(newCheckCmd(a))
	root.AddCommand(newPadCmd())
	root.AddCommand(newVersionCmd())
	return root
}
