package cmd

import (
	"fmt"
	"io/ioutil"

	"github.com/spf13/cobra"
	"massnet.org/sha2/crypto/sha256"
	"massnet.org/sha2/hashutil"
)

func newPadCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "pad [string]",
		Short:       "Print the padded message in hex, one 64-byte block per line",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{skipFileLogs: ""},
		RunE: func(cmd *cobra.Command, args []string) error {
			var msg []byte
			if len(args) == 1 {
				msg = []byte(args[0])
			} else {
				data, err := ioutil.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				msg = data
			}

			padded := sha256.Pad(msg)
			for p := padded; len(p) > 0; p = p[sha256.BlockSize:] {
				fmt.Fprintln(cmd.OutOrStdout(), hashutil.EncodeToString(p[:sha256.BlockSize]))
			}
			return nil
		},
	}
}
