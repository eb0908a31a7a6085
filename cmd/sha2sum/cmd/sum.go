package cmd

import (
	"fmt"
	"io/ioutil"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"massnet.org/sha2/database/sumdb"
	"massnet.org/sha2/hashutil"
	"massnet.org/sha2/logging"
)

const stdinName = "-"

func newSumCmd(a *app) *cobra.Command {
	var (
		tag   bool
		dbDir string
	)

	cmd := &cobra.Command{
		Use:   "sum [file...]",
		Short: "Print SHA-256 digests of files, or of stdin when no file is given",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.close()
			if len(args) == 0 {
				args = []string{stdinName}
			}
			if dbDir == "" {
				dbDir = a.cfg.Datastore.Dir
			}
			logging.CPrint(logging.DEBUG, "sum called", logging.LogFormat{"files": len(args), "db": dbDir})

			var (
				stdinSum  hashutil.Hash
				stdinRead bool
				paths     []string
			)
			for _, arg := range args {
				if arg == stdinName {
					// stdin drains on first read, later "-" reuse its digest
					if stdinRead {
						continue
					}
					stdinRead = true
					data, err := ioutil.ReadAll(cmd.InOrStdin())
					if err != nil {
						return errors.Wrap(err, "read stdin")
					}
					stdinSum = hashutil.SHA256(data)
					continue
				}
				paths = append(paths, arg)
			}

			pool, err := a.workerPool()
			if err != nil {
				return err
			}
			results, err := pool.HashFiles(cmd.Context(), paths)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			records := make(map[string]hashutil.Hash)
			var firstErr error
			next := 0
			for _, arg := range args {
				if arg == stdinName {
					fmt.Fprintln(out, formatSum(stdinSum, arg, tag))
					continue
				}
				r := results[next]
				next++
				if r.Err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "sha2sum: %v\n", r.Err)
					logging.VPrint(logging.WARN, "cannot hash file", logging.LogFormat{"path": r.Path, "err": r.Err})
					if firstErr == nil {
						firstErr = r.Err
					}
					continue
				}
				fmt.Fprintln(out, formatSum(r.Hash, r.Path, tag))
				records[r.Path] = r.Hash
			}

			if dbDir != "" && len(records) > 0 {
				db, err := sumdb.Open(a.cfg.Datastore.DBType, dbDir)
				if err != nil {
					return err
				}
				defer db.Close()
				if err := db.PutAll(records); err != nil {
					return errors.Wrap(err, "record digests")
				}
				logging.VPrint(logging.INFO, "recorded digests", logging.LogFormat{"count": len(records), "db": dbDir})
			}
			return firstErr
		},
	}

	cmd.Flags().BoolVar(&tag, "tag", false, "print digests as sha256:<hex> content addresses")
	cmd.Flags().StringVar(&dbDir, "db", "", "also record the digests in this database directory")
	return cmd
}
