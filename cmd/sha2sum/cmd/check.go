package cmd

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"massnet.org/sha2/database/sumdb"
	sha2errors "massnet.org/sha2/errors"
	"massnet.org/sha2/hashutil"
	"massnet.org/sha2/logging"
)

func newCheckCmd(a *app) *cobra.Command {
	var (
		dbDir string
		quiet bool
	)

	cmd := &cobra.Command{
		Use:   "check [checksum-file]",
		Short: "Verify files against a checksum file, or against recorded digests with --db",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.close()

			var (
				lines []checksumLine
				bad   int
				err   error
			)
			switch {
			case dbDir != "":
				lines, err = linesFromDB(a.cfg.Datastore.DBType, dbDir)
			case len(args) == 0 || args[0] == stdinName:
				lines, bad, err = readChecksumFile(cmd.InOrStdin())
			default:
				lines, bad, err = linesFromFile(args[0])
			}
			if err != nil {
				return err
			}
			if bad > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "sha2sum: WARNING: %d line(s) improperly formatted\n", bad)
			}
			if len(lines) == 0 {
				if bad > 0 {
					return errors.Wrap(sha2errors.ErrBadChecksumLine, "no properly formatted checksum lines found")
				}
				return nil
			}

			paths := make([]string, len(lines))
			for i, l := range lines {
				paths[i] = l.name
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
			failed, unreadable := 0, 0
			for i, r := range results {
				switch {
				case r.Err != nil:
					unreadable++
					fmt.Fprintf(out, "%s: FAILED open or read\n", r.Path)
				case r.Hash != lines[i].hash:
					failed++
					fmt.Fprintf(out, "%s: FAILED\n", r.Path)
				case !quiet:
					fmt.Fprintf(out, "%s: OK\n", r.Path)
				}
			}
			logging.CPrint(logging.DEBUG, "check finished", logging.LogFormat{
				"total":      len(lines),
				"failed":     failed,
				"unreadable": unreadable,
			})

			if failed+unreadable > 0 {
				return errors.Wrapf(sha2errors.ErrMismatch, "%d of %d computed checksums did NOT match, %d unreadable",
					failed, len(lines), unreadable)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbDir, "db", "", "verify against digests recorded in this database directory")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "do not print OK for each verified file")
	return cmd
}

func linesFromFile(path string) ([]checksumLine, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()
	return readChecksumFile(f)
}

func linesFromDB(dbtype, dir string) ([]checksumLine, error) {
	db, err := sumdb.Open(dbtype, dir)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var lines []checksumLine
	err = db.ForEach(func(name string, h hashutil.Hash) error {
		lines = append(lines, checksumLine{hash: h, name: name})
		return nil
	})
	return lines, err
}
