package cmd

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
	sha2errors "massnet.org/sha2/errors"
	"massnet.org/sha2/hashutil"
)

// checksumLine is one "<digest>  <name>" entry. The digest is bare hex or
// "sha256:<hex>"; a '*' before the name marks binary mode and is dropped.
type checksumLine struct {
	hash hashutil.Hash
	name string
}

func parseChecksumLine(line string) (checksumLine, error) {
	fields := strings.SplitN(line, " ", 2)
	if len(fields) != 2 {
		return checksumLine{}, errors.Wrapf(sha2errors.ErrBadChecksumLine, "%q", line)
	}
	h, err := hashutil.ParseContentDigest(fields[0])
	if err != nil {
		return checksumLine{}, errors.Wrapf(sha2errors.ErrBadChecksumLine, "%q: %v", line, err)
	}

	name := fields[1]
	if strings.HasPrefix(name, " ") || strings.HasPrefix(name, "*") {
		name = name[1:]
	}
	if name == "" {
		return checksumLine{}, errors.Wrapf(sha2errors.ErrBadChecksumLine, "%q: missing file name", line)
	}
	return checksumLine{hash: h, name: name}, nil
}

// readChecksumFile parses every non-empty, non-comment line of r. Lines that
// do not parse are counted in bad.
func readChecksumFile(r io.Reader) (lines []checksumLine, bad int, err error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		text := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(text) == "" || strings.HasPrefix(text, "#") {
			continue
		}
		line, err := parseChecksumLine(text)
		if err != nil {
			bad++
			continue
		}
		lines = append(lines, line)
	}
	return lines, bad, scanner.Err()
}

func formatSum(h hashutil.Hash, name string, tag bool) string {
	if tag {
		return h.ContentDigest().String() + "  " + name
	}
	return h.String() + "  " + name
}
