package cmd

import (
	"bytes"
	gosha256 "crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sha2errors "massnet.org/sha2/errors"
	"massnet.org/sha2/hashutil"
)

type fixture struct {
	dir    string
	logDir string
}

func newFixture(t *testing.T) *fixture {
	dir, err := os.MkdirTemp("", "sha2sum-cmd")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	return &fixture{dir: dir, logDir: filepath.Join(dir, "logs")}
}

func (f *fixture) write(t *testing.T, name, content string) string {
	path := filepath.Join(f.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func (f *fixture) run(stdin string, args ...string) (string, string, error) {
	root := NewRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append(args, "--log_dir", f.logDir, "--workers", "2"))
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func hexSum(s string) string {
	sum := gosha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func TestSumFiles(t *testing.T) {
	f := newFixture(t)
	a := f.write(t, "a.txt", "alpha")
	b := f.write(t, "b.txt", "")

	out, _, err := f.run("", "sum", a, b)
	require.NoError(t, err)
	assert.Equal(t, hexSum("alpha")+"  "+a+"\n"+hexSum("")+"  "+b+"\n", out)
}

func TestSumStdinAndTag(t *testing.T) {
	f := newFixture(t)

	out, _, err := f.run("The quick brown fox jumps over the lazy dog.", "sum")
	require.NoError(t, err)
	assert.Equal(t, hexSum("The quick brown fox jumps over the lazy dog.")+"  -\n", out)

	out, _, err = f.run("0", "sum", "--tag", "-")
	require.NoError(t, err)
	assert.Equal(t, "sha256:5feceb66ffc86f38d952786c6d696c79c2dbc239dd4e91b46729d73a27fb57e9  -\n", out)
}

func TestSumStdinTwice(t *testing.T) {
	f := newFixture(t)
	a := f.write(t, "a.txt", "beta")

	out, _, err := f.run("alpha", "sum", "-", a, "-")
	require.NoError(t, err)
	assert.Equal(t, hexSum("alpha")+"  -\n"+hexSum("beta")+"  "+a+"\n"+hexSum("alpha")+"  -\n", out)
}

func TestSumMissingFile(t *testing.T) {
	f := newFixture(t)
	a := f.write(t, "a.txt", "alpha")
	missing := filepath.Join(f.dir, "missing.txt")

	out, stderr, err := f.run("", "sum", missing, a)
	require.Error(t, err)
	assert.Equal(t, uint32(sha2errors.ErrFileNotFound), sha2errors.Code(err))
	assert.Equal(t, 2, sha2errors.ExitCode(err))
	assert.Equal(t, hexSum("alpha")+"  "+a+"\n", out)
	assert.Contains(t, stderr, "missing.txt")
}

func TestCheckFile(t *testing.T) {
	f := newFixture(t)
	a := f.write(t, "a.txt", "alpha")
	b := f.write(t, "b.txt", "beta")
	sums := f.write(t, "SHA256SUMS", strings.Join([]string{
		"# generated",
		hexSum("alpha") + "  " + a,
		"sha256:" + hexSum("beta") + " *" + b,
		"",
	}, "\n"))

	out, _, err := f.run("", "check", sums)
	require.NoError(t, err)
	assert.Equal(t, a+": OK\n"+b+": OK\n", out)

	require.NoError(t, os.WriteFile(b, []byte("changed"), 0600))
	out, _, err = f.run("", "check", sums)
	require.Error(t, err)
	assert.Equal(t, sha2errors.ErrMismatch, pkgerrors.Cause(err))
	assert.Equal(t, 1, sha2errors.ExitCode(err))
	assert.Equal(t, a+": OK\n"+b+": FAILED\n", out)

	out, _, err = f.run("", "check", "--quiet", sums)
	require.Error(t, err)
	assert.Equal(t, b+": FAILED\n", out)
}

func TestCheckStdinBadLines(t *testing.T) {
	f := newFixture(t)

	_, stderr, err := f.run("not a checksum line\n", "check")
	require.Error(t, err)
	assert.Equal(t, uint32(sha2errors.ErrChecksumLine), sha2errors.Code(err))
	assert.Contains(t, stderr, "1 line(s) improperly formatted")
}

func TestCheckUnreadable(t *testing.T) {
	f := newFixture(t)
	missing := filepath.Join(f.dir, "gone.txt")

	out, _, err := f.run(hexSum("x")+"  "+missing+"\n", "check", "-")
	require.Error(t, err)
	assert.Equal(t, sha2errors.ErrMismatch, pkgerrors.Cause(err))
	assert.Equal(t, missing+": FAILED open or read\n", out)
}

func TestSumRecordAndCheckDB(t *testing.T) {
	f := newFixture(t)
	a := f.write(t, "a.txt", "alpha")
	b := f.write(t, "b.txt", "beta")
	db := filepath.Join(f.dir, "sums.db")

	_, _, err := f.run("", "sum", "--db", db, a, b)
	require.NoError(t, err)

	out, _, err := f.run("", "check", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, a+": OK\n"+b+": OK\n", out)

	require.NoError(t, os.WriteFile(a, []byte("tampered"), 0600))
	out, _, err = f.run("", "check", "--db", db)
	assert.Equal(t, 1, sha2errors.ExitCode(err))
	assert.Equal(t, a+": FAILED\n"+b+": OK\n", out)
}

func TestPad(t *testing.T) {
	f := newFixture(t)

	out, _, err := f.run("", "pad", "abcde")
	require.NoError(t, err)
	assert.Equal(t, "6162636465"+"80"+strings.Repeat("00", 50)+"0000000000000028\n", out)

	out, _, err = f.run(strings.Repeat("x", 56), "pad")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 2)
}

func TestVersion(t *testing.T) {
	f := newFixture(t)
	out, _, err := f.run("", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "sha2sum version "))
}

func TestPureCommandsSkipFileLogs(t *testing.T) {
	f := newFixture(t)

	for _, args := range [][]string{{"version"}, {"pad", "abc"}} {
		_, _, err := f.run("", args...)
		require.NoError(t, err)
		assert.NoDirExists(t, f.logDir, args[0])
	}

	_, _, err := f.run("x", "sum")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(f.logDir, "sha2sum.log"))
}

func TestBadLogLevel(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.run("", "version", "--log_level", "loud")
	assert.Error(t, err)
}

func TestParseChecksumLine(t *testing.T) {
	h := hashutil.SHA256([]byte("x"))

	tests := []struct {
		line string
		name string
		ok   bool
	}{
		{h.String() + "  file.txt", "file.txt", true},
		{h.String() + " *file.bin", "file.bin", true},
		{h.String() + "  name with spaces", "name with spaces", true},
		{"sha256:" + h.String() + "  tagged", "tagged", true},
		{h.String(), "", false},
		{h.String() + "  ", "", false},
		{"1234  short", "", false},
		{"md5:" + h.String() + "  file", "", false},
	}

	for _, test := range tests {
		line, err := parseChecksumLine(test.line)
		if !test.ok {
			assert.Error(t, err, test.line)
			assert.Equal(t, sha2errors.ErrBadChecksumLine, pkgerrors.Cause(err))
			continue
		}
		require.NoError(t, err, test.line)
		assert.Equal(t, h, line.hash)
		assert.Equal(t, test.name, line.name)
	}
}

func TestConfigFileAndEnv(t *testing.T) {
	f := newFixture(t)
	cfgFile := f.write(t, "cfg.json",
		`{"pool":{"workers":3,"cache_entries":0},"log":{"log_dir":"`+f.logDir+`","log_level":"debug"}}`)

	a := &app{cfgFile: cfgFile}
	require.NoError(t, a.init(&cobra.Command{Use: "test"}))
	assert.True(t, a.usingConfigFile)
	assert.Equal(t, 3, a.cfg.Pool.Workers)
	assert.Equal(t, 0, a.cfg.Pool.CacheEntries)
	assert.Equal(t, "debug", a.cfg.Log.LogLevel)

	t.Setenv("SHA2SUM_POOL_WORKERS", "5")
	a = &app{cfgFile: cfgFile}
	require.NoError(t, a.init(&cobra.Command{Use: "test"}))
	assert.Equal(t, 5, a.cfg.Pool.Workers)

	pool, err := a.workerPool()
	require.NoError(t, err)
	assert.Equal(t, 5, pool.Workers())
	a.close()
	assert.Nil(t, a.pool)

	a = &app{cfgFile: filepath.Join(f.dir, "missing.json")}
	assert.Error(t, a.init(&cobra.Command{Use: "test"}))
}
