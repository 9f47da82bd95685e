package main

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/katalvlaran/pacp/canon"
	"github.com/katalvlaran/pacp/config"
	"github.com/katalvlaran/pacp/sequence"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()

	return out.String(), errOut.String(), err
}

// classesOf reads L,PSL,A,B lines and returns their distinct solution keys.
func classesOf(t *testing.T, text string) map[string]int {
	t.Helper()
	classes := make(map[string]int)
	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		a, b, err := sequence.ParsePair(sc.Text())
		require.NoError(t, err, sc.Text())
		classes[canon.Canonicalizer{}.Solution(a, b).String()]++
	}

	return classes
}

// TestSearch_FileAndDB runs twice against the same result file and database; the
// second run only adds classes the first did not find, and list agrees with the file.
func TestSearch_FileAndDB(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "results.txt")
	db := filepath.Join(dir, "db")
	args := []string{"search", "-L", "6", "-w", "1", "-n", "2", "--iterations", "200000",
		"-o", out, "--db", db, "--log-level", "warn"}

	_, _, err := execute(t, append(args, "--seed", "1")...)
	require.NoError(t, err)
	first, err := os.ReadFile(out)
	require.NoError(t, err)
	before := classesOf(t, string(first))
	require.GreaterOrEqual(t, len(before), 2)

	_, _, err = execute(t, append(args, "--seed", "2")...)
	require.NoError(t, err)
	second, err := os.ReadFile(out)
	require.NoError(t, err)
	added := classesOf(t, strings.TrimPrefix(string(second), string(first)))
	require.NotEmpty(t, added)
	for k := range added {
		require.NotContains(t, before, k)
	}

	listed, _, err := execute(t, "list", "--db", db, "-L", "6")
	require.NoError(t, err)
	stored := classesOf(t, listed)
	for k, n := range stored {
		require.Equal(t, 1, n, k)
	}
	require.Equal(t, len(classesOf(t, string(second))), len(stored))
	for _, line := range strings.Split(strings.TrimSpace(listed), "\n") {
		require.True(t, strings.HasPrefix(line, "6,4,"), line)
	}
}

// TestSearch_Stdout writes results to stdout and logs JSON to stderr.
func TestSearch_Stdout(t *testing.T) {
	stdout, stderr, err := execute(t, "search", "-L", "4", "-w", "1", "-n", "1",
		"--iterations", "100000", "-o", "-", "--seed", "3")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(stdout, "4,4,"), stdout)
	require.Len(t, classesOf(t, stdout), 1)
	require.Contains(t, stderr, `"msg":"search finished"`)
}

// TestSearch_ConfigFileAndFlags: flags override the file; a bad seed file only warns.
func TestSearch_ConfigFileAndFlags(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "run.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
search:
  length: 9
  workers: 1
  policy: tabu
  iterations: 1000
output:
  result_file: "-"
observability:
  log_format: text
`), 0o644))
	seedPath := filepath.Join(dir, "seed.txt")
	require.NoError(t, os.WriteFile(seedPath, []byte("++x-,+-+-\n"), 0o644))

	stdout, stderr, err := execute(t, "search", "--config", cfgPath, "-L", "4", "-n", "1",
		"--iterations", "100000", "--seed-file", seedPath)
	require.NoError(t, err)
	require.Contains(t, stderr, "seed file unusable")
	require.Contains(t, stderr, "policy=tabu")
	require.True(t, strings.HasPrefix(stdout, "4,4,"), stdout)
}

// TestSearch_SeedFile starts from a strict pair and emits it first.
func TestSearch_SeedFile(t *testing.T) {
	seedPath := filepath.Join(t.TempDir(), "seed.txt")
	require.NoError(t, os.WriteFile(seedPath, []byte("4,4,++--,+-+-\n"), 0o644))

	stdout, _, err := execute(t, "search", "-L", "4", "-w", "1", "-n", "1", "-o", "-",
		"--seed-file", seedPath, "--log-level", "error")
	require.NoError(t, err)
	require.Equal(t, "4,4,++--,+-+-\n", stdout)
}

// TestSearch_Invalid rejects a missing length and an unknown policy.
func TestSearch_Invalid(t *testing.T) {
	_, _, err := execute(t, "search", "-o", "-")
	require.ErrorIs(t, err, config.ErrInvalid)

	_, _, err = execute(t, "search", "-L", "8", "--policy", "genetic")
	require.ErrorIs(t, err, config.ErrInvalid)

	_, _, err = execute(t, "search", "-L", "8", "--time", "soon")
	require.Error(t, err)

	_, _, err = execute(t, "list")
	require.Error(t, err)
}
