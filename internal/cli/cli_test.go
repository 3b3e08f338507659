package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Run_Rejects_Unknown_Command(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer

	code := Run(strings.NewReader(""), &out, &errOut, []string{"fmidx", "bogus"}, nil, nil)

	require.Equal(t, 2, code)
	assert.Contains(t, errOut.String(), "unknown command")
}

func Test_Run_Without_Arguments_Prints_Usage(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer

	code := Run(strings.NewReader(""), &out, &errOut, []string{"fmidx"}, nil, nil)

	require.Equal(t, 2, code)
	assert.Contains(t, errOut.String(), "usage:")
}

func Test_Build_And_Search_End_To_End(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	seqFile := filepath.Join(dir, "seqs.txt")
	queryFile := filepath.Join(dir, "queries.txt")
	indexFile := filepath.Join(dir, "test.fmi")

	require.NoError(t, os.WriteFile(seqFile, []byte("AAACAAACAAA\n"), 0o644))
	require.NoError(t, os.WriteFile(queryFile, []byte("AC\n"), 0o644))

	var out, errOut bytes.Buffer

	code := cmdBuild(&out, &errOut, dir, nil, []string{
		"-i", seqFile, "-o", indexFile, "--bi", "--sampling", "1",
	})
	require.Equal(t, 0, code, "stderr: %s", errOut.String())
	require.FileExists(t, indexFile)

	out.Reset()
	errOut.Reset()

	code = cmdSearch(&out, &errOut, dir, nil, []string{
		"-x", indexFile, "-q", queryFile,
	})
	require.Equal(t, 0, code, "stderr: %s", errOut.String())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	sort.Strings(lines)

	require.Equal(t, []string{"0\t0\t2\t0", "0\t0\t6\t0"}, lines)
}

func Test_Search_Approximate_Reports_Error_Counts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	seqFile := filepath.Join(dir, "seqs.txt")
	queryFile := filepath.Join(dir, "queries.txt")
	indexFile := filepath.Join(dir, "test.fmi")

	require.NoError(t, os.WriteFile(seqFile, []byte("AAACAAA\n"), 0o644))
	require.NoError(t, os.WriteFile(queryFile, []byte("AAAAAAA\n"), 0o644))

	var out, errOut bytes.Buffer

	code := cmdBuild(&out, &errOut, dir, nil, []string{
		"-i", seqFile, "-o", indexFile, "--bi", "--sampling", "1",
	})
	require.Equal(t, 0, code, "stderr: %s", errOut.String())

	out.Reset()

	code = cmdSearch(&out, &errOut, dir, nil, []string{
		"-x", indexFile, "-q", queryFile, "-k", "1",
	})
	require.Equal(t, 0, code, "stderr: %s", errOut.String())

	require.Equal(t, "0\t0\t0\t1", strings.TrimSpace(out.String()))
}

func Test_Search_Approximate_Requires_Bidirectional_Index(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	seqFile := filepath.Join(dir, "seqs.txt")
	queryFile := filepath.Join(dir, "queries.txt")
	indexFile := filepath.Join(dir, "test.fmi")

	require.NoError(t, os.WriteFile(seqFile, []byte("ACGTACGT\n"), 0o644))
	require.NoError(t, os.WriteFile(queryFile, []byte("ACG\n"), 0o644))

	var out, errOut bytes.Buffer

	code := cmdBuild(&out, &errOut, dir, nil, []string{"-i", seqFile, "-o", indexFile})
	require.Equal(t, 0, code)

	code = cmdSearch(&out, &errOut, dir, nil, []string{
		"-x", indexFile, "-q", queryFile, "-k", "1",
	})
	require.Equal(t, 1, code)
	assert.Contains(t, errOut.String(), "bidirectional")
}

func Test_Inspect_Prints_Index_Parameters(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	seqFile := filepath.Join(dir, "seqs.txt")
	indexFile := filepath.Join(dir, "test.fmi")

	require.NoError(t, os.WriteFile(seqFile, []byte("ACGT\nTTTT\n"), 0o644))

	var out, errOut bytes.Buffer

	code := cmdBuild(&out, &errOut, dir, nil, []string{"-i", seqFile, "-o", indexFile, "--bi"})
	require.Equal(t, 0, code)

	out.Reset()

	code = cmdInspect(&out, &errOut, []string{"-x", indexFile})
	require.Equal(t, 0, code, "stderr: %s", errOut.String())

	assert.Contains(t, out.String(), "bidirectional")
	assert.Contains(t, out.String(), "sigma:         5")
	assert.Contains(t, out.String(), "text length:   10")
}

func Test_Build_Rejects_Characters_Outside_Alphabet(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	seqFile := filepath.Join(dir, "seqs.txt")

	require.NoError(t, os.WriteFile(seqFile, []byte("ACGTX\n"), 0o644))

	var out, errOut bytes.Buffer

	code := cmdBuild(&out, &errOut, dir, nil, []string{"-i", seqFile, "-o", filepath.Join(dir, "x.fmi")})
	require.Equal(t, 1, code)
	assert.Contains(t, errOut.String(), "not in alphabet")
}
