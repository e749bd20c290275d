package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sizes = `width,height,size
1.0,1.5,small
8.0,9.0,large
1.2,1.3,small
8.2,8.8,large
`

func run(t *testing.T, args ...string) (string, error) {
	cmd := root()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAnalyze(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "sizes.csv")
	require.NoError(t, os.WriteFile(input, []byte(sizes), 0o644))

	out, err := run(t, "analyze", input, "--method", "kmeans", "--config", dir)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "kMeans\n"), out)

	out, err = run(t, "analyze", input, "-m", "classification", "--config", dir)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Classification results:\n"), out)

	out, err = run(t, "analyze", input, "-m", "svm", "--config", dir)
	require.NoError(t, err)
	assert.Equal(t, "Unrecognized analysis method: 'svm'\n", out)

	_, err = run(t, "analyze", filepath.Join(dir, "missing.csv"), "--config", dir)
	assert.Error(t, err)

	_, err = run(t, "analyze", "--config", dir)
	assert.Error(t, err)
}

func TestAnalyze_Config(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "sizes.csv")
	require.NoError(t, os.WriteFile(input, []byte(sizes), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "analysis.json"), []byte(`{"kmeans_clusters": 3}`), 0o644))

	out, err := run(t, "analyze", input, "-m", "kmeans", "--config", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Number of clusters: 3\n")
}

func TestServe_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "server.json"), []byte(`{"port": `), 0o644))

	assert.Panics(t, func() {
		_, _ = run(t, "serve", "--config", dir)
	})
}
