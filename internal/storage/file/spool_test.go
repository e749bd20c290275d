package file

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpool(t *testing.T) {
	dir := t.TempDir()

	path, release, err := Spool(dir, strings.NewReader("a,b\n1,2\n"), "data.csv")
	require.NoError(t, err)
	assert.Equal(t, ".csv", filepath.Ext(path))
	assert.Equal(t, dir, filepath.Dir(path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(b))

	release()
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// releasing twice is harmless
	release()
}

func TestSpool_NoSuffix(t *testing.T) {
	path, release, err := Spool(t.TempDir(), strings.NewReader("@relation r"), "dataset")
	require.NoError(t, err)
	defer release()
	assert.Equal(t, "", filepath.Ext(path))
}

type brokenReader struct{}

func (b brokenReader) Read(p []byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestSpool_Error(t *testing.T) {
	dir := t.TempDir()
	_, release, err := Spool(dir, brokenReader{}, "data.arff")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	release()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
