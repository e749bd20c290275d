package file

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// Spool copies the stream into a new temporary file under dir,
// or the default temp directory if dir is empty.
// The file name ends with the given suffix so that its format can be told from the name.
// The returned release func removes the file and must always be called.
func Spool(dir string, r io.Reader, suffix string) (string, func(), error) {
	f, err := os.CreateTemp(dir, "upload-*"+filepath.Ext(suffix))
	if err != nil {
		return "", func() {}, fmt.Errorf("could not create temporary file: %w", err)
	}
	path := f.Name()
	release := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Error().Err(err).Str("path", path).Msg("could not remove temporary file")
		}
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		release()
		return "", func() {}, fmt.Errorf("could not write temporary file '%s': %w", path, err)
	}
	log.Debug().Str("path", path).Int64("bytes", n).Msg("spooled")
	return path, release, nil
}
