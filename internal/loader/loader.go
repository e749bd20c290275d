package loader

import (
	"bufio"
	"bytes"
	"io"
	"path/filepath"
	"strings"

	"github.com/drakos74/free-learn/internal/model"
	"github.com/rs/zerolog/log"
)

// Format defines the encoding of the input data.
type Format string

const (
	// CSV is delimited text with a header row.
	CSV Format = "csv"
	// ARFF is the schema-bearing attribute-relation format.
	ARFF Format = "arff"
)

// FormatFromName derives the format from a file name suffix.
// Anything that is not a .csv file is read as ARFF.
func FormatFromName(name string) Format {
	if strings.EqualFold(filepath.Ext(name), ".csv") {
		return CSV
	}
	return ARFF
}

// Load parses the stream into a dataset.
func Load(r io.Reader, format Format) (*model.Dataset, error) {
	if r == nil {
		return nil, model.FormatError("empty dataset: no input stream")
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, model.FormatErrorFrom(err, "could not read input stream")
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return nil, model.FormatError("empty dataset: no data in input stream")
	}
	var ds *model.Dataset
	switch format {
	case CSV:
		ds, err = parseCSV(bytes.NewReader(b))
	default:
		ds, err = parseARFF(bufio.NewScanner(bytes.NewReader(b)))
	}
	if err != nil {
		return nil, err
	}
	log.Debug().
		Str("format", string(format)).
		Str("relation", ds.Relation).
		Int("attributes", ds.NumAttributes()).
		Int("rows", ds.NumRows()).
		Msg("loaded dataset")
	return ds, nil
}
