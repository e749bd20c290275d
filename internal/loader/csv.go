package loader

import (
	"encoding/csv"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/drakos74/free-learn/internal/model"
)

const csvRelation = "stream"

// parseCSV reads a header row and the data rows.
// Columns where every value is a number become numeric, everything else text.
func parseCSV(r io.Reader) (*model.Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, model.FormatError("empty dataset: no data in input stream")
		}
		return nil, model.FormatErrorFrom(err, "could not read csv header")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	records := make([][]string, 0)
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, model.FormatErrorFrom(err, "could not read csv line %d", line+1)
		}
		line, _ = reader.FieldPos(0)
		if len(record) != len(header) {
			return nil, model.FormatError("inconsistent csv format: line %d has %d values, expected %d",
				line, len(record), len(header))
		}
		for i := range record {
			record[i] = strings.TrimSpace(record[i])
		}
		records = append(records, record)
	}

	attributes := make([]model.Attribute, len(header))
	numeric := make([]bool, len(header))
	for j, name := range header {
		numeric[j] = isNumericColumn(records, j)
		if numeric[j] {
			attributes[j] = model.NewNumeric(name)
		} else {
			attributes[j] = model.NewText(name)
		}
	}

	ds := model.NewDataset(csvRelation, attributes...)
	for _, record := range records {
		instance := make(model.Instance, len(record))
		for j, v := range record {
			if numeric[j] {
				f, _ := parseNumber(v)
				instance[j] = model.Num(f)
			} else {
				instance[j] = model.Str(v)
			}
		}
		ds.Append(instance)
	}
	return ds, nil
}

// parseNumber parses a finite decimal number.
// NaN, infinities and hexadecimal floats are not numbers for the dataset.
func parseNumber(v string) (float64, bool) {
	if strings.ContainsAny(v, "xX") {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func isNumericColumn(records [][]string, j int) bool {
	if len(records) == 0 {
		return false
	}
	for _, record := range records {
		if _, ok := parseNumber(record[j]); !ok {
			return false
		}
	}
	return true
}
