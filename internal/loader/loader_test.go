package loader

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/drakos74/free-learn/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const weatherARFF = `% weather data
@relation weather

@attribute outlook {sunny, overcast, rainy}
@attribute temperature numeric
@attribute 'wind speed' real
@attribute remark string
@attribute play {yes,no}

@data
sunny,85,10.5,'hot day',no
overcast,83,3,calm,yes
% a comment in the data
rainy,70,7.25,"wet, windy",yes
`

func TestFormatFromName(t *testing.T) {
	assert.Equal(t, CSV, FormatFromName("data.csv"))
	assert.Equal(t, CSV, FormatFromName("DATA.CSV"))
	assert.Equal(t, ARFF, FormatFromName("data.arff"))
	assert.Equal(t, ARFF, FormatFromName("data"))
	assert.Equal(t, ARFF, FormatFromName(""))
}

func TestLoad_CSV(t *testing.T) {

	type test struct {
		data  string
		kinds []model.Kind
		rows  int
	}

	tests := map[string]test{
		"numeric-and-text": {
			data:  "a,b,c\n1,2,red\n3,4.5,blue\n",
			kinds: []model.Kind{model.Numeric, model.Numeric, model.Text},
			rows:  2,
		},
		"mixed-column-is-text": {
			data:  "a,b\n1,x\ny,2\n",
			kinds: []model.Kind{model.Text, model.Text},
			rows:  2,
		},
		"quoted-and-spaced": {
			data:  "name, value\n\"Smith, J\", 10\n\"Doe\", 11\n",
			kinds: []model.Kind{model.Text, model.Numeric},
			rows:  2,
		},
		"non-finite-is-text": {
			data:  "a,b,c,d\nNaN,Inf,1,0x1p-2\n1,2,-Infinity,3\n",
			kinds: []model.Kind{model.Text, model.Text, model.Text, model.Text},
			rows:  2,
		},
		"exponent-is-numeric": {
			data:  "a,b\n1e3,-2.5E-1\n+4,.5\n",
			kinds: []model.Kind{model.Numeric, model.Numeric},
			rows:  2,
		},
		"header-only": {
			data:  "a,b,c\n",
			kinds: []model.Kind{model.Text, model.Text, model.Text},
			rows:  0,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			ds, err := Load(strings.NewReader(tt.data), CSV)
			require.NoError(t, err)
			assert.Equal(t, len(tt.kinds), ds.NumAttributes())
			assert.Equal(t, tt.rows, ds.NumRows())
			for i, k := range tt.kinds {
				assert.Equal(t, k, ds.Attributes[i].Kind, "attribute %d", i)
			}
			assert.Equal(t, model.NoClass, ds.ClassIndex)
			assert.NoError(t, ds.Check())
		})
	}
}

func TestLoad_CSVShape(t *testing.T) {
	for n := 2; n < 6; n++ {
		for r := 1; r < 20; r += 6 {
			b := new(strings.Builder)
			for j := 0; j < n; j++ {
				if j > 0 {
					b.WriteString(",")
				}
				b.WriteString(fmt.Sprintf("col%d", j))
			}
			b.WriteString("\n")
			for i := 0; i < r; i++ {
				for j := 0; j < n; j++ {
					if j > 0 {
						b.WriteString(",")
					}
					b.WriteString(fmt.Sprintf("%d", i*j))
				}
				b.WriteString("\n")
			}
			ds, err := Load(strings.NewReader(b.String()), CSV)
			require.NoError(t, err)
			assert.Equal(t, n, ds.NumAttributes())
			assert.Equal(t, r, ds.NumRows())
		}
	}
}

func TestLoad_CSVErrors(t *testing.T) {

	type test struct {
		data    string
		message string
	}

	tests := map[string]test{
		"inconsistent-row": {
			data:    "a,b,c\n1,2,3\n4,5\n",
			message: "line 3 has 2 values, expected 3",
		},
		"empty": {
			data:    "",
			message: "empty dataset",
		},
		"blank": {
			data:    "  \n\n",
			message: "empty dataset",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.data), CSV)
			require.Error(t, err)
			assert.True(t, errors.Is(err, model.ErrFormat))
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

type failingReader struct{}

func (f failingReader) Read(p []byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestLoad_Unreadable(t *testing.T) {
	_, err := Load(failingReader{}, CSV)
	assert.True(t, errors.Is(err, model.ErrFormat))
	assert.Contains(t, err.Error(), "broken pipe")

	_, err = Load(nil, ARFF)
	assert.True(t, errors.Is(err, model.ErrFormat))
}

func TestLoad_ARFF(t *testing.T) {
	ds, err := Load(strings.NewReader(weatherARFF), ARFF)
	require.NoError(t, err)

	assert.Equal(t, "weather", ds.Relation)
	assert.Equal(t, 5, ds.NumAttributes())
	assert.Equal(t, 3, ds.NumRows())

	assert.Equal(t, model.NewNominal("outlook", "sunny", "overcast", "rainy"), ds.Attributes[0])
	assert.Equal(t, model.NewNumeric("temperature"), ds.Attributes[1])
	assert.Equal(t, model.NewNumeric("wind speed"), ds.Attributes[2])
	assert.Equal(t, model.NewText("remark"), ds.Attributes[3])
	assert.Equal(t, model.NewNominal("play", "yes", "no"), ds.Attributes[4])

	assert.Equal(t, 7.25, ds.Rows[2][2].Num)
	assert.Equal(t, "hot day", ds.Rows[0][3].Str)
	assert.Equal(t, "wet, windy", ds.Rows[2][3].Str)
	assert.Equal(t, model.NoClass, ds.ClassIndex)
	assert.NoError(t, ds.Check())
}

func TestLoad_ARFFErrors(t *testing.T) {

	type test struct {
		data    string
		message string
	}

	tests := map[string]test{
		"undeclared-label": {
			data:    "@relation r\n@attribute a {x,y}\n@attribute b numeric\n@data\nz,1\n",
			message: "value 'z' not declared",
		},
		"not-numeric": {
			data:    "@relation r\n@attribute a {x,y}\n@attribute b numeric\n@data\nx,abc\n",
			message: "is not numeric",
		},
		"not-finite": {
			data:    "@relation r\n@attribute a {x,y}\n@attribute b numeric\n@data\nx,NaN\n",
			message: "value 'NaN' of 'b' is not numeric",
		},
		"hexadecimal": {
			data:    "@relation r\n@attribute a {x,y}\n@attribute b numeric\n@data\nx,0x10\n",
			message: "value '0x10' of 'b' is not numeric",
		},
		"wrong-width": {
			data:    "@relation r\n@attribute a {x,y}\n@attribute b numeric\n@data\nx,1,2\n",
			message: "line 5 has 3 values, expected 2",
		},
		"no-data": {
			data:    "@relation r\n@attribute a numeric\n",
			message: "no @data section",
		},
		"unknown-type": {
			data:    "@relation r\n@attribute a date\n@data\n",
			message: "unsupported type",
		},
		"not-arff": {
			data:    "a,b\n1,2\n",
			message: "unexpected declaration on line 1",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.data), ARFF)
			require.Error(t, err)
			assert.True(t, errors.Is(err, model.ErrFormat))
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}
