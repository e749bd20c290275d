package prep

import (
	"errors"
	"math"
	"testing"

	"github.com/drakos74/free-learn/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func colours() *model.Dataset {
	ds := model.NewDataset("colours",
		model.NewNumeric("size"),
		model.NewText("colour"),
		model.NewNumeric("grade"),
	)
	ds.Append(model.Instance{model.Num(1), model.Str("red"), model.Num(2)})
	ds.Append(model.Instance{model.Num(2), model.Str("blue"), model.Num(1)})
	ds.Append(model.Instance{model.Num(3), model.Str("red"), model.Num(2.5)})
	return ds
}

func TestValidate(t *testing.T) {

	type test struct {
		ds      *model.Dataset
		message string
	}

	single := model.NewDataset("single", model.NewNumeric("a"))
	single.Append(model.Instance{model.Num(1)})

	tests := map[string]test{
		"nil": {
			ds:      nil,
			message: "empty dataset",
		},
		"no-rows": {
			ds:      model.NewDataset("empty", model.NewNumeric("a"), model.NewNumeric("b")),
			message: "empty dataset",
		},
		"single-attribute": {
			ds:      single,
			message: "insufficient attributes",
		},
		"valid": {
			ds: colours(),
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := Validate(tt.ds)
			if tt.message == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, model.ErrValidation))
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestStringToNominal(t *testing.T) {
	ds := colours()
	out := StringToNominal(ds)

	assert.Equal(t, model.NewNominal("colour", "red", "blue"), out.Attributes[1])
	assert.Equal(t, "red", out.Rows[0][1].Str)
	assert.Equal(t, "blue", out.Rows[1][1].Str)
	assert.Equal(t, "red", out.Rows[2][1].Str)
	assert.NoError(t, out.Check())

	// the input is left untouched
	assert.Equal(t, model.Text, ds.Attributes[1].Kind)
	// numeric attributes are not affected
	assert.Equal(t, model.Numeric, out.Attributes[0].Kind)
}

func TestNumericToNominal(t *testing.T) {
	out := NumericToNominal(colours(), 2)
	assert.Equal(t, model.NewNominal("grade", "1", "2", "2.5"), out.Attributes[2])
	assert.Equal(t, "2", out.Rows[0][2].Str)
	assert.Equal(t, "1", out.Rows[1][2].Str)
	assert.Equal(t, "2.5", out.Rows[2][2].Str)

	// non numeric attributes are left as they are
	same := NumericToNominal(colours(), 1)
	assert.Equal(t, colours(), same)
}

func TestNumericToNominal_Labels(t *testing.T) {

	type test struct {
		values []float64
		labels []string
	}

	tests := map[string]test{
		"repeated": {
			values: []float64{3, 1, 3, 1},
			labels: []string{"1", "3"},
		},
		"not-a-number": {
			values: []float64{math.NaN(), 1, math.NaN()},
			labels: []string{"NaN", "1"},
		},
		"signed-zero": {
			values: []float64{0, math.Copysign(0, -1), 2},
			labels: []string{"0", "-0", "2"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			ds := model.NewDataset("values", model.NewNumeric("v"))
			for _, v := range tt.values {
				ds.Append(model.Instance{model.Num(v)})
			}
			out := NumericToNominal(ds, 0)
			assert.ElementsMatch(t, tt.labels, out.Attributes[0].Values)
			assert.Len(t, out.Attributes[0].Values, len(tt.labels))
			require.NoError(t, out.Check())
		})
	}
}

func TestDesignateClass(t *testing.T) {
	ds, err := DesignateClass(colours(), "")
	require.NoError(t, err)
	assert.Equal(t, 2, ds.ClassIndex)

	ds, err = DesignateClass(colours(), "size")
	require.NoError(t, err)
	assert.Equal(t, 0, ds.ClassIndex)

	preset := colours()
	preset.ClassIndex = 1
	ds, err = DesignateClass(preset, "")
	require.NoError(t, err)
	assert.Equal(t, 1, ds.ClassIndex)

	_, err = DesignateClass(colours(), "weight")
	assert.True(t, errors.Is(err, model.ErrValidation))

	single := model.NewDataset("single", model.NewNumeric("a"))
	ds, err = DesignateClass(single, "")
	require.NoError(t, err)
	assert.Equal(t, model.NoClass, ds.ClassIndex)
}

func TestNormalize(t *testing.T) {
	out, err := Normalize(colours(), "")
	require.NoError(t, err)

	assert.Equal(t, 2, out.ClassIndex)
	assert.Equal(t, model.Numeric, out.Attributes[0].Kind)
	assert.Equal(t, model.NewNominal("colour", "red", "blue"), out.Attributes[1])
	assert.Equal(t, model.NewNominal("grade", "1", "2", "2.5"), out.Attributes[2])
	assert.NoError(t, out.Check())

	// a nominal class is kept as it is
	nominal, err := Normalize(colours(), "colour")
	require.NoError(t, err)
	assert.Equal(t, 1, nominal.ClassIndex)
	assert.Equal(t, model.Numeric, nominal.Attributes[2].Kind)
}

func TestNormalize_Idempotent(t *testing.T) {
	once, err := Normalize(colours(), "")
	require.NoError(t, err)
	twice, err := Normalize(once, "")
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}
