package ml

import (
	"errors"
	"testing"

	"github.com/drakos74/free-learn/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// groups creates two well separated groups of instances,
// labelled 'low' and 'high' with the class as last attribute.
func groups(size int) *model.Dataset {
	ds := model.NewDataset("groups",
		model.NewNumeric("x"),
		model.NewNumeric("y"),
		model.NewNominal("level", "low", "high"),
	)
	for i := 0; i < size; i++ {
		d := float64(i%5) * 0.1
		ds.Append(model.Instance{model.Num(1 + d), model.Num(2 - d), model.Str("low")})
		ds.Append(model.Instance{model.Num(10 - d), model.Num(12 + d), model.Str("high")})
	}
	ds.ClassIndex = 2
	return ds
}

type constant struct {
	class int
	size  int
}

func (c constant) Predict(x model.Instance) (int, []float64, error) {
	return c.class, oneHot(c.size, c.class), nil
}

func constantFactory(class int) Factory {
	return func(ds *model.Dataset) (Model, error) {
		return constant{class: class, size: ds.NumClasses()}, nil
	}
}

func TestEvaluate_Metrics(t *testing.T) {
	ds := model.NewDataset("answers",
		model.NewNumeric("x"),
		model.NewNominal("answer", "yes", "no"),
	)
	ds.Append(model.Instance{model.Num(1), model.Str("yes")})
	ds.Append(model.Instance{model.Num(2), model.Str("yes")})
	ds.Append(model.Instance{model.Num(3), model.Str("no")})
	ds.Append(model.Instance{model.Num(4), model.Str("no")})
	ds.ClassIndex = 1

	report, err := Evaluate(constantFactory(0), ds, TrainTest())
	require.NoError(t, err)

	assert.Equal(t, [][]int{{2, 0}, {2, 0}}, report.Confusion)
	assert.Equal(t, []string{"yes", "no"}, report.Labels)
	assert.Equal(t, 2, report.Summary.Correct)
	assert.Equal(t, 2, report.Summary.Incorrect)
	assert.Equal(t, 4, report.Summary.Total)
	assert.InDelta(t, 0, report.Summary.Kappa, 1e-9)
	assert.InDelta(t, 0.5, report.Summary.MeanAbsoluteError, 1e-9)
	assert.InDelta(t, 0.7071067811865476, report.Summary.RootMeanSquaredError, 1e-9)

	yes := report.PerClass[0]
	assert.Equal(t, "yes", yes.Label)
	assert.Equal(t, 2, yes.Count)
	assert.InDelta(t, 1, yes.TPRate, 1e-9)
	assert.InDelta(t, 1, yes.FPRate, 1e-9)
	assert.InDelta(t, 0.5, yes.Precision, 1e-9)
	assert.InDelta(t, 1, yes.Recall, 1e-9)
	assert.InDelta(t, 2.0/3.0, yes.F1, 1e-9)

	no := report.PerClass[1]
	assert.Equal(t, "no", no.Label)
	assert.Equal(t, 0.0, no.Precision)
	assert.Equal(t, 0.0, no.Recall)
	assert.Equal(t, 0.0, no.F1)
	assert.Equal(t, 0.0, no.FPRate)
}

func TestEvaluate_CrossValidation(t *testing.T) {
	ds := groups(10)

	report, err := Evaluate(constantFactory(1), ds, CrossValidation(10, 1))
	require.NoError(t, err)
	assert.Equal(t, ds.NumRows(), report.Sum())
	assert.Equal(t, [][]int{{0, 10}, {0, 10}}, report.Confusion)

	_, err = Evaluate(constantFactory(1), ds, CrossValidation(ds.NumRows()+1, 1))
	assert.True(t, errors.Is(err, model.ErrBackend))

	_, err = Evaluate(constantFactory(1), ds, CrossValidation(1, 1))
	assert.True(t, errors.Is(err, model.ErrBackend))
}

func TestEvaluate_CrossValidationFolds(t *testing.T) {
	ds := groups(10)
	sizes := make([]int, 0)
	factory := func(train *model.Dataset) (Model, error) {
		sizes = append(sizes, train.NumRows())
		return constant{class: 0, size: 2}, nil
	}
	_, err := Evaluate(factory, ds, CrossValidation(10, 1))
	require.NoError(t, err)
	// one model per fold, each trained without its own fold
	assert.Equal(t, []int{18, 18, 18, 18, 18, 18, 18, 18, 18, 18}, sizes)
}

func TestEvaluate_NoClass(t *testing.T) {
	ds := groups(2)
	ds.ClassIndex = model.NoClass
	_, err := Evaluate(constantFactory(0), ds, TrainTest())
	assert.True(t, errors.Is(err, model.ErrBackend))

	ds = groups(2)
	ds.ClassIndex = 0
	_, err = Train(DecisionTree, ds, Hyper{})
	assert.True(t, errors.Is(err, model.ErrBackend))
}

func TestKappa(t *testing.T) {
	assert.Equal(t, 1.0, kappa([][]int{{5, 0}, {0, 5}}, 10))
	assert.Equal(t, 1.0, kappa([][]int{{4}}, 4))
	assert.Equal(t, 0.0, kappa([][]int{{0, 0}, {0, 0}}, 0))
	assert.InDelta(t, 0.6, kappa([][]int{{4, 1}, {1, 4}}, 10), 1e-9)
}

func TestGuard(t *testing.T) {
	err := guard("panicking", func() error {
		var m map[string]int
		m["a"] = 1
		return nil
	})
	assert.True(t, errors.Is(err, model.ErrBackend))
	assert.Contains(t, err.Error(), "panicking failed")

	err = guard("failing", func() error {
		return errors.New("boom")
	})
	assert.True(t, errors.Is(err, model.ErrBackend))
	assert.Contains(t, err.Error(), "boom")

	assert.NoError(t, guard("ok", func() error { return nil }))
}

func TestTrain_Unknown(t *testing.T) {
	_, err := Train(Kind("svm"), groups(2), Hyper{})
	assert.True(t, errors.Is(err, model.ErrBackend))
}
