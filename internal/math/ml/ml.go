package ml

import (
	"errors"
	"fmt"

	"github.com/drakos74/free-learn/internal/model"
	"github.com/rs/zerolog/log"
)

// Kind identifies a classifier implementation.
type Kind string

const (
	DecisionTree         Kind = "decision-tree"
	MultilayerPerceptron Kind = "multilayer-perceptron"
	RandomForest         Kind = "random-forest"
)

// Hyper holds the hyper-parameters of all the classifiers.
// Each classifier reads only the fields it needs.
type Hyper struct {
	// PruneSplit is the share of the training data held out for pruning the decision tree.
	PruneSplit float64
	// LearningRate is the step size of the perceptron weight updates.
	LearningRate float64
	// Momentum is the share of the previous update added to the current one.
	Momentum float64
	// Epochs is the number of passes over the training data.
	Epochs int
	// HiddenLayers describes the hidden layer sizes e.g. "a" or "a,4".
	HiddenLayers string
	// WeightSeed seeds the initial perceptron weights.
	WeightSeed int64
	// Trees is the size of the random forest.
	Trees int
}

// Model is a trained classifier.
type Model interface {
	// Predict returns the index of the predicted class label and the distribution over all labels.
	Predict(x model.Instance) (int, []float64, error)
}

// Factory trains a new model on the given dataset.
type Factory func(ds *model.Dataset) (Model, error)

// ClusterModel is a trained set of clusters.
type ClusterModel interface {
	Assign(x model.Instance) (int, error)
	Centroids() []model.Centroid
	SquaredError() float64
}

// Train trains a classifier of the given kind.
func Train(kind Kind, ds *model.Dataset, hyper Hyper) (Model, error) {
	if err := checkClass(ds); err != nil {
		return nil, err
	}
	switch kind {
	case DecisionTree:
		return trainTree(ds, hyper)
	case MultilayerPerceptron:
		return trainPerceptron(ds, hyper)
	case RandomForest:
		return trainForest(ds, hyper)
	}
	return nil, model.BackendError(nil, "unknown classifier '%s'", kind)
}

// NewFactory creates a factory training classifiers of the given kind.
func NewFactory(kind Kind, hyper Hyper) Factory {
	return func(ds *model.Dataset) (Model, error) {
		return Train(kind, ds, hyper)
	}
}

func checkClass(ds *model.Dataset) error {
	if ds == nil || ds.NumRows() == 0 {
		return model.BackendError(nil, "no training instances")
	}
	if !ds.HasClass() {
		return model.BackendError(nil, "no class attribute")
	}
	if !ds.Class().IsNominal() {
		return model.BackendError(nil, "class attribute '%s' is not nominal", ds.Class().Name)
	}
	return nil
}

// guard runs the given learner operation, turning errors and panics into backend errors.
func guard(op string, f func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Str("op", op).
				Str("panic", fmt.Sprintf("%v", r)).
				Msg("learner failed")
			err = model.BackendError(fmt.Errorf("%v", r), "%s failed", op)
		}
	}()
	if err := f(); err != nil {
		if errors.Is(err, model.ErrBackend) {
			return err
		}
		log.Error().
			Str("op", op).
			Err(err).
			Msg("learner failed")
		return model.BackendError(err, "%s failed", op)
	}
	return nil
}

// features encodes the non-class values of the instance.
// Numeric values are kept as they are, nominal values become the index of their label.
func features(ds *model.Dataset, x model.Instance) []float64 {
	f := make([]float64, 0, len(ds.Attributes))
	for j, a := range ds.Attributes {
		if j == ds.ClassIndex {
			continue
		}
		if a.IsNumeric() {
			f = append(f, x[j].Num)
			continue
		}
		f = append(f, float64(a.IndexOf(x[j].Str)))
	}
	return f
}

// classOf returns the index of the class label of the instance.
func classOf(ds *model.Dataset, x model.Instance) int {
	return ds.Class().IndexOf(x[ds.ClassIndex].Str)
}

func argMax(v []float64) int {
	m := 0
	for i := range v {
		if v[i] > v[m] {
			m = i
		}
	}
	return m
}

func oneHot(size, index int) []float64 {
	v := make([]float64, size)
	if index >= 0 && index < size {
		v[index] = 1
	}
	return v
}
