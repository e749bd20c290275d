package ml

import (
	"github.com/drakos74/free-learn/internal/model"
	"github.com/rs/zerolog/log"

	randomforest "github.com/malaschitz/randomForest"
)

// Forest is a trained random forest.
type Forest struct {
	ds     *model.Dataset
	forest *randomforest.Forest
}

func trainForest(ds *model.Dataset, hyper Hyper) (Model, error) {
	if hyper.Trees < 1 {
		return nil, model.BackendError(nil, "invalid number of trees %d", hyper.Trees)
	}
	xData := make([][]float64, ds.NumRows())
	yData := make([]int, ds.NumRows())
	for i, row := range ds.Rows {
		xData[i] = features(ds, row)
		yData[i] = classOf(ds, row)
	}
	forest := &randomforest.Forest{}
	forest.Data = randomforest.ForestData{X: xData, Class: yData}
	if err := guard("random forest training", func() error {
		forest.Train(hyper.Trees)
		return nil
	}); err != nil {
		return nil, err
	}
	log.Debug().
		Int("trees", hyper.Trees).
		Floats64("importance", forest.FeatureImportance).
		Msg("random forest")
	return &Forest{
		ds:     ds,
		forest: forest,
	}, nil
}

// Predict classifies the instance by majority vote of the trees.
func (f *Forest) Predict(x model.Instance) (int, []float64, error) {
	if len(x) != f.ds.NumAttributes() {
		return 0, nil, model.BackendError(nil, "instance has %d values, expected %d", len(x), f.ds.NumAttributes())
	}
	var votes []float64
	if err := guard("random forest prediction", func() error {
		votes = f.forest.Vote(features(f.ds, x))
		return nil
	}); err != nil {
		return 0, nil, err
	}
	// labels missing from the training data get no votes
	dist := make([]float64, f.ds.NumClasses())
	copy(dist, votes)
	return argMax(dist), dist, nil
}
