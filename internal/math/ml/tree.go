package ml

import (
	"github.com/drakos74/free-learn/internal/model"
	"github.com/rs/zerolog/log"
	"github.com/sjwhitworth/golearn/base"
	"github.com/sjwhitworth/golearn/trees"
)

// Tree is a trained ID3 decision tree.
type Tree struct {
	ds     *model.Dataset
	schema *schema
	tree   *trees.ID3DecisionTree
}

func trainTree(ds *model.Dataset, hyper Hyper) (Model, error) {
	s := newSchema(ds)
	train, err := s.grid(ds.Rows)
	if err != nil {
		return nil, err
	}
	tree := trees.NewID3DecisionTree(hyper.PruneSplit)
	if err := guard("decision tree training", func() error {
		return tree.Fit(train)
	}); err != nil {
		return nil, err
	}
	log.Debug().
		Int("instances", ds.NumRows()).
		Float64("prune", hyper.PruneSplit).
		Msg("decision tree")
	return &Tree{
		ds:     ds,
		schema: s,
		tree:   tree,
	}, nil
}

// Predict classifies the instance.
// The tree gives a crisp prediction, so the distribution has all its weight on the predicted label.
func (t *Tree) Predict(x model.Instance) (int, []float64, error) {
	if len(x) != t.ds.NumAttributes() {
		return 0, nil, model.BackendError(nil, "instance has %d values, expected %d", len(x), t.ds.NumAttributes())
	}
	grid, err := t.schema.grid([]model.Instance{x})
	if err != nil {
		return 0, nil, err
	}
	var label string
	if err := guard("decision tree prediction", func() error {
		predictions, err := t.tree.Predict(grid)
		if err != nil {
			return err
		}
		label = base.GetClass(predictions, 0)
		return nil
	}); err != nil {
		return 0, nil, err
	}
	c := t.ds.Class().IndexOf(label)
	if c < 0 {
		return 0, nil, model.BackendError(nil, "unknown predicted label '%s'", label)
	}
	return c, oneHot(t.ds.NumClasses(), c), nil
}
