package prep

import (
	"github.com/drakos74/free-learn/internal/model"
)

// MinAttributes is the least number of attributes an analysis can work with.
const MinAttributes = 2

// Validate rejects datasets that no analysis can run on.
// It never modifies the dataset.
func Validate(ds *model.Dataset) error {
	if ds == nil || ds.NumRows() == 0 {
		return model.ValidationError("empty dataset")
	}
	if ds.NumAttributes() < MinAttributes {
		return model.ValidationError("insufficient attributes: the dataset must have at least %d attributes, found %d",
			MinAttributes, ds.NumAttributes())
	}
	return nil
}
