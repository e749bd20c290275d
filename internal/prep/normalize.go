package prep

import (
	"sort"

	"github.com/drakos74/free-learn/internal/model"
	"github.com/rs/zerolog/log"
)

// Normalize prepares the dataset for the learners.
// Text attributes become nominal, the class is designated
// and a numeric class becomes nominal with one label per distinct value.
// Every step returns a new dataset; running it twice gives the same result.
func Normalize(ds *model.Dataset, class string) (*model.Dataset, error) {
	ds = StringToNominal(ds)
	ds, err := DesignateClass(ds, class)
	if err != nil {
		return nil, err
	}
	if ds.HasClass() && ds.Class().IsNumeric() {
		ds = NumericToNominal(ds, ds.ClassIndex)
	}
	return ds, nil
}

// StringToNominal converts every text attribute into a nominal one,
// with the distinct values in the order they first appear.
func StringToNominal(ds *model.Dataset) *model.Dataset {
	out := ds.Clone()
	for j, a := range out.Attributes {
		if a.Kind != model.Text {
			continue
		}
		seen := make(map[string]struct{})
		values := make([]string, 0)
		for _, row := range out.Rows {
			v := row[j].Str
			if _, ok := seen[v]; !ok {
				seen[v] = struct{}{}
				values = append(values, v)
			}
		}
		out.Attributes[j] = model.NewNominal(a.Name, values...)
		log.Debug().
			Str("attribute", a.Name).
			Int("labels", len(values)).
			Msg("string to nominal")
	}
	return out
}

// NumericToNominal converts the numeric attribute at the given index into a nominal one.
// Each distinct value becomes its own label, in ascending order.
func NumericToNominal(ds *model.Dataset, index int) *model.Dataset {
	out := ds.Clone()
	if index < 0 || index >= out.NumAttributes() || !out.Attributes[index].IsNumeric() {
		return out
	}
	// values are told apart by their label, NaN never equals itself and -0 equals 0
	seen := make(map[string]struct{})
	distinct := make([]float64, 0)
	for _, row := range out.Rows {
		v := row[index].Num
		label := model.FormatLabel(v)
		if _, ok := seen[label]; !ok {
			seen[label] = struct{}{}
			distinct = append(distinct, v)
		}
	}
	sort.Float64s(distinct)
	labels := make([]string, len(distinct))
	for i, v := range distinct {
		labels[i] = model.FormatLabel(v)
	}
	for _, row := range out.Rows {
		row[index] = model.Str(model.FormatLabel(row[index].Num))
	}
	name := out.Attributes[index].Name
	out.Attributes[index] = model.NewNominal(name, labels...)
	log.Debug().
		Str("attribute", name).
		Int("labels", len(labels)).
		Msg("numeric to nominal")
	return out
}

// DesignateClass sets the class attribute.
// A named class must exist; without a name the last attribute is used,
// unless a class is already set or there are fewer than 2 attributes.
func DesignateClass(ds *model.Dataset, name string) (*model.Dataset, error) {
	out := ds.Clone()
	if name != "" {
		i := out.Index(name)
		if i < 0 {
			return nil, model.ValidationError("unknown class attribute '%s'", name)
		}
		out.ClassIndex = i
		return out, nil
	}
	if !out.HasClass() && out.NumAttributes() >= MinAttributes {
		out.ClassIndex = out.NumAttributes() - 1
	}
	return out, nil
}
