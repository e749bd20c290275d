package ml

import (
	"github.com/drakos74/free-learn/internal/model"
	"github.com/sjwhitworth/golearn/base"
)

// schema maps a dataset onto golearn attributes.
// The same attributes are shared by every grid built from it,
// so that training and prediction grids stay compatible.
type schema struct {
	attributes []base.Attribute
	classIndex int
}

func newSchema(ds *model.Dataset) *schema {
	s := &schema{
		attributes: make([]base.Attribute, len(ds.Attributes)),
		classIndex: ds.ClassIndex,
	}
	for j, a := range ds.Attributes {
		if a.IsNumeric() {
			s.attributes[j] = base.NewFloatAttribute(a.Name)
			continue
		}
		c := base.NewCategoricalAttribute()
		c.SetName(a.Name)
		for _, v := range a.Values {
			c.GetSysValFromString(v)
		}
		s.attributes[j] = c
	}
	return s
}

// grid builds the golearn instances for the given rows.
func (s *schema) grid(rows []model.Instance) (*base.DenseInstances, error) {
	inst := base.NewDenseInstances()
	specs := make([]base.AttributeSpec, len(s.attributes))
	for j, a := range s.attributes {
		specs[j] = inst.AddAttribute(a)
	}
	if err := inst.AddClassAttribute(s.attributes[s.classIndex]); err != nil {
		return nil, model.BackendError(err, "could not set class attribute")
	}
	if err := inst.Extend(len(rows)); err != nil {
		return nil, model.BackendError(err, "could not allocate %d instances", len(rows))
	}
	for i, row := range rows {
		for j, a := range s.attributes {
			switch attribute := a.(type) {
			case *base.FloatAttribute:
				inst.Set(specs[j], i, base.PackFloatToBytes(row[j].Num))
			case *base.CategoricalAttribute:
				inst.Set(specs[j], i, attribute.GetSysValFromString(row[j].Str))
			}
		}
	}
	return inst, nil
}
