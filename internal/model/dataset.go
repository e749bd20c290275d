package model

import (
	"math"
)

// NoClass marks a dataset without a designated class attribute.
const NoClass = -1

// Dataset is the in-memory table passed through the analysis pipeline.
type Dataset struct {
	Relation   string
	Attributes []Attribute
	Rows       []Instance
	ClassIndex int
}

// NewDataset creates an empty dataset for the given attributes.
func NewDataset(relation string, attributes ...Attribute) *Dataset {
	return &Dataset{
		Relation:   relation,
		Attributes: attributes,
		Rows:       make([]Instance, 0),
		ClassIndex: NoClass,
	}
}

// NumAttributes returns the number of attributes.
func (ds *Dataset) NumAttributes() int {
	return len(ds.Attributes)
}

// NumRows returns the number of instances.
func (ds *Dataset) NumRows() int {
	return len(ds.Rows)
}

// HasClass returns true if a class attribute is designated.
func (ds *Dataset) HasClass() bool {
	return ds.ClassIndex >= 0 && ds.ClassIndex < len(ds.Attributes)
}

// Class returns the class attribute.
// It must only be called when HasClass is true.
func (ds *Dataset) Class() Attribute {
	return ds.Attributes[ds.ClassIndex]
}

// NumClasses returns the size of the class value set, 0 if the class is not nominal.
func (ds *Dataset) NumClasses() int {
	if !ds.HasClass() || !ds.Class().IsNominal() {
		return 0
	}
	return len(ds.Class().Values)
}

// ClassValue returns the internal value of the class for the given row.
// Nominal classes yield the index of the label within the value set,
// numeric classes the value itself.
func (ds *Dataset) ClassValue(row int) float64 {
	if !ds.HasClass() {
		return math.NaN()
	}
	v := ds.Rows[row][ds.ClassIndex]
	class := ds.Class()
	if class.IsNominal() {
		return float64(class.IndexOf(v.Str))
	}
	return v.Num
}

// Index returns the position of the attribute with the given name, or -1.
func (ds *Dataset) Index(name string) int {
	for i, a := range ds.Attributes {
		if a.Name == name {
			return i
		}
	}
	return -1
}

// Append adds the instance to the dataset.
func (ds *Dataset) Append(instance Instance) {
	ds.Rows = append(ds.Rows, instance)
}

// Clone creates a deep copy of the dataset.
func (ds *Dataset) Clone() *Dataset {
	attributes := make([]Attribute, len(ds.Attributes))
	for i, a := range ds.Attributes {
		attributes[i] = a
		if a.Values != nil {
			attributes[i].Values = append([]string{}, a.Values...)
		}
	}
	rows := make([]Instance, len(ds.Rows))
	for i, r := range ds.Rows {
		rows[i] = append(Instance{}, r...)
	}
	return &Dataset{
		Relation:   ds.Relation,
		Attributes: attributes,
		Rows:       rows,
		ClassIndex: ds.ClassIndex,
	}
}

// Subset creates a dataset sharing the schema with only the given rows.
func (ds *Dataset) Subset(rows []int) *Dataset {
	sub := &Dataset{
		Relation:   ds.Relation,
		Attributes: ds.Attributes,
		Rows:       make([]Instance, len(rows)),
		ClassIndex: ds.ClassIndex,
	}
	for i, r := range rows {
		sub.Rows[i] = ds.Rows[r]
	}
	return sub
}

// Remove creates a new dataset without the attribute at the given index.
// The class designation is dropped if it pointed to the removed attribute.
func (ds *Dataset) Remove(index int) *Dataset {
	if index < 0 || index >= len(ds.Attributes) {
		return ds.Clone()
	}
	attributes := make([]Attribute, 0, len(ds.Attributes)-1)
	for i, a := range ds.Attributes {
		if i != index {
			attributes = append(attributes, a)
		}
	}
	rows := make([]Instance, len(ds.Rows))
	for i, r := range ds.Rows {
		row := make(Instance, 0, len(r)-1)
		row = append(row, r[:index]...)
		row = append(row, r[index+1:]...)
		rows[i] = row
	}
	class := ds.ClassIndex
	switch {
	case class == index:
		class = NoClass
	case class > index:
		class--
	}
	return &Dataset{
		Relation:   ds.Relation,
		Attributes: attributes,
		Rows:       rows,
		ClassIndex: class,
	}
}

// Check verifies the structural invariants of the dataset.
func (ds *Dataset) Check() error {
	if ds.ClassIndex != NoClass && !ds.HasClass() {
		return ValidationError("class index %d out of range [0,%d)", ds.ClassIndex, len(ds.Attributes))
	}
	for i, row := range ds.Rows {
		if len(row) != len(ds.Attributes) {
			return ValidationError("row %d has %d values, expected %d", i, len(row), len(ds.Attributes))
		}
		for j, a := range ds.Attributes {
			if a.IsNominal() && a.IndexOf(row[j].Str) < 0 {
				return ValidationError("row %d: value '%s' not in value set of '%s'", i, row[j].Str, a.Name)
			}
		}
	}
	return nil
}
