package model

import (
	"fmt"
	"strings"
)

// Kind defines the type of values an attribute holds.
type Kind int

const (
	// Numeric attributes hold float values.
	Numeric Kind = iota + 1
	// Nominal attributes hold labels drawn from a fixed value set.
	Nominal
	// Text attributes hold free text, until they are converted to nominal.
	Text
)

// String returns the schema keyword for the kind.
func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Nominal:
		return "nominal"
	case Text:
		return "string"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Attribute describes one column of a dataset.
type Attribute struct {
	Name string
	Kind Kind
	// Values is the ordered value set for nominal attributes.
	Values []string
}

// NewNumeric creates a new numeric attribute.
func NewNumeric(name string) Attribute {
	return Attribute{Name: name, Kind: Numeric}
}

// NewText creates a new text attribute.
func NewText(name string) Attribute {
	return Attribute{Name: name, Kind: Text}
}

// NewNominal creates a new nominal attribute with the given value set.
func NewNominal(name string, values ...string) Attribute {
	vv := make([]string, len(values))
	copy(vv, values)
	return Attribute{Name: name, Kind: Nominal, Values: vv}
}

// IsNumeric returns true if the attribute holds numbers.
func (a Attribute) IsNumeric() bool {
	return a.Kind == Numeric
}

// IsNominal returns true if the attribute holds labels.
func (a Attribute) IsNominal() bool {
	return a.Kind == Nominal
}

// IndexOf returns the position of the label in the value set, or -1.
func (a Attribute) IndexOf(label string) int {
	for i, v := range a.Values {
		if v == label {
			return i
		}
	}
	return -1
}

// String prints the attribute in schema form e.g. 'colour {red,blue}'.
func (a Attribute) String() string {
	if a.Kind == Nominal {
		return fmt.Sprintf("%s {%s}", a.Name, strings.Join(a.Values, ","))
	}
	return fmt.Sprintf("%s %s", a.Name, a.Kind)
}

// Value is a single cell of an instance.
// Numeric values live in Num, nominal and text values in Str.
type Value struct {
	Num float64
	Str string
}

// Num creates a numeric value.
func Num(f float64) Value {
	return Value{Num: f}
}

// Str creates a label or text value.
func Str(s string) Value {
	return Value{Str: s}
}

// Instance is one row of a dataset, aligned with the attributes by position.
type Instance []Value

// ClusterAssignment maps each instance index to its cluster id.
type ClusterAssignment []int

// Centroid is the mean coordinate vector of a cluster, one value per retained attribute.
type Centroid []float64
