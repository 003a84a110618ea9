package uml

import (
	"slices"

	errs "github.com/matzehuels/umlstack/pkg/errors"
)

// Visibility is the UML visibility of a named element.
type Visibility int

const (
	Public Visibility = iota
	Protected
	Private
	PackageVisibility
)

var (
	visibilityNames   = []string{"public", "protected", "private", "package"}
	visibilitySymbols = []string{"+", "#", "-", "~"}
)

// Symbol returns the one-character notation used in signatures.
func (v Visibility) Symbol() string { return lookup(visibilitySymbols, int(v)) }

func (v Visibility) String() string { return lookup(visibilityNames, int(v)) }

func (v Visibility) MarshalText() ([]byte, error) { return marshalEnum(visibilityNames, "visibility", int(v)) }

func (v *Visibility) UnmarshalText(text []byte) error {
	return unmarshalEnum(visibilityNames, "visibility", text, (*int)(v))
}

// AggregationKind tells whether a part is shared or owned by its whole.
type AggregationKind int

const (
	AggregationNone AggregationKind = iota
	AggregationShared
	AggregationComposite
)

var aggregationNames = []string{"none", "shared", "composite"}

func (k AggregationKind) String() string { return lookup(aggregationNames, int(k)) }

func (k AggregationKind) MarshalText() ([]byte, error) {
	return marshalEnum(aggregationNames, "aggregation", int(k))
}

func (k *AggregationKind) UnmarshalText(text []byte) error {
	return unmarshalEnum(aggregationNames, "aggregation", text, (*int)(k))
}

// ParameterDirection is the flow of a parameter value.
type ParameterDirection int

const (
	DirectionIn ParameterDirection = iota
	DirectionOut
	DirectionInOut
	DirectionReturn
)

var directionNames = []string{"in", "out", "inout", "return"}

func (d ParameterDirection) String() string { return lookup(directionNames, int(d)) }

func (d ParameterDirection) MarshalText() ([]byte, error) {
	return marshalEnum(directionNames, "direction", int(d))
}

func (d *ParameterDirection) UnmarshalText(text []byte) error {
	return unmarshalEnum(directionNames, "direction", text, (*int)(d))
}

// ParseVisibility accepts the name ("private") or the symbol ("-").
func ParseVisibility(s string) (Visibility, error) {
	if i := slices.Index(visibilitySymbols, s); i >= 0 {
		return Visibility(i), nil
	}
	var v Visibility
	err := v.UnmarshalText([]byte(s))
	return v, err
}

// ParseDirection parses a parameter direction name.
func ParseDirection(s string) (ParameterDirection, error) {
	var d ParameterDirection
	err := d.UnmarshalText([]byte(s))
	return d, err
}

func lookup(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return "unknown"
	}
	return names[i]
}

func marshalEnum(names []string, kind string, i int) ([]byte, error) {
	if i < 0 || i >= len(names) {
		return nil, errs.New(errs.ErrCodeContract, "invalid %s %d", kind, i)
	}
	return []byte(names[i]), nil
}

func unmarshalEnum(names []string, kind string, text []byte, dst *int) error {
	i := slices.Index(names, string(text))
	if i < 0 {
		return errs.New(errs.ErrCodeParse, "unknown %s %q", kind, text)
	}
	*dst = i
	return nil
}
