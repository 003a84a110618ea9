package uml

import "github.com/matzehuels/umlstack/pkg/model"

// End describes one side of an association.
type End struct {
	Role         string       `json:"role,omitempty"`
	Multiplicity Multiplicity `json:"multiplicity"`
	Navigable    bool         `json:"navigable,omitempty"`
}

// Association is an undirected structural relationship. Aggregation
// describes the source side: a shared or composite association reads as
// "source aggregates target".
type Association struct {
	model.LinkBase
	Naming
	sourceEnd   End
	targetEnd   End
	aggregation AggregationKind
}

func NewAssociation(id model.ID) *Association {
	a := &Association{
		sourceEnd: End{Multiplicity: One},
		targetEnd: End{Multiplicity: One},
	}
	a.Init(a, id)
	return a
}

func (a *Association) ClassName() string { return KindAssociation }

func (a *Association) SourceEnd() End { return a.sourceEnd }

// SetSourceEnd replaces the source end. An invalid multiplicity becomes
// exactly one.
func (a *Association) SetSourceEnd(e End) {
	e.Multiplicity = orOne(e.Multiplicity)
	a.sourceEnd = e
}

func (a *Association) TargetEnd() End { return a.targetEnd }

func (a *Association) SetTargetEnd(e End) {
	e.Multiplicity = orOne(e.Multiplicity)
	a.targetEnd = e
}

func (a *Association) Aggregation() AggregationKind { return a.aggregation }

func (a *Association) SetAggregation(k AggregationKind) { a.aggregation = k }

// Swap exchanges the endpoints together with their end descriptions.
func (a *Association) Swap() bool {
	if !a.LinkBase.Swap() {
		return false
	}
	a.sourceEnd, a.targetEnd = a.targetEnd, a.sourceEnd
	return true
}

func (a *Association) Labels() model.Labels {
	return model.Labels{
		Name:               a.name,
		SourceRole:         a.sourceEnd.Role,
		SourceMultiplicity: a.sourceEnd.Multiplicity.Label(),
		TargetRole:         a.targetEnd.Role,
		TargetMultiplicity: a.targetEnd.Multiplicity.Label(),
	}
}

func (a *Association) Serialize(ar *model.Archive) error {
	if err := a.LinkBase.Serialize(ar); err != nil {
		return err
	}
	a.serialize(ar)
	ar.Field("sourceEnd", &a.sourceEnd)
	ar.Field("targetEnd", &a.targetEnd)
	ar.Field("aggregation", &a.aggregation)
	return ar.Err()
}
