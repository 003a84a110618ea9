package uml

import (
	"errors"

	"github.com/matzehuels/umlstack/pkg/catalog"
	"github.com/matzehuels/umlstack/pkg/model"
)

// Register subscribes every UML kind and variant to c.
func Register(c *catalog.Catalog) error {
	builders := map[string]catalog.Builder{
		KindModel:              func(id model.ID) model.Element { return NewModel(id) },
		KindPackage:            func(id model.ID) model.Element { return NewPackage(id) },
		KindClass:              func(id model.ID) model.Element { return NewClass(id) },
		KindInterface:          func(id model.ID) model.Element { return NewInterface(id) },
		KindDataType:           func(id model.ID) model.Element { return NewDataType(id) },
		KindEnumeration:        func(id model.ID) model.Element { return NewEnumeration(id) },
		KindEnumerationLiteral: func(id model.ID) model.Element { return NewEnumerationLiteral(id) },
		KindAttribute:          func(id model.ID) model.Element { return NewAttribute(id) },
		KindOperation:          func(id model.ID) model.Element { return NewOperation(id) },
		KindParameter:          func(id model.ID) model.Element { return NewParameter(id) },
		KindComment:            func(id model.ID) model.Element { return NewComment(id) },
		KindAssociation:        func(id model.ID) model.Element { return NewAssociation(id) },
		KindGeneralization:     func(id model.ID) model.Element { return NewGeneralization(id) },
		KindDependency:         func(id model.ID) model.Element { return NewDependency(id) },

		catalog.Variant(KindDataType, "Primitive"): func(id model.ID) model.Element {
			d := NewDataType(id)
			d.SetKeywords(KeywordPrimitive)
			return d
		},
		catalog.Variant(KindAssociation, "Aggregation"): association(AggregationShared),
		catalog.Variant(KindAssociation, "Composition"): association(AggregationComposite),
		catalog.Variant(KindDependency, "Usage"):        dependency(KeywordUse),
		catalog.Variant(KindDependency, "Abstraction"):  dependency(KeywordAbstraction),
		catalog.Variant(KindDependency, "Import"):       dependency(KeywordImport),
		catalog.Variant(KindDependency, "Realization"):  dependency(KeywordRealize),
	}

	var errList []error
	for name, b := range builders {
		if err := c.Subscribe(name, b); err != nil {
			errList = append(errList, err)
		}
	}
	return errors.Join(errList...)
}

func association(k AggregationKind) catalog.Builder {
	return func(id model.ID) model.Element {
		a := NewAssociation(id)
		a.SetAggregation(k)
		return a
	}
}

func dependency(keyword string) catalog.Builder {
	return func(id model.ID) model.Element {
		d := NewDependency(id)
		d.SetKeywords(keyword)
		return d
	}
}
