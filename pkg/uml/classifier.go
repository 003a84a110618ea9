package uml

import (
	"strings"

	"github.com/matzehuels/umlstack/pkg/model"
)

// Class names used as catalog keys.
const (
	KindModel              = "Model"
	KindPackage            = "Package"
	KindClass              = "Class"
	KindInterface          = "Interface"
	KindDataType           = "DataType"
	KindEnumeration        = "Enumeration"
	KindEnumerationLiteral = "EnumerationLiteral"
	KindAttribute          = "Attribute"
	KindOperation          = "Operation"
	KindParameter          = "Parameter"
	KindComment            = "Comment"
	KindAssociation        = "Association"
	KindGeneralization     = "Generalization"
	KindDependency         = "Dependency"
)

// KeywordPrimitive marks a primitive data type.
const KeywordPrimitive = "primitive"

// Class is a classifier holding attributes and operations.
type Class struct {
	model.CompositeBase
	Naming
	abstract bool
	final    bool
}

func NewClass(id model.ID) *Class {
	c := &Class{}
	c.Init(c, id)
	return c
}

func (c *Class) ClassName() string { return KindClass }

func (c *Class) IsAbstract() bool { return c.abstract }

func (c *Class) SetAbstract(abstract bool) { c.abstract = abstract }

func (c *Class) IsFinal() bool { return c.final }

func (c *Class) SetFinal(final bool) { c.final = final }

// Attributes returns the attribute children in order.
func (c *Class) Attributes() []*Attribute { return childrenOf[*Attribute](c) }

// Operations returns the operation children in order.
func (c *Class) Operations() []*Operation { return childrenOf[*Operation](c) }

func (c *Class) Serialize(a *model.Archive) error {
	if err := c.CompositeBase.Serialize(a); err != nil {
		return err
	}
	c.serialize(a)
	a.Bool("abstract", &c.abstract)
	a.Bool("final", &c.final)
	return a.Err()
}

// Interface is a classifier declaring operations without implementation.
type Interface struct {
	model.CompositeBase
	Naming
}

func NewInterface(id model.ID) *Interface {
	i := &Interface{}
	i.Init(i, id)
	return i
}

func (i *Interface) ClassName() string { return KindInterface }

func (i *Interface) Attributes() []*Attribute { return childrenOf[*Attribute](i) }

func (i *Interface) Operations() []*Operation { return childrenOf[*Operation](i) }

func (i *Interface) Serialize(a *model.Archive) error {
	if err := i.CompositeBase.Serialize(a); err != nil {
		return err
	}
	i.serialize(a)
	return a.Err()
}

// DataType is a classifier whose instances are identified by value.
type DataType struct {
	model.CompositeBase
	Naming
}

func NewDataType(id model.ID) *DataType {
	d := &DataType{}
	d.Init(d, id)
	return d
}

func (d *DataType) ClassName() string { return KindDataType }

// IsPrimitive reports whether the type carries the primitive keyword.
func (d *DataType) IsPrimitive() bool { return hasKeyword(d.Keywords(), KeywordPrimitive) }

func (d *DataType) Attributes() []*Attribute { return childrenOf[*Attribute](d) }

func (d *DataType) Serialize(a *model.Archive) error {
	if err := d.CompositeBase.Serialize(a); err != nil {
		return err
	}
	d.serialize(a)
	return a.Err()
}

// Enumeration is a data type whose values are its literals.
type Enumeration struct {
	model.CompositeBase
	Naming
}

func NewEnumeration(id model.ID) *Enumeration {
	e := &Enumeration{}
	e.Init(e, id)
	return e
}

func (e *Enumeration) ClassName() string { return KindEnumeration }

func (e *Enumeration) Literals() []*EnumerationLiteral { return childrenOf[*EnumerationLiteral](e) }

func (e *Enumeration) Serialize(a *model.Archive) error {
	if err := e.CompositeBase.Serialize(a); err != nil {
		return err
	}
	e.serialize(a)
	return a.Err()
}

// EnumerationLiteral is one named value of an enumeration.
type EnumerationLiteral struct {
	model.Base
	Naming
}

func NewEnumerationLiteral(id model.ID) *EnumerationLiteral {
	l := &EnumerationLiteral{}
	l.Init(l, id)
	return l
}

func (l *EnumerationLiteral) ClassName() string { return KindEnumerationLiteral }

func (l *EnumerationLiteral) Serialize(a *model.Archive) error {
	if err := l.Base.Serialize(a); err != nil {
		return err
	}
	l.serialize(a)
	return a.Err()
}

func childrenOf[T model.Element](c model.Composite) []T {
	var out []T
	for _, e := range c.Children() {
		if t, ok := e.(T); ok {
			out = append(out, t)
		}
	}
	return out
}

// hasKeyword reports whether kw appears in a comma or space separated
// keyword list.
func hasKeyword(keywords, kw string) bool {
	for _, f := range strings.FieldsFunc(keywords, func(r rune) bool { return r == ',' || r == ' ' }) {
		if f == kw {
			return true
		}
	}
	return false
}
