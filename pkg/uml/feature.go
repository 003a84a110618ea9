package uml

import (
	"strings"

	"github.com/matzehuels/umlstack/pkg/model"
)

// Attribute is a typed structural feature of a classifier.
type Attribute struct {
	model.Base
	Naming
	typ          string
	initial      string
	multiplicity Multiplicity
	aggregation  AggregationKind
	static       bool
	readOnly     bool
	derived      bool
}

func NewAttribute(id model.ID) *Attribute {
	a := &Attribute{multiplicity: One}
	a.Init(a, id)
	return a
}

func (a *Attribute) ClassName() string { return KindAttribute }

func (a *Attribute) Type() string { return a.typ }

func (a *Attribute) SetType(typ string) { a.typ = typ }

// Default returns the initial value expression.
func (a *Attribute) Default() string { return a.initial }

func (a *Attribute) SetDefault(v string) { a.initial = v }

func (a *Attribute) Multiplicity() Multiplicity { return a.multiplicity }

func (a *Attribute) SetMultiplicity(m Multiplicity) { a.multiplicity = orOne(m) }

func (a *Attribute) Aggregation() AggregationKind { return a.aggregation }

func (a *Attribute) SetAggregation(k AggregationKind) { a.aggregation = k }

func (a *Attribute) IsStatic() bool { return a.static }

func (a *Attribute) SetStatic(static bool) { a.static = static }

func (a *Attribute) IsReadOnly() bool { return a.readOnly }

func (a *Attribute) SetReadOnly(readOnly bool) { a.readOnly = readOnly }

func (a *Attribute) IsDerived() bool { return a.derived }

func (a *Attribute) SetDerived(derived bool) { a.derived = derived }

// Signature renders "<vis> [/]name[: type][mult][ = default][ {readOnly}]".
func (a *Attribute) Signature() string {
	var b strings.Builder
	b.WriteString(a.visibility.Symbol())
	b.WriteByte(' ')
	if a.derived {
		b.WriteByte('/')
	}
	writeTyped(&b, a.name, a.typ, a.multiplicity, a.initial)
	if a.readOnly {
		b.WriteString(" {readOnly}")
	}
	return b.String()
}

func (a *Attribute) Serialize(ar *model.Archive) error {
	if err := a.Base.Serialize(ar); err != nil {
		return err
	}
	a.serialize(ar)
	ar.String("type", &a.typ)
	ar.String("default", &a.initial)
	ar.Field("multiplicity", &a.multiplicity)
	ar.Field("aggregation", &a.aggregation)
	ar.Bool("static", &a.static)
	ar.Bool("readOnly", &a.readOnly)
	ar.Bool("derived", &a.derived)
	return ar.Err()
}

// Parameter is one parameter of an operation.
type Parameter struct {
	model.Base
	Naming
	typ          string
	initial      string
	direction    ParameterDirection
	multiplicity Multiplicity
}

func NewParameter(id model.ID) *Parameter {
	p := &Parameter{multiplicity: One}
	p.Init(p, id)
	return p
}

func (p *Parameter) ClassName() string { return KindParameter }

func (p *Parameter) Type() string { return p.typ }

func (p *Parameter) SetType(typ string) { p.typ = typ }

func (p *Parameter) Default() string { return p.initial }

func (p *Parameter) SetDefault(v string) { p.initial = v }

func (p *Parameter) Direction() ParameterDirection { return p.direction }

func (p *Parameter) SetDirection(d ParameterDirection) { p.direction = d }

func (p *Parameter) Multiplicity() Multiplicity { return p.multiplicity }

func (p *Parameter) SetMultiplicity(m Multiplicity) { p.multiplicity = orOne(m) }

// Signature renders "[direction ]name[: type][mult][ = default]". The
// default "in" direction is omitted.
func (p *Parameter) Signature() string {
	var b strings.Builder
	if p.direction != DirectionIn {
		b.WriteString(p.direction.String())
		b.WriteByte(' ')
	}
	writeTyped(&b, p.name, p.typ, p.multiplicity, p.initial)
	return b.String()
}

func (p *Parameter) Serialize(a *model.Archive) error {
	if err := p.Base.Serialize(a); err != nil {
		return err
	}
	p.serialize(a)
	a.String("type", &p.typ)
	a.String("default", &p.initial)
	a.Field("direction", &p.direction)
	a.Field("multiplicity", &p.multiplicity)
	return a.Err()
}

// Operation is a behavioral feature. Its children are its parameters.
type Operation struct {
	model.CompositeBase
	Naming
	returnType string
	abstract   bool
	static     bool
	query      bool
}

func NewOperation(id model.ID) *Operation {
	o := &Operation{}
	o.Init(o, id)
	return o
}

func (o *Operation) ClassName() string { return KindOperation }

func (o *Operation) ReturnType() string { return o.returnType }

func (o *Operation) SetReturnType(typ string) { o.returnType = typ }

func (o *Operation) IsAbstract() bool { return o.abstract }

func (o *Operation) SetAbstract(abstract bool) { o.abstract = abstract }

func (o *Operation) IsStatic() bool { return o.static }

func (o *Operation) SetStatic(static bool) { o.static = static }

func (o *Operation) IsQuery() bool { return o.query }

func (o *Operation) SetQuery(query bool) { o.query = query }

// Parameters returns the parameter children in order.
func (o *Operation) Parameters() []*Parameter { return childrenOf[*Parameter](o) }

// Signature renders "<vis> name(params)[: return][ {query}]". Parameters
// with the return direction are left out of the list; when no return type
// is set, the first of them supplies it.
func (o *Operation) Signature() string {
	var b strings.Builder
	b.WriteString(o.visibility.Symbol())
	b.WriteByte(' ')
	b.WriteString(o.name)
	b.WriteByte('(')

	ret := o.returnType
	first := true
	for _, p := range o.Parameters() {
		if p.direction == DirectionReturn {
			if ret == "" {
				ret = p.typ
			}
			continue
		}
		if !first {
			b.WriteString(", ")
		}
		first = false
		b.WriteString(p.Signature())
	}
	b.WriteByte(')')
	if ret != "" {
		b.WriteString(": ")
		b.WriteString(ret)
	}
	if o.query {
		b.WriteString(" {query}")
	}
	return b.String()
}

func (o *Operation) Serialize(a *model.Archive) error {
	if err := o.CompositeBase.Serialize(a); err != nil {
		return err
	}
	o.serialize(a)
	a.String("returnType", &o.returnType)
	a.Bool("abstract", &o.abstract)
	a.Bool("static", &o.static)
	a.Bool("query", &o.query)
	return a.Err()
}

func writeTyped(b *strings.Builder, name, typ string, m Multiplicity, initial string) {
	b.WriteString(name)
	if typ != "" {
		b.WriteString(": ")
		b.WriteString(typ)
	}
	b.WriteString(m.String())
	if initial != "" {
		b.WriteString(" = ")
		b.WriteString(initial)
	}
}
