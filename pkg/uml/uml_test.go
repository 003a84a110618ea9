package uml

import (
	"bytes"
	"testing"

	"github.com/matzehuels/umlstack/pkg/catalog"
	"github.com/matzehuels/umlstack/pkg/model"
)

type resolver map[model.ID]model.Element

func (r resolver) Find(id model.ID) (model.Element, bool) {
	e, ok := r[id]
	return e, ok
}

// roundTrip writes src, reads the bytes into dst and checks that writing
// dst again yields the same bytes.
func roundTrip(t *testing.T, src, dst model.Element, r model.Resolver) {
	t.Helper()
	w := model.NewWriter(1)
	if err := src.Serialize(w); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := w.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}

	rd, err := model.NewReader(data, "element", r)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	if err := dst.Serialize(rd); err != nil {
		t.Fatalf("read: %v", err)
	}

	w2 := model.NewWriter(1)
	if err := dst.Serialize(w2); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	again, err := w2.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if !bytes.Equal(data, again) {
		t.Errorf("round trip changed the element file:\n%s\n---\n%s", data, again)
	}
}

func TestAttributeSignature(t *testing.T) {
	tests := []struct {
		name  string
		setup func(a *Attribute)
		want  string
	}{
		{
			name: "TypedDefault",
			setup: func(a *Attribute) {
				a.SetName("test")
				a.SetVisibility(Public)
				a.SetAggregation(AggregationComposite)
				a.SetType("uint32")
				a.SetDefault("10")
			},
			want: "+ test: uint32 = 10",
		},
		{
			name: "Untyped",
			setup: func(a *Attribute) {
				a.SetName("x")
				a.SetVisibility(Private)
			},
			want: "- x",
		},
		{
			name: "ManyDerivedReadOnly",
			setup: func(a *Attribute) {
				a.SetName("items")
				a.SetVisibility(Protected)
				a.SetType("string")
				a.SetMultiplicity(Many)
				a.SetDerived(true)
				a.SetReadOnly(true)
			},
			want: "# /items: string[*] {readOnly}",
		},
		{
			name: "PackageRange",
			setup: func(a *Attribute) {
				a.SetName("slot")
				a.SetVisibility(PackageVisibility)
				a.SetType("int")
				a.SetMultiplicity(Multiplicity{0, 1})
			},
			want: "~ slot: int[0..1]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAttribute(model.NilID)
			tt.setup(a)
			if got := a.Signature(); got != tt.want {
				t.Errorf("Signature() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOperationSignature(t *testing.T) {
	op := NewOperation(model.NilID)
	op.SetName("run")
	op.SetReturnType("bool")

	a := NewParameter(model.NilID)
	a.SetName("a")
	a.SetType("int")
	b := NewParameter(model.NilID)
	b.SetName("b")
	b.SetType("string")
	b.SetDirection(DirectionOut)

	for _, p := range []*Parameter{a, b} {
		if err := op.Insert(-1, p); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	if got, want := op.Signature(), "+ run(a: int, out b: string): bool"; got != want {
		t.Errorf("Signature() = %q, want %q", got, want)
	}

	op.SetReturnType("")
	ret := NewParameter(model.NilID)
	ret.SetDirection(DirectionReturn)
	ret.SetType("error")
	op.Insert(-1, ret)
	op.SetQuery(true)
	if got, want := op.Signature(), "+ run(a: int, out b: string): error {query}"; got != want {
		t.Errorf("Signature() = %q, want %q", got, want)
	}
}

func TestParameterSignature(t *testing.T) {
	p := NewParameter(model.NilID)
	p.SetName("x")
	p.SetType("int")
	p.SetDefault("0")
	p.SetDirection(DirectionOut)
	if got, want := p.Signature(), "out x: int = 0"; got != want {
		t.Errorf("Signature() = %q, want %q", got, want)
	}
}

func TestMultiplicity(t *testing.T) {
	tests := []struct {
		in     string
		want   Multiplicity
		str    string
		errors bool
	}{
		{in: "", want: One, str: ""},
		{in: "1", want: One, str: ""},
		{in: "*", want: Many, str: "[*]"},
		{in: "0..*", want: Many, str: "[*]"},
		{in: "[1..*]", want: AtLeastOne, str: "[1..*]"},
		{in: "2", want: Multiplicity{2, 2}, str: "[2]"},
		{in: "0..1", want: Optional, str: "[0..1]"},
		{in: "3..1", errors: true},
		{in: "a..b", errors: true},
		{in: "0", errors: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			m, err := ParseMultiplicity(tt.in)
			if tt.errors {
				if err == nil {
					t.Fatalf("ParseMultiplicity(%q) = %v, want error", tt.in, m)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMultiplicity(%q): %v", tt.in, err)
			}
			if m != tt.want {
				t.Errorf("ParseMultiplicity(%q) = %+v, want %+v", tt.in, m, tt.want)
			}
			if m.String() != tt.str {
				t.Errorf("String() = %q, want %q", m.String(), tt.str)
			}
		})
	}
}

func TestSetMultiplicityInvalid(t *testing.T) {
	a := NewAttribute(model.NilID)
	a.SetMultiplicity(Multiplicity{})
	if a.Multiplicity() != One {
		t.Errorf("zero multiplicity stored as %+v, want One", a.Multiplicity())
	}
}

func TestParseVisibility(t *testing.T) {
	tests := []struct {
		in   string
		want Visibility
	}{
		{"+", Public}, {"public", Public},
		{"#", Protected}, {"-", Private},
		{"~", PackageVisibility}, {"package", PackageVisibility},
	}
	for _, tt := range tests {
		got, err := ParseVisibility(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseVisibility(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseVisibility("secret"); err == nil {
		t.Error("ParseVisibility(secret) succeeded")
	}
}

func TestRoundTrip(t *testing.T) {
	t.Run("Attribute", func(t *testing.T) {
		a := NewAttribute(model.NilID)
		a.SetName("count")
		a.SetVisibility(Private)
		a.SetComment("number of items")
		a.SetKeywords("id")
		a.SetType("uint32")
		a.SetDefault("10")
		a.SetMultiplicity(Multiplicity{1, 4})
		a.SetAggregation(AggregationComposite)
		a.SetStatic(true)
		a.SetReadOnly(true)
		a.SetDerived(true)

		b := NewAttribute(a.ID())
		roundTrip(t, a, b, nil)
		if b.Name() != "count" || b.Visibility() != Private || b.Type() != "uint32" ||
			b.Default() != "10" || b.Multiplicity() != (Multiplicity{1, 4}) ||
			b.Aggregation() != AggregationComposite || !b.IsStatic() || !b.IsReadOnly() ||
			!b.IsDerived() || b.Keywords() != "id" || b.Comment() != "number of items" {
			t.Errorf("fields lost: %+v", b)
		}
	})

	t.Run("Class", func(t *testing.T) {
		c := NewClass(model.NilID)
		c.SetName("Shape")
		c.SetAbstract(true)
		c.SetFinal(true)
		d := NewClass(c.ID())
		roundTrip(t, c, d, nil)
		if d.Name() != "Shape" || !d.IsAbstract() || !d.IsFinal() {
			t.Errorf("fields lost: %+v", d)
		}
	})

	t.Run("OperationWithParameters", func(t *testing.T) {
		op := NewOperation(model.NilID)
		op.SetName("area")
		op.SetReturnType("float64")
		op.SetAbstract(true)
		p := NewParameter(model.NilID)
		p.SetName("scale")
		p.SetType("float64")
		p.SetDirection(DirectionInOut)
		p.SetMultiplicity(Optional)
		op.Insert(0, p)

		fresh := NewParameter(p.ID())
		roundTrip(t, p, fresh, nil)

		dst := NewOperation(op.ID())
		roundTrip(t, op, dst, resolver{p.ID(): fresh})
		params := dst.Parameters()
		if len(params) != 1 || params[0] != fresh {
			t.Fatalf("Parameters() = %v", params)
		}
		if fresh.Direction() != DirectionInOut || fresh.Multiplicity() != Optional {
			t.Errorf("parameter fields lost: %+v", fresh)
		}
		if dst.Signature() != op.Signature() {
			t.Errorf("Signature() = %q, want %q", dst.Signature(), op.Signature())
		}
	})

	t.Run("Association", func(t *testing.T) {
		a, b := NewClass(model.NilID), NewClass(model.NilID)
		as := NewAssociation(model.NilID)
		as.SetName("owns")
		as.SetAggregation(AggregationShared)
		as.SetSourceEnd(End{Role: "owner", Multiplicity: One, Navigable: true})
		as.SetTargetEnd(End{Role: "items", Multiplicity: Many})
		as.SetSource(a)
		as.SetTarget(b)

		a2, b2 := NewClass(a.ID()), NewClass(b.ID())
		dst := NewAssociation(as.ID())
		roundTrip(t, as, dst, resolver{a.ID(): a2, b.ID(): b2})
		if dst.Source() != a2 || dst.Target() != b2 {
			t.Errorf("endpoints not resolved")
		}
		if dst.TargetEnd().Role != "items" || dst.TargetEnd().Multiplicity != Many || !dst.SourceEnd().Navigable {
			t.Errorf("ends lost: %+v %+v", dst.SourceEnd(), dst.TargetEnd())
		}
		if len(a2.Links()) != 1 || len(b2.Links()) != 1 {
			t.Errorf("resolved ends not linked")
		}
	})

	t.Run("Others", func(t *testing.T) {
		pkg := NewPackage(model.NilID)
		pkg.SetName("core")
		pkg.SetURI("urn:core")
		roundTrip(t, pkg, NewPackage(pkg.ID()), nil)

		m := NewModel(model.NilID)
		m.SetName("System")
		m.SetViewpoint("design")
		roundTrip(t, m, NewModel(m.ID()), nil)

		cm := NewComment(model.NilID)
		cm.SetBody("see RFC 9110")
		roundTrip(t, cm, NewComment(cm.ID()), nil)

		lit := NewEnumerationLiteral(model.NilID)
		lit.SetName("Red")
		roundTrip(t, lit, NewEnumerationLiteral(lit.ID()), nil)
	})
}

func TestReadClassMismatch(t *testing.T) {
	w := model.NewWriter(1)
	c := NewClass(model.NilID)
	c.Serialize(w)
	data, _ := w.Bytes()

	rd, err := model.NewReader(data, "element", nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := NewPackage(c.ID()).Serialize(rd); err == nil {
		t.Error("reading a Class file into a Package succeeded")
	}
}

func TestSwap(t *testing.T) {
	a, b := NewClass(model.NilID), NewClass(model.NilID)

	as := NewAssociation(model.NilID)
	as.SetSource(a)
	as.SetTarget(b)
	as.SetSourceEnd(End{Role: "left", Multiplicity: One})
	as.SetTargetEnd(End{Role: "right", Multiplicity: Many})
	if !as.Swap() {
		t.Fatal("association Swap refused")
	}
	if as.Source() != b || as.SourceEnd().Role != "right" || as.TargetEnd().Role != "left" {
		t.Errorf("Swap did not exchange ends with endpoints")
	}

	for _, l := range []model.Link{NewDependency(model.NilID), NewGeneralization(model.NilID)} {
		l.SetSource(a)
		l.SetTarget(b)
		if l.Swap() {
			t.Errorf("%s Swap succeeded on a directed link", l.ClassName())
		}
		if l.Source() != a {
			t.Errorf("%s endpoints changed", l.ClassName())
		}
	}
}

func TestDependencyLabels(t *testing.T) {
	d := NewDependency(model.NilID)
	d.SetKeywords(KeywordImport)
	d.SetName("std")
	if got := d.Labels().Name; got != "«import» std" {
		t.Errorf("Labels().Name = %q", got)
	}
	if !d.IsKind(KeywordImport) || d.IsKind(KeywordUse) {
		t.Error("IsKind mismatch")
	}
}

func TestRegister(t *testing.T) {
	c := catalog.New()
	if err := Register(c); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := Register(c); err == nil {
		t.Error("second Register succeeded")
	}

	tests := []struct {
		key   string
		class string
		check func(model.Element) bool
	}{
		{key: "Class", class: KindClass},
		{key: "Model", class: KindModel},
		{key: "DataType::Primitive", class: KindDataType, check: func(e model.Element) bool {
			return e.(*DataType).IsPrimitive()
		}},
		{key: "Association::Aggregation", class: KindAssociation, check: func(e model.Element) bool {
			return e.(*Association).Aggregation() == AggregationShared
		}},
		{key: "Association::Composition", class: KindAssociation, check: func(e model.Element) bool {
			return e.(*Association).Aggregation() == AggregationComposite
		}},
		{key: "Dependency::Import", class: KindDependency, check: func(e model.Element) bool {
			return e.Keywords() == KeywordImport
		}},
		{key: "Dependency::Realization", class: KindDependency, check: func(e model.Element) bool {
			return e.(*Dependency).IsKind(KeywordRealize)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			id := model.NewID()
			e := c.Build(tt.key, id)
			if e == nil {
				t.Fatalf("Build(%q) = nil", tt.key)
			}
			if e.ID() != id || e.ClassName() != tt.class {
				t.Errorf("Build(%q) = %s %v", tt.key, e.ClassName(), e.ID())
			}
			if tt.check != nil && !tt.check(e) {
				t.Errorf("Build(%q) did not preset the variant property", tt.key)
			}
		})
	}

	if c.Build("NoSuchClass", model.NewID()) != nil {
		t.Error(`Build("NoSuchClass") returned an element`)
	}
}
