package uml

import (
	"strings"

	"github.com/matzehuels/umlstack/pkg/model"
)

// Dependency keywords preset by the catalog variants.
const (
	KeywordUse         = "use"
	KeywordAbstraction = "abstraction"
	KeywordImport      = "import"
	KeywordRealize     = "realize"
)

// Generalization links a specific classifier (source) to a more general
// one (target).
type Generalization struct {
	model.LinkBase
}

func NewGeneralization(id model.ID) *Generalization {
	g := &Generalization{}
	g.Init(g, id)
	return g
}

func (g *Generalization) ClassName() string { return KindGeneralization }

func (g *Generalization) IsDirected() bool { return true }

// Specific returns the source end.
func (g *Generalization) Specific() model.Element { return g.Source() }

// General returns the target end.
func (g *Generalization) General() model.Element { return g.Target() }

// Dependency is a directed supplier/client relationship: the source
// depends on the target. Its kind is carried by the keywords.
type Dependency struct {
	model.LinkBase
	Naming
}

func NewDependency(id model.ID) *Dependency {
	d := &Dependency{}
	d.Init(d, id)
	return d
}

func (d *Dependency) ClassName() string { return KindDependency }

func (d *Dependency) IsDirected() bool { return true }

// IsKind reports whether the dependency carries the given keyword.
func (d *Dependency) IsKind(keyword string) bool { return hasKeyword(d.Keywords(), keyword) }

// Labels shows the keywords in guillemets ahead of the name.
func (d *Dependency) Labels() model.Labels {
	var parts []string
	if kw := strings.TrimSpace(d.Keywords()); kw != "" {
		parts = append(parts, "«"+kw+"»")
	}
	if d.name != "" {
		parts = append(parts, d.name)
	}
	return model.Labels{Name: strings.Join(parts, " ")}
}

func (d *Dependency) Serialize(a *model.Archive) error {
	if err := d.LinkBase.Serialize(a); err != nil {
		return err
	}
	d.serialize(a)
	return a.Err()
}
