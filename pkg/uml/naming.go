package uml

import "github.com/matzehuels/umlstack/pkg/model"

// Naming holds the name, visibility and comment shared by named kinds.
type Naming struct {
	name       string
	visibility Visibility
	comment    string
}

func (n *Naming) Name() string { return n.name }

func (n *Naming) SetName(name string) { n.name = name }

func (n *Naming) Visibility() Visibility { return n.visibility }

func (n *Naming) SetVisibility(v Visibility) { n.visibility = v }

func (n *Naming) Comment() string { return n.comment }

func (n *Naming) SetComment(comment string) { n.comment = comment }

func (n *Naming) serialize(a *model.Archive) {
	a.String("name", &n.name)
	a.Field("visibility", &n.visibility)
	a.String("comment", &n.comment)
}
