package uml

import "github.com/matzehuels/umlstack/pkg/model"

// Package groups packageable elements under a namespace.
type Package struct {
	model.CompositeBase
	Naming
	uri string
}

func NewPackage(id model.ID) *Package {
	p := &Package{}
	p.Init(p, id)
	return p
}

func (p *Package) ClassName() string { return KindPackage }

// URI returns the package's unique resource identifier, if any.
func (p *Package) URI() string { return p.uri }

func (p *Package) SetURI(uri string) { p.uri = uri }

func (p *Package) Serialize(a *model.Archive) error {
	if err := p.CompositeBase.Serialize(a); err != nil {
		return err
	}
	p.serialize(a)
	a.String("uri", &p.uri)
	return a.Err()
}

// Model is the top-level package of a system description.
type Model struct {
	model.CompositeBase
	Naming
	viewpoint string
}

func NewModel(id model.ID) *Model {
	m := &Model{}
	m.Init(m, id)
	return m
}

func (m *Model) ClassName() string { return KindModel }

func (m *Model) Viewpoint() string { return m.viewpoint }

func (m *Model) SetViewpoint(v string) { m.viewpoint = v }

func (m *Model) Serialize(a *model.Archive) error {
	if err := m.CompositeBase.Serialize(a); err != nil {
		return err
	}
	m.serialize(a)
	a.String("viewpoint", &m.viewpoint)
	return a.Err()
}

// Comment is a free text annotation.
type Comment struct {
	model.Base
	body string
}

func NewComment(id model.ID) *Comment {
	c := &Comment{}
	c.Init(c, id)
	return c
}

func (c *Comment) ClassName() string { return KindComment }

func (c *Comment) Body() string { return c.body }

func (c *Comment) SetBody(body string) { c.body = body }

func (c *Comment) Serialize(a *model.Archive) error {
	if err := c.Base.Serialize(a); err != nil {
		return err
	}
	a.String("body", &c.body)
	return a.Err()
}
