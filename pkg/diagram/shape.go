package diagram

import (
	"slices"

	errs "github.com/matzehuels/umlstack/pkg/errors"
	"github.com/matzehuels/umlstack/pkg/model"
)

// Point is a position in diagram coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is the extent of a node.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DefaultSize is assigned to nodes added without an explicit size.
var DefaultSize = Size{Width: 120, Height: 60}

// Style holds the presentation attributes shared by nodes and edges.
type Style struct {
	Fill      string  `json:"fill,omitempty"`
	Stroke    string  `json:"stroke,omitempty"`
	TextColor string  `json:"textColor,omitempty"`
	Font      string  `json:"font,omitempty"`
	FontSize  float64 `json:"fontSize,omitempty"`
	LineWidth float64 `json:"lineWidth,omitempty"`
	Dashed    bool    `json:"dashed,omitempty"`
}

// Routing is the path style of an edge.
type Routing int

const (
	RoutingStraight Routing = iota
	RoutingOrthogonal
	RoutingSpline
)

var routingNames = []string{"straight", "orthogonal", "spline"}

func (r Routing) String() string {
	if r < 0 || int(r) >= len(routingNames) {
		return "unknown"
	}
	return routingNames[r]
}

func (r Routing) MarshalText() ([]byte, error) {
	if r < 0 || int(r) >= len(routingNames) {
		return nil, errs.New(errs.ErrCodeContract, "invalid routing %d", int(r))
	}
	return []byte(routingNames[r]), nil
}

func (r *Routing) UnmarshalText(text []byte) error {
	i := slices.Index(routingNames, string(text))
	if i < 0 {
		return errs.New(errs.ErrCodeParse, "unknown routing %q", text)
	}
	*r = Routing(i)
	return nil
}

// Shape is a node or an edge of the overlay.
type Shape interface {
	// Element returns the model element the shape displays.
	Element() model.Element
}

// Node displays one element.
type Node struct {
	element  model.Element
	Position Point
	Size     Size
	Style    Style
}

func (n *Node) Element() model.Element { return n.element }

// Label returns the element's name, or its class name when it has none.
func (n *Node) Label() string { return label(n.element) }

// Edge displays one link between two nodes.
type Edge struct {
	link    model.Link
	node1   *Node
	node2   *Node
	Routing Routing
	Points  []Point
	Style   Style
}

func (e *Edge) Element() model.Element { return e.link }

func (e *Edge) Link() model.Link { return e.link }

// Node1 returns the node displaying the link's source.
func (e *Edge) Node1() *Node { return e.node1 }

// Node2 returns the node displaying the link's target.
func (e *Edge) Node2() *Node { return e.node2 }

// Labels returns the link's display text, or empty labels for links that
// carry none.
func (e *Edge) Labels() model.Labels {
	if l, ok := e.link.(model.Labeled); ok {
		return l.Labels()
	}
	return model.Labels{}
}

func label(e model.Element) string {
	if n, ok := e.(model.Named); ok && n.Name() != "" {
		return n.Name()
	}
	return e.ClassName()
}
