package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/umlstack/pkg/diagram"
	errs "github.com/matzehuels/umlstack/pkg/errors"
	"github.com/matzehuels/umlstack/pkg/model"
	"github.com/matzehuels/umlstack/pkg/project"
	"github.com/matzehuels/umlstack/pkg/uml"
)

// Options configures DOT generation.
type Options struct {
	// Detailed adds attribute, operation and literal signatures to
	// classifier labels. When false, only the name is shown.
	Detailed bool
}

const header = `  bgcolor="transparent";
  node [shape=box, style="rounded,filled", fillcolor=white, fontsize=14, margin="0.2,0.1"];
  edge [fontsize=11];
`

// ModelDOT converts the project's ownership tree and links to Graphviz DOT.
func ModelDOT(p *project.Project, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=BT;\n")
	buf.WriteString("  compound=true;\n")
	buf.WriteString(header)
	buf.WriteString("\n")

	drawn := make(map[model.Element]bool)
	writeContents(&buf, p.Root(), opts, drawn, 1)

	buf.WriteString("\n")
	for _, e := range p.Elements() {
		l, ok := e.(model.Link)
		if !ok || !drawn[l.Source()] || !drawn[l.Target()] {
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", nodeID(l.Source()), nodeID(l.Target()), strings.Join(linkAttrs(l), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeContents(buf *bytes.Buffer, c model.Composite, opts Options, drawn map[model.Element]bool, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, e := range c.Children() {
		if e.IsHidden() || isFeature(e) {
			continue
		}
		if _, ok := e.(*diagram.Diagram); ok {
			continue
		}
		if isNamespace(e) {
			fmt.Fprintf(buf, "%ssubgraph %q {\n", indent, "cluster_"+e.ID().String())
			fmt.Fprintf(buf, "%s  label=\"\";\n%s  style=dashed;\n", indent, indent)
			fmt.Fprintf(buf, "%s  %q [%s];\n", indent, nodeID(e), strings.Join(nodeAttrs(e, opts), ", "))
			drawn[e] = true
			writeContents(buf, e.(model.Composite), opts, drawn, depth+1)
			fmt.Fprintf(buf, "%s}\n", indent)
			continue
		}
		fmt.Fprintf(buf, "%s%q [%s];\n", indent, nodeID(e), strings.Join(nodeAttrs(e, opts), ", "))
		drawn[e] = true
	}
}

// DiagramDOT converts an open diagram overlay to DOT with pinned node
// positions. Diagram coordinates grow downwards; DOT's grow upwards.
func DiagramDOT(d *diagram.Diagram, opts Options) (string, error) {
	if !d.IsOpen() {
		return "", diagram.ErrNotOpen
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  layout=neato;\n")
	fmt.Fprintf(&buf, "  splines=%s;\n", splines(d.Edges()))
	fmt.Fprintf(&buf, "  label=%q;\n", d.Name())
	buf.WriteString(header)
	buf.WriteString("\n")

	for _, n := range d.Nodes() {
		attrs := nodeAttrs(n.Element(), opts)
		attrs = append(attrs,
			fmt.Sprintf("pos=\"%g,%g!\"", n.Position.X, flipY(n.Position.Y)),
			fmt.Sprintf("width=%g", n.Size.Width/72),
			fmt.Sprintf("height=%g", n.Size.Height/72),
		)
		attrs = append(attrs, styleAttrs(n.Style, true)...)
		fmt.Fprintf(&buf, "  %q [%s];\n", nodeID(n.Element()), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range d.Edges() {
		attrs := append(linkAttrs(e.Link()), styleAttrs(e.Style, false)...)
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", nodeID(e.Node1().Element()), nodeID(e.Node2().Element()), strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

// Stats counts the node and edge statements of DOT produced by this package.
func Stats(dot string) (nodes, edges int) {
	for _, line := range strings.Split(dot, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, `"`) {
			continue
		}
		if strings.Contains(line, "\" -> \"") {
			edges++
		} else {
			nodes++
		}
	}
	return nodes, edges
}

// DiagramByName returns the diagram with the given name or identifier.
func DiagramByName(p *project.Project, name string) (*diagram.Diagram, error) {
	for _, e := range p.Elements() {
		d, ok := e.(*diagram.Diagram)
		if ok && (d.Name() == name || d.ID().String() == name) {
			return d, nil
		}
	}
	return nil, errs.New(errs.ErrCodeNotFound, "no diagram named %q", name)
}

func nodeID(e model.Element) string { return e.ID().String() }

func isNamespace(e model.Element) bool {
	switch e.(type) {
	case *uml.Package, *uml.Model:
		return true
	}
	return false
}

func isFeature(e model.Element) bool {
	switch e.(type) {
	case *uml.Attribute, *uml.Operation, *uml.Parameter, *uml.EnumerationLiteral:
		return true
	}
	return false
}

func name(e model.Element) string {
	if n, ok := e.(model.Named); ok && n.Name() != "" {
		return n.Name()
	}
	return e.ClassName()
}

func nodeAttrs(e model.Element, opts Options) []string {
	var attrs []string
	switch e := e.(type) {
	case *uml.Package, *uml.Model:
		attrs = append(attrs, fmt.Sprintf("label=%q", name(e)), "shape=tab", "style=filled", "fillcolor=lightyellow")
	case *uml.Comment:
		attrs = append(attrs, fmt.Sprintf("label=%q", e.Body()), "shape=note", "style=filled", "fillcolor=lightyellow")
	default:
		attrs = append(attrs, fmt.Sprintf("label=%q", classifierLabel(e, opts.Detailed)))
	}
	return attrs
}

func classifierLabel(e model.Element, detailed bool) string {
	var header []string
	switch e := e.(type) {
	case *uml.Interface:
		header = append(header, "«interface»")
	case *uml.Enumeration:
		header = append(header, "«enumeration»")
	case *uml.DataType:
		if e.IsPrimitive() {
			header = append(header, "«primitive»")
		} else {
			header = append(header, "«dataType»")
		}
	}
	header = append(header, name(e))
	if !detailed {
		return strings.Join(header, "\n")
	}

	var lines []string
	c, ok := e.(model.Composite)
	if !ok {
		return strings.Join(header, "\n")
	}
	for _, child := range c.Children() {
		switch f := child.(type) {
		case *uml.Attribute:
			lines = append(lines, f.Signature())
		case *uml.Operation:
			lines = append(lines, f.Signature())
		case *uml.EnumerationLiteral:
			lines = append(lines, f.Name())
		}
	}
	if len(lines) == 0 {
		return strings.Join(header, "\n")
	}
	return strings.Join(header, "\n") + "\n\n" + strings.Join(lines, "\n")
}

func linkAttrs(l model.Link) []string {
	var attrs []string
	var labels model.Labels
	if lb, ok := l.(model.Labeled); ok {
		labels = lb.Labels()
	}
	if labels.Name != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", labels.Name))
	}

	switch l := l.(type) {
	case *uml.Generalization:
		attrs = append(attrs, "arrowhead=empty")
	case *uml.Dependency:
		attrs = append(attrs, "style=dashed")
		if l.IsKind(uml.KeywordRealize) {
			attrs = append(attrs, "arrowhead=empty")
		} else {
			attrs = append(attrs, "arrowhead=vee")
		}
	case *uml.Association:
		if tail := endLabel(labels.SourceRole, labels.SourceMultiplicity); tail != "" {
			attrs = append(attrs, fmt.Sprintf("taillabel=%q", tail))
		}
		if head := endLabel(labels.TargetRole, labels.TargetMultiplicity); head != "" {
			attrs = append(attrs, fmt.Sprintf("headlabel=%q", head))
		}
		attrs = append(attrs, "dir=both")
		if l.TargetEnd().Navigable {
			attrs = append(attrs, "arrowhead=vee")
		} else {
			attrs = append(attrs, "arrowhead=none")
		}
		switch l.Aggregation() {
		case uml.AggregationShared:
			attrs = append(attrs, "arrowtail=odiamond")
		case uml.AggregationComposite:
			attrs = append(attrs, "arrowtail=diamond")
		default:
			attrs = append(attrs, "arrowtail=none")
		}
	}
	return attrs
}

func endLabel(role, mult string) string {
	return strings.TrimSpace(role + " " + mult)
}

func styleAttrs(s diagram.Style, node bool) []string {
	var attrs []string
	if s.Fill != "" && node {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", s.Fill))
	}
	if s.Stroke != "" {
		attrs = append(attrs, fmt.Sprintf("color=%q", s.Stroke))
	}
	if s.TextColor != "" {
		attrs = append(attrs, fmt.Sprintf("fontcolor=%q", s.TextColor))
	}
	if s.Font != "" {
		attrs = append(attrs, fmt.Sprintf("fontname=%q", s.Font))
	}
	if s.FontSize > 0 {
		attrs = append(attrs, fmt.Sprintf("fontsize=%g", s.FontSize))
	}
	if s.LineWidth > 0 {
		attrs = append(attrs, fmt.Sprintf("penwidth=%g", s.LineWidth))
	}
	if s.Dashed {
		if node {
			attrs = append(attrs, "style=\"rounded,filled,dashed\"")
		} else {
			attrs = append(attrs, "style=dashed")
		}
	}
	return attrs
}

func flipY(y float64) float64 {
	if y == 0 {
		return 0
	}
	return -y
}

func splines(edges []*diagram.Edge) string {
	for _, e := range edges {
		switch e.Routing {
		case diagram.RoutingOrthogonal:
			return "ortho"
		case diagram.RoutingSpline:
			return "true"
		}
	}
	return "line"
}
