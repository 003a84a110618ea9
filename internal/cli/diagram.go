package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/umlstack/pkg/diagram"
	errs "github.com/matzehuels/umlstack/pkg/errors"
	"github.com/matzehuels/umlstack/pkg/export"
	"github.com/matzehuels/umlstack/pkg/fsutil"
	"github.com/matzehuels/umlstack/pkg/model"
	"github.com/matzehuels/umlstack/pkg/project"
)

var diagramKinds = []string{
	diagram.KindClass,
	diagram.KindPackage,
	diagram.KindComponent,
	diagram.KindDeployment,
	diagram.KindUseCase,
	diagram.KindObject,
}

// Grid used to place nodes of a new diagram.
const (
	gridColumns = 4
	gridMargin  = 40
)

// diagramCommand creates the diagram management command.
func (c *CLI) diagramCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diagram",
		Short: "List, show and add diagrams",
	}

	cmd.AddCommand(c.diagramListCommand())
	cmd.AddCommand(c.diagramShowCommand())
	cmd.AddCommand(c.diagramAddCommand())

	return cmd
}

func (c *CLI) diagramListCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "list <project>",
		Short:             "List the diagrams of a project",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeProject,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.openProject(args[0])
			if err != nil {
				return err
			}
			var rows [][]string
			for _, d := range diagrams(p) {
				stored := "no"
				if fsutil.Exists(d.SidecarFile()) {
					stored = "yes"
				}
				rows = append(rows, []string{d.Name(), d.Kind(), stored, d.ID().String()})
			}
			if len(rows) == 0 {
				printInfo("No diagrams in %s", p.Name())
				return nil
			}
			printTable([]string{"Name", "Kind", "Stored", "ID"}, rows)
			return nil
		},
	}
}

func (c *CLI) diagramShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "show <project> <diagram>",
		Short:             "Show the nodes and edges of a diagram",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeDiagrams,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.openProject(args[0])
			if err != nil {
				return err
			}
			d, err := export.DiagramByName(p, args[1])
			if err != nil {
				return err
			}
			if err := d.Open(); err != nil {
				return err
			}
			defer d.Close()

			fmt.Fprintln(stdout, StyleTitle.Render(d.Name())+" "+StyleDim.Render(d.Kind()))
			if d.Documentation() != "" {
				printDetail("%s", d.Documentation())
			}

			nodes := make([][]string, 0, len(d.Nodes()))
			for _, n := range d.Nodes() {
				nodes = append(nodes, []string{
					n.Label(),
					n.Element().ClassName(),
					fmt.Sprintf("%g,%g", n.Position.X, n.Position.Y),
					fmt.Sprintf("%gx%g", n.Size.Width, n.Size.Height),
				})
			}
			if len(nodes) > 0 {
				printTable([]string{"Element", "Class", "Position", "Size"}, nodes)
			}

			edges := make([][]string, 0, len(d.Edges()))
			for _, e := range d.Edges() {
				label := e.Labels().Name
				if label == "" {
					label = e.Link().ClassName()
				}
				edges = append(edges, []string{label, e.Node1().Label(), e.Node2().Label(), e.Routing.String()})
			}
			if len(edges) > 0 {
				printTable([]string{"Link", "From", "To", "Routing"}, edges)
			}
			if len(nodes) == 0 && len(edges) == 0 {
				printInfo("Diagram is empty")
			}
			return nil
		},
	}
}

func (c *CLI) diagramAddCommand() *cobra.Command {
	var (
		kind     string
		parent   string
		elements []string
	)

	cmd := &cobra.Command{
		Use:   "add <project> <name>",
		Short: "Add a diagram showing the given elements",
		Long: `Add a diagram to a project. Elements listed with --elements are placed on a
grid, and every link between two placed elements is drawn as an edge.`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeProject,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(diagramKinds, kind) {
				return errs.New(errs.ErrCodeContract, "unknown diagram kind %q (want one of %s)", kind, strings.Join(diagramKinds, ", "))
			}
			p, err := c.openProject(args[0])
			if err != nil {
				return err
			}
			owner := p.Root()
			if parent != "" {
				e, err := findElement(p, parent)
				if err != nil {
					return err
				}
				comp, ok := e.(model.Composite)
				if !ok {
					return errs.New(errs.ErrCodeContract, "%s %s cannot own elements", e.ClassName(), parent)
				}
				owner = comp
			}

			var shown []model.Element
			for _, key := range elements {
				e, err := findElement(p, key)
				if err != nil {
					return err
				}
				shown = append(shown, e)
			}

			d := p.Catalog().Build(diagram.ClassName, model.NewID()).(*diagram.Diagram)
			d.SetName(args[1])
			d.SetKind(kind)
			if err := insert(p, owner, d); err != nil {
				return err
			}
			if err := d.Open(); err != nil {
				return err
			}
			edges, err := populate(p, d, shown)
			if err != nil {
				return err
			}
			if err := p.Save(); err != nil {
				return err
			}

			printSuccess("Added %s diagram %s", kind, StyleHighlight.Render(d.Name()))
			printStats(len(d.Nodes()), edges, false)
			printFile(d.SidecarFile())
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", diagram.KindClass, "diagram kind ("+strings.Join(diagramKinds, ", ")+")")
	cmd.Flags().StringVar(&parent, "parent", "", "owning element (identifier or name)")
	cmd.Flags().StringSliceVarP(&elements, "elements", "e", nil, "elements to place (identifiers or names)")
	_ = cmd.RegisterFlagCompletionFunc("kind", cobra.FixedCompletions(diagramKinds, cobra.ShellCompDirectiveNoFileComp))
	return cmd
}

// populate places elems on a grid in d and adds an edge for every link of
// the project whose ends are both placed. It returns the number of edges.
func populate(p *project.Project, d *diagram.Diagram, elems []model.Element) (int, error) {
	for i, e := range elems {
		n, err := d.AddNode(e)
		if err != nil {
			return 0, err
		}
		col, row := i%gridColumns, i/gridColumns
		n.Position = diagram.Point{
			X: gridMargin + float64(col)*(n.Size.Width+gridMargin),
			Y: gridMargin + float64(row)*(n.Size.Height+gridMargin),
		}
	}

	edges := 0
	for _, e := range p.Elements() {
		l, ok := e.(model.Link)
		if !ok || !d.Contains(l.Source()) || !d.Contains(l.Target()) {
			continue
		}
		if _, err := d.AddEdge(l); err != nil {
			return edges, err
		}
		edges++
	}
	return edges, nil
}

func diagrams(p *project.Project) []*diagram.Diagram {
	var out []*diagram.Diagram
	for _, e := range p.Elements() {
		if d, ok := e.(*diagram.Diagram); ok {
			out = append(out, d)
		}
	}
	return out
}
