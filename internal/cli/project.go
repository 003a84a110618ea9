package cli

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/umlstack/pkg/errors"
	"github.com/matzehuels/umlstack/pkg/model"
	"github.com/matzehuels/umlstack/pkg/project"
)

type nameSetter interface {
	SetName(name string)
}

type bodySetter interface {
	SetBody(body string)
}

// newCommand creates the "new" command.
func (c *CLI) newCommand() *cobra.Command {
	var author string

	cmd := &cobra.Command{
		Use:   "new <dir> <name>",
		Short: "Create an empty project in dir/name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if author != "" {
				c.Config.Author = author
			}
			p, err := c.newProject()
			if err != nil {
				return err
			}
			if err := p.Create(args[0], args[1]); err != nil {
				return err
			}
			printSuccess("Created project %s", StyleHighlight.Render(p.Name()))
			printFile(p.Path())
			printNextStep("Add a model", fmt.Sprintf("%s add %s Model --name %s", appName, p.Dir(), p.Name()))
			return nil
		},
	}

	cmd.Flags().StringVar(&author, "author", "", "project author (default from config)")
	return cmd
}

// addCommand creates the "add" command.
func (c *CLI) addCommand() *cobra.Command {
	var name, parent, keywords, body string

	cmd := &cobra.Command{
		Use:   "add <project> <class>",
		Short: "Add an element to a project",
		Long: `Add an element of the given class (or Class::Variant) to a project.

The element is inserted as the last visible child of --parent, which is an
identifier or a name. Without --parent it goes under the project root.`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeClasses(false),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			e, err := build(p, args[1])
			if err != nil {
				return err
			}
			if e.IsLink() {
				return errs.New(errs.ErrCodeContract, "%s is a link, use the link command", args[1])
			}
			if name != "" {
				ns, ok := e.(nameSetter)
				if !ok {
					return errs.New(errs.ErrCodeContract, "%s has no name", e.ClassName())
				}
				ns.SetName(name)
			}
			if body != "" {
				bs, ok := e.(bodySetter)
				if !ok {
					return errs.New(errs.ErrCodeContract, "%s has no body", e.ClassName())
				}
				bs.SetBody(body)
			}
			if keywords != "" {
				e.SetKeywords(keywords)
			}

			if err := insert(p, owner, e); err != nil {
				return err
			}
			if err := p.Save(); err != nil {
				return err
			}
			printSuccess("Added %s %s", e.ClassName(), StyleHighlight.Render(displayName(e)))
			printDetail("id: %s", e.ID())
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "element name")
	cmd.Flags().StringVar(&parent, "parent", "", "owning element (identifier or name)")
	cmd.Flags().StringVar(&keywords, "keywords", "", "element keywords")
	cmd.Flags().StringVar(&body, "body", "", "comment text")
	return cmd
}

// linkCommand creates the "link" command.
func (c *CLI) linkCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "link <project> <class> <source> <target>",
		Short: "Connect two elements with a link",
		Long: `Create a link of the given class (Association, Generalization, Dependency or
one of their variants) from source to target. Source and target are
identifiers or names. The link is owned by the source's owner.`,
		Args:              cobra.ExactArgs(4),
		ValidArgsFunction: completeClasses(true),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.openProject(args[0])
			if err != nil {
				return err
			}
			src, err := findElement(p, args[2])
			if err != nil {
				return err
			}
			dst, err := findElement(p, args[3])
			if err != nil {
				return err
			}

			e, err := build(p, args[1])
			if err != nil {
				return err
			}
			l, ok := e.(model.Link)
			if !ok {
				return errs.New(errs.ErrCodeContract, "%s is not a link class", args[1])
			}
			if name != "" {
				if ns, ok := e.(nameSetter); ok {
					ns.SetName(name)
				}
			}
			l.SetSource(src)
			l.SetTarget(dst)

			owner := src.Owner()
			if owner == nil {
				owner = p.Root()
			}
			if err := insert(p, owner, l); err != nil {
				return err
			}
			if err := p.Save(); err != nil {
				return err
			}
			printSuccess("Linked %s %s %s", StyleHighlight.Render(displayName(src)), StyleDim.Render(iconArrow), StyleHighlight.Render(displayName(dst)))
			printDetail("%s %s", l.ClassName(), l.ID())
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "link name")
	return cmd
}

// infoCommand creates the "info" command.
func (c *CLI) infoCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "info <project>",
		Short:             "Show project metadata and element counts",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeProject,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.openProject(args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(stdout, StyleTitle.Render(p.Name()))
			printKeyValue("Path", p.Path())
			printKeyValue("Author", p.Author())
			if p.Comment() != "" {
				printKeyValue("Comment", p.Comment())
			}
			printKeyValue("Elements", fmt.Sprint(p.Count()))

			counts := make(map[string]int)
			for _, e := range p.Elements() {
				counts[e.ClassName()]++
			}
			classes := make([]string, 0, len(counts))
			for class := range counts {
				classes = append(classes, class)
			}
			slices.Sort(classes)

			rows := make([][]string, 0, len(classes))
			for _, class := range classes {
				rows = append(rows, []string{class, fmt.Sprint(counts[class])})
			}
			if len(rows) > 0 {
				printTable([]string{"Class", "Count"}, rows)
			}
			return nil
		},
	}
}

// treeCommand creates the "tree" command.
func (c *CLI) treeCommand() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:               "tree <project>",
		Short:             "Print the ownership tree",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeProject,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.openProject(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, StyleTitle.Render(p.Name()))
			for _, line := range treeLines(p.Root(), all) {
				fmt.Fprintln(stdout, line)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "include links and other hidden elements")
	return cmd
}

// treeLines renders one line per element below root.
func treeLines(root model.Composite, all bool) []string {
	var lines []string
	model.Walk(root, all, func(e model.Element, depth int) bool {
		lines = append(lines, strings.Repeat("  ", depth+1)+describe(e))
		return true
	})
	return lines
}

// checkCommand creates the "check" command.
func (c *CLI) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "check <project>",
		Short:             "Report inconsistencies between the index, the model and the files",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeProject,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.openProject(args[0])
			if err != nil {
				return err
			}
			r, err := project.Check(p)
			if err != nil {
				return err
			}
			if r.OK() {
				printSuccess("No issues in %s", p.Name())
				return nil
			}

			rel := func(path string) string {
				if s, err := filepath.Rel(p.Dir(), path); err == nil {
					return s
				}
				return path
			}
			for _, f := range r.Orphans {
				printWarning("orphan element file %s", rel(f))
			}
			for _, f := range r.StaleSidecars {
				printWarning("stale diagram file %s", rel(f))
			}
			for _, id := range r.BrokenLinks {
				printWarning("link %s has a missing end", id)
			}
			for _, id := range r.Unordered {
				printWarning("composite %s lists a hidden child before a visible one", id)
			}
			for _, id := range r.Detached {
				printWarning("element %s has no owner", id)
			}
			return errs.New(errs.ErrCodeCorrupt, "%d issues found", r.Issues())
		},
	}
}

// =============================================================================
// Helpers
// =============================================================================

// build creates an element of class with a fresh identifier.
func build(p *project.Project, class string) (model.Element, error) {
	e := p.Catalog().Build(class, model.NewID())
	if e == nil {
		return nil, errs.New(errs.ErrCodeUnknownClass, "unknown class %q (known: %s)", class, strings.Join(p.Catalog().Names(), ", "))
	}
	return e, nil
}

// insert adds e to the project index and to owner, undoing the index entry
// when the owner rejects it.
func insert(p *project.Project, owner model.Composite, e model.Element) error {
	if err := p.Insert(e); err != nil {
		return err
	}
	if err := owner.Insert(-1, e); err != nil {
		_ = p.Remove(e)
		return err
	}
	return nil
}

// findElement resolves key as an identifier first, then as a name. A name
// matching more than one element is ambiguous.
func findElement(p *project.Project, key string) (model.Element, error) {
	if id, err := model.ParseID(key); err == nil {
		if e, ok := p.Find(id); ok {
			return e, nil
		}
		return nil, errs.New(errs.ErrCodeNotFound, "no element %s", key)
	}

	var found []model.Element
	for _, e := range p.Elements() {
		if n, ok := e.(model.Named); ok && n.Name() == key {
			found = append(found, e)
		}
	}
	switch len(found) {
	case 0:
		return nil, errs.New(errs.ErrCodeNotFound, "no element named %q", key)
	case 1:
		return found[0], nil
	default:
		return nil, errs.New(errs.ErrCodeContract, "%d elements named %q, use an identifier", len(found), key)
	}
}

func displayName(e model.Element) string {
	if n, ok := e.(model.Named); ok && n.Name() != "" {
		return n.Name()
	}
	return e.ClassName()
}

// describe renders an element for tree and list output.
func describe(e model.Element) string {
	s := StyleHighlight.Render(displayName(e)) + " " + StyleDim.Render(e.ClassName())
	if l, ok := e.(model.Link); ok {
		s += " " + StyleDim.Render(endName(l.Source())+" "+iconArrow+" "+endName(l.Target()))
	}
	return s
}

func endName(e model.Element) string {
	if e == nil {
		return "?"
	}
	return displayName(e)
}
