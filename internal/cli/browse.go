package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/umlstack/pkg/model"
	"github.com/matzehuels/umlstack/pkg/project"
)

// List styles
var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	detailKeyStyle  = lipgloss.NewStyle().Foreground(colorGray).Width(10)
	detailPaneStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
)

// browseCommand creates the "browse" command.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "browse <project>",
		Short:             "Browse the model tree interactively",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeProject,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.openProject(args[0])
			if err != nil {
				return err
			}
			prog := tea.NewProgram(NewTreeModel(p), tea.WithContext(cmd.Context()), tea.WithAltScreen())
			_, err = prog.Run()
			return err
		},
	}
}

// =============================================================================
// TreeModel - Interactive model tree browser
// =============================================================================

type treeRow struct {
	element model.Element
	depth   int
}

// TreeModel is the bubbletea model for browsing a project's ownership tree.
// It never modifies the project.
type TreeModel struct {
	Project    *project.Project
	Rows       []treeRow
	Cursor     int
	Offset     int
	Height     int
	ShowHidden bool
	Detail     bool
}

// NewTreeModel creates a browser positioned on the first element.
func NewTreeModel(p *project.Project) TreeModel {
	m := TreeModel{Project: p, Height: 15}
	m.Rows = flatten(p.Root(), false)
	return m
}

func flatten(root model.Composite, hidden bool) []treeRow {
	var rows []treeRow
	model.Walk(root, hidden, func(e model.Element, depth int) bool {
		rows = append(rows, treeRow{element: e, depth: depth})
		return true
	})
	return rows
}

// Selected returns the element under the cursor, or nil for an empty tree.
func (m TreeModel) Selected() model.Element {
	if m.Cursor < 0 || m.Cursor >= len(m.Rows) {
		return nil
	}
	return m.Rows[m.Cursor].element
}

func (m TreeModel) Init() tea.Cmd {
	return nil
}

func (m TreeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter", " ":
			m.Detail = !m.Detail
		case "h":
			selected := m.Selected()
			m.ShowHidden = !m.ShowHidden
			m.Rows = flatten(m.Project.Root(), m.ShowHidden)
			m.Cursor, m.Offset = 0, 0
			for i, r := range m.Rows {
				if r.element == selected {
					m.Cursor = i
					break
				}
			}
			if m.Cursor >= m.Height {
				m.Offset = m.Cursor - m.Height + 1
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m TreeModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Project.Name()))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ details  h hidden  q quit"))
	b.WriteString("\n\n")

	if len(m.Rows) == 0 {
		b.WriteString(listDimStyle.Render("  (empty project)"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Rows))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		r := m.Rows[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		name := strings.Repeat("  ", r.depth) + displayName(r.element)
		links := ""
		if n := len(r.element.Links()); n > 0 {
			links = fmt.Sprint(n)
		}
		rows = append(rows, []string{cursor, name, r.element.ClassName(), links})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Element", "Class", "Links").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleTableHeader
			}
			idx := m.Offset + row
			if idx >= len(m.Rows) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if m.Rows[idx].element.IsHidden() {
				base = base.Foreground(colorDim)
			}
			if idx == m.Cursor {
				return base.Foreground(colorCyan).Bold(true)
			}
			if col >= 2 {
				return base.Foreground(colorGray)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rows))))
	b.WriteString("\n")

	if m.Detail {
		b.WriteString(detailPaneStyle.Render(details(m.Selected())))
		b.WriteString("\n")
	}
	return b.String()
}

// signer is implemented by features that render a UML signature.
type signer interface {
	Signature() string
}

// details renders the fields of e shown in the detail pane.
func details(e model.Element) string {
	if e == nil {
		return ""
	}
	var lines []string
	add := func(key, value string) {
		if value != "" {
			lines = append(lines, detailKeyStyle.Render(key)+" "+value)
		}
	}

	add("Name", displayName(e))
	add("Class", e.ClassName())
	add("ID", e.ID().String())
	add("Keywords", e.Keywords())
	if s, ok := e.(signer); ok {
		add("Signature", s.Signature())
	}
	if owner := e.Owner(); owner != nil {
		add("Owner", displayName(owner))
	}
	if l, ok := e.(model.Link); ok {
		add("Source", endName(l.Source()))
		add("Target", endName(l.Target()))
	}
	for _, l := range e.Links() {
		add("Link", l.ClassName()+" "+endName(l.Source())+" "+iconArrow+" "+endName(l.Target()))
	}
	return strings.Join(lines, "\n")
}
