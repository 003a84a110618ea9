package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/umlstack/pkg/export"
	"github.com/matzehuels/umlstack/pkg/fsutil"
)

// exportCommand creates the "export" command.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		diagramName string
		format      string
		output      string
		detailed    bool
		noCache     bool
	)

	cmd := &cobra.Command{
		Use:   "export <project>",
		Short: "Export the model or one diagram as DOT or SVG",
		Long: `Export the whole model, or a single diagram with --diagram, through Graphviz.

Rendered SVG is cached by the hash of the DOT source, so exporting an
unchanged model again is instant. Without --output the result is written to
standard output.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeProject,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("format") {
				format = c.Config.Export.Format
			}
			if !cmd.Flags().Changed("detailed") {
				detailed = c.Config.Export.Detailed
			}
			opts := export.Options{Detailed: detailed}

			p, err := c.openProject(args[0])
			if err != nil {
				return err
			}

			var dot string
			if diagramName != "" {
				d, err := export.DiagramByName(p, diagramName)
				if err != nil {
					return err
				}
				if err := d.Open(); err != nil {
					return err
				}
				dot, err = export.DiagramDOT(d, opts)
				d.Close()
				if err != nil {
					return err
				}
			} else {
				dot = export.ModelDOT(p, opts)
			}

			runner, err := c.newRunner(noCache)
			if err != nil {
				return err
			}
			defer runner.Cache.Close()

			var spinner *Spinner
			if output != "" && format != export.FormatDOT {
				spinner = newSpinner(cmd.Context(), os.Stderr, "Rendering "+format+"...")
				spinner.Start()
			}
			data, hit, err := runner.Render(cmd.Context(), dot, format)
			if spinner != nil {
				spinner.Stop()
			}
			if err != nil {
				return err
			}

			if output == "" {
				_, err := stdout.Write(data)
				return err
			}
			if err := fsutil.WriteFileAtomic(output, data, 0o644); err != nil {
				return err
			}
			nodes, edges := export.Stats(dot)
			printSuccess("Exported %s", p.Name())
			printStats(nodes, edges, hit)
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&diagramName, "diagram", "d", "", "export one diagram (name or identifier)")
	cmd.Flags().StringVarP(&format, "format", "f", export.FormatSVG, fmt.Sprintf("output format %v", export.Formats))
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "show attributes and operations")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the render cache")
	_ = cmd.RegisterFlagCompletionFunc("diagram", completeDiagramFlag)
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(export.Formats, cobra.ShellCompDirectiveNoFileComp))
	return cmd
}
