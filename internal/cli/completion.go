package cli

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/umlstack/pkg/model"
	"github.com/matzehuels/umlstack/pkg/project"
)

// completionCommand creates the completion command for generating shell
// completion scripts.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for umlstack.

Besides commands and flags, the scripts complete project files, element
class names and the diagram names of the project given on the line.

  $ source <(umlstack completion bash)
  $ umlstack completion zsh > "${fpath[1]}/_umlstack"
  $ umlstack completion fish > ~/.config/fish/completions/umlstack.fish
  PS> umlstack completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(stdout)
			}
			return nil
		},
	}
}

// completeProject completes the first argument with project index files.
func completeProject(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return []string{strings.TrimPrefix(project.Extension, ".")}, cobra.ShellCompDirectiveFilterFileExt
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

// completeClasses completes a project followed by a catalog class name.
// links selects link classes instead of plain ones.
func completeClasses(links bool) cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, prefix string) ([]string, cobra.ShellCompDirective) {
		if len(args) != 1 {
			return completeProject(cmd, args, prefix)
		}
		cat, err := newCatalog()
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		var out []string
		for _, name := range cat.Names() {
			if !strings.HasPrefix(name, prefix) {
				continue
			}
			if e := cat.Build(name, model.NewID()); e != nil && e.IsLink() == links {
				out = append(out, name)
			}
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	}
}

// completeDiagrams completes a project followed by one of its diagram names.
func completeDiagrams(cmd *cobra.Command, args []string, prefix string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 1 {
		return completeProject(cmd, args, prefix)
	}
	return diagramNames(args[0], prefix), cobra.ShellCompDirectiveNoFileComp
}

// completeDiagramFlag completes the --diagram flag from the project argument.
func completeDiagramFlag(_ *cobra.Command, args []string, prefix string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return diagramNames(args[0], prefix), cobra.ShellCompDirectiveNoFileComp
}

// diagramNames loads the project at path without logging, since completion
// output goes to the shell.
func diagramNames(path, prefix string) []string {
	filename, err := resolveIndex(path)
	if err != nil {
		return nil
	}
	cat, err := newCatalog()
	if err != nil {
		return nil
	}
	p := project.New(cat, project.WithLogger(log.New(io.Discard)))
	if err := p.Load(filename); err != nil {
		return nil
	}
	defer p.Close()

	var out []string
	for _, d := range diagrams(p) {
		if d.Name() != "" && strings.HasPrefix(d.Name(), prefix) {
			out = append(out, d.Name())
		}
	}
	return out
}
