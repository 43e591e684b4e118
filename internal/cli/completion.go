package cli

import (
	"os"
	"reflect"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dockgrid/pkg/core/dock"
	"github.com/matzehuels/dockgrid/pkg/core/layout"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for dockgrid.

To load completions:

Bash:
  $ source <(dockgrid completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ dockgrid completion bash > /etc/bash_completion.d/dockgrid
  # macOS:
  $ dockgrid completion bash > $(brew --prefix)/etc/bash_completion.d/dockgrid

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ dockgrid completion zsh > "${fpath[1]}/_dockgrid"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ dockgrid completion fish | source

  # To load completions for each session, execute once:
  $ dockgrid completion fish > ~/.config/fish/completions/dockgrid.fish

PowerShell:
  PS> dockgrid completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> dockgrid completion powershell > dockgrid.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}

// completeOp completes the operation name, then "field=" for each field of
// that operation not given yet. Slot and panel fields complete their values.
func completeOp(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return layout.OperationNames(), cobra.ShellCompDirectiveNoFileComp
	}
	op, err := layout.NewOperation(args[0])
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	if field, _, ok := strings.Cut(toComplete, "="); ok {
		var values []string
		switch field {
		case "slot":
			for _, s := range dock.Slots() {
				values = append(values, "slot="+s.String())
			}
		case "panel":
			for _, p := range dock.Panels() {
				values = append(values, "panel="+p.String())
			}
		case "align":
			values = []string{"align=left", "align=right", "align=top", "align=bottom"}
		}
		return values, cobra.ShellCompDirectiveNoFileComp
	}

	given := make(map[string]bool)
	for _, a := range args[1:] {
		name, _, _ := strings.Cut(strings.Replace(a, ":=", "=", 1), "=")
		given[name] = true
	}
	var out []string
	for _, f := range opFields(op) {
		if !given[f] {
			out = append(out, f+"=")
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}

// opFields lists the JSON field names an operation decodes.
func opFields(op layout.Operation) []string {
	t := reflect.TypeOf(op)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	var names []string
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		name, _, _ := strings.Cut(tag, ",")
		if name != "" && name != "-" {
			names = append(names, name)
		}
	}
	return names
}

// completeFixed offers a fixed list of flag values.
func completeFixed(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}
