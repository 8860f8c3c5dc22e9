package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/quorumlabs/council/internal/roles"
)

var (
	roleIDStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	roleLeadStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	roleSourceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "List the analyst roles in aggregation order",
	Long: `List every role the council runs with: the built-in set merged with
user templates from the roles directory. User templates with the same
filename replace the built-in role; new filenames add analysts.

Examples:
  # List the active registry
  council roles

  # List with a custom role directory
  council roles --config my-config.yml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		analysts, lead, err := loadRegistry()
		if err != nil {
			return err
		}

		for _, r := range analysts {
			printRole(r, false)
		}
		printRole(lead, true)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rolesCmd)
}

func printRole(r roles.Role, isLead bool) {
	marker := " "
	if isLead {
		marker = roleLeadStyle.Render("★")
	}
	fmt.Fprintf(os.Stdout, "%s %-16s %s %s\n",
		marker,
		roleIDStyle.Render(r.ID),
		r.Description,
		roleSourceStyle.Render("["+r.Source.String()+"]"),
	)
}
