package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/lakedash/lakedash/internal/tui"
)

var dashCmd = &cobra.Command{
	Use:   "dash",
	Short: "Open the interactive terminal dashboard",
	Long: `Open an interactive terminal dashboard over the configured backend.

The dashboard shows three regions, each loaded independently:
  - Current user: identity reported by /api/me
  - Warehouse health: connectivity check via /api/sql/ping
  - Email preview: filtered listing from /api/emails

Keys:
  tab/shift+tab  Move between filter controls
  space          Cycle a true/false/any selector
  enter          Apply filters and reload the listing
  ctrl+x         Clear all filters
  r              Refresh everything   p  re-ping   u  reload user
  /              Jump to the subject filter
  q, ctrl+c      Quit`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		model := tui.New(client, tui.Options{
			Version:     Version,
			PreviewRows: cfg.UI.PreviewRows,
		})
		p := tea.NewProgram(model, tea.WithAltScreen())

		if _, err := p.Run(); err != nil {
			return fmt.Errorf("run dashboard: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dashCmd)
}
