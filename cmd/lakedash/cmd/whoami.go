package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lakedash/lakedash/internal/render"
)

var whoamiJSON bool

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the identity the backend reports for you",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		res, err := client.Me(cmd.Context())
		if err != nil {
			return fmt.Errorf("fetch identity: %w", err)
		}

		if whoamiJSON {
			fmt.Println(res.RawJSON())
			return nil
		}

		if fb := res.Fallback(); fb != nil {
			fmt.Printf("Backend returned a non-JSON response (HTTP %d):\n%s\n", fb.Status, fb.Text)
			return nil
		}

		mode := res.Mode
		if mode == "" {
			mode = render.Dash
		}
		id := render.Identity(res.CurrentUser)

		fmt.Printf("Mode:         %s\n", mode)
		fmt.Printf("User name:    %s\n", id.UserName)
		fmt.Printf("Display name: %s\n", id.DisplayName)
		fmt.Printf("Active:       %s\n", id.Active)
		return nil
	},
}

func init() {
	whoamiCmd.Flags().BoolVar(&whoamiJSON, "json", false, "print the raw response instead of formatted fields")
	rootCmd.AddCommand(whoamiCmd)
}
