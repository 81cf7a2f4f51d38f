package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lakedash/lakedash/internal/render"
)

var pingJSON bool

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check warehouse connectivity through the backend",
	Long: `Run the backend's warehouse connectivity check (/api/sql/ping).

Exits 0 when the warehouse answered and non-zero when it did not, so the
command works as a health probe in scripts.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		bar := newCLIProgress("Pinging")
		bar.Set(12)
		res, err := client.Ping(cmd.Context())
		bar.Set(100)
		bar.Done()
		if err != nil {
			return fmt.Errorf("ping backend: %w", err)
		}

		if pingJSON {
			fmt.Println(res.RawJSON())
			if !render.Truthy(res.OK) {
				return fmt.Errorf("warehouse not reachable")
			}
			return nil
		}

		if fb := res.Fallback(); fb != nil {
			fmt.Printf("Backend returned a non-JSON response (HTTP %d):\n%s\n", fb.Status, fb.Text)
			return fmt.Errorf("warehouse not reachable")
		}

		if render.Truthy(res.OK) {
			fmt.Println("Warehouse: OK")
			if res.Timing != nil && res.Timing.QueryMS != nil {
				fmt.Printf("Query latency: %s ms\n", render.Millis(res.Timing.QueryMS))
			}
			return nil
		}

		fmt.Println("Warehouse: Not OK")
		if res.Error != "" {
			fmt.Printf("Error: %s\n", res.Error)
		}
		if c := res.Context; c != nil {
			if c.ServerHostname != "" {
				fmt.Printf("Server hostname: %s\n", c.ServerHostname)
			}
			if c.HTTPPath != "" {
				fmt.Printf("HTTP path: %s\n", c.HTTPPath)
			}
			if c.HasToken != nil {
				fmt.Printf("Token configured: %t\n", *c.HasToken)
			}
		}
		return fmt.Errorf("warehouse not reachable")
	},
}

func init() {
	pingCmd.Flags().BoolVar(&pingJSON, "json", false, "print the raw response instead of formatted fields")
	rootCmd.AddCommand(pingCmd)
}
