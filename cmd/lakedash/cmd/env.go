package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lakedash/lakedash/internal/render"
)

var envJSON bool

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Show the backend's connector configuration diagnostics",
	Long: `Fetch /api/debug/env and print what the backend sees: warehouse host
and path, whether an on-behalf-of token arrived, and the proxy identity
headers. Useful when ping fails and you need to know which side dropped
the credentials.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		res, err := client.DebugEnv(cmd.Context())
		if err != nil {
			return fmt.Errorf("fetch env diagnostics: %w", err)
		}

		if envJSON {
			fmt.Println(res.RawJSON())
			return nil
		}

		if fb := res.Fallback(); fb != nil {
			fmt.Printf("Backend returned a non-JSON response (HTTP %d):\n%s\n", fb.Status, fb.Text)
			return nil
		}

		host := res.Host
		if host == "" {
			host = render.Dash
		}
		path := res.HTTPPath
		if path == "" {
			path = render.Dash
		}

		fmt.Printf("Warehouse host: %s\n", host)
		fmt.Printf("HTTP path:      %s\n", path)
		fmt.Printf("OBO token:      present=%t len=%d\n", res.OBOTokenPresent, res.OBOTokenLen)
		if f := res.Forwarded; f != nil {
			fmt.Println("Forwarded headers:")
			fmt.Printf("  user:        %s\n", orDash(f.User))
			fmt.Printf("  email:       %s\n", orDash(f.Email))
			fmt.Printf("  scopes hint: %s\n", orDash(f.ScopesHint))
		}
		return nil
	},
}

func orDash(s string) string {
	if s == "" {
		return render.Dash
	}
	return s
}

func init() {
	envCmd.Flags().BoolVar(&envJSON, "json", false, "print the raw response instead of formatted fields")
	rootCmd.AddCommand(envCmd)
}
