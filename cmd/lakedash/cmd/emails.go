package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lakedash/lakedash/internal/backend"
	"github.com/lakedash/lakedash/internal/render"
)

var (
	emailsSubject string
	emailsFrom    string
	emailsRead    string
	emailsStarred string
	emailsLimit   int
	emailsOffset  int
	emailsJSON    bool
)

var emailsCmd = &cobra.Command{
	Use:   "emails",
	Short: "List synced emails from the warehouse",
	Long: `Fetch the filtered message listing (/api/emails) and print it as a
table. Text filters match substrings; --read and --starred accept
true or false and are omitted from the query when unset.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateTriState("read", emailsRead); err != nil {
			return err
		}
		if err := validateTriState("starred", emailsStarred); err != nil {
			return err
		}

		client, err := newClient()
		if err != nil {
			return err
		}

		q := backend.Query{
			Subject:   emailsSubject,
			From:      emailsFrom,
			IsRead:    emailsRead,
			IsStarred: emailsStarred,
			Limit:     emailsLimit,
			Offset:    emailsOffset,
		}

		res, err := client.Emails(cmd.Context(), q)
		if err != nil {
			return fmt.Errorf("fetch emails: %w", err)
		}

		if emailsJSON {
			fmt.Println(res.RawJSON())
			return nil
		}

		if fb := res.Fallback(); fb != nil {
			fmt.Printf("Backend returned a non-JSON response (HTTP %d):\n%s\n", fb.Status, fb.Text)
			return nil
		}

		grid := render.PreviewGrid(res.Rows, len(res.Rows))
		if grid.Empty() {
			fmt.Println("No rows to display.")
		} else {
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			for i, col := range grid.Columns {
				if i > 0 {
					fmt.Fprint(w, "\t")
				}
				fmt.Fprint(w, col)
			}
			fmt.Fprintln(w)
			for _, cells := range grid.Cells {
				for i, cell := range cells {
					if i > 0 {
						fmt.Fprint(w, "\t")
					}
					fmt.Fprint(w, cell)
				}
				fmt.Fprintln(w)
			}
			w.Flush()
		}

		fmt.Printf("\n%s rows", render.FormatNumber(len(res.Rows)))
		if res.Timing != nil && res.Timing.QueryMS != nil {
			fmt.Printf(" in %s ms", render.Millis(res.Timing.QueryMS))
		}
		fmt.Println()
		return nil
	},
}

func validateTriState(name, val string) error {
	switch val {
	case "", "true", "false":
		return nil
	default:
		return fmt.Errorf("--%s must be true or false, got %q", name, val)
	}
}

func init() {
	emailsCmd.Flags().StringVar(&emailsSubject, "subject", "", "filter: subject contains")
	emailsCmd.Flags().StringVar(&emailsFrom, "from", "", "filter: sender address contains")
	emailsCmd.Flags().StringVar(&emailsRead, "read", "", "filter: read state (true or false)")
	emailsCmd.Flags().StringVar(&emailsStarred, "starred", "", "filter: starred state (true or false)")
	emailsCmd.Flags().IntVar(&emailsLimit, "limit", backend.DefaultLimit, "maximum rows to request")
	emailsCmd.Flags().IntVar(&emailsOffset, "offset", 0, "rows to skip")
	emailsCmd.Flags().BoolVar(&emailsJSON, "json", false, "print the raw response instead of a table")
	rootCmd.AddCommand(emailsCmd)
}
