package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/lakedash/lakedash/internal/demo"
)

var (
	demoListen   string
	demoDegraded bool
	demoLatency  time.Duration
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a local stub backend with sample data",
	Long: `Start a local HTTP server that implements the backend API over a
bundled sample dataset. Point any lakedash command at it with
--url http://<listen-addr>; plain http needs 'allow_insecure = true'
under [backend] in config.toml (lakedash setup offers this).

Flags simulate unhappy paths: --degraded makes the warehouse ping fail,
--latency delays every response.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		listen := demoListen
		if listen == "" {
			listen = cfg.Demo.Listen
		}

		srv := demo.NewServer(demo.Options{
			Listen:   listen,
			Degraded: demoDegraded,
			Latency:  demoLatency,
		}, logger)

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Start()
		}()

		fmt.Printf("Demo backend listening on http://%s\n", listen)
		fmt.Printf("Try: lakedash dash --url http://%s\n", listen)

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("demo backend: %w", err)
			}
			return nil
		case <-cmd.Context().Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown demo backend: %w", err)
		}
		<-errCh
		return nil
	},
}

func init() {
	demoCmd.Flags().StringVar(&demoListen, "listen", "", "bind address (default from config)")
	demoCmd.Flags().BoolVar(&demoDegraded, "degraded", false, "simulate a failed warehouse connection")
	demoCmd.Flags().DurationVar(&demoLatency, "latency", 0, "artificial delay before each response")
	rootCmd.AddCommand(demoCmd)
}
