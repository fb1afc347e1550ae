package commands

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/AngelCh415/influencer-roas/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := setup(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Addr = addr
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return app.New(cfg, log).Serve(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides ROAS_ADDR)")
	rootCmd.AddCommand(serveCmd)
}
