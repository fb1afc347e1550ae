package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/AngelCh415/influencer-roas/internal/config"
)

var (
	// Global flags
	configFile string
	dataDir    string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "roas",
	Short: "Influencer campaign ROAS reports",
	Long: `Computes revenue, ROAS and post engagement per influencer from
influencers.csv, posts.csv, tracking_data.csv and payouts.csv.

Examples:
  roas report --data-dir ./data --platform Instagram,YouTube
  roas export --data-dir ./data --out roas_table.csv
  roas serve`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML config file (same as ROAS_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "directory with the four CSV tables (same as ROAS_DATA_DIR)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

// setup loads configuration and applies the global flags on top of it.
func setup(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	if configFile != "" {
		if err := os.Setenv("ROAS_CONFIG", configFile); err != nil {
			return nil, nil, err
		}
	}
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	// stdout carries reports and CSV exports
	log := slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.Level()}))
	return cfg, log, nil
}

func requireDataDir(cfg *config.Config) error {
	if cfg.DataDir == "" {
		return fmt.Errorf("--data-dir or ROAS_DATA_DIR is required")
	}
	return nil
}
