package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/AngelCh415/influencer-roas/internal/export"
	"github.com/AngelCh415/influencer-roas/internal/ingest"
	"github.com/AngelCh415/influencer-roas/internal/metrics"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the ROAS table as CSV, or push it to the configured sink",
	RunE:  runExport,
}

func init() {
	addFilterFlags(exportCmd)
	exportCmd.Flags().StringP("out", "o", "-", "output file, - for stdout")
	exportCmd.Flags().Bool("push", false, "push the export to ROAS_SINK_URL instead of writing it")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	if err := requireDataDir(cfg); err != nil {
		return err
	}
	ds, err := ingest.LoadDir(cfg.DataDir)
	if err != nil {
		return err
	}
	rep := metrics.Run(ds, metrics.Selection(ds, filterValues(cmd)), metrics.Options{TopK: cfg.TopK})

	if push, _ := cmd.Flags().GetBool("push"); push {
		sink := export.NewSink(ingest.NewHTTPClient(cfg.HTTPTimeout), cfg.SinkURL, cfg.SinkSecret)
		n, err := sink.Push(cmd.Context(), rep.Metrics)
		if err != nil {
			return err
		}
		log.Info("export pushed", slog.Int("rows", n))
		return nil
	}

	out, _ := cmd.Flags().GetString("out")
	var w io.Writer = cmd.OutOrStdout()
	if out != "-" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create %s: %w", out, err)
		}
		defer f.Close()
		w = f
	}
	if err := export.WriteCSV(w, rep.Metrics); err != nil {
		return err
	}
	log.Info("export written", slog.String("out", out), slog.Int("rows", len(rep.Metrics)))
	return nil
}
