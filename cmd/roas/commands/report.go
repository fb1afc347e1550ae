package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/AngelCh415/influencer-roas/internal/ingest"
	"github.com/AngelCh415/influencer-roas/internal/metrics"
	"github.com/AngelCh415/influencer-roas/internal/models"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print ROAS, top performers, underperformers and post engagement",
	RunE:  runReport,
}

func init() {
	addFilterFlags(reportCmd)
	reportCmd.Flags().IntP("top", "k", 0, "size of the top-by-revenue view, <= 0 for all (default from config)")
	reportCmd.Flags().String("format", "table", "output format: table or json")
	reportCmd.Flags().Bool("posts", false, "include the post engagement table")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	if err := requireDataDir(cfg); err != nil {
		return err
	}
	ds, err := ingest.LoadDir(cfg.DataDir)
	if err != nil {
		log.Error("load dataset", slog.String("dir", cfg.DataDir), slog.String("err", err.Error()))
		return err
	}
	for _, is := range ds.Issues {
		log.Warn("data issue", slog.String("kind", is.Kind), slog.String("table", is.Table),
			slog.Int("line", is.Line), slog.String("influencer_id", is.InfluencerID))
	}

	k := cfg.TopK
	if cmd.Flags().Changed("top") {
		k, _ = cmd.Flags().GetInt("top")
	}
	rep := metrics.Run(ds, metrics.Selection(ds, filterValues(cmd)), metrics.Options{TopK: k})
	log.Debug("report", slog.Int("rows", len(rep.Metrics)), slog.Int("infinite_roas", rep.InfiniteCount()))

	out := cmd.OutOrStdout()
	format, _ := cmd.Flags().GetString("format")
	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}
	if rep.Empty() {
		fmt.Fprintln(out, "No data for the selected filters.")
		return nil
	}
	printMetrics(out, "ROAS per influencer", rep.ByROAS)
	title := "Influencers by revenue"
	if k > 0 {
		title = fmt.Sprintf("Top %d influencers by revenue", k)
	}
	printMetrics(out, title, rep.TopByRevenue)
	printMetrics(out, "Influencers with poor ROI", rep.Underperformers)
	if withPosts, _ := cmd.Flags().GetBool("posts"); withPosts {
		printPosts(out, rep.Posts)
	}
	return nil
}

func printMetrics(w io.Writer, title string, rows []models.InfluencerMetrics) {
	fmt.Fprintf(w, "\n%s\n", title)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tREVENUE\tTOTAL_PAYOUT\tROAS")
	for _, m := range rows {
		payout := "-"
		if m.HasPayout {
			payout = strconv.FormatFloat(m.TotalPayout, 'f', 2, 64)
		}
		roas := models.InfinityLiteral
		if !m.ROAS.IsInfinite() {
			roas = strconv.FormatFloat(m.ROAS.Float64(), 'f', 2, 64)
		}
		fmt.Fprintf(tw, "%s\t%.2f\t%s\t%s\n", m.Name, m.Revenue, payout, roas)
	}
	tw.Flush()
}

func printPosts(w io.Writer, rows []models.PostEngagement) {
	fmt.Fprintf(w, "\nPost performance\n")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PLATFORM\tDATE\tCAPTION\tREACH\tLIKES\tCOMMENTS\tENGAGEMENT")
	for _, p := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%d\n", p.Platform, p.Date, p.Caption, p.Reach, p.Likes, p.Comments, p.Engagement)
	}
	tw.Flush()
}
