package metrics

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/AngelCh415/influencer-roas/internal/models"
)

const DefaultTopK = 5

type Options struct {
	// TopK limits the top-by-revenue view; zero or negative keeps every row.
	TopK int
}

// Report is every derived table of one run. All slices are freshly built and
// non-nil; an empty Metrics table is the "no data" state, not an error.
type Report struct {
	Filtered        models.Filtered            `json:"filtered"`
	Revenue         []models.InfluencerRevenue `json:"revenue"`
	Metrics         []models.InfluencerMetrics `json:"metrics"`
	TopByRevenue    []models.InfluencerMetrics `json:"top_by_revenue"`
	ByROAS          []models.InfluencerMetrics `json:"by_roas"`
	Underperformers []models.InfluencerMetrics `json:"underperformers"`
	Posts           []models.PostEngagement    `json:"posts"`
	Issues          []models.DataIssue         `json:"issues"`
}

func (r Report) Empty() bool { return len(r.Metrics) == 0 }

// InfiniteCount is the number of rows carrying the infinite ROAS.
func (r Report) InfiniteCount() int {
	n := 0
	for _, m := range r.Metrics {
		if m.ROAS.IsInfinite() {
			n++
		}
	}
	return n
}

// Run executes the pipeline for one selection. It only reads ds, so calls
// for different selections may run concurrently.
func Run(ds *models.Dataset, sel models.FilterSelection, opts Options) Report {
	f := ApplyFilters(ds, sel)
	rev := AggregateRevenue(f.Tracking)
	rows := ComputeROAS(rev, f.Payouts, f.Influencers)

	var posts []models.Post
	var issues []models.DataIssue
	if ds != nil {
		posts = ds.Posts
		issues = ds.Issues
	}
	return Report{
		Filtered:        f,
		Revenue:         rev,
		Metrics:         rows,
		TopByRevenue:    TopByRevenue(rows, opts.TopK),
		ByROAS:          RankByROAS(rows, Descending, 0),
		Underperformers: Underperformers(rows),
		Posts:           PostEngagements(posts, f.Influencers),
		Issues:          scopeIssues(issues, f.Influencers),
	}
}

// RunMany computes one report per selection in parallel. Results are in
// selection order.
func RunMany(ctx context.Context, ds *models.Dataset, sels []models.FilterSelection, opts Options) ([]Report, error) {
	out := make([]Report, len(sels))
	g, ctx := errgroup.WithContext(ctx)
	for i, sel := range sels {
		i, sel := i, sel
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = Run(ds, sel, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// scopeIssues keeps the data issues that concern the filtered influencers.
func scopeIssues(issues []models.DataIssue, influencers []models.Influencer) []models.DataIssue {
	ids := make(map[string]struct{}, len(influencers))
	for _, in := range influencers {
		ids[in.InfluencerID] = struct{}{}
	}
	out := make([]models.DataIssue, 0)
	for _, is := range issues {
		if _, ok := ids[is.InfluencerID]; ok {
			out = append(out, is)
		}
	}
	return out
}
