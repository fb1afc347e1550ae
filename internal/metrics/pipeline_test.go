package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/influencer-roas/internal/models"
)

func aliceBob() *models.Dataset {
	return &models.Dataset{
		Influencers: []models.Influencer{
			{InfluencerID: "1", Name: "Alice", Platform: "IG"},
			{InfluencerID: "2", Name: "Bob", Platform: "YT"},
		},
		Tracking: []models.TrackingRecord{
			{InfluencerID: "1", Campaign: "camp", Revenue: 100},
			{InfluencerID: "1", Campaign: "camp", Revenue: 50},
		},
		Payouts: []models.Payout{{InfluencerID: "1", TotalPayout: 50}},
	}
}

func campaignDataset() *models.Dataset {
	return &models.Dataset{
		Influencers: []models.Influencer{
			{InfluencerID: "1", Name: "Alice", Platform: "Instagram", Category: "fitness"},
			{InfluencerID: "2", Name: "Bob", Platform: "YouTube", Category: "nutrition"},
			{InfluencerID: "3", Name: "Cara", Platform: "Instagram", Category: "nutrition"},
			{InfluencerID: "4", Name: "Dev", Platform: "Twitter", Category: "fitness"},
		},
		Posts: []models.Post{
			{InfluencerID: "1", Platform: "Instagram", Date: "2025-07-01", Caption: "a", Reach: 1000, Likes: 80, Comments: 5},
			{InfluencerID: "2", Platform: "YouTube", Date: "2025-07-02", Caption: "b", Reach: 5000, Likes: 300, Comments: 40},
			{InfluencerID: "3", Platform: "Instagram", Date: "2025-07-03", Caption: "c", Reach: 2500, Likes: 120, Comments: 12},
			{InfluencerID: "99", Platform: "Instagram", Date: "2025-07-04", Caption: "orphan", Reach: 9000, Likes: 1, Comments: 1},
		},
		Tracking: []models.TrackingRecord{
			{InfluencerID: "1", Campaign: "summer", Brand: "MuscleBlaze", Product: "whey", Revenue: 400},
			{InfluencerID: "1", Campaign: "winter", Brand: "HKVitals", Product: "multivit", Revenue: 100},
			{InfluencerID: "2", Campaign: "summer", Brand: "MuscleBlaze", Product: "whey", Revenue: 90},
			{InfluencerID: "3", Campaign: "summer", Brand: "HKVitals", Product: "multivit", Revenue: 0},
			{InfluencerID: "4", Campaign: "summer", Brand: "MuscleBlaze", Product: "whey", Revenue: 250},
			{InfluencerID: "99", Campaign: "summer", Brand: "MuscleBlaze", Product: "whey", Revenue: 1000},
		},
		Payouts: []models.Payout{
			{InfluencerID: "1", TotalPayout: 200},
			{InfluencerID: "2", TotalPayout: 180},
			{InfluencerID: "4", TotalPayout: 0},
		},
		Columns: models.Columns{Category: true, Brand: true, Product: true},
		Issues: []models.DataIssue{
			{Kind: models.IssueDuplicatePayout, Table: "payouts", Line: 5, InfluencerID: "2"},
			{Kind: models.IssueNegativeRevenue, Table: "tracking", Line: 9, InfluencerID: "99"},
		},
	}
}

func TestRunAliceBob(t *testing.T) {
	ds := aliceBob()
	rep := Run(ds, DefaultSelection(ds), Options{TopK: 5})

	require.Len(t, rep.Metrics, 1)
	m := rep.Metrics[0]
	assert.Equal(t, "1", m.InfluencerID)
	assert.Equal(t, "Alice", m.Name)
	assert.Equal(t, 150.0, m.Revenue)
	assert.Equal(t, 50.0, m.TotalPayout)
	assert.True(t, m.HasPayout)
	assert.InDelta(t, 3.0, m.ROAS.Float64(), 1e-9)
	assert.Empty(t, rep.Underperformers)
}

func TestRunWithoutPayoutsGivesInfiniteROAS(t *testing.T) {
	ds := aliceBob()
	ds.Payouts = nil
	rep := Run(ds, DefaultSelection(ds), Options{})

	require.Len(t, rep.Metrics, 1)
	assert.True(t, rep.Metrics[0].ROAS.IsInfinite())
	assert.False(t, rep.Metrics[0].HasPayout)
	assert.Equal(t, 150.0, rep.Metrics[0].Revenue)
	assert.Empty(t, rep.Underperformers)
	assert.Equal(t, 1, rep.InfiniteCount())
}

func TestRunEmptyTrackingAfterFilter(t *testing.T) {
	ds := aliceBob()
	sel := DefaultSelection(ds)
	sel.Campaigns = models.NewSet("other")
	rep := Run(ds, sel, Options{TopK: 5})

	assert.True(t, rep.Empty())
	assert.NotNil(t, rep.Metrics)
	assert.NotNil(t, rep.TopByRevenue)
	assert.Empty(t, rep.TopByRevenue)
	assert.Empty(t, rep.ByROAS)
	assert.Empty(t, rep.Underperformers)
	// influencers survive, so their posts are still reported
	assert.Len(t, rep.Filtered.Influencers, 2)
}

func TestRunFullDataset(t *testing.T) {
	ds := campaignDataset()
	rep := Run(ds, DefaultSelection(ds), Options{TopK: 2})

	require.Len(t, rep.Metrics, 4)
	byID := map[string]models.InfluencerMetrics{}
	for _, m := range rep.Metrics {
		byID[m.InfluencerID] = m
	}
	assert.Equal(t, 500.0, byID["1"].Revenue)
	assert.InDelta(t, 2.5, byID["1"].ROAS.Float64(), 1e-9)
	assert.InDelta(t, 0.5, byID["2"].ROAS.Float64(), 1e-9)
	assert.True(t, byID["3"].ROAS.IsInfinite(), "missing payout")
	assert.True(t, byID["3"].NoActivity())
	assert.True(t, byID["4"].ROAS.IsInfinite(), "zero payout")
	assert.True(t, byID["4"].HasPayout)

	assert.Equal(t, []string{"1", "4"}, ids(rep.TopByRevenue))
	assert.Equal(t, []string{"3", "4", "1", "2"}, ids(rep.ByROAS))
	assert.Equal(t, []string{"2"}, ids(rep.Underperformers))

	// orphan post and orphan tracking row never surface
	for _, p := range rep.Posts {
		assert.NotEqual(t, "99", p.InfluencerID)
	}
	assert.Len(t, rep.Issues, 1)
	assert.Equal(t, "2", rep.Issues[0].InfluencerID)
}

func TestRunIsIdempotentAndLeavesInputUntouched(t *testing.T) {
	ds := campaignDataset()
	before := campaignDataset()
	sel := DefaultSelection(ds)

	first := Run(ds, sel, Options{TopK: 3})
	second := Run(ds, sel, Options{TopK: 3})

	assert.Equal(t, first, second)
	assert.Equal(t, before, ds)
}

func TestRunTopKZeroOrNegativeKeepsAll(t *testing.T) {
	ds := campaignDataset()
	for _, k := range []int{0, -1} {
		rep := Run(ds, DefaultSelection(ds), Options{TopK: k})
		assert.Len(t, rep.TopByRevenue, 4, "k=%d", k)
	}
}

func TestRunNilDataset(t *testing.T) {
	rep := Run(nil, models.FilterSelection{}, Options{})
	assert.True(t, rep.Empty())
	assert.NotNil(t, rep.Posts)
	assert.NotNil(t, rep.Issues)
}

func TestRunMany(t *testing.T) {
	ds := campaignDataset()
	all := DefaultSelection(ds)
	ig := DefaultSelection(ds)
	ig.Platforms = models.NewSet("Instagram")
	yt := DefaultSelection(ds)
	yt.Platforms = models.NewSet("YouTube")

	reps, err := RunMany(context.Background(), ds, []models.FilterSelection{all, ig, yt}, Options{TopK: 5})
	require.NoError(t, err)
	require.Len(t, reps, 3)
	assert.Equal(t, Run(ds, all, Options{TopK: 5}), reps[0])
	assert.Equal(t, []string{"1", "3"}, ids(reps[1].Metrics))
	assert.Equal(t, []string{"2"}, ids(reps[2].Metrics))
}

func TestRunManyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ds := campaignDataset()
	_, err := RunMany(ctx, ds, []models.FilterSelection{DefaultSelection(ds)}, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func ids(rows []models.InfluencerMetrics) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.InfluencerID)
	}
	return out
}
