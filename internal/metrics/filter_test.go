package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AngelCh415/influencer-roas/internal/models"
)

func TestApplyFiltersPlatform(t *testing.T) {
	ds := campaignDataset()
	sel := DefaultSelection(ds)
	sel.Platforms = models.NewSet("Instagram")

	f := ApplyFilters(ds, sel)

	for _, in := range f.Influencers {
		assert.Equal(t, "Instagram", in.Platform)
	}
	assert.Len(t, f.Influencers, 2)
	for _, tr := range f.Tracking {
		assert.Contains(t, []string{"1", "3"}, tr.InfluencerID)
	}
	assert.Len(t, f.Payouts, 1)
}

func TestApplyFiltersEmptySelectionSelectsNothing(t *testing.T) {
	ds := campaignDataset()

	sel := DefaultSelection(ds)
	sel.Platforms = models.Set{}
	f := ApplyFilters(ds, sel)
	assert.Empty(t, f.Influencers)
	assert.Empty(t, f.Tracking)
	assert.Empty(t, f.Payouts)

	sel = DefaultSelection(ds)
	sel.Campaigns = nil
	f = ApplyFilters(ds, sel)
	assert.Len(t, f.Influencers, 4)
	assert.Empty(t, f.Tracking)
	assert.Len(t, f.Payouts, 3)
}

func TestApplyFiltersCategoryNarrowsFirst(t *testing.T) {
	ds := campaignDataset()
	sel := DefaultSelection(ds)
	sel.Categories = models.NewSet("fitness")

	f := ApplyFilters(ds, sel)

	assert.Equal(t, []string{"1", "4"}, influencerIDs(f.Influencers))
	for _, tr := range f.Tracking {
		assert.Contains(t, []string{"1", "4"}, tr.InfluencerID)
	}
}

func TestApplyFiltersBrandAndProduct(t *testing.T) {
	ds := campaignDataset()
	sel := DefaultSelection(ds)
	sel.Brands = models.NewSet("HKVitals")

	f := ApplyFilters(ds, sel)
	assert.Len(t, f.Tracking, 2)

	sel.Products = models.NewSet("whey")
	f = ApplyFilters(ds, sel)
	assert.Empty(t, f.Tracking)
	// payouts only follow the influencer universe
	assert.Len(t, f.Payouts, 3)
}

func TestApplyFiltersIgnoresAbsentColumns(t *testing.T) {
	ds := campaignDataset()
	ds.Columns = models.Columns{}
	sel := DefaultSelection(campaignDataset())
	sel.Categories = models.NewSet("nope")
	sel.Brands = models.NewSet("nope")
	sel.Products = models.NewSet("nope")

	f := ApplyFilters(ds, sel)

	assert.Len(t, f.Influencers, 4)
	assert.Len(t, f.Tracking, 5)
}

func TestApplyFiltersDropsUnknownInfluencers(t *testing.T) {
	ds := campaignDataset()
	f := ApplyFilters(ds, DefaultSelection(ds))
	for _, tr := range f.Tracking {
		assert.NotEqual(t, "99", tr.InfluencerID)
	}
	assert.Len(t, f.Tracking, 5)
}

func TestDefaultSelection(t *testing.T) {
	ds := campaignDataset()
	sel := DefaultSelection(ds)
	assert.Equal(t, []string{"Instagram", "Twitter", "YouTube"}, sel.Platforms.Values())
	assert.Equal(t, []string{"summer", "winter"}, sel.Campaigns.Values())
	assert.Equal(t, []string{"fitness", "nutrition"}, sel.Categories.Values())

	ds.Columns = models.Columns{}
	sel = DefaultSelection(ds)
	assert.Nil(t, sel.Categories)
	assert.Nil(t, sel.Brands)
	assert.Nil(t, sel.Products)
}

func influencerIDs(in []models.Influencer) []string {
	out := make([]string, 0, len(in))
	for _, i := range in {
		out = append(out, i.InfluencerID)
	}
	return out
}
