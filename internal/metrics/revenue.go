package metrics

import (
	"slices"

	"github.com/AngelCh415/influencer-roas/internal/models"
)

// AggregateRevenue sums revenue per influencer. Influencers without a
// matching record are absent from the result rather than zero-valued.
// Rows come back ordered by influencer id.
func AggregateRevenue(tracking []models.TrackingRecord) []models.InfluencerRevenue {
	sums := make(map[string]float64)
	for _, tr := range tracking {
		sums[tr.InfluencerID] += tr.Revenue
	}
	out := make([]models.InfluencerRevenue, 0, len(sums))
	for id, rev := range sums {
		out = append(out, models.InfluencerRevenue{InfluencerID: id, Revenue: rev})
	}
	slices.SortFunc(out, func(a, b models.InfluencerRevenue) int {
		return CompareIDs(a.InfluencerID, b.InfluencerID)
	})
	return out
}
