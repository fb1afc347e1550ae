package metrics

import "github.com/AngelCh415/influencer-roas/internal/models"

// ComputeROAS left-joins aggregated revenue with payouts, then attaches the
// influencer name. A missing payout counts as zero and, like any
// non-positive payout, produces the infinite ROAS. Revenue rows whose id does
// not resolve to an influencer are dropped.
func ComputeROAS(revenue []models.InfluencerRevenue, payouts []models.Payout, influencers []models.Influencer) []models.InfluencerMetrics {
	spend := make(map[string]float64, len(payouts))
	for _, p := range payouts {
		spend[p.InfluencerID] += p.TotalPayout
	}
	names := make(map[string]string, len(influencers))
	for _, in := range influencers {
		if _, ok := names[in.InfluencerID]; !ok {
			names[in.InfluencerID] = in.Name
		}
	}

	out := make([]models.InfluencerMetrics, 0, len(revenue))
	for _, r := range revenue {
		name, ok := names[r.InfluencerID]
		if !ok {
			continue
		}
		total, has := spend[r.InfluencerID]
		out = append(out, models.InfluencerMetrics{
			InfluencerID: r.InfluencerID,
			Name:         name,
			Revenue:      r.Revenue,
			TotalPayout:  total,
			HasPayout:    has,
			ROAS:         models.NewROAS(r.Revenue, total),
		})
	}
	return out
}
