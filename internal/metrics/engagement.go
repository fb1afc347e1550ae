package metrics

import (
	"cmp"
	"slices"

	"github.com/AngelCh415/influencer-roas/internal/models"
)

// PostEngagements derives likes+comments for every post of the given
// influencers, one row per post, sorted by reach descending. Posts keep their
// source order on equal reach.
func PostEngagements(posts []models.Post, influencers []models.Influencer) []models.PostEngagement {
	ids := make(map[string]struct{}, len(influencers))
	for _, in := range influencers {
		ids[in.InfluencerID] = struct{}{}
	}
	out := make([]models.PostEngagement, 0)
	for _, p := range posts {
		if _, ok := ids[p.InfluencerID]; !ok {
			continue
		}
		out = append(out, models.PostEngagement{
			InfluencerID: p.InfluencerID,
			Platform:     p.Platform,
			Date:         p.Date,
			Caption:      p.Caption,
			Reach:        p.Reach,
			Likes:        p.Likes,
			Comments:     p.Comments,
			Engagement:   p.Likes + p.Comments,
		})
	}
	slices.SortStableFunc(out, func(a, b models.PostEngagement) int {
		return cmp.Compare(b.Reach, a.Reach)
	})
	return out
}
