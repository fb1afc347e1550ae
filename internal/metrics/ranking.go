package metrics

import (
	"cmp"
	"slices"
	"strconv"

	"github.com/AngelCh415/influencer-roas/internal/models"
)

type Order int

const (
	Descending Order = iota
	Ascending
)

// TopByRevenue sorts by revenue descending, ties by ascending influencer id,
// and keeps the first k rows. k <= 0 keeps everything.
func TopByRevenue(rows []models.InfluencerMetrics, k int) []models.InfluencerMetrics {
	out := slices.Clone(rows)
	slices.SortStableFunc(out, func(a, b models.InfluencerMetrics) int {
		if c := cmp.Compare(b.Revenue, a.Revenue); c != 0 {
			return c
		}
		return CompareIDs(a.InfluencerID, b.InfluencerID)
	})
	return limit(out, k)
}

// RankByROAS orders rows by ROAS. The infinite sentinel sorts above every
// finite value when descending and below every finite value when ascending.
func RankByROAS(rows []models.InfluencerMetrics, order Order, k int) []models.InfluencerMetrics {
	out := slices.Clone(rows)
	slices.SortStableFunc(out, func(a, b models.InfluencerMetrics) int {
		c := compareROAS(a.ROAS, b.ROAS)
		if order == Descending {
			c = -c
		}
		if c != 0 {
			return c
		}
		return CompareIDs(a.InfluencerID, b.InfluencerID)
	})
	return limit(out, k)
}

// Underperformers keeps rows whose finite ROAS is below 1.0, worst first.
// Infinite rows are excluded: their performance is undefined, not poor.
func Underperformers(rows []models.InfluencerMetrics) []models.InfluencerMetrics {
	poor := make([]models.InfluencerMetrics, 0)
	for _, r := range rows {
		if !r.ROAS.IsInfinite() && r.ROAS < 1 {
			poor = append(poor, r)
		}
	}
	return RankByROAS(poor, Ascending, 0)
}

func compareROAS(a, b models.ROAS) int {
	switch ai, bi := a.IsInfinite(), b.IsInfinite(); {
	case ai && bi:
		return 0
	case ai:
		return 1
	case bi:
		return -1
	}
	return cmp.Compare(a, b)
}

// CompareIDs orders influencer ids: integer ids first, compared as numbers,
// then every other id compared as text. The order is total, so sorting by
// it is deterministic for any mix of ids.
func CompareIDs(a, b string) int {
	ai, errA := strconv.ParseInt(a, 10, 64)
	bi, errB := strconv.ParseInt(b, 10, 64)
	switch {
	case errA == nil && errB == nil:
		if c := cmp.Compare(ai, bi); c != 0 {
			return c
		}
		// "7" and "07" parse alike
		return cmp.Compare(a, b)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	}
	return cmp.Compare(a, b)
}

func limit[T any](rows []T, k int) []T {
	if k <= 0 || k >= len(rows) {
		return rows
	}
	return rows[:k]
}
