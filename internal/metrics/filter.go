package metrics

import "github.com/AngelCh415/influencer-roas/internal/models"

// ApplyFilters runs the filter cascade. Influencers are narrowed first
// (platform, then category); tracking and payouts are then restricted to the
// surviving influencer ids. Optional dimensions apply only when the selection
// carries them and the source table has the column.
func ApplyFilters(ds *models.Dataset, sel models.FilterSelection) models.Filtered {
	out := models.Filtered{
		Influencers: []models.Influencer{},
		Tracking:    []models.TrackingRecord{},
		Payouts:     []models.Payout{},
	}
	if ds == nil {
		return out
	}

	byCategory := ds.Columns.Category && sel.Categories != nil
	byBrand := ds.Columns.Brand && sel.Brands != nil
	byProduct := ds.Columns.Product && sel.Products != nil

	ids := make(map[string]struct{}, len(ds.Influencers))
	for _, in := range ds.Influencers {
		if !sel.Platforms.Has(in.Platform) {
			continue
		}
		if byCategory && !sel.Categories.Has(in.Category) {
			continue
		}
		ids[in.InfluencerID] = struct{}{}
		out.Influencers = append(out.Influencers, in)
	}

	for _, tr := range ds.Tracking {
		if !sel.Campaigns.Has(tr.Campaign) {
			continue
		}
		if _, ok := ids[tr.InfluencerID]; !ok {
			continue
		}
		if byBrand && !sel.Brands.Has(tr.Brand) {
			continue
		}
		if byProduct && !sel.Products.Has(tr.Product) {
			continue
		}
		out.Tracking = append(out.Tracking, tr)
	}

	for _, p := range ds.Payouts {
		if _, ok := ids[p.InfluencerID]; ok {
			out.Payouts = append(out.Payouts, p)
		}
	}
	return out
}

// DefaultSelection selects every value present in the dataset, which is what
// "select all" means for a dimension. Optional dimensions are populated only
// when the column exists.
func DefaultSelection(ds *models.Dataset) models.FilterSelection {
	sel := models.FilterSelection{
		Platforms: models.Set{},
		Campaigns: models.Set{},
	}
	if ds == nil {
		return sel
	}
	if ds.Columns.Category {
		sel.Categories = models.Set{}
	}
	if ds.Columns.Brand {
		sel.Brands = models.Set{}
	}
	if ds.Columns.Product {
		sel.Products = models.Set{}
	}
	for _, in := range ds.Influencers {
		sel.Platforms[in.Platform] = struct{}{}
		if sel.Categories != nil {
			sel.Categories[in.Category] = struct{}{}
		}
	}
	for _, tr := range ds.Tracking {
		sel.Campaigns[tr.Campaign] = struct{}{}
		if sel.Brands != nil {
			sel.Brands[tr.Brand] = struct{}{}
		}
		if sel.Products != nil {
			sel.Products[tr.Product] = struct{}{}
		}
	}
	return sel
}
