package models

// Influencer is reference data for one computation run.
type Influencer struct {
	InfluencerID string `json:"influencer_id"`
	Name         string `json:"name"`
	Platform     string `json:"platform"`
	Category     string `json:"category,omitempty"`
}

type Post struct {
	InfluencerID string `json:"influencer_id"`
	Platform     string `json:"platform"`
	Date         string `json:"date"`
	Caption      string `json:"caption"`
	Reach        int64  `json:"reach"`
	Likes        int64  `json:"likes"`
	Comments     int64  `json:"comments"`
}

// TrackingRecord is one attributed conversion event.
type TrackingRecord struct {
	InfluencerID string  `json:"influencer_id"`
	Campaign     string  `json:"campaign"`
	Brand        string  `json:"brand,omitempty"`
	Product      string  `json:"product,omitempty"`
	Revenue      float64 `json:"revenue"`
}

type Payout struct {
	InfluencerID string  `json:"influencer_id"`
	TotalPayout  float64 `json:"total_payout"`
}

// Columns records which optional columns were present in the source tables.
type Columns struct {
	Category bool `json:"category"`
	Brand    bool `json:"brand"`
	Product  bool `json:"product"`
}

// Dataset holds the four source tables of one run. It is shared read-only;
// nothing downstream mutates it.
type Dataset struct {
	Influencers []Influencer
	Posts       []Post
	Tracking    []TrackingRecord
	Payouts     []Payout
	Columns     Columns
	Issues      []DataIssue
}

// Filtered is the output of the filter cascade.
type Filtered struct {
	Influencers []Influencer     `json:"influencers"`
	Tracking    []TrackingRecord `json:"tracking"`
	Payouts     []Payout         `json:"payouts"`
}

// InfluencerRevenue is one row of the per-influencer revenue sum.
type InfluencerRevenue struct {
	InfluencerID string  `json:"influencer_id"`
	Revenue      float64 `json:"revenue"`
}

// InfluencerMetrics is one row of the aggregated ROAS table.
type InfluencerMetrics struct {
	InfluencerID string  `json:"influencer_id"`
	Name         string  `json:"name"`
	Revenue      float64 `json:"revenue"`
	TotalPayout  float64 `json:"total_payout"`
	HasPayout    bool    `json:"has_payout"`
	ROAS         ROAS    `json:"roas"`
}

// NoActivity reports the "no spend, no revenue" case, which still carries
// the infinite ROAS.
func (m InfluencerMetrics) NoActivity() bool {
	return m.Revenue == 0 && m.TotalPayout == 0
}

type PostEngagement struct {
	InfluencerID string `json:"influencer_id"`
	Platform     string `json:"platform"`
	Date         string `json:"date"`
	Caption      string `json:"caption"`
	Reach        int64  `json:"reach"`
	Likes        int64  `json:"likes"`
	Comments     int64  `json:"comments"`
	Engagement   int64  `json:"engagement"`
}

// Data-quality issue kinds.
const (
	IssueNegativeRevenue     = "negative_revenue"
	IssueNegativePayout      = "negative_payout"
	IssueDuplicateInfluencer = "duplicate_influencer"
	IssueDuplicatePayout     = "duplicate_payout"
)

// DataIssue is a data-quality condition found in the source tables. Issues
// are surfaced to callers; they never stop a computation.
type DataIssue struct {
	Kind         string  `json:"kind"`
	Table        string  `json:"table"`
	Line         int     `json:"line"`
	InfluencerID string  `json:"influencer_id"`
	Value        float64 `json:"value,omitempty"`
}
