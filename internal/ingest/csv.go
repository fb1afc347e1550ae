package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/AngelCh415/influencer-roas/internal/models"
)

const (
	TableInfluencers = "influencers"
	TablePosts       = "posts"
	TableTracking    = "tracking"
	TablePayouts     = "payouts"
)

// Required columns per table. Extra columns are ignored.
var (
	influencerCols = []string{"influencer_id", "name", "platform"}
	postCols       = []string{"influencer_id", "platform", "date", "caption", "reach", "likes", "comments"}
	trackingCols   = []string{"influencer_id", "campaign", "revenue"}
	payoutCols     = []string{"influencer_id", "total_payout"}
)

type table struct {
	name  string
	cols  map[string]int
	rows  [][]string
	lines []int
}

func (t *table) has(col string) bool {
	_, ok := t.cols[col]
	return ok
}

func (t *table) cell(i int, col string) string {
	j, ok := t.cols[col]
	if !ok || j >= len(t.rows[i]) {
		return ""
	}
	return strings.TrimSpace(t.rows[i][j])
}

func (t *table) number(i int, col string) (float64, error) {
	s := t.cell(i, col)
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, &SchemaError{Table: t.name, Column: col, Line: t.lines[i], Err: fmt.Errorf("%w: %q is not a number", ErrMalformedRow, s)}
	}
	return f, nil
}

func (t *table) count(i int, col string) (int64, error) {
	s := t.cell(i, col)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	// counts exported from spreadsheets often carry a ".0"
	f, err := t.number(i, col)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, &SchemaError{Table: t.name, Column: col, Line: t.lines[i], Err: fmt.Errorf("%w: %q is not a whole count", ErrMalformedRow, s)}
	}
	return int64(f), nil
}

// readTable reads the header and all records, checking required columns.
func readTable(name string, r io.Reader, required []string) (*table, error) {
	if r == nil {
		return nil, &SchemaError{Table: name, Err: ErrMissingTable}
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &SchemaError{Table: name, Err: fmt.Errorf("%w: empty file", ErrMissingTable)}
	}
	if err != nil {
		return nil, &SchemaError{Table: name, Err: fmt.Errorf("read header: %w", err)}
	}
	t := &table{name: name, cols: make(map[string]int, len(header))}
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := t.cols[key]; !dup {
			t.cols[key] = i
		}
	}
	for _, c := range required {
		if !t.has(c) {
			return nil, &SchemaError{Table: name, Column: c, Err: ErrMissingColumn}
		}
	}
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &SchemaError{Table: name, Err: fmt.Errorf("%w: %v", ErrMalformedRow, err)}
		}
		line, _ := cr.FieldPos(0)
		t.rows = append(t.rows, row)
		t.lines = append(t.lines, line)
	}
	return t, nil
}

func parseInfluencers(r io.Reader) ([]models.Influencer, bool, []models.DataIssue, error) {
	t, err := readTable(TableInfluencers, r, influencerCols)
	if err != nil {
		return nil, false, nil, err
	}
	var issues []models.DataIssue
	seen := make(map[string]struct{}, len(t.rows))
	out := make([]models.Influencer, 0, len(t.rows))
	for i := range t.rows {
		id := t.cell(i, "influencer_id")
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			issues = append(issues, models.DataIssue{Kind: models.IssueDuplicateInfluencer, Table: t.name, Line: t.lines[i], InfluencerID: id})
			continue
		}
		seen[id] = struct{}{}
		out = append(out, models.Influencer{
			InfluencerID: id,
			Name:         t.cell(i, "name"),
			Platform:     t.cell(i, "platform"),
			Category:     t.cell(i, "category"),
		})
	}
	return out, t.has("category"), issues, nil
}

func parsePosts(r io.Reader) ([]models.Post, error) {
	t, err := readTable(TablePosts, r, postCols)
	if err != nil {
		return nil, err
	}
	out := make([]models.Post, 0, len(t.rows))
	for i := range t.rows {
		id := t.cell(i, "influencer_id")
		if id == "" {
			continue
		}
		p := models.Post{
			InfluencerID: id,
			Platform:     t.cell(i, "platform"),
			Date:         t.cell(i, "date"),
			Caption:      t.cell(i, "caption"),
		}
		if p.Reach, err = t.count(i, "reach"); err != nil {
			return nil, err
		}
		if p.Likes, err = t.count(i, "likes"); err != nil {
			return nil, err
		}
		if p.Comments, err = t.count(i, "comments"); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func parseTracking(r io.Reader) ([]models.TrackingRecord, models.Columns, []models.DataIssue, error) {
	t, err := readTable(TableTracking, r, trackingCols)
	if err != nil {
		return nil, models.Columns{}, nil, err
	}
	cols := models.Columns{Brand: t.has("brand"), Product: t.has("product")}
	var issues []models.DataIssue
	out := make([]models.TrackingRecord, 0, len(t.rows))
	for i := range t.rows {
		id := t.cell(i, "influencer_id")
		if id == "" {
			continue
		}
		rev, err := t.number(i, "revenue")
		if err != nil {
			return nil, cols, nil, err
		}
		if rev < 0 {
			issues = append(issues, models.DataIssue{Kind: models.IssueNegativeRevenue, Table: t.name, Line: t.lines[i], InfluencerID: id, Value: rev})
		}
		out = append(out, models.TrackingRecord{
			InfluencerID: id,
			Campaign:     t.cell(i, "campaign"),
			Brand:        t.cell(i, "brand"),
			Product:      t.cell(i, "product"),
			Revenue:      rev,
		})
	}
	return out, cols, issues, nil
}

// parsePayouts skips rows with an empty total_payout: that influencer has no
// recorded spend.
func parsePayouts(r io.Reader) ([]models.Payout, []models.DataIssue, error) {
	t, err := readTable(TablePayouts, r, payoutCols)
	if err != nil {
		return nil, nil, err
	}
	var issues []models.DataIssue
	seen := make(map[string]struct{}, len(t.rows))
	out := make([]models.Payout, 0, len(t.rows))
	for i := range t.rows {
		id := t.cell(i, "influencer_id")
		if id == "" || t.cell(i, "total_payout") == "" {
			continue
		}
		v, err := t.number(i, "total_payout")
		if err != nil {
			return nil, nil, err
		}
		if v < 0 {
			issues = append(issues, models.DataIssue{Kind: models.IssueNegativePayout, Table: t.name, Line: t.lines[i], InfluencerID: id, Value: v})
		}
		if _, dup := seen[id]; dup {
			issues = append(issues, models.DataIssue{Kind: models.IssueDuplicatePayout, Table: t.name, Line: t.lines[i], InfluencerID: id, Value: v})
		}
		seen[id] = struct{}{}
		out = append(out, models.Payout{InfluencerID: id, TotalPayout: v})
	}
	return out, issues, nil
}
