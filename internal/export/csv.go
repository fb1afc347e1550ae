// Package export serializes the aggregated ROAS table.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/AngelCh415/influencer-roas/internal/models"
)

// FileName is the suggested name of a downloaded export.
const FileName = "roas_table.csv"

// Columns is the stable column order of an export.
var Columns = []string{"influencer_id", "name", "revenue", "total_payout", "ROAS"}

// WriteCSV writes rows with a header. Floats use the shortest representation
// that parses back to the same value; a missing payout is an empty cell and
// the infinite ROAS is written as "Infinity". An empty table yields the
// header only.
func WriteCSV(w io.Writer, rows []models.InfluencerMetrics) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, m := range rows {
		payout := ""
		if m.HasPayout {
			payout = formatFloat(m.TotalPayout)
		}
		rec := []string{m.InfluencerID, m.Name, formatFloat(m.Revenue), payout, m.ROAS.String()}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ParseCSV reads an export back. influencer_id is optional; the other
// columns are required.
func ParseCSV(r io.Reader) ([]models.InfluencerMetrics, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadHeader, err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	for _, c := range Columns[1:] {
		if _, ok := idx[c]; !ok {
			return nil, fmt.Errorf("%w: missing %s", ErrBadHeader, c)
		}
	}
	get := func(rec []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	out := make([]models.InfluencerMetrics, 0)
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrBadValue, line, err)
		}
		m := models.InfluencerMetrics{
			InfluencerID: get(rec, "influencer_id"),
			Name:         get(rec, "name"),
		}
		if m.Revenue, err = strconv.ParseFloat(get(rec, "revenue"), 64); err != nil {
			return nil, fmt.Errorf("%w: line %d revenue: %v", ErrBadValue, line, err)
		}
		if s := get(rec, "total_payout"); s != "" {
			if m.TotalPayout, err = strconv.ParseFloat(s, 64); err != nil {
				return nil, fmt.Errorf("%w: line %d total_payout: %v", ErrBadValue, line, err)
			}
			m.HasPayout = true
		}
		if m.ROAS, err = models.ParseROAS(get(rec, "ROAS")); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrBadValue, line, err)
		}
		out = append(out, m)
	}
	return out, nil
}

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
