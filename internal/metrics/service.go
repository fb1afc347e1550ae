package metrics

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/AngelCh415/influencer-roas/internal/models"
	"github.com/AngelCh415/influencer-roas/internal/store"
)

var ErrNoDataset = errors.New("no dataset loaded")

// Observer receives a summary of every pipeline run.
type Observer interface {
	ObserveRun(r Report, took time.Duration)
}

type Service struct {
	st   *store.MemoryStore
	topK int
	obs  Observer
}

func NewService(st *store.MemoryStore, topK int, obs Observer) *Service {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Service{st: st, topK: topK, obs: obs}
}

func norm(s string) string { return strings.TrimSpace(s) }

func csvSet(s string) models.Set {
	out := models.Set{}
	for _, p := range strings.Split(s, ",") {
		p = norm(p)
		if p != "" {
			out[p] = struct{}{}
		}
	}
	return out
}

// Selection builds a FilterSelection from query parameters. A dimension whose
// parameter is absent selects all of its values; a parameter present with no
// values selects nothing.
func Selection(ds *models.Dataset, v url.Values) models.FilterSelection {
	sel := DefaultSelection(ds)
	pick := func(key string, def models.Set) models.Set {
		if _, ok := v[key]; !ok {
			return def
		}
		return csvSet(v.Get(key))
	}
	sel.Platforms = pick("platform", sel.Platforms)
	sel.Campaigns = pick("campaign", sel.Campaigns)
	sel.Categories = pick("category", sel.Categories)
	sel.Brands = pick("brand", sel.Brands)
	sel.Products = pick("product", sel.Products)
	return sel
}

// Query runs the pipeline over the served dataset for the selection encoded
// in v. "k" overrides the top-by-revenue size; k <= 0 lists every row.
func (s *Service) Query(v url.Values) (Report, store.Snapshot, error) {
	snap, ok := s.st.Current()
	if !ok {
		return Report{}, store.Snapshot{}, ErrNoDataset
	}
	rep := s.run(snap.Dataset, Selection(snap.Dataset, v), atoiDef(v.Get("k"), s.topK))
	return rep, snap, nil
}

// Batch computes several independent views of the served dataset at once.
func (s *Service) Batch(ctx context.Context, views []url.Values) ([]Report, error) {
	snap, ok := s.st.Current()
	if !ok {
		return nil, ErrNoDataset
	}
	sels := make([]models.FilterSelection, len(views))
	for i, v := range views {
		sels[i] = Selection(snap.Dataset, v)
	}
	start := time.Now()
	reps, err := RunMany(ctx, snap.Dataset, sels, Options{TopK: s.topK})
	if err != nil {
		return nil, err
	}
	if s.obs != nil {
		took := time.Since(start)
		for _, r := range reps {
			s.obs.ObserveRun(r, took)
		}
	}
	return reps, nil
}

// PostsPage returns one page of the post engagement table.
func (s *Service) PostsPage(v url.Values) ([]models.PostEngagement, int, error) {
	rep, _, err := s.Query(v)
	if err != nil {
		return nil, 0, err
	}
	limit := atoiDef(v.Get("limit"), 100)
	offset := atoiDef(v.Get("offset"), 0)
	limit, offset = clampLimitOffset(limit, offset, len(rep.Posts))
	return paginate(rep.Posts, limit, offset), len(rep.Posts), nil
}

func (s *Service) run(ds *models.Dataset, sel models.FilterSelection, k int) Report {
	start := time.Now()
	rep := Run(ds, sel, Options{TopK: k})
	if s.obs != nil {
		s.obs.ObserveRun(rep, time.Since(start))
	}
	return rep
}

func paginate[T any](rows []T, limit, offset int) []T {
	if offset >= len(rows) {
		return []T{}
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}

func atoiDef(s string, d int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return v
}

func clampLimitOffset(limit, offset, n int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = n
	}
	if limit > 1000 {
		limit = 1000
	} // tope sano
	if offset > n {
		offset = n
	}
	return limit, offset
}
