package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/AngelCh415/influencer-roas/internal/export"
	"github.com/AngelCh415/influencer-roas/internal/ingest"
	"github.com/AngelCh415/influencer-roas/internal/metrics"
	"github.com/AngelCh415/influencer-roas/internal/models"
	"github.com/AngelCh415/influencer-roas/internal/store"
	"github.com/AngelCh415/influencer-roas/internal/utils"
)

// maxBatch caps the number of views computed by one batch request.
const maxBatch = 32

type handlers struct {
	Deps
}

type errorBody struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func (h *handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, metrics.ErrNoDataset):
		status = http.StatusConflict
	case errors.Is(err, ingest.ErrMissingTable):
		status = http.StatusBadRequest
	case errors.Is(err, ingest.ErrMissingColumn), errors.Is(err, ingest.ErrMalformedRow):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, ingest.ErrFetch), errors.Is(err, export.ErrSinkNon2xx):
		status = http.StatusBadGateway
	case errors.Is(err, export.ErrSinkConfig):
		status = http.StatusServiceUnavailable
	}
	if status >= 500 {
		h.Log.Error("request failed", slog.String("rid", utils.RID(r.Context())), slog.String("err", err.Error()))
	}
	writeJSON(w, status, errorBody{Error: err.Error(), RequestID: utils.RID(r.Context())})
}

type datasetSummary struct {
	Version     int                 `json:"version"`
	Source      string              `json:"source"`
	LoadedAt    time.Time           `json:"loaded_at"`
	Influencers int                 `json:"influencers"`
	Posts       int                 `json:"posts"`
	Tracking    int                 `json:"tracking"`
	Payouts     int                 `json:"payouts"`
	Columns     models.Columns      `json:"columns"`
	Filters     map[string][]string `json:"filters"`
	Issues      []models.DataIssue  `json:"issues"`
}

func summarize(snap store.Snapshot) datasetSummary {
	ds := snap.Dataset
	sel := metrics.DefaultSelection(ds)
	filters := map[string][]string{
		"platform": sel.Platforms.Values(),
		"campaign": sel.Campaigns.Values(),
	}
	if sel.Categories != nil {
		filters["category"] = sel.Categories.Values()
	}
	if sel.Brands != nil {
		filters["brand"] = sel.Brands.Values()
	}
	if sel.Products != nil {
		filters["product"] = sel.Products.Values()
	}
	return datasetSummary{
		Version:     snap.Version,
		Source:      snap.Source,
		LoadedAt:    snap.LoadedAt,
		Influencers: len(ds.Influencers),
		Posts:       len(ds.Posts),
		Tracking:    len(ds.Tracking),
		Payouts:     len(ds.Payouts),
		Columns:     ds.Columns,
		Filters:     filters,
		Issues:      ds.Issues,
	}
}

// upload accepts a multipart form with the files "influencers", "posts",
// "tracking" and "payouts". All four are required.
func (h *handlers) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.MaxUploadBytes); err != nil {
		http.Error(w, "bad multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	var src ingest.Sources
	for _, f := range []struct {
		field string
		dst   *io.Reader
	}{
		{ingest.TableInfluencers, &src.Influencers},
		{ingest.TablePosts, &src.Posts},
		{ingest.TableTracking, &src.Tracking},
		{ingest.TablePayouts, &src.Payouts},
	} {
		file, err := formFile(r, f.field)
		if err != nil {
			continue
		}
		defer file.Close()
		*f.dst = file
	}
	ds, err := ingest.Parse(src)
	h.loaded(w, r, ds, "upload", err)
}

func formFile(r *http.Request, field string) (multipart.File, error) {
	file, _, err := r.FormFile(field)
	return file, err
}

func (h *handlers) fetch(w http.ResponseWriter, r *http.Request) {
	ds, err := h.Loader.Fetch(r.Context(), h.URLs)
	h.loaded(w, r, ds, "fetch", err)
}

func (h *handlers) loaded(w http.ResponseWriter, r *http.Request, ds *models.Dataset, source string, err error) {
	if err != nil {
		h.Telemetry.ObserveLoad(nil, err)
		h.Log.Warn("dataset rejected", slog.String("source", source), slog.String("rid", utils.RID(r.Context())), slog.String("err", err.Error()))
		h.fail(w, r, err)
		return
	}
	h.Telemetry.ObserveLoad(ds.Issues, nil)
	snap := h.Store.Put(ds, source)
	h.Log.Info("dataset loaded",
		slog.String("source", source),
		slog.Int("version", snap.Version),
		slog.Int("influencers", len(ds.Influencers)),
		slog.Int("tracking", len(ds.Tracking)),
		slog.Int("issues", len(ds.Issues)))
	for _, is := range ds.Issues {
		h.Log.Warn("data issue", slog.String("kind", is.Kind), slog.String("table", is.Table),
			slog.Int("line", is.Line), slog.String("influencer_id", is.InfluencerID), slog.Float64("value", is.Value))
	}
	writeJSON(w, http.StatusCreated, summarize(snap))
}

func (h *handlers) current(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.Store.Current()
	if !ok {
		h.fail(w, r, metrics.ErrNoDataset)
		return
	}
	writeJSON(w, http.StatusOK, summarize(snap))
}

// unload stops serving the current dataset; reports answer 409 until the
// next upload or fetch.
func (h *handlers) unload(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.Store.Current(); !ok {
		h.fail(w, r, metrics.ErrNoDataset)
		return
	}
	h.Store.Clear()
	h.Log.Info("dataset unloaded", slog.String("rid", utils.RID(r.Context())))
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) query(w http.ResponseWriter, r *http.Request) (metrics.Report, bool) {
	rep, snap, err := h.Service.Query(r.URL.Query())
	if err != nil {
		h.fail(w, r, err)
		return rep, false
	}
	h.Log.Debug("report",
		slog.String("rid", utils.RID(r.Context())),
		slog.Int("dataset_version", snap.Version),
		slog.Int("influencers", len(rep.Filtered.Influencers)),
		slog.Int("rows", len(rep.Metrics)),
		slog.Int("infinite_roas", rep.InfiniteCount()))
	return rep, true
}

func (h *handlers) report(w http.ResponseWriter, r *http.Request) {
	if rep, ok := h.query(w, r); ok {
		writeJSON(w, http.StatusOK, rep)
	}
}

func (h *handlers) roas(w http.ResponseWriter, r *http.Request) {
	if rep, ok := h.query(w, r); ok {
		writeJSON(w, http.StatusOK, rep.ByROAS)
	}
}

func (h *handlers) top(w http.ResponseWriter, r *http.Request) {
	if rep, ok := h.query(w, r); ok {
		writeJSON(w, http.StatusOK, rep.TopByRevenue)
	}
}

func (h *handlers) underperformers(w http.ResponseWriter, r *http.Request) {
	if rep, ok := h.query(w, r); ok {
		writeJSON(w, http.StatusOK, rep.Underperformers)
	}
}

func (h *handlers) posts(w http.ResponseWriter, r *http.Request) {
	rows, total, err := h.Service.PostsPage(r.URL.Query())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"total": total, "posts": rows})
}

func (h *handlers) exportCSV(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.query(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.FileName+`"`)
	if err := export.WriteCSV(w, rep.Metrics); err != nil {
		h.Log.Error("export write", slog.String("rid", utils.RID(r.Context())), slog.String("err", err.Error()))
	}
}

func (h *handlers) exportPush(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.query(w, r)
	if !ok {
		return
	}
	n, err := h.Sink.Push(r.Context(), rep.Metrics)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"exported": n})
}

// batch takes a JSON array of query strings, e.g. ["platform=Instagram",
// "platform=YouTube&campaign=summer"], and returns one report per entry.
func (h *handlers) batch(w http.ResponseWriter, r *http.Request) {
	var raw []string
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&raw); err != nil {
		http.Error(w, "body must be a JSON array of query strings", http.StatusBadRequest)
		return
	}
	if len(raw) == 0 || len(raw) > maxBatch {
		http.Error(w, "batch size out of range", http.StatusBadRequest)
		return
	}
	views := make([]url.Values, len(raw))
	for i, q := range raw {
		v, err := url.ParseQuery(q)
		if err != nil {
			http.Error(w, "bad query string: "+q, http.StatusBadRequest)
			return
		}
		views[i] = v
	}
	reps, err := h.Service.Batch(r.Context(), views)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reps)
}
