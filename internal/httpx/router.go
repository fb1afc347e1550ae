package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AngelCh415/influencer-roas/internal/export"
	"github.com/AngelCh415/influencer-roas/internal/ingest"
	"github.com/AngelCh415/influencer-roas/internal/metrics"
	"github.com/AngelCh415/influencer-roas/internal/store"
	"github.com/AngelCh415/influencer-roas/internal/telemetry"
	"github.com/AngelCh415/influencer-roas/internal/utils"
)

type Deps struct {
	Log            *slog.Logger
	Store          *store.MemoryStore
	Service        *metrics.Service
	Loader         *ingest.Loader
	URLs           ingest.URLs
	Sink           *export.Sink
	Telemetry      *telemetry.Collector
	MaxUploadBytes int64
}

func NewRouter(d Deps) http.Handler {
	h := &handlers{Deps: d}

	mux := chi.NewRouter()
	mux.Use(utils.RequestID)
	mux.Use(utils.Logger(d.Log))
	mux.Use(utils.Instrument(d.Telemetry))

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
	mux.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if _, ok := d.Store.Current(); !ok {
			http.Error(w, "no dataset", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(200)
		w.Write([]byte("ready"))
	})
	mux.Method(http.MethodGet, "/metrics", d.Telemetry.Handler())

	mux.Route("/datasets", func(r chi.Router) {
		r.Post("/", h.upload)
		r.Post("/fetch", h.fetch)
		r.Get("/current", h.current)
		r.Delete("/current", h.unload)
	})

	mux.Route("/reports", func(r chi.Router) {
		r.Get("/", h.report)
		r.Get("/roas", h.roas)
		r.Get("/top", h.top)
		r.Get("/underperformers", h.underperformers)
		r.Get("/posts", h.posts)
		r.Get("/export.csv", h.exportCSV)
		r.Post("/export/push", h.exportPush)
		r.Post("/batch", h.batch)
	})

	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	enc.Encode(v)
}
