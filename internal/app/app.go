// Package app wires configuration, storage, the pipeline service and the
// HTTP surface together.
package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/AngelCh415/influencer-roas/internal/config"
	"github.com/AngelCh415/influencer-roas/internal/export"
	"github.com/AngelCh415/influencer-roas/internal/httpx"
	"github.com/AngelCh415/influencer-roas/internal/ingest"
	"github.com/AngelCh415/influencer-roas/internal/metrics"
	"github.com/AngelCh415/influencer-roas/internal/models"
	"github.com/AngelCh415/influencer-roas/internal/store"
	"github.com/AngelCh415/influencer-roas/internal/telemetry"
	"github.com/AngelCh415/influencer-roas/internal/utils"
)

type App struct {
	cfg     *config.Config
	log     *slog.Logger
	store   *store.MemoryStore
	tel     *telemetry.Collector
	service *metrics.Service
	handler http.Handler
}

// NewLogger builds the JSON slog logger used by every entry point.
func NewLogger(cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level()}))
}

func New(cfg *config.Config, log *slog.Logger) *App {
	cl := ingest.NewHTTPClient(cfg.HTTPTimeout)
	st := store.NewMemoryStore()
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	tel := telemetry.New(telemetry.WithNamespace(cfg.MetricsNamespace), telemetry.WithRegistry(reg))
	svc := metrics.NewService(st, cfg.TopK, tel)
	a := &App{cfg: cfg, log: log, store: st, tel: tel, service: svc}
	a.handler = httpx.NewRouter(httpx.Deps{
		Log:     log,
		Store:   st,
		Service: svc,
		Loader:  ingest.NewLoader(cl, utils.NewBackoff(cfg.FetchBackoff, cfg.FetchRetries), log),
		URLs: ingest.URLs{
			Influencers: cfg.InfluencersURL,
			Posts:       cfg.PostsURL,
			Tracking:    cfg.TrackingURL,
			Payouts:     cfg.PayoutsURL,
		},
		Sink:           export.NewSink(cl, cfg.SinkURL, cfg.SinkSecret),
		Telemetry:      tel,
		MaxUploadBytes: cfg.MaxUploadBytes,
	})
	return a
}

func (a *App) Handler() http.Handler { return a.handler }

// LoadDir loads the dataset in dir and starts serving it.
func (a *App) LoadDir(dir string) error {
	ds, err := ingest.LoadDir(dir)
	a.tel.ObserveLoad(issuesOf(ds), err)
	if err != nil {
		return err
	}
	snap := a.store.Put(ds, "dir:"+dir)
	a.log.Info("dataset loaded", slog.String("dir", dir), slog.Int("version", snap.Version),
		slog.Int("influencers", len(ds.Influencers)), slog.Int("issues", len(ds.Issues)))
	return nil
}

// Serve runs the HTTP server until ctx is cancelled.
func (a *App) Serve(ctx context.Context) error {
	if a.cfg.DataDir != "" {
		if err := a.LoadDir(a.cfg.DataDir); err != nil {
			return err
		}
	}
	srv := &http.Server{
		Addr:              a.cfg.Addr,
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		a.log.Info("starting server", slog.String("addr", a.cfg.Addr))
		errc <- srv.ListenAndServe()
	}()
	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		a.log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func issuesOf(ds *models.Dataset) []models.DataIssue {
	if ds == nil {
		return nil
	}
	return ds.Issues
}
