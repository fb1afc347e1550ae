package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/AngelCh415/influencer-roas/internal/models"
	"github.com/AngelCh415/influencer-roas/internal/utils"
)

// File names used when the tables are read from a directory.
const (
	InfluencersFile = "influencers.csv"
	PostsFile       = "posts.csv"
	TrackingFile    = "tracking_data.csv"
	PayoutsFile     = "payouts.csv"
)

// Sources carries the four raw tables. A nil reader is a missing table.
type Sources struct {
	Influencers io.Reader
	Posts       io.Reader
	Tracking    io.Reader
	Payouts     io.Reader
}

// URLs locates the four tables on a remote server.
type URLs struct {
	Influencers string
	Posts       string
	Tracking    string
	Payouts     string
}

// Parse validates and decodes all four tables. It returns either a complete
// dataset or a setup error; never a partial dataset. Every missing table is
// named in the one error returned.
func Parse(src Sources) (*models.Dataset, error) {
	var missing []error
	for _, t := range []struct {
		name string
		r    io.Reader
	}{
		{TableInfluencers, src.Influencers},
		{TablePosts, src.Posts},
		{TableTracking, src.Tracking},
		{TablePayouts, src.Payouts},
	} {
		if t.r == nil {
			missing = append(missing, &SchemaError{Table: t.name, Err: ErrMissingTable})
		}
	}
	if len(missing) > 0 {
		return nil, errors.Join(missing...)
	}

	ds := &models.Dataset{}
	infl, hasCategory, issues, err := parseInfluencers(src.Influencers)
	if err != nil {
		return nil, err
	}
	ds.Influencers = infl
	ds.Columns.Category = hasCategory
	ds.Issues = append(ds.Issues, issues...)

	if ds.Posts, err = parsePosts(src.Posts); err != nil {
		return nil, err
	}

	tr, cols, issues, err := parseTracking(src.Tracking)
	if err != nil {
		return nil, err
	}
	ds.Tracking = tr
	ds.Columns.Brand, ds.Columns.Product = cols.Brand, cols.Product
	ds.Issues = append(ds.Issues, issues...)

	pay, issues, err := parsePayouts(src.Payouts)
	if err != nil {
		return nil, err
	}
	ds.Payouts = pay
	ds.Issues = append(ds.Issues, issues...)
	if ds.Issues == nil {
		ds.Issues = []models.DataIssue{}
	}
	return ds, nil
}

// LoadDir reads the four tables from dir.
func LoadDir(dir string) (*models.Dataset, error) {
	var src Sources
	var missing []error
	open := func(name, file string) io.Reader {
		b, err := os.ReadFile(filepath.Join(dir, file))
		if err != nil {
			missing = append(missing, &SchemaError{Table: name, Err: fmt.Errorf("%w: %v", ErrMissingTable, err)})
			return nil
		}
		return bytes.NewReader(b)
	}
	src.Influencers = open(TableInfluencers, InfluencersFile)
	src.Posts = open(TablePosts, PostsFile)
	src.Tracking = open(TableTracking, TrackingFile)
	src.Payouts = open(TablePayouts, PayoutsFile)
	if len(missing) > 0 {
		return nil, errors.Join(missing...)
	}
	return Parse(src)
}

// Loader fetches the tables from remote URLs.
type Loader struct {
	c       HTTPClient
	backoff utils.Backoff
	log     *slog.Logger
}

func NewLoader(c HTTPClient, b utils.Backoff, log *slog.Logger) *Loader {
	return &Loader{c: c, backoff: b, log: log}
}

func (l *Loader) Fetch(ctx context.Context, u URLs) (*models.Dataset, error) {
	var src Sources
	for _, t := range []struct {
		url string
		dst *io.Reader
	}{
		{u.Influencers, &src.Influencers},
		{u.Posts, &src.Posts},
		{u.Tracking, &src.Tracking},
		{u.Payouts, &src.Payouts},
	} {
		if t.url == "" {
			continue
		}
		b, err := GetWithRetry(ctx, l.c, l.backoff, t.url)
		if err != nil {
			return nil, err
		}
		*t.dst = bytes.NewReader(b)
	}
	ds, err := Parse(src)
	if err != nil {
		return nil, err
	}
	l.log.Info("ingest complete",
		slog.Int("influencers", len(ds.Influencers)),
		slog.Int("posts", len(ds.Posts)),
		slog.Int("tracking", len(ds.Tracking)),
		slog.Int("payouts", len(ds.Payouts)),
		slog.Int("issues", len(ds.Issues)))
	return ds, nil
}
