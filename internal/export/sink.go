package export

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"

	"github.com/AngelCh415/influencer-roas/internal/models"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Sink pushes a CSV export to a remote endpoint. The body is signed with
// HMAC-SHA256 of the shared secret in the X-Signature header.
type Sink struct {
	c      HTTPClient
	url    string
	secret string
}

func NewSink(c HTTPClient, url, secret string) *Sink {
	return &Sink{c: c, url: url, secret: secret}
}

// Push sends rows and returns how many were exported. An empty table is not
// sent.
func (s *Sink) Push(ctx context.Context, rows []models.InfluencerMetrics) (int, error) {
	if s.url == "" || s.secret == "" {
		return 0, ErrSinkConfig
	}
	if len(rows) == 0 {
		return 0, nil
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows); err != nil {
		return 0, err
	}
	b := buf.Bytes()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(b))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "text/csv")
	req.Header.Set("X-Signature", Sign(s.secret, b))
	resp, err := s.c.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, ErrSinkNon2xx
	}
	return len(rows), nil
}

// Sign returns the hex HMAC-SHA256 of body.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
