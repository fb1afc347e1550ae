package ingest

import (
	"context"
	"fmt"

	"github.com/AngelCh415/influencer-roas/internal/utils"
)

// GetWithRetry downloads url, retrying transport errors and non-2xx answers
// with exponential backoff.
func GetWithRetry(ctx context.Context, c HTTPClient, b utils.Backoff, url string) ([]byte, error) {
	var body []byte
	err := b.Do(ctx, func(int) error {
		var err error
		body, err = getBytes(ctx, c, url)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFetch, url, err)
	}
	return body, nil
}
