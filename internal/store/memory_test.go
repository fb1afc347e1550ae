package store

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/influencer-roas/internal/models"
)

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	_, ok := s.Current()
	assert.False(t, ok)

	a := &models.Dataset{Influencers: []models.Influencer{{InfluencerID: "1"}}}
	snap := s.Put(a, "upload")
	assert.Equal(t, 1, snap.Version)
	assert.Equal(t, "upload", snap.Source)
	assert.False(t, snap.LoadedAt.IsZero())

	b := &models.Dataset{}
	s.Put(b, "fetch")
	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, 2, cur.Version)
	assert.Same(t, b, cur.Dataset)

	s.Clear()
	_, ok = s.Current()
	assert.False(t, ok)

	// versions keep increasing after a clear
	assert.Equal(t, 3, s.Put(a, "upload").Version)
}

func TestMemoryStoreConcurrent(t *testing.T) {
	s := NewMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Put(&models.Dataset{}, "w")
		}()
		go func() {
			defer wg.Done()
			s.Current()
		}()
	}
	wg.Wait()
	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, 20, cur.Version)
}
