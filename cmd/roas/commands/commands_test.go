package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/influencer-roas/internal/export"
	"github.com/AngelCh415/influencer-roas/internal/ingest"
)

func writeDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		ingest.InfluencersFile: "influencer_id,name,platform\n1,Alice,Instagram\n2,Bob,YouTube\n",
		ingest.PostsFile:       "influencer_id,platform,date,caption,reach,likes,comments\n1,Instagram,2025-07-01,hi,1000,80,5\n",
		ingest.TrackingFile:    "influencer_id,campaign,revenue\n1,summer,300\n2,summer,50\n",
		ingest.PayoutsFile:     "influencer_id,total_payout\n1,100\n2,100\n",
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
	}
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("ROAS_ENV_FILE", filepath.Join(t.TempDir(), "none.env"))
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestExportCommand(t *testing.T) {
	dir := writeDataDir(t)
	out, err := run(t, "export", "--data-dir", dir, "--platform", "Instagram")
	require.NoError(t, err)

	rows, err := export.ParseCSV(bytes.NewBufferString(out))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Alice", rows[0].Name)
	assert.InDelta(t, 3.0, rows[0].ROAS.Float64(), 1e-9)
}

func TestReportCommandJSON(t *testing.T) {
	dir := writeDataDir(t)
	out, err := run(t, "report", "--data-dir", dir, "--format", "json", "-k", "1")
	require.NoError(t, err)

	var rep struct {
		TopByRevenue    []map[string]any `json:"top_by_revenue"`
		Underperformers []map[string]any `json:"underperformers"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	require.Len(t, rep.TopByRevenue, 1)
	assert.Equal(t, "1", rep.TopByRevenue[0]["influencer_id"])
	require.Len(t, rep.Underperformers, 1)
	assert.Equal(t, "2", rep.Underperformers[0]["influencer_id"])
}
