package aggregate

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-leetcode-stats/internal/config"
	"go-leetcode-stats/internal/fetch"
	"go-leetcode-stats/internal/metrics"
	"go-leetcode-stats/internal/model"
	"go-leetcode-stats/internal/stats"
)

var fixedNow = time.Date(2023, 11, 20, 8, 0, 0, 0, time.UTC)

type fakeSource struct {
	res   model.StatsResult
	err   error
	users []string
}

func (f *fakeSource) Fetch(_ context.Context, username string) (model.StatsResult, error) {
	f.users = append(f.users, username)
	return f.res, f.err
}

func testConfig(t *testing.T, dir string) *config.Config {
	t.Helper()
	cfg, err := config.Load("", config.WithUsername("alice"), config.WithExportPath(filepath.Join(dir, "data.json")))
	require.NoError(t, err)
	return cfg
}

func readExport(t *testing.T, path string) model.Export {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	var e model.Export
	require.NoError(t, json.Unmarshal(b, &e))
	return e
}

func TestRunner_ReadyExport(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t, dir)
	src := &fakeSource{res: model.StatsResult{
		DifficultyCounts: model.DifficultyCounts{Easy: 10, Medium: 5, Hard: 1, Total: 16},
		Heatmap:          []model.HeatmapPoint{{Date: "2023-11-14", Count: 3}},
	}}
	r := New(cfg, src, nil)
	r.now = func() time.Time { return fixedNow }

	exp, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, src.users)
	assert.Equal(t, model.StatusReady, exp.Status)
	assert.Empty(t, exp.Message)

	got := readExport(t, cfg.Export.Path)
	require.NotNil(t, got.Stats)
	assert.Equal(t, 16, got.Stats.Total)
	assert.Equal(t, []model.HeatmapPoint{{Date: "2023-11-14", Count: 3}}, got.Stats.Heatmap)
	assert.Equal(t, "https://leetcode.com/u/alice/", got.ProfileURL)
	assert.Equal(t, "2022-11-21", got.WindowStart)
	assert.Equal(t, "2023-11-20", got.WindowEnd)
}

func TestRunner_FailedFetchDegrades(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t, dir)
	cause := &stats.FetchError{Kind: stats.NetworkFailure, Err: errors.New("dial tcp: connection refused")}
	r := New(cfg, &fakeSource{err: cause}, nil)
	r.now = func() time.Time { return fixedNow }

	exp, err := r.Run(context.Background())
	require.NoError(t, err, "a failed fetch only degrades the stats region")
	assert.Equal(t, model.StatusFailed, exp.Status)

	b, err := os.ReadFile(cfg.Export.Path)
	require.NoError(t, err)
	assert.Contains(t, string(b), stats.UnavailableMessage)
	assert.NotContains(t, string(b), "connection refused")
	assert.Nil(t, readExport(t, cfg.Export.Path).Stats)
}

func TestRunner_InjectsPageAndWritesMetrics(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t, dir)
	cfg.Page.Path = filepath.Join(dir, "index.html")
	cfg.Page.Selector = "#leetcode"
	cfg.MetricsFile = filepath.Join(dir, "leetcode.prom")
	require.NoError(t, os.WriteFile(cfg.Page.Path,
		[]byte(`<html><body><section id="leetcode">stale-marker</section></body></html>`), 0o644))

	src := &fakeSource{res: model.StatsResult{
		DifficultyCounts: model.DifficultyCounts{Easy: 2, Medium: 1, Total: 3},
		Heatmap:          []model.HeatmapPoint{{Date: "2023-11-19", Count: 6}},
	}}
	r := New(cfg, src, metrics.New(cfg.MetricsFile, cfg.Username))
	r.now = func() time.Time { return fixedNow }

	_, err := r.Run(context.Background())
	require.NoError(t, err)

	f, err := os.Open(cfg.Page.Path)
	require.NoError(t, err)
	defer f.Close()
	doc, err := goquery.NewDocumentFromReader(f)
	require.NoError(t, err)
	assert.Equal(t, "ready", doc.Find("#leetcode .leetcode-stats").AttrOr("data-status", ""))
	assert.Equal(t, "color-scale-4", doc.Find(`#leetcode rect[data-date="2023-11-19"]`).AttrOr("class", ""))
	assert.NotContains(t, doc.Find("#leetcode").Text(), "stale-marker")

	prom, err := os.ReadFile(cfg.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `leetcode_solved{difficulty="total",username="alice"} 3`)
}

func TestRunner_PageMissingSelectorStillExports(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t, dir)
	cfg.Page.Path = filepath.Join(dir, "index.html")
	cfg.Page.Selector = "#leetcode"
	cfg.MetricsFile = filepath.Join(dir, "leetcode.prom")
	require.NoError(t, os.WriteFile(cfg.Page.Path, []byte(`<html><body></body></html>`), 0o644))

	src := &fakeSource{res: model.StatsResult{
		DifficultyCounts: model.DifficultyCounts{Easy: 1, Total: 1},
		Heatmap:          []model.HeatmapPoint{},
	}}
	r := New(cfg, src, metrics.New(cfg.MetricsFile, cfg.Username))
	r.now = func() time.Time { return fixedNow }
	_, err := r.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "update page")

	got := readExport(t, cfg.Export.Path)
	assert.Equal(t, model.StatusReady, got.Status)
	require.NotNil(t, got.Stats)
	assert.Equal(t, 1, got.Stats.Total)

	prom, err := os.ReadFile(cfg.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `leetcode_fetch_success{username="alice"} 1`)
}

func TestRunner_JoinsArtefactErrors(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t, dir)
	cfg.Page.Path = filepath.Join(dir, "missing.html")
	cfg.Page.Selector = "#leetcode"
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	cfg.Export.Path = filepath.Join(blocker, "data.json")

	_, err := New(cfg, &fakeSource{}, nil).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "update page")
	assert.Contains(t, err.Error(), "export json")
}

func TestRunner_EndToEndWithFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/alice") {
			_, _ = w.Write([]byte(`{"message":"Not found"}`))
			return
		}
		_, _ = w.Write([]byte(`{"easySolved":10,"mediumSolved":5,"hardSolved":1,"totalSolved":16,"submissionCalendar":{}}`))
	}))
	defer srv.Close()

	cl, err := fetch.New(fetch.Options{Timeout: 2 * time.Second})
	require.NoError(t, err)
	dir := t.TempDir()
	cfg := testConfig(t, dir)

	exp, err := New(cfg, stats.NewFetcher(cl, srv.URL), nil).Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, exp.Stats)
	assert.Equal(t, model.DifficultyCounts{Easy: 10, Medium: 5, Hard: 1, Total: 16}, exp.Stats.DifficultyCounts)
	assert.Empty(t, exp.Stats.Heatmap)

	cfg.Username = "ghost"
	exp, err = New(cfg, stats.NewFetcher(cl, srv.URL), nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.StatusFailed, exp.Status)
}
