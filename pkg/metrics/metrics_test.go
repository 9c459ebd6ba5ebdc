package metrics

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/matzehuels/harvester/pkg/observability"
)

func TestCrawlHooks(t *testing.T) {
	m := New(prometheus.NewRegistry())
	ctx := context.Background()

	m.OnRoundStart(ctx, "npm", 10)
	m.OnSearch(ctx, "npm", 20, time.Second, nil)
	m.OnSearch(ctx, "npm", 0, time.Second, errors.New("boom"))
	m.OnCheckpoint(ctx, "npm", nil)
	m.OnAuthor(ctx, "npm", true)
	m.OnAuthor(ctx, "npm", false)
	m.OnAuthor(ctx, "npm", false)
	m.OnKeyword(ctx, "npm")
	m.OnRoundComplete(ctx, "npm", 2*time.Second)

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"batch size", testutil.ToFloat64(m.batchSize.WithLabelValues("npm")), 10},
		{"ok searches", testutil.ToFloat64(m.searches.WithLabelValues("npm", "ok")), 1},
		{"failed searches", testutil.ToFloat64(m.searches.WithLabelValues("npm", "error")), 1},
		{"hits", testutil.ToFloat64(m.searchHits.WithLabelValues("npm")), 20},
		{"checkpoints", testutil.ToFloat64(m.checkpoints.WithLabelValues("npm", "ok")), 1},
		{"created", testutil.ToFloat64(m.authors.WithLabelValues("npm", "created")), 1},
		{"appended", testutil.ToFloat64(m.authors.WithLabelValues("npm", "appended")), 2},
		{"keywords", testutil.ToFloat64(m.keywords.WithLabelValues("npm")), 1},
		{"rounds", testutil.ToFloat64(m.rounds.WithLabelValues("npm")), 1},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestCacheAndHTTPHooks(t *testing.T) {
	m := New(prometheus.NewRegistry())
	ctx := context.Background()

	m.OnCacheHit(ctx, "github:")
	m.OnCacheMiss(ctx, "github:")
	m.OnCacheMiss(ctx, "github:")
	m.OnCacheSet(ctx, "github:", 512)
	m.OnResponse(ctx, "GET", "api.github.com", "/users/x", 200, time.Millisecond)
	m.OnError(ctx, "GET", "api.github.com", "/users/y", errors.New("timeout"))

	if got := testutil.ToFloat64(m.cacheLookups.WithLabelValues("github:", "miss")); got != 2 {
		t.Errorf("misses = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.cacheBytes.WithLabelValues("github:")); got != 512 {
		t.Errorf("bytes = %v, want 512", got)
	}
	if got := testutil.ToFloat64(m.httpRequests.WithLabelValues("api.github.com", "200")); got != 1 {
		t.Errorf("requests = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.httpErrors.WithLabelValues("api.github.com")); got != 1 {
		t.Errorf("errors = %v, want 1", got)
	}
}

func TestInstall(t *testing.T) {
	defer observability.Reset()

	m := New(prometheus.NewRegistry())
	m.Install()
	observability.Crawl().OnKeyword(context.Background(), "github")

	if got := testutil.ToFloat64(m.keywords.WithLabelValues("github")); got != 1 {
		t.Errorf("keywords = %v, want 1", got)
	}
}

func TestHandler(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.OnKeyword(context.Background(), "packagist")

	server := httptest.NewServer(m.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if !strings.Contains(string(body), `harvester_keywords_total{source="packagist"} 1`) {
		t.Errorf("exposition missing keyword counter:\n%s", body)
	}
}
