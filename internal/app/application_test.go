package app

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/raysh454/urlanalyzer/internal/testutil"
	"github.com/raysh454/urlanalyzer/internal/vtstub"
)

func newStubbedApplication(t *testing.T, apiKey string) (*Application, *vtstub.Server) {
	t.Helper()
	stubCfg := vtstub.DefaultConfig()
	stubCfg.PendingPolls = 0
	stub := vtstub.New(stubCfg)
	ts := httptest.NewServer(stub.Handler())
	t.Cleanup(ts.Close)

	cfg := DefaultConfig()
	cfg.ServerCfg.ListenAddr = "127.0.0.1:0"
	cfg.AnalyzerCfg.APIKey = apiKey
	cfg.AnalyzerCfg.BaseURL = ts.URL
	cfg.HistoryCfg.Path = filepath.Join(t.TempDir(), "history.db")

	a, err := NewApplication(context.Background(), cfg, &testutil.DummyLogger{})
	if err != nil {
		t.Fatalf("NewApplication: %v", err)
	}
	if err := a.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = a.Shutdown(ctx)
	})
	return a, stub
}

func postAnalyze(t *testing.T, addr, target string) (int, string) {
	t.Helper()
	resp, err := http.Post("http://"+addr+"/analyze", "application/json", strings.NewReader(`{"url":"`+target+`"}`))
	if err != nil {
		t.Fatalf("POST /analyze: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestApplication_AnalyzeEndToEnd(t *testing.T) {
	t.Parallel()
	a, stub := newStubbedApplication(t, vtstub.DefaultConfig().APIKey)
	stub.SetVerdict("phish.test", vtstub.Stats{Malicious: 12, Harmless: 2})

	status, body := postAnalyze(t, a.Addr(), "http://phish.test/login?token=abc")
	if status != http.StatusOK {
		t.Fatalf("status = %d: %s", status, body)
	}
	var v map[string]any
	if err := json.Unmarshal([]byte(body), &v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v["url"] != "http://phish.test/login" || v["malicious_votes"] != float64(12) || v["harmless_votes"] != float64(2) {
		t.Errorf("unexpected verdict %v", v)
	}

	// second request is served from the cache
	_, body = postAnalyze(t, a.Addr(), "http://phish.test/login")
	if !strings.Contains(body, `"cached":true`) {
		t.Errorf("expected cached verdict, got %s", body)
	}
	if n := len(stub.Submissions()); n != 1 {
		t.Errorf("VirusTotal saw %d submissions, want 1", n)
	}

	resp, err := http.Get("http://" + a.Addr() + "/history?domain=phish.test")
	if err != nil {
		t.Fatalf("GET /history: %v", err)
	}
	defer resp.Body.Close()
	var entries []map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&entries)
	if len(entries) != 1 {
		t.Errorf("history entries = %d, want 1", len(entries))
	}

	mresp, err := http.Get("http://" + a.Addr() + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer mresp.Body.Close()
	mbody, _ := io.ReadAll(mresp.Body)
	if !strings.Contains(string(mbody), `urlanalyzer_analyses_total{outcome="cached"} 1`) {
		t.Errorf("metrics missing cached outcome")
	}
}

func TestApplication_MissingKeyIs500(t *testing.T) {
	t.Parallel()
	a, _ := newStubbedApplication(t, "")

	status, body := postAnalyze(t, a.Addr(), "http://x.test/")
	if status != http.StatusInternalServerError || !strings.Contains(body, "VIRUS_TOTAL_API_KEY not set") {
		t.Errorf("got %d %s", status, body)
	}
}

func TestApplication_StartTwice(t *testing.T) {
	t.Parallel()
	a, _ := newStubbedApplication(t, "k")
	if err := a.Start(); err == nil {
		t.Error("second Start should fail")
	}
}

func TestApplication_ShutdownStopsServing(t *testing.T) {
	t.Parallel()
	a, _ := newStubbedApplication(t, "k")
	if err := a.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if err := a.Wait(); err != nil {
		t.Errorf("Wait: %v", err)
	}
}
