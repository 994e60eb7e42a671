package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"filekeeper/internal/config"
	"filekeeper/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckReportStore_OK(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	result := CheckReportStore(context.Background(), cfg)
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
	if !strings.Contains(result.Detail, "0 runs recorded") {
		t.Fatalf("expected run count in detail, got: %s", result.Detail)
	}
}

func TestCheckLLM_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"ok\":true}"}}]}`))
	}))
	defer srv.Close()

	result := CheckLLM(context.Background(), "Advisor LLM", config.LLMConfig{
		APIKey:         "good-key",
		BaseURL:        srv.URL,
		Model:          "test-model",
		TimeoutSeconds: 5,
	})
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
}

func TestCheckLLM_MissingKey(t *testing.T) {
	result := CheckLLM(context.Background(), "Advisor LLM", config.LLMConfig{})
	if result.Passed {
		t.Fatal("expected failure for missing key")
	}
	if result.Detail != "API key missing" {
		t.Fatalf("unexpected detail: %s", result.Detail)
	}
}

func TestCheckLLM_BadResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	result := CheckLLM(context.Background(), "Advisor LLM", config.LLMConfig{
		APIKey:         "bad-key",
		BaseURL:        srv.URL,
		Model:          "test-model",
		TimeoutSeconds: 5,
	})
	if result.Passed {
		t.Fatal("expected failure for unauthorized response")
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	results := RunAll(context.Background(), nil)
	if results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_MinimalConfig(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}

	results := RunAll(context.Background(), cfg)
	// One scan root plus data dir, log dir, and the report store.
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for _, r := range results {
		if !r.Passed {
			t.Errorf("check %q failed: %s", r.Name, r.Detail)
		}
	}
	if !Passed(results) {
		t.Fatal("expected Passed to report true")
	}
}

func TestRunAll_IncludesAdvisorWhenEnabled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"ok\":true}"}}]}`))
	}))
	defer srv.Close()

	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}
	cfg.Advisor.Enabled = true
	cfg.Advisor.APIKey = "test"
	cfg.Advisor.BaseURL = srv.URL
	cfg.Advisor.Model = "test-model"
	cfg.Advisor.TimeoutSeconds = 5

	results := RunAll(context.Background(), cfg)
	found := false
	for _, r := range results {
		if r.Name == "Advisor LLM" {
			found = true
			if !r.Passed {
				t.Errorf("advisor check failed: %s", r.Detail)
			}
		}
	}
	if !found {
		t.Fatal("expected advisor check in results")
	}
}

func TestPassed_MixedResults(t *testing.T) {
	results := []Result{
		{Name: "a", Passed: true},
		{Name: "b", Passed: false},
	}
	if Passed(results) {
		t.Fatal("expected Passed to report false with a failing check")
	}
}
