package openrouter

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	configx "github.com/tanpawarit/agentic-insurance-assistant/pkg/config"
)

func TestNewClientRequiresAPIKey(t *testing.T) {
	t.Parallel()

	if client := NewClient(Config{APIKey: "   "}); client != nil {
		t.Fatal("expected nil client without api key")
	}
}

func TestCheckModel(t *testing.T) {
	t.Parallel()

	var gotPath, gotAuth, gotTitle string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotTitle = r.Header.Get("X-Title")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"openai/gpt-4o-mini","object":"model","created":0,"owned_by":"openai"}`)
	}))
	t.Cleanup(server.Close)

	client := NewClient(Config{
		BaseURL:  server.URL + "/",
		APIKey:   " key-1 ",
		SiteName: "insurance-assistant",
	})
	if client == nil {
		t.Fatal("expected client")
	}

	id, err := CheckModel(context.Background(), client, "openai/gpt-4o-mini")
	if err != nil {
		t.Fatalf("CheckModel() error = %v", err)
	}
	if id != "openai/gpt-4o-mini" {
		t.Fatalf("CheckModel() = %q", id)
	}
	if gotPath != "/models/openai/gpt-4o-mini" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if gotAuth != "Bearer key-1" {
		t.Fatalf("unexpected auth header: %q", gotAuth)
	}
	if gotTitle != "insurance-assistant" {
		t.Fatalf("unexpected title header: %q", gotTitle)
	}
}

func TestCheckModelNilClient(t *testing.T) {
	t.Parallel()

	if _, err := CheckModel(context.Background(), nil, "m"); err == nil {
		t.Fatal("expected error for nil client")
	}
}

func TestConfigReadsPrefixedKeysOnly(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Cleanup(func() { configx.SetEnvFile("") })
	configx.SetEnvFile("")

	t.Setenv("OPENROUTER_API_KEY", "key-1")
	t.Setenv("MODEL", "some/other-model")
	t.Setenv("TIMEOUT", "1s")
	t.Setenv("OPENROUTER_MAX_COMPLETION_TOKEN", "256")

	cfg, err := configx.New[Config]("OPENROUTER")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if cfg.APIKey != "key-1" {
		t.Fatalf("APIKey = %q", cfg.APIKey)
	}
	if cfg.Model != "openai/gpt-4o-mini" {
		t.Fatalf("Model = %q, want default", cfg.Model)
	}
	if cfg.Timeout != 30*time.Second {
		t.Fatalf("Timeout = %s, want 30s", cfg.Timeout)
	}
	if cfg.MaxCompletionToken == nil || *cfg.MaxCompletionToken != 256 {
		t.Fatalf("MaxCompletionToken = %v", cfg.MaxCompletionToken)
	}
}
