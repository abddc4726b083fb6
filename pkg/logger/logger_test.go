package logx

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestInitLevels(t *testing.T) {
	var buf bytes.Buffer
	Output = &buf
	t.Cleanup(func() {
		Output = os.Stdout
		Init()
	})

	Init(Config{Debug: false})
	log.Debug().Msg("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug line written at info level: %s", buf.String())
	}

	Init(Config{Debug: true})
	log.Debug().Str("k", "v").Msg("shown")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line: %v (%s)", err, buf.String())
	}
	if entry["message"] != "shown" || entry["k"] != "v" {
		t.Fatalf("unexpected entry: %#v", entry)
	}
	if _, ok := entry["time"]; !ok {
		t.Fatal("expected timestamp field")
	}
}

func TestCtxFallsBackToGlobalLogger(t *testing.T) {
	var buf bytes.Buffer
	Output = &buf
	t.Cleanup(func() {
		Output = os.Stdout
		Init()
	})

	Init(Config{})
	zerolog.Ctx(context.Background()).Info().Msg("fallback")
	if !bytes.Contains(buf.Bytes(), []byte("fallback")) {
		t.Fatalf("expected global logger output, got %q", buf.String())
	}
}
