package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithContext(context.Background(), NewWithWriter(&buf))

	log := FromContext(ctx)
	log.Warn().Str("file", "data.csv").Msg("row skipped")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not json: %v: %q", err, buf.String())
	}
	if entry["message"] != "row skipped" || entry["file"] != "data.csv" || entry["level"] != "warn" {
		t.Errorf("unexpected log entry %v", entry)
	}
}

func TestFromContextChained(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithContext(context.Background(), NewWithWriter(&buf))

	FromContext(ctx).Info().Int("count", 3).Msg("default categories created")

	if !bytes.Contains(buf.Bytes(), []byte(`"message":"default categories created"`)) {
		t.Errorf("chained call did not log: %q", buf.String())
	}
}

func TestFromContextDefault(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("FromContext() without a logger returned nil")
	}
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := WithFields(NewWithWriter(&buf), map[string]interface{}{"collection": "accounts"})
	log.Info().Msg("loaded")

	if !bytes.Contains(buf.Bytes(), []byte(`"collection":"accounts"`)) {
		t.Errorf("WithFields() did not add the field: %q", buf.String())
	}
}

func TestSetLevel(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.GlobalLevel())

	if err := SetLevel("error"); err != nil {
		t.Fatalf("SetLevel() error = %v", err)
	}
	if got := zerolog.GlobalLevel(); got != zerolog.ErrorLevel {
		t.Errorf("GlobalLevel() = %v, want %v", got, zerolog.ErrorLevel)
	}
	if err := SetLevel("loud"); err == nil {
		t.Errorf("SetLevel(%q) must fail", "loud")
	}
}
