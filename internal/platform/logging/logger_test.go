package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
)

func TestLoggerWritesKeyValueFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := newWithWriter(LevelInfo, FormatJSON, &buf).With("component", "sweep")
	logger.Warn("wrong outcome", "duel", "a 2 - 1 b", "tables", 3, "error", errors.New("boom"))

	var line map[string]any
	if err := sonic.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if line["msg"] != "wrong outcome" || line["level"] != "WARN" {
		t.Fatalf("unexpected log header: %+v", line)
	}
	if line["component"] != "sweep" || line["duel"] != "a 2 - 1 b" || line["error"] != "boom" {
		t.Fatalf("unexpected fields: %+v", line)
	}
	if tables, _ := line["tables"].(float64); tables != 3 {
		t.Fatalf("unexpected tables field: %+v", line["tables"])
	}
}

func TestLoggerRespectsLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := newWithWriter(LevelWarn, FormatConsole, &buf)
	logger.Info("hidden")
	logger.Error("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	if got := ParseFormat(" Console "); got != FormatConsole {
		t.Fatalf("expected console, got %q", got)
	}
	if got := ParseFormat("whatever"); got != FormatJSON {
		t.Fatalf("expected json fallback, got %q", got)
	}
}
