package obslog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		" WARN ":  zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestInitWritesFile(t *testing.T) {
	t.Cleanup(func() { Set(nil) })

	path := filepath.Join(t.TempDir(), "logs", "server.log")
	if err := Init(Options{Level: "debug", Format: "json", File: path}); err != nil {
		t.Fatal(err)
	}
	L().Info("move played", zap.String("game_id", "g1"))
	_ = L().Sync()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), `"msg":"move played"`) || !strings.Contains(string(raw), `"game_id":"g1"`) {
		t.Errorf("log file = %s", raw)
	}
}

func TestSetNilRestoresNop(t *testing.T) {
	Set(nil)
	if L() == nil {
		t.Fatal("nil logger")
	}
	L().Info("dropped")
}
