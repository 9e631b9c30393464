package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("writes to output at configured level", func(t *testing.T) {
		var buf bytes.Buffer
		l, err := New(Options{Level: "warn", Output: &buf, Prefix: "todosync"})
		if err != nil {
			t.Fatalf("new: %v", err)
		}
		l.Info("hidden")
		l.Warn("shown", "op", "load")
		out := buf.String()
		if strings.Contains(out, "hidden") {
			t.Errorf("info should be filtered at warn level: %q", out)
		}
		if !strings.Contains(out, "shown") || !strings.Contains(out, "op=load") || !strings.Contains(out, "todosync") {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("bad level", func(t *testing.T) {
		if _, err := New(Options{Level: "loud"}); err == nil {
			t.Fatal("expected error for unknown level")
		}
	})

	t.Run("file output appends", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "todosync.log")
		for i := 0; i < 2; i++ {
			l, err := New(Options{File: path})
			if err != nil {
				t.Fatalf("new: %v", err)
			}
			l.Error("request failed")
			if err := l.Close(); err != nil {
				t.Fatalf("close: %v", err)
			}
		}
		b, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read log: %v", err)
		}
		if n := strings.Count(string(b), "request failed"); n != 2 {
			t.Fatalf("got %d lines, want 2: %q", n, b)
		}
	})
}

func TestDiscardAndNilClose(t *testing.T) {
	Discard().Error("dropped")
	var l *Logger
	if err := l.Close(); err != nil {
		t.Fatalf("nil close: %v", err)
	}
}
