package log

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	defer SetSink(os.Stdout)
	SetLevel(Warning)
	defer SetLevel(Notice)

	logger := New("test")
	logger.Info("hidden message")
	logger.Warning("visible message")

	out := buf.String()
	if strings.Contains(out, "hidden message") {
		t.Fatalf("expected info message to be filtered; got %q", out)
	}
	if !strings.Contains(out, "visible message") || !strings.Contains(out, "[test]") {
		t.Fatalf("expected warning message with module name; got %q", out)
	}
}

func TestFileSink(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "render.log")

	var buf bytes.Buffer
	SetSink(&buf)
	defer SetSink(os.Stdout)
	SetFileSink(FileConfig{Path: logFile, MaxSizeMB: 1})
	defer SetFileSink(FileConfig{})

	New("file-test").Noticef("frame %d done", 7)
	if err := Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "frame 7 done") {
		t.Fatalf("expected log file to contain message; got %q", string(data))
	}
	if strings.Contains(string(data), "\033[") {
		t.Fatalf("expected log file output to be uncolored; got %q", string(data))
	}
	if !strings.Contains(buf.String(), "frame 7 done") {
		t.Fatalf("expected console sink to also receive message; got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	type spec struct {
		in  string
		exp Level
	}
	specs := []spec{
		{"debug", Debug},
		{"INFO", Info},
		{"notice", Notice},
		{"warning", Warning},
		{"error", Error},
	}
	for index, s := range specs {
		got, err := ParseLevel(s.in)
		if err != nil {
			t.Fatalf("[spec %d] unexpected error: %v", index, err)
		}
		if got != s.exp {
			t.Fatalf("[spec %d] expected level %d; got %d", index, s.exp, got)
		}
	}

	if _, err := ParseLevel("chatty"); err == nil {
		t.Fatal("expected an error for an unknown level")
	}
}
