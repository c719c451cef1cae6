package gc

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tinygo-org/mintrt/internal/frame"
	"github.com/tinygo-org/mintrt/trace"
)

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv(EnvConfig, "")
	t.Setenv(EnvHeapWords, "128")
	t.Setenv(EnvLog, "1")

	cfg := LoadConfig()
	if cfg.HeapWords != 128 {
		t.Errorf("heap words = %d, want 128", cfg.HeapWords)
	}
	if !cfg.Log {
		t.Error("log not enabled for " + EnvLog + "=1")
	}

	t.Setenv(EnvLog, "true")
	if LoadConfig().Log {
		t.Error("log enabled for a value other than \"1\"")
	}
}

func TestLoadConfigMissingHeapWords(t *testing.T) {
	interceptFatal(t)
	t.Setenv(EnvConfig, "")
	t.Setenv(EnvHeapWords, "")

	expectFatal(t, msgMissingHeapWords, func() {
		LoadConfig()
	})
}

func TestParseHeapWords(t *testing.T) {
	tests := map[string]uint64{
		"16":   16,
		"7":    7,
		"2048": 2048,
		"0":    0,
		" 16":  0,
		"16 ":  0,
		"-4":   0,
		"+4":   0,
		"0x10": 0,
		"12a":  0,
		"abc":  0,
	}
	for in, want := range tests {
		if got := parseHeapWords(in); got != want {
			t.Errorf("parseHeapWords(%q) = %d, want %d", in, got, want)
		}
	}
}

// An odd size from the environment must fail fatally before any heap exists.
func TestOddHeapWordsFromEnv(t *testing.T) {
	interceptFatal(t)
	t.Setenv(EnvConfig, "")
	t.Setenv(EnvHeapWords, "7")

	cfg := LoadConfig()
	stack := frame.NewBuilder(16)
	base := stack.PushFrame()
	expectFatal(t, msgBadHeapWords, func() {
		NewHeap(cfg, base, trace.NewWithWriter(false, io.Discard))
	})
}

// A malformed size reads as zero and is rejected with the same message.
func TestMalformedHeapWordsFromEnv(t *testing.T) {
	interceptFatal(t)
	t.Setenv(EnvConfig, "")
	t.Setenv(EnvHeapWords, "12 ")

	cfg := LoadConfig()
	if cfg.HeapWords != 0 {
		t.Fatalf("heap words = %d, want 0 for a malformed value", cfg.HeapWords)
	}
	stack := frame.NewBuilder(16)
	base := stack.PushFrame()
	expectFatal(t, msgBadHeapWords, func() {
		NewHeap(cfg, base, trace.NewWithWriter(false, io.Discard))
	})
}

func TestLoadConfigYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gc.yaml")
	if err := os.WriteFile(path, []byte("heap-words: 64\nlog: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvConfig, path)
	t.Setenv(EnvHeapWords, "999") // must be ignored when a file is configured

	cfg := LoadConfig()
	if cfg.HeapWords != 64 {
		t.Errorf("heap words = %d, want 64", cfg.HeapWords)
	}
	if !cfg.Log {
		t.Error("log not enabled from the config file")
	}
}

func TestLoadConfigUnreadableFileFatal(t *testing.T) {
	interceptFatal(t)
	t.Setenv(EnvConfig, filepath.Join(t.TempDir(), "nope.yaml"))

	defer func() {
		r := recover()
		fp, ok := r.(fatalPanic)
		if !ok {
			t.Fatalf("expected a fatal call, got %v", r)
		}
		if !strings.HasPrefix(fp.msg, "unable to read ") {
			t.Errorf("fatal message = %q, want an unable-to-read message", fp.msg)
		}
	}()
	LoadConfig()
}
