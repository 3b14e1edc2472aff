package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bspgen/pkg/dungeon"
	"github.com/matzehuels/bspgen/pkg/pipeline"
)

func TestGenerateLogsThroughCLILogger(t *testing.T) {
	tests := []struct {
		name      string
		level     log.Level
		wantStage bool
	}{
		{"info hides generator stages", log.InfoLevel, false},
		{"debug shows generator stages", log.DebugLevel, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "map")
			run, err := execCLI(t, tt.level, "generate", "--seed", "3", "--width", "24", "--height", "16",
				"--depth", "2", "--no-cache", "-o", out)
			if err != nil {
				t.Fatalf("generate: %v", err)
			}

			logs := run.log.String()
			if !strings.Contains(logs, "generated dungeon") {
				t.Errorf("pipeline log missing:\n%s", logs)
			}
			if got := strings.Contains(logs, "partitioned"); got != tt.wantStage {
				t.Errorf("partition stage logged = %v, want %v:\n%s", got, tt.wantStage, logs)
			}
		})
	}
}

func TestBatchLogsSummary(t *testing.T) {
	out := filepath.Join(t.TempDir(), "batch")
	run, err := execCLI(t, log.InfoLevel, "generate", "--seed", "5", "--count", "2", "--width", "24",
		"--height", "16", "--depth", "2", "--no-cache", "-o", out)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	logs := run.log.String()
	for _, want := range []string{"batch generated", "seeds", "elapsed"} {
		if !strings.Contains(logs, want) {
			t.Errorf("log missing %q:\n%s", want, logs)
		}
	}
	if got := strings.Count(run.out.String(), "seed "); got != 2 {
		t.Errorf("summaries = %d, want 2:\n%s", got, run.out.String())
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	prog.done("snapshot loaded", "seed", 42)

	line := buf.String()
	for _, want := range []string{"snapshot loaded", "seed", "42", "elapsed"} {
		if !strings.Contains(line, want) {
			t.Errorf("progress line missing %q: %q", want, line)
		}
	}
}

func TestBatchFields(t *testing.T) {
	results := []*pipeline.Result{
		{Seed: 1, Dungeon: &dungeon.Dungeon{Stats: dungeon.Stats{Rooms: 4}}},
		{Seed: 2, Dungeon: &dungeon.Dungeon{Stats: dungeon.Stats{Rooms: 6}}},
		{Seed: 3, CacheInfo: pipeline.CacheInfo{RenderHit: true}},
	}
	got := batchFields(results)
	want := []any{"seeds", 3, "rooms", 10, "cached", 1}
	if len(got) != len(want) {
		t.Fatalf("batchFields() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("batchFields()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("empty context should fall back to log.Default()")
	}

	custom := newLogger(&bytes.Buffer{}, log.DebugLevel)
	if loggerFromContext(withLogger(context.Background(), custom)) != custom {
		t.Error("attached logger not returned")
	}
}
