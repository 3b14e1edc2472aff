package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bspgen/pkg/bsp"
	"github.com/matzehuels/bspgen/pkg/dungeon"
	"github.com/matzehuels/bspgen/pkg/grid"
	bspio "github.com/matzehuels/bspgen/pkg/io"
	"github.com/matzehuels/bspgen/pkg/pipeline"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to txt", "", []string{"txt"}},
		{"single format", "svg", []string{"svg"}},
		{"multiple formats", "svg,json,tree-svg", []string{"svg", "json", "tree-svg"}},
		{"spaces and empties", " txt, ,dot ", []string{"txt", "dot"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func newFlagCmd(f *generatorFlags, args ...string) *cobra.Command {
	cmd := &cobra.Command{Use: "x"}
	f.register(cmd)
	if err := cmd.ParseFlags(args); err != nil {
		panic(err)
	}
	return cmd
}

func TestGeneratorFlagsApplyOnlyChanged(t *testing.T) {
	var f generatorFlags
	cmd := newFlagCmd(&f, "--width", "100", "--depth", "3", "--balanced=false")

	cfg := bsp.DefaultConfig()
	cfg.RoomPadding = 2 // from a config file
	f.apply(cmd, &cfg)

	if cfg.Size != grid.Pt(100, bsp.DefaultConfig().Size.Y) {
		t.Errorf("size = %v", cfg.Size)
	}
	if cfg.Depth != 3 || cfg.IsBalanced {
		t.Errorf("depth/balanced not applied: %d %v", cfg.Depth, cfg.IsBalanced)
	}
	if cfg.RoomPadding != 2 {
		t.Errorf("unchanged flag overrode config: room padding = %d", cfg.RoomPadding)
	}
	if cfg.MaxAxisSize != 100 {
		t.Errorf("config not normalized: MaxAxisSize = %d", cfg.MaxAxisSize)
	}
}

func TestResolveSeed(t *testing.T) {
	var f generatorFlags
	configured := uint64(5)

	newFlagCmd(&f, "--seed", "0x10")
	if s, err := f.resolveSeed(&configured); err != nil || s != 16 {
		t.Errorf("flag seed = %d, %v", s, err)
	}

	f = generatorFlags{}
	if s, _ := f.resolveSeed(&configured); s != 5 {
		t.Errorf("configured seed = %d, want 5", s)
	}

	f = generatorFlags{seed: "nope"}
	if _, err := f.resolveSeed(nil); err == nil {
		t.Error("invalid seed accepted")
	}
}

func TestWriteResultStdout(t *testing.T) {
	res := &pipeline.Result{Seed: 1, Artifacts: map[string][]byte{"txt": []byte("..##..\n")}}
	var buf bytes.Buffer
	if err := writeResult(&buf, res, []string{"txt"}, "", false); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "..##..\n" {
		t.Errorf("stdout = %q", buf.String())
	}
}

func TestWriteResultFiles(t *testing.T) {
	dir := t.TempDir()
	res := &pipeline.Result{Seed: 9, Artifacts: map[string][]byte{
		"txt":      []byte("map"),
		"tree-svg": []byte("<svg/>"),
	}}
	base := filepath.Join(dir, "out", "cave")
	if err := writeResult(&bytes.Buffer{}, res, []string{"txt", "tree-svg"}, base, true); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"cave-9.txt", "cave-9.tree.svg"} {
		if _, err := os.Stat(filepath.Join(dir, "out", name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}

// cliRun holds what one command invocation wrote.
type cliRun struct {
	out, log bytes.Buffer
}

func execCLI(t *testing.T, level log.Level, args ...string) (*cliRun, error) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	var run cliRun
	c := New(&run.log, level)
	root := c.RootCommand()
	root.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.toml")}, args...))
	root.SetOut(&run.out)
	root.SetErr(&bytes.Buffer{})
	return &run, root.ExecuteContext(context.Background())
}

func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	_, err := execCLI(t, log.InfoLevel, args...)
	return err
}

func TestGenerateCommand(t *testing.T) {
	base := filepath.Join(t.TempDir(), "map")
	err := runCLI(t, "generate", "--seed", "3", "--width", "24", "--height", "16", "--depth", "2",
		"-f", "txt,json,dot", "-o", base)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	d, err := bspio.ImportJSON(base + ".json")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if d.Seed != 3 || d.Grid.Size() != grid.Pt(24, 16) {
		t.Errorf("snapshot seed %d size %v", d.Seed, d.Grid.Size())
	}
	dot, err := os.ReadFile(base + ".dot")
	if err != nil || !bytes.HasPrefix(dot, []byte("digraph bsp")) {
		t.Errorf("dot output: %v", err)
	}

	// Re-render the snapshot to SVG.
	if err := runCLI(t, "render", base+".json", "-f", "svg"); err != nil {
		t.Fatalf("render: %v", err)
	}
	if svg, err := os.ReadFile(base + ".svg"); err != nil || !bytes.HasPrefix(svg, []byte("<svg")) {
		t.Errorf("svg output: %v", err)
	}
}

func TestGenerateBatchCommand(t *testing.T) {
	base := filepath.Join(t.TempDir(), "batch")
	err := runCLI(t, "generate", "--seed", "10", "--count", "3", "--width", "24", "--height", "16",
		"-f", "txt", "-o", base, "--no-cache")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for _, seed := range []string{"10", "11", "12"} {
		if _, err := os.Stat(base + "-" + seed + ".txt"); err != nil {
			t.Errorf("missing output for seed %s", seed)
		}
	}
}

func TestGenerateRejectsBadInput(t *testing.T) {
	if err := runCLI(t, "generate", "-f", "gif"); err == nil {
		t.Error("bad format accepted")
	}
	if err := runCLI(t, "generate", "--count", "0"); err == nil {
		t.Error("zero count accepted")
	}
	if err := runCLI(t, "tree", "-f", "jpeg"); err == nil {
		t.Error("bad tree format accepted")
	}
}

func TestRootConfigErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("nonsense = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c := New(&bytes.Buffer{}, log.InfoLevel)
	root := c.RootCommand()
	root.SetArgs([]string{"--config", path, "cache", "path"})
	root.SetErr(&bytes.Buffer{})
	if err := root.Execute(); err == nil {
		t.Error("unknown config key accepted")
	}
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestViewModel(t *testing.T) {
	cfg := bsp.DefaultConfig()
	cfg.Size = grid.Pt(24, 16)
	cfg.Depth = 2
	m := newViewModel(cfg, 1, log.New(&bytes.Buffer{}))
	if m.err != nil || m.d == nil {
		t.Fatalf("initial generation: %v", m.err)
	}

	step := func(k string) viewModel {
		next, _ := m.Update(key(k))
		return next.(viewModel)
	}

	m = step("n")
	if m.seed != 2 || m.d.Seed != 2 {
		t.Errorf("next seed = %d", m.seed)
	}
	m = step("p")
	if m.seed != 1 {
		t.Errorf("previous seed = %d", m.seed)
	}
	m = step("+")
	if m.cfg.Depth != 3 {
		t.Errorf("depth = %d, want 3", m.cfg.Depth)
	}
	m = step("b")
	if m.cfg.IsBalanced {
		t.Error("balance not toggled")
	}
	m.random = func() uint64 { return 77 }
	m = step("r")
	if m.seed != 77 {
		t.Errorf("random seed = %d", m.seed)
	}

	if !strings.Contains(m.View(), "seed 77") {
		t.Errorf("view header missing seed:\n%s", m.View())
	}

	if _, cmd := m.Update(key("q")); cmd == nil {
		t.Error("q did not quit")
	}
}

func TestViewModelDepthBounds(t *testing.T) {
	cfg := bsp.DefaultConfig()
	cfg.Size = grid.Pt(16, 16)
	cfg.Depth = 0
	m := newViewModel(cfg, 1, log.New(&bytes.Buffer{}))

	next, _ := m.Update(key("-"))
	if next.(viewModel).cfg.Depth != 0 {
		t.Error("depth went below zero")
	}
}

func TestCompleteFormats(t *testing.T) {
	complete := completeFormats(pipeline.FormatNames())
	tests := []struct {
		input string
		want  []string
	}{
		{"tree-", []string{"tree-png", "tree-svg"}},
		{"svg,j", []string{"svg,json"}},
		{"svg,s", nil},
		{"txt,svg,p", []string{"txt,svg,pdf", "txt,svg,png"}},
	}
	for _, tt := range tests {
		got, _ := complete(nil, nil, tt.input)
		if strings.Join(got, " ") != strings.Join(tt.want, " ") {
			t.Errorf("complete(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestCompletionCommand(t *testing.T) {
	run, err := execCLI(t, log.InfoLevel, "completion", "bash")
	if err != nil {
		t.Fatalf("completion: %v", err)
	}
	if !strings.Contains(run.out.String(), appName) {
		t.Error("bash completion script does not mention the command")
	}
	if err := runCLI(t, "completion", "tcsh"); err == nil {
		t.Error("unknown shell accepted")
	}
}

func TestSummaryLine(t *testing.T) {
	fresh := &pipeline.Result{Seed: 4, Dungeon: &dungeon.Dungeon{Stats: dungeon.Stats{Rooms: 8, Corridors: 6, Skipped: 1}}}
	line := summaryLine(fresh)
	for _, want := range []string{"seed 4", "8 rooms", "6 corridors", "1 unjoined", "generated"} {
		if !strings.Contains(line, want) {
			t.Errorf("summary %q missing %q", line, want)
		}
	}

	cached := &pipeline.Result{Seed: 4, CacheInfo: pipeline.CacheInfo{RenderHit: true}}
	line = summaryLine(cached)
	if !strings.Contains(line, "cached") || strings.Contains(line, "rooms") {
		t.Errorf("cached summary = %q", line)
	}

	rerendered := &pipeline.Result{Seed: 4, Dungeon: &dungeon.Dungeon{}, CacheInfo: pipeline.CacheInfo{DungeonHit: true}}
	if line = summaryLine(rerendered); !strings.Contains(line, "re-rendered") || strings.Contains(line, "unjoined") {
		t.Errorf("re-rendered summary = %q", line)
	}
}
