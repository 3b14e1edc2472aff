package dungeon

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/bspgen/pkg/bsp"
	"github.com/matzehuels/bspgen/pkg/errors"
	"github.com/matzehuels/bspgen/pkg/grid"
	"github.com/matzehuels/bspgen/pkg/observability"
)

type midRand struct{}

func (midRand) Float64() float64 { return 0.5 }
func (midRand) IntN(n int) int   { return n / 2 }

func smallConfig() bsp.Config {
	return bsp.Config{
		Size:            grid.Pt(16, 16),
		Depth:           1,
		RatioSpread:     0.4,
		NodeMinSize:     grid.Pt(4, 4),
		IsBalanced:      true,
		RoomSizeRatio:   bsp.Range{Min: 0.6, Max: 0.9},
		RoomPadding:     1,
		CorridorSize:    2,
		CorridorPadding: 1,
	}
}

func TestGenerateMidpoint(t *testing.T) {
	d, err := Generate(smallConfig(), 9, WithRand(midRand{}))
	require.NoError(t, err)

	require.Equal(t, uint64(9), d.Seed)
	require.Len(t, d.Rooms, 2)
	require.Len(t, d.Corridors, 1)
	require.Empty(t, d.Skipped)
	require.Equal(t, Stats{
		Nodes:         3,
		Leaves:        2,
		Height:        1,
		Rooms:         2,
		Corridors:     1,
		Aligned:       1,
		RoomCells:     80,
		CorridorCells: 8,
		Partition:     d.Stats.Partition,
		Placement:     d.Stats.Placement,
		Routing:       d.Stats.Routing,
	}, d.Stats)
	require.InDelta(t, 0.3, d.Config.MinRatio, 1e-9)

	conn := d.Connectivity()
	require.True(t, conn.Connected())
	require.Equal(t, [][]bsp.RoomID{{0, 1}}, conn.Components)
}

func TestGenerateDeterministic(t *testing.T) {
	cfg := bsp.DefaultConfig()
	a, err := Generate(cfg, 1234)
	require.NoError(t, err)
	b, err := Generate(cfg, 1234)
	require.NoError(t, err)

	require.Equal(t, a.Tree, b.Tree)
	require.Equal(t, a.Rooms, b.Rooms)
	require.Equal(t, a.Corridors, b.Corridors)
	require.Equal(t, a.Skipped, b.Skipped)
	require.Equal(t, a.Grid, b.Grid)

	c, err := Generate(cfg, 1235)
	require.NoError(t, err)
	require.NotEqual(t, a.Grid, c.Grid)
}

func TestGenerateDepthZero(t *testing.T) {
	cfg := bsp.DefaultConfig()
	cfg.Depth = 0
	d, err := Generate(cfg, 5)
	require.NoError(t, err)
	require.Len(t, d.Rooms, 1)
	require.Empty(t, d.Corridors)
	require.True(t, d.Connectivity().Connected())
}

func TestGenerateNormalizesCopy(t *testing.T) {
	cfg := smallConfig()
	cfg.CorridorSize = 99
	_, err := Generate(cfg, 1)
	require.NoError(t, err)
	require.Equal(t, 99, cfg.CorridorSize)
}

func TestGenerateRejectsHugeMaps(t *testing.T) {
	cfg := bsp.DefaultConfig()
	cfg.Size = grid.Pt(MaxSide+1, 10)
	_, err := Generate(cfg, 1)
	require.True(t, errors.Is(err, errors.ErrCodeInvalidConfig), "got %v", err)
}

func TestGenerateRejectsDeepPartitions(t *testing.T) {
	cfg := bsp.DefaultConfig()
	cfg.Size = grid.Pt(MaxSide, MaxSide)
	cfg.Depth = 20
	cfg.NodeMinSize = grid.Pt(1, 1)

	start := time.Now()
	_, err := Generate(cfg, 1)
	require.True(t, errors.Is(err, errors.ErrCodeInvalidConfig), "got %v", err)
	require.Less(t, time.Since(start), time.Second)

	cfg.NodeMinSize = grid.Pt(64, 64)
	require.NoError(t, CheckLimits(cfg))
}

func TestGenerateCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := GenerateContext(ctx, bsp.DefaultConfig(), 1)
	require.True(t, errors.Is(err, errors.ErrCodeCanceled))

	expired, stop := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer stop()
	_, err = GenerateContext(expired, bsp.DefaultConfig(), 1)
	require.True(t, errors.Is(err, errors.ErrCodeTimeout), "got %v", err)
}

func TestGenerateWarnsOnTightMinSize(t *testing.T) {
	var buf bytes.Buffer
	cfg := smallConfig()
	cfg.NodeMinSize = grid.Pt(2, 2)

	d, err := Generate(cfg, 3, WithLogger(log.New(&buf)))
	require.NoError(t, err)
	require.Len(t, d.Warnings, 1)
	require.Contains(t, buf.String(), "node_min_size")
}

func TestGenerateDebugLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

	_, err := Generate(smallConfig(), 3, WithLogger(logger), WithDebug(true), WithRand(midRand{}))
	require.NoError(t, err)
	require.Contains(t, buf.String(), "generated")
	require.Contains(t, buf.String(), "seed=3")
}

type recordingHooks struct {
	observability.NoopGenerateHooks
	mu     sync.Mutex
	stages []string
	rooms  int
	err    error
}

func (h *recordingHooks) OnStage(_ context.Context, stage string, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stages = append(h.stages, stage)
}

func (h *recordingHooks) OnGenerateComplete(_ context.Context, _ uint64, rooms, _ int, _ time.Duration, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rooms = rooms
	h.err = err
}

func TestGenerateReportsHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetGenerateHooks(hooks)
	t.Cleanup(observability.Reset)

	_, err := Generate(smallConfig(), 1, WithRand(midRand{}))
	require.NoError(t, err)
	require.Equal(t, []string{"partition", "rooms", "corridors"}, hooks.stages)
	require.Equal(t, 2, hooks.rooms)
	require.NoError(t, hooks.err)
}

func TestConnectivitySplit(t *testing.T) {
	g := grid.New(grid.Pt(12, 4))
	rooms := []bsp.Room{
		{ID: 0, Start: grid.Pt(0, 0), End: grid.Pt(2, 2)},
		{ID: 1, Start: grid.Pt(8, 0), End: grid.Pt(10, 2)},
		{ID: 2, Start: grid.Pt(4, 0), End: grid.Pt(5, 1)},
	}
	for _, r := range rooms {
		g.FillRectangle(grid.Room, r.Start, r.End)
	}
	// Corridor joins rooms 1 and 2 only.
	g.FillRectangle(grid.Corridor, grid.Pt(6, 1), grid.Pt(7, 1))

	d := &Dungeon{Rooms: rooms, Grid: g}
	conn := d.Connectivity()
	require.False(t, conn.Connected())
	require.Equal(t, [][]bsp.RoomID{{0}, {1, 2}}, conn.Components)
}

func TestConnectivityDefaultSeeds(t *testing.T) {
	for seed := range uint64(10) {
		d, err := Generate(bsp.DefaultConfig(), seed)
		require.NoError(t, err)
		conn := d.Connectivity()

		total := 0
		for _, c := range conn.Components {
			total += len(c)
		}
		require.Equal(t, len(d.Rooms), total, "seed %d", seed)
		require.Equal(t, conn.Components[0][0], bsp.RoomID(0))
	}
}
