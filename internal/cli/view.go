package cli

import (
	"fmt"
	"io"
	"math/rand/v2"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bspgen/pkg/bsp"
	"github.com/matzehuels/bspgen/pkg/dungeon"
	"github.com/matzehuels/bspgen/pkg/render/text"
)

// viewCommand opens the interactive map viewer.
func (c *CLI) viewCommand() *cobra.Command {
	var gen generatorFlags

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Browse dungeons interactively",
		Long: `Browse generated maps in the terminal.

Keys: n/→ next seed, p/← previous seed, r random seed, +/- depth,
b toggle balanced splits, q quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.cfg().Generator
			gen.apply(cmd, &cfg)
			seed, err := gen.resolveSeed(c.cfg().Seed)
			if err != nil {
				return err
			}

			// The viewer owns the terminal; keep library logs quiet.
			m := newViewModel(cfg, seed, log.New(io.Discard))
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	gen.register(cmd)
	return cmd
}

// viewModel is the bubbletea model of the map viewer.
type viewModel struct {
	cfg    bsp.Config
	seed   uint64
	d      *dungeon.Dungeon
	err    error
	logger *log.Logger
	random func() uint64
}

func newViewModel(cfg bsp.Config, seed uint64, logger *log.Logger) viewModel {
	m := viewModel{cfg: cfg, seed: seed, logger: logger, random: rand.Uint64}
	m.regenerate()
	return m
}

func (m *viewModel) regenerate() {
	m.cfg.Normalize()
	m.d, m.err = dungeon.Generate(m.cfg, m.seed, dungeon.WithLogger(m.logger))
}

func (m viewModel) Init() tea.Cmd {
	return nil
}

func (m viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "n", "right":
		m.seed++
	case "p", "left":
		m.seed--
	case "r":
		m.seed = m.random()
	case "+", "=":
		if m.cfg.Depth >= bsp.MaxDepth {
			return m, nil
		}
		m.cfg.Depth++
	case "-":
		if m.cfg.Depth == 0 {
			return m, nil
		}
		m.cfg.Depth--
	case "b":
		m.cfg.IsBalanced = !m.cfg.IsBalanced
	default:
		return m, nil
	}
	m.regenerate()
	return m, nil
}

func (m viewModel) View() string {
	var b strings.Builder

	split := "alternating"
	if m.cfg.IsBalanced {
		split = "balanced"
	}
	b.WriteString(StyleTitle.Render(appName))
	b.WriteString("  ")
	b.WriteString(StyleDim.Render(fmt.Sprintf("seed %d · %dx%d · depth %d · %s",
		m.seed, m.cfg.Size.X, m.cfg.Size.Y, m.cfg.Depth, split)))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(StyleWarning.Render(m.err.Error()))
	} else {
		b.WriteString(text.Render(m.d.Grid, text.Options{Border: true, Color: true}))
		b.WriteString("\n")
		s := m.d.Stats
		stats := fmt.Sprintf("%d rooms · %d corridors", s.Rooms, s.Corridors)
		if s.Skipped > 0 {
			stats += StyleWarning.Render(fmt.Sprintf(" · %d unjoined", s.Skipped))
		}
		b.WriteString(StyleDim.Render(stats))
	}

	b.WriteString("\n")
	b.WriteString(StyleDim.Render("n/p seed  r random  +/- depth  b balance  q quit"))
	b.WriteString("\n")
	return b.String()
}
