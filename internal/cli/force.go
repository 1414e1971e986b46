package cli

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/chartcore/pkg/layout"
	"github.com/matzehuels/chartcore/pkg/model"
	"github.com/matzehuels/chartcore/pkg/pipeline"
	"github.com/matzehuels/chartcore/pkg/snapshot"
)

const (
	defaultForceInterval = 60 * time.Millisecond
	defaultMaxPasses     = 2000
)

// forceCommand creates the force command stepping force layouts.
func (c *CLI) forceCommand() *cobra.Command {
	var (
		flags     layoutFlags
		interval  time.Duration
		maxPasses int
		noTUI     bool
	)

	cmd := &cobra.Command{
		Use:   "force [option]",
		Short: "Step the force layout of graph series",
		Long: `Step the force layout of graph series.

Every frame runs one layout pass that continues the simulation of the
previous one, advancing it by --force-steps steps, and draws the nodes and
edges in the terminal. Keys: space pauses, n steps once while paused, r
restarts, q quits. With --no-tui the passes run until the simulation
stops and the final frame is printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, format, err := readOption(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			opts := flags.opts
			opts.Document, opts.Format, opts.Logger = doc, format, c.Logger
			if opts.ForceSteps == 0 {
				opts.ForceSteps = 1
			}
			if noTUI {
				return c.runForceBatch(cmd.Context(), opts, maxPasses)
			}
			m := newForceModel(cmd.Context(), opts, interval)
			final, err := tea.NewProgram(m, tea.WithContext(cmd.Context()), tea.WithAltScreen()).Run()
			if err != nil {
				return err
			}
			if fm, ok := final.(forceModel); ok && fm.err != nil {
				return fm.err
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().DurationVar(&interval, "interval", defaultForceInterval, "time between frames")
	cmd.Flags().IntVar(&maxPasses, "max-passes", defaultMaxPasses, "passes run at most with --no-tui")
	cmd.Flags().BoolVar(&noTUI, "no-tui", false, "run without the interactive viewer")

	return cmd
}

// runForceBatch runs passes until every simulation stopped.
func (c *CLI) runForceBatch(ctx context.Context, opts pipeline.Options, maxPasses int) error {
	prog := newProgress(c.Logger)
	var last *pipeline.PassResult
	for i := 0; i < max(maxPasses, 1); i++ {
		res, err := pipeline.Pass(ctx, opts)
		if err != nil {
			return err
		}
		last, opts.Previous = res, res.Global
		if st := forceStatusOf(res.Global); !st.found || st.stopped {
			break
		}
	}
	st := forceStatusOf(last.Global)
	if !st.found {
		c.printWarning("no series uses a force layout")
	}
	prog.done("force layout finished", "steps", st.steps, "stopped", st.stopped)
	fmt.Fprintln(c.Out, strings.Join(drawGraph(last.Layout, 72, 24), "\n"))
	c.printStats(len(last.Layout.Series), nodeCount(last.Layout), false)
	return nil
}

// forceStatus summarizes the simulations of a Global.
type forceStatus struct {
	found   bool
	steps   int
	stopped bool
}

func forceStatusOf(g *model.Global) forceStatus {
	st := forceStatus{stopped: true}
	g.EachSeries(func(s *model.SeriesModel) {
		fs, ok := s.State.(*layout.ForceState)
		if !ok || fs.Simulation == nil {
			return
		}
		st.found = true
		st.steps = max(st.steps, fs.Simulation.Steps())
		st.stopped = st.stopped && fs.Simulation.Stopped()
	})
	if !st.found {
		st.stopped = false
	}
	return st
}

func nodeCount(l snapshot.Layout) int {
	n := 0
	for _, s := range l.Series {
		if s.Graph != nil {
			n += len(s.Graph.Nodes)
		}
	}
	return n
}

// =============================================================================
// Viewer
// =============================================================================

type (
	forceTickMsg struct{}
	forcePassMsg struct {
		res *pipeline.PassResult
		err error
	}
)

// forceModel is the bubbletea model of the force viewer.
type forceModel struct {
	ctx      context.Context
	opts     pipeline.Options
	interval time.Duration

	result  *pipeline.PassResult
	status  forceStatus
	paused  bool
	running bool
	err     error
	cols    int
	rows    int
}

func newForceModel(ctx context.Context, opts pipeline.Options, interval time.Duration) forceModel {
	return forceModel{ctx: ctx, opts: opts, interval: interval, cols: 80, rows: 24}
}

func (m forceModel) Init() tea.Cmd {
	return m.pass()
}

func (m forceModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(time.Time) tea.Msg { return forceTickMsg{} })
}

// pass runs the next layout pass off the update loop.
func (m forceModel) pass() tea.Cmd {
	opts := m.opts
	if m.result != nil {
		opts.Previous = m.result.Global
	}
	ctx := m.ctx
	return func() tea.Msg {
		res, err := pipeline.Pass(ctx, opts)
		return forcePassMsg{res: res, err: err}
	}
}

func (m forceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
			if !m.paused && !m.running {
				m.running = true
				return m, m.pass()
			}
		case "n":
			if m.paused && !m.running {
				m.running = true
				return m, m.pass()
			}
		case "r":
			m.result, m.status = nil, forceStatus{}
			if !m.running {
				m.running = true
				return m, m.pass()
			}
		}
	case tea.WindowSizeMsg:
		m.cols = max(msg.Width-2, 10)
		m.rows = max(msg.Height-5, 5)
	case forceTickMsg:
		if m.paused || m.running || m.status.stopped {
			return m, nil
		}
		m.running = true
		return m, m.pass()
	case forcePassMsg:
		m.running = false
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.result = msg.res
		m.status = forceStatusOf(msg.res.Global)
		if !m.status.found {
			m.err = fmt.Errorf("no series uses a force layout")
			return m, tea.Quit
		}
		if !m.paused && !m.status.stopped {
			return m, m.tick()
		}
	}
	return m, nil
}

func (m forceModel) View() string {
	var b strings.Builder
	state := "running"
	switch {
	case m.status.stopped:
		state = StyleSuccess.Render("stopped")
	case m.paused:
		state = StyleWarning.Render("paused")
	}
	b.WriteString(StyleTitle.Render("Force layout"))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  step %d  ", m.status.steps)))
	b.WriteString(state)
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("space pause  n step  r restart  q quit"))
	b.WriteString("\n\n")
	if m.result != nil {
		b.WriteString(lipgloss.NewStyle().Foreground(colorCyan).Render(
			strings.Join(drawGraph(m.result.Layout, m.cols, m.rows), "\n")))
	}
	return b.String()
}

// =============================================================================
// Canvas
// =============================================================================

// drawGraph draws the graph series of l on a character grid: nodes as
// 'o', edges as dots.
func drawGraph(l snapshot.Layout, cols, rows int) []string {
	grid := make([][]rune, rows)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", cols))
	}
	cell := func(x, y float64) (int, int, bool) {
		if l.Width <= 0 || l.Height <= 0 || math.IsNaN(x) || math.IsNaN(y) {
			return 0, 0, false
		}
		c := int(x / l.Width * float64(cols))
		r := int(y / l.Height * float64(rows))
		return c, r, c >= 0 && c < cols && r >= 0 && r < rows
	}

	for _, s := range l.Series {
		if s.Graph == nil {
			continue
		}
		pos := make(map[string][2]float64, len(s.Graph.Nodes))
		for _, n := range s.Graph.Nodes {
			if n.Placed() {
				pos[n.ID] = [2]float64{float64(n.X), float64(n.Y)}
			}
		}
		for _, e := range s.Graph.Edges {
			a, okA := pos[e.Source]
			b, okB := pos[e.Target]
			if !okA || !okB {
				continue
			}
			const samples = 64
			for i := 1; i < samples; i++ {
				t := float64(i) / samples
				if c, r, ok := cell(a[0]+(b[0]-a[0])*t, a[1]+(b[1]-a[1])*t); ok {
					grid[r][c] = '·'
				}
			}
		}
		for _, p := range pos {
			if c, r, ok := cell(p[0], p[1]); ok {
				grid[r][c] = 'o'
			}
		}
	}

	out := make([]string, rows)
	for i, row := range grid {
		out[i] = strings.TrimRight(string(row), " ")
	}
	return out
}
