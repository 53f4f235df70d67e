package viz

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/solarsim/internal/capture"
	"github.com/san-kum/solarsim/internal/export"
	"github.com/san-kum/solarsim/internal/orrery"
	"github.com/san-kum/solarsim/internal/raster"
	"github.com/san-kum/solarsim/internal/scene"
)

const (
	defaultCols     = 80
	defaultRows     = 24
	statsWidth      = 44
	historyCapacity = 240
	ringSamples     = 96
)

type TickMsg time.Time

// Options configure the terminal model. ShotWidth and ShotHeight size the
// off-screen screenshot render and default to the system viewport.
type Options struct {
	FPS                   int
	OutputDir             string
	ShotWidth, ShotHeight int
	Theme                 string
	Logger                log.Logger
}

// Model drives one system from terminal events.
type Model struct {
	sys    *orrery.System
	graph  *scene.Graph
	canvas *Canvas
	opts   Options
	logger log.Logger

	theme    int
	styles   styles
	selected int
	running  bool
	showHelp bool
	history  []float64
	status   string
	lastShot string
}

func NewModel(sys *orrery.System, graph *scene.Graph, opts Options) *Model {
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.ShotWidth <= 0 || opts.ShotHeight <= 0 {
		vp := sys.Viewport()
		opts.ShotWidth, opts.ShotHeight = vp.Width, vp.Height
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}

	m := &Model{
		sys:     sys,
		graph:   graph,
		canvas:  NewCanvas(defaultCols-statsWidth, defaultRows),
		opts:    opts,
		logger:  log.With(logger, "component", "tui"),
		running: true,
		history: make([]float64, 0, historyCapacity),
	}
	for i, name := range ThemeNames() {
		if name == opts.Theme {
			m.theme = i
		}
	}
	m.styles = newStyles(Themes[m.theme])
	sys.AttachSurface(m.screenshot)
	return m
}

func (m *Model) Init() tea.Cmd {
	return m.tick()
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.opts.FPS), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "tab":
			m.cycle(1)
		case "shift+tab":
			m.cycle(-1)
		case "up", "k":
			m.nudge(1)
		case "down", "j":
			m.nudge(-1)
		case "r":
			m.dispatch(orrery.ResetSpeeds{})
			m.status = "speeds reset"
		case "s":
			if m.dispatch(orrery.Screenshot{}) {
				m.status = "saved " + m.lastShot
			}
		case "v":
			if path, err := m.exportCanvas(); err != nil {
				level.Error(m.logger).Log("msg", "svg export failed", "err", err)
				m.status = err.Error()
			} else {
				m.status = "saved " + path
			}
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
			m.styles = newStyles(Themes[m.theme])
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case TickMsg:
		if m.running {
			m.sys.Advance(1)
			m.record()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) dispatch(cmd orrery.Command) bool {
	if err := m.sys.Dispatch(cmd); err != nil {
		level.Error(m.logger).Log("msg", "command failed", "command", fmt.Sprintf("%T", cmd), "err", err)
		m.status = err.Error()
		return false
	}
	return true
}

func (m *Model) cycle(dir int) {
	n := len(orrery.Descriptors)
	m.selected = ((m.selected+dir)%n + n) % n
	m.history = m.history[:0]
}

func (m *Model) nudge(steps int) {
	p := m.sys.Planets()[m.selected]
	m.dispatch(orrery.SetSpeed{Planet: p.Name, Value: orrery.Snap(p.Speed + float64(steps)*orrery.SpeedStep)})
}

// resize fits the canvas beside the stats panel. The viewport is sized in
// braille dots, which are close to square on common terminal fonts.
func (m *Model) resize(width, height int) {
	cols, rows := width-statsWidth, height-1
	if cols < 1 || rows < 1 {
		m.status = "terminal too small"
		return
	}
	c := NewCanvas(cols, rows)
	w, h := c.Dots()
	if !m.dispatch(orrery.Resize{Width: w, Height: h}) {
		return
	}
	m.canvas = c
}

func (m *Model) record() {
	pos := m.sys.Planets()[m.selected].Position()
	m.history = append(m.history, pos.X)
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
}

func (m *Model) screenshot() error {
	m.graph.Sync(m.sys)
	img := raster.New(m.opts.ShotWidth, m.opts.ShotHeight).Render(m.graph)
	path, err := capture.Save(img, m.opts.OutputDir)
	if err != nil {
		return err
	}
	m.lastShot = path
	level.Info(m.logger).Log("msg", "screenshot saved", "path", path)
	return nil
}

// exportCanvas writes the current braille frame as SVG next to the
// screenshots.
func (m *Model) exportCanvas() (string, error) {
	m.draw()
	svg := export.BrailleToSVG(m.canvas.Grid, 4, string(Themes[m.theme].Sky))
	if err := os.MkdirAll(m.opts.OutputDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(m.opts.OutputDir, export.FileName)
	if err := os.WriteFile(path, []byte(svg), 0o644); err != nil {
		return "", err
	}
	level.Info(m.logger).Log("msg", "canvas exported", "path", path)
	return path, nil
}

// draw renders the graph onto the canvas.
func (m *Model) draw() {
	m.graph.Sync(m.sys)
	m.canvas.Clear()
	w, h := m.canvas.Dots()
	proj := raster.NewProjector(m.graph.Camera, w, h)

	for _, n := range m.graph.Nodes() {
		switch n.Kind {
		case scene.KindPoints:
			for i := 0; i+2 < len(n.Points); i += 3 {
				p := orrery.Vec3{X: float64(n.Points[i]), Y: float64(n.Points[i+1]), Z: float64(n.Points[i+2])}
				if x, y, _, ok := proj.Project(p); ok {
					m.canvas.Set(int(x), int(y))
				}
			}
		case scene.KindRing:
			m.drawRing(proj, n, (n.Inner+n.Outer)/2)
			if n.Owner != "" {
				m.drawRing(proj, n, n.Inner)
				m.drawRing(proj, n, n.Outer)
			}
		case scene.KindMesh:
			if x, y, depth, ok := proj.Project(n.Position); ok {
				m.canvas.FillCircle(x, y, proj.PixelRadius(n.Radius, depth))
			}
		}
	}
}

func (m *Model) drawRing(proj raster.Projector, n *scene.Node, r float64) {
	var px, py int
	have := false
	for i := 0; i <= ringSamples; i++ {
		theta := 2 * math.Pi * float64(i) / ringSamples
		x, y, _, ok := proj.Project(n.RingPoint(r, theta))
		if !ok {
			have = false
			continue
		}
		if have {
			m.canvas.DrawLine(px, py, int(x), int(y))
		}
		px, py, have = int(x), int(y), true
	}
}

func (m *Model) View() string {
	m.draw()
	st := m.styles

	var s strings.Builder
	s.WriteString(st.header.Render("SOLAR SYSTEM") + "\n")
	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	s.WriteString(st.value.Render(status) + "\n\n")

	cam := m.sys.Camera()
	s.WriteString(st.label.Render("Tick") + st.value.Render(fmt.Sprintf("%d", m.sys.Ticks())) + "\n")
	s.WriteString(st.label.Render("Camera") + st.value.Render(fmt.Sprintf("%.1f° @ %.0f", math.Mod(cam.Angle*180/math.Pi, 360), cam.Distance)) + "\n")
	vp := m.sys.Viewport()
	s.WriteString(st.label.Render("Viewport") + st.value.Render(fmt.Sprintf("%dx%d", vp.Width, vp.Height)) + "\n")

	selected := m.sys.Planets()[m.selected]
	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history, asciigraph.Height(4), asciigraph.Width(28), asciigraph.Caption(selected.Name+" x"))
		s.WriteString(st.graph.Render(chart) + "\n")
	}

	s.WriteString("\nCONTROLS\n")
	for i, sl := range m.sys.Sliders() {
		line := fmt.Sprintf("%-14s %s %.3f", sl.Label, bar(sl.Fraction(), 10), sl.Value)
		if i == m.selected {
			s.WriteString(st.active.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + st.value.Render(line) + "\n")
		}
	}
	s.WriteString(st.hint.Render("  [R] Reset Speeds") + "\n")
	s.WriteString(st.hint.Render("  [S] 📸 Take Screenshot") + "\n")
	if m.status != "" {
		s.WriteString(st.warning.Render(m.status) + "\n")
	}
	s.WriteString(st.help.Render("SP:Pause  Tab:Select  ↑↓:Speed\nT:Theme   ?:Help      Q:Quit"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, st.canvas.Render(m.canvas.String()), st.stats.Render(s.String()))
	if m.showHelp {
		return helpText + "\n" + mainView
	}
	return mainView
}

func bar(fraction float64, width int) string {
	filled := int(math.Round(fraction * float64(width)))
	filled = max(0, min(width, filled))
	return "[" + strings.Repeat("=", filled) + strings.Repeat("-", width-filled) + "]"
}

// Selected is the planet the arrow keys adjust.
func (m *Model) Selected() string { return m.sys.Planets()[m.selected].Name }

func (m *Model) Running() bool { return m.running }

// Status is the last message shown under the controls.
func (m *Model) Status() string { return m.status }

// Run takes over the terminal until the user quits.
func Run(m *Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Tab      - Select next planet       ║
║  Up/K     - Speed +0.001             ║
║  Down/J   - Speed -0.001             ║
║  R        - Reset speeds             ║
║  S        - Take screenshot          ║
║  V        - Export canvas as SVG     ║
║  Space    - Pause/Resume             ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`
