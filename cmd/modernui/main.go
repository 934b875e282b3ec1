package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/CK6170/sensorcal-go/chart"
	"github.com/CK6170/sensorcal-go/modern"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type screen int

const (
	screenEntry screen = iota
	screenGrid
	screenZoom
)

const (
	headerRows = 3
	footerRows = 7
)

type model struct {
	scr screen

	configInput textinput.Model
	spin        spinner.Model
	help        help.Model

	sess     *modern.Session
	result   *modern.Result
	panels   []modern.Panel
	stages   []modern.StageUpdate
	running  bool
	lastErr  error
	infoLine string

	focus int
	grid  bool

	width, height int

	runCancel context.CancelFunc
	runID     int
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

func initialModel(args []string) model {
	in := textinput.New()
	in.Placeholder = "Path to calibration.json (empty for sensor_0..2.csv here)"
	in.Focus()
	in.CharLimit = 512
	in.Width = 60

	m := model{
		scr:         screenEntry,
		configInput: in,
		spin:        spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:        help.New(),
		grid:        true,
		width:       120,
		height:      40,
	}
	// support passing config path as arg
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		m.configInput.SetValue(args[0])
		m.configInput.CursorEnd()
	}
	return m
}

type errMsg struct{ err error }

type openedMsg struct {
	sess *modern.Session
}

type stageMsg struct {
	runID int
	u     modern.StageUpdate
	ch    <-chan modern.StageUpdate
}

type runDoneMsg struct {
	runID int
	res   *modern.Result
	err   error
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancelRun()
			return m, tea.Quit
		}
		switch m.scr {
		case screenEntry:
			return m.updateEntryKey(msg)
		default:
			return m.updateViewerKey(msg)
		}

	case errMsg:
		m.lastErr = msg.err
		return m, nil

	case openedMsg:
		m.sess = msg.sess
		m.lastErr = nil
		m.scr = screenGrid
		return m.startRun()

	case stageMsg:
		if msg.runID != m.runID {
			return m, nil
		}
		m.stages = append(m.stages, msg.u)
		m.infoLine = fmt.Sprintf("%s: %s", msg.u.Stage, msg.u.Message)
		return m, waitForStage(m.runID, msg.ch)

	case runDoneMsg:
		if msg.runID != m.runID {
			return m, nil
		}
		m.running = false
		m.cancelRun()
		if msg.err != nil {
			m.lastErr = msg.err
			return m, nil
		}
		m.lastErr = nil
		m.result = msg.res
		m.panels = modern.BuildPanels(msg.res)
		m.infoLine = fmt.Sprintf("Run %d complete.", m.runID)
		return m, nil

	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	if m.scr == screenEntry {
		var cmd tea.Cmd
		m.configInput, cmd = m.configInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) updateEntryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "enter" {
		path := strings.TrimSpace(m.configInput.Value())
		return m, openCmd(path)
	}
	var cmd tea.Cmd
	m.configInput, cmd = m.configInput.Update(msg)
	return m, cmd
}

func (m model) updateViewerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := modern.PanelRows * modern.PanelCols
	switch {
	case key.Matches(msg, keys.Quit):
		m.cancelRun()
		return m, tea.Quit
	case key.Matches(msg, keys.Next):
		m.focus = (m.focus + 1) % n
	case key.Matches(msg, keys.Prev):
		m.focus = (m.focus + n - 1) % n
	case key.Matches(msg, keys.Zoom):
		if m.scr == screenGrid {
			m.scr = screenZoom
		} else {
			m.scr = screenGrid
		}
	case key.Matches(msg, keys.Back):
		if m.scr == screenZoom {
			m.scr = screenGrid
		}
	case key.Matches(msg, keys.Grid):
		m.grid = !m.grid
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, keys.Rerun):
		if !m.running {
			return m.startRun()
		}
	}
	return m, nil
}

func (m *model) cancelRun() {
	if m.runCancel != nil {
		m.runCancel()
		m.runCancel = nil
	}
}

func (m model) startRun() (tea.Model, tea.Cmd) {
	if m.sess == nil {
		return m, func() tea.Msg { return errMsg{err: fmt.Errorf("no session")} }
	}
	m.cancelRun()
	ctx, cancel := context.WithCancel(context.Background())
	m.runCancel = cancel
	m.runID++
	m.running = true
	m.stages = nil
	ch := make(chan modern.StageUpdate, 16)
	return m, tea.Batch(runCmd(ctx, m.sess, m.runID, ch), waitForStage(m.runID, ch), m.spin.Tick)
}

func openCmd(path string) tea.Cmd {
	return func() tea.Msg {
		sess, err := modern.Open(path)
		if err != nil {
			return errMsg{err: err}
		}
		return openedMsg{sess: sess}
	}
}

func runCmd(ctx context.Context, sess *modern.Session, runID int, ch chan<- modern.StageUpdate) tea.Cmd {
	return func() tea.Msg {
		defer close(ch)
		res, err := sess.Run(ctx, func(u modern.StageUpdate) {
			select {
			case ch <- u:
			case <-ctx.Done():
			}
		})
		return runDoneMsg{runID: runID, res: res, err: err}
	}
}

func waitForStage(runID int, ch <-chan modern.StageUpdate) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-ch
		if !ok {
			return nil
		}
		return stageMsg{runID: runID, u: u, ch: ch}
	}
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Sensor calibration") + "\n")
	status := m.infoLine
	if m.running {
		status = m.spin.View() + " " + status
	}
	b.WriteString(okStyle.Render(status) + "\n")
	if m.lastErr != nil {
		b.WriteString(errStyle.Render("Error: " + m.lastErr.Error()))
	}
	b.WriteString("\n")

	switch m.scr {
	case screenEntry:
		b.WriteString(m.viewEntry())
	case screenGrid, screenZoom:
		b.WriteString(m.viewPanels())
	}
	return b.String()
}

func (m model) viewEntry() string {
	var b strings.Builder
	b.WriteString("Config:\n")
	b.WriteString(m.configInput.View() + "\n\n")
	b.WriteString(helpStyle.Render("Enter a config path (or nothing) then press Enter to run. Ctrl+C to quit.") + "\n")
	return b.String()
}

func (m model) viewPanels() string {
	if m.result == nil {
		return helpStyle.Render("waiting for the first run") + "\n\n" + m.help.View(keys)
	}
	bodyH := max(m.height-headerRows-footerRows, 14)
	var body string
	if m.scr == screenZoom {
		body = chart.Render(m.panels[m.focus], m.width, bodyH, m.grid)
	} else {
		body = chart.RenderGrid(m.panels, m.width, bodyH, m.focus, m.grid)
	}
	summary := strings.TrimRight(modern.Summarize(m.result).String(), "\n")
	return body + "\n" + helpStyle.Render(summary) + "\n" + m.help.View(keys)
}

func main() {
	p := tea.NewProgram(initialModel(os.Args[1:]), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}
