// Package tui implements the terminal interface: a shared transcript, one
// panel per analysis mode, and a single modal overlay for briefings.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/HafizAtif90/ai-guardian/analysis"
	"github.com/HafizAtif90/ai-guardian/chat"
	"github.com/HafizAtif90/ai-guardian/evidence"
	"github.com/HafizAtif90/ai-guardian/geo"
	"github.com/HafizAtif90/ai-guardian/orchestrator"
	"github.com/HafizAtif90/ai-guardian/recorder"
	"github.com/HafizAtif90/ai-guardian/submit"
)

// Options wires the model to its collaborators.
type Options struct {
	Controller     *orchestrator.Controller
	Client         *analysis.Client
	Locator        geo.Locator
	Recorder       *recorder.Session
	EvidenceDir    string
	RequestTimeout time.Duration
	LocateTimeout  time.Duration
	Theme          Theme
	ReducedMotion  bool
	Logger         *zap.Logger
}

var modeOrder = []analysis.Mode{analysis.ModeText, analysis.ModeImage, analysis.ModeVideo, analysis.ModeAudio}

// Model is the bubbletea model for the whole application.
type Model struct {
	opts   Options
	styles styles

	active analysis.Mode

	input      textarea.Model
	transcript viewport.Model
	spin       spinner.Model

	files     map[analysis.Mode][]evidence.File
	cursor    map[analysis.Mode]int
	inlineErr map[analysis.Mode]string
	listErr   map[analysis.Mode]string
	recording bool
	watcher   *evidence.Watcher

	width  int
	height int
	ready  bool
}

// New creates the application model.
func New(opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	input := textarea.New()
	input.Placeholder = "Describe your situation..."
	input.CharLimit = submit.MaxTextRunes
	input.SetHeight(3)
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		opts:      opts,
		styles:    newStyles(opts.Theme),
		active:    analysis.ModeText,
		input:     input,
		spin:      sp,
		files:     make(map[analysis.Mode][]evidence.File),
		cursor:    make(map[analysis.Mode]int),
		inlineErr: make(map[analysis.Mode]string),
		listErr:   make(map[analysis.Mode]string),
	}
}

// SetWatcher attaches an evidence directory watcher. Optional.
func (m *Model) SetWatcher(w *evidence.Watcher) {
	m.watcher = w
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		textarea.Blink,
		listEvidenceCmd(m.opts.EvidenceDir, analysis.ModeImage),
		listEvidenceCmd(m.opts.EvidenceDir, analysis.ModeVideo),
		listEvidenceCmd(m.opts.EvidenceDir, analysis.ModeAudio),
	}
	if !m.opts.ReducedMotion {
		cmds = append(cmds, m.spin.Tick)
	}
	if m.watcher != nil {
		cmds = append(cmds, waitForEvidenceCmd(m.watcher.Events()))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.SetWidth(msg.Width - 4)
		chromeHeight := 12
		m.transcript = viewport.New(msg.Width-2, max(msg.Height-chromeHeight, 3))
		m.refreshTranscript()
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if m.opts.ReducedMotion {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case analysisResultMsg:
		m.opts.Controller.FinishAnalysis(msg.brief)
		m.inlineErr[msg.brief.Mode] = ""
		m.refreshTranscript()
		return m, nil

	case analysisErrMsg:
		inline := m.opts.Controller.FailAnalysis(msg.mode, msg.err)
		if msg.mode != analysis.ModeText {
			m.inlineErr[msg.mode] = inline
		}
		m.refreshTranscript()
		return m, nil

	case routeResultMsg:
		m.opts.Controller.FinishRoute(msg.brief)
		m.refreshTranscript()
		return m, nil

	case routeErrMsg:
		m.opts.Controller.FailRoute(msg.err)
		m.refreshTranscript()
		return m, nil

	case recordingStoppedMsg:
		m.recording = false
		if msg.err != nil {
			m.inlineErr[analysis.ModeAudio] = msg.err.Error()
			return m, nil
		}
		if err := m.opts.Controller.Submitter(analysis.ModeAudio).Select(msg.clip.Filename, msg.clip.Data); err != nil {
			m.inlineErr[analysis.ModeAudio] = err.Error()
			return m, nil
		}
		m.inlineErr[analysis.ModeAudio] = ""
		return m, nil

	case evidenceListMsg:
		if msg.err != nil {
			m.listErr[msg.mode] = "Could not read the evidence directory."
			m.opts.Logger.Warn("evidence listing failed",
				zap.String("mode", msg.mode.String()), zap.Error(msg.err))
			return m, nil
		}
		m.listErr[msg.mode] = ""
		m.files[msg.mode] = msg.files
		if m.cursor[msg.mode] >= len(msg.files) {
			m.cursor[msg.mode] = 0
		}
		return m, nil

	case evidenceEventMsg:
		if !msg.ok {
			return m, nil
		}
		cmds := []tea.Cmd{
			listEvidenceCmd(m.opts.EvidenceDir, analysis.ModeImage),
			listEvidenceCmd(m.opts.EvidenceDir, analysis.ModeVideo),
			listEvidenceCmd(m.opts.EvidenceDir, analysis.ModeAudio),
			waitForEvidenceCmd(m.watcher.Events()),
		}
		return m, tea.Batch(cmds...)

	case fileLoadedMsg:
		if err := m.opts.Controller.Submitter(msg.mode).Select(msg.path, msg.data); err != nil {
			m.inlineErr[msg.mode] = err.Error()
			return m, nil
		}
		m.inlineErr[msg.mode] = ""
		return m, nil

	case fileLoadErrMsg:
		m.inlineErr[msg.mode] = msg.message
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	overlay := m.opts.Controller.Overlay()

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		if overlay.Kind != orchestrator.OverlayNone {
			m.opts.Controller.DismissOverlay()
			return m, nil
		}
		return m, tea.Quit
	}

	// The overlay swallows everything except dismissal and quit.
	if overlay.Kind != orchestrator.OverlayNone {
		return m, nil
	}

	switch msg.String() {
	case "tab":
		m.active = nextMode(m.active, 1)
		m.focusInput()
		return m, nil

	case "shift+tab":
		m.active = nextMode(m.active, -1)
		m.focusInput()
		return m, nil

	case "ctrl+l":
		if err := m.opts.Controller.BeginRoute(); err != nil {
			return m, nil
		}
		m.refreshTranscript()
		return m, locateAndRouteCmd(m.opts.Locator, m.opts.Client, m.opts.LocateTimeout, m.opts.RequestTimeout)
	}

	if m.active == analysis.ModeText {
		return m.handleTextKey(msg)
	}
	return m.handlePickerKey(msg)
}

func (m Model) handleTextKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "enter" && !msg.Alt {
		sub := m.opts.Controller.Submitter(analysis.ModeText)
		if err := sub.SelectText(m.input.Value()); err != nil {
			m.inlineErr[analysis.ModeText] = err.Error()
			return m, nil
		}
		payload, err := m.opts.Controller.BeginAnalysis(analysis.ModeText)
		if err != nil {
			m.inlineErr[analysis.ModeText] = err.Error()
			return m, nil
		}
		m.inlineErr[analysis.ModeText] = ""
		m.input.Reset()
		m.refreshTranscript()
		return m, analyzeCmd(m.opts.Client, payload, m.opts.RequestTimeout)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	mode := m.active
	files := m.files[mode]

	switch msg.String() {
	case "up", "k":
		if m.cursor[mode] > 0 {
			m.cursor[mode]--
		}
		return m, nil

	case "down", "j":
		if m.cursor[mode] < len(files)-1 {
			m.cursor[mode]++
		}
		return m, nil

	case "enter":
		if len(files) == 0 {
			return m, nil
		}
		picked := files[m.cursor[mode]]
		return m, readFileCmd(picked.Path, mode)

	case "s":
		payload, err := m.opts.Controller.BeginAnalysis(mode)
		if err != nil {
			m.inlineErr[mode] = err.Error()
			return m, nil
		}
		m.inlineErr[mode] = ""
		m.refreshTranscript()
		return m, analyzeCmd(m.opts.Client, payload, m.opts.RequestTimeout)

	case "r":
		if mode != analysis.ModeAudio || m.opts.Recorder == nil {
			return m, nil
		}
		if m.recording {
			return m, stopRecordingCmd(m.opts.Recorder)
		}
		if err := m.opts.Recorder.Start(context.Background()); err != nil {
			m.inlineErr[analysis.ModeAudio] = recorder.MicAccessMessage
			return m, nil
		}
		m.recording = true
		return m, nil
	}

	return m, nil
}

func (m *Model) focusInput() {
	if m.active == analysis.ModeText {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

func (m *Model) refreshTranscript() {
	if !m.ready {
		return
	}
	m.transcript.SetContent(m.renderTranscript())
	m.transcript.GotoBottom()
}

func (m Model) renderTranscript() string {
	entries := m.opts.Controller.Session().Entries()
	if len(entries) == 0 {
		return m.styles.muted.Render("No analyses yet. Submit evidence in any mode to begin.")
	}

	var b strings.Builder
	for i, entry := range entries {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if entry.Role == chat.RoleUser {
			b.WriteString(m.styles.userEntry.Render("You: " + entry.Content))
		} else {
			b.WriteString(m.styles.assistEntry.Render("Guardian: " + entry.Content))
		}
	}
	return b.String()
}

func (m Model) View() string {
	if !m.ready {
		return "Starting..."
	}

	overlay := m.opts.Controller.Overlay()
	if overlay.Kind != orchestrator.OverlayNone {
		return m.renderOverlay(overlay)
	}

	var b strings.Builder
	b.WriteString(m.styles.title.Render("AI Guardian"))
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")
	b.WriteString(m.transcript.View())
	b.WriteString("\n\n")
	b.WriteString(m.renderModePanel())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.styles.help.Render("tab: switch mode • ctrl+l: safe route • esc: quit"))
	return b.String()
}

func (m Model) renderTabs() string {
	tabs := make([]string, 0, len(modeOrder))
	for _, mode := range modeOrder {
		label := mode.Title()
		if mode == m.active {
			tabs = append(tabs, m.styles.activeTab.Render(label))
		} else {
			tabs = append(tabs, m.styles.tab.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderModePanel() string {
	if m.active == analysis.ModeText {
		panel := m.input.View()
		if errText := m.inlineErr[analysis.ModeText]; errText != "" {
			panel += "\n" + m.styles.errorLine.Render(errText)
		}
		return panel
	}
	return m.renderPicker()
}

func (m Model) renderPicker() string {
	mode := m.active
	var b strings.Builder

	files := m.files[mode]
	if listErr := m.listErr[mode]; listErr != "" {
		b.WriteString(m.styles.errorLine.Render(listErr))
	} else if len(files) == 0 {
		b.WriteString(m.styles.muted.Render(fmt.Sprintf("No %s files found in the evidence directory.", mode)))
	} else {
		limit := min(len(files), 6)
		start := 0
		if m.cursor[mode] >= limit {
			start = m.cursor[mode] - limit + 1
		}
		for i := start; i < min(start+limit, len(files)); i++ {
			file := files[i]
			line := fmt.Sprintf("%s (%s)", file.Name, humanSize(file.Size))
			if i == m.cursor[mode] {
				b.WriteString(m.styles.selected.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
	}

	if payload := m.opts.Controller.Submitter(mode).Payload(); payload != nil {
		b.WriteString("\n" + m.styles.muted.Render("Staged: "+payload.Filename))
	}
	if mode == analysis.ModeAudio {
		if m.recording {
			b.WriteString("\n" + m.styles.errorLine.Render("● Recording... press r to stop"))
		} else {
			b.WriteString("\n" + m.styles.muted.Render("r: record from microphone"))
		}
	}
	if errText := m.inlineErr[mode]; errText != "" {
		b.WriteString("\n" + m.styles.errorLine.Render(errText))
	}
	b.WriteString("\n" + m.styles.help.Render("enter: stage file • s: analyze staged file"))
	return b.String()
}

func (m Model) renderStatus() string {
	var parts []string
	for _, mode := range modeOrder {
		if m.opts.Controller.Busy(mode) {
			parts = append(parts, fmt.Sprintf("analyzing %s", mode))
		}
	}
	if m.opts.Controller.RoutePending() {
		parts = append(parts, "finding route")
	}
	if len(parts) == 0 {
		return ""
	}

	status := strings.Join(parts, ", ")
	if m.opts.ReducedMotion {
		return m.styles.muted.Render("Working: " + status)
	}
	return m.spin.View() + m.styles.muted.Render(" "+status)
}

func nextMode(current analysis.Mode, delta int) analysis.Mode {
	for i, mode := range modeOrder {
		if mode == current {
			next := (i + delta + len(modeOrder)) % len(modeOrder)
			return modeOrder[next]
		}
	}
	return analysis.ModeText
}

func humanSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1fMB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1fKB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%dB", n)
}
