// Package tui provides a Bubble Tea terminal user interface for wavtoflac.
package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/wavtoflac/internal/audio"
	"github.com/handiism/wavtoflac/internal/config"
	"github.com/handiism/wavtoflac/internal/convert"
	"github.com/sirupsen/logrus"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)
)

// errCancelled is shown when the user aborts a run.
var errCancelled = errors.New("cancelled by user")

// maxLogs is how many log lines stay on screen.
const maxLogs = 10

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateConverting
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   convert.ProgressLevel
}

// Options configures the TUI.
type Options struct {
	Settings *config.Settings

	// SourceRoot and DestRoot are asked for when empty.
	SourceRoot string
	DestRoot   string

	Verbose bool

	// Log receives debug detail from discovery; nil discards it.
	Log logrus.FieldLogger
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	log       logrus.FieldLogger
	logs      []LogEntry
	err       error

	// Roots, filled from Options or the input prompts
	source string
	dest   string

	// Run context
	ctx    context.Context
	cancel context.CancelFunc
	sub    chan tea.Msg

	// Conversion progress
	total    int
	finished int
	failed   int
	warnings int
	summary  *convert.Summary

	// Options
	playlist bool
	verbose  bool
	dryRun   bool

	width  int
	height int
}

// NewModel creates a new TUI model.
func NewModel(opts Options) Model {
	settings := opts.Settings
	if settings == nil {
		settings = config.DefaultSettings()
	}

	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	m := Model{
		state:     StateInput,
		textInput: ti,
		spinner:   sp,
		progress:  prog,
		settings:  settings,
		log:       opts.Log,
		source:    opts.SourceRoot,
		dest:      opts.DestRoot,
		ctx:       ctx,
		cancel:    cancel,
		playlist:  settings.PlaylistFormat() != audio.FormatNone,
		verbose:   opts.Verbose,
	}
	m.preparePrompt()
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// preparePrompt points the text input at the next missing root.
func (m *Model) preparePrompt() {
	m.textInput.SetValue("")
	switch {
	case m.source == "":
		m.textInput.Placeholder = "/music/wav"
	case m.dest == "":
		m.textInput.Placeholder = "/music/flac"
	}
}

func (m Model) rootsComplete() bool {
	return m.source != "" && m.dest != ""
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateConverting {
				m.cancel()
			}

		case "enter":
			if m.state == StateInput {
				if !m.rootsComplete() {
					m.acceptRoot()
					return m, nil
				}
				m.state = StateConverting
				return m, tea.Batch(m.startConversion(), waitForActivity(m.sub), m.spinner.Tick)
			}

		case "p", "v", "n":
			if m.state == StateInput && m.rootsComplete() {
				m.toggle(msg.String())
				return m, nil
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				// Reset for another run over the same roots
				m.state = StateInput
				m.logs = nil
				m.err = nil
				m.total, m.finished, m.failed, m.warnings = 0, 0, 0, 0
				m.summary = nil
				m.ctx, m.cancel = context.WithCancel(context.Background())
				return m, nil
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case StartMsg:
		m.total = msg.Total
		cmds = append(cmds, waitForActivity(m.sub))

	case ProgressMsg:
		m.addLog(msg.Event)
		cmds = append(cmds, waitForActivity(m.sub))

	case OutcomeMsg:
		m.finished++
		o := msg.Outcome
		switch {
		case !o.OK():
			m.failed++
			m.addLog(convert.ProgressEvent{
				Message: fmt.Sprintf("Error converting %s (%s): %v", filepath.Base(o.Job.Mapping.Source), o.Stage, o.Err),
				Level:   convert.LevelError,
			})
		case o.Warning != nil:
			m.warnings++
			m.addLog(convert.ProgressEvent{
				Message: fmt.Sprintf("Converted %s without cover: %v", filepath.Base(o.Job.Mapping.Target), o.Warning),
				Level:   convert.LevelWarning,
			})
		default:
			m.addLog(convert.ProgressEvent{
				Message: fmt.Sprintf("Converted: %s", filepath.Base(o.Job.Mapping.Target)),
				Level:   convert.LevelVerbose,
			})
		}
		var percent float64
		if m.total > 0 {
			percent = float64(m.finished) / float64(m.total)
		}
		cmds = append(cmds, m.progress.SetPercent(percent), waitForActivity(m.sub))

	case DoneMsg:
		m.summary = msg.Summary
		switch {
		case m.ctx.Err() != nil:
			m.state = StateError
			m.err = errCancelled
		case msg.Err != nil:
			m.state = StateError
			m.err = msg.Err
		default:
			m.state = StateComplete
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	// Update text input
	if m.state == StateInput && !m.rootsComplete() {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// acceptRoot stores the typed path as the next missing root.
func (m *Model) acceptRoot() {
	value := strings.TrimSpace(m.textInput.Value())
	if value == "" {
		return
	}
	if m.source == "" {
		m.source = value
	} else {
		m.dest = value
	}
	m.preparePrompt()
}

func (m *Model) toggle(key string) {
	switch key {
	case "p":
		m.playlist = !m.playlist
	case "v":
		m.verbose = !m.verbose
	case "n":
		m.dryRun = !m.dryRun
	}
}

func (m *Model) addLog(event convert.ProgressEvent) {
	// Filter verbose messages if not in verbose mode
	if event.Level == convert.LevelVerbose && !m.verbose {
		return
	}
	m.logs = append(m.logs, LogEntry{Message: event.Message, Level: event.Level})
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("wavtoflac"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Convert lossless audio to %s", strings.ToUpper(m.settings.Format.String()))))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateConverting:
		b.WriteString(m.viewConverting())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	if !m.rootsComplete() {
		label := "Source directory:"
		if m.source != "" {
			label = "Destination directory:"
		}
		b.WriteString(subtitleStyle.Render(label))
		b.WriteString("\n\n")
		b.WriteString(m.textInput.View())
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(infoStyle.Render(fmt.Sprintf("Source:      %s", m.source)))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf("Destination: %s", m.dest)))
	b.WriteString("\n\n")

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s Create playlists (p)\n", checkbox(m.playlist))
	fmt.Fprintf(&b, "  %s Verbose output (v)\n", checkbox(m.verbose))
	fmt.Fprintf(&b, "  %s Dry run (n)\n", checkbox(m.dryRun))
	b.WriteString("\n")

	return b.String()
}

func checkbox(on bool) string {
	if on {
		return "[×]"
	}
	return "[ ]"
}

func (m Model) viewConverting() string {
	var b strings.Builder

	if m.total == 0 {
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(subtitleStyle.Render("Scanning source tree..."))
		b.WriteString("\n\n")
	} else {
		b.WriteString(m.progress.View())
		b.WriteString("\n")
		b.WriteString(infoStyle.Render(fmt.Sprintf("Files: %d/%d | Failed: %d | Warnings: %d",
			m.finished, m.total, m.failed, m.warnings)))
		b.WriteString("\n\n")
	}

	// Logs
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	s := m.summary
	if s == nil {
		s = &convert.Summary{}
	}

	var text string
	switch {
	case s.DryRun:
		text = fmt.Sprintf("Dry run complete\n\nTo convert: %d\nAlready converted: %d\nSkipped: %d\nCollisions: %d",
			s.Queued, s.Existing, s.Skipped, s.Collisions)
	case s.UpToDate():
		text = "All files are already converted."
	default:
		text = fmt.Sprintf("Conversion complete\n\nConverted: %d\nFailed: %d\nCovers: %d\nTime: %s",
			s.Converted, s.Failed, s.CoversCopied, s.Elapsed.Round(1e6))
	}
	b.WriteString(boxStyle.Render(text))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		fmt.Fprintf(&b, "  %s", m.err.Error())
	}
	b.WriteString("\n")

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case convert.LevelError:
			style = errorStyle
			prefix = "✗"
		case convert.LevelWarning:
			style = warningStyle
			prefix = "!"
		case convert.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case convert.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		if !m.rootsComplete() {
			return "enter: next • esc: quit"
		}
		return "enter: start • p: playlist • v: verbose • n: dry run • esc: quit"
	case StateConverting:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: run again • q: quit"
	}
	return ""
}

// startConversion runs the Manager in the background. The reporter and the
// final DoneMsg feed m.sub, which the model drains with waitForActivity.
func (m *Model) startConversion() tea.Cmd {
	settings := *m.settings
	if m.playlist && settings.PlaylistFormat() == audio.FormatNone {
		settings.Playlist = "m3u"
	} else if !m.playlist {
		settings.Playlist = "none"
	}

	sub := make(chan tea.Msg, 100)
	m.sub = sub
	ctx := m.ctx
	setup := convert.Setup{
		SourceRoot: m.source,
		DestRoot:   m.dest,
		DryRun:     m.dryRun,
		Reporter:   channelReporter{ctx: ctx, sub: sub},
		Log:        m.log,
	}

	return func() tea.Msg {
		manager, err := convert.NewFromSettings(&settings, setup)
		if err != nil {
			sub <- DoneMsg{Err: err}
			return nil
		}

		// DoneMsg travels on sub so it arrives after every event.
		summary, err := manager.Run(ctx)
		sub <- DoneMsg{Summary: summary, Err: err}
		return nil
	}
}

// Run starts the TUI application.
func Run(opts Options) error {
	p := tea.NewProgram(NewModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

var _ convert.Reporter = channelReporter{}
