// Package tui implements the Bubble Tea terminal user interface.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/myjellybean/jellybean/internal/analysis"
	"github.com/myjellybean/jellybean/internal/app"
	"github.com/myjellybean/jellybean/internal/model"
	"github.com/myjellybean/jellybean/internal/report"
	"github.com/myjellybean/jellybean/internal/samples"
	"github.com/myjellybean/jellybean/internal/signals"
)

// Platforms and Relationships are the choices offered on the form. The
// empty entry means "not set" and is sent as Unknown.
var (
	Platforms     = []string{"", "SMS", "Instagram", "Discord", "Email", "Marketplace", "Dating app", "Other"}
	Relationships = []string{"", "unknown", "friend", "coworker", "romantic interest", "buyer/seller", "authority figure", "other"}
)

// Option rows on the form, top to bottom: platform, relationship, the six
// signal flags, then save-to-history.
const (
	rowPlatform = iota
	rowRelationship
	rowFirstSignal
)

var (
	rowSave  = rowFirstSignal + len(model.SignalFields)
	rowCount = rowSave + 1
)

type focusArea int

const (
	focusMessage focusArea = iota
	focusOptions
)

type renderCache struct {
	width int
	text  string
}

// analysisDoneMsg carries the provider outcome back into Update.
type analysisDoneMsg struct {
	result *model.AnalysisResult
	err    error
}

// Options wires the model to its collaborators.
type Options struct {
	Controller *app.Controller
	Analyzer   app.Analyzer
	// Copy places text on the clipboard.
	Copy    func(string) error
	Timeout time.Duration
}

// Model is the top-level Bubble Tea model for jellybean.
type Model struct {
	ctrl     *app.Controller
	analyzer app.Analyzer
	copyText func(string) error
	timeout  time.Duration

	// UI state
	width  int
	height int

	// Form
	message      textarea.Model
	focus        focusArea
	row          int
	platform     int
	relationship int
	signals      model.ContextSignals
	save         bool
	sampleIndex  int

	spinner spinner.Model

	// Scroll position in results, report and education
	scrollOffset int
	viewHeight   int

	// One-line notice under the form or in the status bar
	notice   string
	noticeOK bool

	// shared across model copies so the playbook renders once per width
	edu *renderCache

	showHelp bool
}

// New creates a TUI model at the home view.
func New(opts Options) Model {
	ta := textarea.New()
	ta.Placeholder = "Paste the message you received..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(6)
	ta.Focus()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = spinnerStyle

	copyFn := opts.Copy
	if copyFn == nil {
		copyFn = func(string) error { return nil }
	}

	m := Model{
		ctrl:     opts.Controller,
		analyzer: opts.Analyzer,
		copyText: copyFn,
		timeout:  opts.Timeout,
		message:  ta,
		spinner:  sp,
		edu:      &renderCache{},
	}
	m.restoreForm(opts.Controller.Form())
	return m
}

// restoreForm fills the widgets from a form, matching choices by value.
func (m *Model) restoreForm(f app.Form) {
	if f.Message != "" {
		m.message.SetValue(f.Message)
	}
	m.platform = indexOf(Platforms, f.Platform)
	m.relationship = indexOf(Relationships, f.Relationship)
	m.signals = f.Signals
	m.save = f.SaveToHistory
}

func indexOf(list []string, v string) int {
	for i, s := range list {
		if s == v {
			return i
		}
	}
	return 0
}

// form reads the current widget values.
func (m Model) form() app.Form {
	return app.Form{
		Message:       m.message.Value(),
		Platform:      Platforms[m.platform],
		Relationship:  Relationships[m.relationship],
		Signals:       m.signals,
		SaveToHistory: m.save,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewHeight = m.height - 4 // header + status bar
		m.message.SetWidth(max(m.width-6, 20))
		return m, nil

	case spinner.TickMsg:
		if m.ctrl.View() != app.ViewAnalyzing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case analysisDoneMsg:
		return m.finishAnalysis(msg), nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.ForceQuit) {
			return m, tea.Quit
		}
		if m.showHelp {
			if key.Matches(msg, keys.Help) || key.Matches(msg, keys.Home) || key.Matches(msg, keys.Quit) {
				m.showHelp = false
			}
			return m, nil
		}

		switch m.ctrl.View() {
		case app.ViewHome:
			return m.updateHome(msg)
		case app.ViewAnalyzing:
			// submit stays disabled until the call returns
			return m, nil
		case app.ViewResults:
			return m.updateResults(msg)
		case app.ViewReport:
			return m.updateReport(msg)
		case app.ViewEducation:
			return m.updateEducation(msg)
		}
	}

	if m.ctrl.View() == app.ViewHome && m.focus == focusMessage {
		var cmd tea.Cmd
		m.message, cmd = m.message.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateHome(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Submit):
		return m.submit()

	case key.Matches(msg, keys.Hints):
		m.signals = m.signals.Merge(signals.Suggest(m.message.Value()))
		m.setNotice("Signals detected from the message text. Review before analyzing.", true)
		return m, nil

	case key.Matches(msg, keys.Sample):
		m.loadNextSample()
		return m, nil

	case key.Matches(msg, keys.Focus):
		if m.focus == focusMessage {
			m.focus = focusOptions
			m.message.Blur()
			return m, nil
		}
		m.focus = focusMessage
		return m, m.message.Focus()
	}

	if m.focus == focusMessage {
		if msg.String() == "ctrl+e" {
			m.navigate(app.ViewEducation)
			return m, nil
		}
		var cmd tea.Cmd
		m.message, cmd = m.message.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, keys.Up):
		if m.row > 0 {
			m.row--
		}
	case key.Matches(msg, keys.Down):
		if m.row < rowCount-1 {
			m.row++
		}
	case key.Matches(msg, keys.Left):
		m.cycle(-1)
	case key.Matches(msg, keys.Right):
		m.cycle(1)
	case key.Matches(msg, keys.Toggle):
		m.toggleRow()
	case key.Matches(msg, keys.Education):
		m.navigate(app.ViewEducation)
	case key.Matches(msg, keys.Help):
		m.showHelp = true
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) cycle(delta int) {
	switch m.row {
	case rowPlatform:
		m.platform = (m.platform + delta + len(Platforms)) % len(Platforms)
	case rowRelationship:
		m.relationship = (m.relationship + delta + len(Relationships)) % len(Relationships)
	}
}

func (m *Model) toggleRow() {
	switch {
	case m.row == rowPlatform || m.row == rowRelationship:
		m.cycle(1)
	case m.row == rowSave:
		m.save = !m.save
	default:
		f := m.signals.Flag(model.SignalFields[m.row-rowFirstSignal].Key)
		*f = !*f
	}
}

func (m *Model) loadNextSample() {
	all := samples.All()
	if len(all) == 0 {
		return
	}
	s := all[m.sampleIndex%len(all)]
	m.sampleIndex++

	m.message.SetValue(s.Message)
	m.platform = indexOf(Platforms, s.Platform)
	m.relationship = indexOf(Relationships, s.Relationship)
	m.signals = s.Signals()
	m.setNotice("Loaded sample: "+s.Label, true)
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	req, err := m.ctrl.Submit(m.form())
	if err != nil {
		m.setNotice(analysis.UserMessage(err), false)
		return m, nil
	}
	m.notice = ""
	m.message.Blur()
	return m, tea.Batch(m.spinner.Tick, m.analyzeCmd(req))
}

// analyzeCmd runs the provider call off the UI loop.
func (m Model) analyzeCmd(req model.AnalysisRequest) tea.Cmd {
	a, timeout := m.analyzer, m.timeout
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		result, err := a.Analyze(ctx, req)
		return analysisDoneMsg{result: result, err: err}
	}
}

func (m Model) finishAnalysis(msg analysisDoneMsg) Model {
	if msg.err != nil {
		_ = m.ctrl.Fail(msg.err)
		m.setNotice(analysis.UserMessage(msg.err), false)
		if m.focus == focusMessage {
			m.message.Focus()
		}
		return m
	}
	if err := m.ctrl.Succeed(*msg.result); err != nil {
		m.setNotice(err.Error(), false)
		return m
	}
	m.notice = ""
	m.scrollOffset = 0
	return m
}

func (m Model) updateResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Report):
		if m.ctrl.RequestReport() == nil {
			m.scrollOffset = 0
			m.notice = ""
		}
	case key.Matches(msg, keys.Copy):
		if r := m.ctrl.Current(); r != nil {
			m.copy(r.SaferReply)
		}
	default:
		return m.updateCommon(msg)
	}
	return m, nil
}

func (m Model) updateReport(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back):
		if m.ctrl.Back() == nil {
			m.scrollOffset = 0
			m.notice = ""
		}
	case key.Matches(msg, keys.Copy):
		if r := m.ctrl.Current(); r != nil {
			m.copy(report.Format(*r))
		}
	default:
		return m.updateCommon(msg)
	}
	return m, nil
}

func (m Model) updateEducation(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Education) {
		return m, nil
	}
	return m.updateCommon(msg)
}

// updateCommon handles scrolling and navigation shared by the read-only views.
func (m Model) updateCommon(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Down):
		if m.scrollOffset < m.contentLen()-1 {
			m.scrollOffset++
		}
	case key.Matches(msg, keys.Up):
		if m.scrollOffset > 0 {
			m.scrollOffset--
		}
	case key.Matches(msg, keys.Home):
		m.navigate(app.ViewHome)
		if m.focus == focusMessage {
			return m, m.message.Focus()
		}
	case key.Matches(msg, keys.Education):
		m.navigate(app.ViewEducation)
	case key.Matches(msg, keys.Help):
		m.showHelp = true
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) navigate(v app.View) {
	if err := m.ctrl.Navigate(v); err != nil {
		m.setNotice(err.Error(), false)
		return
	}
	m.scrollOffset = 0
	m.notice = ""
}

func (m *Model) copy(text string) {
	if err := m.copyText(text); err != nil {
		m.setNotice("Copy failed: "+err.Error(), false)
		return
	}
	m.setNotice("Copied to clipboard!", true)
}

func (m *Model) setNotice(text string, ok bool) {
	m.notice = text
	m.noticeOK = ok
}

// Run starts the TUI application.
func Run(opts Options) error {
	p := tea.NewProgram(New(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
