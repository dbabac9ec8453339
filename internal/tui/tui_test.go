package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/myjellybean/jellybean/internal/analysis"
	"github.com/myjellybean/jellybean/internal/app"
	"github.com/myjellybean/jellybean/internal/history"
	"github.com/myjellybean/jellybean/internal/provider"
)

const highRiskJSON = `{
  "category": "scam_fraud", "risk_score": 90, "confidence": 0.95,
  "top_signals": ["Gift card request"], "why_it_matters": "Gift cards are untraceable.",
  "do_this_now": ["Call mom on her saved number"], "safer_reply": "I'll call you first.",
  "report_summary": {"what_happened": "Impersonation.", "why_risky": ["Unverified"], "next_steps": ["Verify"], "evidence_checklist": ["Screenshot"]},
  "limitations": "Single message."
}`

type harness struct {
	store  *history.Store
	fake   *provider.Fake
	copied []string
}

func setupModel(t *testing.T, response string, credential string) (Model, *harness) {
	t.Helper()
	h := &harness{
		store: history.NewStore("", nil),
		fake:  provider.NewFake(response),
	}
	m := New(Options{
		Controller: app.NewController(h.store, nil),
		Analyzer:   analysis.NewClient(h.fake, credential, nil),
		Copy: func(s string) error {
			h.copied = append(h.copied, s)
			return nil
		},
	})
	// Simulate window size
	newM, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return newM.(Model), h
}

func press(t *testing.T, m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	newM, cmd := m.Update(msg)
	return newM.(Model), cmd
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// drain executes cmd and feeds any analysis result back into the model.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	var msgs []tea.Msg
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			if c != nil {
				msgs = append(msgs, c())
			}
		}
	} else {
		msgs = append(msgs, msg)
	}
	for _, msg := range msgs {
		if done, ok := msg.(analysisDoneMsg); ok {
			newM, _ := m.Update(done)
			m = newM.(Model)
		}
	}
	return m
}

func TestModelInit(t *testing.T) {
	m, _ := setupModel(t, highRiskJSON, "key")

	if m.ctrl.View() != app.ViewHome {
		t.Errorf("expected home view, got %s", m.ctrl.View())
	}
	if m.focus != focusMessage {
		t.Error("expected message focus")
	}
	if v := m.View(); !strings.Contains(v, "MyJellyBean") {
		t.Error("expected header in view")
	}
}

func TestSubmitShowsResults(t *testing.T) {
	m, h := setupModel(t, highRiskJSON, "key")
	m = typeText(t, m, "Hey it's mom, send me $200 via gift card")

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.ctrl.View() != app.ViewAnalyzing {
		t.Fatalf("expected analyzing, got %s", m.ctrl.View())
	}
	if !strings.Contains(m.View(), "Analyzing") {
		t.Error("expected spinner text while analyzing")
	}

	// a second submit while analyzing does nothing
	m, again := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if again != nil {
		t.Error("expected no command while analyzing")
	}

	m = drain(t, m, cmd)
	if m.ctrl.View() != app.ViewResults {
		t.Fatalf("expected results, got %s", m.ctrl.View())
	}
	if h.fake.Calls() != 1 {
		t.Errorf("expected 1 provider call, got %d", h.fake.Calls())
	}

	view := m.View()
	if !strings.Contains(view, "IMMEDIATE DANGER") {
		t.Error("expected danger banner for high risk result")
	}
	if !strings.Contains(view, "SCAM FRAUD") {
		t.Error("expected category label")
	}
	if h.store.Len() != 0 {
		t.Error("expected nothing saved without opt-in")
	}
}

func TestEmptySubmitStaysHome(t *testing.T) {
	m, h := setupModel(t, highRiskJSON, "key")
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil {
		t.Error("expected no command for empty message")
	}
	if m.ctrl.View() != app.ViewHome {
		t.Errorf("expected home, got %s", m.ctrl.View())
	}
	if m.notice == "" || m.noticeOK {
		t.Error("expected an error notice")
	}
	if h.fake.Calls() != 0 {
		t.Error("expected no provider call")
	}
}

func TestMissingCredentialReturnsHomeWithForm(t *testing.T) {
	m, h := setupModel(t, highRiskJSON, "")
	m = typeText(t, m, "suspicious text")

	// opt in to history from the options panel
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	for i := 0; i < rowSave; i++ {
		m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}
	m, _ = press(t, m, runes(" "))
	if !m.save {
		t.Fatal("expected save toggled on")
	}

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	m = drain(t, m, cmd)

	if m.ctrl.View() != app.ViewHome {
		t.Fatalf("expected home after failure, got %s", m.ctrl.View())
	}
	if m.message.Value() != "suspicious text" {
		t.Errorf("expected message kept, got %q", m.message.Value())
	}
	if !strings.Contains(m.notice, "API key") {
		t.Errorf("expected configuration notice, got %q", m.notice)
	}
	if h.fake.Calls() != 0 || h.store.Len() != 0 {
		t.Error("expected no provider call and no history entry")
	}
}

func TestProviderFailureShowsGenericNotice(t *testing.T) {
	m, h := setupModel(t, highRiskJSON, "key")
	h.fake.Err = errors.New("connection reset")
	m = typeText(t, m, "hello")

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	m = drain(t, m, cmd)

	if m.notice != analysis.GenericFailure {
		t.Errorf("expected generic notice, got %q", m.notice)
	}
	if m.ctrl.View() != app.ViewHome {
		t.Errorf("expected home, got %s", m.ctrl.View())
	}
}

func TestReportAndCopy(t *testing.T) {
	m, h := setupModel(t, highRiskJSON, "key")
	m = typeText(t, m, "hello")
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	m = drain(t, m, cmd)

	m, _ = press(t, m, runes("c"))
	if len(h.copied) != 1 || h.copied[0] != "I'll call you first." {
		t.Errorf("expected safer reply copied, got %v", h.copied)
	}
	if m.notice != "Copied to clipboard!" {
		t.Errorf("unexpected notice %q", m.notice)
	}

	m, _ = press(t, m, runes("r"))
	if m.ctrl.View() != app.ViewReport {
		t.Fatalf("expected report, got %s", m.ctrl.View())
	}
	if !strings.Contains(m.View(), "MYJELLYBEAN REPORT SUMMARY") {
		t.Error("expected report text")
	}

	m, _ = press(t, m, runes("c"))
	if len(h.copied) != 2 || !strings.HasPrefix(h.copied[1], "MYJELLYBEAN REPORT SUMMARY") {
		t.Errorf("expected report copied, got %v", h.copied)
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.ctrl.View() != app.ViewResults {
		t.Errorf("expected back to results, got %s", m.ctrl.View())
	}

	m, _ = press(t, m, runes("a"))
	if m.ctrl.View() != app.ViewHome {
		t.Errorf("expected home, got %s", m.ctrl.View())
	}
}

func TestHintsMergeIntoToggles(t *testing.T) {
	m, _ := setupModel(t, highRiskJSON, "key")
	m.signals.SexualContent = true
	m = typeText(t, m, "Tell me the verification code and send $50")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	if !m.signals.AskedForOTP || !m.signals.AskedForMoney {
		t.Errorf("expected hints applied, got %+v", m.signals)
	}
	if !m.signals.SexualContent {
		t.Error("hints must not clear a user toggle")
	}
}

func TestSampleLoading(t *testing.T) {
	m, _ := setupModel(t, highRiskJSON, "key")
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlD})

	if m.message.Value() == "" {
		t.Fatal("expected sample message loaded")
	}
	if !m.signals.AskedForMoney {
		t.Error("expected sample context applied")
	}
	first := m.message.Value()

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlD})
	if m.message.Value() == first {
		t.Error("expected next sample")
	}
}

func TestOptionCycling(t *testing.T) {
	m, _ := setupModel(t, highRiskJSON, "key")
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if Platforms[m.platform] != "SMS" {
		t.Errorf("expected SMS, got %q", Platforms[m.platform])
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	if Platforms[m.platform] != "Other" {
		t.Errorf("expected wraparound to Other, got %q", Platforms[m.platform])
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = press(t, m, runes(" "))
	if !m.signals.AskedForMoney {
		t.Error("expected first signal toggled")
	}

	form := m.form()
	if form.Platform != "Other" || !form.Signals.AskedForMoney {
		t.Errorf("unexpected form %+v", form)
	}
}

func TestEducationNavigation(t *testing.T) {
	m, _ := setupModel(t, highRiskJSON, "key")
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlE})
	if m.ctrl.View() != app.ViewEducation {
		t.Fatalf("expected education, got %s", m.ctrl.View())
	}
	if !strings.Contains(m.View(), "Playbook") {
		t.Error("expected playbook content")
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if m.scrollOffset != 1 {
		t.Errorf("expected scroll 1, got %d", m.scrollOffset)
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.ctrl.View() != app.ViewHome {
		t.Errorf("expected home, got %s", m.ctrl.View())
	}
}

func TestHelpToggle(t *testing.T) {
	m, _ := setupModel(t, highRiskJSON, "key")
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlE})
	m, _ = press(t, m, runes("?"))
	if !m.showHelp {
		t.Fatal("expected help shown")
	}
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Error("expected help text")
	}
	m, _ = press(t, m, runes("?"))
	if m.showHelp {
		t.Error("expected help hidden")
	}
}

func TestQuit(t *testing.T) {
	m, _ := setupModel(t, highRiskJSON, "key")
	_, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected QuitMsg")
	}
}

func TestRenderMeter(t *testing.T) {
	tests := []struct {
		score int
		band  string
	}{
		{10, "low"},
		{50, "medium"},
		{90, "high"},
	}
	for _, tt := range tests {
		got := renderMeter(tt.score)
		if !strings.Contains(got, tt.band) {
			t.Errorf("renderMeter(%d) = %q, want band %q", tt.score, got, tt.band)
		}
	}
}
