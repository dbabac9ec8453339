package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/myjellybean/jellybean/internal/app"
	"github.com/myjellybean/jellybean/internal/education"
	"github.com/myjellybean/jellybean/internal/model"
	"github.com/myjellybean/jellybean/internal/report"
)

const meterWidth = 20

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var body string
	switch m.ctrl.View() {
	case app.ViewHome:
		body = m.renderHome()
	case app.ViewAnalyzing:
		body = m.renderAnalyzing()
	default:
		body = m.renderScrolled(m.contentLines())
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body, m.renderStatusBar())
}

func (m Model) renderHeader() string {
	return titleStyle.Render("MyJellyBean") + "  " +
		taglineStyle.Render("Bite-sized clarity for high-pressure messages.")
}

func (m Model) renderHome() string {
	var b strings.Builder

	b.WriteString(labelStyle.Render("Message"))
	b.WriteByte('\n')
	b.WriteString(m.message.View())
	b.WriteString("\n\n")

	b.WriteString(m.optionLine(rowPlatform, fmt.Sprintf("Platform:      ‹ %s ›", choiceLabel(Platforms[m.platform]))))
	b.WriteByte('\n')
	b.WriteString(m.optionLine(rowRelationship, fmt.Sprintf("Relationship:  ‹ %s ›", choiceLabel(Relationships[m.relationship]))))
	b.WriteString("\n\n")

	b.WriteString(sectionHeaderStyle.Render("Context"))
	b.WriteByte('\n')
	for i, f := range model.SignalFields {
		checked := *m.signals.Flag(f.Key)
		b.WriteString(m.optionLine(rowFirstSignal+i, checkbox(checked)+" "+f.Label))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	b.WriteString(m.optionLine(rowSave, checkbox(m.save)+" Save to local history"))
	b.WriteString("\n\n")

	if m.notice != "" {
		b.WriteString(m.renderNotice())
		b.WriteByte('\n')
	}

	return panelStyle.Width(m.width - 2).Render(b.String())
}

func (m Model) optionLine(row int, text string) string {
	if m.focus == focusOptions && m.row == row {
		return optionSelectedStyle.Render("› " + text)
	}
	return optionStyle.Render("  " + text)
}

func checkbox(on bool) string {
	if on {
		return checkedStyle.Render("[x]")
	}
	return "[ ]"
}

func choiceLabel(v string) string {
	if v == "" {
		return "not set"
	}
	return v
}

func (m Model) renderNotice() string {
	if m.noticeOK {
		return noticeStyle.Render(m.notice)
	}
	return errorStyle.Render(m.notice)
}

func (m Model) renderAnalyzing() string {
	return panelStyle.Width(m.width - 2).Render(m.spinner.View() + " Analyzing message...")
}

// contentLines returns the full body of the current read-only view.
func (m Model) contentLines() []string {
	width := max(m.width-6, 20)
	switch m.ctrl.View() {
	case app.ViewResults:
		if r := m.ctrl.Current(); r != nil {
			return resultLines(*r, width)
		}
	case app.ViewReport:
		if r := m.ctrl.Current(); r != nil {
			return strings.Split(reportStyle.Render(report.Format(*r)), "\n")
		}
	case app.ViewEducation:
		return m.educationLines(width)
	}
	return nil
}

func (m Model) contentLen() int {
	return len(m.contentLines())
}

func (m Model) educationLines(width int) []string {
	if m.edu.text == "" || m.edu.width != width {
		out, err := education.Render(width, "dark")
		if err != nil {
			out = education.Markdown()
		}
		m.edu.text, m.edu.width = out, width
	}
	return strings.Split(strings.TrimRight(m.edu.text, "\n"), "\n")
}

// resultLines lays out a result top to bottom, wrapped to width.
func resultLines(r model.AnalysisResult, width int) []string {
	var lines []string
	add := func(s string) { lines = append(lines, strings.Split(s, "\n")...) }
	wrap := lipgloss.NewStyle().Width(width)

	if r.HighRisk() {
		add(dangerBannerStyle.Width(width).Render("IMMEDIATE DANGER: " + model.EmergencyNotice))
		add("")
	}

	add(categoryStyle.Render(strings.ToUpper(r.Category.Label())) +
		dimStyle.Render(fmt.Sprintf("  confidence %d%%", int(r.Confidence*100+0.5))))
	add(renderMeter(r.RiskScore))
	add("")

	add(sectionHeaderStyle.Render("Why it matters"))
	add(wrap.Render(r.WhyItMatters))
	add("")

	add(sectionHeaderStyle.Render("Top signals"))
	for _, s := range r.TopSignals {
		add(wrap.Render("• " + s))
	}
	add("")

	add(sectionHeaderStyle.Render("Do this now"))
	for i, s := range r.DoThisNow {
		add(wrap.Render(fmt.Sprintf("%d. %s", i+1, s)))
	}
	add("")

	add(sectionHeaderStyle.Render("Safer reply") + dimStyle.Render("  (c to copy)"))
	add(replyStyle.Width(width).Render(fmt.Sprintf("%q", r.SaferReply)))
	add(dimStyle.Width(width).Render("This reply is designed to be non-escalatory and avoids sharing personal information."))
	add("")

	add(sectionHeaderStyle.Render("AI limitations"))
	add(dimStyle.Width(width).Render(r.Limitations))
	return lines
}

func renderMeter(score int) string {
	filled := score * meterWidth / 100
	band := model.BandFor(score)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", meterWidth-filled)
	return riskStyle(band).Render(fmt.Sprintf("Risk %3d/100 %s %s", score, bar, band))
}

// renderScrolled shows the slice of lines starting at scrollOffset that
// fits the viewport.
func (m Model) renderScrolled(lines []string) string {
	visible := max(m.viewHeight-2, 1)

	start := min(m.scrollOffset, max(len(lines)-1, 0))
	end := min(start+visible, len(lines))

	var b strings.Builder
	for i := start; i < end; i++ {
		b.WriteString(lines[i])
		if i < end-1 {
			b.WriteByte('\n')
		}
	}
	return panelStyle.Width(m.width - 2).Height(visible).Render(b.String())
}

func (m Model) renderStatusBar() string {
	view := m.ctrl.View()
	left := " " + view.String()
	if view != app.ViewHome && view != app.ViewAnalyzing {
		if n := m.contentLen(); n > 0 {
			left += fmt.Sprintf("  Line %d/%d", m.scrollOffset+1, n)
		}
		if m.notice != "" {
			left += "  " + m.notice
		}
	}

	right := statusHints(view, m.focus) + "  ? help "

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return statusBarStyle.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func statusHints(v app.View, f focusArea) string {
	switch v {
	case app.ViewHome:
		if f == focusMessage {
			return "ctrl+s analyze  tab options  ctrl+d sample"
		}
		return "space toggle  ←/→ choose  tab message"
	case app.ViewAnalyzing:
		return "please wait"
	case app.ViewResults:
		return "r report  c copy reply  a new"
	case app.ViewReport:
		return "c copy report  b back"
	case app.ViewEducation:
		return "a analyze"
	}
	return ""
}

func (m Model) renderHelp() string {
	var b strings.Builder

	b.WriteString(sectionHeaderStyle.Render("MyJellyBean Keyboard Shortcuts"))
	b.WriteString("\n\n")

	helpItems := []struct{ key, desc string }{
		{"ctrl+s", "Analyze the message"},
		{"ctrl+t", "Detect context signals from the text"},
		{"ctrl+d", "Load the next demo sample"},
		{"tab", "Switch between message and options"},
		{"space", "Toggle the selected option"},
		{"←/→", "Change platform or relationship"},
		{"r", "Create report (results)"},
		{"c", "Copy safer reply or report"},
		{"b/esc", "Back to results (report)"},
		{"a/esc", "Analyze another message"},
		{"e", "Safety playbook"},
		{"↑/↓", "Scroll"},
		{"?", "Toggle this help"},
		{"q", "Quit (outside the message box)"},
	}

	for _, item := range helpItems {
		b.WriteString(fmt.Sprintf("  %s  %s\n",
			helpKeyStyle.Width(12).Render(item.key),
			item.desc,
		))
	}

	b.WriteString("\n")
	b.WriteString(helpBarStyle.Render("Press ? to close help"))

	return b.String()
}
