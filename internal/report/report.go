// Package report renders an analysis as plain text for abuse-report forms.
package report

import (
	"fmt"
	"strings"

	"github.com/myjellybean/jellybean/internal/model"
)

// Format renders r in the fixed report layout. Output is deterministic and
// has no trailing newline.
func Format(r model.AnalysisResult) string {
	var b strings.Builder

	b.WriteString("MYJELLYBEAN REPORT SUMMARY\n")
	b.WriteString("-----------------------------\n")
	fmt.Fprintf(&b, "CATEGORY: %s\n", strings.ToUpper(string(r.Category)))
	fmt.Fprintf(&b, "RISK SCORE: %d/100\n", r.RiskScore)
	b.WriteString("\n")

	b.WriteString("WHAT HAPPENED:\n")
	b.WriteString(r.ReportSummary.WhatHappened)
	b.WriteString("\n\n")

	writeList(&b, "WHY IT'S RISKY:", "- ", r.ReportSummary.WhyRisky)
	b.WriteString("\n")
	writeList(&b, "MY NEXT STEPS:", "- ", r.ReportSummary.NextSteps)
	b.WriteString("\n")
	writeList(&b, "EVIDENCE CHECKLIST:", "- [ ] ", r.ReportSummary.EvidenceChecklist)
	b.WriteString("\n")

	b.WriteString("Generated by MyJellyBean")
	return b.String()
}

func writeList(b *strings.Builder, header, bullet string, items []string) {
	b.WriteString(header)
	b.WriteString("\n")
	for _, item := range items {
		b.WriteString(bullet)
		b.WriteString(item)
		b.WriteString("\n")
	}
}
