package analysis

import (
	"github.com/myjellybean/jellybean/internal/model"
	"github.com/myjellybean/jellybean/internal/provider"
)

func str() *provider.Schema { return &provider.Schema{Type: "string"} }

func strList() *provider.Schema {
	return &provider.Schema{Type: "array", Items: str()}
}

// ResultSchema describes model.AnalysisResult for structured output. Every
// property is required and category is restricted to the known values.
func ResultSchema() *provider.Schema {
	categories := make([]string, len(model.Categories))
	for i, c := range model.Categories {
		categories[i] = string(c)
	}

	return &provider.Schema{
		Type: "object",
		Properties: map[string]*provider.Schema{
			"category":       {Type: "string", Enum: categories},
			"risk_score":     {Type: "integer", Description: "0 to 100"},
			"confidence":     {Type: "number", Description: "0 to 1"},
			"top_signals":    strList(),
			"why_it_matters": str(),
			"do_this_now":    strList(),
			"safer_reply":    str(),
			"report_summary": {
				Type: "object",
				Properties: map[string]*provider.Schema{
					"what_happened":      str(),
					"why_risky":          strList(),
					"next_steps":         strList(),
					"evidence_checklist": strList(),
				},
				Required: []string{"what_happened", "why_risky", "next_steps", "evidence_checklist"},
			},
			"limitations": str(),
		},
		Required: []string{
			"category", "risk_score", "confidence", "top_signals", "why_it_matters",
			"do_this_now", "safer_reply", "report_summary", "limitations",
		},
	}
}
