package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidResult matches every validation failure from this package.
var ErrInvalidResult = errors.New("invalid analysis result")

// FieldError names the offending field of a rejected result.
type FieldError struct {
	Field  string
	Reason string
	Err    error
}

func (e *FieldError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("field %q: %s: %v", e.Field, e.Reason, e.Err)
	}
	return fmt.Sprintf("field %q: %s", e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error { return e.Err }

// Is lets callers test any FieldError against ErrInvalidResult.
func (e *FieldError) Is(target error) bool { return target == ErrInvalidResult }

// Wire shapes use pointers so a missing or null field is distinguishable
// from a zero value. List elements are pointers for the same reason.
type wireSummary struct {
	WhatHappened      *string    `json:"what_happened"`
	WhyRisky          *[]*string `json:"why_risky"`
	NextSteps         *[]*string `json:"next_steps"`
	EvidenceChecklist *[]*string `json:"evidence_checklist"`
}

type wireResult struct {
	Category      *string      `json:"category"`
	RiskScore     *int         `json:"risk_score"`
	Confidence    *float64     `json:"confidence"`
	TopSignals    *[]*string   `json:"top_signals"`
	WhyItMatters  *string      `json:"why_it_matters"`
	DoThisNow     *[]*string   `json:"do_this_now"`
	SaferReply    *string      `json:"safer_reply"`
	ReportSummary *wireSummary `json:"report_summary"`
	Limitations   *string      `json:"limitations"`
}

// DecodeResult parses data as a single AnalysisResult. Every field must be
// present with the right JSON type and the numbers must be in range.
// Nothing is defaulted.
func DecodeResult(data []byte) (*AnalysisResult, error) {
	var w wireResult
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, &FieldError{Field: typeErrorField(err), Reason: "malformed", Err: err}
	}

	missing := func(name string) error {
		return &FieldError{Field: name, Reason: "missing"}
	}

	switch {
	case w.Category == nil:
		return nil, missing("category")
	case w.RiskScore == nil:
		return nil, missing("risk_score")
	case w.Confidence == nil:
		return nil, missing("confidence")
	case w.TopSignals == nil:
		return nil, missing("top_signals")
	case w.WhyItMatters == nil:
		return nil, missing("why_it_matters")
	case w.DoThisNow == nil:
		return nil, missing("do_this_now")
	case w.SaferReply == nil:
		return nil, missing("safer_reply")
	case w.ReportSummary == nil:
		return nil, missing("report_summary")
	case w.Limitations == nil:
		return nil, missing("limitations")
	}

	s := w.ReportSummary
	switch {
	case s.WhatHappened == nil:
		return nil, missing("report_summary.what_happened")
	case s.WhyRisky == nil:
		return nil, missing("report_summary.why_risky")
	case s.NextSteps == nil:
		return nil, missing("report_summary.next_steps")
	case s.EvidenceChecklist == nil:
		return nil, missing("report_summary.evidence_checklist")
	}

	r := &AnalysisResult{
		Category:     Category(*w.Category),
		RiskScore:    *w.RiskScore,
		Confidence:   *w.Confidence,
		WhyItMatters: *w.WhyItMatters,
		SaferReply:   *w.SaferReply,
		ReportSummary: ReportSummary{
			WhatHappened: *s.WhatHappened,
		},
		Limitations: *w.Limitations,
	}

	var err error
	if r.TopSignals, err = derefList("top_signals", *w.TopSignals); err != nil {
		return nil, err
	}
	if r.DoThisNow, err = derefList("do_this_now", *w.DoThisNow); err != nil {
		return nil, err
	}
	if r.ReportSummary.WhyRisky, err = derefList("report_summary.why_risky", *s.WhyRisky); err != nil {
		return nil, err
	}
	if r.ReportSummary.NextSteps, err = derefList("report_summary.next_steps", *s.NextSteps); err != nil {
		return nil, err
	}
	if r.ReportSummary.EvidenceChecklist, err = derefList("report_summary.evidence_checklist", *s.EvidenceChecklist); err != nil {
		return nil, err
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// DecodeResults parses a JSON array of results. One bad entry rejects the
// whole array.
func DecodeResults(data []byte) ([]AnalysisResult, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &FieldError{Field: "[]", Reason: "malformed", Err: err}
	}
	out := make([]AnalysisResult, 0, len(raw))
	for i, item := range raw {
		r, err := DecodeResult(item)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		out = append(out, *r)
	}
	return out, nil
}

// Validate checks the value-level invariants of an already typed result.
func (r *AnalysisResult) Validate() error {
	if !r.Category.Valid() {
		return &FieldError{Field: "category", Reason: fmt.Sprintf("unknown category %q", r.Category)}
	}
	if r.RiskScore < 0 || r.RiskScore > 100 {
		return &FieldError{Field: "risk_score", Reason: fmt.Sprintf("%d outside 0..100", r.RiskScore)}
	}
	if r.Confidence < 0 || r.Confidence > 1 {
		return &FieldError{Field: "confidence", Reason: fmt.Sprintf("%g outside 0..1", r.Confidence)}
	}
	return nil
}

// derefList rejects null elements rather than reading them as "".
func derefList(field string, in []*string) ([]string, error) {
	out := make([]string, len(in))
	for i, p := range in {
		if p == nil {
			return nil, &FieldError{Field: fmt.Sprintf("%s[%d]", field, i), Reason: "null element"}
		}
		out[i] = *p
	}
	return out, nil
}

func typeErrorField(err error) string {
	var te *json.UnmarshalTypeError
	if errors.As(err, &te) && te.Field != "" {
		return te.Field
	}
	return "(document)"
}
