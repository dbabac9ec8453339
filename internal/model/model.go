// Package model defines the core data types shared across jellybean.
package model

import (
	"encoding/json"
	"strings"
)

// Category is the closed set of risk categories a result may carry.
type Category string

const (
	CategoryScamFraud            Category = "scam_fraud"
	CategoryImpersonation        Category = "impersonation"
	CategoryHarassmentAbuse      Category = "harassment_abuse"
	CategoryCoercionManipulation Category = "coercion_manipulation"
	CategoryPrivacyRisk          Category = "privacy_risk"
	CategoryMeetupEscalationRisk Category = "meetup_escalation_risk"
	CategorySelfHarmOrViolence   Category = "self_harm_or_violence_risk"
	CategoryUncertain            Category = "uncertain"
	CategorySafe                 Category = "safe"
)

// Categories lists every valid category in declaration order.
var Categories = []Category{
	CategoryScamFraud,
	CategoryImpersonation,
	CategoryHarassmentAbuse,
	CategoryCoercionManipulation,
	CategoryPrivacyRisk,
	CategoryMeetupEscalationRisk,
	CategorySelfHarmOrViolence,
	CategoryUncertain,
	CategorySafe,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Label returns the category with underscores replaced by spaces.
func (c Category) Label() string {
	return strings.ReplaceAll(string(c), "_", " ")
}

// RiskBand buckets a risk score for display.
type RiskBand int

const (
	RiskLow RiskBand = iota
	RiskMedium
	RiskHigh
)

// HighRiskThreshold is the score at or above which the danger banner is shown.
const HighRiskThreshold = 70

const mediumRiskThreshold = 30

// EmergencyNotice accompanies every high-risk result.
const EmergencyNotice = "If you feel you are in immediate physical danger or being stalked, please contact your local emergency services immediately."

func (r RiskBand) String() string {
	switch r {
	case RiskLow:
		return "low"
	case RiskMedium:
		return "medium"
	case RiskHigh:
		return "high"
	default:
		return "unknown"
	}
}

// BandFor maps a 0-100 score onto a RiskBand.
func BandFor(score int) RiskBand {
	switch {
	case score >= HighRiskThreshold:
		return RiskHigh
	case score >= mediumRiskThreshold:
		return RiskMedium
	default:
		return RiskLow
	}
}

// ContextSignals are the user-supplied risk indicators sent with a message.
type ContextSignals struct {
	AskedForMoney          bool `json:"asked_for_money" yaml:"asked_for_money"`
	AskedToMoveOffPlatform bool `json:"asked_to_move_off_platform" yaml:"asked_to_move_off_platform"`
	AskedForOTP            bool `json:"asked_for_otp" yaml:"asked_for_otp"`
	ThreatenedMe           bool `json:"threatened_me" yaml:"threatened_me"`
	AskingForMeetup        bool `json:"asking_for_meetup" yaml:"asking_for_meetup"`
	SexualContent          bool `json:"sexual_content" yaml:"sexual_content"`
}

// SignalField describes one ContextSignals flag for forms and flags.
type SignalField struct {
	Key   string
	Label string
}

// SignalFields lists the six flags in display order.
var SignalFields = []SignalField{
	{"asked_for_money", "Asked for money"},
	{"asked_to_move_off_platform", "Asked to move off-platform"},
	{"asked_for_otp", "Asked for OTP/code"},
	{"threatened_me", "Threatened me"},
	{"asking_for_meetup", "Asking for meetup"},
	{"sexual_content", "Sexual content"},
}

// Flag returns a pointer to the flag named key, or nil for an unknown key.
func (s *ContextSignals) Flag(key string) *bool {
	switch key {
	case "asked_for_money":
		return &s.AskedForMoney
	case "asked_to_move_off_platform":
		return &s.AskedToMoveOffPlatform
	case "asked_for_otp":
		return &s.AskedForOTP
	case "threatened_me":
		return &s.ThreatenedMe
	case "asking_for_meetup":
		return &s.AskingForMeetup
	case "sexual_content":
		return &s.SexualContent
	default:
		return nil
	}
}

// Merge returns the union of s and o. A flag set in either stays set.
func (s ContextSignals) Merge(o ContextSignals) ContextSignals {
	return ContextSignals{
		AskedForMoney:          s.AskedForMoney || o.AskedForMoney,
		AskedToMoveOffPlatform: s.AskedToMoveOffPlatform || o.AskedToMoveOffPlatform,
		AskedForOTP:            s.AskedForOTP || o.AskedForOTP,
		ThreatenedMe:           s.ThreatenedMe || o.ThreatenedMe,
		AskingForMeetup:        s.AskingForMeetup || o.AskingForMeetup,
		SexualContent:          s.SexualContent || o.SexualContent,
	}
}

// Active returns the keys of the flags that are set.
func (s ContextSignals) Active() []string {
	var keys []string
	for _, f := range SignalFields {
		if *s.Flag(f.Key) {
			keys = append(keys, f.Key)
		}
	}
	return keys
}

// AnalysisRequest is the payload handed to the analysis provider.
type AnalysisRequest struct {
	Message      string         `json:"message"`
	Platform     string         `json:"platform"`
	Relationship string         `json:"relationship"`
	Context      ContextSignals `json:"context"`
}

// ReportSummary is the shareable part of an analysis.
type ReportSummary struct {
	WhatHappened      string   `json:"what_happened"`
	WhyRisky          []string `json:"why_risky"`
	NextSteps         []string `json:"next_steps"`
	EvidenceChecklist []string `json:"evidence_checklist"`
}

// AnalysisResult is the structured assessment returned by the provider.
type AnalysisResult struct {
	Category      Category      `json:"category"`
	RiskScore     int           `json:"risk_score"`
	Confidence    float64       `json:"confidence"`
	TopSignals    []string      `json:"top_signals"`
	WhyItMatters  string        `json:"why_it_matters"`
	DoThisNow     []string      `json:"do_this_now"`
	SaferReply    string        `json:"safer_reply"`
	ReportSummary ReportSummary `json:"report_summary"`
	Limitations   string        `json:"limitations"`
}

// Band returns the display band for the result's score.
func (r AnalysisResult) Band() RiskBand {
	return BandFor(r.RiskScore)
}

// HighRisk reports whether the immediate-danger banner applies.
func (r AnalysisResult) HighRisk() bool {
	return r.RiskScore >= HighRiskThreshold
}

// MarshalJSON always writes list fields as arrays so a stored result
// decodes again under the strict reader.
func (r AnalysisResult) MarshalJSON() ([]byte, error) {
	type alias AnalysisResult
	out := alias(r)
	out.TopSignals = nonNil(out.TopSignals)
	out.DoThisNow = nonNil(out.DoThisNow)
	out.ReportSummary.WhyRisky = nonNil(out.ReportSummary.WhyRisky)
	out.ReportSummary.NextSteps = nonNil(out.ReportSummary.NextSteps)
	out.ReportSummary.EvidenceChecklist = nonNil(out.ReportSummary.EvidenceChecklist)
	return json.Marshal(out)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
