// Package signals guesses context toggles from message text.
package signals

import (
	"regexp"

	"github.com/myjellybean/jellybean/internal/model"
)

// Hint patterns grouped by the flag they set.
var hintPatterns = []struct {
	flag     string
	patterns []*regexp.Regexp
}{
	{
		flag: "asked_for_money",
		patterns: compilePatterns(
			`(?i)(\$\s?\d|\d+\s?(usd|dollars|bucks|eur|€|£))`,
			`(?i)\b(gift\s?cards?|wire|venmo|zelle|cash\s?app|paypal|western union|bitcoin|btc|crypto|usdt)\b`,
			`(?i)\b(send|lend|transfer|pay|owe)\b.{0,20}\b(money|cash|fee|funds|deposit)\b`,
		),
	},
	{
		flag: "asked_to_move_off_platform",
		patterns: compilePatterns(
			`(?i)\b(whats\s?app|telegram|signal|kik|snap(chat)?|wechat|line app)\b`,
			`(?i)\b(text|message|email|call|add)\s+me\s+(at|on)\b`,
			`(?i)\bmove\s+(this|the chat|our chat)\b`,
		),
	},
	{
		flag: "asked_for_otp",
		patterns: compilePatterns(
			`(?i)\b(otp|one[-\s]?time\s+(pass)?code|verification\s+code|security\s+code|2fa|auth(entication)?\s+code)\b`,
			`(?i)\b(send|tell|give|read)\b.{0,20}\b(the\s+)?code\b`,
			`(?i)\b\d{6}\b.{0,20}\bcode\b`,
		),
	},
	{
		flag: "threatened_me",
		patterns: compilePatterns(
			`(?i)\b(or else|you('ll| will) regret|i know where you (live|work)|watch your back)\b`,
			`(?i)\b(kill|hurt|expose|leak|ruin|report you|arrest(ed)?|warrant)\b`,
		),
	},
	{
		flag: "asking_for_meetup",
		patterns: compilePatterns(
			`(?i)\b(meet(\s?up)?|hang out|come over|pick you up|my place|your place)\b`,
			`(?i)\b(tonight|this weekend)\b.{0,30}\b(see you|come|meet)\b`,
		),
	},
	{
		flag: "sexual_content",
		patterns: compilePatterns(
			`(?i)\b(nudes?|naked|sexy|explicit|send pics|spicy pics|sext)\b`,
		),
	},
}

func compilePatterns(patterns ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		res[i] = regexp.MustCompile(p)
	}
	return res
}

// Suggest returns the flags whose patterns match message. It only ever
// proposes flags; callers merge with model.ContextSignals.Merge so a user
// choice is never cleared.
func Suggest(message string) model.ContextSignals {
	var out model.ContextSignals
	for _, hp := range hintPatterns {
		for _, re := range hp.patterns {
			if re.MatchString(message) {
				*out.Flag(hp.flag) = true
				break
			}
		}
	}
	return out
}
