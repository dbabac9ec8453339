// Package samples exposes the built-in demo messages used to prefill forms.
package samples

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/myjellybean/jellybean/internal/model"
)

//go:embed samples.yaml
var catalogYAML []byte

// Context lists only the flags a sample sets. Absent flags are false.
type Context struct {
	AskedForMoney          *bool `yaml:"asked_for_money" json:"asked_for_money,omitempty"`
	AskedToMoveOffPlatform *bool `yaml:"asked_to_move_off_platform" json:"asked_to_move_off_platform,omitempty"`
	AskedForOTP            *bool `yaml:"asked_for_otp" json:"asked_for_otp,omitempty"`
	ThreatenedMe           *bool `yaml:"threatened_me" json:"threatened_me,omitempty"`
	AskingForMeetup        *bool `yaml:"asking_for_meetup" json:"asking_for_meetup,omitempty"`
	SexualContent          *bool `yaml:"sexual_content" json:"sexual_content,omitempty"`
}

// Sample is one demo message.
type Sample struct {
	ID           int     `yaml:"id" json:"id"`
	Label        string  `yaml:"label" json:"label"`
	Message      string  `yaml:"message" json:"message"`
	Platform     string  `yaml:"platform" json:"platform"`
	Relationship string  `yaml:"relationship" json:"relationship"`
	Context      Context `yaml:"context" json:"context"`
}

// Signals expands the partial context with false defaults.
func (s Sample) Signals() model.ContextSignals {
	v := func(b *bool) bool { return b != nil && *b }
	c := s.Context
	return model.ContextSignals{
		AskedForMoney:          v(c.AskedForMoney),
		AskedToMoveOffPlatform: v(c.AskedToMoveOffPlatform),
		AskedForOTP:            v(c.AskedForOTP),
		ThreatenedMe:           v(c.ThreatenedMe),
		AskingForMeetup:        v(c.AskingForMeetup),
		SexualContent:          v(c.SexualContent),
	}
}

var catalog []Sample

func init() {
	var err error
	catalog, err = parse(catalogYAML)
	if err != nil {
		panic(fmt.Sprintf("samples: %v", err))
	}
}

func parse(data []byte) ([]Sample, error) {
	var out []Sample
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	for _, s := range out {
		if s.Message == "" {
			return nil, fmt.Errorf("sample %d has no message", s.ID)
		}
	}
	return out, nil
}

// All returns a copy of the catalog in display order.
func All() []Sample {
	out := make([]Sample, len(catalog))
	copy(out, catalog)
	return out
}

// Get returns the sample with id.
func Get(id int) (Sample, bool) {
	for _, s := range catalog {
		if s.ID == id {
			return s, true
		}
	}
	return Sample{}, false
}
