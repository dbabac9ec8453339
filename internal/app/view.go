package app

import "fmt"

// View is one screen of the application.
type View int

const (
	ViewHome View = iota
	ViewAnalyzing
	ViewResults
	ViewReport
	ViewEducation
)

var viewNames = map[View]string{
	ViewHome:      "home",
	ViewAnalyzing: "analyzing",
	ViewResults:   "results",
	ViewReport:    "report",
	ViewEducation: "education",
}

func (v View) String() string {
	if name, ok := viewNames[v]; ok {
		return name
	}
	return fmt.Sprintf("View(%d)", int(v))
}

// MarshalText writes the view by name.
func (v View) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// ParseView maps a name back to its View.
func ParseView(s string) (View, error) {
	for v, name := range viewNames {
		if name == s {
			return v, nil
		}
	}
	return ViewHome, fmt.Errorf("unknown view %q", s)
}

// UnmarshalText reads a view name.
func (v *View) UnmarshalText(text []byte) error {
	parsed, err := ParseView(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
