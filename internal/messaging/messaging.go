// Package messaging delivers outbound chat messages.
package messaging

import "context"

// Platform limits for interactive messages.
const (
	MaxButtons           = 3
	MaxButtonTitle       = 20
	MaxRowTitle          = 24
	MaxRowDescription    = 72
	MaxListButton        = 20
	MaxListSectionTitle  = 24
	defaultListButtonTxt = "Select"
)

// ChoiceOption is one selectable row or button.
type ChoiceOption struct {
	ID          string
	Title       string
	Description string
}

// Section groups options in a list message.
type Section struct {
	Title   string
	Options []ChoiceOption
}

// Choice describes a structured-choice message. A single section with at
// most MaxButtons options is sent as reply buttons, anything else as a list.
type Choice struct {
	Button   string
	Sections []Section
}

// Buttons builds a single-section choice.
func Buttons(opts ...ChoiceOption) Choice {
	return Choice{Sections: []Section{{Options: opts}}}
}

// AsButtons reports whether the choice fits the reply-button layout.
func (c Choice) AsButtons() bool {
	return len(c.Sections) == 1 && len(c.Sections[0].Options) <= MaxButtons
}

// Options flattens all sections.
func (c Choice) Options() []ChoiceOption {
	var out []ChoiceOption
	for _, s := range c.Sections {
		out = append(out, s.Options...)
	}
	return out
}

// Sender is the outbound chat port. Callers treat failures as best-effort.
type Sender interface {
	SendText(ctx context.Context, to, body string) error
	SendChoice(ctx context.Context, to, body string, choice Choice) error
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
