// Package questionnaire holds ordered question definitions and resolves
// answers to the values stored in a session.
package questionnaire

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spec-kit/wellness-helpdesk-bot/internal/domain"
)

// Kind distinguishes free-text questions from single-choice ones.
type Kind string

const (
	KindFreeText     Kind = "free_text"
	KindSingleChoice Kind = "single_choice"
)

var (
	ErrEmptyAnswer   = errors.New("answer is empty")
	ErrUnknownOption = errors.New("option not offered by question")
)

// Option is one selectable answer. Value is what gets stored; ID is only
// what the chat platform echoes back.
type Option struct {
	ID    string
	Label string
	Value string
}

// Question is a static question definition.
type Question struct {
	Key     string
	State   domain.State
	Prompt  string
	Kind    Kind
	Options []Option
}

// Resolve turns raw input into the value stored under Key. Single-choice
// questions accept an option id, its 1-based position or its label.
func (q Question) Resolve(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", ErrEmptyAnswer
	}
	if q.Kind != KindSingleChoice {
		return input, nil
	}
	for _, opt := range q.Options {
		if opt.ID == input {
			return opt.Value, nil
		}
	}
	if n, err := strconv.Atoi(input); err == nil {
		if n >= 1 && n <= len(q.Options) {
			return q.Options[n-1].Value, nil
		}
		return "", fmt.Errorf("%w: %d", ErrUnknownOption, n)
	}
	for _, opt := range q.Options {
		if strings.EqualFold(opt.Label, input) || strings.EqualFold(opt.Value, input) {
			return opt.Value, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOption, input)
}

// HasOption reports whether id is one of the question's option ids.
func (q Question) HasOption(id string) bool {
	for _, opt := range q.Options {
		if opt.ID == id {
			return true
		}
	}
	return false
}

// Text renders the prompt with numbered options so the question can be
// answered by typing.
func (q Question) Text() string {
	if q.Kind != KindSingleChoice || len(q.Options) == 0 {
		return q.Prompt
	}
	var b strings.Builder
	b.WriteString(q.Prompt)
	b.WriteString("\n")
	for i, opt := range q.Options {
		fmt.Fprintf(&b, "\n%d. %s", i+1, opt.Label)
	}
	return b.String()
}

// Questionnaire is an ordered list of questions; the next question is the
// one after the current state's position.
type Questionnaire struct {
	questions []Question
	index     map[domain.State]int
}

// New builds a questionnaire. States must be unique.
func New(questions ...Question) *Questionnaire {
	q := &Questionnaire{
		questions: append([]Question(nil), questions...),
		index:     make(map[domain.State]int, len(questions)),
	}
	for i, question := range q.questions {
		q.index[question.State] = i
	}
	return q
}

// First returns the opening question.
func (q *Questionnaire) First() (Question, bool) {
	if len(q.questions) == 0 {
		return Question{}, false
	}
	return q.questions[0], true
}

// Current returns the question asked in state.
func (q *Questionnaire) Current(state domain.State) (Question, bool) {
	i, ok := q.index[state]
	if !ok {
		return Question{}, false
	}
	return q.questions[i], true
}

// Next returns the question after state, or false when state is the last one.
func (q *Questionnaire) Next(state domain.State) (Question, bool) {
	i, ok := q.index[state]
	if !ok || i+1 >= len(q.questions) {
		return Question{}, false
	}
	return q.questions[i+1], true
}

// Owns reports whether state is one of this questionnaire's question states.
func (q *Questionnaire) Owns(state domain.State) bool {
	_, ok := q.index[state]
	return ok
}

// Keys lists the data keys a completed questionnaire produces, in order.
func (q *Questionnaire) Keys() []string {
	keys := make([]string, 0, len(q.questions))
	for _, question := range q.questions {
		keys = append(keys, question.Key)
	}
	return keys
}
