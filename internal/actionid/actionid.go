// Package actionid packs workflow context into the reply-button ids shown to
// staff and unpacks them when the platform echoes them back.
//
// Layout: <type>_<field1>_<field2>... where each field is query-escaped and
// any literal underscore inside a field is written as %5F.
package actionid

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Delimiter separates the action type and its fields.
const Delimiter = "_"

// MaxLength is the longest id the chat platform accepts on a reply button.
const MaxLength = 256

// Action types carried on staff buttons.
const (
	TypeAcknowledge = "acknowledge"
	TypeOpen        = "open"
	TypeMessage     = "message"
	TypeCall        = "call"
)

var (
	ErrEmpty     = errors.New("action id is empty")
	ErrMalformed = errors.New("action id is malformed")
)

// Action is a decoded identifier.
type Action struct {
	Type   string
	Fields []string
}

// Known reports whether the action type is one staff buttons use.
func (a Action) Known() bool {
	switch a.Type {
	case TypeAcknowledge, TypeOpen, TypeMessage, TypeCall:
		return true
	}
	return false
}

// Encode joins actionType and the escaped fields.
func Encode(actionType string, fields ...string) string {
	parts := make([]string, 0, len(fields)+1)
	parts = append(parts, actionType)
	for _, f := range fields {
		parts = append(parts, escape(f))
	}
	return strings.Join(parts, Delimiter)
}

// Decode splits raw on the delimiter and unescapes each field. Type specific
// validation is left to the caller.
func Decode(raw string) (Action, error) {
	if strings.TrimSpace(raw) == "" {
		return Action{}, ErrEmpty
	}
	parts := strings.Split(raw, Delimiter)
	action := Action{Type: parts[0], Fields: make([]string, 0, len(parts)-1)}
	if action.Type == "" {
		return Action{}, fmt.Errorf("%w: missing type", ErrMalformed)
	}
	for _, p := range parts[1:] {
		f, err := url.QueryUnescape(p)
		if err != nil {
			return Action{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		action.Fields = append(action.Fields, f)
	}
	return action, nil
}

func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), Delimiter, "%5F")
}
