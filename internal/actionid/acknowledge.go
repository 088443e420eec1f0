package actionid

import (
	"fmt"
	"strings"
)

// Acknowledge field order: reference, subject phone, subject name, label.
const acknowledgeFields = 4

// Acknowledgement is the payload of an acknowledge action.
type Acknowledgement struct {
	Reference string
	Phone     string
	Name      string
	Label     string
}

// EncodeAcknowledge builds an acknowledge id in the documented field order.
func EncodeAcknowledge(a Acknowledgement) string {
	return Encode(TypeAcknowledge, a.Reference, a.Phone, a.Name, a.Label)
}

// ParseAcknowledge reads an acknowledge action. Ids produced by older
// senders may carry fewer fields (only the first and last are trusted) or
// unescaped delimiters inside the name (the middle segments are rejoined).
func ParseAcknowledge(a Action) (Acknowledgement, error) {
	if a.Type != TypeAcknowledge {
		return Acknowledgement{}, fmt.Errorf("%w: type %q is not %s", ErrMalformed, a.Type, TypeAcknowledge)
	}
	f := a.Fields
	var out Acknowledgement
	switch {
	case len(f) == 0:
	case len(f) < acknowledgeFields:
		out.Reference = f[0]
		if len(f) > 1 {
			out.Phone = f[len(f)-1]
		}
	case len(f) == acknowledgeFields:
		out = Acknowledgement{Reference: f[0], Phone: f[1], Name: f[2], Label: f[3]}
	default:
		out = Acknowledgement{
			Reference: f[0],
			Phone:     f[1],
			Name:      strings.Join(f[2:len(f)-1], Delimiter),
			Label:     f[len(f)-1],
		}
	}
	if strings.TrimSpace(out.Reference) == "" {
		return Acknowledgement{}, fmt.Errorf("%w: missing reference", ErrMalformed)
	}
	return out, nil
}
