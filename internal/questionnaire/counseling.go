package questionnaire

import "github.com/spec-kit/wellness-helpdesk-bot/internal/domain"

// Counseling intake keys.
const (
	KeyIssueDescription = "issue_description"
	KeyIssueDuration    = "issue_duration"
	KeyPreviousHelp     = "previous_help"
	KeyUrgencyLevel     = "urgency_level"
	KeyPreferredContact = "preferred_contact"
)

// Counseling returns the five-step counseling intake.
func Counseling() *Questionnaire {
	return New(
		Question{
			Key:    KeyIssueDescription,
			State:  domain.StateCounselorQ1,
			Kind:   KindFreeText,
			Prompt: "What specific issue or concern would you like to discuss with a counselor?\n\nPlease describe your situation in your own words.",
		},
		Question{
			Key:    KeyIssueDuration,
			State:  domain.StateCounselorQ2,
			Kind:   KindSingleChoice,
			Prompt: "How long have you been experiencing this issue?",
			Options: []Option{
				{ID: "duration_week", Label: "Less than a week", Value: "Less than a week"},
				{ID: "duration_fortnight", Label: "1-2 weeks", Value: "1-2 weeks"},
				{ID: "duration_month", Label: "1 month", Value: "1 month"},
				{ID: "duration_over_month", Label: "More than a month", Value: "More than a month"},
				{ID: "duration_months", Label: "Several months", Value: "Several months"},
			},
		},
		Question{
			Key:    KeyPreviousHelp,
			State:  domain.StateCounselorQ3,
			Kind:   KindSingleChoice,
			Prompt: "Have you sought help for this issue before?",
			Options: []Option{
				{ID: "help_counselor", Label: "Yes, a counselor", Value: "Yes, from a professional counselor"},
				{ID: "help_family", Label: "Yes, friends/family", Value: "Yes, from friends/family"},
				{ID: "help_online", Label: "Yes, online resources", Value: "Yes, from online resources"},
				{ID: "help_none", Label: "No, first time", Value: "No, this is my first time seeking help"},
			},
		},
		Question{
			Key:    KeyUrgencyLevel,
			State:  domain.StateCounselorQ4,
			Kind:   KindSingleChoice,
			Prompt: "How urgent do you feel your need for support is?",
			Options: []Option{
				{ID: "need_immediate", Label: "Very urgent", Value: "Very urgent - need immediate help"},
				{ID: "need_week", Label: "Within this week", Value: "Somewhat urgent - within this week"},
				{ID: "need_fortnight", Label: "Within 2 weeks", Value: "Moderate - within 2 weeks"},
				{ID: "need_flexible", Label: "Flexible timing", Value: "Not urgent - flexible timing"},
			},
		},
		Question{
			Key:    KeyPreferredContact,
			State:  domain.StateCounselorQ5,
			Kind:   KindSingleChoice,
			Prompt: "How would you prefer the counselor to contact you?",
			Options: []Option{
				{ID: "contact_whatsapp", Label: "WhatsApp message", Value: "WhatsApp message"},
				{ID: "contact_phone", Label: "Phone call", Value: "Phone call"},
				{ID: "contact_email", Label: "Email", Value: "Email"},
				{ID: "contact_in_person", Label: "In-person meeting", Value: "In-person meeting"},
				{ID: "contact_video", Label: "Video call", Value: "Video call"},
			},
		},
	)
}

// Urgency is the single-choice step of the department complaint flow.
func Urgency() Question {
	return Question{
		Key:    domain.FieldUrgency,
		State:  domain.StateUrgencySelection,
		Kind:   KindSingleChoice,
		Prompt: "How urgent is this issue?",
		Options: []Option{
			{ID: "urgency_low", Label: "Low", Value: "Low"},
			{ID: "urgency_medium", Label: "Medium", Value: "Medium"},
			{ID: "urgency_high", Label: "High", Value: "High"},
			{ID: "urgency_critical", Label: "Critical", Value: "Critical"},
		},
	}
}
