package acknowledgment

import (
	"fmt"
	"strings"

	"github.com/spec-kit/wellness-helpdesk-bot/internal/domain"
)

func notFoundText(reference string) string {
	return fmt.Sprintf("Request %s was not found. It may have been closed already.", reference)
}

func alreadyAcknowledgedText(sub *domain.Submission) string {
	if sub.AcknowledgedBy != nil && *sub.AcknowledgedBy != "" {
		return fmt.Sprintf("%s was already acknowledged by %s.", sub.Reference, *sub.AcknowledgedBy)
	}
	return fmt.Sprintf("%s is %s and cannot be acknowledged.", sub.Reference, sub.Status)
}

func subjectConfirmation(sub *domain.Submission, fallbackName string) string {
	name := sub.SubjectName
	if name == "" {
		name = fallbackName
	}
	greeting := "Hello"
	if name != "" {
		greeting = "Hello " + name
	}
	switch sub.Kind {
	case domain.KindCounseling:
		return fmt.Sprintf("%s, a counselor has acknowledged your request %s and will contact you soon.", greeting, sub.Reference)
	case domain.KindDepartmentComplaint:
		return fmt.Sprintf("%s, your complaint %s has been acknowledged by the department and is being looked into.", greeting, sub.Reference)
	default:
		return fmt.Sprintf("%s, your %s %s has been acknowledged.", greeting, sub.Kind.Label(), sub.Reference)
	}
}

func detailsText(sub *domain.Submission) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s*\nReference: %s\nStatus: %s", sub.Kind.Label(), sub.Reference, sub.Status)
	if sub.Department != "" {
		fmt.Fprintf(&b, "\nDepartment: %s", sub.Department)
	}
	if sub.Urgency != "" {
		fmt.Fprintf(&b, "\nUrgency: %s", sub.Urgency)
	}
	if sub.Description != "" {
		fmt.Fprintf(&b, "\n\n%s", sub.Description)
	}
	return b.String()
}

func messageText(phone, name string) string {
	if phone == "" {
		return "This button is no longer valid."
	}
	if name == "" {
		name = "the student"
	}
	return fmt.Sprintf("Message %s on WhatsApp: https://wa.me/%s", name, strings.TrimPrefix(phone, "+"))
}

func callText(phone string) string {
	if phone == "" {
		return "This button is no longer valid."
	}
	return fmt.Sprintf("Call the student: tel:+%s", strings.TrimPrefix(phone, "+"))
}
