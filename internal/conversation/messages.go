package conversation

import (
	"fmt"
	"strings"

	"github.com/spec-kit/wellness-helpdesk-bot/internal/domain"
	"github.com/spec-kit/wellness-helpdesk-bot/internal/questionnaire"
)

const (
	msgMenuPrompt       = "How else can we help you today? Choose a service from the menu below."
	msgUnsupported      = "I can only process text messages and menu selections. Please type a message or choose an option from the menu."
	msgInvalidOption    = "That option isn't available. Please choose one of the options listed."
	msgEmptyAnswer      = "Please type your answer so we can continue."
	msgEmptyComplaint   = "Your message was empty. Please describe the issue in a few words."
	msgSubmitFailed     = "Sorry, we couldn't submit your request right now. Please try again in a moment."
	msgDepartmentFailed = "Sorry, we couldn't submit your complaint right now. Please start again from the menu."
	msgCancelled        = "Your request has been cancelled. Nothing was submitted."
	msgSelectDepartment = "Please select your department from the list below."
	msgAnonymousIntro   = "*Anonymous Complaint*\n\nYour identity will not be shared with anyone reviewing this complaint.\n\nPlease describe your concern in a single message."
)

func welcomeText(helpdesk, name string) string {
	return fmt.Sprintf("Hello %s, welcome to the %s.\n\nWe're here to support you. Choose a service from the menu below.", name, helpdesk)
}

func greetingText(name string) string {
	return fmt.Sprintf("Hi %s! Please use the menu below to choose how we can help.", name)
}

func counselingIntro(name string) string {
	return fmt.Sprintf("Thank you for reaching out, %s.\n\nI'll ask you five short questions so a counselor can understand your situation. Your answers are kept confidential.", name)
}

func counselingSummary(name, phone string, data map[string]string) string {
	var b strings.Builder
	b.WriteString("*Counseling Request Summary*\n\n")
	fmt.Fprintf(&b, "Name: %s\nPhone: %s\n", name, phone)
	fmt.Fprintf(&b, "\nIssue: %s", data[questionnaire.KeyIssueDescription])
	fmt.Fprintf(&b, "\nDuration: %s", data[questionnaire.KeyIssueDuration])
	fmt.Fprintf(&b, "\nPrevious help: %s", data[questionnaire.KeyPreviousHelp])
	fmt.Fprintf(&b, "\nUrgency: %s", data[questionnaire.KeyUrgencyLevel])
	fmt.Fprintf(&b, "\nPreferred contact: %s", data[questionnaire.KeyPreferredContact])
	b.WriteString("\n\nPlease confirm to send this request to a counselor.")
	return b.String()
}

func counselingSubmitted(name, reference string) string {
	return fmt.Sprintf("Thank you, %s. Your counseling request has been submitted.\n\nReference: %s\n\nA counselor will contact you soon.", name, reference)
}

func counselorAlert(ref, name, phone string, data map[string]string) string {
	return fmt.Sprintf("*New Counseling Request*\n\nReference: %s\nStudent: %s\nPhone: %s\n\nIssue: %s\nDuration: %s\nPrevious help: %s\nUrgency: %s\nPreferred contact: %s",
		ref, name, phone,
		data[questionnaire.KeyIssueDescription],
		data[questionnaire.KeyIssueDuration],
		data[questionnaire.KeyPreviousHelp],
		data[questionnaire.KeyUrgencyLevel],
		data[questionnaire.KeyPreferredContact],
	)
}

func anonymousSubmitted(reference string) string {
	return fmt.Sprintf("Your anonymous complaint has been submitted.\n\nReference: %s\n\nThank you for speaking up.", reference)
}

func departmentSelected(department string) string {
	return fmt.Sprintf("Department: %s", department)
}

func departmentDetailPrompt(department, urgency string) string {
	return fmt.Sprintf("Department: %s\nUrgency: %s\n\nPlease describe the issue in detail.", department, urgency)
}

func departmentSummary(name, phone string, data map[string]string) string {
	return fmt.Sprintf("*Department Complaint Summary*\n\nName: %s\nPhone: %s\nDepartment: %s\nUrgency: %s\n\nIssue: %s\n\nPlease confirm to send this complaint to the department head.",
		name, phone, data[domain.FieldDepartment], data[domain.FieldUrgency], data[domain.FieldDescription])
}

func departmentSubmitted(name, department, reference string) string {
	return fmt.Sprintf("Thank you, %s. Your complaint for %s has been submitted.\n\nReference: %s\n\nThe department head has been notified.", name, department, reference)
}

func departmentAlert(ref, name, phone string, data map[string]string) string {
	return fmt.Sprintf("*New Department Complaint*\n\nReference: %s\nDepartment: %s\nUrgency: %s\nStudent: %s\nPhone: %s\n\nIssue: %s",
		ref, data[domain.FieldDepartment], data[domain.FieldUrgency], name, phone, data[domain.FieldDescription])
}

func communityText(url string) string {
	if url == "" {
		return "Our wellness community platform is coming soon. Stay tuned!"
	}
	return fmt.Sprintf("Join our wellness community to connect with peers and find resources:\n%s", url)
}

func aboutText(helpdesk string) string {
	return fmt.Sprintf("*About the %s*\n\nWe connect students with counselors, accept anonymous complaints and route department issues to the right people. Conversations are private and requests are handled by university staff.", helpdesk)
}
