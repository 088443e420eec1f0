package conversation

import (
	"strings"

	"github.com/spec-kit/wellness-helpdesk-bot/internal/domain"
	"github.com/spec-kit/wellness-helpdesk-bot/internal/messaging"
	"github.com/spec-kit/wellness-helpdesk-bot/internal/questionnaire"
)

// Reply ids carried on menu and confirmation buttons.
const (
	ReplyCounseling        = "connect_counselors"
	ReplyAnonymous         = "anonymous_complaints"
	ReplyDepartment        = "department_complaints"
	ReplyCommunity         = "community"
	ReplyAbout             = "about"
	ReplyConfirmCounselor  = "confirm_counselor_request"
	ReplyCancelRequest     = "cancel_request"
	ReplyConfirmDepartment = "confirm_department_complaint"
	ReplyCancelComplaint   = "cancel_complaint"

	departmentReplyPrefix = "dept_"
)

var menuKeywords = map[string]struct{}{
	"menu":  {},
	"start": {},
	"hi":    {},
	"hello": {},
}

func isMenuKeyword(text string) bool {
	_, ok := menuKeywords[strings.ToLower(strings.TrimSpace(text))]
	return ok
}

// DepartmentReplyID is the list row id for a department code.
func DepartmentReplyID(code string) string {
	return departmentReplyPrefix + strings.ToLower(code)
}

// FallbackDepartments is used when the directory is unavailable or empty.
func FallbackDepartments(contact string) []domain.Department {
	return []domain.Department{
		{Code: "MCA", Name: "MCA - Master of Computer Applications", HeadContact: contact, IsActive: true},
		{Code: "MSC_AIML", Name: "MSC AIML - MSc Artificial Intelligence & Machine Learning", HeadContact: contact, IsActive: true},
	}
}

func mainMenuChoice() messaging.Choice {
	return messaging.Choice{
		Button: "Select Service",
		Sections: []messaging.Section{
			{
				Title: "Support Services",
				Options: []messaging.ChoiceOption{
					{ID: ReplyCounseling, Title: "Connect with Counselors", Description: "Get professional mental health support"},
					{ID: ReplyAnonymous, Title: "Anonymous Complaints", Description: "Submit anonymous concerns safely"},
					{ID: ReplyDepartment, Title: "Department Complaints", Description: "Report department-specific issues"},
				},
			},
			{
				Title: "Information & Community",
				Options: []messaging.ChoiceOption{
					{ID: ReplyCommunity, Title: "Community Platform", Description: "Visit our wellness community website"},
					{ID: ReplyAbout, Title: "About This Service", Description: "Learn about our support system"},
				},
			},
		},
	}
}

func departmentChoice(depts []domain.Department) messaging.Choice {
	opts := make([]messaging.ChoiceOption, 0, len(depts))
	for _, d := range depts {
		opts = append(opts, messaging.ChoiceOption{
			ID:          DepartmentReplyID(d.Code),
			Title:       shortName(d),
			Description: d.Name,
		})
	}
	return messaging.Choice{Button: "Departments", Sections: []messaging.Section{{Title: "Departments", Options: opts}}}
}

// questionChoice lists options as rows even when few, so typed numbers and
// taps stay interchangeable.
func questionChoice(q questionnaire.Question) messaging.Choice {
	opts := make([]messaging.ChoiceOption, 0, len(q.Options))
	for _, o := range q.Options {
		opt := messaging.ChoiceOption{ID: o.ID, Title: o.Label}
		if o.Value != o.Label {
			opt.Description = o.Value
		}
		opts = append(opts, opt)
	}
	return messaging.Choice{Button: "Choose", Sections: []messaging.Section{{Title: "Options", Options: opts}}}
}

func confirmChoice(confirmID, confirmTitle, cancelID string) messaging.Choice {
	return messaging.Buttons(
		messaging.ChoiceOption{ID: confirmID, Title: confirmTitle},
		messaging.ChoiceOption{ID: cancelID, Title: "Cancel"},
	)
}

// shortName is the department label before " - ", e.g. "MCA".
func shortName(d domain.Department) string {
	if i := strings.Index(d.Name, " - "); i > 0 {
		return d.Name[:i]
	}
	if d.Name != "" {
		return d.Name
	}
	return strings.ReplaceAll(d.Code, "_", " ")
}
