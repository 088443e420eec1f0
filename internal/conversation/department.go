package conversation

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/wellness-helpdesk-bot/internal/actionid"
	"github.com/spec-kit/wellness-helpdesk-bot/internal/domain"
	"github.com/spec-kit/wellness-helpdesk-bot/internal/messaging"
)

func (d *Dispatcher) startDepartment(ctx context.Context, ev Event) {
	d.sessions.Clear(ev.From)
	depts := d.lookupDepartments(ctx)
	d.sessions.SetState(ev.From, domain.StateDepartmentSelection)
	d.sendChoice(ctx, ev.From, msgSelectDepartment, departmentChoice(depts))
}

func (d *Dispatcher) lookupDepartments(ctx context.Context) []domain.Department {
	if d.departments == nil {
		return FallbackDepartments(d.cfg.FallbackContact)
	}
	depts, err := d.departments.LookupDepartments(ctx)
	if err != nil {
		d.logger.Warn("department lookup failed, using fallback list", zap.Error(err))
		return FallbackDepartments(d.cfg.FallbackContact)
	}
	if len(depts) == 0 {
		return FallbackDepartments(d.cfg.FallbackContact)
	}
	return depts
}

func (d *Dispatcher) selectDepartment(ctx context.Context, ev Event, id string) bool {
	var (
		dept  domain.Department
		found bool
	)
	for _, candidate := range d.lookupDepartments(ctx) {
		if DepartmentReplyID(candidate.Code) == id {
			dept, found = candidate, true
			break
		}
	}
	if !found {
		return false
	}

	head := dept.HeadContact
	if head == "" {
		head = d.cfg.FallbackContact
	}
	d.sessions.SetField(ev.From, domain.FieldDepartment, dept.Name)
	d.sessions.SetField(ev.From, domain.FieldDepartmentCode, dept.Code)
	d.sessions.SetField(ev.From, domain.FieldHeadContact, head)
	d.sessions.SetState(ev.From, domain.StateUrgencySelection)
	d.sendChoice(ctx, ev.From, departmentSelected(dept.Name)+"\n\n"+d.urgency.Text(), questionChoice(d.urgency))
	return true
}

func (d *Dispatcher) selectUrgency(ctx context.Context, ev Event, input string) {
	value, err := d.urgency.Resolve(input)
	if err != nil {
		d.sendText(ctx, ev.From, msgInvalidOption)
		d.askQuestion(ctx, ev.From, d.urgency)
		return
	}
	d.sessions.SetField(ev.From, domain.FieldUrgency, value)
	d.sessions.SetState(ev.From, domain.StateDepartmentInput)
	dept, _ := d.sessions.Field(ev.From, domain.FieldDepartment)
	d.sendText(ctx, ev.From, departmentDetailPrompt(dept, value))
}

func (d *Dispatcher) captureDepartmentComplaint(ctx context.Context, ev Event, text string) {
	if text == "" {
		d.sendText(ctx, ev.From, msgEmptyComplaint)
		return
	}
	d.sessions.SetField(ev.From, domain.FieldDescription, text)
	d.sessions.SetState(ev.From, domain.StateDepartmentConfirm)
	d.sendChoice(ctx, ev.From,
		departmentSummary(ev.Name(), ev.From, d.sessions.All(ev.From)),
		confirmChoice(ReplyConfirmDepartment, "Submit Complaint", ReplyCancelComplaint))
}

// submitDepartment clears the session whether or not the submission
// succeeds.
func (d *Dispatcher) submitDepartment(ctx context.Context, ev Event) {
	fields := d.sessions.All(ev.From)
	fields[domain.FieldName] = ev.Name()
	fields[domain.FieldPhone] = ev.From

	receipt, err := d.submitter.SubmitRecord(ctx, domain.KindDepartmentComplaint, fields)
	d.sessions.Clear(ev.From)
	if err != nil {
		d.logger.Error("department submission failed", zap.String("user", ev.From), zap.Error(err))
		d.sendText(ctx, ev.From, msgDepartmentFailed)
		d.sendMainMenu(ctx, ev.From, msgMenuPrompt)
		return
	}

	d.sendText(ctx, ev.From, departmentSubmitted(ev.Name(), fields[domain.FieldDepartment], receipt.Reference))
	d.notifyDepartmentHead(ctx, receipt, ev, fields)
	d.sendMainMenu(ctx, ev.From, msgMenuPrompt)
}

func (d *Dispatcher) notifyDepartmentHead(ctx context.Context, receipt domain.Receipt, ev Event, fields map[string]string) {
	contact := receipt.HeadContact
	if contact == "" {
		contact = fields[domain.FieldHeadContact]
	}
	if contact == "" {
		contact = d.cfg.FallbackContact
	}
	if contact == "" {
		d.logger.Warn("no department head contact", zap.String("reference", receipt.Reference))
		return
	}
	ack := acknowledgeButton(actionid.Acknowledgement{
		Reference: receipt.Reference,
		Phone:     ev.From,
		Name:      ev.Name(),
		Label:     fields[domain.FieldDepartmentCode],
	})
	d.sendChoice(ctx, contact,
		departmentAlert(receipt.Reference, ev.Name(), ev.From, fields),
		messaging.Buttons(
			ack,
			messaging.ChoiceOption{ID: actionid.Encode(actionid.TypeMessage, ev.From, ev.Name()), Title: "Message Student"},
			messaging.ChoiceOption{ID: actionid.Encode(actionid.TypeCall, ev.From), Title: "Call Student"},
		))
}
