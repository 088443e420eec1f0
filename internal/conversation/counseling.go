package conversation

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/wellness-helpdesk-bot/internal/actionid"
	"github.com/spec-kit/wellness-helpdesk-bot/internal/domain"
	"github.com/spec-kit/wellness-helpdesk-bot/internal/messaging"
	"github.com/spec-kit/wellness-helpdesk-bot/internal/questionnaire"
)

func (d *Dispatcher) startCounseling(ctx context.Context, ev Event) {
	d.sessions.Clear(ev.From)
	first, ok := d.questions.First()
	if !ok {
		d.fallbackToMenu(ctx, ev)
		return
	}
	d.sessions.SetState(ev.From, first.State)
	d.sendText(ctx, ev.From, counselingIntro(ev.Name()))
	d.askQuestion(ctx, ev.From, first)
}

func (d *Dispatcher) answerQuestion(ctx context.Context, ev Event, state domain.State, input string) {
	q, ok := d.questions.Current(state)
	if !ok {
		d.fallbackToMenu(ctx, ev)
		return
	}
	value, err := q.Resolve(input)
	if err != nil {
		notice := msgInvalidOption
		if errors.Is(err, questionnaire.ErrEmptyAnswer) {
			notice = msgEmptyAnswer
		}
		d.sendText(ctx, ev.From, notice)
		d.askQuestion(ctx, ev.From, q)
		return
	}
	d.sessions.SetField(ev.From, q.Key, value)

	if next, ok := d.questions.Next(state); ok {
		d.sessions.SetState(ev.From, next.State)
		d.askQuestion(ctx, ev.From, next)
		return
	}
	d.sessions.SetState(ev.From, domain.StateCounselorConfirm)
	d.sendChoice(ctx, ev.From,
		counselingSummary(ev.Name(), ev.From, d.sessions.All(ev.From)),
		confirmChoice(ReplyConfirmCounselor, "Confirm & Submit", ReplyCancelRequest))
}

// submitCounseling keeps the session on failure so the user can confirm
// again.
func (d *Dispatcher) submitCounseling(ctx context.Context, ev Event) {
	fields := d.sessions.All(ev.From)
	fields[domain.FieldName] = ev.Name()
	fields[domain.FieldPhone] = ev.From

	receipt, err := d.submitter.SubmitRecord(ctx, domain.KindCounseling, fields)
	if err != nil {
		d.logger.Error("counseling submission failed", zap.String("user", ev.From), zap.Error(err))
		d.sendText(ctx, ev.From, msgSubmitFailed)
		return
	}

	d.sessions.Clear(ev.From)
	d.sendText(ctx, ev.From, counselingSubmitted(ev.Name(), receipt.Reference))
	d.notifyCounselor(ctx, receipt, ev, fields)
	d.sendMainMenu(ctx, ev.From, msgMenuPrompt)
}

func (d *Dispatcher) notifyCounselor(ctx context.Context, receipt domain.Receipt, ev Event, fields map[string]string) {
	if d.cfg.CounselorContact == "" {
		d.logger.Warn("no counselor contact configured", zap.String("reference", receipt.Reference))
		return
	}
	ack := acknowledgeButton(actionid.Acknowledgement{
		Reference: receipt.Reference,
		Phone:     ev.From,
		Name:      ev.Name(),
		Label:     domain.KindCounseling.Label(),
	})
	d.sendChoice(ctx, d.cfg.CounselorContact,
		counselorAlert(receipt.Reference, ev.Name(), ev.From, fields),
		messaging.Buttons(
			ack,
			messaging.ChoiceOption{ID: actionid.Encode(actionid.TypeOpen, receipt.Reference), Title: "Open Details"},
			messaging.ChoiceOption{ID: actionid.Encode(actionid.TypeCall, ev.From), Title: "Call Student"},
		))
}

// acknowledgeButton drops the optional display fields when the encoded id
// would exceed the platform limit; the reference alone is enough to act.
func acknowledgeButton(a actionid.Acknowledgement) messaging.ChoiceOption {
	id := actionid.EncodeAcknowledge(a)
	if len(id) > actionid.MaxLength {
		a.Name, a.Label = "", ""
		id = actionid.EncodeAcknowledge(a)
	}
	return messaging.ChoiceOption{ID: id, Title: "Acknowledge"}
}
