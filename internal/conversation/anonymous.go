package conversation

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/wellness-helpdesk-bot/internal/domain"
)

func (d *Dispatcher) startAnonymous(ctx context.Context, ev Event) {
	d.sessions.Clear(ev.From)
	d.sessions.SetState(ev.From, domain.StateAnonymousInput)
	d.sendText(ctx, ev.From, msgAnonymousIntro)
}

// submitAnonymous stores no display name. On failure the state is kept so
// the user can resend the complaint.
func (d *Dispatcher) submitAnonymous(ctx context.Context, ev Event, text string) {
	if text == "" {
		d.sendText(ctx, ev.From, msgEmptyComplaint)
		return
	}
	receipt, err := d.submitter.SubmitRecord(ctx, domain.KindAnonymousComplaint, map[string]string{
		domain.FieldDescription: text,
		domain.FieldPhone:       ev.From,
	})
	if err != nil {
		d.logger.Error("anonymous submission failed", zap.String("user", ev.From), zap.Error(err))
		d.sendText(ctx, ev.From, msgSubmitFailed)
		return
	}
	d.sessions.Clear(ev.From)
	d.sendText(ctx, ev.From, anonymousSubmitted(receipt.Reference))
	d.sendMainMenu(ctx, ev.From, msgMenuPrompt)
}
