// Package conversation routes inbound chat events through the helpdesk
// workflows.
package conversation

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/wellness-helpdesk-bot/internal/domain"
	"github.com/spec-kit/wellness-helpdesk-bot/internal/messaging"
	"github.com/spec-kit/wellness-helpdesk-bot/internal/questionnaire"
	"github.com/spec-kit/wellness-helpdesk-bot/internal/session"
)

// Config carries the helpdesk-specific text and contacts.
type Config struct {
	HelpdeskName     string
	CounselorContact string
	FallbackContact  string
	CommunityURL     string
}

// Dependencies wires the dispatcher.
type Dependencies struct {
	Sessions    session.Store
	Questions   *questionnaire.Questionnaire
	Sender      messaging.Sender
	Submitter   Submitter
	Departments DepartmentDirectory
	Actions     ActionHandler
	Logger      *zap.Logger
	Config      Config
}

// Dispatcher is the single entry point for inbound events.
type Dispatcher struct {
	sessions    session.Store
	locks       *session.Locker
	questions   *questionnaire.Questionnaire
	urgency     questionnaire.Question
	sender      messaging.Sender
	submitter   Submitter
	departments DepartmentDirectory
	actions     ActionHandler
	logger      *zap.Logger
	cfg         Config
	menu        map[string]func(context.Context, Event)
}

// NewDispatcher builds a dispatcher. Questions defaults to the counseling
// intake.
func NewDispatcher(deps Dependencies) *Dispatcher {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	questions := deps.Questions
	if questions == nil {
		questions = questionnaire.Counseling()
	}
	if deps.Config.HelpdeskName == "" {
		deps.Config.HelpdeskName = "Wellness Helpdesk"
	}
	d := &Dispatcher{
		sessions:    deps.Sessions,
		locks:       session.NewLocker(),
		questions:   questions,
		urgency:     questionnaire.Urgency(),
		sender:      deps.Sender,
		submitter:   deps.Submitter,
		departments: deps.Departments,
		actions:     deps.Actions,
		logger:      logger,
		cfg:         deps.Config,
	}
	d.menu = map[string]func(context.Context, Event){
		ReplyCounseling: d.startCounseling,
		ReplyAnonymous:  d.startAnonymous,
		ReplyDepartment: d.startDepartment,
		ReplyCommunity:  d.showCommunity,
		ReplyAbout:      d.showAbout,
	}
	return d
}

// Dispatch handles one event. Events from the same user are processed one
// at a time; different users proceed concurrently. Outbound failures are
// logged and never abort the flow.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) {
	if strings.TrimSpace(ev.From) == "" {
		d.logger.Warn("dropping event without sender", zap.String("message_id", ev.MessageID))
		return
	}
	unlock := d.locks.Lock(ev.From)
	defer unlock()

	switch ev.Type {
	case EventText:
		d.handleText(ctx, ev)
	case EventInteractive:
		d.handleReply(ctx, ev)
	default:
		d.sendText(ctx, ev.From, msgUnsupported)
	}
}

func (d *Dispatcher) handleText(ctx context.Context, ev Event) {
	text := strings.TrimSpace(ev.Body)
	state := d.sessions.Get(ev.From).State
	if isMenuKeyword(text) {
		body := msgMenuPrompt
		if state == domain.StateInitial {
			body = welcomeText(d.cfg.HelpdeskName, ev.Name())
		}
		d.sessions.SetState(ev.From, domain.StateInitial)
		d.sendMainMenu(ctx, ev.From, body)
		return
	}

	switch {
	case d.questions.Owns(state):
		d.answerQuestion(ctx, ev, state, text)
	case state == domain.StateAnonymousInput:
		d.submitAnonymous(ctx, ev, text)
	case state == domain.StateUrgencySelection:
		d.selectUrgency(ctx, ev, text)
	case state == domain.StateDepartmentInput:
		d.captureDepartmentComplaint(ctx, ev, text)
	default:
		d.sessions.SetState(ev.From, domain.StateInitial)
		d.sendText(ctx, ev.From, greetingText(ev.Name()))
		d.sendMainMenu(ctx, ev.From, msgMenuPrompt)
	}
}

func (d *Dispatcher) handleReply(ctx context.Context, ev Event) {
	id := strings.TrimSpace(ev.ReplyID)
	if start, ok := d.menu[id]; ok {
		start(ctx, ev)
		return
	}
	if d.handleStateReply(ctx, ev, id) {
		return
	}
	if d.actions != nil && d.actions.HandleAction(ctx, ev.From, id) {
		return
	}
	d.logger.Debug("unrecognized reply", zap.String("user", ev.From), zap.String("reply_id", id))
	d.fallbackToMenu(ctx, ev)
}

// handleStateReply accepts replies that are only meaningful in the current
// state. Stale buttons tapped later fall through to the menu.
func (d *Dispatcher) handleStateReply(ctx context.Context, ev Event, id string) bool {
	state := d.sessions.Get(ev.From).State
	switch {
	case id == ReplyCancelRequest || id == ReplyCancelComplaint:
		d.cancel(ctx, ev)
	case id == ReplyConfirmCounselor && state == domain.StateCounselorConfirm:
		d.submitCounseling(ctx, ev)
	case id == ReplyConfirmDepartment && state == domain.StateDepartmentConfirm:
		d.submitDepartment(ctx, ev)
	case d.questions.Owns(state):
		q, _ := d.questions.Current(state)
		if !q.HasOption(id) {
			return false
		}
		d.answerQuestion(ctx, ev, state, id)
	case state == domain.StateDepartmentSelection && strings.HasPrefix(id, departmentReplyPrefix):
		return d.selectDepartment(ctx, ev, id)
	case state == domain.StateUrgencySelection && d.urgency.HasOption(id):
		d.selectUrgency(ctx, ev, id)
	default:
		return false
	}
	return true
}

func (d *Dispatcher) cancel(ctx context.Context, ev Event) {
	d.sessions.Clear(ev.From)
	d.sendText(ctx, ev.From, msgCancelled)
	d.sendMainMenu(ctx, ev.From, msgMenuPrompt)
}

func (d *Dispatcher) showCommunity(ctx context.Context, ev Event) {
	d.sessions.SetState(ev.From, domain.StateInitial)
	d.sendText(ctx, ev.From, communityText(d.cfg.CommunityURL))
	d.sendMainMenu(ctx, ev.From, msgMenuPrompt)
}

func (d *Dispatcher) showAbout(ctx context.Context, ev Event) {
	d.sessions.SetState(ev.From, domain.StateInitial)
	d.sendText(ctx, ev.From, aboutText(d.cfg.HelpdeskName))
	d.sendMainMenu(ctx, ev.From, msgMenuPrompt)
}

func (d *Dispatcher) fallbackToMenu(ctx context.Context, ev Event) {
	d.sessions.SetState(ev.From, domain.StateInitial)
	d.sendMainMenu(ctx, ev.From, welcomeText(d.cfg.HelpdeskName, ev.Name()))
}

func (d *Dispatcher) sendMainMenu(ctx context.Context, to, body string) {
	d.sendChoice(ctx, to, body, mainMenuChoice())
}

func (d *Dispatcher) askQuestion(ctx context.Context, to string, q questionnaire.Question) {
	if q.Kind == questionnaire.KindSingleChoice {
		d.sendChoice(ctx, to, q.Text(), questionChoice(q))
		return
	}
	d.sendText(ctx, to, q.Prompt)
}

func (d *Dispatcher) sendText(ctx context.Context, to, body string) {
	if err := d.sender.SendText(ctx, to, body); err != nil {
		d.logger.Warn("send text failed", zap.String("to", to), zap.Error(err))
	}
}

func (d *Dispatcher) sendChoice(ctx context.Context, to, body string, choice messaging.Choice) {
	if err := d.sender.SendChoice(ctx, to, body, choice); err != nil {
		d.logger.Warn("send choice failed", zap.String("to", to), zap.Error(err))
	}
}
