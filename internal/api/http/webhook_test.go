package http_test

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	apihttp "github.com/spec-kit/wellness-helpdesk-bot/internal/api/http"
	"github.com/spec-kit/wellness-helpdesk-bot/internal/api/http/handlers"
	"github.com/spec-kit/wellness-helpdesk-bot/internal/auth"
	"github.com/spec-kit/wellness-helpdesk-bot/internal/conversation"
	"github.com/spec-kit/wellness-helpdesk-bot/internal/observability"
	"github.com/spec-kit/wellness-helpdesk-bot/internal/repository"
)

type capturingDispatcher struct {
	mu     sync.Mutex
	events []conversation.Event
}

func (d *capturingDispatcher) Dispatch(_ context.Context, ev conversation.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, ev)
}

func (d *capturingDispatcher) Events() []conversation.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]conversation.Event(nil), d.events...)
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

const textDelivery = `{
  "object": "whatsapp_business_account",
  "entry": [{
    "id": "1",
    "changes": [{
      "field": "messages",
      "value": {
        "messaging_product": "whatsapp",
        "contacts": [{"wa_id": "919000000001", "profile": {"name": "Asha"}}],
        "messages": [
          {"from": "919000000001", "id": "wamid.1", "type": "text", "text": {"body": "hi"}},
          {"from": "919000000001", "id": "wamid.2", "type": "interactive",
           "interactive": {"type": "list_reply", "list_reply": {"id": "department_complaints", "title": "Department"}}},
          {"from": "919000000002", "id": "wamid.3", "type": "interactive",
           "interactive": {"type": "button_reply", "button_reply": {"id": "cancel_request", "title": "Cancel"}}},
          {"from": "919000000002", "id": "wamid.4", "type": "image"}
        ]
      }
    }]
  }]
}`

var _ = Describe("Webhook routes", func() {
	var (
		app        *fiber.App
		dispatcher *capturingDispatcher
		metrics    *observability.Metrics
		signature  *auth.SignatureMiddleware
		health     map[string]handlers.Pinger
	)

	JustBeforeEach(func() {
		app = fiber.New()
		apihttp.RegisterMiddlewares(app, zap.NewNop(), metrics, time.Second)
		apihttp.RegisterRoutes(app, apihttp.RouteConfig{
			Health:    handlers.NewHealthHandler("helpdesk", "test", health),
			Webhook:   handlers.NewWebhookHandler("verify-me", dispatcher, repository.NewMemoryDedup(time.Hour), zap.NewNop(), metrics),
			Signature: signature,
		})
	})

	BeforeEach(func() {
		dispatcher = &capturingDispatcher{}
		metrics = observability.NewMetrics()
		signature = auth.NewSignatureMiddleware("")
		health = nil
	})

	do := func(method, target, body string, headers map[string]string) (int, string) {
		var reader io.Reader
		if body != "" {
			reader = strings.NewReader(body)
		}
		req := httptest.NewRequest(method, target, reader)
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		resp, err := app.Test(req)
		Expect(err).NotTo(HaveOccurred())
		raw, err := io.ReadAll(resp.Body)
		Expect(err).NotTo(HaveOccurred())
		return resp.StatusCode, string(raw)
	}

	Describe("GET /webhook", func() {
		It("echoes the challenge for the right token", func() {
			status, body := do(fiber.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=verify-me&hub.challenge=12345", "", nil)
			Expect(status).To(Equal(fiber.StatusOK))
			Expect(body).To(Equal("12345"))
		})

		It("rejects a wrong token", func() {
			status, _ := do(fiber.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=nope&hub.challenge=1", "", nil)
			Expect(status).To(Equal(fiber.StatusForbidden))
		})

		It("counts rejected requests under the status sent to the client", func() {
			do(fiber.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=nope&hub.challenge=1", "", nil)
			do(fiber.MethodGet, "/webhook", "", nil)
			Expect(metrics.Requests("/webhook", fiber.MethodGet, fiber.StatusForbidden)).To(Equal(int64(1)))
			Expect(metrics.Requests("/webhook", fiber.MethodGet, fiber.StatusBadRequest)).To(Equal(int64(1)))
			Expect(metrics.Requests("/webhook", fiber.MethodGet, fiber.StatusInternalServerError)).To(BeZero())
		})

		It("requires the verification parameters", func() {
			status, body := do(fiber.MethodGet, "/webhook", "", nil)
			Expect(status).To(Equal(fiber.StatusBadRequest))
			Expect(body).To(ContainSubstring("VALIDATION_FAILED"))
		})
	})

	Describe("POST /webhook", func() {
		It("turns each message into an event", func() {
			status, body := do(fiber.MethodPost, "/webhook", textDelivery, nil)
			Expect(status).To(Equal(fiber.StatusOK))
			Expect(body).To(ContainSubstring(`"processed":4`))

			events := dispatcher.Events()
			Expect(events).To(HaveLen(4))
			Expect(events[0]).To(Equal(conversation.Event{
				Type: conversation.EventText, From: "919000000001", Body: "hi", DisplayName: "Asha", MessageID: "wamid.1",
			}))
			Expect(events[1].Type).To(Equal(conversation.EventInteractive))
			Expect(events[1].ReplyID).To(Equal("department_complaints"))
			Expect(events[2].ReplyID).To(Equal("cancel_request"))
			Expect(events[2].Name()).To(Equal(conversation.DefaultDisplayName))
			Expect(events[3].Type).To(Equal(conversation.EventUnsupported))
			Expect(metrics.Events("text")).To(Equal(int64(1)))
		})

		It("skips redelivered messages", func() {
			do(fiber.MethodPost, "/webhook", textDelivery, nil)
			status, _ := do(fiber.MethodPost, "/webhook", textDelivery, nil)
			Expect(status).To(Equal(fiber.StatusOK))
			Expect(dispatcher.Events()).To(HaveLen(4))
			Expect(metrics.Events("duplicate")).To(Equal(int64(4)))
		})

		It("ignores payloads for other objects", func() {
			status, _ := do(fiber.MethodPost, "/webhook", `{"object":"page","entry":[]}`, nil)
			Expect(status).To(Equal(fiber.StatusNotFound))
			Expect(dispatcher.Events()).To(BeEmpty())
		})

		It("rejects unparsable bodies", func() {
			status, _ := do(fiber.MethodPost, "/webhook", `{not json`, nil)
			Expect(status).To(Equal(fiber.StatusBadRequest))
		})

		Context("with an app secret", func() {
			BeforeEach(func() {
				signature = auth.NewSignatureMiddleware("s3cret")
			})

			It("accepts signed deliveries", func() {
				status, _ := do(fiber.MethodPost, "/webhook", textDelivery, map[string]string{
					auth.SignatureHeader: auth.Sign("s3cret", []byte(textDelivery)),
				})
				Expect(status).To(Equal(fiber.StatusOK))
				Expect(dispatcher.Events()).To(HaveLen(4))
			})

			It("drops unsigned deliveries", func() {
				status, _ := do(fiber.MethodPost, "/webhook", textDelivery, nil)
				Expect(status).To(Equal(fiber.StatusUnauthorized))
				Expect(dispatcher.Events()).To(BeEmpty())
				Expect(metrics.Requests("/webhook", fiber.MethodPost, fiber.StatusUnauthorized)).To(Equal(int64(1)))
			})
		})
	})

	Describe("health", func() {
		It("is live", func() {
			status, body := do(fiber.MethodGet, "/health/live", "", nil)
			Expect(status).To(Equal(fiber.StatusOK))
			Expect(body).To(ContainSubstring("alive"))
		})

		It("reports failing dependencies", func() {
			health = map[string]handlers.Pinger{"store": pinger{}, "redis": pinger{err: errors.New("down")}, "skipped": nil}
			status, body := do(fiber.MethodGet, "/health/ready", "", nil)
			Expect(status).To(Equal(fiber.StatusServiceUnavailable))
			Expect(body).To(ContainSubstring(`"redis":"down"`))
			Expect(body).NotTo(ContainSubstring("skipped"))
		})

		It("is ready when all dependencies answer", func() {
			health = map[string]handlers.Pinger{"store": pinger{}}
			status, _ := do(fiber.MethodGet, "/health/ready", "", nil)
			Expect(status).To(Equal(fiber.StatusOK))
		})
	})
})
