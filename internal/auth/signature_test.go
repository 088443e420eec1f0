package auth_test

import (
	"net/http/httptest"
	"strings"

	"github.com/gofiber/fiber/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/spec-kit/wellness-helpdesk-bot/internal/auth"
	apperrors "github.com/spec-kit/wellness-helpdesk-bot/pkg/util/errorutil"
)

var _ = Describe("SignatureMiddleware", func() {
	const (
		secret = "app-secret"
		body   = `{"object":"whatsapp_business_account"}`
	)

	newApp := func(m *auth.SignatureMiddleware) *fiber.App {
		app := fiber.New(fiber.Config{
			ErrorHandler: func(c *fiber.Ctx, err error) error {
				de := apperrors.ToDomainError(err)
				return c.Status(de.HTTPStatus).SendString(de.Message)
			},
		})
		app.Use(m.Handle)
		app.All("/webhook", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
		return app
	}

	post := func(app *fiber.App, signature string) int {
		req := httptest.NewRequest(fiber.MethodPost, "/webhook", strings.NewReader(body))
		if signature != "" {
			req.Header.Set(auth.SignatureHeader, signature)
		}
		resp, err := app.Test(req)
		Expect(err).NotTo(HaveOccurred())
		return resp.StatusCode
	}

	It("accepts a correctly signed body", func() {
		app := newApp(auth.NewSignatureMiddleware(secret))
		Expect(post(app, auth.Sign(secret, []byte(body)))).To(Equal(fiber.StatusOK))
	})

	DescribeTable("rejects bad signatures",
		func(signature string) {
			app := newApp(auth.NewSignatureMiddleware(secret))
			Expect(post(app, signature)).To(Equal(fiber.StatusUnauthorized))
		},
		Entry("missing", ""),
		Entry("wrong prefix", "sha1=abcdef"),
		Entry("not hex", "sha256=zz"),
		Entry("other secret", auth.Sign("other", []byte(body))),
	)

	It("lets verification GETs through", func() {
		app := newApp(auth.NewSignatureMiddleware(secret))
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/webhook", nil))
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
	})

	It("skips the check without a secret", func() {
		m := auth.NewSignatureMiddleware("")
		Expect(m.Enabled()).To(BeFalse())
		Expect(post(newApp(m), "")).To(Equal(fiber.StatusOK))
	})
})
