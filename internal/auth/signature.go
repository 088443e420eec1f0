// Package auth verifies that webhook deliveries come from the platform.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/wellness-helpdesk-bot/pkg/util/errorutil"
)

// SignatureHeader carries the HMAC of the raw request body.
const SignatureHeader = "X-Hub-Signature-256"

const signaturePrefix = "sha256="

// SignatureMiddleware rejects webhook posts whose body signature does not
// match the app secret. An empty secret disables the check.
type SignatureMiddleware struct {
	secret []byte
}

// NewSignatureMiddleware constructs middleware for appSecret.
func NewSignatureMiddleware(appSecret string) *SignatureMiddleware {
	return &SignatureMiddleware{secret: []byte(appSecret)}
}

// Enabled reports whether signatures are checked.
func (m *SignatureMiddleware) Enabled() bool {
	return m != nil && len(m.secret) > 0
}

// Handle enforces the signature on POST requests.
func (m *SignatureMiddleware) Handle(c *fiber.Ctx) error {
	if !m.Enabled() || c.Method() != fiber.MethodPost {
		return c.Next()
	}
	header := c.Get(SignatureHeader)
	if header == "" {
		return apperrors.NewUnauthorized("missing signature")
	}
	if !strings.HasPrefix(header, signaturePrefix) {
		return apperrors.NewUnauthorized("invalid signature format")
	}
	got, err := hex.DecodeString(strings.TrimPrefix(header, signaturePrefix))
	if err != nil {
		return apperrors.NewUnauthorized("invalid signature format")
	}
	if !hmac.Equal(got, m.mac(c.Body())) {
		return apperrors.NewUnauthorized("signature mismatch")
	}
	return c.Next()
}

func (m *SignatureMiddleware) mac(body []byte) []byte {
	h := hmac.New(sha256.New, m.secret)
	h.Write(body)
	return h.Sum(nil)
}

// Sign returns the header value the platform would send for body.
func Sign(appSecret string, body []byte) string {
	m := NewSignatureMiddleware(appSecret)
	return signaturePrefix + hex.EncodeToString(m.mac(body))
}
