package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/house-reservation/internal/payment"
	"github.com/iliyamo/house-reservation/internal/service"
)

// WebhookHandler receives asynchronous notifications from the payment
// gateway.  This is the trust boundary for externally triggered writes:
// the signature is verified before any field of the payload is read,
// and only recognized event kinds reach the commit service.
type WebhookHandler struct {
	Secret       string                      // shared webhook signing secret
	Reservations *service.ReservationService // commit service for completed payments
}

// NewWebhookHandler constructs a WebhookHandler.
func NewWebhookHandler(secret string, reservations *service.ReservationService) *WebhookHandler {
	if secret == "" || reservations == nil {
		panic("invalid dependency passed to NewWebhookHandler")
	}
	return &WebhookHandler{Secret: secret, Reservations: reservations}
}

// Handle processes POST /v1/stripe/webhook.  Response contract: 400 on
// signature failure, 200 otherwise regardless of whether the event
// kind is one this service acts on.  Unexpected storage failures
// return 500 so the gateway redelivers; the unique payment reference
// makes that redelivery safe.
func (h *WebhookHandler) Handle(c echo.Context) error {
	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unreadable body"})
	}
	sig := c.Request().Header.Get("Stripe-Signature")

	event, err := payment.VerifyEvent(payload, sig, h.Secret)
	if err != nil {
		c.Logger().Warnf("webhook: rejected event with bad signature: %v", err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid signature"})
	}

	switch payment.KindOf(string(event.Type)) {
	case payment.KindCheckoutCompleted:
		sessionID, meta, err := payment.SessionMetadata(event)
		if err != nil {
			// Verified but malformed: acknowledge so the gateway does not
			// redeliver a payload that can never succeed, and alert operators.
			c.Logger().Errorf("webhook: completed event without metadata: %v", err)
			return c.String(http.StatusOK, "ignored")
		}
		if err := h.Reservations.Commit(c.Request().Context(), sessionID, meta); err != nil {
			if errors.Is(err, service.ErrBadMetadata) || errors.Is(err, service.ErrDataConsistency) {
				c.Logger().Errorf("webhook: fatal commit failure for session %s: %v", sessionID, err)
				return c.String(http.StatusOK, "ignored")
			}
			c.Logger().Errorf("webhook: commit failed for session %s: %v", sessionID, err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
		}
	default:
		// Event kinds this service does not handle are acknowledged, not
		// failed; the gateway may send types we do not act on yet.
	}
	return c.String(http.StatusOK, "ok")
}
