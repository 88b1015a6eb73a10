package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/house-reservation/internal/repository"
	"github.com/iliyamo/house-reservation/internal/service"
)

const testWebhookSecret = "whsec_test_secret"

// signStripePayload builds a Stripe-Signature header for the payload
// using the documented t=<ts>,v1=<hmac-sha256(ts.payload)> scheme.
func signStripePayload(payload []byte, secret string) string {
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", ts)
	mac.Write(payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func completedEventPayload(sessionID string) []byte {
	return []byte(`{
		"id": "evt_test_1",
		"object": "event",
		"api_version": "2023-10-16",
		"type": "checkout.session.completed",
		"data": {
			"object": {
				"id": "` + sessionID + `",
				"object": "checkout.session",
				"metadata": {
					"house_id": "1",
					"user_id": "2",
					"checkin_date": "2024-01-10",
					"checkout_date": "2024-01-12",
					"number_of_people": "2",
					"amount": "200"
				}
			}
		}
	}`)
}

func newWebhookTest(t *testing.T) (*WebhookHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	svc := service.NewReservationService(db,
		repository.NewHouseRepo(db),
		repository.NewUserRepo(db),
		repository.NewReservationRepo(db))
	return NewWebhookHandler(testWebhookSecret, svc), mock
}

func deliverWebhook(h *WebhookHandler, payload []byte, signature string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/stripe/webhook", strings.NewReader(string(payload)))
	if signature != "" {
		req.Header.Set("Stripe-Signature", signature)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	_ = h.Handle(c)
	return rec
}

func TestWebhookCommitsCompletedPayment(t *testing.T) {
	h, mock := newWebhookTest(t)
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM houses WHERE id").WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "description", "price", "capacity",
			"postal_code", "address", "phone_number", "created_at", "updated_at",
		}).AddRow(1, "Yufuin Retreat", "quiet onsen house", 100, 4, "879-5102", "Oita", "0977-00-0000", now, now))
	mock.ExpectQuery("SELECT (.+) FROM users WHERE id").WithArgs(uint64(2)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "email", "password_hash", "role", "is_active", "created_at", "updated_at",
		}).AddRow(2, "Taro", "taro@example.com", "x", "GENERAL", true, now, now))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO reservations").
		WithArgs(uint64(1), uint64(2), "2024-01-10", "2024-01-12", 2, int64(200), "cs_hook_1").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	payload := completedEventPayload("cs_hook_1")
	rec := deliverWebhook(h, payload, signStripePayload(payload, testWebhookSecret))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	h, mock := newWebhookTest(t)

	payload := completedEventPayload("cs_hook_2")
	rec := deliverWebhook(h, payload, signStripePayload(payload, "whsec_wrong_secret"))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	// No reservation work may happen on unverified input.
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhookRejectsMissingSignature(t *testing.T) {
	h, mock := newWebhookTest(t)

	rec := deliverWebhook(h, completedEventPayload("cs_hook_3"), "")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhookIgnoresUnknownEventKind(t *testing.T) {
	h, mock := newWebhookTest(t)

	payload := []byte(`{
		"id": "evt_test_2",
		"object": "event",
		"api_version": "2023-10-16",
		"type": "invoice.paid",
		"data": {"object": {"id": "in_1", "object": "invoice"}}
	}`)
	rec := deliverWebhook(h, payload, signStripePayload(payload, testWebhookSecret))

	// Unrecognized kinds are acknowledged, not failed, and write nothing.
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
