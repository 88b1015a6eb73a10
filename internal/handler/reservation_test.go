package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/house-reservation/internal/booking"
	"github.com/iliyamo/house-reservation/internal/repository"
)

// fakeFlashStore keeps intents in memory with single-use take semantics.
type fakeFlashStore struct {
	entries map[string]booking.Intent
	puts    int
}

func newFakeFlashStore() *fakeFlashStore {
	return &fakeFlashStore{entries: map[string]booking.Intent{}}
}

func (f *fakeFlashStore) Put(_ context.Context, houseID, userID uint64, in booking.Intent) (string, error) {
	f.puts++
	token := "tok_test"
	f.entries[token] = in
	return token, nil
}

func (f *fakeFlashStore) Take(_ context.Context, houseID, userID uint64, token string) (booking.Intent, error) {
	in, ok := f.entries[token]
	if !ok {
		return booking.Intent{}, booking.ErrIntentNotFound
	}
	delete(f.entries, token)
	return in, nil
}

// fakeSessionCreator records the priced booking it was asked to sell.
type fakeSessionCreator struct {
	calls  int
	priced booking.PricedBooking
}

func (f *fakeSessionCreator) CreateCheckoutSession(_ context.Context, houseName string, pb booking.PricedBooking, origin string) (string, error) {
	f.calls++
	f.priced = pb
	return "cs_fake_1", nil
}

func newReservationTest(t *testing.T) (*ReservationHandler, sqlmock.Sqlmock, *fakeFlashStore, *fakeSessionCreator) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	flash := newFakeFlashStore()
	payments := &fakeSessionCreator{}
	h := NewReservationHandler(
		repository.NewHouseRepo(db),
		repository.NewUserRepo(db),
		repository.NewReservationRepo(db),
		flash,
		payments,
	)
	return h, mock, flash, payments
}

func expectHouseRow(mock sqlmock.Sqlmock) {
	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM houses WHERE id").WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "description", "price", "capacity",
			"postal_code", "address", "phone_number", "created_at", "updated_at",
		}).AddRow(1, "Yufuin Retreat", "quiet onsen house", 100, 4, "879-5102", "Oita", "0977-00-0000", now, now))
}

func expectUserRow(mock sqlmock.Sqlmock) {
	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM users WHERE id").WithArgs(uint64(2)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "email", "password_hash", "role", "is_active", "created_at", "updated_at",
		}).AddRow(2, "Taro", "taro@example.com", "x", "GENERAL", true, now, now))
}

func authedContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint64(2))
	return c, rec
}

func TestInputStoresIntent(t *testing.T) {
	h, mock, flash, _ := newReservationTest(t)
	expectHouseRow(mock)

	c, rec := authedContext(http.MethodPost, "/v1/houses/1/reservations/input",
		`{"checkin_date":"2024-01-10","checkout_date":"2024-01-12","number_of_people":2}`)
	c.SetParamNames("id")
	c.SetParamValues("1")

	require.NoError(t, h.Input(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "tok_test", resp["confirm_token"])
	require.Contains(t, resp["confirm_url"], "/v1/houses/1/reservations/confirm?token=tok_test")
	require.Equal(t, 1, flash.puts)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInputRejectsOverCapacity(t *testing.T) {
	h, mock, flash, payments := newReservationTest(t)
	expectHouseRow(mock)

	c, rec := authedContext(http.MethodPost, "/v1/houses/1/reservations/input",
		`{"checkin_date":"2024-01-10","checkout_date":"2024-01-12","number_of_people":5}`)
	c.SetParamNames("id")
	c.SetParamValues("1")

	require.NoError(t, h.Input(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Contains(t, resp.Errors, "number_of_people")

	// A rejected intent must not advance the flow in any way.
	require.Equal(t, 0, flash.puts)
	require.Equal(t, 0, payments.calls)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInputCollectsAllFieldErrors(t *testing.T) {
	h, mock, _, _ := newReservationTest(t)
	expectHouseRow(mock)

	c, rec := authedContext(http.MethodPost, "/v1/houses/1/reservations/input",
		`{"checkin_date":"2024-01-12","checkout_date":"2024-01-10","number_of_people":0}`)
	c.SetParamNames("id")
	c.SetParamValues("1")

	require.NoError(t, h.Input(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Contains(t, resp.Errors, "checkout_date")
	require.Contains(t, resp.Errors, "number_of_people")
}

func TestConfirmOpensPaymentSession(t *testing.T) {
	h, mock, flash, payments := newReservationTest(t)
	flash.entries["tok_test"] = booking.Intent{
		CheckinDate:    "2024-01-10",
		CheckoutDate:   "2024-01-12",
		NumberOfPeople: 2,
	}
	expectHouseRow(mock)
	expectUserRow(mock)

	c, rec := authedContext(http.MethodGet, "/v1/houses/1/reservations/confirm?token=tok_test", "")
	c.SetParamNames("id")
	c.SetParamValues("1")

	require.NoError(t, h.Confirm(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Reservation struct {
			Amount int64 `json:"amount"`
		} `json:"reservation"`
		SessionID string `json:"session_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "cs_fake_1", resp.SessionID)
	require.Equal(t, int64(200), resp.Reservation.Amount)

	require.Equal(t, 1, payments.calls)
	require.Equal(t, int64(200), payments.priced.Amount)
	require.Equal(t, uint64(1), payments.priced.HouseID)
	require.Equal(t, uint64(2), payments.priced.UserID)

	// Confirm never persists anything; only the webhook does.
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmTokenIsSingleUse(t *testing.T) {
	h, mock, flash, payments := newReservationTest(t)
	flash.entries["tok_test"] = booking.Intent{
		CheckinDate:    "2024-01-10",
		CheckoutDate:   "2024-01-12",
		NumberOfPeople: 2,
	}
	expectHouseRow(mock)
	expectUserRow(mock)

	c, rec := authedContext(http.MethodGet, "/v1/houses/1/reservations/confirm?token=tok_test", "")
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.Confirm(c))
	require.Equal(t, http.StatusOK, rec.Code)

	c2, rec2 := authedContext(http.MethodGet, "/v1/houses/1/reservations/confirm?token=tok_test", "")
	c2.SetParamNames("id")
	c2.SetParamValues("1")
	require.NoError(t, h.Confirm(c2))
	require.Equal(t, http.StatusBadRequest, rec2.Code)
	require.Equal(t, 1, payments.calls)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmExpiredIntent(t *testing.T) {
	h, _, _, payments := newReservationTest(t)

	c, rec := authedContext(http.MethodGet, "/v1/houses/1/reservations/confirm?token=tok_gone", "")
	c.SetParamNames("id")
	c.SetParamValues("1")

	require.NoError(t, h.Confirm(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, 0, payments.calls)
}
