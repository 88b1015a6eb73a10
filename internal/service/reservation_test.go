package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/iliyamo/house-reservation/internal/payment"
	"github.com/iliyamo/house-reservation/internal/queue"
	"github.com/iliyamo/house-reservation/internal/repository"
)

func newTestService(t *testing.T) (*ReservationService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	svc := NewReservationService(db,
		repository.NewHouseRepo(db),
		repository.NewUserRepo(db),
		repository.NewReservationRepo(db))
	return svc, mock
}

func completedMeta() map[string]string {
	return map[string]string{
		payment.MetaHouseID:        "1",
		payment.MetaUserID:         "2",
		payment.MetaCheckinDate:    "2024-01-10",
		payment.MetaCheckoutDate:   "2024-01-12",
		payment.MetaNumberOfPeople: "2",
		payment.MetaAmount:         "200",
	}
}

func expectHouseLookup(mock sqlmock.Sqlmock) {
	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM houses WHERE id").WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "description", "price", "capacity",
			"postal_code", "address", "phone_number", "created_at", "updated_at",
		}).AddRow(1, "Yufuin Retreat", "quiet onsen house", 100, 4, "879-5102", "Oita", "0977-00-0000", now, now))
}

func expectUserLookup(mock sqlmock.Sqlmock) {
	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM users WHERE id").WithArgs(uint64(2)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "email", "password_hash", "role", "is_active", "created_at", "updated_at",
		}).AddRow(2, "Taro", "taro@example.com", "x", "GENERAL", true, now, now))
}

func TestCommitCreatesReservation(t *testing.T) {
	svc, mock := newTestService(t)

	expectHouseLookup(mock)
	expectUserLookup(mock)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO reservations").
		WithArgs(uint64(1), uint64(2), "2024-01-10", "2024-01-12", 2, int64(200), "cs_test_1").
		WillReturnResult(sqlmock.NewResult(10, 1))
	mock.ExpectCommit()

	var published *queue.ReservationConfirmedEvent
	svc.Publish = func(ctx context.Context, ev queue.ReservationConfirmedEvent) error {
		published = &ev
		return nil
	}

	if err := svc.Commit(context.Background(), "cs_test_1", completedMeta()); err != nil {
		t.Fatalf("commit error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
	if published == nil {
		t.Fatal("expected confirmed event to be published")
	}
	if published.ReservationID != 10 || published.Amount != 200 || published.HouseName != "Yufuin Retreat" {
		t.Fatalf("unexpected event payload: %+v", published)
	}
}

func TestCommitRedeliveryIsIdempotent(t *testing.T) {
	svc, mock := newTestService(t)

	expectHouseLookup(mock)
	expectUserLookup(mock)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO reservations").
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'cs_test_1' for key 'uq_reservations_payment_ref'"))
	mock.ExpectRollback()

	publishCalls := 0
	svc.Publish = func(ctx context.Context, ev queue.ReservationConfirmedEvent) error {
		publishCalls++
		return nil
	}

	// Redelivery must be acknowledged as success without a second row or event.
	if err := svc.Commit(context.Background(), "cs_test_1", completedMeta()); err != nil {
		t.Fatalf("redelivered commit should succeed, got: %v", err)
	}
	if publishCalls != 0 {
		t.Fatalf("redelivery must not publish, got %d calls", publishCalls)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCommitUnknownHouseIsFatal(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("SELECT (.+) FROM houses WHERE id").WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "description", "price", "capacity",
			"postal_code", "address", "phone_number", "created_at", "updated_at",
		}))

	err := svc.Commit(context.Background(), "cs_test_2", completedMeta())
	if !errors.Is(err, ErrDataConsistency) {
		t.Fatalf("expected data consistency error, got: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCommitRejectsBadMetadata(t *testing.T) {
	svc, _ := newTestService(t)

	cases := []struct {
		name   string
		mutate func(map[string]string)
	}{
		{"missing house id", func(m map[string]string) { delete(m, payment.MetaHouseID) }},
		{"non-numeric user id", func(m map[string]string) { m[payment.MetaUserID] = "abc" }},
		{"bad checkin date", func(m map[string]string) { m[payment.MetaCheckinDate] = "10/01/2024" }},
		{"checkout before checkin", func(m map[string]string) { m[payment.MetaCheckoutDate] = "2024-01-09" }},
		{"zero people", func(m map[string]string) { m[payment.MetaNumberOfPeople] = "0" }},
		{"negative amount", func(m map[string]string) { m[payment.MetaAmount] = "-1" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			meta := completedMeta()
			tc.mutate(meta)
			err := svc.Commit(context.Background(), "cs_test_3", meta)
			if !errors.Is(err, ErrBadMetadata) {
				t.Fatalf("expected metadata error, got: %v", err)
			}
		})
	}
}

func TestCommitRejectsEmptySessionID(t *testing.T) {
	svc, _ := newTestService(t)
	err := svc.Commit(context.Background(), "", completedMeta())
	if !errors.Is(err, ErrBadMetadata) {
		t.Fatalf("expected metadata error, got: %v", err)
	}
}
