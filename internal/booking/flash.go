package booking

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Intent is a validated booking intent carried from the input stage to
// the confirm stage.  It is transient: it lives in the flash store for
// the duration of one redirect and is never written to the database.
type Intent struct {
	CheckinDate    string `json:"checkin_date"`
	CheckoutDate   string `json:"checkout_date"`
	NumberOfPeople int    `json:"number_of_people"`
}

// PricedBooking is the intent plus the identities and the computed
// total amount.  It is handed to the payment gateway as session
// metadata so the completion event can be traced back to exactly this
// booking attempt without any server-side pending state.
type PricedBooking struct {
	HouseID        uint64
	UserID         uint64
	CheckinDate    string
	CheckoutDate   string
	NumberOfPeople int
	Amount         int64
}

// ErrIntentNotFound is returned by Take when the token does not exist,
// was already consumed, or has expired.  Handlers should translate it
// into a 400 telling the client to restart the booking flow.
var ErrIntentNotFound = errors.New("booking intent not found")

// FlashStore carries a validated Intent across exactly one redirect.
// Put stores the intent under a fresh random token; Take consumes it.
// A token is single-use: a second Take with the same token fails with
// ErrIntentNotFound, so concurrent users' in-flight bookings cannot
// cross-contaminate and a confirm page cannot be replayed.
type FlashStore interface {
	Put(ctx context.Context, houseID, userID uint64, in Intent) (string, error)
	Take(ctx context.Context, houseID, userID uint64, token string) (Intent, error)
}

// RedisFlashStore implements FlashStore on Redis.  Entries are scoped
// by house and user so a token leaked to another user is worthless, and
// they expire after TTL so abandoned input pages leave no state behind.
type RedisFlashStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisFlashStore returns a flash store bound to the given client.
// A non-positive ttl falls back to ten minutes.
func NewRedisFlashStore(rdb *redis.Client, ttl time.Duration) *RedisFlashStore {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RedisFlashStore{rdb: rdb, ttl: ttl}
}

// Put serializes the intent and stores it under a fresh 32-byte random
// token.  The returned token is the only handle to the entry.
func (s *RedisFlashStore) Put(ctx context.Context, houseID, userID uint64, in Intent) (string, error) {
	token, err := randomToken()
	if err != nil {
		return "", err
	}
	body, err := json.Marshal(in)
	if err != nil {
		return "", err
	}
	if err := s.rdb.Set(ctx, flashKey(houseID, userID, token), body, s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Take atomically reads and deletes the intent for the token.  GETDEL
// guarantees single use even when two confirm requests race.
func (s *RedisFlashStore) Take(ctx context.Context, houseID, userID uint64, token string) (Intent, error) {
	body, err := s.rdb.GetDel(ctx, flashKey(houseID, userID, token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Intent{}, ErrIntentNotFound
	}
	if err != nil {
		return Intent{}, err
	}
	var in Intent
	if err := json.Unmarshal(body, &in); err != nil {
		return Intent{}, err
	}
	return in, nil
}

func flashKey(houseID, userID uint64, token string) string {
	return fmt.Sprintf("booking:intent:%d:%d:%s", houseID, userID, token)
}

// randomToken returns 32 bytes of cryptographically secure randomness
// encoded as 64 hex characters.
func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
