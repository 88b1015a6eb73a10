package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWithinCapacity(t *testing.T) {
	cases := []struct {
		name     string
		people   int
		capacity int
		want     bool
	}{
		{"under capacity", 2, 4, true},
		{"at capacity", 4, 4, true},
		{"over capacity", 5, 4, false},
		{"single guest", 1, 1, true},
		{"zero capacity", 1, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, WithinCapacity(tc.people, tc.capacity))
		})
	}
}

func TestAmount(t *testing.T) {
	day := func(s string) time.Time {
		d, err := time.Parse(DateLayout, s)
		if err != nil {
			t.Fatalf("bad test date %q: %v", s, err)
		}
		return d
	}

	cases := []struct {
		name     string
		checkin  string
		checkout string
		price    int64
		want     int64
	}{
		{"two nights", "2024-01-10", "2024-01-12", 100, 200},
		{"one night", "2024-01-10", "2024-01-11", 12000, 12000},
		{"week stay", "2024-03-01", "2024-03-08", 8000, 56000},
		{"free house", "2024-01-10", "2024-01-12", 0, 0},
		{"across month boundary", "2024-01-31", "2024-02-02", 500, 1000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Amount(day(tc.checkin), day(tc.checkout), tc.price))
		})
	}
}

func TestAmountIsPure(t *testing.T) {
	a, _ := time.Parse(DateLayout, "2024-01-10")
	b, _ := time.Parse(DateLayout, "2024-01-12")
	first := Amount(a, b, 100)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, Amount(a, b, 100))
	}
}
