package payment

import (
	"errors"
	"testing"

	"github.com/stripe/stripe-go/v76"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	require.Equal(t, KindCheckoutCompleted, KindOf("checkout.session.completed"))
	require.Equal(t, KindIgnored, KindOf("checkout.session.expired"))
	require.Equal(t, KindIgnored, KindOf("invoice.paid"))
	require.Equal(t, KindIgnored, KindOf(""))
}

func TestSessionMetadata(t *testing.T) {
	ev := stripe.Event{
		Data: &stripe.EventData{
			Object: map[string]interface{}{
				"id":     "cs_test_1",
				"object": "checkout.session",
				"metadata": map[string]interface{}{
					MetaHouseID: "1",
					MetaUserID:  "2",
					MetaAmount:  "200",
					"ignored":   42,
				},
			},
		},
	}

	sessionID, meta, err := SessionMetadata(ev)
	require.NoError(t, err)
	require.Equal(t, "cs_test_1", sessionID)
	require.Equal(t, "1", meta[MetaHouseID])
	require.Equal(t, "2", meta[MetaUserID])
	require.Equal(t, "200", meta[MetaAmount])
	// Non-string values are dropped, not coerced.
	_, present := meta["ignored"]
	require.False(t, present)
}

func TestSessionMetadataMissingParts(t *testing.T) {
	cases := []struct {
		name  string
		event stripe.Event
	}{
		{"nil data", stripe.Event{}},
		{"nil object", stripe.Event{Data: &stripe.EventData{}}},
		{"no session id", stripe.Event{Data: &stripe.EventData{Object: map[string]interface{}{
			"metadata": map[string]interface{}{},
		}}}},
		{"no metadata", stripe.Event{Data: &stripe.EventData{Object: map[string]interface{}{
			"id": "cs_test_2",
		}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := SessionMetadata(tc.event)
			if !errors.Is(err, ErrNoMetadata) {
				t.Fatalf("expected no-metadata error, got: %v", err)
			}
		})
	}
}
