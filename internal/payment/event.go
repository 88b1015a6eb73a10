package payment

import (
	"errors"

	"github.com/stripe/stripe-go/v76"
)

// EventKind enumerates the webhook event types this service acts on.
// Anything the gateway sends that is not listed here maps to
// KindIgnored: the gateway is free to deliver event types we do not
// handle yet, and those must be acknowledged, not failed.
type EventKind int

const (
	// KindIgnored is any event type the service does not act on.
	KindIgnored EventKind = iota
	// KindCheckoutCompleted is a finished hosted-checkout payment.
	KindCheckoutCompleted
)

// KindOf maps a raw gateway event type to an EventKind.
func KindOf(eventType string) EventKind {
	switch eventType {
	case "checkout.session.completed":
		return KindCheckoutCompleted
	default:
		return KindIgnored
	}
}

// ErrNoMetadata is returned when a completion event carries no usable
// session object or metadata mapping.
var ErrNoMetadata = errors.New("event carries no session metadata")

// SessionMetadata extracts the checkout-session id and its metadata
// mapping from a verified completion event.  The metadata is still
// treated as untrusted input: values are returned as strings and the
// commit service validates presence and types before using them.
func SessionMetadata(event stripe.Event) (string, map[string]string, error) {
	if event.Data == nil || event.Data.Object == nil {
		return "", nil, ErrNoMetadata
	}
	obj := event.Data.Object
	sessionID, _ := obj["id"].(string)
	raw, ok := obj["metadata"].(map[string]interface{})
	if sessionID == "" || !ok {
		return "", nil, ErrNoMetadata
	}
	meta := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			meta[k] = s
		}
	}
	return sessionID, meta, nil
}
