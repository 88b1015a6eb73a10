// Package payment wraps the Stripe SDK behind the two capabilities the
// booking flow needs: creating a hosted checkout session for a priced
// booking, and verifying inbound webhook events at the trust boundary.
package payment

import (
	"context"
	"fmt"
	"strconv"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/iliyamo/house-reservation/internal/booking"
)

// Metadata keys round-tripped through the checkout session.  The
// completion event echoes these back, and they are the only channel
// connecting the confirm stage to the webhook commit.
const (
	MetaHouseID        = "house_id"
	MetaUserID         = "user_id"
	MetaCheckinDate    = "checkin_date"
	MetaCheckoutDate   = "checkout_date"
	MetaNumberOfPeople = "number_of_people"
	MetaAmount         = "amount"
)

// SessionCreator is the outbound capability consumed by the booking
// flow orchestrator.  The concrete implementation talks to Stripe; the
// handler tests substitute a stub.
type SessionCreator interface {
	CreateCheckoutSession(ctx context.Context, houseName string, pb booking.PricedBooking, origin string) (string, error)
}

// StripeGateway creates hosted checkout sessions via the Stripe API.
type StripeGateway struct {
	apiKey string
}

// NewStripeGateway configures the global Stripe API key and returns a
// gateway.  The SDK keys its client off the package-level variable, so
// this must run once during startup before any session is created.
func NewStripeGateway(apiKey string) *StripeGateway {
	stripe.Key = apiKey
	return &StripeGateway{apiKey: apiKey}
}

// CreateCheckoutSession opens one payment session for the priced
// booking and returns its opaque session id.  The priced booking is
// attached as session metadata so that the later completion event can
// be mapped back to this attempt; nothing is persisted locally, so a
// failure here has no state to roll back and simply propagates.
func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, houseName string, pb booking.PricedBooking, origin string) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyJPY)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(houseName),
					},
					UnitAmount: stripe.Int64(pb.Amount),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(origin + "/v1/reservations?reserved"),
		CancelURL:  stripe.String(fmt.Sprintf("%s/v1/houses/%d", origin, pb.HouseID)),
	}
	params.Context = ctx
	params.AddMetadata(MetaHouseID, strconv.FormatUint(pb.HouseID, 10))
	params.AddMetadata(MetaUserID, strconv.FormatUint(pb.UserID, 10))
	params.AddMetadata(MetaCheckinDate, pb.CheckinDate)
	params.AddMetadata(MetaCheckoutDate, pb.CheckoutDate)
	params.AddMetadata(MetaNumberOfPeople, strconv.Itoa(pb.NumberOfPeople))
	params.AddMetadata(MetaAmount, strconv.FormatInt(pb.Amount, 10))

	s, err := session.New(params)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return s.ID, nil
}

// VerifyEvent authenticates a raw webhook payload against its
// Stripe-Signature header.  Verification happens before any field of
// the payload is trusted; a mismatch returns an error and the caller
// must reject the request without processing.  API version drift
// between the SDK and the sending account is ignored on purpose: the
// fields this service reads are stable across versions.
func VerifyEvent(payload []byte, sigHeader, secret string) (stripe.Event, error) {
	return webhook.ConstructEventWithOptions(payload, sigHeader, secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
}
