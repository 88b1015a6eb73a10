package handler

import (
	"errors"       // for errors.Is comparisons
	"net/http"     // HTTP status codes
	"strconv"      // parsing path parameters
	"strings"      // trimming bound form values

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/house-reservation/internal/booking"
	"github.com/iliyamo/house-reservation/internal/payment"
	"github.com/iliyamo/house-reservation/internal/repository"
)

// ReservationHandler drives the browser-facing half of the booking
// flow: Input validates the intent and parks it in the flash store,
// Confirm prices the stay and opens the payment session, List shows a
// user's confirmed reservations.  The handler itself never writes a
// reservation; only the webhook path does that.  Methods assume JWT
// authentication has already run.
type ReservationHandler struct {
	Houses       *repository.HouseRepo       // read-only house lookups
	Users        *repository.UserRepo        // authenticated identity resolution
	Reservations *repository.ReservationRepo // listing confirmed reservations
	Flash        booking.FlashStore          // one-shot intent carry across the redirect
	Payments     payment.SessionCreator      // outbound gateway capability
}

// NewReservationHandler constructs a ReservationHandler with the
// provided dependencies.  All of them must be non-nil.
func NewReservationHandler(houses *repository.HouseRepo, users *repository.UserRepo, reservations *repository.ReservationRepo, flash booking.FlashStore, payments payment.SessionCreator) *ReservationHandler {
	if houses == nil || users == nil || reservations == nil || flash == nil || payments == nil {
		panic("nil dependency passed to NewReservationHandler")
	}
	return &ReservationHandler{
		Houses:       houses,
		Users:        users,
		Reservations: reservations,
		Flash:        flash,
		Payments:     payments,
	}
}

type reservationInputReq struct {
	CheckinDate    string `json:"checkin_date"`
	CheckoutDate   string `json:"checkout_date"`
	NumberOfPeople int    `json:"number_of_people"`
}

// Input handles POST /v1/houses/:id/reservations/input.  It validates
// the booking intent against the house: required fields, date
// ordering, and party size within capacity.  On any validation failure
// it returns 400 with field-level errors and the flow does not
// advance.  On success the intent is stored under a one-shot token and
// the client is told where to confirm.
func (h *ReservationHandler) Input(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	houseID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || houseID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid house id"})
	}
	var req reservationInputReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.CheckinDate = strings.TrimSpace(req.CheckinDate)
	req.CheckoutDate = strings.TrimSpace(req.CheckoutDate)

	ctx := c.Request().Context()
	house, err := h.Houses.GetByID(ctx, houseID)
	if err != nil {
		if errors.Is(err, repository.ErrHouseNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "house not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	// Field-level validation; collect every problem before answering.
	fieldErrs := echo.Map{}
	checkin, cinErr := booking.ParseDate(req.CheckinDate)
	if req.CheckinDate == "" || cinErr != nil {
		fieldErrs["checkin_date"] = "checkin date is required as YYYY-MM-DD"
	}
	checkout, coutErr := booking.ParseDate(req.CheckoutDate)
	if req.CheckoutDate == "" || coutErr != nil {
		fieldErrs["checkout_date"] = "checkout date is required as YYYY-MM-DD"
	}
	if cinErr == nil && coutErr == nil && !checkout.After(checkin) {
		fieldErrs["checkout_date"] = "checkout date must be after checkin date"
	}
	if req.NumberOfPeople < 1 {
		fieldErrs["number_of_people"] = "number of people is required"
	} else if !booking.WithinCapacity(req.NumberOfPeople, house.Capacity) {
		fieldErrs["number_of_people"] = "number of people exceeds the house capacity"
	}
	if len(fieldErrs) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":  "invalid reservation input",
			"errors": fieldErrs,
		})
	}

	token, err := h.Flash.Put(ctx, houseID, userID, booking.Intent{
		CheckinDate:    req.CheckinDate,
		CheckoutDate:   req.CheckoutDate,
		NumberOfPeople: req.NumberOfPeople,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to store booking intent"})
	}

	confirmURL := "/v1/houses/" + strconv.FormatUint(houseID, 10) + "/reservations/confirm?token=" + token
	return c.JSON(http.StatusOK, echo.Map{
		"confirm_token": token,
		"confirm_url":   confirmURL,
	})
}

// Confirm handles GET /v1/houses/:id/reservations/confirm.  It
// consumes the one-shot token, re-resolves the house and the
// authenticated user, computes the total amount, and opens a payment
// session carrying the priced booking as metadata.  Nothing is
// persisted here: if the client never completes payment the attempt
// simply evaporates.
func (h *ReservationHandler) Confirm(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	houseID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || houseID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid house id"})
	}
	token := c.QueryParam("token")
	if token == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token is required"})
	}

	ctx := c.Request().Context()
	intent, err := h.Flash.Take(ctx, houseID, userID, token)
	if err != nil {
		if errors.Is(err, booking.ErrIntentNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking intent expired, start over"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load booking intent"})
	}

	house, err := h.Houses.GetByID(ctx, houseID)
	if err != nil {
		if errors.Is(err, repository.ErrHouseNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "house not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	user, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	// Intent dates were validated at the input stage; parse errors here
	// would mean the flash store was tampered with, so fail hard.
	checkin, err := booking.ParseDate(intent.CheckinDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking intent"})
	}
	checkout, err := booking.ParseDate(intent.CheckoutDate)
	if err != nil || !checkout.After(checkin) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking intent"})
	}

	pb := booking.PricedBooking{
		HouseID:        house.ID,
		UserID:         user.ID,
		CheckinDate:    intent.CheckinDate,
		CheckoutDate:   intent.CheckoutDate,
		NumberOfPeople: intent.NumberOfPeople,
		Amount:         booking.Amount(checkin, checkout, house.Price),
	}

	origin := c.Scheme() + "://" + c.Request().Host
	sessionID, err := h.Payments.CreateCheckoutSession(ctx, house.Name, pb, origin)
	if err != nil {
		c.Logger().Errorf("create payment session failed: %v", err)
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "payment service unavailable"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"house": echo.Map{
			"id":    house.ID,
			"name":  house.Name,
			"price": house.Price,
		},
		"reservation": echo.Map{
			"checkin_date":     pb.CheckinDate,
			"checkout_date":    pb.CheckoutDate,
			"number_of_people": pb.NumberOfPeople,
			"amount":           pb.Amount,
		},
		"session_id": sessionID,
	})
}

// List handles GET /v1/reservations and returns the authenticated
// user's confirmed reservations, newest first.
func (h *ReservationHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	limit, offset := pageParams(c)
	details, err := h.Reservations.ListByUser(c.Request().Context(), userID, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": details})
}
