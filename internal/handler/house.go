// Package handler exposes HTTP handlers for both authenticated and public
// endpoints.  This file defines the public house catalog API: browsing and
// keyword search without authentication.  Internal fields are filtered from
// responses.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/house-reservation/internal/repository"
)

// HouseHandler serves unauthenticated catalog browsing.
type HouseHandler struct {
	Houses  *repository.HouseRepo  // provides access to house data
	Reviews *repository.ReviewRepo // provides access to reviews for house pages
}

// NewHouseHandler constructs a HouseHandler.
func NewHouseHandler(houses *repository.HouseRepo, reviews *repository.ReviewRepo) *HouseHandler {
	if houses == nil || reviews == nil {
		panic("nil repository passed to NewHouseHandler")
	}
	return &HouseHandler{Houses: houses, Reviews: reviews}
}

// publicHouse is a house exposed via the public API.
type publicHouse struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Capacity    int    `json:"capacity"`
	PostalCode  string `json:"postal_code"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phone_number"`
}

// List handles GET /v1/houses with optional ?keyword= search against
// name and address, plus limit/offset pagination.
func (h *HouseHandler) List(c echo.Context) error {
	limit, offset := pageParams(c)
	houses, err := h.Houses.List(c.Request().Context(), c.QueryParam("keyword"), limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]publicHouse, 0, len(houses))
	for _, hs := range houses {
		out = append(out, publicHouse{
			ID: hs.ID, Name: hs.Name, Description: hs.Description,
			Price: hs.Price, Capacity: hs.Capacity,
			PostalCode: hs.PostalCode, Address: hs.Address, PhoneNumber: hs.PhoneNumber,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"houses": out})
}

// Get handles GET /v1/houses/:id and returns one house.
func (h *HouseHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid house id"})
	}
	hs, err := h.Houses.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrHouseNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "house not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, publicHouse{
		ID: hs.ID, Name: hs.Name, Description: hs.Description,
		Price: hs.Price, Capacity: hs.Capacity,
		PostalCode: hs.PostalCode, Address: hs.Address, PhoneNumber: hs.PhoneNumber,
	})
}
