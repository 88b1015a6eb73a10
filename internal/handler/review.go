package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/house-reservation/internal/repository"
)

// ReviewHandler serves review posting and listing for houses.
type ReviewHandler struct {
	Houses  *repository.HouseRepo
	Reviews *repository.ReviewRepo
}

// NewReviewHandler constructs a ReviewHandler.
func NewReviewHandler(houses *repository.HouseRepo, reviews *repository.ReviewRepo) *ReviewHandler {
	if houses == nil || reviews == nil {
		panic("nil repository passed to NewReviewHandler")
	}
	return &ReviewHandler{Houses: houses, Reviews: reviews}
}

type reviewPostReq struct {
	Score   int    `json:"score"`
	Comment string `json:"comment"`
}

// Create handles POST /v1/houses/:id/reviews (authenticated).  Score
// must be between 1 and 5.
func (h *ReviewHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	houseID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || houseID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid house id"})
	}
	var req reviewPostReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Comment = strings.TrimSpace(req.Comment)
	if req.Score < 1 || req.Score > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "score must be between 1 and 5"})
	}

	ctx := c.Request().Context()
	if _, err := h.Houses.GetByID(ctx, houseID); err != nil {
		if errors.Is(err, repository.ErrHouseNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "house not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	id, err := h.Reviews.Create(ctx, houseID, userID, req.Score, req.Comment)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save review"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// List handles GET /v1/houses/:id/reviews (public).
func (h *ReviewHandler) List(c echo.Context) error {
	houseID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || houseID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid house id"})
	}
	limit, offset := pageParams(c)
	reviews, err := h.Reviews.ListByHouse(c.Request().Context(), houseID, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"reviews": reviews})
}
