package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/vrooom/car-rental-service/internal/catalog"
)

// CatalogHandler serves the public car listing and detail endpoints.
type CatalogHandler struct {
	Catalog *catalog.Provider
}

func NewCatalogHandler(p *catalog.Provider) *CatalogHandler {
	return &CatalogHandler{Catalog: p}
}

// ListCars returns the catalog filtered and sorted by query params:
// q, type, max_price, min_rating, features (comma-separated) and sort
// (name | price-low | price-high | rating).
func (h *CatalogHandler) ListCars(c echo.Context) error {
	q := catalog.Query{
		Search: strings.TrimSpace(c.QueryParam("q")),
		Type:   strings.TrimSpace(c.QueryParam("type")),
	}
	if raw := c.QueryParam("max_price"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "max_price must be a non-negative integer"})
		}
		q.MaxPrice = n
	}
	if raw := c.QueryParam("min_rating"); raw != "" {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || f < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "min_rating must be a non-negative number"})
		}
		q.MinRating = f
	}
	if raw := c.QueryParam("features"); raw != "" {
		for _, f := range strings.Split(raw, ",") {
			if f = strings.TrimSpace(f); f != "" {
				q.Features = append(q.Features, f)
			}
		}
	}

	cars := catalog.Filter(h.Catalog.ListAll(c.Request().Context()), q)
	cars = catalog.SortCars(cars, c.QueryParam("sort"))

	return c.JSON(http.StatusOK, echo.Map{
		"cars":  cars,
		"total": len(cars),
	})
}

// GetCar returns a single car by numeric id.
func (h *CatalogHandler) GetCar(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid car id"})
	}
	car, err := h.Catalog.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "car not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"car": car})
}
