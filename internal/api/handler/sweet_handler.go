package handler

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sweetmart/sweetshop/internal/core/domain"
	"github.com/sweetmart/sweetshop/internal/core/ports"
)

// SweetHandler handles HTTP requests for the catalog and its stock.
type SweetHandler struct {
	sweets ports.SweetService
	stock  ports.StockEngine
}

func NewSweetHandler(sweets ports.SweetService, stock ports.StockEngine) *SweetHandler {
	return &SweetHandler{sweets: sweets, stock: stock}
}

// List handles GET /sweets.
//
// @Summary      List sweets
// @Tags         sweets
// @Produce      json
// @Param        name      query     string  false  "Case-insensitive substring of the name"
// @Param        category  query     string  false  "Exact category"
// @Param        minPrice  query     number  false  "Inclusive lower price bound"
// @Param        maxPrice  query     number  false  "Inclusive upper price bound"
// @Success      200       {object}  response
// @Router       /sweets [get]
func (h *SweetHandler) List(c echo.Context) error {
	q := bindListQuery(c)
	sweets, err := h.stock.List(c.Request().Context(), ports.SweetFilter{
		Name:     q.Name,
		Category: domain.Category(q.Category),
		MinPrice: q.MinPrice,
		MaxPrice: q.MaxPrice,
	})
	if err != nil {
		return err
	}

	count := len(sweets)
	return c.JSON(http.StatusOK, response{Success: true, Count: &count, Data: sweets})
}

// bindListQuery never fails: a price bound that is not a number is left unset.
func bindListQuery(c echo.Context) listSweetsQuery {
	return listSweetsQuery{
		Name:     c.QueryParam("name"),
		Category: c.QueryParam("category"),
		MinPrice: priceBound(c.QueryParam("minPrice")),
		MaxPrice: priceBound(c.QueryParam("maxPrice")),
	}
}

func priceBound(raw string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) {
		return nil
	}
	return &v
}

// Get handles GET /sweets/:id.
//
// @Summary      Get a sweet by id
// @Tags         sweets
// @Produce      json
// @Param        id   path      string  true  "Sweet id"
// @Success      200  {object}  response
// @Failure      404  {object}  response
// @Router       /sweets/{id} [get]
func (h *SweetHandler) Get(c echo.Context) error {
	sweet, err := h.sweets.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, response{Success: true, Data: sweet})
}

// Create handles POST /sweets.
//
// @Summary      Create a sweet
// @Tags         sweets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createSweetRequest  true  "Sweet details"
// @Success      201   {object}  response
// @Failure      400   {object}  response
// @Failure      401   {object}  response
// @Failure      403   {object}  response
// @Router       /sweets [post]
func (h *SweetHandler) Create(c echo.Context) error {
	var req createSweetRequest
	if err := c.Bind(&req); err != nil {
		return invalidPayload()
	}
	req.normalize()
	if err := c.Validate(&req); err != nil {
		return err
	}

	in := ports.CreateSweetInput{
		Name:        req.Name,
		Category:    domain.Category(req.Category),
		Price:       *req.Price,
		Image:       req.Image,
		Description: req.Description,
	}
	if req.Quantity != nil {
		in.Quantity = *req.Quantity
	}

	sweet, err := h.sweets.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, response{Success: true, Message: "Sweet created successfully", Data: sweet})
}

// Update handles PUT /sweets/:id.
//
// @Summary      Update a sweet
// @Description  Partial update of the catalog fields. Quantity changes only through purchase and restock.
// @Tags         sweets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Sweet id"
// @Param        body  body      updateSweetRequest  true  "Fields to change"
// @Success      200   {object}  response
// @Failure      400   {object}  response
// @Failure      401   {object}  response
// @Failure      403   {object}  response
// @Failure      404   {object}  response
// @Router       /sweets/{id} [put]
func (h *SweetHandler) Update(c echo.Context) error {
	var req updateSweetRequest
	if err := c.Bind(&req); err != nil {
		return invalidPayload()
	}
	if req.Quantity != nil {
		return domain.NewValidationError("quantity", "Quantity can only be changed through purchase or restock")
	}
	req.normalize()
	if err := c.Validate(&req); err != nil {
		return err
	}

	patch := ports.SweetPatch{
		Name:        req.Name,
		Price:       req.Price,
		Image:       req.Image,
		Description: req.Description,
	}
	if req.Category != nil {
		category := domain.Category(*req.Category)
		patch.Category = &category
	}

	sweet, err := h.sweets.Update(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, response{Success: true, Message: "Sweet updated successfully", Data: sweet})
}

// Delete handles DELETE /sweets/:id.
//
// @Summary      Delete a sweet
// @Tags         sweets
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Sweet id"
// @Success      200  {object}  response
// @Failure      401  {object}  response
// @Failure      403  {object}  response
// @Failure      404  {object}  response
// @Router       /sweets/{id} [delete]
func (h *SweetHandler) Delete(c echo.Context) error {
	if err := h.sweets.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, response{Success: true, Message: "Sweet deleted successfully"})
}

// Purchase handles POST /sweets/:id/purchase.
//
// @Summary      Purchase a sweet
// @Tags         stock
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Sweet id"
// @Param        body  body      quantityRequest  true  "Units to buy"
// @Success      200   {object}  response
// @Failure      400   {object}  response  "Validation failure or insufficient stock"
// @Failure      401   {object}  response
// @Failure      404   {object}  response
// @Router       /sweets/{id}/purchase [post]
func (h *SweetHandler) Purchase(c echo.Context) error {
	buyer, err := principal(c)
	if err != nil {
		return err
	}
	qty, err := bindQuantity(c)
	if err != nil {
		return err
	}

	sweet, err := h.stock.Purchase(c.Request().Context(), ports.PurchaseInput{
		SweetID:  c.Param("id"),
		Quantity: qty,
		Buyer:    buyer,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, response{Success: true, Message: "Purchase successful", Data: sweet})
}

// Restock handles POST /sweets/:id/restock.
//
// @Summary      Restock a sweet
// @Tags         stock
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Sweet id"
// @Param        body  body      quantityRequest  true  "Units to add"
// @Success      200   {object}  response
// @Failure      400   {object}  response
// @Failure      401   {object}  response
// @Failure      403   {object}  response
// @Failure      404   {object}  response
// @Router       /sweets/{id}/restock [post]
func (h *SweetHandler) Restock(c echo.Context) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	qty, err := bindQuantity(c)
	if err != nil {
		return err
	}

	sweet, err := h.stock.Restock(c.Request().Context(), ports.RestockInput{
		SweetID:  c.Param("id"),
		Quantity: qty,
		Actor:    actor,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, response{Success: true, Message: "Restocked successfully", Data: sweet})
}

func bindQuantity(c echo.Context) (int, error) {
	var req quantityRequest
	if err := c.Bind(&req); err != nil {
		return 0, domain.NewValidationError("quantity", "Quantity must be a positive integer")
	}
	if err := c.Validate(&req); err != nil {
		return 0, err
	}
	return *req.Quantity, nil
}

func invalidPayload() error {
	return domain.NewValidationError("body", "invalid payload")
}
