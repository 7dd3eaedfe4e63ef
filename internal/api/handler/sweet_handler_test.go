package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweetmart/sweetshop/internal/core/domain"
	"github.com/sweetmart/sweetshop/internal/core/ports"
)

type stubSweetService struct {
	created *ports.CreateSweetInput
	patched *ports.SweetPatch
	err     error
}

func (s *stubSweetService) Get(_ context.Context, id string) (*domain.Sweet, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Sweet{ID: id, Name: "Barfi"}, nil
}

func (s *stubSweetService) Create(_ context.Context, in ports.CreateSweetInput) (*domain.Sweet, error) {
	s.created = &in
	return &domain.Sweet{ID: "s1", Name: in.Name, Category: in.Category, Price: in.Price, Quantity: in.Quantity}, s.err
}

func (s *stubSweetService) Update(_ context.Context, id string, patch ports.SweetPatch) (*domain.Sweet, error) {
	s.patched = &patch
	return &domain.Sweet{ID: id}, s.err
}

func (s *stubSweetService) Delete(context.Context, string) error { return s.err }

type stubStockEngine struct {
	purchase *ports.PurchaseInput
	restock  *ports.RestockInput
	filter   *ports.SweetFilter
	err      error
}

func (s *stubStockEngine) Purchase(_ context.Context, in ports.PurchaseInput) (*domain.Sweet, error) {
	s.purchase = &in
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Sweet{ID: in.SweetID, Quantity: 45}, nil
}

func (s *stubStockEngine) Restock(_ context.Context, in ports.RestockInput) (*domain.Sweet, error) {
	s.restock = &in
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Sweet{ID: in.SweetID, Quantity: 50}, nil
}

func (s *stubStockEngine) List(_ context.Context, f ports.SweetFilter) ([]*domain.Sweet, error) {
	s.filter = &f
	return []*domain.Sweet{{ID: "a"}, {ID: "b"}}, s.err
}

func withID(c echo.Context, id string) echo.Context {
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c
}

func TestSweetHandler_List(t *testing.T) {
	stock := &stubStockEngine{}
	h := NewSweetHandler(&stubSweetService{}, stock)

	c, rec := newTestContext(http.MethodGet, "/sweets?name=jamun&category=Gulab%20Jamun&minPrice=100&maxPrice=300.5", "")
	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, stock.filter)
	assert.Equal(t, "jamun", stock.filter.Name)
	assert.Equal(t, domain.CategoryGulabJamun, stock.filter.Category)
	require.NotNil(t, stock.filter.MinPrice)
	require.NotNil(t, stock.filter.MaxPrice)
	assert.Equal(t, 100.0, *stock.filter.MinPrice)
	assert.Equal(t, 300.5, *stock.filter.MaxPrice)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, float64(2), resp["count"])
}

func TestSweetHandler_ListWithoutFilters(t *testing.T) {
	stock := &stubStockEngine{}
	h := NewSweetHandler(&stubSweetService{}, stock)

	c, _ := newTestContext(http.MethodGet, "/sweets", "")
	require.NoError(t, h.List(c))
	assert.Nil(t, stock.filter.MinPrice)
	assert.Nil(t, stock.filter.MaxPrice)
}

func TestSweetHandler_ListIgnoresNonNumericPrice(t *testing.T) {
	stock := &stubStockEngine{}
	h := NewSweetHandler(&stubSweetService{}, stock)

	c, rec := newTestContext(http.MethodGet, "/sweets?minPrice=cheap&maxPrice=NaN&category=Cake", "")
	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, stock.filter.MinPrice)
	assert.Nil(t, stock.filter.MaxPrice)
	assert.Equal(t, domain.Category("Cake"), stock.filter.Category)
}

func TestSweetHandler_Create(t *testing.T) {
	svc := &stubSweetService{}
	h := NewSweetHandler(svc, &stubStockEngine{})

	c, rec := newTestContext(http.MethodPost, "/sweets", `{"name":" Kaju Katli ","category":"Kaju Katli","price":450,"quantity":50}`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sweet created successfully")

	require.NotNil(t, svc.created)
	assert.Equal(t, "Kaju Katli", svc.created.Name)
	assert.Equal(t, 50, svc.created.Quantity)
}

func TestSweetHandler_CreateQuantityDefaultsToZero(t *testing.T) {
	svc := &stubSweetService{}
	h := NewSweetHandler(svc, &stubStockEngine{})

	c, _ := newTestContext(http.MethodPost, "/sweets", `{"name":"Halwa","category":"Halwa","price":0}`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, 0, svc.created.Quantity)
	assert.Equal(t, 0.0, svc.created.Price)
}

func TestSweetHandler_CreateValidation(t *testing.T) {
	for name, body := range map[string]string{
		"missing price":     `{"name":"Halwa","category":"Halwa"}`,
		"negative price":    `{"name":"Halwa","category":"Halwa","price":-1}`,
		"bad category":      `{"name":"Halwa","category":"Cake","price":10}`,
		"negative quantity": `{"name":"Halwa","category":"Halwa","price":10,"quantity":-2}`,
		"short name":        `{"name":"H","category":"Halwa","price":10}`,
		"bad image":         `{"name":"Halwa","category":"Halwa","price":10,"image":"not a url"}`,
		"wrong type":        `{"name":"Halwa","category":"Halwa","price":"ten"}`,
	} {
		t.Run(name, func(t *testing.T) {
			svc := &stubSweetService{}
			h := NewSweetHandler(svc, &stubStockEngine{})
			c, _ := newTestContext(http.MethodPost, "/sweets", body)
			assert.ErrorIs(t, h.Create(c), domain.ErrValidation)
			assert.Nil(t, svc.created)
		})
	}
}

func TestSweetHandler_UpdateRejectsQuantity(t *testing.T) {
	svc := &stubSweetService{}
	h := NewSweetHandler(svc, &stubStockEngine{})

	c, _ := newTestContext(http.MethodPut, "/sweets/s1", `{"price":10,"quantity":5}`)
	err := h.Update(withID(c, "s1"))
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "quantity", ve.Fields[0].Field)
	assert.Nil(t, svc.patched)
}

func TestSweetHandler_UpdatePartial(t *testing.T) {
	svc := &stubSweetService{}
	h := NewSweetHandler(svc, &stubStockEngine{})

	c, rec := newTestContext(http.MethodPut, "/sweets/s1", `{"category":"Barfi"}`)
	require.NoError(t, h.Update(withID(c, "s1")))
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.patched.Category)
	assert.Equal(t, domain.CategoryBarfi, *svc.patched.Category)
	assert.Nil(t, svc.patched.Name)
	assert.Nil(t, svc.patched.Price)
}

func TestSweetHandler_GetNotFound(t *testing.T) {
	h := NewSweetHandler(&stubSweetService{err: domain.ErrSweetNotFound}, &stubStockEngine{})

	c, _ := newTestContext(http.MethodGet, "/sweets/nope", "")
	assert.ErrorIs(t, h.Get(withID(c, "nope")), domain.ErrSweetNotFound)
}

func TestSweetHandler_Delete(t *testing.T) {
	h := NewSweetHandler(&stubSweetService{}, &stubStockEngine{})

	c, rec := newTestContext(http.MethodDelete, "/sweets/s1", "")
	require.NoError(t, h.Delete(withID(c, "s1")))
	assert.Contains(t, rec.Body.String(), "Sweet deleted successfully")
}

func TestSweetHandler_Purchase(t *testing.T) {
	stock := &stubStockEngine{}
	h := NewSweetHandler(&stubSweetService{}, stock)
	buyer := &domain.User{ID: "u1", Role: domain.RoleUser}

	c, rec := newTestContext(http.MethodPost, "/sweets/s1/purchase", `{"quantity":5}`)
	c.Set(PrincipalKey, buyer)
	require.NoError(t, h.Purchase(withID(c, "s1")))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Purchase successful")
	require.NotNil(t, stock.purchase)
	assert.Equal(t, "s1", stock.purchase.SweetID)
	assert.Equal(t, 5, stock.purchase.Quantity)
	assert.Same(t, buyer, stock.purchase.Buyer)
}

func TestSweetHandler_PurchaseRejectsBadQuantity(t *testing.T) {
	for _, body := range []string{`{}`, `{"quantity":0}`, `{"quantity":-1}`, `{"quantity":"two"}`, `{"quantity":1.5}`, ``} {
		stock := &stubStockEngine{}
		h := NewSweetHandler(&stubSweetService{}, stock)

		c, _ := newTestContext(http.MethodPost, "/sweets/s1/purchase", body)
		c.Set(PrincipalKey, &domain.User{ID: "u1", Role: domain.RoleUser})
		assert.ErrorIs(t, h.Purchase(withID(c, "s1")), domain.ErrValidation, "body %q", body)
		assert.Nil(t, stock.purchase, "body %q", body)
	}
}

func TestSweetHandler_PurchaseWithoutPrincipal(t *testing.T) {
	h := NewSweetHandler(&stubSweetService{}, &stubStockEngine{})

	c, _ := newTestContext(http.MethodPost, "/sweets/s1/purchase", `{"quantity":1}`)
	assert.ErrorIs(t, h.Purchase(withID(c, "s1")), domain.ErrUnauthenticated)
}

func TestSweetHandler_PurchasePassesInsufficientStock(t *testing.T) {
	stock := &stubStockEngine{err: &domain.InsufficientStockError{Available: 50, Requested: 100}}
	h := NewSweetHandler(&stubSweetService{}, stock)

	c, _ := newTestContext(http.MethodPost, "/sweets/s1/purchase", `{"quantity":100}`)
	c.Set(PrincipalKey, &domain.User{ID: "u1", Role: domain.RoleUser})
	err := h.Purchase(withID(c, "s1"))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestSweetHandler_Restock(t *testing.T) {
	stock := &stubStockEngine{}
	h := NewSweetHandler(&stubSweetService{}, stock)
	admin := &domain.User{ID: "a1", Role: domain.RoleAdmin}

	c, rec := newTestContext(http.MethodPost, "/sweets/s1/restock", `{"quantity":20}`)
	c.Set(PrincipalKey, admin)
	require.NoError(t, h.Restock(withID(c, "s1")))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Restocked successfully")
	assert.Equal(t, 20, stock.restock.Quantity)
	assert.Same(t, admin, stock.restock.Actor)
}
