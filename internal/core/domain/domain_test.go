package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleSets(t *testing.T) {
	assert.True(t, Purchasers.Contains(RoleUser))
	assert.True(t, Purchasers.Contains(RoleAdmin))
	assert.False(t, Restockers.Contains(RoleUser))
	assert.False(t, CatalogWriters.Contains(RoleUser))
	assert.False(t, Purchasers.Contains(Role("guest")))
	assert.Equal(t, []Role{RoleAdmin, RoleUser}, Purchasers.Roles())
}

func TestInsufficientStockError(t *testing.T) {
	err := fmt.Errorf("purchase: %w", &InsufficientStockError{Available: 50, Requested: 100})

	assert.True(t, errors.Is(err, ErrInsufficientStock))
	assert.False(t, errors.Is(err, ErrValidation))
	assert.Contains(t, err.Error(), "Insufficient stock. Available: 50, Requested: 100")
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Fields: []FieldError{
		{Field: "name", Message: "name is required"},
		{Field: "price", Message: "price must be greater than or equal to 0"},
	}}
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "name is required; price must be greater than or equal to 0", err.Error())
}

func TestCategoryValid(t *testing.T) {
	for _, c := range Categories {
		assert.True(t, c.Valid(), c)
	}
	assert.Len(t, Categories, 9)
	assert.False(t, Category("Cake").Valid())
	assert.False(t, Category("").Valid())
	assert.False(t, Category("barfi").Valid())
}

func TestSweetInStock(t *testing.T) {
	assert.True(t, (&Sweet{Quantity: 1}).InStock())
	assert.False(t, (&Sweet{Quantity: 0}).InStock())
}
