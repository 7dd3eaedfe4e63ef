package handler

import "strings"

// response is the envelope of every successful API response.
type response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Count   *int   `json:"count,omitempty"`
}

// --- Request types ---
// The validate tags are the accepted input shape of each operation.

type createSweetRequest struct {
	Name        string   `json:"name"        validate:"required,min=2,max=100"`
	Category    string   `json:"category"    validate:"required,sweet_category"`
	Price       *float64 `json:"price"       validate:"required,gte=0"`
	Quantity    *int     `json:"quantity"    validate:"omitempty,gte=0,max=1000000000"`
	Image       string   `json:"image"       validate:"omitempty,url"`
	Description string   `json:"description" validate:"omitempty,max=500"`
}

func (r *createSweetRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Category = strings.TrimSpace(r.Category)
	r.Image = strings.TrimSpace(r.Image)
	r.Description = strings.TrimSpace(r.Description)
}

// updateSweetRequest carries a partial update. Quantity is only accepted so
// it can be rejected: stock moves through purchase and restock.
type updateSweetRequest struct {
	Name        *string  `json:"name"        validate:"omitempty,min=2,max=100"`
	Category    *string  `json:"category"    validate:"omitempty,sweet_category"`
	Price       *float64 `json:"price"       validate:"omitempty,gte=0"`
	Image       *string  `json:"image"       validate:"omitempty,url"`
	Description *string  `json:"description" validate:"omitempty,max=500"`
	Quantity    *int     `json:"quantity"`
}

func (r *updateSweetRequest) normalize() {
	for _, s := range []*string{r.Name, r.Category, r.Image, r.Description} {
		if s != nil {
			*s = strings.TrimSpace(*s)
		}
	}
}

// quantityRequest caps a single movement at domain.MaxQuantity.
type quantityRequest struct {
	Quantity *int `json:"quantity" validate:"required,min=1,max=1000000000"`
}

type listSweetsQuery struct {
	Name     string
	Category string
	MinPrice *float64
	MaxPrice *float64
}
