package domain

import "time"

// Category is one of the fixed sweet categories sold by the shop.
type Category string

const (
	CategoryMithai     Category = "Mithai"
	CategoryBarfi      Category = "Barfi"
	CategoryLaddoo     Category = "Laddoo"
	CategoryHalwa      Category = "Halwa"
	CategoryGulabJamun Category = "Gulab Jamun"
	CategoryRasgulla   Category = "Rasgulla"
	CategoryJalebi     Category = "Jalebi"
	CategoryKajuKatli  Category = "Kaju Katli"
	CategoryOther      Category = "Other"
)

// Categories lists every known category in display order.
var Categories = []Category{
	CategoryMithai,
	CategoryBarfi,
	CategoryLaddoo,
	CategoryHalwa,
	CategoryGulabJamun,
	CategoryRasgulla,
	CategoryJalebi,
	CategoryKajuKatli,
	CategoryOther,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// MaxQuantity is the most units a single sweet may hold.
const MaxQuantity = 1_000_000_000

// Sweet is a sellable catalog item. Quantity stays within [0, MaxQuantity].
type Sweet struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Category    Category  `json:"category"`
	Price       float64   `json:"price"`
	Quantity    int       `json:"quantity"`
	Image       string    `json:"image"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// InStock reports whether at least one unit is available.
func (s *Sweet) InStock() bool {
	return s.Quantity > 0
}
