package product

import "time"

type Product struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	Images       []string  `json:"images"`
	Sizes        []string  `json:"sizes"`
	Colors       []string  `json:"colors"`
	CountInStock int       `json:"count_in_stock"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FirstImage returns the image used for cart line-item snapshots.
func (p *Product) FirstImage() string {
	if len(p.Images) > 0 {
		return p.Images[0]
	}
	return ""
}

type CreateProductParams struct {
	Name         string
	Description  string
	Price        float64
	Images       []string
	Sizes        []string
	Colors       []string
	CountInStock int
}

type UpdateProductParams struct {
	Name         *string
	Description  *string
	Price        *float64
	Images       []string
	Sizes        []string
	Colors       []string
	CountInStock *int
}

type ListOptions struct {
	Limit int
	Page  int
}
