package domain

import "github.com/shopspring/decimal"

func init() {
	// Prices travel as JSON numbers, not quoted strings
	decimal.MarshalJSONWithoutQuotes = true
}

// Product is the persisted representation of a catalog item
type Product struct {
	ID          int64           `db:"id"`
	Name        string          `db:"name"`
	Description string          `db:"description"`
	Price       decimal.Decimal `db:"price"`
	Quantity    int             `db:"quantity"`
}

// ProductDTO is the request and response body for products
//
// swagger:model
type ProductDTO struct {
	// The ID of the product, assigned on creation
	//
	// required: false
	// example: 1
	ID int64 `json:"id"`

	// The name of the product
	//
	// required: true
	// example: Pen
	Name string `json:"name" validate:"required"`

	// The description of the product
	//
	// required: false
	// example: Blue pen
	Description string `json:"description"`

	// The price of the product
	//
	// required: true
	// example: 1.50
	Price *decimal.Decimal `json:"price" validate:"required"`

	// The number of units in stock
	//
	// required: true
	// example: 100
	Quantity *int `json:"quantity" validate:"required"`
}

// ToEntity copies every field of the DTO, the id included, into a new Product.
// A nil price or quantity becomes zero.
func (d *ProductDTO) ToEntity() *Product {
	p := &Product{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
	}
	if d.Price != nil {
		p.Price = *d.Price
	}
	if d.Quantity != nil {
		p.Quantity = *d.Quantity
	}
	return p
}

// ApplyTo overwrites the mutable fields of p with the DTO's values. The id of p is kept.
func (d *ProductDTO) ApplyTo(p *Product) {
	e := d.ToEntity()
	p.Name = e.Name
	p.Description = e.Description
	p.Price = e.Price
	p.Quantity = e.Quantity
}

// NewProductDTO maps an entity to its wire form
func NewProductDTO(p *Product) *ProductDTO {
	price := p.Price
	quantity := p.Quantity
	return &ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       &price,
		Quantity:    &quantity,
	}
}
