package catalog

import (
	"strings"

	"github.com/courseplatform/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductStatus represents the status of a product
type ProductStatus string

const (
	ProductStatusActive     ProductStatus = "active"
	ProductStatusInactive   ProductStatus = "inactive"
	ProductStatusOutOfStock ProductStatus = "out_of_stock"
)

// IsValid reports whether the status is known
func (s ProductStatus) IsValid() bool {
	switch s {
	case ProductStatusActive, ProductStatusInactive, ProductStatusOutOfStock:
		return true
	}
	return false
}

// Product represents a physical learning material with tracked stock.
// A product with zero stock is always out_of_stock.
type Product struct {
	shared.BaseEntity
	Name          string          `gorm:"type:varchar(200);not null"`
	Description   string          `gorm:"type:text"`
	Price         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Category      string          `gorm:"type:varchar(50);index"`
	StockQuantity int             `gorm:"not null;default:0"`
	ImageURL      string          `gorm:"column:image_url;type:varchar(255)"`
	Status        ProductStatus   `gorm:"type:varchar(20);not null;default:'active';index"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a product. Zero stock makes it out_of_stock right away.
func NewProduct(name string, price decimal.Decimal, stock int) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("name is required")
	}
	if err := validatePrice(price); err != nil {
		return nil, err
	}
	if stock < 0 {
		return nil, shared.NewValidationError("stock_quantity cannot be negative")
	}

	p := &Product{
		BaseEntity:    shared.NewBaseEntity(),
		Name:          name,
		Price:         price.Round(2),
		StockQuantity: stock,
		Status:        ProductStatusActive,
	}
	p.syncStockStatus(false)
	return p, nil
}

// ProductUpdate carries optional product changes. Nil fields are left untouched.
type ProductUpdate struct {
	Name          *string
	Description   *string
	Price         *decimal.Decimal
	Category      *string
	StockQuantity *int
	ImageURL      *string
	Status        *ProductStatus
}

// Apply validates and applies the update. Nothing is changed on error.
func (p *Product) Apply(upd ProductUpdate) error {
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return shared.NewValidationError("name is required")
	}
	if upd.Price != nil {
		if err := validatePrice(*upd.Price); err != nil {
			return err
		}
	}
	if upd.StockQuantity != nil && *upd.StockQuantity < 0 {
		return shared.NewValidationError("stock_quantity cannot be negative")
	}
	if upd.Status != nil && !upd.Status.IsValid() {
		return shared.NewValidationError("Invalid status. Must be one of: active, inactive, out_of_stock")
	}

	if upd.Name != nil {
		p.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Description != nil {
		p.Description = *upd.Description
	}
	if upd.Price != nil {
		p.Price = upd.Price.Round(2)
	}
	if upd.Category != nil {
		p.Category = *upd.Category
	}
	if upd.StockQuantity != nil {
		p.StockQuantity = *upd.StockQuantity
	}
	if upd.ImageURL != nil {
		p.ImageURL = *upd.ImageURL
	}
	if upd.Status != nil {
		p.Status = *upd.Status
	}
	p.syncStockStatus(upd.Status != nil)
	p.Touch()
	return nil
}

// syncStockStatus keeps status consistent with stock. A restocked
// out_of_stock product becomes active again unless the caller chose a status.
func (p *Product) syncStockStatus(statusExplicit bool) {
	if p.StockQuantity <= 0 {
		p.StockQuantity = 0
		p.Status = ProductStatusOutOfStock
		return
	}
	if p.Status == ProductStatusOutOfStock && !statusExplicit {
		p.Status = ProductStatusActive
	}
}

// IsActive returns true if the product can be ordered
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// HasStock reports whether quantity units are available
func (p *Product) HasStock(quantity int) bool {
	return p.StockQuantity >= quantity
}

// LinePrice returns unit price times quantity
func (p *Product) LinePrice(quantity int) decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(quantity)))
}
