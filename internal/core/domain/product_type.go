package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductTypeStatus is the publication state of a product type.
type ProductTypeStatus string

const (
	ProductTypeActive   ProductTypeStatus = "active"
	ProductTypeInactive ProductTypeStatus = "inactive"
)

// Valid reports whether s is a known status.
func (s ProductTypeStatus) Valid() bool {
	return s == ProductTypeActive || s == ProductTypeInactive
}

// ProductType groups storefront products (e.g. "T-Shirts", "Posters").
type ProductType struct {
	ID          uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	Name        string            `json:"name" gorm:"not null"`
	Slug        string            `json:"slug" gorm:"not null;uniqueIndex"`
	Description *string           `json:"description"`
	Status      ProductTypeStatus `json:"status" gorm:"type:varchar(20);not null;default:'active';index"`
	SortOrder   int               `json:"sortOrder" gorm:"not null;default:0"`
	CreatedAt   time.Time         `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt   time.Time         `json:"updatedAt" gorm:"autoUpdateTime"`
}

// BeforeCreate assigns a UUID v7 when the caller left the ID empty.
func (p *ProductType) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.Must(uuid.NewV7())
	}
	return nil
}

func (ProductType) TableName() string {
	return "product_types"
}
