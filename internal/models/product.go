package models

import (
	"time"

	"gorm.io/gorm"
)

// Product is a catalog entry: a hamper or gift item, optionally offered in
// several variations (sizes, assortments). The checkout core treats the
// cart's client-supplied snapshot as authoritative; the catalog is read only
// to validate and display cart contents.
type Product struct {
	ID          string         `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string         `json:"name" validate:"required,min=3,max=100"`
	Description string         `json:"description" validate:"omitempty,max=500"`
	Price       int64          `json:"price" validate:"required,gt=0"`
	Category    string         `json:"category" validate:"required,max=50"`
	Image       string         `json:"image" validate:"omitempty,url"`
	Variations  []Variation    `json:"variations,omitempty" gorm:"serializer:json"`
	Stock       int            `json:"stock" validate:"gte=0"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}
