package models

import "time"

// Coupon is a promotional code managed by an administrator. Codes are stored
// uppercase and matched case-insensitively. Reuse is unlimited: no redemption
// counter is tracked.
type Coupon struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Code      string    `json:"code" gorm:"uniqueIndex;type:varchar(40)" validate:"required,min=2,max=40"`
	Percent   int       `json:"percent" validate:"gte=0,lte=100"`
	MinSpend  int64     `json:"min_spend" validate:"gte=0"`
	ValidFrom time.Time `json:"valid_from"`
	ValidTill time.Time `json:"valid_till"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CouponResult is the transient outcome of applying a coupon to a cart
// subtotal. Only the resulting total survives into the order record.
type CouponResult struct {
	Code     string `json:"code"`
	Percent  int    `json:"percent"`
	Discount int64  `json:"discount"`
}
