package models

import (
	"time"

	"gorm.io/gorm"
)

// PromoCode grants a fixed credit bonus when redeemed. A user may redeem a
// given code at most once; MaxRedemptions of 0 means unlimited.
type PromoCode struct {
	gorm.Model
	Code            string     `gorm:"unique;not null" json:"code"`
	Description     string     `gorm:"type:text" json:"description"`
	Credits         int64      `gorm:"not null" json:"credits"`
	MaxRedemptions  int        `gorm:"default:0" json:"maxRedemptions"`
	RedemptionCount int        `gorm:"default:0" json:"redemptionCount"`
	ExpiresAt       *time.Time `json:"expiresAt,omitempty"`
	IsActive        bool       `gorm:"default:true" json:"isActive"`
	CreatedByID     uint       `gorm:"default:0" json:"createdById"`
	IsDeleted       bool       `gorm:"default:false" json:"-"`
}

func (PromoCode) TableName() string {
	return "promo_codes"
}
