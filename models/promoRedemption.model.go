package models

import (
	"gorm.io/gorm"
)

// PromoRedemption records one user's redemption of one promo code. The
// composite unique index enforces single redemption per user per code.
type PromoRedemption struct {
	gorm.Model
	PromoCodeID uint  `gorm:"not null;index;uniqueIndex:idx_promo_user" json:"promoCodeId"`
	UserID      uint  `gorm:"not null;index;uniqueIndex:idx_promo_user" json:"userId"`
	Credits     int64 `gorm:"not null" json:"credits"`

	PromoCode PromoCode `gorm:"foreignKey:PromoCodeID" json:"-"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
}

func (PromoRedemption) TableName() string {
	return "promo_redemptions"
}
