package models

import (
	"gorm.io/gorm"
)

// Plan is one row of the pricing catalog rendered by the marketing pages.
// MonthlyCredits is granted by the scheduler on the first of each month.
type Plan struct {
	gorm.Model
	Key            string  `gorm:"unique;not null;type:varchar(20)" json:"key"` // free, pro, max
	Name           string  `gorm:"not null" json:"name"`
	PriceMonthly   float64 `gorm:"default:0" json:"priceMonthly"` // USD
	MonthlyCredits int64   `gorm:"default:0" json:"monthlyCredits"`
	MaxPortfolios  int     `gorm:"default:1" json:"maxPortfolios"`
	MaxAlerts      int     `gorm:"default:5" json:"maxAlerts"`
	Description    string  `gorm:"type:text" json:"description"`
	SortOrder      int     `gorm:"default:0" json:"sortOrder"`
	IsActive       bool    `gorm:"default:true" json:"isActive"`
}

func (Plan) TableName() string {
	return "plans"
}
