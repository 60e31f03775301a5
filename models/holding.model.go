package models

import (
	"gorm.io/gorm"
)

// Holding is a position within a portfolio: symbol, quantity and average
// cost per share. Adding the same symbol again merges into a weighted
// average cost instead of creating a second row.
type Holding struct {
	gorm.Model
	PortfolioID uint    `gorm:"not null;index" json:"portfolioId"`
	Symbol      string  `gorm:"not null;type:varchar(12);index" json:"symbol"`
	Quantity    float64 `gorm:"not null" json:"quantity"`
	AvgCost     float64 `gorm:"not null" json:"avgCost"` // per share, portfolio currency
	IsDeleted   bool    `gorm:"default:false" json:"-"`

	Portfolio Portfolio `gorm:"foreignKey:PortfolioID" json:"-"`
}

func (Holding) TableName() string {
	return "holdings"
}
