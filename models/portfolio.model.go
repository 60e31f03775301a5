package models

import (
	"gorm.io/gorm"
)

type Portfolio struct {
	gorm.Model
	UserID    uint   `gorm:"not null;index" json:"userId"`
	Name      string `gorm:"not null" json:"name"`
	Currency  string `gorm:"type:varchar(3);default:'USD'" json:"currency"`
	IsDefault bool   `gorm:"default:false" json:"isDefault"`
	IsDeleted bool   `gorm:"default:false" json:"-"`

	Holdings []Holding `gorm:"foreignKey:PortfolioID" json:"holdings,omitempty"`
	User     User      `gorm:"foreignKey:UserID" json:"-"`
}

func (Portfolio) TableName() string {
	return "portfolios"
}
