package models

import (
	"time"

	"gorm.io/gorm"
)

// AlertCondition defines when a price alert fires
type AlertCondition string

const (
	AlertConditionAbove AlertCondition = "ABOVE"
	AlertConditionBelow AlertCondition = "BELOW"
)

// Alert is a one-shot price alert. The scheduler sweep deactivates an alert
// after it triggers and records the price that tripped it.
type Alert struct {
	gorm.Model
	UserID         uint           `gorm:"not null;index" json:"userId"`
	Symbol         string         `gorm:"not null;type:varchar(12)" json:"symbol"`
	Condition      AlertCondition `gorm:"type:varchar(10);not null" json:"condition"`
	Threshold      float64        `gorm:"not null" json:"threshold"`
	IsActive       bool           `gorm:"default:true" json:"isActive"`
	TriggeredAt    *time.Time     `json:"triggeredAt,omitempty"`
	TriggeredPrice float64        `gorm:"default:0" json:"triggeredPrice,omitempty"`
	NotifiedAt     *time.Time     `json:"notifiedAt,omitempty"`
	IsDeleted      bool           `gorm:"default:false" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Alert) TableName() string {
	return "alerts"
}
