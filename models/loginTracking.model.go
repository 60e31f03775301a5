package models

import (
	"time"

	"gorm.io/gorm"
)

// LoginTracking records each successful login for the account history view.
type LoginTracking struct {
	gorm.Model
	UserID    uint      `gorm:"not null;index" json:"userId"`
	IPAddress string    `gorm:"type:varchar(45)" json:"ipAddress"`
	Device    string    `gorm:"type:text" json:"device"`
	Timestamp time.Time `gorm:"not null" json:"timestamp"`
	IsDeleted bool      `gorm:"default:false" json:"-"`
}

func (LoginTracking) TableName() string {
	return "login_trackings"
}
