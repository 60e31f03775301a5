package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Name                string     `gorm:"default:''" json:"name"`
	Email               string     `gorm:"unique;not null" json:"email"`
	Password            string     `gorm:"not null" json:"-"`
	Role                string     `gorm:"default:'USER'" json:"role"` // USER, ADMIN
	Plan                string     `gorm:"default:'free'" json:"plan"` // free, pro, max
	CreditBalance       int64      `gorm:"default:0" json:"creditBalance"`
	LastLogin           time.Time  `gorm:"default:NULL" json:"lastLogin"`
	FailedLoginAttempts int        `gorm:"default:0" json:"-"`
	LastFailedLogin     *time.Time `json:"-"`
	IsBlocked           bool       `gorm:"default:false" json:"isBlocked"`
	BlockedUntil        *time.Time `json:"blockedUntil,omitempty"`
	IsDeleted           bool       `gorm:"default:false" json:"-"`
}
