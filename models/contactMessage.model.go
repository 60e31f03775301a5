package models

import (
	"time"

	"gorm.io/gorm"
)

// ContactMessageStatus tracks the admin workflow state of a message
type ContactMessageStatus string

const (
	MessageStatusNew     ContactMessageStatus = "NEW"
	MessageStatusRead    ContactMessageStatus = "READ"
	MessageStatusReplied ContactMessageStatus = "REPLIED"
)

// ContactMessage is a submission from the marketing site contact form.
type ContactMessage struct {
	gorm.Model
	Name      string               `gorm:"not null" json:"name"`
	Email     string               `gorm:"not null;index" json:"email"`
	Subject   string               `gorm:"not null" json:"subject"`
	Message   string               `gorm:"type:text;not null" json:"message"`
	Status    ContactMessageStatus `gorm:"type:varchar(10);default:'NEW';index" json:"status"`
	ReplyNote string               `gorm:"type:text" json:"replyNote,omitempty"`
	RepliedBy uint                 `gorm:"default:0" json:"repliedBy,omitempty"`
	RepliedAt *time.Time           `json:"repliedAt,omitempty"`
	IPAddress string               `gorm:"type:varchar(45)" json:"-"`
	IsDeleted bool                 `gorm:"default:false" json:"-"`
}

func (ContactMessage) TableName() string {
	return "contact_messages"
}
