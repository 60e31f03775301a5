package models

import (
	"gorm.io/gorm"
)

// Rate limit scopes used by the inbound limiter middleware. Each scope has
// at most one rule row; routes without a rule fall back to the configured
// default ceiling.
const (
	RateLimitScopeAPI      = "api"
	RateLimitScopeContact  = "contact"
	RateLimitScopeAnalysis = "analysis"
)

// RateLimitRule is an admin-editable per-minute request ceiling for a scope.
type RateLimitRule struct {
	gorm.Model
	Scope     string `gorm:"unique;not null;type:varchar(30)" json:"scope"`
	PerMinute int    `gorm:"not null" json:"perMinute"`
	Enabled   bool   `gorm:"default:true" json:"enabled"`
	UpdatedBy uint   `gorm:"default:0" json:"updatedBy"`
}

func (RateLimitRule) TableName() string {
	return "rate_limit_rules"
}
