package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Analysis kinds accepted by the AI analysis endpoint
const (
	AnalysisKindSummary  = "summary"
	AnalysisKindBullBear = "bull_bear"
	AnalysisKindRisks    = "risks"
)

// Analysis is a persisted AI analysis run: the market context it was fed,
// the model response, and the credits it consumed.
type Analysis struct {
	gorm.Model
	UserID      uint           `gorm:"not null;index" json:"userId"`
	Symbol      string         `gorm:"not null;type:varchar(12);index" json:"symbol"`
	Kind        string         `gorm:"not null;type:varchar(20)" json:"kind"`
	Params      datatypes.JSON `gorm:"type:json" json:"params"` // quote+metrics snapshot fed to the model
	Response    string         `gorm:"type:text" json:"response"`
	ModelName   string         `gorm:"type:varchar(80)" json:"model"`
	CreditsUsed int64          `gorm:"default:0" json:"creditsUsed"`
	FromCache   bool           `gorm:"default:false" json:"fromCache"`
	IsDeleted   bool           `gorm:"default:false" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Analysis) TableName() string {
	return "analyses"
}
