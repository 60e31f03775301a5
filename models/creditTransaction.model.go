package models

import (
	"time"

	"gorm.io/gorm"
)

// CreditTransactionType defines the type of credit ledger entry
type CreditTransactionType string

const (
	CreditTypeSignupGrant  CreditTransactionType = "SIGNUP_GRANT"
	CreditTypeMonthlyGrant CreditTransactionType = "MONTHLY_GRANT"
	CreditTypeConsume      CreditTransactionType = "CONSUME"
	CreditTypeRefund       CreditTransactionType = "REFUND"
	CreditTypePromoBonus   CreditTransactionType = "PROMO_BONUS"
	CreditTypeAdminCredit  CreditTransactionType = "ADMIN_CREDIT"
	CreditTypeAdminDebit   CreditTransactionType = "ADMIN_DEBIT"
)

// CreditTransaction is one immutable row of the per-user credit ledger.
// Every balance change writes exactly one row inside the same DB transaction
// that updates users.credit_balance.
type CreditTransaction struct {
	gorm.Model
	UserID          uint                  `gorm:"not null;index" json:"userId"`
	TransactionType CreditTransactionType `gorm:"type:varchar(30);not null" json:"transactionType"`
	Amount          int64                 `gorm:"not null" json:"amount"` // positive; direction comes from the type
	BalanceBefore   int64                 `gorm:"not null" json:"balanceBefore"`
	BalanceAfter    int64                 `gorm:"not null" json:"balanceAfter"`
	Description     string                `gorm:"type:text" json:"description"`

	// Reference details (what the credits were spent on or granted for)
	ReferenceType string `gorm:"type:varchar(50)" json:"referenceType"` // analysis, promo, plan
	ReferenceID   string `gorm:"type:varchar(64);index" json:"referenceId"`

	// Admin details (for manual credits/debits)
	AdminID uint   `gorm:"default:0" json:"adminId,omitempty"`
	Reason  string `gorm:"type:text" json:"reason,omitempty"`

	TransactionDate time.Time `gorm:"not null" json:"transactionDate"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (CreditTransaction) TableName() string {
	return "credit_transactions"
}
