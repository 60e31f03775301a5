package credits

import (
	"errors"
	"time"

	"finboard/logger"
	"finboard/models"

	"gorm.io/gorm"
)

// ErrInsufficientCredits is returned when a spend would push the balance
// below zero. Handlers map it to a 402.
var ErrInsufficientCredits = errors.New("insufficient credits")

// ErrUserNotFound is returned when the ledger target does not exist.
var ErrUserNotFound = errors.New("user not found")

// Entry carries the ledger row metadata for a balance change.
type Entry struct {
	Description   string
	ReferenceType string
	ReferenceID   string
	AdminID       uint
	Reason        string
}

// Spend deducts amount from the user's balance and writes a CONSUME row.
// The ledger row and the balance update commit in one transaction; a balance
// that cannot cover the amount rolls back with ErrInsufficientCredits.
func Spend(db *gorm.DB, userID uint, amount int64, entry Entry) (*models.CreditTransaction, error) {
	return apply(db, userID, amount, models.CreditTypeConsume, entry)
}

// Refund returns previously spent credits with a REFUND row.
func Refund(db *gorm.DB, userID uint, amount int64, entry Entry) (*models.CreditTransaction, error) {
	return apply(db, userID, amount, models.CreditTypeRefund, entry)
}

// Grant adds credits with the given grant-style type (signup, monthly,
// promo, admin).
func Grant(db *gorm.DB, userID uint, amount int64, txType models.CreditTransactionType, entry Entry) (*models.CreditTransaction, error) {
	return apply(db, userID, amount, txType, entry)
}

// Deduct removes credits outside the spend path (admin debits). The balance
// floor still applies.
func Deduct(db *gorm.DB, userID uint, amount int64, entry Entry) (*models.CreditTransaction, error) {
	return apply(db, userID, amount, models.CreditTypeAdminDebit, entry)
}

// Balance reads the current balance for a user.
func Balance(db *gorm.DB, userID uint) (int64, error) {
	var user models.User
	if err := db.Where("id = ? AND is_deleted = false", userID).First(&user).Error; err != nil {
		return 0, ErrUserNotFound
	}
	return user.CreditBalance, nil
}

// debits lists the types that subtract from the balance.
func isDebit(txType models.CreditTransactionType) bool {
	return txType == models.CreditTypeConsume || txType == models.CreditTypeAdminDebit
}

func apply(db *gorm.DB, userID uint, amount int64, txType models.CreditTransactionType, entry Entry) (*models.CreditTransaction, error) {
	if amount <= 0 {
		return nil, errors.New("amount must be positive")
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	var user models.User
	if err := tx.Where("id = ? AND is_deleted = false", userID).First(&user).Error; err != nil {
		tx.Rollback()
		return nil, ErrUserNotFound
	}

	balanceBefore := user.CreditBalance
	var balanceAfter int64
	if isDebit(txType) {
		if user.CreditBalance < amount {
			tx.Rollback()
			return nil, ErrInsufficientCredits
		}
		balanceAfter = balanceBefore - amount
	} else {
		balanceAfter = balanceBefore + amount
	}

	transaction := models.CreditTransaction{
		UserID:          userID,
		TransactionType: txType,
		Amount:          amount,
		BalanceBefore:   balanceBefore,
		BalanceAfter:    balanceAfter,
		Description:     entry.Description,
		ReferenceType:   entry.ReferenceType,
		ReferenceID:     entry.ReferenceID,
		AdminID:         entry.AdminID,
		Reason:          entry.Reason,
		TransactionDate: time.Now(),
	}

	if err := tx.Create(&transaction).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	user.CreditBalance = balanceAfter
	if err := tx.Save(&user).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	logger.Log.Debug().
		Uint("userId", userID).
		Str("type", string(txType)).
		Int64("amount", amount).
		Int64("balance", balanceAfter).
		Msg("credit ledger entry")

	return &transaction, nil
}
