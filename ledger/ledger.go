package ledger

import (
	"fmt"

	"smsburst-backend/models"

	"gorm.io/gorm"
)

// InsufficientCreditsError reports a deduction denied for lack of balance.
type InsufficientCreditsError struct {
	Required  int
	Available int
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("insufficient credits: required %d, available %d", e.Required, e.Available)
}

// Entry describes the audit row accompanying a balance mutation.
type Entry struct {
	Type         string
	Description  string
	PhoneNumber  string
	MessageCount int
	IpAddress    string
}

// Ledger owns the credits balance and its append-only audit log. Every
// balance mutation writes exactly one CreditTransaction row.
type Ledger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// Deduct decrements the balance only if it covers amount, in a single
// conditioned UPDATE so concurrent deductions for one user can never drive
// the balance negative. The audit row is written in the same transaction.
func (l *Ledger) Deduct(userID string, amount int, entry Entry) (newBalance int, err error) {
	if amount <= 0 {
		return 0, fmt.Errorf("deduct amount must be positive, got %d", amount)
	}
	err = l.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).
			Where("id = ? AND credits >= ?", userID, amount).
			Update("credits", gorm.Expr("credits - ?", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var user models.User
			if e := tx.Select("credits").First(&user, "id = ?", userID).Error; e != nil {
				return e
			}
			return &InsufficientCreditsError{Required: amount, Available: user.Credits}
		}
		if e := l.record(tx, userID, amount, entry); e != nil {
			return e
		}
		var user models.User
		if e := tx.Select("credits").First(&user, "id = ?", userID).Error; e != nil {
			return e
		}
		newBalance = user.Credits
		return nil
	})
	return newBalance, err
}

// Add increments the balance unconditionally; purchases and refunds both land
// here. The audit row is written in the same transaction.
func (l *Ledger) Add(userID string, amount int, entry Entry) (newBalance int, err error) {
	if amount <= 0 {
		return 0, fmt.Errorf("add amount must be positive, got %d", amount)
	}
	err = l.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).
			Where("id = ?", userID).
			Update("credits", gorm.Expr("credits + ?", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if e := l.record(tx, userID, amount, entry); e != nil {
			return e
		}
		var user models.User
		if e := tx.Select("credits").First(&user, "id = ?", userID).Error; e != nil {
			return e
		}
		newBalance = user.Credits
		return nil
	})
	return newBalance, err
}

func (l *Ledger) record(tx *gorm.DB, userID string, amount int, entry Entry) error {
	row := models.CreditTransaction{
		UserId:          userID,
		Amount:          amount,
		TransactionType: entry.Type,
		Description:     entry.Description,
		PhoneNumber:     entry.PhoneNumber,
		MessageCount:    entry.MessageCount,
		IpAddress:       entry.IpAddress,
	}
	return tx.Create(&row).Error
}

// Balance reads the current balance.
func (l *Ledger) Balance(userID string) (int, error) {
	var user models.User
	if err := l.db.Select("credits").First(&user, "id = ?", userID).Error; err != nil {
		return 0, err
	}
	return user.Credits, nil
}

// Transactions returns the newest audit rows, capped at 100 per page.
func (l *Ledger) Transactions(userID string, limit int) ([]models.CreditTransaction, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	var rows []models.CreditTransaction
	err := l.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
