package models

import "time"

const (
	TxDeduction = "deduction"
	TxPurchase  = "purchase"
	TxLaunch    = "launch"
	TxRefund    = "refund"
)

// CreditTransaction is an append-only audit row; exactly one exists for every
// balance mutation. Amount is a magnitude, direction is implied by the type.
type CreditTransaction struct {
	Id              uint      `json:"id" gorm:"primaryKey"`
	UserId          string    `json:"-" gorm:"index;not null"`
	Amount          int       `json:"amount" gorm:"not null"`
	TransactionType string    `json:"transaction_type" gorm:"not null"`
	Description     string    `json:"description"`
	PhoneNumber     string    `json:"phone_number,omitempty"`
	MessageCount    int       `json:"message_count,omitempty"`
	IpAddress       string    `json:"-"`
	CreatedAt       time.Time `json:"created_at"`
}

// Signed returns the amount with direction applied: deductions and launches
// drain the balance, purchases and refunds feed it.
func (t *CreditTransaction) Signed() int {
	switch t.TransactionType {
	case TxDeduction, TxLaunch:
		return -t.Amount
	default:
		return t.Amount
	}
}
