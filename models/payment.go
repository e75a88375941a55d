package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment is one signed entry in a customer's wallet ledger. Negative
// amounts are refunds. Rows are append-only; the customer's WalletBalance
// column is a cache of SUM(amount) maintained at insert time and repaired
// by the reconciliation sweep.
type Payment struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CustomerID  uuid.UUID `gorm:"type:uuid;index;not null" json:"customerId"`
	Amount      float64   `gorm:"type:decimal(12,2);not null" json:"amount"`
	PaymentName string    `json:"paymentName,omitempty"`
	PaymentTime time.Time `gorm:"not null;index" json:"paymentTime"`
	Notes       string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedBy   string    `json:"createdBy"`

	CreatedAt time.Time `json:"createdAt"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}

// SumPayments is the ledger-side wallet balance.
func SumPayments(payments []Payment) float64 {
	var total float64
	for _, p := range payments {
		total += p.Amount
	}
	return total
}
