package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FollowUp is one timestamped note against a customer. Rows are append-only:
// no update or delete route exists, and appending is a single insert so
// concurrent follow-ups never overwrite each other.
type FollowUp struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CustomerID uuid.UUID `gorm:"type:uuid;index;not null" json:"customerId"`
	Time       time.Time `gorm:"not null" json:"time"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	CreatedBy  string    `json:"createdBy"`

	CreatedAt time.Time `json:"createdAt"`
}

func (f *FollowUp) BeforeCreate(tx *gorm.DB) (err error) {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return
}
