package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Lead-stage status values. A customer with StatusClosed is a contracted
// customer and is tracked through Stage2Status from then on.
const (
	StatusCommunicating = "communicating"
	StatusClosed        = "closed"
	StatusRejected      = "rejected"
)

const (
	IntentionHigh   = "high"
	IntentionMedium = "medium"
	IntentionLow    = "low"
)

// Stage-2 status values for contracted customers. Transitions between them
// are free; only StageInterviewNotified carries an extra required field
// (the interview notice time).
const (
	StageAwaitingInterview = "awaiting_interview"
	StageInterviewNotified = "interview_notified"
	StageInterviewPassed   = "interview_passed"
	StageInterviewFailed   = "interview_failed"
	StageTraining          = "training"
	StageCompleted         = "completed"
)

func IsValidStatus(status string) bool {
	switch status {
	case StatusCommunicating, StatusClosed, StatusRejected:
		return true
	}
	return false
}

func IsValidIntention(intention string) bool {
	switch intention {
	case IntentionHigh, IntentionMedium, IntentionLow:
		return true
	}
	return false
}

func IsValidStage(stage string) bool {
	switch stage {
	case StageAwaitingInterview, StageInterviewNotified, StageInterviewPassed,
		StageInterviewFailed, StageTraining, StageCompleted:
		return true
	}
	return false
}

func IsValidGender(gender string) bool {
	switch gender {
	case "male", "female", "other":
		return true
	}
	return false
}

type Customer struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`

	Nickname       string `gorm:"not null" json:"nickname"`
	Contact        string `json:"contact"`
	Source         string `json:"source"`
	Intention      string `gorm:"type:varchar(20)" json:"intention"`          // high, medium, low
	Status         string `gorm:"type:varchar(20);index" json:"status"`       // communicating, closed, rejected
	Age            *int   `json:"age"`
	Gender         string `gorm:"type:varchar(10)" json:"gender,omitempty"`
	WorkExperience string `gorm:"type:text" json:"workExperience"`
	Notes          string `gorm:"type:text" json:"notes"`
	Owner          string `gorm:"index;not null" json:"owner"` // username of the staff member responsible

	// Contract fields, populated only once status becomes 'closed'
	RealName            string     `json:"realName,omitempty"`
	Phone               string     `json:"phone,omitempty"`
	TargetCompany       string     `json:"targetCompany,omitempty"`
	HourlyRate          *float64   `gorm:"type:decimal(10,2)" json:"hourlyRate,omitempty"`
	WalletBalance       float64    `gorm:"type:decimal(12,2);default:0.0" json:"walletBalance"`
	Stage2Status        string     `gorm:"type:varchar(30);index" json:"stage2Status,omitempty"`
	InterviewNoticeTime *time.Time `json:"interviewNoticeTime,omitempty"`
	LastPaymentTime     *time.Time `json:"lastPaymentTime,omitempty"`

	FollowUps []FollowUp `gorm:"foreignKey:CustomerID" json:"followUps,omitempty"`
	Payments  []Payment  `gorm:"foreignKey:CustomerID" json:"payments,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (cu *Customer) BeforeCreate(tx *gorm.DB) (err error) {
	if cu.ID == uuid.Nil {
		cu.ID = uuid.New()
	}
	return
}

// IsContracted reports whether the customer has exited the lead pipeline.
func (cu *Customer) IsContracted() bool {
	return cu.Status == StatusClosed
}
