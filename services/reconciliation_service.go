// services/reconciliation_service.go
package services

import (
	"log"
	"math"
	"time"

	"leadtrack-backend/models"
	"leadtrack-backend/utils"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// Leads with no follow-up for this many days show up in the stale report
const staleFollowUpDays = 7

// ReconciliationService keeps the cached wallet balances honest. The
// payment ledger is the source of truth; the wallet_balance column on the
// customer row is only a display cache, so the nightly sweep recomputes
// every contracted customer's balance from the ledger and repairs any
// drift it finds.
type ReconciliationService struct {
	db *gorm.DB
}

func NewReconciliationService(db *gorm.DB) *ReconciliationService {
	return &ReconciliationService{db: db}
}

func (s *ReconciliationService) StartScheduler() {
	c := cron.New()

	// Run every day at 3 AM
	if _, err := c.AddFunc("0 3 * * *", func() {
		s.ReconcileWalletBalances()
		s.ReportStaleFollowUps()
	}); err != nil {
		log.Printf("Failed to schedule reconciliation job: %v", err)
		return
	}

	c.Start()
	log.Println("Reconciliation scheduler started")
}

// ReconcileWalletBalances recomputes each contracted customer's wallet
// balance as the sum of their payment ledger and fixes mismatches.
func (s *ReconciliationService) ReconcileWalletBalances() {
	log.Println("Starting wallet balance reconciliation...")

	var customers []models.Customer
	if err := s.db.Where("status = ?", models.StatusClosed).Find(&customers).Error; err != nil {
		log.Printf("Failed to fetch contracted customers: %v", err)
		return
	}

	repaired := 0
	for _, customer := range customers {
		var payments []models.Payment
		if err := s.db.Where("customer_id = ?", customer.ID).Find(&payments).Error; err != nil {
			log.Printf("Customer %s: failed to fetch payments: %v", customer.ID, err)
			continue
		}

		// The column stores two decimal places; anything within half a cent
		// is float noise, not drift
		ledgerBalance := models.SumPayments(payments)
		if math.Abs(ledgerBalance-customer.WalletBalance) < 0.005 {
			continue
		}

		if err := s.db.Model(&models.Customer{}).Where("id = ?", customer.ID).
			Update("wallet_balance", ledgerBalance).Error; err != nil {
			log.Printf("Customer %s: failed to repair balance: %v", customer.ID, err)
			continue
		}
		log.Printf("Customer %s: balance repaired %v -> %v", customer.ID, customer.WalletBalance, ledgerBalance)
		repaired++
	}

	log.Printf("Wallet balance reconciliation completed, %d repaired", repaired)
}

// ReportStaleFollowUps logs lead-stage customers whose last follow-up is
// older than the staleness window, per owner, so the team can chase them.
func (s *ReconciliationService) ReportStaleFollowUps() {
	now := time.Now()

	var customers []models.Customer
	if err := s.db.Where("status = ?", models.StatusCommunicating).
		Preload("FollowUps", func(db *gorm.DB) *gorm.DB {
			return db.Order("follow_ups.time ASC")
		}).
		Find(&customers).Error; err != nil {
		log.Printf("Failed to fetch lead customers: %v", err)
		return
	}

	stale := 0
	for _, customer := range customers {
		last := customer.CreatedAt
		if n := len(customer.FollowUps); n > 0 {
			last = customer.FollowUps[n-1].Time
		}
		if utils.DaysBetween(last, now) >= staleFollowUpDays {
			log.Printf("Stale lead: %s (owner %s), no follow-up for %d days",
				customer.Nickname, customer.Owner, utils.DaysBetween(last, now))
			stale++
		}
	}

	log.Printf("Stale follow-up report completed, %d stale leads", stale)
}
