package controllers_test

import (
	"net/http"
	"testing"
	"time"

	"leadtrack-backend/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCompleteCustomerMissingFields(t *testing.T) {
	cases := []struct {
		name string
		body map[string]interface{}
	}{
		{"no realName", map[string]interface{}{
			"phone": "+8613800138000", "targetCompany": "ByteDance", "hourlyRate": 500,
		}},
		{"no phone", map[string]interface{}{
			"realName": "Wang Lei", "targetCompany": "ByteDance", "hourlyRate": 500,
		}},
		{"no targetCompany", map[string]interface{}{
			"realName": "Wang Lei", "phone": "+8613800138000", "hourlyRate": 500,
		}},
		{"no hourlyRate", map[string]interface{}{
			"realName": "Wang Lei", "phone": "+8613800138000", "targetCompany": "ByteDance",
		}},
		{"blank realName", map[string]interface{}{
			"realName": "   ", "phone": "+8613800138000", "targetCompany": "ByteDance", "hourlyRate": 500,
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mock := setupMockDB(t)
			r := newRouter(uuid.NewString(), "emp1", "employee")

			// Rejected before any read or write
			w := performRequest(r, http.MethodPost, "/api/customers/"+uuid.NewString()+"/complete", tc.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCompleteCustomer(t *testing.T) {
	mock := setupMockDB(t)
	r := newRouter(uuid.NewString(), "emp1", "employee")

	customerID := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "customers" WHERE owner = \$1 AND id = \$2`).
		WillReturnRows(customerRows(models.Customer{
			ID: customerID, Nickname: "zhang", Status: models.StatusCommunicating, Owner: "emp1",
		}))

	// Map columns land alphabetically with updated_at appended after them:
	// the transition pins status=closed, stage2=awaiting_interview, wallet=0
	// and clears any stale stage-2 leftovers
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "customers" SET`).
		WithArgs(
			500.0,                         // hourly_rate
			nil,                           // interview_notice_time
			nil,                           // last_payment_time
			"+8613800138000",              // phone
			"Wang Lei",                    // real_name
			models.StageAwaitingInterview, // stage2_status
			models.StatusClosed,           // status
			"ByteDance",                   // target_company
			0.0,                           // wallet_balance
			sqlmock.AnyArg(),              // updated_at
			customerID.String(),           // WHERE id
		).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	w := performRequest(r, http.MethodPost, "/api/customers/"+customerID.String()+"/complete", map[string]interface{}{
		"realName":      "Wang Lei",
		"phone":         "+8613800138000",
		"targetCompany": "ByteDance",
		"hourlyRate":    500,
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompleteCustomerAlreadyContracted(t *testing.T) {
	mock := setupMockDB(t)
	r := newRouter(uuid.NewString(), "emp1", "employee")

	// A contracted customer with ledger money in the wallet must not be
	// completable again: that would reset wallet_balance to zero
	customerID := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "customers" WHERE owner = \$1 AND id = \$2`).
		WillReturnRows(customerRows(models.Customer{
			ID: customerID, Status: models.StatusClosed, Owner: "emp1",
			RealName: "Wang Lei", Stage2Status: models.StageTraining,
			WalletBalance: 7000,
		}))

	w := performRequest(r, http.MethodPost, "/api/customers/"+customerID.String()+"/complete", map[string]interface{}{
		"realName":      "Wang Lei",
		"phone":         "+8613800138000",
		"targetCompany": "ByteDance",
		"hourlyRate":    500,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompleteCustomerBadPhone(t *testing.T) {
	mock := setupMockDB(t)
	r := newRouter(uuid.NewString(), "emp1", "employee")

	w := performRequest(r, http.MethodPost, "/api/customers/"+uuid.NewString()+"/complete", map[string]interface{}{
		"realName":      "Wang Lei",
		"phone":         "not-a-phone",
		"targetCompany": "ByteDance",
		"hourlyRate":    500,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStageRequiresNoticeTime(t *testing.T) {
	mock := setupMockDB(t)
	r := newRouter(uuid.NewString(), "emp1", "employee")

	// interview_notified without a notice time is rejected before any write
	w := performRequest(r, http.MethodPut, "/api/customers/"+uuid.NewString()+"/stage", map[string]interface{}{
		"stage2Status": models.StageInterviewNotified,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStageUnknownValue(t *testing.T) {
	mock := setupMockDB(t)
	r := newRouter(uuid.NewString(), "emp1", "employee")

	w := performRequest(r, http.MethodPut, "/api/customers/"+uuid.NewString()+"/stage", map[string]interface{}{
		"stage2Status": "hired",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStageStoresNoticeTime(t *testing.T) {
	mock := setupMockDB(t)
	r := newRouter(uuid.NewString(), "emp1", "employee")

	customerID := uuid.New()
	noticeTime := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT \* FROM "customers" WHERE owner = \$1 AND id = \$2`).
		WillReturnRows(customerRows(models.Customer{
			ID: customerID, Status: models.StatusClosed, Owner: "emp1",
			Stage2Status: models.StageAwaitingInterview,
		}))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "customers" SET`).
		WithArgs(
			noticeTime,                    // interview_notice_time
			models.StageInterviewNotified, // stage2_status
			sqlmock.AnyArg(),              // updated_at
			customerID.String(),           // WHERE id
		).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	w := performRequest(r, http.MethodPut, "/api/customers/"+customerID.String()+"/stage", map[string]interface{}{
		"stage2Status":        models.StageInterviewNotified,
		"interviewNoticeTime": noticeTime,
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStageClearsNoticeTime(t *testing.T) {
	mock := setupMockDB(t)
	r := newRouter(uuid.NewString(), "emp1", "employee")

	customerID := uuid.New()
	supplied := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT \* FROM "customers" WHERE owner = \$1 AND id = \$2`).
		WillReturnRows(customerRows(models.Customer{
			ID: customerID, Status: models.StatusClosed, Owner: "emp1",
			Stage2Status: models.StageInterviewNotified,
		}))

	// Moving to any other stage wipes the stored time, even though the
	// caller supplied one
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "customers" SET`).
		WithArgs(
			nil,                         // interview_notice_time cleared
			models.StageInterviewPassed, // stage2_status
			sqlmock.AnyArg(),            // updated_at
			customerID.String(),         // WHERE id
		).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	w := performRequest(r, http.MethodPut, "/api/customers/"+customerID.String()+"/stage", map[string]interface{}{
		"stage2Status":        models.StageInterviewPassed,
		"interviewNoticeTime": supplied,
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStageRejectsLead(t *testing.T) {
	mock := setupMockDB(t)
	r := newRouter(uuid.NewString(), "emp1", "employee")

	customerID := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "customers" WHERE owner = \$1 AND id = \$2`).
		WillReturnRows(customerRows(models.Customer{
			ID: customerID, Status: models.StatusCommunicating, Owner: "emp1",
		}))

	w := performRequest(r, http.MethodPut, "/api/customers/"+customerID.String()+"/stage", map[string]interface{}{
		"stage2Status": models.StageTraining,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
