// services/notification_service.go
package services

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"leadtrack-backend/models"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// SendInterviewNotice messages a contracted customer when their interview
// has been scheduled. Best effort: a missing Twilio config or a send
// failure is logged and never propagated to the caller.
func SendInterviewNotice(customer models.Customer, noticeTime time.Time) {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")
	if accountSid == "" || authToken == "" {
		log.Printf("Twilio not configured, skipping interview notice for customer %s", customer.ID)
		return
	}
	if customer.Phone == "" {
		log.Printf("Customer %s has no phone, skipping interview notice", customer.ID)
		return
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSid,
		Password: authToken,
	})

	name := customer.RealName
	if name == "" {
		name = customer.Nickname
	}
	message := fmt.Sprintf("Hi %s, your interview with %s has been scheduled for %s.",
		name, customer.TargetCompany, noticeTime.Format("2006-01-02 15:04"))

	// WhatsApp if the phone is in E.164 format, SMS otherwise
	params := &twilioApi.CreateMessageParams{}
	params.SetBody(message)
	if strings.HasPrefix(customer.Phone, "+") {
		params.SetTo("whatsapp:" + customer.Phone)
		params.SetFrom("whatsapp:" + os.Getenv("TWILIO_WHATSAPP_NUMBER"))
	} else {
		params.SetTo(customer.Phone)
		params.SetFrom(os.Getenv("TWILIO_PHONE_NUMBER"))
	}

	if _, err := client.Api.CreateMessage(params); err != nil {
		log.Printf("Failed to send interview notice to customer %s: %v", customer.ID, err)
		return
	}
	log.Printf("Interview notice sent to customer %s", customer.ID)
}
