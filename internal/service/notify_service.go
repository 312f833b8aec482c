package service

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fleetrental/internal/db"
	"fleetrental/internal/entities"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// NotifyService sends booking confirmations and cancellations by email and
// SMS. Delivery is best-effort and asynchronous; a failed notification
// never fails the booking.
type NotifyService struct {
}

func NewNotifyService() *NotifyService {
	return &NotifyService{}
}

// NotifyBooking fires the email and SMS for an admitted or transitioned
// booking.
func (s *NotifyService) NotifyBooking(req *entities.BookingRequest, vehicle *db.Vehicle, resp *entities.BookingResponse) {
	emailData := entities.BookingEmailData{
		CustomerName:       req.CustomerName,
		BookingCode:        resp.Code,
		VehicleModel:       vehicle.Model,
		LicensePlate:       vehicle.LicensePlate,
		StartDateFormatted: resp.StartDate.Format("02 Jan 2006"),
		EndDateFormatted:   resp.EndDate.Format("02 Jan 2006"),
		Status:             resp.Status,
		CurrentYear:        time.Now().Year(),
	}

	emailSubject := fmt.Sprintf("Your FleetRental booking is %s - Code: %s", resp.Status, resp.Code)
	plainTextBody := fmt.Sprintf(
		"Hello %s,\n\nYour booking at FleetRental is %s.\n\n"+
			"Booking Details:\n"+
			"Booking Code: %s\n"+
			"Vehicle: %s (Plate: %s)\n"+
			"Pick-up: %s\n"+
			"Return: %s\n\n"+
			"Thank you for choosing FleetRental.",
		emailData.CustomerName, resp.Status, emailData.BookingCode,
		emailData.VehicleModel, emailData.LicensePlate,
		emailData.StartDateFormatted, emailData.EndDateFormatted,
	)

	var htmlBody string
	tmplPath := filepath.Join("internal", "templates", "booking_email.html")
	tmpl, err := template.ParseFiles(tmplPath)
	if err != nil {
		log.Printf("WARNING: could not parse email template (%s): %v", tmplPath, err)
	} else {
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, emailData); err != nil {
			log.Printf("WARNING: could not execute email template for booking %s: %v", resp.Code, err)
		}
		htmlBody = buf.String()
	}

	go func() {
		if err := SendEmailWithSendGrid(req.CustomerEmail, req.CustomerName, emailSubject, plainTextBody, htmlBody); err != nil {
			log.Printf("WARNING (async): email delivery failed for booking %s: %v", resp.Code, err)
		}
	}()

	if req.CustomerPhone != "" {
		smsMessage := fmt.Sprintf("FleetRental: Booking %s is %s!\nPick-up: %s.\nMore details in your email.",
			resp.Code, resp.Status, emailData.StartDateFormatted)
		go func() {
			if err := SendSMS(req.CustomerPhone, smsMessage); err != nil {
				log.Printf("WARNING (async): SMS delivery failed for booking %s: %v", resp.Code, err)
			}
		}()
	}
}

func SendEmailWithSendGrid(toEmailAddress, toName, subject, plainTextContent, htmlContent string) error {
	sendgridAPIKey := os.Getenv("SENDGRID_API_KEY")
	if sendgridAPIKey == "" {
		return fmt.Errorf("SENDGRID_API_KEY not configured")
	}

	fromEmail := os.Getenv("SENDGRID_FROM_EMAIL")
	if fromEmail == "" {
		return fmt.Errorf("SENDGRID_FROM_EMAIL not configured")
	}

	fromName := os.Getenv("SENDGRID_FROM_NAME")
	if fromName == "" {
		fromName = "FleetRental"
	}

	from := mail.NewEmail(fromName, fromEmail)
	to := mail.NewEmail(toName, toEmailAddress)
	message := mail.NewSingleEmail(from, subject, to, plainTextContent, htmlContent)

	client := sendgrid.NewSendClient(sendgridAPIKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("email delivery through SendGrid failed: %w", err)
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		log.Printf("Email sent to %s (Subject: %s). Status: %d", toEmailAddress, subject, response.StatusCode)
		return nil
	}
	return fmt.Errorf("SendGrid returned non-success status %d: %s", response.StatusCode, response.Body)
}

func SendSMS(toNumber, messageBody string) error {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")
	fromNumber := os.Getenv("TWILIO_FROM_NUMBER")

	if accountSid == "" || authToken == "" || fromNumber == "" {
		return fmt.Errorf("Twilio credentials not fully configured")
	}

	if !strings.HasPrefix(toNumber, "+") {
		log.Printf("WARNING: destination number '%s' is not E.164 formatted, SMS may fail", toNumber)
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username:   accountSid,
		Password:   authToken,
		AccountSid: accountSid,
	})

	params := &openapi.CreateMessageParams{}
	params.SetTo(toNumber)
	params.SetFrom(fromNumber)
	params.SetBody(messageBody)

	resp, err := client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("SMS delivery failed: %w", err)
	}
	if resp != nil && resp.Sid != nil {
		log.Printf("SMS sent to %s. Message SID: %s", toNumber, *resp.Sid)
	}
	return nil
}
