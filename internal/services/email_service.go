package services

import (
	"fmt"
	"os"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type EmailService struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

func NewEmailService() *EmailService {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	fromEmail := os.Getenv("SENDGRID_FROM_EMAIL")
	fromName := os.Getenv("SENDGRID_FROM_NAME")

	client := sendgrid.NewSendClient(apiKey)

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

// SendMagicLinkEmail mails a one-time sign-in link
func (s *EmailService) SendMagicLinkEmail(toEmail, link string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(toEmail, toEmail)
	subject := "Your Kyndra sign-in link"
	plainContent := fmt.Sprintf("Open this link to sign in to Kyndra: %s\n\nThe link works once and expires in 15 minutes.", link)
	htmlContent := fmt.Sprintf("<p>Open this link to sign in to Kyndra:</p><p><a href=\"%s\">Sign in</a></p><p>The link works once and expires in 15 minutes.</p>", link)

	message := mail.NewSingleEmail(from, subject, to, plainContent, htmlContent)
	response, err := s.client.Send(message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("failed to send magic link to %s: %d", toEmail, response.StatusCode)
	}
	return nil
}

// SendInviteEmail invites a tracked person to join the app
func (s *EmailService) SendInviteEmail(toEmail, toName, inviterName string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(toName, toEmail)
	subject := fmt.Sprintf("%s invited you to Kyndra", inviterName)
	joinURL := os.Getenv("APP_BASE_URL")
	plainContent := fmt.Sprintf("Hi %s, %s is using Kyndra to keep track of birthdays and family events and would like you to join: %s", toName, inviterName, joinURL)
	htmlContent := fmt.Sprintf("<p>Hi %s,</p><p><strong>%s</strong> is using Kyndra to keep track of birthdays and family events and would like you to join.</p><p><a href=\"%s\">Join Kyndra</a></p>", toName, inviterName, joinURL)

	message := mail.NewSingleEmail(from, subject, to, plainContent, htmlContent)
	response, err := s.client.Send(message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("failed to send invite to %s: %d", toEmail, response.StatusCode)
	}
	return nil
}

// SendFeedbackEmail relays a beta feedback message to the team inbox
func (s *EmailService) SendFeedbackEmail(fromUserEmail, body string) error {
	feedbackTo := os.Getenv("FEEDBACK_TO_EMAIL")
	if feedbackTo == "" {
		return fmt.Errorf("FEEDBACK_TO_EMAIL environment variable not set")
	}

	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail("Kyndra Feedback", feedbackTo)
	subject := fmt.Sprintf("Kyndra beta feedback from %s", fromUserEmail)
	plainContent := body
	htmlContent := fmt.Sprintf("<p>From: %s</p><p>%s</p>", fromUserEmail, body)

	message := mail.NewSingleEmail(from, subject, to, plainContent, htmlContent)
	response, err := s.client.Send(message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("failed to relay feedback: %d", response.StatusCode)
	}
	return nil
}
