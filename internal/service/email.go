package service

import (
	"context"
	"fmt"

	"workculture-backend/internal/domain"
	"workculture-backend/internal/logger"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type emailService struct {
	client *sendgrid.Client
	from   *mail.Email
}

func NewEmailService(apiKey, fromName, fromAddress string) EmailService {
	return &emailService{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail(fromName, fromAddress),
	}
}

func (s *emailService) send(ctx context.Context, toName, toAddress, subject, body string) error {
	logger.ExternalServiceCall("sendgrid", "send", "to", toAddress, "subject", subject)
	message := mail.NewSingleEmailPlainText(s.from, subject, mail.NewEmail(toName, toAddress), body)
	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		logger.ExternalServiceResult("sendgrid", "send", err, "to", toAddress)
		return fmt.Errorf("send email: %w", err)
	}
	if resp.StatusCode >= 400 {
		err := fmt.Errorf("send email: sendgrid returned status %d", resp.StatusCode)
		logger.ExternalServiceResult("sendgrid", "send", err, "to", toAddress)
		return err
	}
	logger.ExternalServiceResult("sendgrid", "send", nil, "to", toAddress)
	return nil
}

func (s *emailService) SendAccessReviewNotification(ctx context.Context, email, name, courseTitle string, status domain.RequestStatus) error {
	subject := fmt.Sprintf("Course access request %s", status)
	body := fmt.Sprintf("Hello %s,\n\nYour access request for the course %q has been %s.\n\nBest regards,\nThe Workculture Team",
		name, courseTitle, status)
	return s.send(ctx, name, email, subject, body)
}

func (s *emailService) SendRegistrationReviewNotification(ctx context.Context, email, name string, status domain.RequestStatus) error {
	subject := fmt.Sprintf("Registration request %s", status)
	body := fmt.Sprintf("Hello %s,\n\nYour registration request has been %s.\n\nBest regards,\nThe Workculture Team",
		name, status)
	return s.send(ctx, name, email, subject, body)
}

func (s *emailService) SendPendingReviewReminder(ctx context.Context, email, name string, pendingCount int32) error {
	subject := "Pending review reminder"
	body := fmt.Sprintf("Hello %s,\n\nYou have %d request(s) waiting for review.\n\nBest regards,\nThe Workculture Team",
		name, pendingCount)
	return s.send(ctx, name, email, subject, body)
}
