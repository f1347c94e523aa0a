package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &emailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *emailService) send(_ context.Context, to, toName, subject, body string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, body, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *emailService) SendDueReminder(ctx context.Context, email, name, bookTitle string, daysLeft int) error {
	subject := "Rappel : retour de livre à prévoir"
	body := fmt.Sprintf(
		"Bonjour %s,\n\nVotre emprunt de « %s » arrive à échéance dans %d jour(s).\nMerci de le rapporter à la bibliothèque avant la date limite.\n\nL'équipe de la bibliothèque BIT",
		name, bookTitle, daysLeft)
	return s.send(ctx, email, name, subject, body)
}

func (s *emailService) SendOverdueNotice(ctx context.Context, email, name, bookTitle string, daysLate int) error {
	subject := "Livre en retard"
	body := fmt.Sprintf(
		"Bonjour %s,\n\nVotre emprunt de « %s » est en retard de %d jour(s).\nMerci de le rapporter dès que possible.\n\nL'équipe de la bibliothèque BIT",
		name, bookTitle, daysLate)
	return s.send(ctx, email, name, subject, body)
}
