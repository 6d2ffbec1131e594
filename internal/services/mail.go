package services

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/bramwell/claimsdesk-backend/internal/logger"
)

// MailService sends transactional mail through the SendGrid v3 API:
// assessor assignment notices and assessment schedule invites.
type MailService interface {
	Send(ctx context.Context, to []string, subject, htmlBody string) error
}

type mailService struct {
	log       *logger.Logger
	client    *resty.Client
	fromEmail string
	fromName  string
}

type sendgridAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendgridPersonalization struct {
	To []sendgridAddress `json:"to"`
}

type sendgridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sendgridPayload struct {
	Personalizations []sendgridPersonalization `json:"personalizations"`
	From             sendgridAddress           `json:"from"`
	Subject          string                    `json:"subject"`
	Content          []sendgridContent         `json:"content"`
}

func NewMailService(log *logger.Logger) (MailService, error) {
	serviceLog := log.With("service", "MailService")
	apiKey := strings.TrimSpace(os.Getenv("SENDGRID_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("missing SENDGRID_API_KEY")
	}
	fromEmail := strings.TrimSpace(os.Getenv("MAIL_FROM_EMAIL"))
	if fromEmail == "" {
		return nil, fmt.Errorf("missing MAIL_FROM_EMAIL")
	}
	fromName := strings.TrimSpace(os.Getenv("MAIL_FROM_NAME"))

	client := resty.New().
		SetBaseURL("https://api.sendgrid.com/v3").
		SetTimeout(30 * time.Second).
		SetAuthToken(apiKey).
		SetRetryCount(2)

	return &mailService{
		log:       serviceLog,
		client:    client,
		fromEmail: fromEmail,
		fromName:  fromName,
	}, nil
}

func (ms *mailService) Send(ctx context.Context, to []string, subject, htmlBody string) error {
	if len(to) == 0 {
		return fmt.Errorf("no recipients")
	}
	addresses := make([]sendgridAddress, 0, len(to))
	for _, email := range to {
		addresses = append(addresses, sendgridAddress{Email: email})
	}
	payload := sendgridPayload{
		Personalizations: []sendgridPersonalization{{To: addresses}},
		From:             sendgridAddress{Email: ms.fromEmail, Name: ms.fromName},
		Subject:          subject,
		Content:          []sendgridContent{{Type: "text/html", Value: htmlBody}},
	}
	resp, err := ms.client.R().
		SetContext(ctx).
		SetBody(payload).
		Post("/mail/send")
	if err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("mail send returned %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}
