package delivery

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

type mailSender interface {
	Send(email *mail.SGMailV3) (*rest.Response, error)
}

// EmailSink mails the deck as an attachment to the run's recipient
type EmailSink struct {
	client     mailSender
	senderName string
	// senderEmail overrides the store's synthesized marketing address.
	senderEmail string
	logger      *zap.Logger
}

func NewEmailSink(apiKey, senderName, senderEmail string, logger *zap.Logger) *EmailSink {
	return &EmailSink{
		client:      sendgrid.NewSendClient(apiKey),
		senderName:  senderName,
		senderEmail: senderEmail,
		logger:      logger,
	}
}

func (s *EmailSink) Name() string { return "email" }

func (s *EmailSink) Deliver(ctx context.Context, a Artifact) (string, error) {
	if a.ToEmail == "" {
		return "", fmt.Errorf("no recipient")
	}
	fromAddr := s.senderEmail
	if fromAddr == "" {
		fromAddr = a.Target.FromEmail
	}

	from := mail.NewEmail(s.senderName, fromAddr)
	to := mail.NewEmail("", a.ToEmail)
	subject := fmt.Sprintf("Wishlist ideas for %s", a.Target.ReadableDomain)
	text := fmt.Sprintf("Attached are five wishlist nudges we put together for %s.", a.Target.ReadableDomain)
	message := mail.NewSingleEmail(from, subject, to, text, "<p>"+text+"</p>")

	attachment := mail.NewAttachment()
	attachment.SetContent(base64.StdEncoding.EncodeToString(a.Data))
	attachment.SetType(a.ContentType)
	attachment.SetFilename(a.FileName)
	attachment.SetDisposition("attachment")
	message.AddAttachment(attachment)

	response, err := s.client.Send(message)
	if err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		s.logger.Warn("SendGrid API error", zap.Int("status", response.StatusCode), zap.String("body", response.Body))
		return "", fmt.Errorf("failed to send email, status code: %d", response.StatusCode)
	}

	s.logger.Info("email sent", zap.String("to", a.ToEmail), zap.Int("status", response.StatusCode))
	return a.ToEmail, nil
}
