package service

import (
	"context"
	"fmt"
	"html"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/rs/zerolog/log"
)

const (
	reminderSubject = "Hangman reminder!"
	reminderText    = "Hello %s, you have one or more unfinished Hangman games"
)

// sesClient is the part of *sesv2.Client the email service calls
type sesClient interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// EmailService handles sending emails via Amazon SES
type EmailService struct {
	client     sesClient
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
	debug      bool
}

// NewEmailService creates a new email service. With no sender address the
// service is disabled and every send is skipped.
func NewEmailService(ctx context.Context, awsRegion, fromEmail, fromName, appBaseURL string, debug bool) (*EmailService, error) {
	if fromEmail == "" {
		log.Info().Msg("email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{enabled: false, debug: debug}, nil
	}

	if debug {
		log.Debug().
			Str("region", awsRegion).
			Str("from_email", fromEmail).
			Str("from_name", fromName).
			Str("app_base_url", appBaseURL).
			Msg("initializing email service with AWS SES")
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(awsRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Info().Str("from", fromEmail).Str("region", awsRegion).Msg("email service enabled")
	return newEmailService(sesv2.NewFromConfig(cfg), fromEmail, fromName, appBaseURL, debug), nil
}

func newEmailService(client sesClient, fromEmail, fromName, appBaseURL string, debug bool) *EmailService {
	return &EmailService{
		client:     client,
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: appBaseURL,
		enabled:    true,
		debug:      debug,
	}
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendReminderEmail tells a player they have unfinished games
func (s *EmailService) SendReminderEmail(ctx context.Context, toEmail, toName string) error {
	if !s.enabled {
		log.Info().Str("to", toEmail).Msg("skipping reminder email (service disabled)")
		return nil
	}

	textBody := fmt.Sprintf(reminderText, toName) + "\n\nPick up where you left off: " + s.appBaseURL + "\n"
	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
	<p>%s</p>
	<p><a href="%s">Pick up where you left off</a></p>
</body>
</html>
`, html.EscapeString(fmt.Sprintf(reminderText, toName)), html.EscapeString(s.appBaseURL))

	return s.sendEmail(ctx, toEmail, reminderSubject, htmlBody, textBody)
}

// sendEmail sends an email using Amazon SES
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	if s.debug {
		log.Debug().Str("from", fromAddress).Str("to", toEmail).Str("subject", subject).
			Int("html_bytes", len(htmlBody)).Int("text_bytes", len(textBody)).
			Msg("calling SES SendEmail")
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	event := log.Info().Str("to", toEmail).Str("subject", subject)
	if result != nil && result.MessageId != nil {
		event = event.Str("message_id", *result.MessageId)
	}
	event.Msg("email sent")
	return nil
}
