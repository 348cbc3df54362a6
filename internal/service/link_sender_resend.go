package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/resendlabs/resend-go"
)

// ResendLinkSender emails verification links through the Resend API.
type ResendLinkSender struct {
	Client *resend.Client
	From   string
}

func NewResendLinkSender(apiKey string, from string) *ResendLinkSender {
	if strings.TrimSpace(apiKey) == "" || strings.TrimSpace(from) == "" {
		return &ResendLinkSender{}
	}
	return &ResendLinkSender{
		Client: resend.NewClient(apiKey),
		From:   from,
	}
}

func (s *ResendLinkSender) SendVerificationLink(_ context.Context, email string, name string, url string) error {
	if s.Client == nil {
		return errors.New("link sender not configured")
	}
	greeting := "Hello"
	if strings.TrimSpace(name) != "" {
		greeting = "Hello " + name
	}
	params := &resend.SendEmailRequest{
		From:    s.From,
		To:      []string{email},
		Subject: "Verify your address",
		Html: fmt.Sprintf(
			"<p>%s,</p><p>Please verify your address by opening the link below:</p><p><a href=\"%s\">Verify my address</a></p><p>The link is valid for 24 hours and can be used once.</p>",
			greeting, url,
		),
		Text: fmt.Sprintf("%s, verify your address: %s", greeting, url),
	}
	_, err := s.Client.Emails.Send(params)
	return err
}
