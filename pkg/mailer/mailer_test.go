package mailer

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/retailhub/backoffice/pkg/config"
	"github.com/retailhub/backoffice/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_IncludesBodiesAndAttachment(t *testing.T) {
	msg := Message{
		To:      "jane@example.com",
		Subject: "Payslip 06/2024",
		Text:    "Please find your payslip attached.",
		HTML:    "<p>Please find your payslip attached.</p>",
		Attachments: []Attachment{
			{Filename: "payslip.pdf", ContentType: "application/pdf", Content: []byte("%PDF-1.4")},
		},
	}

	raw, err := Build("hr@shop.test", msg, time.Date(2024, 6, 30, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	out := string(raw)
	assert.Contains(t, out, "From: hr@shop.test")
	assert.Contains(t, out, "To: jane@example.com")
	assert.Contains(t, out, "multipart/mixed")
	assert.Contains(t, out, "text/plain; charset=utf-8")
	assert.Contains(t, out, "text/html; charset=utf-8")
	assert.Contains(t, out, `attachment; filename=payslip.pdf`)
	assert.Contains(t, out, "JVBERi0xLjQ=")
}

func TestSMTPSender_Send(t *testing.T) {
	var gotAddr string
	var gotTo []string

	s := &SMTPSender{
		cfg:    config.MailConfig{Enabled: true, Host: "smtp.shop.test", Port: 2525, From: "hr@shop.test"},
		logger: logger.Nop(),
		send: func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
			gotAddr = addr
			gotTo = to
			return nil
		},
	}

	err := s.Send(context.Background(), Message{To: "a@b.test", Subject: "hi", Text: "x"})
	require.NoError(t, err)
	assert.Equal(t, "smtp.shop.test:2525", gotAddr)
	assert.Equal(t, []string{"a@b.test"}, gotTo)
}

func TestSMTPSender_SendFailure(t *testing.T) {
	s := &SMTPSender{
		cfg:    config.MailConfig{Enabled: true, Host: "smtp.shop.test", Port: 25},
		logger: logger.Nop(),
		send: func(string, smtp.Auth, string, []string, []byte) error {
			return errors.New("connection refused")
		},
	}

	err := s.Send(context.Background(), Message{To: "a@b.test", Subject: "hi"})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "connection refused"))
}

func TestSenders_RejectMissingRecipient(t *testing.T) {
	log := logger.Nop()

	assert.ErrorIs(t, New(config.MailConfig{}, log).Send(context.Background(), Message{}), ErrNoRecipient)
	assert.ErrorIs(t, New(config.MailConfig{Enabled: true}, log).Send(context.Background(), Message{}), ErrNoRecipient)
}
