// Package mailer delivers transactional email (payslips, receipts, supplier
// notices). Delivery goes through SMTP when configured and is logged otherwise.
package mailer

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/retailhub/backoffice/pkg/config"
	"github.com/retailhub/backoffice/pkg/logger"
)

// Attachment is a file sent along with a message
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Message is a single-recipient email
type Message struct {
	To          string
	Subject     string
	Text        string
	HTML        string
	Attachments []Attachment
}

// Sender dispatches messages
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// ErrNoRecipient is returned for messages without a To address
var ErrNoRecipient = errors.New("mailer: message has no recipient")

// New returns an SMTP sender when mail is enabled and a logging sender otherwise
func New(cfg config.MailConfig, log *logger.Logger) Sender {
	if !cfg.Enabled {
		return &LogSender{logger: log.WithComponent("mailer")}
	}
	return &SMTPSender{cfg: cfg, logger: log.WithComponent("mailer"), send: smtp.SendMail}
}

// SMTPSender sends mail through an SMTP relay
type SMTPSender struct {
	cfg    config.MailConfig
	logger *logger.Logger
	send   func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// Send renders msg as MIME and hands it to the relay
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := Build(s.cfg.From, msg, time.Now())
	if err != nil {
		return err
	}

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	addr := s.cfg.Host + ":" + strconv.Itoa(s.cfg.Port)
	if err := s.send(addr, auth, s.cfg.From, []string{msg.To}, body); err != nil {
		return fmt.Errorf("smtp send to %s: %w", msg.To, err)
	}

	s.logger.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Int("attachments", len(msg.Attachments)).
		Msg("mail sent")

	return nil
}

// LogSender records messages in the log instead of sending them
type LogSender struct {
	logger *logger.Logger
}

// Send logs the message envelope
func (s *LogSender) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}

	s.logger.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Int("attachments", len(msg.Attachments)).
		Msg("mail delivery disabled, message logged")

	return nil
}

// Build renders a multipart/mixed MIME document for msg
func Build(from string, msg Message, date time.Time) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	headers := []string{
		"From: " + from,
		"To: " + msg.To,
		"Subject: " + mime.QEncoding.Encode("utf-8", msg.Subject),
		"Date: " + date.Format(time.RFC1123Z),
		"MIME-Version: 1.0",
		"Content-Type: multipart/mixed; boundary=" + mw.Boundary(),
	}
	buf.WriteString(strings.Join(headers, "\r\n") + "\r\n\r\n")

	if msg.Text != "" {
		if err := writePart(mw, "text/plain; charset=utf-8", "", []byte(msg.Text)); err != nil {
			return nil, err
		}
	}
	if msg.HTML != "" {
		if err := writePart(mw, "text/html; charset=utf-8", "", []byte(msg.HTML)); err != nil {
			return nil, err
		}
	}
	for _, a := range msg.Attachments {
		contentType := a.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		disposition := mime.FormatMediaType("attachment", map[string]string{"filename": a.Filename})
		if err := writePart(mw, contentType, disposition, a.Content); err != nil {
			return nil, err
		}
	}

	if err := mw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writePart(mw *multipart.Writer, contentType, disposition string, content []byte) error {
	header := textproto.MIMEHeader{}
	header.Set("Content-Type", contentType)
	header.Set("Content-Transfer-Encoding", "base64")
	if disposition != "" {
		header.Set("Content-Disposition", disposition)
	}

	part, err := mw.CreatePart(header)
	if err != nil {
		return err
	}

	encoded := base64.StdEncoding.EncodeToString(content)
	for len(encoded) > 76 {
		if _, err := part.Write([]byte(encoded[:76] + "\r\n")); err != nil {
			return err
		}
		encoded = encoded[76:]
	}
	_, err = part.Write([]byte(encoded + "\r\n"))
	return err
}
