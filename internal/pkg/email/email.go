package email

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/academix/portal/internal/pkg/apperrors"
)

// Sender is the outbound delivery collaborator. Delivery is best-effort:
// callers must never treat a send failure as a failure of their own work.
type Sender interface {
	Send(to, subject, html string) (messageID string, err error)
}

// SMTPConfig holds configuration for the SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	UseTLS    bool
	BaseURL   string // Base URL for dashboard links in message bodies
}

// SMTPSender implements Sender over plain SMTP
type SMTPSender struct {
	config SMTPConfig
	logger zerolog.Logger
}

// NewSMTPSender creates a new SMTP-backed sender
func NewSMTPSender(config SMTPConfig, logger zerolog.Logger) *SMTPSender {
	return &SMTPSender{
		config: config,
		logger: logger,
	}
}

// Send delivers an HTML email and returns a message ID.
func (s *SMTPSender) Send(to, subject, html string) (string, error) {
	if !strings.Contains(to, "@") {
		return "", fmt.Errorf("invalid recipient address: %s", to)
	}

	messageID := uuid.New().String()

	// If username or password is empty, log the email instead (development mode)
	if s.config.Username == "" || s.config.Password == "" {
		s.logger.Warn().
			Str("to", to).
			Str("subject", subject).
			Str("messageId", messageID).
			Msg("SMTP credentials not configured - email logged instead of sent")
		return messageID, nil
	}

	headers := make(map[string]string)
	headers["From"] = fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail)
	headers["To"] = to
	headers["Subject"] = subject
	headers["Message-ID"] = fmt.Sprintf("<%s@%s>", messageID, s.config.Host)
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"

	message := ""
	for key, value := range headers {
		message += fmt.Sprintf("%s: %s\r\n", key, value)
	}
	message += "\r\n" + html

	auth := smtp.PlainAuth(
		"",
		s.config.Username,
		s.config.Password,
		s.config.Host,
	)

	serverAddress := s.config.Host + ":" + strconv.Itoa(s.config.Port)

	if s.config.UseTLS {
		if err := s.sendWithTLS(serverAddress, auth, to, message); err != nil {
			return "", fmt.Errorf("%w: %v", apperrors.ErrDelivery, err)
		}
		return messageID, nil
	}

	err := smtp.SendMail(
		serverAddress,
		auth,
		s.config.FromEmail,
		[]string{to},
		[]byte(message),
	)
	if err != nil {
		s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to send email")
		return "", fmt.Errorf("%w: %v", apperrors.ErrDelivery, err)
	}

	return messageID, nil
}

// sendWithTLS sends a message over an explicit TLS connection
func (s *SMTPSender) sendWithTLS(serverAddress string, auth smtp.Auth, to, message string) error {
	tlsConfig := &tls.Config{
		InsecureSkipVerify: true,
		ServerName:         s.config.Host,
	}

	conn, err := tls.Dial("tcp", serverAddress, tlsConfig)
	if err != nil {
		s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to connect to SMTP server")
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to create SMTP client")
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Quit()

	if err = client.Auth(auth); err != nil {
		s.logger.Error().Err(err).Msg("SMTP authentication failed")
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}

	if err = client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write([]byte(message)); err != nil {
		return fmt.Errorf("failed to write email message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	return nil
}
