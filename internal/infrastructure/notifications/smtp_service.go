package notifications

import (
	"context"
	"log/slog"
	"time"

	"github.com/kunalkv2000/reset-password/domain"
	"github.com/samber/oops"
	"github.com/wneessen/go-mail"
)

// SMTPConfig holds the outbound mail settings
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Secure   bool
	From     string
	Timeout  time.Duration
}

// mailSender is satisfied by *mail.Client
type mailSender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// SMTPServiceImpl implements domain.NotificationService
type SMTPServiceImpl struct {
	sender mailSender
	from   string
	logger *slog.Logger
}

// NewSMTPService creates a new SMTP notification service. When no host is
// configured messages are logged instead of sent.
func NewSMTPService(cfg SMTPConfig, logger *slog.Logger) (domain.NotificationService, error) {
	svc := &SMTPServiceImpl{
		from:   cfg.From,
		logger: logger.With(slog.String("component", "mailer")),
	}
	if cfg.Host == "" {
		return svc, nil
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTimeout(timeout),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	if cfg.Secure {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, oops.Code("MAIL_CLIENT_INIT").With("host", cfg.Host).Wrap(err)
	}
	svc.sender = client
	return svc, nil
}

// SendEmail implements domain.NotificationService
func (s *SMTPServiceImpl) SendEmail(ctx context.Context, to, subject, body string) error {
	// If SMTP is not configured, log instead of sending
	if s.sender == nil {
		s.logger.InfoContext(ctx, "smtp not configured, email not sent",
			slog.String("to", to),
			slog.String("subject", subject),
			slog.String("body", body),
		)
		return nil
	}

	msg := mail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return oops.Code("MAIL_INVALID_SENDER").With("from", s.from).Wrap(err)
	}
	if err := msg.To(to); err != nil {
		return oops.Code("MAIL_INVALID_RECIPIENT").With("to", to).Wrap(err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	if err := s.sender.DialAndSendWithContext(ctx, msg); err != nil {
		return oops.Code("MAIL_SEND_FAILED").With("to", to).With("subject", subject).Wrap(err)
	}
	return nil
}
