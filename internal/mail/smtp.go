package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"golang.org/x/sync/errgroup"
)

type smtpSender struct {
	cfg    *Config
	logger *slog.Logger
}

// NewSender creates an SMTP-backed Sender.
func NewSender(cfg *Config, logger *slog.Logger) Sender {
	return &smtpSender{
		cfg:    cfg,
		logger: logger.With("system", "mail"),
	}
}

func (s *smtpSender) Send(ctx context.Context, msg Outbound) error {
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	if err := smtp.SendMail(addr, auth, s.cfg.From, msg.To, encode(s.cfg.From, msg)); err != nil {
		return fmt.Errorf("send to %s: %w", strings.Join(msg.To, ", "), err)
	}

	s.logger.Info("message sent", "to", msg.To, "subject", msg.Subject)
	return nil
}

func (s *smtpSender) SendBatch(ctx context.Context, msgs []Outbound) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.BatchConcurrency)

	for _, msg := range msgs {
		g.Go(func() error {
			return s.Send(gctx, msg)
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("send batch of %d: %w", len(msgs), err)
	}

	s.logger.Info("batch sent", "count", len(msgs))
	return nil
}

func encode(from string, msg Outbound) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "From: %s\r\n", from)
	fmt.Fprintf(&sb, "To: %s\r\n", strings.Join(msg.To, ", "))
	fmt.Fprintf(&sb, "Subject: %s\r\n", msg.Subject)
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(msg.Body)
	return []byte(sb.String())
}
