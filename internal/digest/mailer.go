package digest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"jobhunter/internal/config"
)

// Mailer delivers digests.
type Mailer interface {
	Send(ctx context.Context, d *Digest) error
}

// SMTPMailer delivers digests over SMTP with implicit TLS.
type SMTPMailer struct {
	cfg config.SMTP
	log *zap.Logger
}

// NewSMTPMailer builds a mailer from delivery settings.
func NewSMTPMailer(cfg config.SMTP, log *zap.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, log: log.Named("mailer")}
}

// Send delivers one digest to the configured recipients.
func (m *SMTPMailer) Send(ctx context.Context, d *Digest) error {
	if m.cfg.Host == "" || m.cfg.To == "" {
		m.log.Debug("smtp not configured, skipping digest delivery")
		return nil
	}

	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return fmt.Errorf("setting sender: %w", err)
	}

	var recipients []string
	for _, to := range strings.Split(m.cfg.To, ",") {
		if to = strings.TrimSpace(to); to != "" {
			recipients = append(recipients, to)
		}
	}
	if err := msg.To(recipients...); err != nil {
		return fmt.Errorf("setting recipients: %w", err)
	}

	msg.Subject(d.Subject)
	msg.SetBodyString(mail.TypeTextHTML, d.HTML)

	client, err := mail.NewClient(m.cfg.Host,
		mail.WithPort(m.cfg.Port),
		mail.WithSSL(),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.Username),
		mail.WithPassword(m.cfg.Password),
	)
	if err != nil {
		return fmt.Errorf("building smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("sending digest: %w", err)
	}

	m.log.Info("digest sent",
		zap.Int("recipients", len(recipients)),
		zap.String("subject", d.Subject))
	return nil
}

// FileMailer renders digests to disk instead of sending them; used by
// dry runs.
type FileMailer struct {
	Dir string
	log *zap.Logger
}

// NewFileMailer builds a dry-run mailer writing into dir.
func NewFileMailer(dir string, log *zap.Logger) *FileMailer {
	return &FileMailer{Dir: dir, log: log.Named("mailer")}
}

// Send writes the digest HTML to a timestamped file.
func (m *FileMailer) Send(_ context.Context, d *Digest) error {
	path := filepath.Join(m.Dir, fmt.Sprintf("digest_%s.html", time.Now().Format("2006-01-02_15-04-05")))
	if err := os.WriteFile(path, []byte(d.HTML), 0o644); err != nil {
		return fmt.Errorf("writing digest file: %w", err)
	}
	m.log.Info("digest written", zap.String("path", path), zap.String("subject", d.Subject))
	return nil
}
