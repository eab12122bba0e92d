package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/damsole-chat/server/internal/agent/model"
	logx "github.com/damsole-chat/server/pkg/logger"
)

// EmailNotifier mails each lead to the admin mailbox over STARTTLS SMTP.
type EmailNotifier struct {
	cfg model.MailConfig
}

func NewEmailNotifier(cfg model.MailConfig) (*EmailNotifier, error) {
	if cfg.Admin == "" || cfg.Password == "" {
		return nil, errors.New("admin email credentials are not configured")
	}
	if cfg.Host == "" {
		return nil, errors.New("smtp host is not configured")
	}
	return &EmailNotifier{cfg: cfg}, nil
}

func (n *EmailNotifier) message(lead *model.Lead) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(n.cfg.Admin); err != nil {
		return nil, fmt.Errorf("set from address: %w", err)
	}
	if err := m.To(n.cfg.Admin); err != nil {
		return nil, fmt.Errorf("set to address: %w", err)
	}
	m.Subject(Subject)
	m.SetBodyString(mail.TypeTextPlain, FormatLead(lead))
	return m, nil
}

func (n *EmailNotifier) Notify(ctx context.Context, lead *model.Lead) error {
	m, err := n.message(lead)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(n.cfg.Host,
		mail.WithPort(n.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(n.cfg.Admin),
		mail.WithPassword(n.cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("send lead email: %w", err)
	}
	logx.Info().Str("reference", lead.Reference).Msg("lead email sent to admin")
	return nil
}

var _ model.Notifier = (*EmailNotifier)(nil)
