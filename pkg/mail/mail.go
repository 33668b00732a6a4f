package mail

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/telekom/mailgate/pkg/config"
	"github.com/telekom/mailgate/pkg/metrics"
	"github.com/telekom/mailgate/pkg/version"
)

// Address identifies a mail participant.
type Address struct {
	Email string
	Name  string
}

// String renders the address for a message header. Addresses with a display
// name become `"Name" <email>`, bare addresses stay as-is.
func (a Address) String() string {
	if a.Name == "" {
		return a.Email
	}
	return fmt.Sprintf("%q <%s>", a.Name, a.Email)
}

// Message is a single fully rendered outbound email.
type Message struct {
	// FromName overrides the account's sender display name when set.
	FromName string
	// To lists visible recipients. Empty for blind-copy delivery.
	To []Address
	// Bcc lists hidden recipients. The header value joins the formatted
	// entries with ", ".
	Bcc     []Address
	Subject string
	HTML    string
}

// Receipt reports what a transport accepted for delivery.
type Receipt struct {
	MessageID string
	Accepted  []string
	Rejected  []string
}

// Sender delivers a message through one configured account. Implementations
// must be safe for concurrent use.
type Sender interface {
	Send(ctx context.Context, msg *Message) (*Receipt, error)
	Name() string
}

// NewSenderFromAccount builds the transport matching the account's provider.
func NewSenderFromAccount(ctx context.Context, account *config.AccountConfig, log *zap.SugaredLogger) (Sender, error) {
	switch account.Provider {
	case config.ProviderSMTP:
		return NewSMTPSender(account, log), nil
	case config.ProviderSES:
		return NewSESSender(ctx, account, log)
	case config.ProviderLog:
		return NewLogSender(account, log), nil
	default:
		return nil, fmt.Errorf("account %q: unsupported provider %q", account.Name, account.Provider)
	}
}

// SMTPSender delivers messages over SMTP using the account's credentials.
type SMTPSender struct {
	dialer        *gomail.Dialer
	account       string
	senderAddress string
	senderName    string
	log           *zap.SugaredLogger
}

// NewSMTPSender builds an SMTP transport for the given account.
func NewSMTPSender(account *config.AccountConfig, log *zap.SugaredLogger) *SMTPSender {
	dialer := gomail.NewDialer(account.Host, account.Port, account.Username, account.Password)
	dialer.TLSConfig = account.GetTLSConfig()
	return &SMTPSender{
		dialer:        dialer,
		account:       account.Name,
		senderAddress: account.SenderAddress,
		senderName:    account.SenderName,
		log:           log.Named("smtp"),
	}
}

// Name returns the account the transport sends for.
func (s *SMTPSender) Name() string { return s.account }

// Send performs a single delivery attempt. Failures are not retried; the
// caller decides whether a failed send is terminal.
func (s *SMTPSender) Send(ctx context.Context, msg *Message) (*Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m := gomail.NewMessage()
	fromName := s.senderName
	if msg.FromName != "" {
		fromName = msg.FromName
	}
	m.SetAddressHeader("From", s.senderAddress, fromName)
	if len(msg.To) > 0 {
		m.SetHeader("To", headerValues(msg.To)...)
	}
	if len(msg.Bcc) > 0 {
		m.SetHeader("Bcc", headerValues(msg.Bcc)...)
	}
	m.SetHeader("Subject", msg.Subject)
	id := newMessageID(s.senderAddress)
	m.SetHeader("Message-Id", id)
	m.SetHeader("X-Mailer", version.UserAgent())
	m.SetBody("text/html", msg.HTML)

	recipients := recipientEmails(msg)
	if err := s.dialer.DialAndSend(m); err != nil {
		metrics.MailSendFailure.WithLabelValues(s.account, config.ProviderSMTP).Inc()
		s.log.Errorw("failed to send mail",
			"account", s.account,
			"host", s.dialer.Host,
			"recipients", len(recipients),
			"error", err)
		return nil, fmt.Errorf("smtp send via %s: %w", s.dialer.Host, err)
	}
	metrics.MailSendSuccess.WithLabelValues(s.account, config.ProviderSMTP).Inc()
	s.log.Infow("mail sent",
		"account", s.account,
		"recipients", len(recipients),
		"messageID", id)

	return &Receipt{MessageID: id, Accepted: recipients}, nil
}

// newMessageID generates an RFC 5322 Message-Id scoped to the sender's
// domain.
func newMessageID(senderAddress string) string {
	domain := "mailgate.local"
	if i := strings.LastIndex(senderAddress, "@"); i >= 0 && i+1 < len(senderAddress) {
		domain = senderAddress[i+1:]
	}
	return fmt.Sprintf("<%s@%s>", uuid.NewString(), domain)
}

func headerValues(addrs []Address) []string {
	vals := make([]string, len(addrs))
	for i, a := range addrs {
		vals[i] = a.String()
	}
	return vals
}

// recipientEmails flattens the visible and hidden recipients of a message
// into bare addresses, preserving order.
func recipientEmails(msg *Message) []string {
	emails := make([]string, 0, len(msg.To)+len(msg.Bcc))
	for _, a := range msg.To {
		emails = append(emails, a.Email)
	}
	for _, a := range msg.Bcc {
		emails = append(emails, a.Email)
	}
	return emails
}
