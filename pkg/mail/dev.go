package mail

import (
	"context"

	"go.uber.org/zap"

	"github.com/telekom/mailgate/pkg/config"
	"github.com/telekom/mailgate/pkg/metrics"
)

// LogSender pretends to deliver mail by writing the envelope to the log. It
// backs the "log" provider and the server's dry-run mode.
type LogSender struct {
	account       string
	senderAddress string
	log           *zap.SugaredLogger
}

// NewLogSender builds a log-only transport for the given account.
func NewLogSender(account *config.AccountConfig, log *zap.SugaredLogger) *LogSender {
	return &LogSender{
		account:       account.Name,
		senderAddress: account.SenderAddress,
		log:           log.Named("logmail"),
	}
}

// Name returns the account the transport sends for.
func (s *LogSender) Name() string { return s.account }

// Send logs the envelope and reports every recipient as accepted.
func (s *LogSender) Send(ctx context.Context, msg *Message) (*Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id := newMessageID(s.senderAddress)
	s.log.Infow("mail discarded",
		"account", s.account,
		"from", s.senderAddress,
		"to", headerValues(msg.To),
		"bcc", headerValues(msg.Bcc),
		"subject", msg.Subject,
		"bytes", len(msg.HTML),
		"messageID", id)
	metrics.MailSendSuccess.WithLabelValues(s.account, config.ProviderLog).Inc()

	return &Receipt{MessageID: id, Accepted: recipientEmails(msg)}, nil
}
