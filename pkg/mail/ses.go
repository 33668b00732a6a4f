// SPDX-FileCopyrightText: 2025 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package mail

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"go.uber.org/zap"

	"github.com/telekom/mailgate/pkg/config"
	"github.com/telekom/mailgate/pkg/metrics"
)

// SendEmailAPI is the subset of the SES v2 client used by SESSender. It
// exists so tests can substitute a mock client.
type SendEmailAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESSender delivers messages through Amazon SES.
type SESSender struct {
	client        SendEmailAPI
	account       string
	senderAddress string
	senderName    string
	log           *zap.SugaredLogger
}

// NewSESSender builds an SES transport for the given account. Credentials
// fall back to the default AWS chain when the account does not pin a key.
func NewSESSender(ctx context.Context, account *config.AccountConfig, log *zap.SugaredLogger) (*SESSender, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(account.Region)}
	if account.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(account.AccessKeyID, account.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config for account %q: %w", account.Name, err)
	}
	return NewSESSenderWithClient(sesv2.NewFromConfig(awsCfg), account, log), nil
}

// NewSESSenderWithClient builds an SES transport around an existing client.
func NewSESSenderWithClient(client SendEmailAPI, account *config.AccountConfig, log *zap.SugaredLogger) *SESSender {
	return &SESSender{
		client:        client,
		account:       account.Name,
		senderAddress: account.SenderAddress,
		senderName:    account.SenderName,
		log:           log.Named("ses"),
	}
}

// Name returns the account the transport sends for.
func (s *SESSender) Name() string { return s.account }

// Send performs a single SendEmail call. Failures are not retried.
func (s *SESSender) Send(ctx context.Context, msg *Message) (*Receipt, error) {
	from := Address{Email: s.senderAddress, Name: s.senderName}
	if msg.FromName != "" {
		from.Name = msg.FromName
	}

	dest := &types.Destination{}
	for _, a := range msg.To {
		dest.ToAddresses = append(dest.ToAddresses, a.String())
	}
	for _, a := range msg.Bcc {
		dest.BccAddresses = append(dest.BccAddresses, a.String())
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(from.String()),
		Destination:      dest,
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(msg.Subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(msg.HTML),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	recipients := recipientEmails(msg)
	out, err := s.client.SendEmail(ctx, input)
	if err != nil {
		metrics.MailSendFailure.WithLabelValues(s.account, config.ProviderSES).Inc()
		s.log.Errorw("failed to send mail",
			"account", s.account,
			"recipients", len(recipients),
			"error", err)
		return nil, fmt.Errorf("ses send: %w", err)
	}
	metrics.MailSendSuccess.WithLabelValues(s.account, config.ProviderSES).Inc()

	id := aws.ToString(out.MessageId)
	s.log.Infow("mail sent",
		"account", s.account,
		"recipients", len(recipients),
		"messageID", id)

	return &Receipt{MessageID: id, Accepted: recipients}, nil
}
