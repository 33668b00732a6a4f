// SPDX-FileCopyrightText: 2025 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package relay

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/telekom/mailgate/pkg/config"
	"github.com/telekom/mailgate/pkg/mail"
	"github.com/telekom/mailgate/pkg/metrics"
	"github.com/telekom/mailgate/pkg/render"
	"github.com/telekom/mailgate/pkg/system"
)

// Service turns validated send requests into transport calls. Transports
// are injected per account so tests can swap in fakes, and the semaphore
// caps simultaneous transport calls across all in-flight requests.
type Service struct {
	cfg       config.Config
	senders   map[string]mail.Sender
	templates *render.Store
	tracer    trace.Tracer
	sendSlots *semaphore.Weighted
	log       *zap.SugaredLogger
}

func NewService(cfg config.Config, senders map[string]mail.Sender, templates *render.Store, tp trace.TracerProvider, log *zap.SugaredLogger) *Service {
	slots := int64(cfg.Delivery.MaxConcurrent)
	if slots < 1 {
		slots = 1
	}
	return &Service{
		cfg:       cfg,
		senders:   senders,
		templates: templates,
		tracer:    tp.Tracer("mailgate/relay"),
		sendSlots: semaphore.NewWeighted(slots),
		log:       log.Named("relay"),
	}
}

// ResolveAccount picks the account for a request. An empty name selects the
// default account. Disabled accounts resolve with a configuration error so
// callers get a clear per-request answer instead of a crashed process.
func (s *Service) ResolveAccount(name string) (*config.AccountConfig, mail.Sender, error) {
	var account *config.AccountConfig
	if name == "" {
		account = s.cfg.DefaultAccount()
		if account == nil {
			return nil, nil, newError(KindConfiguration, "no default account configured")
		}
	} else {
		found, ok := s.cfg.Account(name)
		if !ok {
			return nil, nil, newError(KindNotFound, "unknown account %q", name)
		}
		account = found
	}
	if account.Disabled {
		if account.DisabledReason != "" {
			return nil, nil, newError(KindConfiguration, "account %q is disabled: %s", account.Name, account.DisabledReason)
		}
		return nil, nil, newError(KindConfiguration, "account %q is disabled", account.Name)
	}
	sender, ok := s.senders[account.Name]
	if !ok {
		return nil, nil, newError(KindConfiguration, "no transport configured for account %q", account.Name)
	}
	return account, sender, nil
}

// Dispatch validates the request, selects the delivery mode and drives it
// to completion. Individual modes never fail as a whole once delivery has
// started; per-recipient problems land in the result lists instead.
func (s *Service) Dispatch(ctx context.Context, accountName string, req *SendRequest) (*SendResult, error) {
	if err := req.Normalize(); err != nil {
		return nil, err
	}
	account, sender, err := s.ResolveAccount(accountName)
	if err != nil {
		return nil, err
	}
	if req.Template != "" && !s.templates.Has(req.Template) {
		return nil, newError(KindValidation, "unknown template %q", req.Template)
	}

	mode := req.Mode()
	ctx, span := s.tracer.Start(ctx, "relay.dispatch", trace.WithAttributes(
		attribute.String("mail.account", account.Name),
		attribute.String("mail.mode", mode.String()),
		attribute.Int("mail.recipients", len(req.Recipients)),
	))
	defer span.End()

	metrics.RelayRequests.WithLabelValues(account.Name, mode.String()).Inc()
	metrics.RelayRecipients.WithLabelValues(mode.String()).Observe(float64(len(req.Recipients)))
	started := time.Now()
	defer func() {
		metrics.RelayDuration.WithLabelValues(account.Name, mode.String()).Observe(time.Since(started).Seconds())
	}()

	log := s.log.With(system.DeliveryFields(account.Name, mode.String())...)
	log.Infow("dispatching send request", "recipients", len(req.Recipients), "template", req.Template)

	var result *SendResult
	switch mode {
	case ModeIndividual:
		result = s.sendIndividual(ctx, sender, req, log)
	case ModeIndividualDelayed:
		result = s.sendDelayed(ctx, sender, req, log)
	default:
		result, err = s.sendBCC(ctx, account, sender, req, log)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if KindOf(err) == KindTransport {
			metrics.DeliveryFailure.WithLabelValues(account.Name, mode.String()).Add(float64(len(req.Recipients)))
		}
		return nil, err
	}
	s.countOutcomes(account.Name, mode, result)
	return result, nil
}

// sendBCC delivers one message with the full recipient list on the Bcc
// header. Content is rendered once against the global context only, so
// per-recipient fields never leak into a shared body. Fails atomically.
func (s *Service) sendBCC(ctx context.Context, account *config.AccountConfig, sender mail.Sender, req *SendRequest, log *zap.SugaredLogger) (*SendResult, error) {
	body, err := s.renderBody(req, nil)
	if err != nil {
		return nil, err
	}
	receipt, err := sender.Send(ctx, &mail.Message{
		FromName: req.FromName,
		Bcc:      addresses(req.Recipients),
		Subject:  req.Subject,
		HTML:     body,
	})
	if err != nil {
		return nil, wrapError(KindTransport, err, "send via account %q failed", account.Name)
	}
	log.Infow("blind-copy message delivered", "messageID", receipt.MessageID, "accepted", len(receipt.Accepted))
	return &SendResult{
		Mode:      ModeBCC,
		MessageID: receipt.MessageID,
		Accepted:  receipt.Accepted,
		Rejected:  receipt.Rejected,
	}, nil
}

// sendIndividual fans out one personalized message per recipient. Sends run
// concurrently up to the configured cap and outcomes are collected in
// completion order; one recipient's failure never aborts the siblings.
func (s *Service) sendIndividual(ctx context.Context, sender mail.Sender, req *SendRequest, log *zap.SugaredLogger) *SendResult {
	collected := make(chan SendOutcome, len(req.Recipients))

	var wg sync.WaitGroup
	for _, rcpt := range req.Recipients {
		wg.Add(1)
		go func(rcpt Recipient) {
			defer wg.Done()
			if err := s.sendSlots.Acquire(ctx, 1); err != nil {
				collected <- SendOutcome{Recipient: rcpt.Email, Status: StatusFailure, Error: err.Error()}
				return
			}
			defer s.sendSlots.Release(1)
			collected <- s.sendOne(ctx, sender, req, rcpt)
		}(rcpt)
	}
	wg.Wait()
	close(collected)

	result := &SendResult{Mode: ModeIndividual}
	for outcome := range collected {
		if outcome.Status == StatusSuccess {
			result.OK = append(result.OK, outcome)
		} else {
			result.Fail = append(result.Fail, outcome)
		}
	}
	log.Infow("individual delivery finished", "ok", len(result.OK), "failed", len(result.Fail))
	return result
}

// sendDelayed walks the recipients strictly in input order with a fixed
// pause before every send after the first. The pause applies even after a
// failed send. When the context ends mid-loop, the remaining recipients
// are reported as failed rather than silently dropped.
func (s *Service) sendDelayed(ctx context.Context, sender mail.Sender, req *SendRequest, log *zap.SugaredLogger) *SendResult {
	result := &SendResult{Mode: ModeIndividualDelayed}
	delay := time.Duration(req.DelaySeconds) * time.Second
	started := time.Now()

	for i, rcpt := range req.Recipients {
		if i > 0 {
			if err := sleepContext(ctx, delay); err != nil {
				result.Fail = append(result.Fail, remainingFailed(req.Recipients[i:], err)...)
				break
			}
		}
		outcome := s.sendOne(ctx, sender, req, rcpt)
		if outcome.Status == StatusSuccess {
			result.OK = append(result.OK, outcome)
		} else {
			result.Fail = append(result.Fail, outcome)
		}
	}
	result.DurationSeconds = time.Since(started).Round(time.Millisecond).Seconds()
	log.Infow("delayed delivery finished", "ok", len(result.OK), "failed", len(result.Fail), "durationSeconds", result.DurationSeconds)
	return result
}

// sendOne renders and sends a single personalized message. Every failure is
// folded into the outcome so callers can keep going.
func (s *Service) sendOne(ctx context.Context, sender mail.Sender, req *SendRequest, rcpt Recipient) SendOutcome {
	outcome := SendOutcome{Recipient: rcpt.Email, Status: StatusFailure}
	body, err := s.renderBody(req, &rcpt)
	if err != nil {
		outcome.Error = err.Error()
		return outcome
	}
	receipt, err := sender.Send(ctx, &mail.Message{
		FromName: req.FromName,
		To:       []mail.Address{rcpt.Address()},
		Subject:  req.Subject,
		HTML:     body,
	})
	if err != nil {
		outcome.Error = err.Error()
		return outcome
	}
	outcome.Status = StatusSuccess
	outcome.MessageID = receipt.MessageID
	return outcome
}

// renderBody resolves the content for one recipient. A named template wins
// over inline html when both are set. A nil recipient renders against the
// global context alone, which is what blind-copy delivery does.
func (s *Service) renderBody(req *SendRequest, rcpt *Recipient) (string, error) {
	renderCtx := req.Context
	if rcpt != nil {
		renderCtx = mergedContext(req.Context, rcpt)
	}
	if req.Template != "" {
		body, err := s.templates.Render(req.Template, renderCtx)
		if err != nil {
			return "", wrapError(KindRender, err, "render template %q", req.Template)
		}
		return body, nil
	}
	body, err := s.templates.RenderString(req.HTML, renderCtx)
	if err != nil {
		return "", wrapError(KindRender, err, "render inline html")
	}
	return body, nil
}

func (s *Service) countOutcomes(account string, mode DeliveryMode, result *SendResult) {
	successes, failures := len(result.OK), len(result.Fail)
	if mode == ModeBCC {
		successes, failures = len(result.Accepted), len(result.Rejected)
	}
	if successes > 0 {
		metrics.DeliverySuccess.WithLabelValues(account, mode.String()).Add(float64(successes))
	}
	if failures > 0 {
		metrics.DeliveryFailure.WithLabelValues(account, mode.String()).Add(float64(failures))
	}
}

// mergedContext layers recipient fields over the global context. The
// recipient's own values win on key collision.
func mergedContext(global map[string]interface{}, rcpt *Recipient) map[string]interface{} {
	merged := make(map[string]interface{}, len(global)+len(rcpt.Extras)+2)
	for k, v := range global {
		merged[k] = v
	}
	merged["email"] = rcpt.Email
	if rcpt.Name != "" {
		merged["name"] = rcpt.Name
	}
	for k, v := range rcpt.Extras {
		merged[k] = v
	}
	return merged
}

func addresses(recipients []Recipient) []mail.Address {
	out := make([]mail.Address, len(recipients))
	for i, r := range recipients {
		out[i] = r.Address()
	}
	return out
}

// sleepContext waits for d or until ctx ends, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func remainingFailed(recipients []Recipient, err error) []SendOutcome {
	out := make([]SendOutcome, len(recipients))
	for i, rcpt := range recipients {
		out[i] = SendOutcome{Recipient: rcpt.Email, Status: StatusFailure, Error: err.Error()}
	}
	return out
}

// AccountStatus is the operator-facing view of one configured account.
type AccountStatus struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Provider    string `json:"provider"`
	Default     bool   `json:"default"`
	Enabled     bool   `json:"enabled"`
	Reason      string `json:"reason,omitempty"`
	Sender      string `json:"sender,omitempty"`
}

// Accounts lists every configured account, default first, then by name.
func (s *Service) Accounts() []AccountStatus {
	out := make([]AccountStatus, 0, len(s.cfg.Accounts))
	for _, a := range s.cfg.Accounts {
		out = append(out, AccountStatus{
			Name:        a.Name,
			DisplayName: a.DisplayName,
			Provider:    a.Provider,
			Default:     a.Default,
			Enabled:     !a.Disabled,
			Reason:      a.DisabledReason,
			Sender:      a.SenderAddress,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Default != out[j].Default {
			return out[i].Default
		}
		return out[i].Name < out[j].Name
	})
	return out
}
