package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

type MessageService struct {
	client *Client
}

func (c *Client) Messages() *MessageService {
	return &MessageService{client: c}
}

// Recipient is one destination address. Extras are merged into the rendering
// context for that recipient and travel inline next to email and name on the
// wire.
type Recipient struct {
	Email  string
	Name   string
	Extras map[string]any
}

func (r Recipient) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(r.Extras)+2)
	for k, v := range r.Extras {
		flat[k] = v
	}
	flat["email"] = r.Email
	if r.Name != "" {
		flat["name"] = r.Name
	}
	return json.Marshal(flat)
}

type SendRequest struct {
	Recipients   []Recipient    `json:"recipients"`
	Subject      string         `json:"subject"`
	Template     string         `json:"template,omitempty"`
	HTML         string         `json:"html,omitempty"`
	Context      map[string]any `json:"context,omitempty"`
	FromName     string         `json:"fromName,omitempty"`
	Individual   bool           `json:"individual,omitempty"`
	DelaySeconds int            `json:"delaySeconds,omitempty"`
}

type SendOutcome struct {
	Recipient string `json:"recipient"`
	Status    string `json:"status"`
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
}

// SendResult covers both response shapes: blind-copy answers carry MessageID,
// Accepted and Rejected; individual answers carry TotalSent, OK and Fail, and
// delayed ones additionally DurationSeconds.
type SendResult struct {
	Mode            string        `json:"mode"`
	MessageID       string        `json:"messageId,omitempty"`
	Accepted        []string      `json:"accepted,omitempty"`
	Rejected        []string      `json:"rejected,omitempty"`
	TotalSent       int           `json:"totalSent,omitempty"`
	OK              []SendOutcome `json:"ok,omitempty"`
	Fail            []SendOutcome `json:"fail,omitempty"`
	DurationSeconds float64       `json:"durationSeconds,omitempty"`
}

// Failures counts recipients the server could not deliver to.
func (r *SendResult) Failures() int {
	if r.Mode == "bcc" {
		return len(r.Rejected)
	}
	return len(r.Fail)
}

// Recipients counts all recipients the request addressed.
func (r *SendResult) Recipients() int {
	if r.Mode == "bcc" {
		return len(r.Accepted) + len(r.Rejected)
	}
	return len(r.OK) + len(r.Fail)
}

// Send posts a message through the named account, or the server's default
// account when account is empty.
func (s *MessageService) Send(ctx context.Context, account string, req SendRequest) (*SendResult, error) {
	endpoint := "send-email"
	if account != "" {
		endpoint = "send-email/" + url.PathEscape(account)
	}
	var result SendResult
	if err := s.client.do(ctx, http.MethodPost, endpoint, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
