package relay

import (
	"encoding/json"

	"github.com/telekom/mailgate/pkg/mail"
)

// Recipient is one destination address plus the free-form fields supplied
// alongside it. Extra fields flow straight into template rendering, so
// recipients can carry arbitrary personalization data without a schema.
type Recipient struct {
	Email  string
	Name   string
	Extras map[string]interface{}
}

// UnmarshalJSON keeps unknown recipient keys as template context instead
// of dropping them.
func (r *Recipient) UnmarshalJSON(data []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if v, ok := raw["email"].(string); ok {
		r.Email = v
	}
	if v, ok := raw["name"].(string); ok {
		r.Name = v
	}
	delete(raw, "email")
	delete(raw, "name")
	if len(raw) > 0 {
		r.Extras = raw
	}
	return nil
}

// MarshalJSON flattens the extra fields back beside email and name so the
// wire form round-trips.
func (r Recipient) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(r.Extras)+2)
	for k, v := range r.Extras {
		out[k] = v
	}
	out["email"] = r.Email
	if r.Name != "" {
		out["name"] = r.Name
	}
	return json.Marshal(out)
}

// Address converts the recipient into the transport address form.
func (r Recipient) Address() mail.Address {
	return mail.Address{Email: r.Email, Name: r.Name}
}

// SendRequest is the relay request body. Template wins over HTML when both
// are set; a positive DelaySeconds forces sequential individual delivery.
type SendRequest struct {
	Recipients   []Recipient            `json:"recipients" binding:"required,min=1"`
	Subject      string                 `json:"subject" binding:"required,max=255"`
	Template     string                 `json:"template,omitempty"`
	HTML         string                 `json:"html,omitempty"`
	Context      map[string]interface{} `json:"context,omitempty"`
	FromName     string                 `json:"fromName,omitempty"`
	Individual   bool                   `json:"individual,omitempty"`
	DelaySeconds int                    `json:"delaySeconds,omitempty"`
}

// Mode returns the delivery mode the request flags select.
func (r *SendRequest) Mode() DeliveryMode {
	return SelectMode(r.Individual, r.DelaySeconds)
}

const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// SendOutcome is the per-recipient result reported in individual modes.
type SendOutcome struct {
	Recipient string `json:"recipient"`
	Status    string `json:"status"`
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
}

// SendResult aggregates one dispatch cycle. Which fields are populated
// depends on the mode: blind-copy delivery fills MessageID, Accepted and
// Rejected, individual delivery fills OK and Fail, and delayed delivery
// additionally records DurationSeconds.
type SendResult struct {
	Mode            DeliveryMode
	MessageID       string
	Accepted        []string
	Rejected        []string
	OK              []SendOutcome
	Fail            []SendOutcome
	DurationSeconds float64
}

// HTTPStatus returns the success status for this result. Individual modes
// always answer 207 to signal per-item granularity, even when every
// recipient succeeded or every recipient failed.
func (r *SendResult) HTTPStatus() int {
	if r.Mode.Individual() {
		return 207
	}
	return 200
}

// MarshalJSON emits only the fields that belong to the result's mode, with
// empty lists as [] rather than null.
func (r *SendResult) MarshalJSON() ([]byte, error) {
	switch r.Mode {
	case ModeIndividual:
		return json.Marshal(struct {
			Mode      string        `json:"mode"`
			TotalSent int           `json:"totalSent"`
			OK        []SendOutcome `json:"ok"`
			Fail      []SendOutcome `json:"fail"`
		}{r.Mode.String(), len(r.OK), outcomes(r.OK), outcomes(r.Fail)})
	case ModeIndividualDelayed:
		return json.Marshal(struct {
			Mode            string        `json:"mode"`
			TotalSent       int           `json:"totalSent"`
			DurationSeconds float64       `json:"durationSeconds"`
			OK              []SendOutcome `json:"ok"`
			Fail            []SendOutcome `json:"fail"`
		}{r.Mode.String(), len(r.OK), r.DurationSeconds, outcomes(r.OK), outcomes(r.Fail)})
	default:
		return json.Marshal(struct {
			Mode      string   `json:"mode"`
			MessageID string   `json:"messageId"`
			Accepted  []string `json:"accepted"`
			Rejected  []string `json:"rejected"`
		}{r.Mode.String(), r.MessageID, emails(r.Accepted), emails(r.Rejected)})
	}
}

func outcomes(list []SendOutcome) []SendOutcome {
	if list == nil {
		return []SendOutcome{}
	}
	return list
}

func emails(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
