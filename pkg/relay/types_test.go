package relay

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipientUnmarshalKeepsExtras(t *testing.T) {
	var r Recipient
	err := json.Unmarshal([]byte(`{"email":"anna@example.com","name":"Anna","city":"Bonn","vip":true}`), &r)
	require.NoError(t, err)

	assert.Equal(t, "anna@example.com", r.Email)
	assert.Equal(t, "Anna", r.Name)
	assert.Equal(t, map[string]interface{}{"city": "Bonn", "vip": true}, r.Extras)
}

func TestRecipientUnmarshalBareAddress(t *testing.T) {
	var r Recipient
	err := json.Unmarshal([]byte(`{"email":"ops@example.com"}`), &r)
	require.NoError(t, err)

	assert.Equal(t, "ops@example.com", r.Email)
	assert.Empty(t, r.Name)
	assert.Nil(t, r.Extras)
}

func TestRecipientMarshalRoundTrip(t *testing.T) {
	in := Recipient{
		Email:  "anna@example.com",
		Name:   "Anna",
		Extras: map[string]interface{}{"city": "Bonn"},
	}
	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out Recipient
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestSendRequestUnmarshal(t *testing.T) {
	payload := `{
		"recipients": [{"email":"a@example.com"},{"email":"b@example.com","name":"B"}],
		"subject": "hello",
		"template": "welcome",
		"context": {"city":"Bonn"},
		"individual": true,
		"delaySeconds": 2
	}`
	var req SendRequest
	require.NoError(t, json.Unmarshal([]byte(payload), &req))

	require.Len(t, req.Recipients, 2)
	assert.Equal(t, "a@example.com", req.Recipients[0].Email)
	assert.Equal(t, "B", req.Recipients[1].Name)
	assert.Equal(t, "welcome", req.Template)
	assert.Equal(t, map[string]interface{}{"city": "Bonn"}, req.Context)
	assert.Equal(t, ModeIndividualDelayed, req.Mode())
}

func TestSendResultMarshalBCC(t *testing.T) {
	result := &SendResult{
		Mode:      ModeBCC,
		MessageID: "<id@example.com>",
		Accepted:  []string{"a@example.com", "b@example.com"},
	}
	data, err := json.Marshal(result)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"mode": "bcc",
		"messageId": "<id@example.com>",
		"accepted": ["a@example.com", "b@example.com"],
		"rejected": []
	}`, string(data))
}

func TestSendResultMarshalIndividual(t *testing.T) {
	result := &SendResult{
		Mode: ModeIndividual,
		OK:   []SendOutcome{{Recipient: "a@example.com", Status: StatusSuccess, MessageID: "m1"}},
		Fail: []SendOutcome{{Recipient: "b@example.com", Status: StatusFailure, Error: "boom"}},
	}
	data, err := json.Marshal(result)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"mode": "individual",
		"totalSent": 1,
		"ok": [{"recipient":"a@example.com","status":"success","messageId":"m1"}],
		"fail": [{"recipient":"b@example.com","status":"failure","error":"boom"}]
	}`, string(data))
}

func TestSendResultMarshalDelayedIncludesDuration(t *testing.T) {
	result := &SendResult{
		Mode:            ModeIndividualDelayed,
		OK:              []SendOutcome{{Recipient: "a@example.com", Status: StatusSuccess}},
		DurationSeconds: 4.2,
	}
	data, err := json.Marshal(result)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"mode": "individual_delayed",
		"totalSent": 1,
		"durationSeconds": 4.2,
		"ok": [{"recipient":"a@example.com","status":"success"}],
		"fail": []
	}`, string(data))
}

func TestSendResultHTTPStatus(t *testing.T) {
	assert.Equal(t, 200, (&SendResult{Mode: ModeBCC}).HTTPStatus())
	assert.Equal(t, 207, (&SendResult{Mode: ModeIndividual}).HTTPStatus())
	assert.Equal(t, 207, (&SendResult{Mode: ModeIndividualDelayed}).HTTPStatus())
}
