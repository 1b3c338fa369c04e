package whatsapp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const messagePayload = `{
  "object": "whatsapp_business_account",
  "entry": [{
    "id": "1234567890",
    "changes": [{
      "field": "messages",
      "value": {
        "messaging_product": "whatsapp",
        "metadata": {"display_phone_number": "+5511999999999", "phone_number_id": "987654"},
        "contacts": [{"profile": {"name": "Ana"}, "wa_id": "5511888887777"}],
        "messages": [{
          "from": "5511888887777",
          "id": "wamid.HBgA",
          "timestamp": "1700000000",
          "type": "text",
          "text": {"body": "Hello"}
        }]
      }
    }]
  }]
}`

const statusPayload = `{
  "object": "whatsapp_business_account",
  "entry": [{
    "id": "1234567890",
    "changes": [{
      "field": "messages",
      "value": {
        "messaging_product": "whatsapp",
        "metadata": {"display_phone_number": "5511999999999", "phone_number_id": "987654"},
        "statuses": [{
          "id": "wamid.HBgA",
          "status": "failed",
          "timestamp": "1700000100",
          "recipient_id": "5511888887777",
          "errors": [{"code": 131026, "title": "Receiver is incapable of receiving this message"}]
        }]
      }
    }]
  }]
}`

func TestParseMessagePayload(t *testing.T) {
	env, err := ParsePayload([]byte(messagePayload))
	require.NoError(t, err)

	require.True(t, env.HasMessage())
	assert.False(t, env.HasStatus())
	assert.Equal(t, "wamid.HBgA", env.Message.ID)
	assert.Equal(t, "5511888887777", env.Message.From)
	require.NotNil(t, env.Message.Text)
	assert.Equal(t, "Hello", env.Message.Text.Body)

	require.NotNil(t, env.Contact)
	assert.Equal(t, "Ana", env.Contact.Profile.Name)
	assert.Equal(t, "5511888887777", env.Contact.WaID)
	assert.False(t, env.IsGroupMessage())

	assert.Equal(t, "5511999999999", env.DisplayNumber())
}

func TestParseStatusPayload(t *testing.T) {
	env, err := ParsePayload([]byte(statusPayload))
	require.NoError(t, err)

	require.True(t, env.HasStatus())
	assert.False(t, env.HasMessage())
	assert.Equal(t, "wamid.HBgA", env.Status.ID)
	assert.Equal(t, "failed", env.Status.Status)
	require.Len(t, env.Status.Errors, 1)
	assert.Equal(t, "131026", env.Status.Errors[0].Code.String())
	assert.Equal(t, "Receiver is incapable of receiving this message", env.Status.Errors[0].Title)
}

func TestParseStatusErrorCodeAsString(t *testing.T) {
	payload := `{"entry":[{"changes":[{"value":{"statuses":[{"id":"wamid.X","status":"failed","errors":[{"code":"131047","title":"Re-engagement message"}]}]}}]}]}`
	env, err := ParsePayload([]byte(payload))
	require.NoError(t, err)
	require.True(t, env.HasStatus())
	assert.Equal(t, "131047", env.Status.Errors[0].Code.String())
}

func TestParseGroupMessage(t *testing.T) {
	payload := `{"entry":[{"changes":[{"value":{
		"metadata": {"display_phone_number": "5511999999999"},
		"contacts": [{"profile": {"name": "Ana"}, "wa_id": "5511888887777", "group_id": "12036304@g.us", "group_subject": "Family"}],
		"messages": [{"from": "5511888887777", "id": "wamid.G", "type": "text", "text": {"body": "Hi all"}}]
	}}]}]}`
	env, err := ParsePayload([]byte(payload))
	require.NoError(t, err)
	require.True(t, env.HasMessage())
	assert.True(t, env.IsGroupMessage())
	assert.Equal(t, "12036304@g.us", env.Contact.GroupID)
	assert.Equal(t, "Family", env.Contact.GroupSubject)
}

func TestParseEmptyStructures(t *testing.T) {
	for _, body := range []string{`{}`, `{"entry":[]}`, `{"entry":[{"changes":[]}]}`, `{"entry":[{"changes":[{"value":{}}]}]}`} {
		env, err := ParsePayload([]byte(body))
		require.NoError(t, err, body)
		assert.False(t, env.HasMessage(), body)
		assert.False(t, env.HasStatus(), body)
	}
}

func TestParseMalformedBody(t *testing.T) {
	_, err := ParsePayload([]byte(`not json at all`))
	require.Error(t, err)
}
