package whatsapp

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Envelope is the normalized view of one webhook delivery. It is built once
// at the HTTP boundary and passed through the pipeline; every "field may be
// absent" branch of the raw payload is resolved here, not downstream.
type Envelope struct {
	Status   *Status
	Message  *Message
	Contact  *Contact
	Metadata Metadata
}

// ParsePayload validates and flattens one raw webhook body into an Envelope.
// The Cloud schema nests the interesting data under entry[0].changes[0].value;
// a body without that path yields an empty envelope (a valid no-op), while
// bodies that are not JSON at all yield an error.
func ParsePayload(body []byte) (*Envelope, error) {
	var payload WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode webhook payload: %w", err)
	}

	env := &Envelope{}
	if len(payload.Entry) == 0 || len(payload.Entry[0].Changes) == 0 {
		return env, nil
	}

	value := payload.Entry[0].Changes[0].Value
	env.Metadata = value.Metadata
	if len(value.Statuses) > 0 {
		env.Status = &value.Statuses[0]
	}
	if len(value.Messages) > 0 {
		env.Message = &value.Messages[0]
	}
	if len(value.Contacts) > 0 {
		env.Contact = &value.Contacts[0]
	}
	return env, nil
}

// HasStatus reports whether the delivery carries a status update.
func (e *Envelope) HasStatus() bool {
	return e.Status != nil && e.Status.ID != ""
}

// HasMessage reports whether the delivery carries a new message.
func (e *Envelope) HasMessage() bool {
	return e.Message != nil && e.Message.ID != ""
}

// IsGroupMessage reports whether the sender descriptor references a group
// conversation rather than a direct contact.
func (e *Envelope) IsGroupMessage() bool {
	return e.Contact != nil && e.Contact.GroupID != ""
}

// DisplayNumber returns the channel's displayed number as reported by the
// provider metadata, without the "+" prefix.
func (e *Envelope) DisplayNumber() string {
	return strings.TrimPrefix(e.Metadata.DisplayPhoneNumber, "+")
}
