package whatsapp

import "encoding/json"

// Meta-standard WhatsApp Cloud webhook types.

// WebhookPayload is the top-level webhook delivery.
type WebhookPayload struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

// Entry represents one business account entry.
type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

// Change wraps a single change notification.
type Change struct {
	Field string      `json:"field"`
	Value ChangeValue `json:"value"`
}

// ChangeValue holds the message data.
type ChangeValue struct {
	MessagingProduct string    `json:"messaging_product"`
	Metadata         Metadata  `json:"metadata"`
	Contacts         []Contact `json:"contacts,omitempty"`
	Messages         []Message `json:"messages,omitempty"`
	Statuses         []Status  `json:"statuses,omitempty"`
}

// Metadata about the receiving phone number.
type Metadata struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
	PhoneNumberID      string `json:"phone_number_id"`
}

// Contact describes the sender of a message. Group fields are only present
// when the message was posted in a group conversation (web provider variant).
type Contact struct {
	Profile      Profile `json:"profile"`
	WaID         string  `json:"wa_id"`
	GroupID      string  `json:"group_id,omitempty"`
	GroupSubject string  `json:"group_subject,omitempty"`
	GroupPicture string  `json:"group_picture,omitempty"`
}

// Profile has the sender's display name.
type Profile struct {
	Name string `json:"name"`
}

// Message represents one incoming message. Exactly one of the kind-specific
// fields is populated, matching the Type tag.
type Message struct {
	From      string `json:"from"`
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`

	Text        *Text         `json:"text,omitempty"`
	Button      *Button       `json:"button,omitempty"`
	Interactive *Interactive  `json:"interactive,omitempty"`
	Location    *Location     `json:"location,omitempty"`
	Contacts    []ContactCard `json:"contacts,omitempty"`
	Image       *Media        `json:"image,omitempty"`
	Video       *Media        `json:"video,omitempty"`
	Audio       *Media        `json:"audio,omitempty"`
	Document    *Media        `json:"document,omitempty"`
	Sticker     *Media        `json:"sticker,omitempty"`
}

// Text holds a text message body.
type Text struct {
	Body string `json:"body"`
}

// Button holds a quick-reply button press.
type Button struct {
	Text    string `json:"text"`
	Payload string `json:"payload"`
}

// Interactive holds a reply to an interactive (list/button) message.
type Interactive struct {
	Type        string `json:"type"`
	ButtonReply *Reply `json:"button_reply,omitempty"`
	ListReply   *Reply `json:"list_reply,omitempty"`
}

// Reply is the selected option of an interactive message.
type Reply struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Media references downloadable content by provider media id.
type Media struct {
	ID       string `json:"id"`
	MimeType string `json:"mime_type,omitempty"`
	SHA256   string `json:"sha256,omitempty"`
	Caption  string `json:"caption,omitempty"`
	Filename string `json:"filename,omitempty"`
}

// Location is a shared geographic position.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name,omitempty"`
	Address   string  `json:"address,omitempty"`
	URL       string  `json:"url,omitempty"`
}

// ContactCard is one entry of a shared contact-card (vCard) message.
type ContactCard struct {
	Name   ContactName    `json:"name"`
	Phones []ContactPhone `json:"phones,omitempty"`
}

// ContactName holds the card's display name.
type ContactName struct {
	FormattedName string `json:"formatted_name"`
	FirstName     string `json:"first_name,omitempty"`
}

// ContactPhone is one phone entry of a contact card.
type ContactPhone struct {
	Phone string `json:"phone"`
	WaID  string `json:"wa_id,omitempty"`
	Type  string `json:"type,omitempty"`
}

// Status represents a message delivery status update.
type Status struct {
	ID          string        `json:"id"`
	Status      string        `json:"status"`
	Timestamp   string        `json:"timestamp"`
	RecipientID string        `json:"recipient_id,omitempty"`
	Errors      []StatusError `json:"errors,omitempty"`
}

// StatusError describes one delivery failure reason.
type StatusError struct {
	Code  ErrorCode `json:"code"`
	Title string    `json:"title"`
}

// ErrorCode is a delivery failure code. The provider documents it as a
// number but some payloads carry it quoted; both forms decode.
type ErrorCode string

func (c *ErrorCode) UnmarshalJSON(data []byte) error {
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*c = ErrorCode(n.String())
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*c = ErrorCode(s)
	return nil
}

func (c ErrorCode) String() string {
	return string(c)
}
