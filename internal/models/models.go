package models

import (
	"time"
)

// Message directionality.
const (
	MessageTypeIncoming = "incoming"
	MessageTypeOutgoing = "outgoing"
	MessageTypeActivity = "activity"
)

// Message delivery status values reported by the provider.
const (
	StatusPending   = "pending"
	StatusSent      = "sent"
	StatusDelivered = "delivered"
	StatusRead      = "read"
	StatusFailed    = "failed"
)

// Contact is a durable identity in the contact directory. It is created on
// first sight of a sender address and reused afterwards; existing attributes
// are never overwritten by the ingestion pipeline.
type Contact struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"comment:Display name reported by the provider profile"`
	PhoneNumber string
	Email       string
	AvatarURL   string
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// ContactInbox pairs a contact with one inbox under the provider's address
// for that contact on that channel (wa_id for individuals, group id for
// groups). The (inbox, source) pair is the find-or-create key.
type ContactInbox struct {
	ID        uint    `gorm:"primaryKey"`
	InboxID   int     `gorm:"uniqueIndex:idx_contact_inboxes_inbox_source"`
	SourceID  string  `gorm:"uniqueIndex:idx_contact_inboxes_inbox_source;comment:Provider address for the contact on this channel"`
	ContactID uint    `gorm:"index"`
	Contact   Contact `gorm:"foreignKey:ContactID"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Conversation groups messages for one contact-inbox pairing. The pipeline
// reuses the identity's most recently created conversation and creates a new
// one only when none exists.
type Conversation struct {
	ID             uint `gorm:"primaryKey"`
	InboxID        int  `gorm:"index"`
	ContactID      uint
	ContactInboxID uint   `gorm:"index"`
	Status         string `gorm:"default:open"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

// Message is the normalized record the pipeline produces. SourceID is the
// provider-assigned message id and the sole deduplication key; the unique
// index is scoped by message type so the failure-notice activity record,
// which deliberately shares the original message's source id, can coexist
// with it.
type Message struct {
	ID             uint   `gorm:"primaryKey"`
	SourceID       string `gorm:"uniqueIndex:idx_messages_source_type;comment:Provider-assigned message id, the dedup key"`
	MessageType    string `gorm:"uniqueIndex:idx_messages_source_type"`
	InboxID        int    `gorm:"index"`
	ConversationID uint   `gorm:"index"`
	SenderID       *uint
	Sender         *Contact `gorm:"foreignKey:SenderID"`
	Content        string
	ContentDeleted bool   `gorm:"comment:Set when the provider reported the message remotely deleted"`
	Status         string `gorm:"default:sent"`
	ExternalError  string
	Attachments    []Attachment `gorm:"foreignKey:MessageID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time    `gorm:"autoCreateTime"`
	UpdatedAt      time.Time    `gorm:"autoUpdateTime"`
}

// Attachment is owned by exactly one message. It carries either binary
// content (or an external URL when a blob store is configured), geographic
// coordinates, or just a fallback title for contact-card entries.
type Attachment struct {
	ID             uint   `gorm:"primaryKey"`
	MessageID      uint   `gorm:"index"`
	FileType       string `gorm:"comment:Semantic kind: image, photo, video, audio, document, file, location, contact"`
	FileName       string
	ContentType    string
	Data           []byte `gorm:"type:blob"`
	ExternalURL    string
	CoordinatesLat float64
	CoordinatesLon float64
	FallbackTitle  string
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}
