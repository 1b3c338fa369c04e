// Package store is the gorm-backed repository for the ingestion entities.
// Services receive it behind an interface so transactional behavior can be
// exercised without a database in tests.
package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"wacloud-ingest/internal/models"
	"wacloud-ingest/internal/services"
)

var _ services.Store = (*Store)(nil)

// Store wraps a gorm connection (or, inside WithTransaction, a transaction).
type Store struct {
	db *gorm.DB
}

// New creates a store on top of an initialized gorm connection.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// WithTransaction runs fn against a transactional store. Any error returned
// by fn rolls the whole transaction back.
func (s *Store) WithTransaction(ctx context.Context, fn func(tx services.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// FindMessageBySourceID looks up the message record for a provider message
// id. Activity records are excluded: they intentionally share the source id
// of the message whose failure they narrate and must not satisfy the dedup
// check or receive status updates. Returns (nil, nil) when no record exists.
func (s *Store) FindMessageBySourceID(ctx context.Context, sourceID string) (*models.Message, error) {
	var msg models.Message
	err := s.db.WithContext(ctx).
		Where("source_id = ? AND message_type <> ?", sourceID, models.MessageTypeActivity).
		First(&msg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// CreateMessage inserts a message together with its attachments as one unit.
func (s *Store) CreateMessage(ctx context.Context, msg *models.Message) error {
	return s.db.WithContext(ctx).Create(msg).Error
}

// SaveMessage persists mutations to an existing message.
func (s *Store) SaveMessage(ctx context.Context, msg *models.Message) error {
	return s.db.WithContext(ctx).Save(msg).Error
}

// FindContactInbox looks up the identity for a provider address on an inbox,
// preloading the owning contact. Returns (nil, nil) when none exists.
func (s *Store) FindContactInbox(ctx context.Context, inboxID int, sourceID string) (*models.ContactInbox, error) {
	var ci models.ContactInbox
	err := s.db.WithContext(ctx).
		Preload("Contact").
		Where("inbox_id = ? AND source_id = ?", inboxID, sourceID).
		First(&ci).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ci, nil
}

// CreateContactWithInbox creates a contact and its inbox identity together.
func (s *Store) CreateContactWithInbox(ctx context.Context, contact *models.Contact, inboxID int, sourceID string) (*models.ContactInbox, error) {
	ci := &models.ContactInbox{
		InboxID:  inboxID,
		SourceID: sourceID,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(contact).Error; err != nil {
			return err
		}
		ci.ContactID = contact.ID
		ci.Contact = *contact
		return tx.Create(ci).Error
	})
	if err != nil {
		return nil, err
	}
	return ci, nil
}

// LatestConversation returns the most recently created conversation for a
// contact-inbox identity, or (nil, nil) when the identity has none yet.
func (s *Store) LatestConversation(ctx context.Context, contactInboxID uint) (*models.Conversation, error) {
	var conv models.Conversation
	err := s.db.WithContext(ctx).
		Where("contact_inbox_id = ?", contactInboxID).
		Order("id DESC").
		First(&conv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// CreateConversation inserts a new conversation.
func (s *Store) CreateConversation(ctx context.Context, conv *models.Conversation) error {
	return s.db.WithContext(ctx).Create(conv).Error
}
