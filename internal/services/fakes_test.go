package services

import (
	"context"
	"errors"
	"fmt"

	"wacloud-ingest/internal/channel"
	"wacloud-ingest/internal/models"
)

// fakeStore is an in-memory Store with snapshot-based transactions, so
// rollback behavior can be asserted without a database.
type fakeStore struct {
	contacts       []models.Contact
	contactInboxes []models.ContactInbox
	conversations  []models.Conversation
	messages       []models.Message
	nextID         uint

	failCreateMessage bool
	failSaveMessage   bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{nextID: 1}
}

func (s *fakeStore) nextRecordID() uint {
	id := s.nextID
	s.nextID++
	return id
}

func cloneMessage(m models.Message) models.Message {
	c := m
	c.Attachments = append([]models.Attachment(nil), m.Attachments...)
	if m.SenderID != nil {
		id := *m.SenderID
		c.SenderID = &id
	}
	return c
}

func (s *fakeStore) WithTransaction(_ context.Context, fn func(tx Store) error) error {
	snapContacts := append([]models.Contact(nil), s.contacts...)
	snapInboxes := append([]models.ContactInbox(nil), s.contactInboxes...)
	snapConvs := append([]models.Conversation(nil), s.conversations...)
	snapMessages := make([]models.Message, len(s.messages))
	for i, m := range s.messages {
		snapMessages[i] = cloneMessage(m)
	}
	snapNextID := s.nextID

	if err := fn(s); err != nil {
		s.contacts = snapContacts
		s.contactInboxes = snapInboxes
		s.conversations = snapConvs
		s.messages = snapMessages
		s.nextID = snapNextID
		return err
	}
	return nil
}

func (s *fakeStore) FindMessageBySourceID(_ context.Context, sourceID string) (*models.Message, error) {
	for i := range s.messages {
		if s.messages[i].SourceID == sourceID && s.messages[i].MessageType != models.MessageTypeActivity {
			m := cloneMessage(s.messages[i])
			return &m, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) CreateMessage(_ context.Context, msg *models.Message) error {
	if s.failCreateMessage {
		return errors.New("insert failed")
	}
	for i := range s.messages {
		if s.messages[i].SourceID == msg.SourceID && s.messages[i].MessageType == msg.MessageType {
			return fmt.Errorf("UNIQUE constraint failed: messages.source_id, messages.message_type")
		}
	}
	msg.ID = s.nextRecordID()
	s.messages = append(s.messages, cloneMessage(*msg))
	return nil
}

func (s *fakeStore) SaveMessage(_ context.Context, msg *models.Message) error {
	if s.failSaveMessage {
		return errors.New("save failed")
	}
	for i := range s.messages {
		if s.messages[i].ID == msg.ID {
			s.messages[i] = cloneMessage(*msg)
			return nil
		}
	}
	return fmt.Errorf("message %d not found", msg.ID)
}

func (s *fakeStore) FindContactInbox(_ context.Context, inboxID int, sourceID string) (*models.ContactInbox, error) {
	for i := range s.contactInboxes {
		ci := s.contactInboxes[i]
		if ci.InboxID == inboxID && ci.SourceID == sourceID {
			for _, c := range s.contacts {
				if c.ID == ci.ContactID {
					ci.Contact = c
				}
			}
			return &ci, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) CreateContactWithInbox(_ context.Context, contact *models.Contact, inboxID int, sourceID string) (*models.ContactInbox, error) {
	contact.ID = s.nextRecordID()
	s.contacts = append(s.contacts, *contact)
	ci := models.ContactInbox{
		ID:        s.nextRecordID(),
		InboxID:   inboxID,
		SourceID:  sourceID,
		ContactID: contact.ID,
		Contact:   *contact,
	}
	s.contactInboxes = append(s.contactInboxes, ci)
	return &ci, nil
}

func (s *fakeStore) LatestConversation(_ context.Context, contactInboxID uint) (*models.Conversation, error) {
	var latest *models.Conversation
	for i := range s.conversations {
		c := s.conversations[i]
		if c.ContactInboxID != contactInboxID {
			continue
		}
		if latest == nil || c.ID > latest.ID {
			conv := c
			latest = &conv
		}
	}
	return latest, nil
}

func (s *fakeStore) CreateConversation(_ context.Context, conv *models.Conversation) error {
	conv.ID = s.nextRecordID()
	s.conversations = append(s.conversations, *conv)
	return nil
}

// fakeMedia is a canned MediaFetcher.
type fakeMedia struct {
	signedURL   string
	data        []byte
	contentType string
	urlErr      error
	downloadErr error
}

func (f *fakeMedia) SignedURL(_ context.Context, _ *channel.Channel, _ string) (string, error) {
	if f.urlErr != nil {
		return "", f.urlErr
	}
	return f.signedURL, nil
}

func (f *fakeMedia) Download(_ context.Context, _ *channel.Channel, _ string) ([]byte, string, error) {
	if f.downloadErr != nil {
		return nil, "", f.downloadErr
	}
	return f.data, f.contentType, nil
}

// fakeBlobStore records uploads.
type fakeBlobStore struct {
	enabled bool
	uploads map[string][]byte
	baseURL string
}

func (f *fakeBlobStore) Enabled() bool { return f.enabled }

func (f *fakeBlobStore) Upload(_ context.Context, key string, data []byte, _ string) (string, error) {
	if f.uploads == nil {
		f.uploads = make(map[string][]byte)
	}
	f.uploads[key] = data
	return f.baseURL + "/" + key, nil
}

// fakePublisher records emitted events.
type fakePublisher struct {
	created  []string
	statuses []string
}

func (f *fakePublisher) MessageCreated(_ context.Context, msg *models.Message) {
	f.created = append(f.created, msg.SourceID)
}

func (f *fakePublisher) MessageStatus(_ context.Context, msg *models.Message, status string) {
	f.statuses = append(f.statuses, msg.SourceID+":"+status)
}
