package services

import (
	"context"

	"wacloud-ingest/internal/channel"
	"wacloud-ingest/internal/models"
)

// Store is the repository surface the pipeline needs. The gorm-backed
// implementation lives in internal/store; tests substitute in-memory fakes,
// in particular to exercise transaction rollback.
type Store interface {
	// WithTransaction runs fn against a transactional view of the store.
	// An error returned by fn discards every write made through tx.
	WithTransaction(ctx context.Context, fn func(tx Store) error) error

	// FindMessageBySourceID returns the non-activity message for a provider
	// message id, or (nil, nil) when none exists.
	FindMessageBySourceID(ctx context.Context, sourceID string) (*models.Message, error)
	CreateMessage(ctx context.Context, msg *models.Message) error
	SaveMessage(ctx context.Context, msg *models.Message) error

	// FindContactInbox returns the identity for (inbox, provider address)
	// with its contact preloaded, or (nil, nil) when none exists.
	FindContactInbox(ctx context.Context, inboxID int, sourceID string) (*models.ContactInbox, error)
	CreateContactWithInbox(ctx context.Context, contact *models.Contact, inboxID int, sourceID string) (*models.ContactInbox, error)

	// LatestConversation returns the most recently created conversation for
	// a contact-inbox identity, or (nil, nil) when it has none.
	LatestConversation(ctx context.Context, contactInboxID uint) (*models.Conversation, error)
	CreateConversation(ctx context.Context, conv *models.Conversation) error
}

// MediaFetcher resolves provider media ids to signed URLs and downloads the
// binary content behind them.
type MediaFetcher interface {
	SignedURL(ctx context.Context, ch *channel.Channel, mediaID string) (string, error)
	Download(ctx context.Context, ch *channel.Channel, signedURL string) ([]byte, string, error)
}

// BlobStore offloads attachment binaries to external object storage. A
// disabled store keeps binaries inline on the attachment record.
type BlobStore interface {
	Enabled() bool
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// Publisher emits ingestion events for downstream consumers. Implementations
// must tolerate being disabled (publishing becomes a no-op).
type Publisher interface {
	MessageCreated(ctx context.Context, msg *models.Message)
	MessageStatus(ctx context.Context, msg *models.Message, status string)
}
