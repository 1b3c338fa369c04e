// Package services holds the ingestion pipeline: classification, contact and
// conversation resolution, attachment fetching, and status merging for
// inbound WhatsApp Cloud webhook deliveries.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"wacloud-ingest/internal/channel"
	"wacloud-ingest/internal/models"
	"wacloud-ingest/internal/whatsapp"
)

// IngestService is the entry point for one webhook delivery. It routes the
// envelope to the status flow or the new-message flow and enforces the
// source id dedup invariant.
type IngestService struct {
	store    Store
	ch       *channel.Channel
	contacts *ContactResolver
	atts     *AttachmentResolver
	statuses *StatusService
	events   Publisher
}

// NewIngestService wires the pipeline for one channel.
func NewIngestService(store Store, ch *channel.Channel, media MediaFetcher, blobs BlobStore, events Publisher) *IngestService {
	return &IngestService{
		store:    store,
		ch:       ch,
		contacts: NewContactResolver(store, ch.InboxID),
		atts:     NewAttachmentResolver(media, blobs),
		statuses: NewStatusService(store, ch, events),
		events:   events,
	}
}

// Ingest processes one webhook delivery. Deliveries carrying neither a
// status nor a message are acknowledged as no-ops.
func (s *IngestService) Ingest(ctx context.Context, env *whatsapp.Envelope) error {
	switch {
	case env.HasStatus():
		return s.statuses.Apply(ctx, env.Status)
	case env.HasMessage():
		return s.ingestMessage(ctx, env)
	default:
		log.Debug().Msg("Webhook delivery carried no status or message, ignoring")
		return nil
	}
}

func (s *IngestService) ingestMessage(ctx context.Context, env *whatsapp.Envelope) error {
	sourceID := env.Message.ID

	existing, err := s.store.FindMessageBySourceID(ctx, sourceID)
	if err != nil {
		return fmt.Errorf("dedup lookup for %s: %w", sourceID, err)
	}
	if existing != nil {
		log.Debug().Str("sourceID", sourceID).Msg("Message already ingested, skipping redelivery")
		return nil
	}

	// Without a contact descriptor the message cannot be attributed.
	if env.Contact == nil {
		log.Debug().Str("sourceID", sourceID).Msg("Message without contact descriptor, dropping")
		return nil
	}

	messageType := classifyMessageType(env, s.ch)

	resolved, err := s.contacts.Resolve(ctx, env, messageType)
	if err != nil {
		return err
	}

	// The sender's contact and conversation are registered even when the
	// content itself cannot be materialized (reactions, ephemeral kinds).
	kind := env.Message.Kind()
	if !kind.Processable() {
		log.Debug().
			Str("sourceID", sourceID).
			Str("type", env.Message.Type).
			Msg("Unsupported message type, dropping")
		return nil
	}

	msg := &models.Message{
		SourceID:       sourceID,
		MessageType:    messageType,
		InboxID:        s.ch.InboxID,
		ConversationID: resolved.Conversation.ID,
		Content:        s.messageContent(env, resolved),
		Status:         models.StatusSent,
	}
	if resolved.Sender != nil {
		msg.SenderID = &resolved.Sender.ID
		msg.Sender = resolved.Sender
	}

	switch {
	case kind == whatsapp.KindContacts:
		for i := range env.Message.Contacts {
			msg.Attachments = append(msg.Attachments, contactCardAttachments(&env.Message.Contacts[i])...)
		}
	case kind == whatsapp.KindLocation:
		if env.Message.Location != nil {
			msg.Attachments = append(msg.Attachments, *locationAttachment(env.Message.Location))
		}
	case kind.RequiresDownload():
		if msg.Content == "" {
			if media := env.Message.MediaPayload(); media != nil {
				msg.Content = media.Caption
			}
		}
		att, err := s.atts.Resolve(ctx, s.ch, env.Message)
		switch {
		case errors.Is(err, whatsapp.ErrAuthorization):
			// Channel-level credential failure. The message is still
			// worth keeping, just without its media.
			s.ch.AuthorizationError(err)
		case err != nil:
			log.Warn().Err(err).Str("sourceID", sourceID).Msg("Attachment fetch failed, creating message without it")
		case att != nil:
			msg.Attachments = append(msg.Attachments, *att)
		}
	}

	err = s.store.WithTransaction(ctx, func(tx Store) error {
		return tx.CreateMessage(ctx, msg)
	})
	if err != nil {
		return fmt.Errorf("create message %s: %w", sourceID, err)
	}

	log.Info().
		Str("sourceID", sourceID).
		Str("messageType", messageType).
		Str("kind", string(kind)).
		Uint("conversationID", msg.ConversationID).
		Int("attachments", len(msg.Attachments)).
		Msg("Ingested message")
	if s.events != nil {
		s.events.MessageCreated(ctx, msg)
	}
	return nil
}

// messageContent derives the stored body. Group messages that were not sent
// by the business number carry the author's bolded name as a prefix.
func (s *IngestService) messageContent(env *whatsapp.Envelope, resolved *ResolvedContact) string {
	content := env.Message.Content()
	if env.IsGroupMessage() && resolved.Sender != nil {
		return fmt.Sprintf("*%s*: %s", resolved.Sender.Name, content)
	}
	return content
}
