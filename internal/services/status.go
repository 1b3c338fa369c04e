package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"wacloud-ingest/internal/channel"
	"wacloud-ingest/internal/locale"
	"wacloud-ingest/internal/models"
	"wacloud-ingest/internal/whatsapp"
)

// StatusService merges delivery-status events into previously ingested
// messages. A failed delivery additionally synthesizes a visible activity
// record in the conversation; a remote deletion swaps the content for a
// localized placeholder.
type StatusService struct {
	store  Store
	ch     *channel.Channel
	events Publisher
}

// NewStatusService creates a status handler for one channel.
func NewStatusService(store Store, ch *channel.Channel, events Publisher) *StatusService {
	return &StatusService{store: store, ch: ch, events: events}
}

// Apply merges one status event. Events referencing a source id this channel
// never ingested are dropped, as are events carrying a status value outside
// the known set; neither case is an error. The message mutation and the
// failure-notice insert commit atomically.
func (s *StatusService) Apply(ctx context.Context, state *whatsapp.Status) error {
	msg, err := s.store.FindMessageBySourceID(ctx, state.ID)
	if err != nil {
		return fmt.Errorf("status lookup for %s: %w", state.ID, err)
	}
	if msg == nil {
		log.Debug().Str("sourceID", state.ID).Str("status", state.Status).Msg("Status update for unknown message, dropping")
		return nil
	}
	if !knownStatus(state.Status) {
		log.Error().Str("sourceID", state.ID).Str("status", state.Status).Msg("Unknown status value in webhook, dropping")
		return nil
	}

	err = s.store.WithTransaction(ctx, func(tx Store) error {
		if err := s.createFailureNotice(ctx, tx, msg, state); err != nil {
			return err
		}

		if state.Status == "deleted" {
			msg.Content = locale.DeletedMessage(s.ch.Locale)
			msg.ContentDeleted = true
		} else {
			msg.Status = state.Status
		}
		return tx.SaveMessage(ctx, msg)
	})
	if err != nil {
		return fmt.Errorf("apply status %s to %s: %w", state.Status, state.ID, err)
	}

	log.Info().Str("sourceID", state.ID).Str("status", state.Status).Msg("Applied status update")
	if s.events != nil {
		s.events.MessageStatus(ctx, msg, state.Status)
	}
	return nil
}

// createFailureNotice records the delivery failure on the message and adds a
// sibling activity message narrating it. The activity record reuses the
// failed message's source id; the dedup lookup ignores activity records, so
// this does not collide with the original. ExternalError commits in the same
// transaction as the notice, so a non-empty value means the notice already
// exists and a redelivered failed status must not insert a second one.
func (s *StatusService) createFailureNotice(ctx context.Context, tx Store, msg *models.Message, state *whatsapp.Status) error {
	if state.Status != models.StatusFailed || len(state.Errors) == 0 {
		return nil
	}
	if msg.ExternalError != "" {
		return nil
	}

	first := state.Errors[0]
	text := fmt.Sprintf("%s: %s", first.Code.String(), first.Title)
	msg.ExternalError = text

	notice := &models.Message{
		SourceID:       msg.SourceID,
		MessageType:    models.MessageTypeActivity,
		InboxID:        s.ch.InboxID,
		ConversationID: msg.ConversationID,
		SenderID:       msg.SenderID,
		Content:        text,
		Status:         models.StatusSent,
	}
	return tx.CreateMessage(ctx, notice)
}

func knownStatus(status string) bool {
	switch status {
	case models.StatusPending, models.StatusSent, models.StatusDelivered,
		models.StatusRead, models.StatusFailed, "deleted":
		return true
	}
	return false
}
