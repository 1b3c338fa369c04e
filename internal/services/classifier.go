package services

import (
	"wacloud-ingest/internal/channel"
	"wacloud-ingest/internal/models"
	"wacloud-ingest/internal/whatsapp"
)

// classifyMessageType labels a webhook message by direction. Echoes of the
// business number's own sends arrive on the same webhook as customer traffic,
// so direction has to be derived from the addresses on the event itself.
// A number messaging itself (notes-to-self) is narration, not a customer
// turn; that check runs first because its addresses also satisfy the
// outgoing comparison.
func classifyMessageType(env *whatsapp.Envelope, ch *channel.Channel) string {
	display := env.DisplayNumber()
	if display == "" {
		display = ch.RoutingNumber()
	}

	if !env.IsGroupMessage() && env.Contact != nil &&
		display == env.Contact.WaID && env.Contact.WaID == env.Message.From {
		return models.MessageTypeActivity
	}
	if env.Message.From == display {
		return models.MessageTypeOutgoing
	}
	return models.MessageTypeIncoming
}
