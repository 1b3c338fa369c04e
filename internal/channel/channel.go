// Package channel models the WhatsApp channel this service ingests for: its
// routing number, media API endpoint and credentials, and the channel-level
// authorization-failure flag raised when the provider rejects those credentials.
package channel

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog/log"
)

// Provider variants. The web variant is the self-hosted bridge; it reports
// generic "image" media that is surfaced as photos downstream.
const (
	ProviderCloud = "whatsapp_cloud"
	ProviderWeb   = "whatsapp_web"
)

// Channel describes the WhatsApp number the webhook endpoint serves.
type Channel struct {
	InboxID      int
	PhoneNumber  string // routing number, with or without a leading "+"
	APIKey       string
	MediaBaseURL string // e.g. "https://graph.facebook.com"
	APIVersion   string
	Provider     string
	Locale       string

	authError atomic.Bool
}

// New creates a channel descriptor.
func New(inboxID int, phoneNumber, apiKey, mediaBaseURL, apiVersion, provider, localeName string) *Channel {
	if provider == "" {
		provider = ProviderCloud
	}
	return &Channel{
		InboxID:      inboxID,
		PhoneNumber:  phoneNumber,
		APIKey:       apiKey,
		MediaBaseURL: strings.TrimRight(mediaBaseURL, "/"),
		APIVersion:   apiVersion,
		Provider:     provider,
		Locale:       localeName,
	}
}

// RoutingNumber returns the channel's own number without the "+" prefix,
// the form the provider uses in webhook "from" fields.
func (c *Channel) RoutingNumber() string {
	return strings.TrimPrefix(c.PhoneNumber, "+")
}

// APIHeaders returns the auth headers required by the provider's media API.
func (c *Channel) APIHeaders() map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + c.APIKey,
	}
}

// MediaURL builds the media-lookup endpoint for a provider media id.
func (c *Channel) MediaURL(mediaID string) string {
	return fmt.Sprintf("%s/%s/%s", c.MediaBaseURL, c.APIVersion, mediaID)
}

// AuthorizationError records that the provider rejected the channel's
// credentials. This is a channel-level condition, not a per-message one:
// ingestion of the message that triggered it continues without its media.
func (c *Channel) AuthorizationError(err error) {
	c.authError.Store(true)
	log.Error().Err(err).
		Int("inboxID", c.InboxID).
		Str("phoneNumber", c.PhoneNumber).
		Msg("Provider rejected channel credentials, channel flagged for reauthorization")
}

// AuthorizationFailed reports whether a credential rejection has been recorded.
func (c *Channel) AuthorizationFailed() bool {
	return c.authError.Load()
}
