package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"wacloud-ingest/internal/whatsapp"
)

// Ingestor is the pipeline entry point the handler hands envelopes to.
type Ingestor interface {
	Ingest(ctx context.Context, env *whatsapp.Envelope) error
}

// WebhookHandler receives WhatsApp Cloud webhook deliveries.
type WebhookHandler struct {
	ingestor Ingestor
}

// NewWebhookHandler creates a handler over the ingestion pipeline.
func NewWebhookHandler(ingestor Ingestor) *WebhookHandler {
	if ingestor == nil {
		log.Fatal().Msg("Ingestor cannot be nil for WebhookHandler")
	}
	return &WebhookHandler{ingestor: ingestor}
}

// Handle processes one webhook delivery. Malformed payloads are acknowledged
// with 200 so the provider does not retry them forever; only internal
// failures (which a retry can fix) return an error status.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read webhook request body")
		http.Error(w, "Failed to read request body", http.StatusInternalServerError)
		return
	}

	env, err := whatsapp.ParsePayload(body)
	if err != nil {
		log.Debug().Err(err).Msg("Discarding undecodable webhook payload")
		w.WriteHeader(http.StatusOK)
		return
	}

	if err := h.ingestor.Ingest(r.Context(), env); err != nil {
		log.Error().Err(err).Msg("Webhook ingestion failed")
		http.Error(w, "Ingestion failed", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}
