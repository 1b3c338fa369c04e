package services

import (
	"context"
	"fmt"

	"wacloud-ingest/internal/models"
	"wacloud-ingest/internal/whatsapp"
)

// ResolvedContact is the durable context a message is attributed to.
type ResolvedContact struct {
	Contact      *models.Contact
	ContactInbox *models.ContactInbox
	// Sender is the contact shown on the message. For group traffic it is
	// the individual author, not the group; for outgoing messages it is nil.
	Sender       *models.Contact
	Conversation *models.Conversation
}

// ContactResolver maps webhook sender identities to contacts, inbox
// identities and conversations.
type ContactResolver struct {
	store   Store
	inboxID int
}

// NewContactResolver creates a resolver bound to one inbox.
func NewContactResolver(store Store, inboxID int) *ContactResolver {
	return &ContactResolver{store: store, inboxID: inboxID}
}

// Resolve finds or creates the contact context for an envelope. Group
// payloads key the conversation on the group id while still resolving the
// individual author as the message sender.
func (r *ContactResolver) Resolve(ctx context.Context, env *whatsapp.Envelope, messageType string) (*ResolvedContact, error) {
	individual, err := r.resolveIndividual(ctx, env)
	if err != nil {
		return nil, err
	}

	owner := individual
	if env.IsGroupMessage() {
		owner, err = r.resolveGroup(ctx, env)
		if err != nil {
			return nil, err
		}
	}

	conv, err := r.resolveConversation(ctx, owner.ContactInbox)
	if err != nil {
		return nil, err
	}

	resolved := &ResolvedContact{
		Contact:      &owner.ContactInbox.Contact,
		ContactInbox: owner.ContactInbox,
		Conversation: conv,
	}
	if messageType != models.MessageTypeOutgoing {
		resolved.Sender = &individual.ContactInbox.Contact
	}
	return resolved, nil
}

type resolvedIdentity struct {
	ContactInbox *models.ContactInbox
}

func (r *ContactResolver) resolveIndividual(ctx context.Context, env *whatsapp.Envelope) (*resolvedIdentity, error) {
	waID := env.Contact.WaID
	ci, err := r.store.FindContactInbox(ctx, r.inboxID, waID)
	if err != nil {
		return nil, fmt.Errorf("resolve contact %s: %w", waID, err)
	}
	if ci != nil {
		return &resolvedIdentity{ContactInbox: ci}, nil
	}

	name := env.Contact.Profile.Name
	if name == "" {
		name = waID
	}
	contact := &models.Contact{
		Name:        name,
		PhoneNumber: "+" + env.Message.From,
	}
	ci, err = r.store.CreateContactWithInbox(ctx, contact, r.inboxID, waID)
	if err != nil {
		return nil, fmt.Errorf("create contact %s: %w", waID, err)
	}
	return &resolvedIdentity{ContactInbox: ci}, nil
}

func (r *ContactResolver) resolveGroup(ctx context.Context, env *whatsapp.Envelope) (*resolvedIdentity, error) {
	groupID := env.Contact.GroupID
	ci, err := r.store.FindContactInbox(ctx, r.inboxID, groupID)
	if err != nil {
		return nil, fmt.Errorf("resolve group %s: %w", groupID, err)
	}
	if ci != nil {
		return &resolvedIdentity{ContactInbox: ci}, nil
	}

	name := env.Contact.GroupSubject
	if name == "" {
		name = groupID
	}
	contact := &models.Contact{
		Name:      name,
		Email:     groupID,
		AvatarURL: env.Contact.GroupPicture,
	}
	ci, err = r.store.CreateContactWithInbox(ctx, contact, r.inboxID, groupID)
	if err != nil {
		return nil, fmt.Errorf("create group %s: %w", groupID, err)
	}
	return &resolvedIdentity{ContactInbox: ci}, nil
}

func (r *ContactResolver) resolveConversation(ctx context.Context, ci *models.ContactInbox) (*models.Conversation, error) {
	conv, err := r.store.LatestConversation(ctx, ci.ID)
	if err != nil {
		return nil, fmt.Errorf("resolve conversation for identity %d: %w", ci.ID, err)
	}
	if conv != nil {
		return conv, nil
	}

	conv = &models.Conversation{
		InboxID:        r.inboxID,
		ContactID:      ci.ContactID,
		ContactInboxID: ci.ID,
		Status:         "open",
	}
	if err := r.store.CreateConversation(ctx, conv); err != nil {
		return nil, fmt.Errorf("create conversation for identity %d: %w", ci.ID, err)
	}
	return conv, nil
}
