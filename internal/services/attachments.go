package services

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/rs/zerolog/log"

	"wacloud-ingest/internal/channel"
	"wacloud-ingest/internal/models"
	"wacloud-ingest/internal/whatsapp"
)

// AttachmentResolver turns media descriptors into attachment records: it
// fetches the binary content through the provider's media API and decides the
// semantic file type from the declared kind and the download URL.
type AttachmentResolver struct {
	media MediaFetcher
	blobs BlobStore
}

// NewAttachmentResolver creates a resolver over a media fetcher and an
// optional blob store.
func NewAttachmentResolver(media MediaFetcher, blobs BlobStore) *AttachmentResolver {
	return &AttachmentResolver{media: media, blobs: blobs}
}

// Resolve downloads the message's media and builds its attachment. A media
// payload whose download comes back empty yields (nil, nil): the message is
// still created, just without the attachment. Authorization rejections
// propagate as whatsapp.ErrAuthorization for channel-level handling.
func (r *AttachmentResolver) Resolve(ctx context.Context, ch *channel.Channel, msg *whatsapp.Message) (*models.Attachment, error) {
	media := msg.MediaPayload()
	if media == nil {
		return nil, nil
	}

	signedURL, err := r.media.SignedURL(ctx, ch, media.ID)
	if err != nil {
		return nil, err
	}
	data, contentType, err := r.media.Download(ctx, ch, signedURL)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		log.Warn().Str("mediaID", media.ID).Msg("Media download returned no content, skipping attachment")
		return nil, nil
	}
	if contentType == "" {
		contentType = media.MimeType
	}

	att := &models.Attachment{
		FileType:    semanticFileType(msg.Kind(), signedURL, ch.Provider),
		FileName:    media.Filename,
		ContentType: contentType,
	}
	if r.blobs != nil && r.blobs.Enabled() {
		key := fmt.Sprintf("attachments/%s/%s", media.ID, path.Base(fileNameOrID(media)))
		externalURL, err := r.blobs.Upload(ctx, key, data, contentType)
		if err != nil {
			return nil, fmt.Errorf("upload attachment %s: %w", media.ID, err)
		}
		att.ExternalURL = externalURL
	} else {
		att.Data = data
	}
	return att, nil
}

func fileNameOrID(media *whatsapp.Media) string {
	if media.Filename != "" {
		return media.Filename
	}
	return media.ID
}

// semanticFileType maps the declared content kind to the attachment's file
// type. Generic images become photos only on the web provider variant, and
// generic files are refined by the extension of the signed download URL.
func semanticFileType(kind whatsapp.Kind, signedURL, provider string) string {
	fileType := kind.DeclaredFileType()
	if fileType == "image" && provider == channel.ProviderWeb {
		return "photo"
	}
	if fileType != "file" {
		return fileType
	}

	switch downloadExtension(signedURL) {
	case "pdf", "doc", "docx", "xls", "xlsx", "ppt", "pptx", "odt", "csv", "txt":
		return "document"
	case "mov", "mp4":
		return "video"
	case "ogg", "mp3", "wav":
		return "audio"
	default:
		return fileType
	}
}

func downloadExtension(signedURL string) string {
	u, err := url.Parse(signedURL)
	if err != nil {
		return ""
	}
	ext := path.Ext(u.Path)
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// locationAttachment embeds shared coordinates directly as a geo attachment.
// The title is only rendered when the place has a name.
func locationAttachment(loc *whatsapp.Location) *models.Attachment {
	title := ""
	if loc.Name != "" {
		title = fmt.Sprintf("%s, %s", loc.Name, loc.Address)
	}
	return &models.Attachment{
		FileType:       "location",
		CoordinatesLat: loc.Latitude,
		CoordinatesLon: loc.Longitude,
		FallbackTitle:  title,
		ExternalURL:    loc.URL,
	}
}

// contactCardAttachments renders one shared contact card: one attachment per
// phone number, or a single placeholder when the card carries none.
func contactCardAttachments(card *whatsapp.ContactCard) []models.Attachment {
	if len(card.Phones) == 0 {
		return []models.Attachment{{
			FileType:      "contact",
			FallbackTitle: "Phone number is not available",
		}}
	}
	atts := make([]models.Attachment, 0, len(card.Phones))
	for _, phone := range card.Phones {
		atts = append(atts, models.Attachment{
			FileType:      "contact",
			FallbackTitle: phone.Phone,
		})
	}
	return atts
}
