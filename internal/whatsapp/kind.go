package whatsapp

// Kind is the closed set of content kinds this pipeline understands. Provider
// type tags outside this set (reaction, ephemeral, unsupported, future kinds)
// map to KindUnknown and are skipped rather than rejected.
type Kind string

const (
	KindText        Kind = "text"
	KindButton      Kind = "button"
	KindInteractive Kind = "interactive"
	KindLocation    Kind = "location"
	KindContacts    Kind = "contacts"
	KindImage       Kind = "image"
	KindVideo       Kind = "video"
	KindAudio       Kind = "audio"
	KindDocument    Kind = "document"
	KindSticker     Kind = "sticker"
	KindUnknown     Kind = "unknown"
)

// Kind derives the content kind from the message's declared type tag.
func (m *Message) Kind() Kind {
	switch Kind(m.Type) {
	case KindText, KindButton, KindInteractive, KindLocation, KindContacts,
		KindImage, KindVideo, KindAudio, KindDocument, KindSticker:
		return Kind(m.Type)
	default:
		return KindUnknown
	}
}

// Processable reports whether the kind can be materialized as a message record.
func (k Kind) Processable() bool {
	return k != KindUnknown
}

// RequiresDownload reports whether the kind references binary media that must
// be fetched from the provider. Text, button, interactive, location and
// contact-card content is structural and carries no media id.
func (k Kind) RequiresDownload() bool {
	switch k {
	case KindImage, KindVideo, KindAudio, KindDocument, KindSticker:
		return true
	default:
		return false
	}
}

// DeclaredFileType returns the generic attachment file type for the kind
// before any refinement. Documents start out as the generic "file" type and
// are refined from the download URL's extension afterwards; stickers are
// stored as images.
func (k Kind) DeclaredFileType() string {
	switch k {
	case KindDocument:
		return "file"
	case KindSticker:
		return "image"
	default:
		return string(k)
	}
}

// MediaPayload returns the kind-specific media descriptor, or nil for
// structural kinds.
func (m *Message) MediaPayload() *Media {
	switch m.Kind() {
	case KindImage:
		return m.Image
	case KindVideo:
		return m.Video
	case KindAudio:
		return m.Audio
	case KindDocument:
		return m.Document
	case KindSticker:
		return m.Sticker
	default:
		return nil
	}
}

// Content extracts the textual content carried by the message body itself:
// the text body, the pressed button's label, or the selected interactive
// reply's title. Media captions are applied by the attachment step, and
// location/contact-card messages have no body text.
func (m *Message) Content() string {
	switch {
	case m.Text != nil:
		return m.Text.Body
	case m.Button != nil:
		return m.Button.Text
	case m.Interactive != nil && m.Interactive.ButtonReply != nil:
		return m.Interactive.ButtonReply.Title
	case m.Interactive != nil && m.Interactive.ListReply != nil:
		return m.Interactive.ListReply.Title
	default:
		return ""
	}
}
