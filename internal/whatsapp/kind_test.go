package whatsapp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindFromTypeTag(t *testing.T) {
	assert.Equal(t, KindText, (&Message{Type: "text"}).Kind())
	assert.Equal(t, KindSticker, (&Message{Type: "sticker"}).Kind())
	assert.Equal(t, KindUnknown, (&Message{Type: "reaction"}).Kind())
	assert.Equal(t, KindUnknown, (&Message{Type: "ephemeral"}).Kind())
	assert.Equal(t, KindUnknown, (&Message{Type: ""}).Kind())
}

func TestKindProcessable(t *testing.T) {
	assert.True(t, KindText.Processable())
	assert.True(t, KindDocument.Processable())
	assert.False(t, KindUnknown.Processable())
}

func TestKindRequiresDownload(t *testing.T) {
	for _, k := range []Kind{KindImage, KindVideo, KindAudio, KindDocument, KindSticker} {
		assert.True(t, k.RequiresDownload(), string(k))
	}
	for _, k := range []Kind{KindText, KindButton, KindInteractive, KindLocation, KindContacts} {
		assert.False(t, k.RequiresDownload(), string(k))
	}
}

func TestMessageContent(t *testing.T) {
	assert.Equal(t, "hi", (&Message{Text: &Text{Body: "hi"}}).Content())
	assert.Equal(t, "Yes", (&Message{Button: &Button{Text: "Yes", Payload: "confirm"}}).Content())
	assert.Equal(t, "Option A", (&Message{Interactive: &Interactive{ButtonReply: &Reply{Title: "Option A"}}}).Content())
	assert.Equal(t, "Row 2", (&Message{Interactive: &Interactive{ListReply: &Reply{Title: "Row 2"}}}).Content())
	assert.Equal(t, "", (&Message{Location: &Location{Latitude: 1}}).Content())
}

func TestMediaPayload(t *testing.T) {
	img := &Media{ID: "m1"}
	assert.Equal(t, img, (&Message{Type: "image", Image: img}).MediaPayload())

	doc := &Media{ID: "m2"}
	assert.Equal(t, doc, (&Message{Type: "document", Document: doc}).MediaPayload())

	assert.Nil(t, (&Message{Type: "text", Text: &Text{Body: "x"}}).MediaPayload())
}
