// Package locale resolves the user-facing strings the pipeline writes into
// message records, keyed by the channel's configured locale.
package locale

import "strings"

var deletedMessage = map[string]string{
	"en":    "This message was deleted",
	"pt_BR": "Esta mensagem foi apagada",
	"es":    "Este mensaje fue eliminado",
}

// DeletedMessage returns the placeholder content stored when the provider
// reports a message as remotely deleted. Unknown locales fall back to English.
func DeletedMessage(lang string) string {
	if msg, ok := deletedMessage[strings.TrimSpace(lang)]; ok {
		return msg
	}
	return deletedMessage["en"]
}
