package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeletedMessage(t *testing.T) {
	assert.Equal(t, "This message was deleted", DeletedMessage("en"))
	assert.Equal(t, "Esta mensagem foi apagada", DeletedMessage("pt_BR"))
	assert.Equal(t, "Este mensaje fue eliminado", DeletedMessage("es"))
}

func TestDeletedMessageFallback(t *testing.T) {
	assert.Equal(t, "This message was deleted", DeletedMessage(""))
	assert.Equal(t, "This message was deleted", DeletedMessage("fr"))
	assert.Equal(t, "This message was deleted", DeletedMessage(" en "))
}
