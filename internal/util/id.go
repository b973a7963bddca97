package util

import (
	"strings"

	"github.com/google/uuid"
)

// NewID gera um identificador único para registros de histórico.
func NewID() string {
	return uuid.NewString()
}

// UserIDFromEmail deriva um id estável a partir do e-mail, removendo tudo que
// não for alfanumérico. Dois e-mails distintos podem colidir no mesmo id —
// comportamento herdado e mantido de propósito.
func UserIDFromEmail(email string) string {
	var b strings.Builder
	for _, r := range email {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Slugify normaliza um nome para uso em nomes de arquivo: minúsculas e
// espaços substituídos por hífen.
func Slugify(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), "-"))
}
