package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/territoriodigital/congregacao/internal/store"
)

const maxBackupSize = 20 << 20 // 20 MiB

// DownloadBackup exporta o estado completo como arquivo JSON.
func (h *Handler) DownloadBackup(w http.ResponseWriter, r *http.Request) {
	doc := h.store.Backup()

	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		log.Error().Err(err).Msg("falha ao serializar backup")
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "erro interno", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+h.store.BackupFilename()+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// RestoreBackup sobrescreve o estado com o documento enviado no corpo. JSON
// malformado é rejeitado por inteiro: nenhuma mutação parcial acontece.
func (h *Handler) RestoreBackup(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBackupSize))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "não foi possível ler o arquivo", nil)
		return
	}

	if err := h.store.Restore(body); err != nil {
		if errors.Is(err, store.ErrInvalidBackup) {
			WriteError(w, http.StatusBadRequest, "INVALID_BACKUP", "arquivo de backup inválido", nil)
			return
		}
		log.Error().Err(err).Msg("falha ao restaurar backup")
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "erro interno", nil)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"restored": true})
}
