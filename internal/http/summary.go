package http

import (
	"encoding/json"
	"net/http"
	"strings"
)

type summarizeRequest struct {
	Text string `json:"text"`
}

// SummarizeObservations envia o texto ao serviço externo de resumo e devolve
// o resultado. Falhas degradam para uma mensagem fixa; a chamada nunca
// propaga erro ao cliente.
func (h *Handler) SummarizeObservations(w http.ResponseWriter, r *http.Request) {
	var req summarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "corpo inválido", nil)
		return
	}

	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "texto é obrigatório", nil)
		return
	}

	summary := h.summarizer.Summarize(r.Context(), req.Text)
	WriteJSON(w, http.StatusOK, map[string]string{"summary": summary})
}
