package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// ListUsers devolve os usuários conhecidos pela congregação.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.store.Users())
}

// RemoveUser exclui um usuário da congregação. Remover a si mesmo é um no-op
// silencioso no Store; a resposta devolve a lista resultante em ambos os
// casos.
func (h *Handler) RemoveUser(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return
	}

	h.store.RemoveUser(id)
	WriteJSON(w, http.StatusOK, h.store.Users())
}

// GetCongregation devolve as configurações da congregação.
func (h *Handler) GetCongregation(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.store.Congregation())
}

type congregationRequest struct {
	Name           string `json:"name"`
	TerritoryCount int    `json:"territoryCount"`
}

// UpdateCongregation renomeia a congregação e redimensiona os territórios.
// Encolher trunca do fim e descarta os dados sem confirmação — comportamento
// herdado do aplicativo original.
func (h *Handler) UpdateCongregation(w http.ResponseWriter, r *http.Request) {
	var req congregationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "corpo inválido", nil)
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "nome é obrigatório", nil)
		return
	}
	if req.TerritoryCount < 0 {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "quantidade de territórios inválida", nil)
		return
	}

	h.store.UpdateCongregationSettings(req.Name, req.TerritoryCount)
	WriteJSON(w, http.StatusOK, h.store.Congregation())
}

// GetInvite devolve o link de convite e a URL da imagem QR correspondente.
func (h *Handler) GetInvite(w http.ResponseWriter, r *http.Request) {
	link := h.store.InviteLink()
	WriteJSON(w, http.StatusOK, map[string]string{
		"link":       link,
		"qrImageUrl": h.qr.ImageURL(link),
	})
}

// GetInviteQR busca a imagem QR do convite no serviço externo e a repassa.
func (h *Handler) GetInviteQR(w http.ResponseWriter, r *http.Request) {
	img, contentType, err := h.qr.Fetch(r.Context(), h.store.InviteLink())
	if err != nil {
		log.Warn().Err(err).Msg("falha ao buscar QR code do convite")
		WriteError(w, http.StatusBadGateway, "QR_UNAVAILABLE", "não foi possível gerar o QR code", nil)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img)
}
