package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	httpmiddleware "github.com/territoriodigital/congregacao/internal/http/middleware"
	"github.com/territoriodigital/congregacao/internal/model"
)

type loginRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
	Invite  string `json:"invite"`
}

type loginResponse struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// Login inicia a sessão. Não há verificação de credencial: o fluxo é o mesmo
// stub do aplicativo original. Quem chega por convite entra como publicador,
// nunca como administrador.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "corpo inválido", nil)
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "nome e e-mail são obrigatórios", nil)
		return
	}

	isAdmin := req.IsAdmin
	if strings.TrimSpace(req.Invite) != "" {
		isAdmin = false
	}

	user := h.store.Login(req.Name, req.Email, isAdmin)

	token, err := h.jwt.GenerateAccessToken(user.ID, user.Name, string(user.Role))
	if err != nil {
		log.Error().Err(err).Msg("falha ao gerar token de acesso")
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "erro interno", nil)
		return
	}

	WriteJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}

// Logout encerra a sessão atual. Usuários, territórios e histórico ficam.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.store.Logout()
	WriteJSON(w, http.StatusOK, nil)
}

// Me devolve o usuário da sessão.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := h.store.CurrentUser()
	if !ok || user.ID != httpmiddleware.GetSubject(r.Context()) {
		WriteError(w, http.StatusUnauthorized, "AUTH", "sessão encerrada", nil)
		return
	}
	WriteJSON(w, http.StatusOK, user)
}

type updateMeRequest struct {
	Name string `json:"name"`
}

// UpdateMe renomeia o usuário da sessão, refletindo na lista da congregação.
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req updateMeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "corpo inválido", nil)
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "nome é obrigatório", nil)
		return
	}

	user, ok := h.store.CurrentUser()
	if !ok || user.ID != httpmiddleware.GetSubject(r.Context()) {
		WriteError(w, http.StatusUnauthorized, "AUTH", "sessão encerrada", nil)
		return
	}

	h.store.UpdateUser(req.Name)

	user, _ = h.store.CurrentUser()
	WriteJSON(w, http.StatusOK, user)
}
