package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/territoriodigital/congregacao/internal/model"
	"github.com/territoriodigital/congregacao/internal/store"
)

// ListTerritories devolve todos os territórios.
func (h *Handler) ListTerritories(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.store.Territories())
}

// GetTerritory devolve um território pelo id.
func (h *Handler) GetTerritory(w http.ResponseWriter, r *http.Request) {
	id, ok := territoryID(w, r)
	if !ok {
		return
	}

	territory, found := h.store.Territory(id)
	if !found {
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "território não encontrado", nil)
		return
	}
	WriteJSON(w, http.StatusOK, territory)
}

type statusRequest struct {
	Status string `json:"status"`
}

// UpdateTerritoryStatus aplica a transição pedida em nome do usuário da
// sessão. Sem sessão ativa o Store ignora a chamada em silêncio e o território
// volta inalterado na resposta — contrato herdado do aplicativo original.
// "Returned" é aceito como sinônimo de devolução e normalizado para Available.
func (h *Handler) UpdateTerritoryStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := territoryID(w, r)
	if !ok {
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "corpo inválido", nil)
		return
	}

	var status model.TerritoryStatus
	switch strings.TrimSpace(req.Status) {
	case string(model.StatusOccupied):
		status = model.StatusOccupied
	case string(model.StatusAvailable), "Returned":
		status = model.StatusAvailable
	default:
		WriteError(w, http.StatusBadRequest, "VALIDATION", "status desconhecido", nil)
		return
	}

	if _, found := h.store.Territory(id); !found {
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "território não encontrado", nil)
		return
	}

	h.store.UpdateTerritoryStatus(id, status)

	territory, _ := h.store.Territory(id)
	WriteJSON(w, http.StatusOK, territory)
}

type observationRequest struct {
	Text string `json:"text"`
}

// UpdateObservation substitui as observações do território.
func (h *Handler) UpdateObservation(w http.ResponseWriter, r *http.Request) {
	id, ok := territoryID(w, r)
	if !ok {
		return
	}

	var req observationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "corpo inválido", nil)
		return
	}

	if _, found := h.store.Territory(id); !found {
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "território não encontrado", nil)
		return
	}

	h.store.UpdateObservation(id, req.Text)

	territory, _ := h.store.Territory(id)
	WriteJSON(w, http.StatusOK, territory)
}

// UpdateTerritoryConfig aplica atualização parcial de imagem, link de mapa ou
// desenho. Campos ausentes do corpo não são tocados.
func (h *Handler) UpdateTerritoryConfig(w http.ResponseWriter, r *http.Request) {
	id, ok := territoryID(w, r)
	if !ok {
		return
	}

	var upd store.ConfigUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "corpo inválido", nil)
		return
	}

	if _, found := h.store.Territory(id); !found {
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "território não encontrado", nil)
		return
	}

	h.store.UpdateTerritoryConfig(id, upd)

	territory, _ := h.store.Territory(id)
	WriteJSON(w, http.StatusOK, territory)
}

// ListHistory devolve o histórico de movimentações, mais recente primeiro.
func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.store.History())
}

func territoryID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return 0, false
	}
	return id, true
}
