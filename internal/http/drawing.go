package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/territoriodigital/congregacao/internal/drawing"
)

type openDrawingRequest struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// OpenDrawing abre (ou reabre) a superfície de desenho do território. Reabrir
// zera a superfície e restaura o desenho salvo antes de aceitar traços.
func (h *Handler) OpenDrawing(w http.ResponseWriter, r *http.Request) {
	id, ok := territoryID(w, r)
	if !ok {
		return
	}

	var req openDrawingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "corpo inválido", nil)
		return
	}

	if _, err := h.drawings.Open(id, req.Width, req.Height); err != nil {
		writeDrawingError(w, err)
		return
	}

	territory, _ := h.store.Territory(id)
	WriteJSON(w, http.StatusOK, map[string]any{
		"territoryId": id,
		"width":       req.Width,
		"height":      req.Height,
		"drawingData": territory.DrawingData,
	})
}

type strokePoint struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type strokeRequest struct {
	Points []strokePoint `json:"points"`
}

// SubmitStroke aplica um traço completo: o primeiro ponto é o toque inicial,
// os demais são amostras de movimento, e a soltura ao final persiste o bitmap
// no território. Com o território liberado, a entrada é ignorada e nada é
// salvo.
func (h *Handler) SubmitStroke(w http.ResponseWriter, r *http.Request) {
	id, ok := territoryID(w, r)
	if !ok {
		return
	}

	var req strokeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "corpo inválido", nil)
		return
	}
	if len(req.Points) == 0 {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "traço vazio", nil)
		return
	}

	surface, err := h.drawings.Surface(id)
	if err != nil {
		writeDrawingError(w, err)
		return
	}

	surface.PointerDown(req.Points[0].X, req.Points[0].Y)
	for _, p := range req.Points[1:] {
		surface.PointerMove(p.X, p.Y)
	}
	surface.PointerUp()

	territory, _ := h.store.Territory(id)
	WriteJSON(w, http.StatusOK, territory)
}

// CloseDrawing descarta a superfície aberta. Nada é salvo aqui: a
// persistência acontece a cada fim de traço.
func (h *Handler) CloseDrawing(w http.ResponseWriter, r *http.Request) {
	id, ok := territoryID(w, r)
	if !ok {
		return
	}
	h.drawings.Close(id)
	WriteJSON(w, http.StatusOK, nil)
}

// ClearDrawing apaga o desenho do território imediatamente.
func (h *Handler) ClearDrawing(w http.ResponseWriter, r *http.Request) {
	id, ok := territoryID(w, r)
	if !ok {
		return
	}

	if err := h.drawings.Clear(id); err != nil {
		writeDrawingError(w, err)
		return
	}

	territory, _ := h.store.Territory(id)
	WriteJSON(w, http.StatusOK, territory)
}

func writeDrawingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, drawing.ErrTerritoryNotFound):
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "território não encontrado", nil)
	case errors.Is(err, drawing.ErrNoSurface):
		WriteError(w, http.StatusConflict, "NO_SURFACE", "superfície de desenho não aberta", nil)
	case errors.Is(err, drawing.ErrInvalidSize):
		WriteError(w, http.StatusBadRequest, "VALIDATION", "dimensões inválidas", nil)
	default:
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "erro interno", nil)
	}
}
