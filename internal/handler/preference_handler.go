package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/emirhanunsal/MovieSuggest/internal/service"
)

type PreferenceHandler struct {
	svc *service.PreferenceService
}

func NewPreferenceHandler(s *service.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{svc: s}
}

type preferenceUpdateRequest struct {
	Genres []string `json:"genres"`
	Movies []string `json:"movies"`
}

// @Summary Preferencias del usuario autenticado
// @Tags preferences
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.PreferenceSet
// @Failure 404 {object} errorResponse
// @Router /me/preferences [get]
func (h *PreferenceHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())

	p, err := h.svc.Get(r.Context(), userID)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// @Summary Reemplazar preferencias (solo los campos provistos)
// @Tags preferences
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body preferenceUpdateRequest true "campos a pisar"
// @Success 200 {object} map[string]any
// @Failure 400 {object} errorResponse
// @Router /me/preferences [put]
func (h *PreferenceHandler) Replace(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.svc.Replace)
}

// @Summary Agregar a las preferencias (unión de conjuntos)
// @Tags preferences
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body preferenceUpdateRequest true "valores a agregar"
// @Success 200 {object} map[string]any
// @Failure 400 {object} errorResponse
// @Router /me/preferences/add [patch]
func (h *PreferenceHandler) Add(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.svc.Add)
}

// @Summary Quitar de las preferencias (diferencia de conjuntos)
// @Tags preferences
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body preferenceUpdateRequest true "valores a quitar"
// @Success 200 {object} map[string]any
// @Failure 400 {object} errorResponse
// @Router /me/preferences/remove [patch]
func (h *PreferenceHandler) Remove(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.svc.Remove)
}

// mutate comparte el decode + respuesta de las tres mutaciones.
func (h *PreferenceHandler) mutate(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, userID string, genres, movies []string) error,
) {
	userID := UserIDFromContext(r.Context())

	var req preferenceUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := op(r.Context(), userID, req.Genres, req.Movies); err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"updated": true})
}
