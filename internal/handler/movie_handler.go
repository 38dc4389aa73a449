package handler

import (
	"net/http"

	"github.com/emirhanunsal/MovieSuggest/internal/service"
)

type MovieHandler struct {
	svc *service.DetailsService
}

func NewMovieHandler(s *service.DetailsService) *MovieHandler {
	return &MovieHandler{svc: s}
}

// @Summary Detalle de una película (género + descripción)
// @Tags movies
// @Security BearerAuth
// @Produce json
// @Param title query string true "título exacto"
// @Success 200 {object} models.MovieDetail
// @Failure 400 {object} errorResponse
// @Failure 502 {object} errorResponse
// @Router /movies/details [get]
func (h *MovieHandler) Details(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")

	detail, err := h.svc.GetOrGenerate(r.Context(), title)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}
