package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/emirhanunsal/MovieSuggest/internal/service"
)

type NotificationHandler struct {
	svc *service.NotificationService
}

func NewNotificationHandler(s *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: s}
}

// @Summary Notificaciones del usuario, más recientes primero
// @Tags notifications
// @Security BearerAuth
// @Produce json
// @Success 200 {array} models.Notification
// @Router /me/notifications [get]
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())

	items, err := h.svc.List(r.Context(), userID, service.DefaultNotificationLimit)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// @Summary Marcar una notificación como leída
// @Tags notifications
// @Security BearerAuth
// @Produce json
// @Param id path string true "id de la notificación"
// @Success 200 {object} map[string]any
// @Failure 404 {object} errorResponse
// @Router /me/notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.svc.MarkRead(r.Context(), userID, id); err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"read": true})
}
