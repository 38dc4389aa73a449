package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/emirhanunsal/MovieSuggest/internal/service"
)

type RecommendHandler struct {
	svc *service.RecommendService
}

func NewRecommendHandler(s *service.RecommendService) *RecommendHandler {
	return &RecommendHandler{svc: s}
}

// @Summary Recomendaciones compartidas con la pareja
// @Tags recommend
// @Security BearerAuth
// @Produce json
// @Param partnerId query string true "id de la pareja activa"
// @Success 200 {array} models.Recommendation
// @Failure 409 {object} errorResponse
// @Failure 502 {object} errorResponse
// @Router /me/recommendations [get]
func (h *RecommendHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	partnerID := r.URL.Query().Get("partnerId")

	items, err := h.svc.Recommend(r.Context(), userID, partnerID)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// upgrader global (no afecta a swagger)
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// @Summary Recomendaciones en tiempo real (WebSocket)
// @Tags recommend
// @Security BearerAuth
// @Produce json
// @Param partnerId query string true "id de la pareja activa"
// @Success 200 {object} map[string]interface{}
// @Router /me/ws/recommendations [get]
func (h *RecommendHandler) GetWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "No se pudo abrir WebSocket", 400)
		return
	}
	defer conn.Close()

	userID := UserIDFromContext(r.Context())
	partnerID := r.URL.Query().Get("partnerId")

	// Mensaje inicial
	conn.WriteJSON(map[string]any{
		"type": "start",
		"msg":  "Conexión WS abierta, consultando al modelo…",
	})

	items, err := h.svc.Recommend(r.Context(), userID, partnerID)
	if err != nil {
		conn.WriteJSON(map[string]any{
			"type":  "error",
			"error": err.Error(),
		})
		return
	}

	// Mensaje final con recomendaciones
	conn.WriteJSON(map[string]any{
		"type":        "recommendations",
		"userId":      userID,
		"partnerId":   partnerID,
		"items":       items,
		"generatedAt": time.Now(),
	})
}
