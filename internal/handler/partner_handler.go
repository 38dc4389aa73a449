package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/emirhanunsal/MovieSuggest/internal/models"
	"github.com/emirhanunsal/MovieSuggest/internal/service"
)

type PartnerHandler struct {
	svc *service.PartnerService
}

func NewPartnerHandler(s *service.PartnerService) *PartnerHandler {
	return &PartnerHandler{svc: s}
}

type partnerRequestBody struct {
	ReceiverID string `json:"receiverId"`
}

type partnerDecisionBody struct {
	SenderID string `json:"senderId"`
}

type partnerWithdrawBody struct {
	ReceiverID string `json:"receiverId"`
}

type partnerRequestsResponse struct {
	Sent     []models.PartnerRequest `json:"sent"`
	Received []models.PartnerRequest `json:"received"`
}

// @Summary Enviar solicitud de pareja
// @Tags partners
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body partnerRequestBody true "receptor"
// @Success 201 {object} models.PartnerRequest
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /partners/requests [post]
func (h *PartnerHandler) Send(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())

	var req partnerRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	pr, err := h.svc.Send(r.Context(), userID, req.ReceiverID)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, pr)
}

// @Summary Listar solicitudes enviadas y recibidas
// @Tags partners
// @Security BearerAuth
// @Produce json
// @Success 200 {object} partnerRequestsResponse
// @Router /partners/requests [get]
func (h *PartnerHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())

	sent, received, err := h.svc.ListRequests(r.Context(), userID)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, partnerRequestsResponse{Sent: sent, Received: received})
}

// @Summary Aceptar solicitud pendiente
// @Tags partners
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body partnerDecisionBody true "emisor de la solicitud"
// @Success 200 {object} map[string]any
// @Failure 404 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /partners/requests/accept [post]
func (h *PartnerHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.svc.Accept, "accepted")
}

// @Summary Rechazar solicitud pendiente
// @Tags partners
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body partnerDecisionBody true "emisor de la solicitud"
// @Success 200 {object} map[string]any
// @Failure 404 {object} errorResponse
// @Router /partners/requests/reject [post]
func (h *PartnerHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.svc.Reject, "rejected")
}

// decide factoriza accept/reject: el usuario autenticado es el receptor.
func (h *PartnerHandler) decide(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, senderID, receiverID string) error,
	status string,
) {
	userID := UserIDFromContext(r.Context())

	var req partnerDecisionBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := op(r.Context(), req.SenderID, userID); err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": status})
}

// @Summary Retirar una solicitud propia pendiente
// @Tags partners
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body partnerWithdrawBody true "receptor de la solicitud"
// @Success 200 {object} map[string]any
// @Failure 404 {object} errorResponse
// @Router /partners/requests/withdraw [post]
func (h *PartnerHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())

	var req partnerWithdrawBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.Withdraw(r.Context(), userID, req.ReceiverID); err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "withdrawn"})
}

// @Summary Pareja activa del usuario (vacío si no tiene)
// @Tags partners
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]any
// @Router /partners [get]
func (h *PartnerHandler) Current(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())

	partnerID, err := h.svc.ActivePartner(r.Context(), userID)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"partnerId": partnerID})
}

// @Summary Terminar la pareja activa
// @Tags partners
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 404 {object} errorResponse
// @Router /partners [delete]
func (h *PartnerHandler) Terminate(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())

	if err := h.svc.Terminate(r.Context(), userID); err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "terminated"})
}
