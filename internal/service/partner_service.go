package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/emirhanunsal/MovieSuggest/internal/errs"
	"github.com/emirhanunsal/MovieSuggest/internal/models"
	"github.com/emirhanunsal/MovieSuggest/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PartnerService es la máquina de estados de requests y relaciones.
// Invariantes: a lo sumo un partner activo por usuario y a lo sumo un
// request pendiente por pareja (y por sender). Los cierres de carrera
// viven en las escrituras condicionales de los stores, no en los checks.
type PartnerService struct {
	users    UserStore
	requests PartnerRequestStore
	links    PartnerLinkStore
	notes    *NotificationService
}

func NewPartnerService(users UserStore, requests PartnerRequestStore, links PartnerLinkStore, notes *NotificationService) *PartnerService {
	return &PartnerService{users: users, requests: requests, links: links, notes: notes}
}

// Send crea un request pendiente de sender a receiver.
func (s *PartnerService) Send(ctx context.Context, senderID, receiverID string) (*models.PartnerRequest, error) {
	if senderID == receiverID {
		return nil, ErrSelfRequest
	}

	for _, id := range []string{senderID, receiverID} {
		u, err := s.users.FindByID(ctx, id)
		if err != nil {
			return nil, errs.Internal(err)
		}
		if u == nil {
			return nil, ErrUserNotFound
		}
	}

	// Nadie con relación activa puede mandar ni recibir requests.
	for _, id := range []string{senderID, receiverID} {
		link, err := s.links.FindActiveByUser(ctx, id)
		if err != nil {
			return nil, errs.Internal(err)
		}
		if link != nil {
			return nil, ErrAlreadyPartnered
		}
	}

	// Un solo pending saliente por sender.
	pending, err := s.requests.HasPendingFromSender(ctx, senderID)
	if err != nil {
		return nil, errs.Internal(err)
	}
	if pending {
		return nil, ErrDuplicateRequest
	}

	// Un solo pending por pareja, en cualquier dirección.
	existing, err := s.requests.FindPendingBetween(ctx, senderID, receiverID)
	if err != nil {
		return nil, errs.Internal(err)
	}
	if existing != nil {
		return nil, ErrDuplicateRequest
	}

	now := time.Now().UTC()
	req := &models.PartnerRequest{
		ID:         primitive.NewObjectID(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	// La inserción condicional decide la carrera send(A,B) vs send(B,A):
	// exactamente uno gana, el otro ve el duplicado.
	if err := s.requests.InsertPending(ctx, req); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateRequest
		}
		return nil, errs.Internal(err)
	}

	s.notes.notifyBestEffort(ctx, receiverID, models.NotificationPartnerRequest,
		fmt.Sprintf("%s sent you a partner request", senderID))
	return req, nil
}

// Accept transiciona el request (sender→receiver exacto) de pending a
// accepted y crea el link espejado.
func (s *PartnerService) Accept(ctx context.Context, senderID, receiverID string) error {
	ok, err := s.requests.UpdateStatus(ctx, senderID, receiverID,
		models.PartnerRequestStatusPending, models.PartnerRequestStatusAccepted)
	if err != nil {
		return errs.Internal(err)
	}
	if !ok {
		return ErrRequestNotFound
	}

	if err := s.insertLink(ctx, senderID, receiverID); err != nil {
		// El request quedó accepted sin link: revertimos a pending para
		// no dejar estado huérfano.
		if _, revErr := s.requests.UpdateStatus(ctx, senderID, receiverID,
			models.PartnerRequestStatusAccepted, models.PartnerRequestStatusPending); revErr != nil {
			slog.Error("no se pudo revertir el request tras fallo de link",
				"sender", senderID, "receiver", receiverID, "error", revErr)
		}
		return err
	}

	s.notes.notifyBestEffort(ctx, senderID, models.NotificationRequestAccepted,
		fmt.Sprintf("%s accepted your partner request", receiverID))
	return nil
}

func (s *PartnerService) insertLink(ctx context.Context, a, b string) error {
	err := s.links.InsertPair(ctx, a, b, time.Now().UTC())
	if errors.Is(err, repository.ErrDuplicate) {
		return ErrAlreadyPartnered
	}
	if err != nil {
		return errs.Internal(err)
	}
	return nil
}

// Reject marca el request como rechazado y avisa al sender.
func (s *PartnerService) Reject(ctx context.Context, senderID, receiverID string) error {
	ok, err := s.requests.UpdateStatus(ctx, senderID, receiverID,
		models.PartnerRequestStatusPending, models.PartnerRequestStatusRejected)
	if err != nil {
		return errs.Internal(err)
	}
	if !ok {
		return ErrRequestNotFound
	}

	s.notes.notifyBestEffort(ctx, senderID, models.NotificationRequestRejected,
		fmt.Sprintf("%s rejected your partner request", receiverID))
	return nil
}

// Withdraw lo ejecuta el sender sobre su propio request pendiente.
func (s *PartnerService) Withdraw(ctx context.Context, senderID, receiverID string) error {
	ok, err := s.requests.UpdateStatus(ctx, senderID, receiverID,
		models.PartnerRequestStatusPending, models.PartnerRequestStatusWithdrawn)
	if err != nil {
		return errs.Internal(err)
	}
	if !ok {
		return ErrRequestNotFound
	}

	s.notes.notifyBestEffort(ctx, receiverID, models.NotificationRequestWithdrawn,
		fmt.Sprintf("%s withdrew their partner request", senderID))
	return nil
}

// Terminate disuelve la relación activa del usuario: borra ambas entradas
// del link, limpia todos los requests que tocan a cualquiera de los dos y
// avisa a ambos.
func (s *PartnerService) Terminate(ctx context.Context, userID string) error {
	link, err := s.links.FindActiveByUser(ctx, userID)
	if err != nil {
		return errs.Internal(err)
	}
	if link == nil {
		return ErrNoActiveLink
	}

	if err := s.links.DeletePair(ctx, link.UserID, link.PartnerID); err != nil {
		return errs.Internal(err)
	}
	if err := s.requests.DeleteTouching(ctx, link.UserID, link.PartnerID); err != nil {
		return errs.Internal(err)
	}

	msg := "your partnership has ended"
	s.notes.notifyBestEffort(ctx, link.UserID, models.NotificationPartnershipEnded, msg)
	s.notes.notifyBestEffort(ctx, link.PartnerID, models.NotificationPartnershipEnded, msg)
	return nil
}

// ListRequests devuelve los requests enviados y recibidos del usuario.
func (s *PartnerService) ListRequests(ctx context.Context, userID string) (sent, received []models.PartnerRequest, err error) {
	all, err := s.requests.ListByUser(ctx, userID)
	if err != nil {
		return nil, nil, errs.Internal(err)
	}
	for _, req := range all {
		if req.SenderID == userID {
			sent = append(sent, req)
		} else {
			received = append(received, req)
		}
	}
	return sent, received, nil
}

// ActivePartner devuelve el partner actual del usuario, o "" si no tiene.
func (s *PartnerService) ActivePartner(ctx context.Context, userID string) (string, error) {
	link, err := s.links.FindActiveByUser(ctx, userID)
	if err != nil {
		return "", errs.Internal(err)
	}
	if link == nil {
		return "", nil
	}
	return link.PartnerID, nil
}
