package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/emirhanunsal/MovieSuggest/internal/errs"
	"github.com/emirhanunsal/MovieSuggest/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const DefaultNotificationLimit = 50

type NotificationService struct {
	notes NotificationStore
}

func NewNotificationService(notes NotificationStore) *NotificationService {
	return &NotificationService{notes: notes}
}

// Notify agrega una entrada al log del usuario. CreatedAt con precisión
// de nanosegundos es la clave de orden del listado.
func (s *NotificationService) Notify(ctx context.Context, userID, kind, message string) error {
	n := &models.Notification{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Kind:      kind,
		Message:   message,
		CreatedAt: time.Now().UTC(),
		IsRead:    false,
	}
	if err := s.notes.Insert(ctx, n); err != nil {
		return errs.Internal(err)
	}
	return nil
}

// notifyBestEffort se usa desde la máquina de estados: la transición ya
// committeó, un fallo al notificar solo se loguea.
func (s *NotificationService) notifyBestEffort(ctx context.Context, userID, kind, message string) {
	if err := s.Notify(ctx, userID, kind, message); err != nil {
		slog.Error("no se pudo emitir la notificación", "user", userID, "kind", kind, "error", err)
	}
}

// List devuelve las notificaciones del usuario, más recientes primero.
func (s *NotificationService) List(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = DefaultNotificationLimit
	}
	out, err := s.notes.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, errs.Internal(err)
	}
	return out, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotificationNotFound
	}

	ok, err := s.notes.MarkRead(ctx, userID, oid)
	if err != nil {
		return errs.Internal(err)
	}
	if !ok {
		return ErrNotificationNotFound
	}
	return nil
}
