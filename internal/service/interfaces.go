package service

import (
	"context"
	"time"

	"github.com/emirhanunsal/MovieSuggest/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Los services dependen de estas interfaces y no de Mongo: los repos de
// internal/repository las implementan en producción y los tests inyectan
// fakes en memoria con la misma semántica condicional.

type UserStore interface {
	FindByID(ctx context.Context, userID string) (*models.UserDoc, error)
	Insert(ctx context.Context, u *models.UserDoc) error
}

type PartnerRequestStore interface {
	// InsertPending falla con repository.ErrDuplicate si ya hay un pending
	// para la pareja o un pending saliente del mismo sender (escritura
	// condicional, no check-then-act).
	InsertPending(ctx context.Context, req *models.PartnerRequest) error
	FindPending(ctx context.Context, senderID, receiverID string) (*models.PartnerRequest, error)
	FindPendingBetween(ctx context.Context, a, b string) (*models.PartnerRequest, error)
	HasPendingFromSender(ctx context.Context, senderID string) (bool, error)
	// UpdateStatus devuelve false si el request no estaba en `from`.
	UpdateStatus(ctx context.Context, senderID, receiverID, from, to string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]models.PartnerRequest, error)
	DeleteTouching(ctx context.Context, a, b string) error
}

type PartnerLinkStore interface {
	// InsertPair falla con repository.ErrDuplicate si alguno de los dos ya
	// tiene un link activo, sin dejar entradas huérfanas.
	InsertPair(ctx context.Context, a, b string, at time.Time) error
	FindActiveByUser(ctx context.Context, userID string) (*models.PartnerLink, error)
	DeletePair(ctx context.Context, a, b string) error
}

type PreferenceStore interface {
	Get(ctx context.Context, userID string) (*models.PreferenceSet, error)
	Replace(ctx context.Context, userID string, genres, movies []string) error
	Add(ctx context.Context, userID string, genres, movies []string) error
	Remove(ctx context.Context, userID string, genres, movies []string) error
}

type NotificationStore interface {
	Insert(ctx context.Context, n *models.Notification) error
	ListByUser(ctx context.Context, userID string, limit int) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID string, id primitive.ObjectID) (bool, error)
}

type HistoryStore interface {
	AllTitles(ctx context.Context) ([]string, error)
	AddTitles(ctx context.Context, titles []string) error
}

type MovieStore interface {
	FindByTitle(ctx context.Context, title string) (*models.MovieDetail, error)
	InsertIfAbsent(ctx context.Context, m *models.MovieDetail) error
}

// Generator es el colaborador de generación de texto. Devuelve el
// contenido de cada choice; slice vacío sin error = respuesta con forma
// inválida (cuenta como intento fallido en el retry).
type Generator interface {
	Generate(ctx context.Context, system, user string, maxTokens int, temperature float64) ([]string, error)
}

// Enricher agenda el enriquecimiento best-effort de una ficha.
type Enricher interface {
	Enqueue(title string, genres []string) bool
}
