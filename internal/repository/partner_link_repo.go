package repository

import (
	"context"
	"time"

	"github.com/emirhanunsal/MovieSuggest/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type PartnerLinkRepository struct {
	col *mongo.Collection
}

func NewPartnerLinkRepository(db *mongo.Database) *PartnerLinkRepository {
	return &PartnerLinkRepository{col: db.Collection("partners")}
}

// InsertPair inserta las dos entradas espejadas con el mismo CreatedAt.
// El índice único parcial (userId, status=active) impide que un usuario
// termine con dos links activos; si la segunda inserción choca, se borra
// lo que alcanzó a entrar y se devuelve ErrDuplicate.
func (r *PartnerLinkRepository) InsertPair(ctx context.Context, a, b string, at time.Time) error {
	docs := []any{
		models.PartnerLink{UserID: a, PartnerID: b, Status: models.PartnerLinkStatusActive, CreatedAt: at},
		models.PartnerLink{UserID: b, PartnerID: a, Status: models.PartnerLinkStatusActive, CreatedAt: at},
	}

	_, err := r.col.InsertMany(ctx, docs)
	if err != nil {
		_ = r.DeletePair(ctx, a, b)
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *PartnerLinkRepository) FindActiveByUser(ctx context.Context, userID string) (*models.PartnerLink, error) {
	var link models.PartnerLink
	err := r.col.FindOne(ctx, bson.M{
		"userId": userID,
		"status": models.PartnerLinkStatusActive,
	}).Decode(&link)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &link, err
}

// DeletePair borra ambas direcciones del link.
func (r *PartnerLinkRepository) DeletePair(ctx context.Context, a, b string) error {
	_, err := r.col.DeleteMany(ctx, bson.M{
		"$or": []bson.M{
			{"userId": a, "partnerId": b},
			{"userId": b, "partnerId": a},
		},
	})
	return err
}
