package repository

import (
	"context"

	"github.com/emirhanunsal/MovieSuggest/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MovieRepository struct {
	col *mongo.Collection
}

func NewMovieRepository(db *mongo.Database) *MovieRepository {
	return &MovieRepository{col: db.Collection("movies")}
}

func (r *MovieRepository) FindByTitle(ctx context.Context, title string) (*models.MovieDetail, error) {
	var m models.MovieDetail
	err := r.col.FindOne(ctx, bson.M{"title": title}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &m, err
}

// InsertIfAbsent escribe la ficha solo si no existe ($setOnInsert), así
// dos workers enriqueciendo el mismo título no se pisan: gana el primero
// y el resto es no-op.
func (r *MovieRepository) InsertIfAbsent(ctx context.Context, m *models.MovieDetail) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"title": m.Title},
		bson.M{"$setOnInsert": m},
		options.Update().SetUpsert(true),
	)
	if mongo.IsDuplicateKeyError(err) {
		return nil
	}
	return err
}
