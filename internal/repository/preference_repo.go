package repository

import (
	"context"

	"github.com/emirhanunsal/MovieSuggest/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PreferenceRepository struct {
	col *mongo.Collection
}

func NewPreferenceRepository(db *mongo.Database) *PreferenceRepository {
	return &PreferenceRepository{col: db.Collection("user_preferences")}
}

func (r *PreferenceRepository) Get(ctx context.Context, userID string) (*models.PreferenceSet, error) {
	var p models.PreferenceSet
	err := r.col.FindOne(ctx, bson.M{"userId": userID}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &p, err
}

// Replace pisa solo los campos que vienen; un slice nil deja el campo como
// está. Hace upsert para que el primer replace también funcione.
func (r *PreferenceRepository) Replace(ctx context.Context, userID string, genres, movies []string) error {
	set := bson.M{}
	if genres != nil {
		set["genres"] = genres
	}
	if movies != nil {
		set["movies"] = movies
	}

	_, err := r.col.UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{"$set": set, "$setOnInsert": bson.M{"userId": userID}},
		options.Update().SetUpsert(true),
	)
	return err
}

// Add mergea por unión de conjuntos ($addToSet no duplica).
func (r *PreferenceRepository) Add(ctx context.Context, userID string, genres, movies []string) error {
	add := bson.M{}
	if len(genres) > 0 {
		add["genres"] = bson.M{"$each": genres}
	}
	if len(movies) > 0 {
		add["movies"] = bson.M{"$each": movies}
	}

	_, err := r.col.UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{"$addToSet": add, "$setOnInsert": bson.M{"userId": userID}},
		options.Update().SetUpsert(true),
	)
	return err
}

// Remove es diferencia de conjuntos; sin upsert, quitar de un documento
// inexistente es un no-op.
func (r *PreferenceRepository) Remove(ctx context.Context, userID string, genres, movies []string) error {
	pull := bson.M{}
	if len(genres) > 0 {
		pull["genres"] = genres
	}
	if len(movies) > 0 {
		pull["movies"] = movies
	}

	_, err := r.col.UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{"$pullAll": pull},
	)
	return err
}
