package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// HistoryRepository es el set global append-only de títulos ya sugeridos
// a cualquier usuario. Solo sirve para excluir, nunca se muestra.
type HistoryRepository struct {
	col *mongo.Collection
}

func NewHistoryRepository(db *mongo.Database) *HistoryRepository {
	return &HistoryRepository{col: db.Collection("recommendation_history")}
}

func (r *HistoryRepository) AllTitles(ctx context.Context) ([]string, error) {
	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []string
	for cur.Next(ctx) {
		var doc struct {
			Title string `bson:"title"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.Title)
	}
	return out, cur.Err()
}

// AddTitles agrega títulos al historial en un solo BulkWrite de upserts
// idempotentes: un título repetido no duplica ni falla.
func (r *HistoryRepository) AddTitles(ctx context.Context, titles []string) error {
	if len(titles) == 0 {
		return nil
	}

	ops := make([]mongo.WriteModel, 0, len(titles))
	for _, t := range titles {
		ops = append(ops, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"title": t}).
			SetUpdate(bson.M{"$setOnInsert": bson.M{"title": t}}).
			SetUpsert(true))
	}

	_, err := r.col.BulkWrite(ctx, ops, options.BulkWrite().SetOrdered(false))
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return err
	}
	return nil
}
