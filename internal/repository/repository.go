package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicate lo devuelven las escrituras condicionales cuando ya existe
// una fila que viola el índice único (pending por pareja, link activo por
// usuario, etc). Los services lo traducen a su Conflict correspondiente.
var ErrDuplicate = errors.New("duplicate key")

// EnsureIndexes crea los índices que sostienen los invariantes del dominio.
// Las escrituras condicionales dependen de estos índices: sin ellos las
// carreras check-then-create quedan abiertas.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	// users: userId único
	_, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	// partner_requests: a lo sumo un pending por pareja (en cualquier dirección)
	_, err = db.Collection("partner_requests").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "pairKey", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"status": "pending"}),
	})
	if err != nil {
		return err
	}

	// partner_requests: a lo sumo un pending saliente por sender
	_, err = db.Collection("partner_requests").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "senderId", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"status": "pending"}),
	})
	if err != nil {
		return err
	}

	// partners: a lo sumo un link activo por usuario
	_, err = db.Collection("partners").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"status": "active"}),
	})
	if err != nil {
		return err
	}

	// user_preferences: un documento por usuario
	_, err = db.Collection("user_preferences").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	// recommendation_history: un título a lo sumo una vez
	_, err = db.Collection("recommendation_history").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "title", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	// movies: ficha única por título
	_, err = db.Collection("movies").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "title", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	// notifications: listado por usuario ordenado por fecha
	_, err = db.Collection("notifications").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	return err
}
