package repository

import (
	"context"
	"time"

	"github.com/emirhanunsal/MovieSuggest/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PartnerRequestRepository struct {
	col *mongo.Collection
}

func NewPartnerRequestRepository(db *mongo.Database) *PartnerRequestRepository {
	return &PartnerRequestRepository{col: db.Collection("partner_requests")}
}

// InsertPending es la escritura condicional que cierra las carreras de
// send: el índice único parcial sobre pairKey (status=pending) deja pasar
// un solo pending por pareja, y el índice sobre senderId (status=pending)
// un solo pending saliente por sender aunque los receivers difieran.
func (r *PartnerRequestRepository) InsertPending(ctx context.Context, req *models.PartnerRequest) error {
	req.PairKey = models.PairKey(req.SenderID, req.ReceiverID)
	req.Status = models.PartnerRequestStatusPending

	_, err := r.col.InsertOne(ctx, req)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

// FindPending busca por el par ordenado exacto (A→B no es B→A).
func (r *PartnerRequestRepository) FindPending(ctx context.Context, senderID, receiverID string) (*models.PartnerRequest, error) {
	var req models.PartnerRequest
	err := r.col.FindOne(ctx, bson.M{
		"senderId":   senderID,
		"receiverId": receiverID,
		"status":     models.PartnerRequestStatusPending,
	}).Decode(&req)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &req, err
}

// FindPendingBetween busca un pending entre el par en cualquier dirección.
func (r *PartnerRequestRepository) FindPendingBetween(ctx context.Context, a, b string) (*models.PartnerRequest, error) {
	var req models.PartnerRequest
	err := r.col.FindOne(ctx, bson.M{
		"pairKey": models.PairKey(a, b),
		"status":  models.PartnerRequestStatusPending,
	}).Decode(&req)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &req, err
}

func (r *PartnerRequestRepository) HasPendingFromSender(ctx context.Context, senderID string) (bool, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{
		"senderId": senderID,
		"status":   models.PartnerRequestStatusPending,
	}, options.Count().SetLimit(1))
	return n > 0, err
}

// UpdateStatus hace la transición condicionada al estado actual: si el
// request ya no está en from (p.e. lo retiraron en paralelo) no matchea
// y devuelve false.
func (r *PartnerRequestRepository) UpdateStatus(ctx context.Context, senderID, receiverID, from, to string) (bool, error) {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"senderId": senderID, "receiverId": receiverID, "status": from},
		bson.M{"$set": bson.M{"status": to, "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *PartnerRequestRepository) ListByUser(ctx context.Context, userID string) ([]models.PartnerRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cur, err := r.col.Find(ctx, bson.M{
		"$or": []bson.M{{"senderId": userID}, {"receiverId": userID}},
	}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.PartnerRequest
	for cur.Next(ctx) {
		var req models.PartnerRequest
		if err := cur.Decode(&req); err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, cur.Err()
}

// DeleteTouching borra todos los requests que tocan a cualquiera de los
// dos usuarios (limpieza al terminar una relación).
func (r *PartnerRequestRepository) DeleteTouching(ctx context.Context, a, b string) error {
	_, err := r.col.DeleteMany(ctx, bson.M{
		"$or": []bson.M{
			{"senderId": bson.M{"$in": []string{a, b}}},
			{"receiverId": bson.M{"$in": []string{a, b}}},
		},
	})
	return err
}
