package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Estados posibles de un partner request. Los tres últimos son terminales.
const (
	PartnerRequestStatusPending   = "pending"
	PartnerRequestStatusAccepted  = "accepted"
	PartnerRequestStatusRejected  = "rejected"
	PartnerRequestStatusWithdrawn = "withdrawn"
)

// Estados de un link de partners.
const (
	PartnerLinkStatusActive     = "active"
	PartnerLinkStatusTerminated = "terminated"
)

// PartnerRequest es una propuesta dirigida: A→B es distinto de B→A.
// PairKey normaliza el par para poder garantizar "un pending por pareja"
// con un índice único parcial.
type PartnerRequest struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	SenderID   string             `json:"senderId" bson:"senderId"`
	ReceiverID string             `json:"receiverId" bson:"receiverId"`
	PairKey    string             `json:"-" bson:"pairKey"`
	Status     string             `json:"status" bson:"status"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// PartnerLink es una de las dos entradas espejadas de una relación activa.
// Ambas comparten CreatedAt.
type PartnerLink struct {
	UserID    string    `json:"userId" bson:"userId"`
	PartnerID string    `json:"partnerId" bson:"partnerId"`
	Status    string    `json:"status" bson:"status"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// PairKey devuelve la clave normalizada (ordenada) de un par de usuarios.
func PairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "|" + b
}
