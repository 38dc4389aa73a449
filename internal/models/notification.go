package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Tipos de notificación que emite la máquina de estados de partners.
const (
	NotificationPartnerRequest   = "partner_request"
	NotificationRequestAccepted  = "request_accepted"
	NotificationRequestRejected  = "request_rejected"
	NotificationRequestWithdrawn = "request_withdrawn"
	NotificationPartnershipEnded = "partnership_ended"
)

// Notification es inmutable salvo por IsRead. Se ordena por CreatedAt
// (más reciente primero).
type Notification struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID    string             `json:"userId" bson:"userId"`
	Kind      string             `json:"kind" bson:"kind"`
	Message   string             `json:"message" bson:"message"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	IsRead    bool               `json:"isRead" bson:"isRead"`
}
