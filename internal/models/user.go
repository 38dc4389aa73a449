package models

// UserDoc es el documento de la colección users. El UserID lo elige el
// usuario al registrarse y es la clave de todo lo demás.
type UserDoc struct {
	UserID       string `json:"userId" bson:"userId"`
	Email        string `json:"email" bson:"email"`
	PasswordHash string `json:"passwordHash" bson:"passwordHash"`
	CreatedAt    string `json:"createdAt" bson:"createdAt"`
}
