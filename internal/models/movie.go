package models

// MovieDetail es la ficha generada de una película, cacheada por título.
// Se escribe una sola vez (create-if-missing) y nunca se invalida.
type MovieDetail struct {
	Title       string   `json:"title" bson:"title"`
	Genres      []string `json:"genres" bson:"genres"`
	Description string   `json:"description" bson:"description"`
	CreatedAt   string   `json:"createdAt" bson:"createdAt"`
}
