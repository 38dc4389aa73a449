package models

// PreferenceSet son las preferencias de un usuario: dos conjuntos de
// strings sin orden ni duplicados (se dedupe al escribir).
type PreferenceSet struct {
	UserID string   `json:"userId" bson:"userId"`
	Genres []string `json:"genres" bson:"genres"`
	Movies []string `json:"movies" bson:"movies"`
}

// PreferenceUnion es la unión de las preferencias de dos usuarios matcheados.
// Siempre viene ordenada para que union(A,B) == union(B,A).
type PreferenceUnion struct {
	Genres []string `json:"genres"`
	Movies []string `json:"movies"`
}
