package models

// Recommendation es un título sugerido por el generador, ya parseado y
// filtrado contra el historial global.
type Recommendation struct {
	Title  string   `json:"title"`
	Genres []string `json:"genres"`
}
