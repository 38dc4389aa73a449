package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/emirhanunsal/MovieSuggest/internal/errs"
	"github.com/emirhanunsal/MovieSuggest/internal/models"
)

const (
	recSystemPrompt = "You are a movie expert assistant."
	recMaxTokens    = 400
	recTemperature  = 0.7
)

// Gramática estricta de cada línea de la respuesta:
//
//	1. Movie Name: The Matrix, Genre: Action/Sci-Fi
//
// Lo que no matchea se saltea (logueado, no fatal).
var recLineRe = regexp.MustCompile(`^\s*\d+\.\s*Movie Name:\s*(.+?),\s*Genre:\s*(.+?)\s*$`)

// RecommendService combina las preferencias de una pareja, llama al
// generador bajo la política de reintentos y filtra contra el historial
// global antes y después de generar.
type RecommendService struct {
	prefs    *PreferenceService
	links    PartnerLinkStore
	history  HistoryStore
	gen      Generator
	enricher Enricher
	opts     GenOptions
}

func NewRecommendService(prefs *PreferenceService, links PartnerLinkStore, history HistoryStore, gen Generator, enricher Enricher, opts GenOptions) *RecommendService {
	return &RecommendService{
		prefs:    prefs,
		links:    links,
		history:  history,
		gen:      gen,
		enricher: enricher,
		opts:     opts,
	}
}

// Recommend genera sugerencias compartidas para una pareja activa.
// Devuelve slice vacío (sin error) cuando el generador no aportó ningún
// título nuevo: el caller reintenta más tarde.
func (s *RecommendService) Recommend(ctx context.Context, userID, partnerID string) ([]models.Recommendation, error) {
	link, err := s.links.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, errs.Internal(err)
	}
	if link == nil || link.PartnerID != partnerID {
		return nil, ErrNotPartnered
	}

	union, err := s.prefs.Union(ctx, userID, partnerID)
	if err != nil {
		return nil, err
	}
	if len(union.Genres) == 0 && len(union.Movies) == 0 {
		return nil, ErrNoPreferences
	}

	// Historial global completo como set de exclusión.
	history, err := s.history.AllTitles(ctx)
	if err != nil {
		return nil, errs.Internal(err)
	}
	exclude := make(map[string]struct{}, len(history))
	for _, t := range history {
		exclude[t] = struct{}{}
	}

	prompt := buildRecommendationPrompt(union, history)
	choices, err := generateWithRetry(ctx, s.gen, recSystemPrompt, prompt, recMaxTokens, recTemperature, s.opts)
	if err != nil {
		return nil, err
	}

	recs := parseRecommendations(firstChoice(choices))

	// Segundo filtro contra el historial: el prompt ya pide evitar estos
	// títulos pero el generador no es confiable.
	kept := recs[:0]
	for _, rec := range recs {
		if _, dup := exclude[rec.Title]; dup {
			continue
		}
		exclude[rec.Title] = struct{}{} // también dedupe dentro de la misma respuesta
		kept = append(kept, rec)
	}
	recs = kept

	if len(recs) == 0 {
		return []models.Recommendation{}, nil
	}

	titles := make([]string, 0, len(recs))
	for _, rec := range recs {
		titles = append(titles, rec.Title)
	}

	// Write-back antes de responder: primero el historial (para que otra
	// llamada concurrente no re-sugiera), después los sets de películas
	// de ambos usuarios.
	if err := s.history.AddTitles(ctx, titles); err != nil {
		return nil, errs.Internal(err)
	}
	for _, id := range []string{userID, partnerID} {
		if err := s.prefs.Add(ctx, id, nil, titles); err != nil {
			return nil, err
		}
	}

	// Enriquecimiento best-effort, nunca afecta la respuesta.
	for _, rec := range recs {
		if !s.enricher.Enqueue(rec.Title, rec.Genres) {
			slog.Warn("cola de enriquecimiento llena, título descartado", "title", rec.Title)
		}
	}

	return recs, nil
}

func buildRecommendationPrompt(union *models.PreferenceUnion, exclude []string) string {
	var b strings.Builder
	b.WriteString("Suggest 5 movies for two partners based on their combined preferences.\n")
	if len(union.Genres) > 0 {
		fmt.Fprintf(&b, "Preferred genres: %s.\n", strings.Join(union.Genres, ", "))
	}
	if len(union.Movies) > 0 {
		fmt.Fprintf(&b, "Movies they already liked: %s.\n", strings.Join(union.Movies, ", "))
	}
	if len(exclude) > 0 {
		fmt.Fprintf(&b, "Do NOT suggest any of these movies: %s.\n", strings.Join(exclude, ", "))
	}
	b.WriteString("Respond with one movie per line, numbered, in this exact format: ")
	b.WriteString("'1. Movie Name: [name], Genre: [genre1]/[genre2]'. No extra text.")
	return b.String()
}

// parseRecommendations aplica la gramática línea por línea; el éxito
// parcial es lo normal, no una excepción.
func parseRecommendations(text string) []models.Recommendation {
	var out []models.Recommendation
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		m := recLineRe.FindStringSubmatch(line)
		if m == nil {
			slog.Warn("línea de recomendación no parseable, salteada", "line", line)
			continue
		}
		title := strings.TrimSpace(m[1])
		var genres []string
		for _, g := range strings.Split(m[2], "/") {
			if g = strings.TrimSpace(g); g != "" {
				genres = append(genres, g)
			}
		}
		out = append(out, models.Recommendation{Title: title, Genres: genres})
	}
	return out
}
