package service

import (
	"context"
	"sort"
	"strings"

	"github.com/emirhanunsal/MovieSuggest/internal/errs"
	"github.com/emirhanunsal/MovieSuggest/internal/models"
)

// PreferenceService expone las operaciones tipadas sobre los conjuntos
// {genres, movies} de cada usuario.
type PreferenceService struct {
	prefs PreferenceStore
}

func NewPreferenceService(prefs PreferenceStore) *PreferenceService {
	return &PreferenceService{prefs: prefs}
}

// Get distingue "usuario sin registro" (NotFound) de "conjuntos vacíos".
func (s *PreferenceService) Get(ctx context.Context, userID string) (*models.PreferenceSet, error) {
	p, err := s.prefs.Get(ctx, userID)
	if err != nil {
		return nil, errs.Internal(err)
	}
	if p == nil {
		return nil, ErrPreferencesNotFound
	}
	if p.Genres == nil {
		p.Genres = []string{}
	}
	if p.Movies == nil {
		p.Movies = []string{}
	}
	return p, nil
}

// Replace pisa solo los campos provistos.
func (s *PreferenceService) Replace(ctx context.Context, userID string, genres, movies []string) error {
	genres, movies = cleanSet(genres), cleanSet(movies)
	if len(genres) == 0 && len(movies) == 0 {
		return ErrNoUpdates
	}
	if err := s.prefs.Replace(ctx, userID, genres, movies); err != nil {
		return errs.Internal(err)
	}
	return nil
}

// Add mergea por unión.
func (s *PreferenceService) Add(ctx context.Context, userID string, genres, movies []string) error {
	genres, movies = cleanSet(genres), cleanSet(movies)
	if len(genres) == 0 && len(movies) == 0 {
		return ErrNoUpdates
	}
	if err := s.prefs.Add(ctx, userID, genres, movies); err != nil {
		return errs.Internal(err)
	}
	return nil
}

// Remove quita por diferencia de conjuntos.
func (s *PreferenceService) Remove(ctx context.Context, userID string, genres, movies []string) error {
	genres, movies = cleanSet(genres), cleanSet(movies)
	if len(genres) == 0 && len(movies) == 0 {
		return ErrNoUpdates
	}
	if err := s.prefs.Remove(ctx, userID, genres, movies); err != nil {
		return errs.Internal(err)
	}
	return nil
}

// Union combina las preferencias de ambos usuarios. Un usuario sin
// registro aporta vacío: la unión vacía es un resultado válido, el caller
// decide qué hacer con "nada desde donde recomendar".
func (s *PreferenceService) Union(ctx context.Context, a, b string) (*models.PreferenceUnion, error) {
	out := &models.PreferenceUnion{Genres: []string{}, Movies: []string{}}

	genres := map[string]struct{}{}
	movies := map[string]struct{}{}
	for _, id := range []string{a, b} {
		p, err := s.prefs.Get(ctx, id)
		if err != nil {
			return nil, errs.Internal(err)
		}
		if p == nil {
			continue
		}
		for _, g := range p.Genres {
			genres[g] = struct{}{}
		}
		for _, m := range p.Movies {
			movies[m] = struct{}{}
		}
	}

	for g := range genres {
		out.Genres = append(out.Genres, g)
	}
	for m := range movies {
		out.Movies = append(out.Movies, m)
	}
	// Orden estable: union(A,B) == union(B,A).
	sort.Strings(out.Genres)
	sort.Strings(out.Movies)
	return out, nil
}

// cleanSet recorta espacios, descarta vacíos y dedupe preservando el
// primer orden de aparición. Un campo que queda vacío se trata como
// ausente (nil): no pisa nada.
func cleanSet(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
