package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/emirhanunsal/MovieSuggest/internal/cache"
	"github.com/emirhanunsal/MovieSuggest/internal/errs"
	"github.com/emirhanunsal/MovieSuggest/internal/models"
)

const (
	detailSystemPrompt = "You are a movie expert assistant."
	detailMaxTokens    = 150
	detailTemperature  = 0.7
	detailCacheTTL     = 24 * time.Hour
)

// Respuesta esperada: 'Genre: [genre], Description: [description]'.
var detailRe = regexp.MustCompile(`(?s)Genre:\s*(.*?),\s*Description:\s*(.*)`)

type enrichTask struct {
	title  string
	genres []string
}

// DetailsService genera y cachea fichas de películas. El worker pool
// corre desacoplado del flujo de requests: los fallos se loguean y nunca
// llegan a ningún caller.
type DetailsService struct {
	movies MovieStore
	cache  *cache.Cache
	gen    Generator
	opts   GenOptions

	tasks  chan enrichTask
	wg     sync.WaitGroup
	cancel context.CancelFunc
}

func NewDetailsService(movies MovieStore, c *cache.Cache, gen Generator, opts GenOptions, queueSize int) *DetailsService {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &DetailsService{
		movies: movies,
		cache:  c,
		gen:    gen,
		opts:   opts,
		tasks:  make(chan enrichTask, queueSize),
	}
}

// Start levanta los workers. El ctx del proceso corta el pool al apagar
// sin dejar fichas a medio escribir (cada ficha es un solo upsert).
func (s *DetailsService) Start(ctx context.Context, workers int) {
	if workers <= 0 {
		workers = 4
	}
	ctx, s.cancel = context.WithCancel(ctx)

	for i := 0; i < workers; i++ {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case t := <-s.tasks:
					if err := s.ensure(ctx, t.title, t.genres); err != nil {
						slog.Warn("enriquecimiento falló", "title", t.title, "error", err)
					}
				}
			}
		}()
	}
}

// Close frena los workers; las tareas encoladas sin procesar se pierden
// (son best-effort, la próxima recomendación del título las reencola).
func (s *DetailsService) Close() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

// Enqueue agenda una ficha sin bloquear. Cola llena = descarte.
func (s *DetailsService) Enqueue(title string, genres []string) bool {
	select {
	case s.tasks <- enrichTask{title: title, genres: genres}:
		return true
	default:
		return false
	}
}

// ensure es idempotente en resultado: si la ficha ya existe no hace nada;
// dos workers con el mismo título a lo sumo duplican la llamada de
// generación, nunca la escritura.
func (s *DetailsService) ensure(ctx context.Context, title string, genreHint []string) error {
	existing, err := s.movies.FindByTitle(ctx, title)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	detail, err := s.generate(ctx, title, genreHint)
	if err != nil {
		return err
	}
	if err := s.movies.InsertIfAbsent(ctx, detail); err != nil {
		return err
	}

	if err := s.cache.SetJSON(ctx, detailCacheKey(title), detail, detailCacheTTL); err != nil {
		slog.Warn("no se pudo cachear la ficha", "title", title, "error", err)
	}
	return nil
}

// GetOrGenerate es la variante sincrónica: cache → Mongo → generador.
func (s *DetailsService) GetOrGenerate(ctx context.Context, title string) (*models.MovieDetail, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrMovieTitleRequired
	}

	var cached models.MovieDetail
	if ok, err := s.cache.GetJSON(ctx, detailCacheKey(title), &cached); err == nil && ok {
		return &cached, nil
	}

	existing, err := s.movies.FindByTitle(ctx, title)
	if err != nil {
		return nil, errs.Internal(err)
	}
	if existing != nil {
		if err := s.cache.SetJSON(ctx, detailCacheKey(title), existing, detailCacheTTL); err != nil {
			slog.Warn("no se pudo cachear la ficha", "title", title, "error", err)
		}
		return existing, nil
	}

	detail, err := s.generate(ctx, title, nil)
	if err != nil {
		return nil, err
	}
	if err := s.movies.InsertIfAbsent(ctx, detail); err != nil {
		return nil, errs.Internal(err)
	}
	if err := s.cache.SetJSON(ctx, detailCacheKey(title), detail, detailCacheTTL); err != nil {
		slog.Warn("no se pudo cachear la ficha", "title", title, "error", err)
	}
	return detail, nil
}

func (s *DetailsService) generate(ctx context.Context, title string, genreHint []string) (*models.MovieDetail, error) {
	prompt := fmt.Sprintf(
		"Generate a brief description without spoilers and a genre for a movie titled '%s'. "+
			"Provide the output in this format: 'Genre: [genre], Description: [description]'.", title)

	choices, err := generateWithRetry(ctx, s.gen, detailSystemPrompt, prompt, detailMaxTokens, detailTemperature, s.opts)
	if err != nil {
		return nil, err
	}

	genres, description, ok := parseDetails(firstChoice(choices))
	if !ok {
		return nil, ErrGenerationUnavailable
	}
	if len(genres) == 0 {
		genres = genreHint
	}

	return &models.MovieDetail{
		Title:       title,
		Genres:      genres,
		Description: description,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// parseDetails extrae género y descripción del formato
// 'Genre: ..., Description: ...'.
func parseDetails(text string) (genres []string, description string, ok bool) {
	m := detailRe.FindStringSubmatch(text)
	if m == nil {
		return nil, "", false
	}
	for _, g := range strings.Split(m[1], "/") {
		if g = strings.TrimSpace(g); g != "" {
			genres = append(genres, g)
		}
	}
	description = strings.TrimSpace(m[2])
	if description == "" {
		return nil, "", false
	}
	return genres, description, true
}

func detailCacheKey(title string) string {
	return "movie:detail:" + title
}
