package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/emirhanunsal/MovieSuggest/internal/models"
	"github.com/emirhanunsal/MovieSuggest/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Fakes en memoria con la misma semántica condicional que los repos de
// Mongo: índices únicos simulados bajo mutex, nil sin error cuando no
// hay documento.

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]*models.UserDoc
}

func newFakeUserStore(ids ...string) *fakeUserStore {
	s := &fakeUserStore{users: map[string]*models.UserDoc{}}
	for _, id := range ids {
		s.users[id] = &models.UserDoc{UserID: id, Email: id + "@test.local"}
	}
	return s
}

func (s *fakeUserStore) FindByID(_ context.Context, userID string) (*models.UserDoc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (s *fakeUserStore) Insert(_ context.Context, u *models.UserDoc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.UserID]; ok {
		return repository.ErrDuplicate
	}
	cp := *u
	s.users[u.UserID] = &cp
	return nil
}

type fakeRequestStore struct {
	mu   sync.Mutex
	reqs []*models.PartnerRequest
}

func (s *fakeRequestStore) InsertPending(_ context.Context, req *models.PartnerRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := models.PairKey(req.SenderID, req.ReceiverID)
	for _, r := range s.reqs {
		if r.Status != models.PartnerRequestStatusPending {
			continue
		}
		if r.PairKey == key || r.SenderID == req.SenderID {
			return repository.ErrDuplicate
		}
	}
	req.PairKey = key
	req.Status = models.PartnerRequestStatusPending
	cp := *req
	s.reqs = append(s.reqs, &cp)
	return nil
}

func (s *fakeRequestStore) FindPending(_ context.Context, senderID, receiverID string) (*models.PartnerRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.reqs {
		if r.Status == models.PartnerRequestStatusPending && r.SenderID == senderID && r.ReceiverID == receiverID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *fakeRequestStore) FindPendingBetween(_ context.Context, a, b string) (*models.PartnerRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := models.PairKey(a, b)
	for _, r := range s.reqs {
		if r.Status == models.PartnerRequestStatusPending && r.PairKey == key {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *fakeRequestStore) HasPendingFromSender(_ context.Context, senderID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.reqs {
		if r.Status == models.PartnerRequestStatusPending && r.SenderID == senderID {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeRequestStore) UpdateStatus(_ context.Context, senderID, receiverID, from, to string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.reqs {
		if r.SenderID == senderID && r.ReceiverID == receiverID && r.Status == from {
			r.Status = to
			r.UpdatedAt = time.Now().UTC()
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeRequestStore) ListByUser(_ context.Context, userID string) ([]models.PartnerRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.PartnerRequest
	for _, r := range s.reqs {
		if r.SenderID == userID || r.ReceiverID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s *fakeRequestStore) DeleteTouching(_ context.Context, a, b string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.reqs[:0]
	for _, r := range s.reqs {
		touches := r.SenderID == a || r.ReceiverID == a || r.SenderID == b || r.ReceiverID == b
		if !touches {
			kept = append(kept, r)
		}
	}
	s.reqs = kept
	return nil
}

// statusOf lee el estado actual de un request exacto (helper de tests).
func (s *fakeRequestStore) statusOf(senderID, receiverID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.reqs {
		if r.SenderID == senderID && r.ReceiverID == receiverID {
			return r.Status
		}
	}
	return ""
}

type fakeLinkStore struct {
	mu    sync.Mutex
	links map[string]*models.PartnerLink // por userID

	failInsert error // si está seteado, InsertPair falla con este error
}

func newFakeLinkStore() *fakeLinkStore {
	return &fakeLinkStore{links: map[string]*models.PartnerLink{}}
}

func (s *fakeLinkStore) InsertPair(_ context.Context, a, b string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failInsert != nil {
		return s.failInsert
	}
	if _, ok := s.links[a]; ok {
		return repository.ErrDuplicate
	}
	if _, ok := s.links[b]; ok {
		return repository.ErrDuplicate
	}
	s.links[a] = &models.PartnerLink{UserID: a, PartnerID: b, Status: models.PartnerLinkStatusActive, CreatedAt: at}
	s.links[b] = &models.PartnerLink{UserID: b, PartnerID: a, Status: models.PartnerLinkStatusActive, CreatedAt: at}
	return nil
}

func (s *fakeLinkStore) FindActiveByUser(_ context.Context, userID string) (*models.PartnerLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.links[userID]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (s *fakeLinkStore) DeletePair(_ context.Context, a, b string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.links, a)
	delete(s.links, b)
	return nil
}

type fakePrefStore struct {
	mu    sync.Mutex
	prefs map[string]*models.PreferenceSet
}

func newFakePrefStore() *fakePrefStore {
	return &fakePrefStore{prefs: map[string]*models.PreferenceSet{}}
}

func (s *fakePrefStore) seed(userID string, genres, movies []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs[userID] = &models.PreferenceSet{UserID: userID, Genres: genres, Movies: movies}
}

func (s *fakePrefStore) Get(_ context.Context, userID string) (*models.PreferenceSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.prefs[userID]
	if !ok {
		return nil, nil
	}
	cp := *p
	cp.Genres = append([]string(nil), p.Genres...)
	cp.Movies = append([]string(nil), p.Movies...)
	return &cp, nil
}

func (s *fakePrefStore) Replace(_ context.Context, userID string, genres, movies []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.ensure(userID)
	if genres != nil {
		p.Genres = append([]string(nil), genres...)
	}
	if movies != nil {
		p.Movies = append([]string(nil), movies...)
	}
	return nil
}

func (s *fakePrefStore) Add(_ context.Context, userID string, genres, movies []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.ensure(userID)
	p.Genres = addToSet(p.Genres, genres)
	p.Movies = addToSet(p.Movies, movies)
	return nil
}

func (s *fakePrefStore) Remove(_ context.Context, userID string, genres, movies []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.prefs[userID]
	if !ok {
		return nil
	}
	p.Genres = pullAll(p.Genres, genres)
	p.Movies = pullAll(p.Movies, movies)
	return nil
}

// ensure requiere el lock tomado.
func (s *fakePrefStore) ensure(userID string) *models.PreferenceSet {
	p, ok := s.prefs[userID]
	if !ok {
		p = &models.PreferenceSet{UserID: userID}
		s.prefs[userID] = p
	}
	return p
}

func addToSet(dst, add []string) []string {
	seen := make(map[string]struct{}, len(dst))
	for _, v := range dst {
		seen[v] = struct{}{}
	}
	for _, v := range add {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			dst = append(dst, v)
		}
	}
	return dst
}

func pullAll(dst, rm []string) []string {
	drop := make(map[string]struct{}, len(rm))
	for _, v := range rm {
		drop[v] = struct{}{}
	}
	kept := dst[:0]
	for _, v := range dst {
		if _, ok := drop[v]; !ok {
			kept = append(kept, v)
		}
	}
	return kept
}

type fakeNoteStore struct {
	mu    sync.Mutex
	notes []*models.Notification
}

func (s *fakeNoteStore) Insert(_ context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *n
	s.notes = append(s.notes, &cp)
	return nil
}

func (s *fakeNoteStore) ListByUser(_ context.Context, userID string, limit int) ([]models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Notification
	for i := len(s.notes) - 1; i >= 0 && len(out) < limit; i-- {
		if s.notes[i].UserID == userID {
			out = append(out, *s.notes[i])
		}
	}
	return out, nil
}

func (s *fakeNoteStore) MarkRead(_ context.Context, userID string, id primitive.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.notes {
		if n.UserID == userID && n.ID == id {
			n.IsRead = true
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeNoteStore) kindsFor(userID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, n := range s.notes {
		if n.UserID == userID {
			out = append(out, n.Kind)
		}
	}
	return out
}

type fakeHistoryStore struct {
	mu     sync.Mutex
	titles []string
	seen   map[string]struct{}
}

func newFakeHistoryStore(titles ...string) *fakeHistoryStore {
	s := &fakeHistoryStore{seen: map[string]struct{}{}}
	for _, t := range titles {
		s.titles = append(s.titles, t)
		s.seen[t] = struct{}{}
	}
	return s
}

func (s *fakeHistoryStore) AllTitles(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.titles...), nil
}

func (s *fakeHistoryStore) AddTitles(_ context.Context, titles []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range titles {
		if _, ok := s.seen[t]; ok {
			continue
		}
		s.seen[t] = struct{}{}
		s.titles = append(s.titles, t)
	}
	return nil
}

type fakeMovieStore struct {
	mu     sync.Mutex
	movies map[string]*models.MovieDetail
}

func newFakeMovieStore() *fakeMovieStore {
	return &fakeMovieStore{movies: map[string]*models.MovieDetail{}}
}

func (s *fakeMovieStore) FindByTitle(_ context.Context, title string) (*models.MovieDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.movies[title]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (s *fakeMovieStore) InsertIfAbsent(_ context.Context, m *models.MovieDetail) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.movies[m.Title]; ok {
		return nil
	}
	cp := *m
	s.movies[m.Title] = &cp
	return nil
}

// fakeGenerator devuelve respuestas guionadas en orden; agotado el guion
// repite la última.
type fakeGenerator struct {
	mu      sync.Mutex
	script  []genResult
	calls   int
	prompts []string
}

type genResult struct {
	choices []string
	err     error
}

func (g *fakeGenerator) Generate(_ context.Context, _, user string, _ int, _ float64) ([]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.prompts = append(g.prompts, user)
	i := g.calls - 1
	if i >= len(g.script) {
		i = len(g.script) - 1
	}
	if i < 0 {
		return nil, nil
	}
	r := g.script[i]
	return r.choices, r.err
}

func (g *fakeGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

type fakeEnricher struct {
	mu     sync.Mutex
	full   bool
	queued []string
}

func (e *fakeEnricher) Enqueue(title string, _ []string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.full {
		return false
	}
	e.queued = append(e.queued, title)
	return true
}

func (e *fakeEnricher) sortedQueued() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := append([]string(nil), e.queued...)
	sort.Strings(out)
	return out
}

// fastGenOpts evita esperar los delays reales en tests.
func fastGenOpts() GenOptions {
	return GenOptions{Retries: 3, RetryDelay: time.Millisecond, Timeout: time.Second}
}
