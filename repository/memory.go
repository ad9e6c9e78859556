package repository

import (
	"context"
	"slices"
	"sync"

	"rpgroster/errx"
	"rpgroster/models"
	"rpgroster/query"
)

// MemoryStore keeps players in a map guarded by a RWMutex.
type MemoryStore struct {
	mu      sync.RWMutex
	players map[int64]models.Player
	nextID  int64
}

var _ PlayerStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		players: make(map[int64]models.Player),
		nextID:  1,
	}
}

// matching returns copies of the players accepted by pred. Caller holds mu.
func (s *MemoryStore) matching(pred query.Predicate) []models.Player {
	out := make([]models.Player, 0, len(s.players))
	for _, p := range s.players {
		if pred == nil || pred.Match(&p) {
			out = append(out, p)
		}
	}
	return out
}

func (s *MemoryStore) Find(ctx context.Context, pred query.Predicate, page query.PageRequest) ([]models.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.matching(pred)
	order := page.SortOrder()
	slices.SortFunc(all, func(a, b models.Player) int {
		switch {
		case order.Less(&a, &b):
			return -1
		case order.Less(&b, &a):
			return 1
		}
		return 0
	})

	start, ok := page.Offset()
	if !ok || start >= len(all) {
		return []models.Player{}, nil
	}
	end := len(all)
	if page.Size < end-start {
		end = start + page.Size
	}
	return all[start:end], nil
}

func (s *MemoryStore) Count(ctx context.Context, pred query.Predicate) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.matching(pred))), nil
}

func (s *MemoryStore) Get(ctx context.Context, id int64) (*models.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.players[id]
	if !ok {
		return nil, errx.ErrNotFound.WithMsg("player not found").WithData("id", id)
	}
	return &p, nil
}

func (s *MemoryStore) Create(ctx context.Context, p *models.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.nextID
	s.nextID++
	s.players[p.ID] = *p
	return nil
}

func (s *MemoryStore) Save(ctx context.Context, p *models.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.players[p.ID]; !ok {
		return errx.ErrNotFound.WithMsg("player not found").WithData("id", p.ID)
	}
	s.players[p.ID] = *p
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.players[id]; !ok {
		return errx.ErrNotFound.WithMsg("player not found").WithData("id", id)
	}
	delete(s.players, id)
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}
