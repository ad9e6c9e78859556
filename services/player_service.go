package services

import (
	"context"

	"go.uber.org/zap"

	"rpgroster/errx"
	"rpgroster/models"
	"rpgroster/query"
	"rpgroster/repository"
)

// PlayerService is the query and mutation entry point for players. It holds
// no per-request state; concurrent writers are serialized by the store.
type PlayerService struct {
	store     repository.PlayerStore
	validator *Validator
	cache     PlayerCache
	events    EventPublisher
	log       *zap.Logger
}

// NewPlayerService wires the service. cache and events may be nil.
func NewPlayerService(store repository.PlayerStore, cache PlayerCache, events EventPublisher, log *zap.Logger) *PlayerService {
	if cache == nil {
		cache = nopCache{}
	}
	if events == nil {
		events = nopPublisher{}
	}
	return &PlayerService{
		store:     store,
		validator: NewValidator(),
		cache:     cache,
		events:    events,
		log:       log.Named("players"),
	}
}

// List returns one page of the players matching filter. A page past the end
// is empty.
func (s *PlayerService) List(ctx context.Context, filter query.PlayerFilter, page query.PageRequest) ([]models.Player, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	return s.store.Find(ctx, filter.Predicate(), page)
}

// Count returns the number of players matching filter, ignoring pagination.
func (s *PlayerService) Count(ctx context.Context, filter query.PlayerFilter) (int, error) {
	n, err := s.store.Count(ctx, filter.Predicate())
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (s *PlayerService) Create(ctx context.Context, payload *models.PlayerPayload) (*models.Player, error) {
	if payload == nil {
		return nil, errx.ErrBadRequest.WithMsg("player body is required")
	}
	if payload.ID != nil {
		return nil, errx.ErrBadRequest.WithMsg("id must not be set on create").WithData("field", "id")
	}
	if payload.Race == nil {
		return nil, fieldError("race", "is required")
	}
	if payload.Profession == nil {
		return nil, fieldError("profession", "is required")
	}
	if err := s.validator.Validate(payload); err != nil {
		return nil, err
	}

	p := &models.Player{}
	payload.ApplyTo(p)
	models.DeriveProgression(p)
	if err := s.store.Create(ctx, p); err != nil {
		return nil, err
	}

	s.log.Info("player created", zap.Int64("id", p.ID))
	s.events.Publish(PlayerEvent{Type: EventCreated, Player: *p})
	return p, nil
}

func validateID(id int64) error {
	if id < 1 {
		return errx.ErrBadRequest.WithMsg("id must be a positive integer").WithData("field", "id")
	}
	return nil
}

// Get returns the player with id, consulting the cache first.
func (s *PlayerService) Get(ctx context.Context, id int64) (*models.Player, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	if cached, err := s.cache.Get(ctx, id); err != nil {
		s.log.Warn("player cache read failed", zap.Int64("id", id), zap.Error(err))
	} else if cached != nil {
		return cached, nil
	}

	p, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, p); err != nil {
		s.log.Warn("player cache write failed", zap.Int64("id", id), zap.Error(err))
	}
	return p, nil
}

// load reads straight from the store for read-modify-write paths.
func (s *PlayerService) load(ctx context.Context, id int64) (*models.Player, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, id)
}

// Update overwrites every field set in patch except id, then validates and
// re-derives the merged record before saving it.
func (s *PlayerService) Update(ctx context.Context, id int64, patch *models.PlayerPayload) (*models.Player, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	candidate := models.PayloadOf(p)
	candidate.Merge(patch)
	if err := s.validator.Validate(candidate); err != nil {
		return nil, err
	}
	candidate.ApplyTo(p)
	models.DeriveProgression(p)

	if err := s.store.Save(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)

	s.log.Info("player updated", zap.Int64("id", id))
	s.events.Publish(PlayerEvent{Type: EventUpdated, Player: *p})
	return p, nil
}

// Delete removes the player and returns its last state.
func (s *PlayerService) Delete(ctx context.Context, id int64) (*models.Player, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)

	s.log.Info("player deleted", zap.Int64("id", id))
	s.events.Publish(PlayerEvent{Type: EventDeleted, Player: *p})
	return p, nil
}

func (s *PlayerService) invalidate(ctx context.Context, id int64) {
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.log.Warn("player cache invalidate failed", zap.Int64("id", id), zap.Error(err))
	}
}

// Ping reports whether the backing store is reachable.
func (s *PlayerService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
