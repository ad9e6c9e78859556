// Package repository persists players. GormStore backs the relational
// drivers; MemoryStore serves the memory driver and tests.
package repository

import (
	"context"

	"rpgroster/models"
	"rpgroster/query"
)

// PlayerStore is the persistence boundary of the player service.
//
// Get returns errx.ErrNotFound for a missing id. Technical failures are
// reported as errx.ErrUnavailable with the cause attached.
type PlayerStore interface {
	Find(ctx context.Context, pred query.Predicate, page query.PageRequest) ([]models.Player, error)
	Count(ctx context.Context, pred query.Predicate) (int64, error)
	Get(ctx context.Context, id int64) (*models.Player, error)
	// Create inserts p and sets p.ID.
	Create(ctx context.Context, p *models.Player) error
	Save(ctx context.Context, p *models.Player) error
	Delete(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
}
