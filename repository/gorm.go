package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"rpgroster/errx"
	"rpgroster/models"
	"rpgroster/query"
)

type GormStore struct {
	db      *gorm.DB
	dialect query.Dialect
}

var _ PlayerStore = (*GormStore)(nil)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db:      db,
		dialect: query.Dialect(db.Dialector.Name()),
	}
}

// Migrate creates or updates the player table.
func (s *GormStore) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&models.Player{}); err != nil {
		return errx.ErrUnavailable.WithMsg("migrate player table").WithCause(err)
	}
	return nil
}

func (s *GormStore) scoped(ctx context.Context, pred query.Predicate) *gorm.DB {
	tx := s.db.WithContext(ctx).Model(&models.Player{})
	if pred == nil {
		return tx
	}
	if clause, args := pred.SQL(s.dialect); clause != "" {
		tx = tx.Where(clause, args...)
	}
	return tx
}

func (s *GormStore) Find(ctx context.Context, pred query.Predicate, page query.PageRequest) ([]models.Player, error) {
	offset, ok := page.Offset()
	if !ok {
		return []models.Player{}, nil
	}

	var players []models.Player
	tx := s.scoped(ctx, pred)
	if col := page.SortOrder().Column(); col != "id" {
		tx = tx.Order(col)
	}
	err := tx.Order("id").
		Offset(offset).
		Limit(page.Size).
		Find(&players).Error
	if err != nil {
		return nil, errx.ErrUnavailable.WithCause(err)
	}
	if players == nil {
		players = []models.Player{}
	}
	return players, nil
}

func (s *GormStore) Count(ctx context.Context, pred query.Predicate) (int64, error) {
	var n int64
	if err := s.scoped(ctx, pred).Count(&n).Error; err != nil {
		return 0, errx.ErrUnavailable.WithCause(err)
	}
	return n, nil
}

func (s *GormStore) Get(ctx context.Context, id int64) (*models.Player, error) {
	var p models.Player
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if err == nil {
		return &p, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errx.ErrNotFound.WithMsg("player not found").WithData("id", id)
	}
	return nil, errx.ErrUnavailable.WithData("id", id).WithCause(err)
}

func (s *GormStore) Create(ctx context.Context, p *models.Player) error {
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return errx.ErrUnavailable.WithCause(err)
	}
	return nil
}

func (s *GormStore) Save(ctx context.Context, p *models.Player) error {
	if err := s.db.WithContext(ctx).Save(p).Error; err != nil {
		return errx.ErrUnavailable.WithData("id", p.ID).WithCause(err)
	}
	return nil
}

func (s *GormStore) Delete(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&models.Player{}, id)
	if res.Error != nil {
		return errx.ErrUnavailable.WithData("id", id).WithCause(res.Error)
	}
	if res.RowsAffected == 0 {
		return errx.ErrNotFound.WithMsg("player not found").WithData("id", id)
	}
	return nil
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return errx.ErrUnavailable.WithCause(err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return errx.ErrUnavailable.WithCause(err)
	}
	return nil
}
