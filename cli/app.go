package cli

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"rpgroster/config"
	"rpgroster/handlers"
	"rpgroster/middleware"
	"rpgroster/models"
	"rpgroster/query"
	"rpgroster/repository"
	"rpgroster/routes"
	"rpgroster/services"
)

// App holds the wired service graph behind the HTTP router.
type App struct {
	Router  *gin.Engine
	Hub     *services.Hub
	Players *services.PlayerService

	db    *gorm.DB
	redis *redis.Client
	log   *zap.Logger
}

// openStore returns the store for cfg.Driver and the gorm handle backing it,
// which is nil for the memory driver.
func openStore(ctx context.Context, cfg config.DatabaseConfig, log *zap.Logger) (repository.PlayerStore, *gorm.DB, error) {
	if cfg.Driver == config.DriverMemory {
		return repository.NewMemoryStore(), nil, nil
	}

	db, err := config.InitDB(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	store := repository.NewGormStore(db)
	if cfg.AutoMigrate {
		if err := store.Migrate(ctx); err != nil {
			if sqlDB, dbErr := db.DB(); dbErr == nil {
				_ = sqlDB.Close()
			}
			return nil, nil, err
		}
	}
	return store, db, nil
}

func defaultPage(cfg config.PagingConfig) query.PageRequest {
	page := query.DefaultPage()
	if cfg.DefaultSize > 0 {
		page.Size = cfg.DefaultSize
	}
	if order, err := models.ParsePlayerOrder(cfg.DefaultOrder); err == nil {
		page.Order = order
	}
	return page
}

// NewApp opens the store and cache named by cfg and builds the router. The
// caller runs Hub and must Close the app.
func NewApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	store, db, err := openStore(ctx, cfg.Database, log)
	if err != nil {
		return nil, err
	}

	app := &App{db: db, log: log}

	var cache services.PlayerCache
	if cfg.Redis.Enabled {
		app.redis = config.InitRedis(cfg.Redis)
		if err := app.redis.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable, cache calls will fail until it recovers", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		cache = services.NewRedisPlayerCache(app.redis, cfg.Redis.TTL)
	}

	app.Hub = services.NewHub(log)
	app.Players = services.NewPlayerService(store, cache, app.Hub, log)

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	router := gin.New()
	router.Use(middleware.Recovery(log), middleware.AccessLog(log), middleware.CORS())
	routes.SetupRoutes(
		router,
		handlers.NewPlayerHandler(app.Players, defaultPage(cfg.Paging), log.Named("handler")),
		handlers.NewHealthHandler(app.Players, log),
		app.Hub,
		log,
	)
	app.Router = router

	return app, nil
}

func (a *App) Close() error {
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}
	return errors.Join(errs...)
}
