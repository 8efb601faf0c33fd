// Package dependency provides dependency injection for the application.
package dependency

import (
	"gorm.io/gorm"

	"github.com/driverlog/backend/config"
	"github.com/driverlog/backend/internal/application/adapter"
	"github.com/driverlog/backend/internal/application/usecase/goal"
	"github.com/driverlog/backend/internal/infra/server/router"
	"github.com/driverlog/backend/internal/integration/adapters"
	"github.com/driverlog/backend/internal/integration/entrypoint/controller"
	"github.com/driverlog/backend/internal/integration/entrypoint/middleware"
	"github.com/driverlog/backend/internal/integration/persistence"
)

// Injector holds all application dependencies.
type Injector struct {
	Config *config.Config
	DB     *gorm.DB
	Router *router.Router
}

// NewInjector creates a new dependency injector with all dependencies wired.
// statsCache may be nil, which disables statistics caching.
func NewInjector(cfg *config.Config, db *gorm.DB, statsCache adapter.StatsCache) *Injector {
	// Create repositories
	goalRepo := persistence.NewGoalRepository(db)
	eventRepo := persistence.NewProgressEventRepository(db)
	vehicleRepo := persistence.NewVehicleRepository(db)
	statsRepo := persistence.NewGoalStatsRepository(db)
	factReader := persistence.NewFactReader(db)

	// Create adapters/services
	clock := adapters.NewSystemClock()
	tokenService := adapters.NewTokenService(cfg.JWT.Secret)

	// Create the progress engine shared by the goal use cases
	engine := goal.NewProgressEngine(goalRepo, eventRepo, factReader, clock, goal.EngineConfig{
		MinPercentDelta: cfg.Goal.MinPercentDelta,
	})

	// Create goal use cases
	listGoalsUseCase := goal.NewListGoalsUseCase(goalRepo, engine, clock)
	createGoalUseCase := goal.NewCreateGoalUseCase(goalRepo, vehicleRepo, engine, clock)
	getGoalUseCase := goal.NewGetGoalUseCase(goalRepo, eventRepo, engine, clock, cfg.Goal.HistoryPageSize)
	updateGoalUseCase := goal.NewUpdateGoalUseCase(goalRepo, vehicleRepo, engine, clock)
	deleteGoalUseCase := goal.NewDeleteGoalUseCase(goalRepo)
	statsUseCase := goal.NewGetGoalStatsUseCase(statsRepo, statsCache, clock, cfg.Goal.StatsCacheTTL)

	// Create controllers
	healthController := controller.NewHealthController(func() bool {
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	})

	goalController := controller.NewGoalController(
		listGoalsUseCase,
		createGoalUseCase,
		getGoalUseCase,
		updateGoalUseCase,
		deleteGoalUseCase,
		statsUseCase,
	)

	// Create middleware
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	// Create router
	r := router.NewRouter(
		healthController,
		goalController,
		authMiddleware,
	)

	return &Injector{
		Config: cfg,
		DB:     db,
		Router: r,
	}
}
