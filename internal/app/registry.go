package app

import (
	"database/sql"

	"shiftsync/internal/employee"
	"shiftsync/internal/kiosk"
	"shiftsync/internal/messaging/kafka"
	"shiftsync/internal/middleware"
	"shiftsync/internal/preferences"
	"shiftsync/internal/ratehistory"
	"shiftsync/internal/session"
	"shiftsync/internal/timeclock"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	logger := zap.L()

	router.Use(middleware.RequestID())

	// --- Repositories ---
	employeeRepo := employee.NewRepository(gormDB)
	rateRepo := ratehistory.NewRepository(gormDB)
	sessionRepo := session.NewRepository(gormDB)
	activeRepo := session.NewActiveRepository(gormDB)
	kioskRepo := kiosk.NewRepository(gormDB)
	preferencesRepo := preferences.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Services ---
	employeeService := employee.NewService(db, employeeRepo, rateRepo, sessionRepo, activeRepo, outboxRepo, rdb)
	timeclockService := timeclock.NewService(db, employeeRepo, sessionRepo, activeRepo, rateRepo, outboxRepo)
	kioskService := kiosk.NewService(db, kioskRepo)
	preferencesService := preferences.NewService(preferencesRepo)

	// --- Handlers ---
	employeeHandler := employee.NewHandler(employeeService)
	timeclockHandler := timeclock.NewHandler(timeclockService)
	kioskHandler := kiosk.NewHandler(kioskService)
	preferencesHandler := preferences.NewHandler(preferencesService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		employee.RegisterRoutes(api, employeeHandler, rdb, logger)
		timeclock.RegisterRoutes(api, timeclockHandler, rdb, logger)
		kiosk.RegisterRoutes(api, kioskHandler, rdb, logger)
		preferences.RegisterRoutes(api, preferencesHandler, logger)
	}

	return nil
}
