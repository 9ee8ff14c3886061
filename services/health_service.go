package services

import (
	"botica_server/config"
	"botica_server/database"
	"time"

	"github.com/MonkyMars/gecho"
)

var startedAt = time.Now()

type HealthService struct {
	logger *gecho.Logger
	db     *database.DB
	cache  *CacheService
}

func NewHealthService(logger *gecho.Logger, db *database.DB, cache *CacheService) *HealthService {
	return &HealthService{
		logger: logger,
		db:     db,
		cache:  cache,
	}
}

// ServerHealth reports process-level status for the dashboard.
func (hs *HealthService) ServerHealth() map[string]any {
	return map[string]any{
		"status":      "ok",
		"environment": config.GetConfig().Server.Environment,
		"uptime":      time.Since(startedAt).String(),
	}
}

// DatabaseHealth pings the database and reports pool statistics.
func (hs *HealthService) DatabaseHealth() (map[string]any, error) {
	if err := hs.db.Health(); err != nil {
		return nil, err
	}

	stats := hs.db.GetStats()
	return map[string]any{
		"status":           "ok",
		"open_connections": stats.OpenConnections,
		"in_use":           stats.InUse,
		"idle":             stats.Idle,
	}, nil
}

// CacheHealth pings redis. Degraded cache is reported, not fatal.
func (hs *HealthService) CacheHealth() error {
	return hs.cache.Health()
}
