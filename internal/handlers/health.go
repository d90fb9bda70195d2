package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Pinger is satisfied by the cache service.
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

// poolStater is optionally implemented by the cache service.
type poolStater interface {
	GetStats() *redis.PoolStats
}

type HealthHandler struct {
	db    *gorm.DB
	cache Pinger
}

// NewHealthHandler takes a nil cache when Redis is not configured.
func NewHealthHandler(db *gorm.DB, cache Pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	services := fiber.Map{"database": "connected", "redis": "disabled"}
	status := fiber.StatusOK

	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.UserContext())
	}
	if err != nil {
		services["database"] = "unavailable"
		status = fiber.StatusServiceUnavailable
	}

	if h.cache != nil {
		services["redis"] = "connected"
		if err := h.cache.HealthCheck(c.UserContext()); err != nil {
			// the inbox falls back to the database, so this only degrades
			services["redis"] = "unavailable"
		}
	}

	body := fiber.Map{"services": services}
	if ps, ok := h.cache.(poolStater); ok {
		if st := ps.GetStats(); st != nil {
			body["redis_pool"] = fiber.Map{
				"hits":        st.Hits,
				"misses":      st.Misses,
				"timeouts":    st.Timeouts,
				"total_conns": st.TotalConns,
				"idle_conns":  st.IdleConns,
			}
		}
	}

	state := "ok"
	if status != fiber.StatusOK {
		state = "down"
	}
	body["status"] = state
	body["version"] = "1.0.0"
	return c.Status(status).JSON(body)
}
