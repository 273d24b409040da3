package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewHealthHandler(db *gorm.DB, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, rdb: rdb}
}

// Check reports liveness of the service and its backing stores.
func (h *HealthHandler) Check(c *gin.Context) {
	ctx := c.Request.Context()
	status := http.StatusOK
	out := gin.H{"status": "ok", "database": "ok", "redis": "ok"}

	if h.db != nil {
		sqlDB, err := h.db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			out["database"] = "down"
			out["status"] = "degraded"
			status = http.StatusServiceUnavailable
		}
	}

	if h.rdb != nil {
		if err := h.rdb.Ping(ctx).Err(); err != nil {
			out["redis"] = "down"
			out["status"] = "degraded"
			status = http.StatusServiceUnavailable
		}
	}

	c.JSON(status, out)
}
