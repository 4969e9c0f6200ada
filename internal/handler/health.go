package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/cache"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health returns a JSON health check response.
// Checks DB and cache connectivity; never exposes credentials or internals.
// rdb is nil when the service runs without Redis.
func Health(db *gorm.DB, store *cache.Store, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		cacheStatus := "connected"
		if store.Ping(ctx) != nil {
			cacheStatus = "error"
		}

		status := http.StatusOK
		if dbStatus != "connected" || cacheStatus != "connected" {
			status = http.StatusServiceUnavailable
		}

		body := gin.H{
			"ok":            status == http.StatusOK,
			"db":            dbStatus,
			"cache":         cacheStatus,
			"cache_backend": store.Backend(),
		}
		if rdb != nil {
			if n, err := worker.DLQLength(ctx, rdb, worker.QueueReconcile); err == nil {
				body["dead_letters"] = n
			}
		}
		c.JSON(status, body)
	}
}
