package handler

import (
	"net/http"

	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/cache"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type CacheHandler struct{ store *cache.Store }

func NewCacheHandler(store *cache.Store) *CacheHandler {
	return &CacheHandler{store: store}
}

// Purge godoc
// @Summary      Drop every cached read
// @Description  Products, categories and tags are reloaded from the database on next access.
// @Tags         cache
// @Success      204
// @Router       /v1/cache/purge [post]
func (h *CacheHandler) Purge(c *gin.Context) {
	h.store.InvalidateAll(c.Request.Context())
	log.Info().Str("backend", h.store.Backend()).Msg("cache purged")
	c.Status(http.StatusNoContent)
}
