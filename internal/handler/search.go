package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"signrecipes/internal/apierror"
	"signrecipes/internal/dto"
	"signrecipes/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const searchCacheTTL = 30 * time.Second

type SearchHandler struct {
	svc service.SearchService
	rdb *redis.Client
}

func NewSearchHandler(svc service.SearchService, rdb *redis.Client) *SearchHandler {
	return &SearchHandler{svc: svc, rdb: rdb}
}

// Search runs a fuzzy catalog lookup. Results are cached briefly in redis
// keyed by the normalized term; the cache is best effort and a cold or
// unavailable redis falls through to the live lookup.
func (h *SearchHandler) Search(c *gin.Context) {
	term := strings.TrimSpace(c.Query("q"))
	if term == "" {
		c.JSON(http.StatusBadRequest, apierror.New("Query parameter 'q' is required"))
		return
	}

	cacheKey := "search:" + strings.ToLower(term)
	if h.rdb != nil {
		if cached, err := h.rdb.Get(c.Request.Context(), cacheKey).Result(); err == nil {
			var resp dto.SearchResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				c.JSON(http.StatusOK, resp)
				return
			}
		}
	}

	resp, err := h.svc.Search(c.Request.Context(), term)
	if err != nil {
		writeError(c, err)
		return
	}

	if h.rdb != nil {
		if payload, err := json.Marshal(resp); err == nil {
			if err := h.rdb.Set(context.Background(), cacheKey, payload, searchCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Str("key", cacheKey).Msg("search cache write failed")
			}
		}
	}

	c.JSON(http.StatusOK, resp)
}
