package handlers

import (
	"net/http"

	"github.com/shelfswap/shelfswap/internal/database"
	"github.com/shelfswap/shelfswap/internal/redis"
)

type HealthHandler struct {
	db    *database.DBManager
	redis *redis.RedisClient
}

func NewHealthHandler(db *database.DBManager, redisClient *redis.RedisClient) *HealthHandler {
	return &HealthHandler{
		db:    db,
		redis: redisClient,
	}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	payload := map[string]interface{}{
		"status": "ok",
	}

	if h.db != nil {
		payload["database"] = h.db.Stats()
	}
	if h.redis != nil {
		if err := h.redis.Ping(r.Context()); err != nil {
			payload["status"] = "degraded"
			payload["redis"] = map[string]interface{}{"error": err.Error()}
		} else {
			payload["redis"] = h.redis.Stats()
		}
	}

	respondJSON(w, http.StatusOK, payload)
}
