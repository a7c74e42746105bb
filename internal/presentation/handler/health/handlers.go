package health

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/Ale8Daniel8Armas/ChatMultisalaBack/internal/infrastructure/json"
	"github.com/Ale8Daniel8Armas/ChatMultisalaBack/internal/session"
)

var (
	startTime       = time.Now()
	healthy   int32 = 1 // 1: healthy, 0 = unhealthy
)

type Handler struct {
	manager *session.Manager
}

func NewHandler(manager *session.Manager) *Handler {
	return &Handler{
		manager: manager,
	}
}

// GetHealth godoc
// @Summary      Health check
// @Description  Returns the health status of the API, including uptime and room count
// @Tags         health
// @Produce      json
// @Success      200 {object} healthResponse "Service is healthy"
// @Failure      503 {object} healthResponse "Service is unhealthy"
// @Router       /health [get]
// @Router       /healthz [get]
// @Router       /ready [get]
// @Router       /live [get]
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(startTime).Round(time.Second).String(),
		Rooms:     h.manager.RoomCount(),
	}

	if atomic.LoadInt32(&healthy) == 0 {
		resp.Status = "unhealthy"
		json.Write(w, http.StatusServiceUnavailable, resp)
		return
	}

	json.Write(w, http.StatusOK, resp)
}
