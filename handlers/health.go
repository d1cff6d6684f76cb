package handlers

import (
	"context"
	"net/http"
	"time"

	"devmasters/service"
)

type HealthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}

type HealthHandler struct {
	service *service.ProjectService
}

func NewHealthHandler(svc *service.ProjectService) *HealthHandler {
	return &HealthHandler{service: svc}
}

func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Bem-vindo à DevMasters API!"})
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), time.Second)
	defer cancel()

	if err := h.service.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unhealthy", Store: "down"})
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "healthy", Store: "up"})
}
