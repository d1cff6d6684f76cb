package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"devmasters/config"
	"devmasters/models"
	"devmasters/query"
	"devmasters/service"
)

const maxBodyBytes = 1 << 20

type ProjectHandler struct {
	service *service.ProjectService
	limits  query.Defaults
	log     *zap.Logger
}

func NewProjectHandler(cfg *config.Config, svc *service.ProjectService, log *zap.Logger) *ProjectHandler {
	return &ProjectHandler{
		service: svc,
		limits:  query.Defaults{Limit: cfg.DefaultLimit, MaxLimit: cfg.MaxLimit},
		log:     log,
	}
}

func (h *ProjectHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	params, err := query.ParseParams(r.URL.Query(), h.limits)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	res, err := h.service.List(r.Context(), params)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, err := decodeInput(w, r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	p, err := h.service.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/projects/%d", p.ID))
	writeJSON(w, http.StatusCreated, p)
}

func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	in, err := decodeInput(w, r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	p, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func projectID(r *http.Request) (uint, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 0)
	if err != nil {
		return 0, &badRequest{msg: fmt.Sprintf("invalid project id %q", raw)}
	}
	return uint(id), nil
}

func decodeInput(w http.ResponseWriter, r *http.Request) (models.ProjectInput, error) {
	var in models.ProjectInput

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	// Wrongly typed fields decode as invalid and are reported by validation.
	if err := dec.Decode(&in); err != nil {
		if errors.Is(err, io.EOF) {
			return in, &badRequest{msg: "request body is required"}
		}
		return in, &badRequest{msg: "invalid request body: " + err.Error()}
	}
	if dec.More() {
		return in, &badRequest{msg: "request body must contain a single JSON object"}
	}
	return in, nil
}
