package index

import (
	"log/slog"
	"net/http"

	"github.com/FACorreiaa/go-hbnb/internal/api"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	Status(w http.ResponseWriter, r *http.Request)
	Stats(w http.ResponseWriter, r *http.Request)
	InvalidateStats(next http.Handler) http.Handler
}

type HandlerImpl struct {
	logger  *slog.Logger
	service Service
}

func NewHandler(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		logger:  logger,
		service: service,
	}
}

// Status godoc
// @Summary      API status
// @Tags         Index
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /status [get]
func (h *HandlerImpl) Status(w http.ResponseWriter, r *http.Request) {
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]string{"status": "OK"})
}

// Stats godoc
// @Summary      Number of objects per resource
// @Tags         Index
// @Produce      json
// @Success      200 {object} map[string]int
// @Router       /stats [get]
func (h *HandlerImpl) Stats(w http.ResponseWriter, r *http.Request) {
	api.WriteJSONResponse(w, r, http.StatusOK, h.service.Stats(r.Context()))
}

// InvalidateStats is a middleware dropping the cached stats around every
// request that may change the stored objects.
func (h *HandlerImpl) InvalidateStats(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch:
		default:
			next.ServeHTTP(w, r)
			return
		}
		h.service.InvalidateStats()
		next.ServeHTTP(w, r)
		h.service.InvalidateStats()
		h.logger.DebugContext(r.Context(), "Stats cache invalidated", slog.String("path", r.URL.Path))
	})
}
