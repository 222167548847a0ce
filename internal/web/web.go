// Package web serves the server-rendered hbnb page.
package web

import (
	"bytes"
	"cmp"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"slices"

	"github.com/google/uuid"

	"github.com/FACorreiaa/go-hbnb/internal/models"
	"github.com/FACorreiaa/go-hbnb/internal/storage"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templatesFS, "templates/hbnb.html"))

type stateView struct {
	*models.State
	Cities []*models.City
}

type placeView struct {
	*models.Place
	Owner string
}

// Page is the data rendered by the hbnb template.
type Page struct {
	States    []stateView
	Amenities []*models.Amenity
	Places    []placeView
	// CacheID busts browser caches of the static assets.
	CacheID string
}

type Handler struct {
	store  storage.Engine
	logger *slog.Logger
}

func NewHandler(store storage.Engine, logger *slog.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// BuildPage collects states with their cities, amenities and places, each
// sorted by name.
func (h *Handler) BuildPage(r *http.Request) Page {
	ctx := r.Context()
	cities := h.store.All(ctx, models.ClassCity)
	users := h.store.All(ctx, models.ClassUser)

	page := Page{CacheID: uuid.NewString()}
	for _, obj := range h.store.All(ctx, models.ClassState) {
		st := obj.(*models.State)
		stateCities := models.CitiesOf(cities, st.ID)
		slices.SortFunc(stateCities, func(a, b *models.City) int { return cmp.Compare(a.Name, b.Name) })
		page.States = append(page.States, stateView{State: st, Cities: stateCities})
	}
	slices.SortFunc(page.States, func(a, b stateView) int { return cmp.Compare(a.Name, b.Name) })

	for _, obj := range h.store.All(ctx, models.ClassAmenity) {
		page.Amenities = append(page.Amenities, obj.(*models.Amenity))
	}
	slices.SortFunc(page.Amenities, func(a, b *models.Amenity) int { return cmp.Compare(a.Name, b.Name) })

	for _, obj := range h.store.All(ctx, models.ClassPlace) {
		p := obj.(*models.Place)
		view := placeView{Place: p}
		if u, ok := users[models.KeyFor(models.ClassUser, p.UserID)].(*models.User); ok {
			view.Owner = u.FirstName + " " + u.LastName
		}
		page.Places = append(page.Places, view)
	}
	slices.SortFunc(page.Places, func(a, b placeView) int { return cmp.Compare(a.Name, b.Name) })
	return page
}

// HBNB renders the page.
func (h *Handler) HBNB(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, h.BuildPage(r)); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to render page", slog.Any("error", err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to write page", slog.Any("error", err))
	}
}
