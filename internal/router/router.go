package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/FACorreiaa/go-hbnb/docs"

	appLogger "github.com/FACorreiaa/go-hbnb/app/logger"
	"github.com/FACorreiaa/go-hbnb/internal/api"
	"github.com/FACorreiaa/go-hbnb/internal/container"
)

const defaultTimeout = 60 * time.Second

// SetupRouter builds the HTTP handler: /api/v1, the /hbnb page and the
// swagger UI, behind the server-wide middleware stack.
func SetupRouter(c *container.Container) chi.Router {
	timeout := c.Config.Server.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	origins := c.Config.Server.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewMux()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(appLogger.StructuredLogger(c.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(middleware.Timeout(timeout))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		api.ErrorResponse(w, r, http.StatusNotFound, api.MsgNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		api.ErrorResponse(w, r, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
			MaxAge:         300,
		}))
		r.Use(c.IndexHandler.InvalidateStats)

		r.Get("/status", c.IndexHandler.Status)
		r.Get("/stats", c.IndexHandler.Stats)

		r.Route("/states", func(r chi.Router) {
			r.Get("/", c.StateHandler.GetStates)
			r.Post("/", c.StateHandler.CreateState)
			r.Route("/{stateID}", func(r chi.Router) {
				r.Get("/", c.StateHandler.GetState)
				r.Put("/", c.StateHandler.UpdateState)
				r.Delete("/", c.StateHandler.DeleteState)
				r.Get("/cities", c.CityHandler.GetStateCities)
				r.Post("/cities", c.CityHandler.CreateCity)
			})
		})

		r.Route("/cities/{cityID}", func(r chi.Router) {
			r.Get("/", c.CityHandler.GetCity)
			r.Put("/", c.CityHandler.UpdateCity)
			r.Delete("/", c.CityHandler.DeleteCity)
			r.Get("/places", c.PlaceHandler.GetCityPlaces)
			r.Post("/places", c.PlaceHandler.CreatePlace)
		})

		r.Route("/amenities", func(r chi.Router) {
			r.Get("/", c.AmenityHandler.GetAmenities)
			r.Post("/", c.AmenityHandler.CreateAmenity)
			r.Get("/{amenityID}", c.AmenityHandler.GetAmenity)
			r.Put("/{amenityID}", c.AmenityHandler.UpdateAmenity)
			r.Delete("/{amenityID}", c.AmenityHandler.DeleteAmenity)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", c.UserHandler.GetUsers)
			r.Post("/", c.UserHandler.CreateUser)
			r.Get("/{userID}", c.UserHandler.GetUser)
			r.Put("/{userID}", c.UserHandler.UpdateUser)
			r.Delete("/{userID}", c.UserHandler.DeleteUser)
		})

		r.Post("/places_search", c.PlaceHandler.SearchPlaces)
		r.Route("/places/{placeID}", func(r chi.Router) {
			r.Get("/", c.PlaceHandler.GetPlace)
			r.Put("/", c.PlaceHandler.UpdatePlace)
			r.Delete("/", c.PlaceHandler.DeletePlace)
			r.Get("/reviews", c.ReviewHandler.GetPlaceReviews)
			r.Post("/reviews", c.ReviewHandler.CreateReview)
			r.Get("/amenities", c.PlaceHandler.GetPlaceAmenities)
			r.Post("/amenities/{amenityID}", c.PlaceHandler.LinkAmenity)
			r.Delete("/amenities/{amenityID}", c.PlaceHandler.UnlinkAmenity)
		})

		r.Route("/reviews/{reviewID}", func(r chi.Router) {
			r.Get("/", c.ReviewHandler.GetReview)
			r.Put("/", c.ReviewHandler.UpdateReview)
			r.Delete("/", c.ReviewHandler.DeleteReview)
		})
	})

	r.Get("/hbnb", c.WebHandler.HBNB)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	return r
}
