package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/camden-git/yearbookbackend/apperrors"
	"github.com/camden-git/yearbookbackend/auth"
	"github.com/camden-git/yearbookbackend/config"
	"github.com/camden-git/yearbookbackend/realtime"
	"github.com/camden-git/yearbookbackend/services"
)

// RouterDeps is everything NewRouter wires into the HTTP surface. Hub may be
// nil, in which case /ws is not mounted.
type RouterDeps struct {
	Config   config.Config
	Log      *zap.Logger
	DB       *gorm.DB
	Guard    *auth.AdminGuard
	Comments *services.CommentService
	Gallery  *services.GalleryService
	People   *services.PersonService
	Hub      *realtime.Hub
}

// NewRouter builds the chi router. All routes live under Config.APIPrefix.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   deps.Config.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(deps.Log.Named("http")))
	r.Use(middleware.Recoverer)
	r.Use(corsHandler.Handler)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteAPIError(w, http.StatusNotFound, string(apperrors.KindNotFound), "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
	})

	commentHandler := &CommentHandler{Comments: deps.Comments}
	galleryHandler := &GalleryHandler{Gallery: deps.Gallery}
	adminPersonHandler := &AdminPersonHandler{People: deps.People}
	healthHandler := &HealthHandler{DB: deps.DB, Log: deps.Log}
	requireAdmin := RequireAdmin(deps.Guard, deps.Log.Named("auth"))

	timeout := deps.Config.RequestTimeout
	if timeout <= 0 {
		timeout = config.DefaultRequestTimeout
	}

	routes := func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(timeout))

			r.Get("/health", healthHandler.Health)

			r.Route("/comments", func(r chi.Router) {
				r.Use(ExtractEditToken)
				r.Post("/", commentHandler.CreateComment)
				r.Get("/{personId}", commentHandler.ListComments)
				r.Put("/{commentId}", commentHandler.UpdateComment)
				r.Delete("/{commentId}", commentHandler.DeleteComment)
			})

			r.Route("/gallery", func(r chi.Router) {
				r.Get("/state", galleryHandler.GetState)
				r.With(requireAdmin).Put("/state", galleryHandler.SetState)
				r.Get("/people", galleryHandler.ListPeople)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(requireAdmin)
				r.Route("/people", func(r chi.Router) {
					r.Get("/", adminPersonHandler.ListPeople)
					r.Post("/", adminPersonHandler.CreatePerson)
					r.Put("/{personId}", adminPersonHandler.UpdatePerson)
					r.Delete("/{personId}", adminPersonHandler.DeletePerson)
				})
			})
		})

		// websocket connections outlive the request timeout
		if deps.Hub != nil {
			r.Get("/ws", deps.Hub.ServeWS)
		}
	}

	if deps.Config.APIPrefix == "" {
		routes(r)
	} else {
		r.Route(deps.Config.APIPrefix, routes)
	}

	return r
}
