package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"lookbook/internal/http/handlers"
	"lookbook/internal/infra"
	"lookbook/internal/middleware"
)

// Options configures the router.
type Options struct {
	Config *infra.Config
	Logger infra.Logger
	// Static serves stored low-fidelity assets under /static when set.
	Static http.Handler
}

// NewRouter wires every route onto a chi router.
func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(opts.Logger),
	)
	if opts.Config != nil {
		r.Use(middleware.CORS(middleware.NewOrigins(opts.Config.CORSAllowedOrigins)))
	}

	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/openapi.json", app.OpenAPIJSON)
	r.Get("/v1/docs", app.OpenAPIDocs)
	if opts.Static != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", opts.Static))
	}

	r.Group(func(r chi.Router) {
		if opts.Config != nil {
			r.Use(middleware.AuthJWT(opts.Config.JWTSecret))
			r.Use(middleware.RateLimit(opts.Config.RateLimitPerMin, time.Minute))
		}

		r.Post("/v1/framing", app.Framing)
		r.Post("/v1/shots/plan", app.PlanShots)
		r.Get("/v1/poses", app.ListPoses)

		r.Route("/v1/sessions", func(r chi.Router) {
			r.Post("/", app.CreateSession)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", app.GetSession)
				r.Put("/state", app.UpdateState)
				r.Put("/options/{toggle}", app.SetOption)
				r.Put("/assets/{slot}", app.PutAsset)
				r.Delete("/assets/{slot}", app.DeleteAsset)
				r.Post("/analyze", app.Analyze)
				r.Post("/previews", app.AssemblePreviews)
				r.Post("/batches", app.StartBatch)
			})
		})

		r.Route("/v1/batches/{id}", func(r chi.Router) {
			r.Get("/", app.GetBatch)
			r.Post("/stop", app.StopBatch)
			r.Get("/stream", app.StreamBatch)
			r.Get("/archive", app.ArchiveBatch)
		})

		r.Get("/v1/credits", app.Balance)
		r.Get("/v1/history", app.ListHistory)
	})

	return r
}
