package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/VamsiDavuluri/vendor-inventory/api/controllers"
	"github.com/VamsiDavuluri/vendor-inventory/api/middleware"
	"github.com/VamsiDavuluri/vendor-inventory/internal/catalog"
	"github.com/VamsiDavuluri/vendor-inventory/internal/gallery"
	"github.com/VamsiDavuluri/vendor-inventory/pkg/config"
	"github.com/VamsiDavuluri/vendor-inventory/pkg/db"
	"github.com/VamsiDavuluri/vendor-inventory/pkg/logger"
	"github.com/VamsiDavuluri/vendor-inventory/pkg/redis"
	"github.com/VamsiDavuluri/vendor-inventory/pkg/storage/gcs"
)

// Deps carries everything the HTTP surface needs. Cache is optional.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	Gallery  *gallery.Service
	Catalog  catalog.Directory
	DB       *db.Client
	Cache    *redis.Client
	Store    *gcs.Client
	Registry *prometheus.Registry
}

// New assembles the chi router.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer(deps.Logger))
	r.Use(middleware.RequestID(deps.Logger))
	r.Use(middleware.Logging(deps.Logger))
	r.Use(middleware.CORS())

	var cacheP redis.Pinger
	if deps.Cache != nil {
		cacheP = deps.Cache
	}

	r.Get("/health/live", controllers.HealthLive(deps.Config))
	r.Get("/health/ready", controllers.HealthReady(deps.Config, deps.Logger, deps.DB, cacheP, deps.Store))

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/vendors/{vendorId}", func(r chi.Router) {
		r.Get("/products", controllers.ListProducts(deps.Catalog, deps.Logger))
		r.Get("/products/status", controllers.ListProductsWithStatus(deps.Gallery, deps.Logger))
		r.Get("/qrcode", controllers.VendorQRCode(deps.Catalog, deps.Logger, deps.Config.App.PortalBaseURL))

		r.Route("/products/{productId}/images", func(r chi.Router) {
			r.Get("/", controllers.GetGallery(deps.Gallery, deps.Logger))
			r.Post("/", controllers.MutateGallery(deps.Gallery, deps.Logger, deps.Config.Media.MaxUploadBytes))
		})
	})

	return r
}
