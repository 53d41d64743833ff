package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/campuslend/campuslend-backend/api/controllers"
	"github.com/campuslend/campuslend-backend/api/middleware"
	"github.com/campuslend/campuslend-backend/internal/inventory"
	"github.com/campuslend/campuslend-backend/internal/lifecycle"
	"github.com/campuslend/campuslend-backend/internal/notifications"
	"github.com/campuslend/campuslend-backend/internal/reparations"
	"github.com/campuslend/campuslend-backend/internal/requests"
	"github.com/campuslend/campuslend-backend/pkg/config"
	"github.com/campuslend/campuslend-backend/pkg/db"
	"github.com/campuslend/campuslend-backend/pkg/enums"
	"github.com/campuslend/campuslend-backend/pkg/logger"
	pkgredis "github.com/campuslend/campuslend-backend/pkg/redis"
)

// Deps carries everything the HTTP surface needs wired in.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       db.Pinger
	Redis    *pkgredis.Client
	Registry prometheus.Gatherer

	Lifecycle     lifecycle.Service
	Requests      requests.Service
	Inventory     inventory.Service
	Reparations   reparations.Service
	Notifications notifications.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(deps.Redis, logg))

		r.Route("/v1/requests", func(r chi.Router) {
			r.Get("/", controllers.ListOwnRequests(deps.Requests, logg))
			r.Post("/", controllers.SubmitRequest(deps.Lifecycle, logg))
			r.Get("/{requestId}", controllers.RequestDetail(deps.Requests, logg))
			r.Post("/{requestId}/cancel", controllers.CancelRequest(deps.Lifecycle, logg))
			r.Post("/{requestId}/request-return", controllers.RequestReturn(deps.Lifecycle, logg))
		})

		r.Route("/v1/supervisor", func(r chi.Router) {
			r.Use(middleware.RequireAnyRole(logg, string(enums.RoleSupervisor), string(enums.RoleAdmin)))

			r.Get("/requests/pending", controllers.PendingRequests(deps.Requests, logg))
			r.Get("/requests/open", controllers.OpenRequests(deps.Requests, logg))
			r.Post("/requests/{requestId}/approve", controllers.ApproveRequest(deps.Lifecycle, logg))
			r.Post("/requests/{requestId}/reject", controllers.RejectRequest(deps.Lifecycle, logg))
			r.Post("/requests/{requestId}/handover", controllers.HandoverRequest(deps.Lifecycle, logg))
			r.Post("/requests/{requestId}/confirm-receive", controllers.ConfirmReceive(deps.Lifecycle, logg))
			r.Post("/requests/{requestId}/check", controllers.CheckItem(deps.Lifecycle, logg))
			r.Post("/items/{itemId}/repair-done", controllers.RepairDone(deps.Lifecycle, logg))
			r.Get("/reparations", controllers.ListReparations(deps.Reparations, logg))
			r.Get("/items/{itemId}/reparations", controllers.ItemReparationHistory(deps.Reparations, logg))
		})

		r.Route("/v1/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(deps.Notifications, logg))
			r.Post("/{notificationId}/read", controllers.MarkNotificationRead(deps.Notifications, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(deps.Notifications, logg))
		})

		r.Route("/admin/v1", func(r chi.Router) {
			r.Use(middleware.RequireRole(string(enums.RoleAdmin), logg))

			r.Route("/items", func(r chi.Router) {
				r.Get("/", controllers.AdminListItems(deps.Inventory, logg))
				r.Post("/", controllers.AdminCreateItem(deps.Inventory, logg))
				r.Get("/{itemId}", controllers.AdminGetItem(deps.Inventory, logg))
				r.Patch("/{itemId}", controllers.AdminUpdateItem(deps.Inventory, logg))
				r.Delete("/{itemId}", controllers.AdminDeactivateItem(deps.Inventory, logg))
			})

			r.Route("/locations", func(r chi.Router) {
				r.Get("/", controllers.AdminListLocations(deps.Inventory, logg))
				r.Post("/", controllers.AdminCreateLocation(deps.Inventory, logg))
				r.Patch("/{locationId}", controllers.AdminUpdateLocation(deps.Inventory, logg))
				r.Delete("/{locationId}", controllers.AdminDeleteLocation(deps.Inventory, logg))
			})
		})
	})

	return r
}
