package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wahiba-atelier/atelier-backend/api/controllers"
	"github.com/wahiba-atelier/atelier-backend/api/middleware"
	"github.com/wahiba-atelier/atelier-backend/internal/availability"
	"github.com/wahiba-atelier/atelier-backend/internal/cart"
	"github.com/wahiba-atelier/atelier-backend/internal/categories"
	"github.com/wahiba-atelier/atelier-backend/internal/checkout"
	"github.com/wahiba-atelier/atelier-backend/internal/contacts"
	"github.com/wahiba-atelier/atelier-backend/internal/dresses"
	"github.com/wahiba-atelier/atelier-backend/internal/revenues"
	"github.com/wahiba-atelier/atelier-backend/internal/schedules"
	"github.com/wahiba-atelier/atelier-backend/internal/siteimages"
	"github.com/wahiba-atelier/atelier-backend/pkg/config"
	"github.com/wahiba-atelier/atelier-backend/pkg/logger"
	pkgredis "github.com/wahiba-atelier/atelier-backend/pkg/redis"
)

// Services groups the domain services served over HTTP.
type Services struct {
	Dresses      dresses.Service
	Categories   categories.Service
	Availability availability.Service
	Cart         cart.Service
	Checkout     checkout.Service
	Schedules    schedules.Service
	Contacts     contacts.Service
	Revenues     revenues.Service
	SiteImages   siteimages.Service
	DeadLetters  controllers.DeadLetterLister
}

// Infra groups the cross-cutting dependencies of the router.
type Infra struct {
	Idempotency pkgredis.IdempotencyStore
	Health      map[string]controllers.Pinger
	Metrics     prometheus.Gatherer
	Observer    middleware.RequestObserver
}

func NewRouter(cfg *config.Config, logg *logger.Logger, infra Infra, svc Services) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, infra.Observer),
		middleware.CORS(cfg.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, infra.Health))
	})

	if infra.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(infra.Metrics, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/dresses", controllers.ListDresses(svc.Dresses, logg))
		r.Get("/dresses/{dressId}", controllers.GetDress(svc.Dresses, logg))
		r.Get("/dresses/{dressId}/availability", controllers.DressAvailability(svc.Dresses, svc.Availability, logg))
		r.Get("/categories", controllers.ListCategories(svc.Categories, logg))
		r.Get("/bookings/confirmed", controllers.ConfirmedBookings(svc.Availability, logg))
		r.Get("/site-images/{placement}", controllers.ActiveSiteImages(svc.SiteImages, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.CartSession(logg))
			r.Use(middleware.Idempotency(infra.Idempotency, middleware.IdempotencyRules(cfg.Idempotency), logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.GetCart(svc.Cart, logg))
				r.Delete("/", controllers.ClearCart(svc.Cart, logg))
				r.Post("/items", controllers.AddCartItem(svc.Cart, logg))
				r.Delete("/items", controllers.RemoveCartItem(svc.Cart, logg))
			})
			r.Post("/checkout", controllers.Checkout(svc.Checkout, logg))
			r.Post("/contacts", controllers.SubmitContact(svc.Contacts, logg))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.Auth, logg))
			r.Use(middleware.RequireRole(logg, cfg.Auth.AdminRole))

			r.Route("/dresses", func(r chi.Router) {
				r.Get("/", controllers.ListDresses(svc.Dresses, logg))
				r.Post("/", controllers.AdminCreateDress(svc.Dresses, logg))
				r.Get("/{dressId}", controllers.GetDress(svc.Dresses, logg))
				r.Patch("/{dressId}", controllers.AdminUpdateDress(svc.Dresses, logg))
				r.Delete("/{dressId}", controllers.AdminDeleteDress(svc.Dresses, logg))
				r.Put("/{dressId}/categories", controllers.AdminSetDressCategories(svc.Dresses, logg))
				r.Post("/{dressId}/colors", controllers.AdminAddDressColor(svc.Dresses, logg))
				r.Delete("/{dressId}/colors/{colorId}", controllers.AdminDeleteDressColor(svc.Dresses, logg))
				r.Post("/{dressId}/colors/{colorId}/images", controllers.AdminAddDressImage(svc.Dresses, logg))
				r.Delete("/{dressId}/colors/{colorId}/images/{imageId}", controllers.AdminDeleteDressImage(svc.Dresses, logg))
			})

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", controllers.ListCategories(svc.Categories, logg))
				r.Post("/", controllers.AdminCreateCategory(svc.Categories, logg))
				r.Get("/{categoryId}", controllers.AdminGetCategory(svc.Categories, logg))
				r.Put("/{categoryId}", controllers.AdminUpdateCategory(svc.Categories, logg))
				r.Delete("/{categoryId}", controllers.AdminDeleteCategory(svc.Categories, logg))
			})

			r.Route("/schedules", func(r chi.Router) {
				r.Get("/", controllers.AdminListSchedules(svc.Schedules, logg))
				r.Get("/{scheduleId}", controllers.AdminGetSchedule(svc.Schedules, logg))
				r.Patch("/{scheduleId}/status", controllers.AdminUpdateScheduleStatus(svc.Schedules, logg))
				r.Delete("/{scheduleId}", controllers.AdminDeleteSchedule(svc.Schedules, logg))
			})

			r.Route("/contacts", func(r chi.Router) {
				r.Get("/", controllers.AdminListContacts(svc.Contacts, logg))
				r.Get("/{contactId}", controllers.AdminGetContact(svc.Contacts, logg))
				r.Delete("/{contactId}", controllers.AdminDeleteContact(svc.Contacts, logg))
			})

			r.Route("/revenues", func(r chi.Router) {
				r.Get("/", controllers.AdminListRevenues(svc.Revenues, logg))
				r.Put("/", controllers.AdminUpsertRevenue(svc.Revenues, logg))
				r.Get("/month/{month}", controllers.AdminGetRevenueByMonth(svc.Revenues, logg))
				r.Get("/{revenueId}", controllers.AdminGetRevenue(svc.Revenues, logg))
				r.Delete("/{revenueId}", controllers.AdminDeleteRevenue(svc.Revenues, logg))
			})

			r.Route("/site-images/{placement}", func(r chi.Router) {
				r.Get("/", controllers.AdminListSiteImages(svc.SiteImages, logg))
				r.Post("/", controllers.AdminCreateSiteImage(svc.SiteImages, logg))
				r.Get("/{imageId}", controllers.AdminGetSiteImage(svc.SiteImages, logg))
				r.Patch("/{imageId}", controllers.AdminUpdateSiteImage(svc.SiteImages, logg))
				r.Delete("/{imageId}", controllers.AdminDeleteSiteImage(svc.SiteImages, logg))
			})

			r.Get("/outbox/dead-letters", controllers.AdminListDeadLetters(svc.DeadLetters, logg))
		})
	})

	return r
}
