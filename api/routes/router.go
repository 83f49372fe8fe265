package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gryadkadev/gryadka-backend/api/controllers"
	"github.com/gryadkadev/gryadka-backend/api/middleware"
	cartsvc "github.com/gryadkadev/gryadka-backend/internal/cart"
	catalogsvc "github.com/gryadkadev/gryadka-backend/internal/catalog"
	checkoutsvc "github.com/gryadkadev/gryadka-backend/internal/checkout"
	deliverysvc "github.com/gryadkadev/gryadka-backend/internal/delivery"
	faqsvc "github.com/gryadkadev/gryadka-backend/internal/faq"
	favoritessvc "github.com/gryadkadev/gryadka-backend/internal/favorites"
	messagesvc "github.com/gryadkadev/gryadka-backend/internal/messages"
	ordersvc "github.com/gryadkadev/gryadka-backend/internal/orders"
	promosvc "github.com/gryadkadev/gryadka-backend/internal/promo"
	settingssvc "github.com/gryadkadev/gryadka-backend/internal/settings"
	usersvc "github.com/gryadkadev/gryadka-backend/internal/users"
	"github.com/gryadkadev/gryadka-backend/pkg/config"
	"github.com/gryadkadev/gryadka-backend/pkg/db"
	"github.com/gryadkadev/gryadka-backend/pkg/logger"
	pkgredis "github.com/gryadkadev/gryadka-backend/pkg/redis"
)

// Services groups everything the router wires into handlers.
type Services struct {
	Users    usersvc.Service
	Catalog  catalogsvc.Service
	Cart     cartsvc.Service
	Favorite favoritessvc.Service
	Promo    promosvc.Service
	Delivery deliverysvc.Service
	Settings settingssvc.Service
	FAQ      faqsvc.Service
	Checkout checkoutsvc.Service
	Orders   ordersvc.Service
	Messages messagesvc.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *pkgredis.Client,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Route("/v1", func(r chi.Router) {
		// Public storefront reads. The mini-app can browse before the
		// profile is synced.
		r.Get("/categories", controllers.ListCategories(svcs.Catalog, logg))
		r.Get("/products", controllers.ListProducts(svcs.Catalog, logg))
		r.Get("/products/{productId}", controllers.GetProduct(svcs.Catalog, logg))
		r.Get("/delivery-intervals", controllers.ListDeliveryIntervals(svcs.Delivery, logg))
		r.Get("/settings/public", controllers.PublicSettings(svcs.Settings, logg))
		r.Get("/faq", controllers.ListFAQ(svcs.FAQ, logg))

		// Profile sync is the identity bootstrap, so it cannot sit behind
		// the identity middleware.
		r.Post("/users/sync", controllers.SyncUser(svcs.Users, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Identity(svcs.Users, logg))

			r.Get("/users/me", controllers.CurrentUser(logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.GetCart(svcs.Cart, logg))
				r.Post("/items", controllers.AddCartItem(svcs.Cart, logg))
				r.Put("/items/{itemId}", controllers.UpdateCartItem(svcs.Cart, logg))
				r.Delete("/items/{itemId}", controllers.RemoveCartItem(svcs.Cart, logg))
				r.Delete("/", controllers.ClearCart(svcs.Cart, logg))
			})

			r.Route("/favorites", func(r chi.Router) {
				r.Get("/", controllers.ListFavorites(svcs.Favorite, logg))
				r.Post("/{productId}/toggle", controllers.ToggleFavorite(svcs.Favorite, logg))
				r.Delete("/{productId}", controllers.RemoveFavorite(svcs.Favorite, logg))
			})

			r.Post("/promo/validate", controllers.ValidatePromo(svcs.Promo, logg))

			r.Route("/orders", func(r chi.Router) {
				r.Use(middleware.Idempotency(redisClient, logg))
				r.Post("/", controllers.CreateOrder(svcs.Checkout, logg))
				r.Get("/", controllers.ListOwnOrders(svcs.Orders, logg))
				r.Get("/{orderId}", controllers.GetOwnOrder(svcs.Orders, logg))
				r.Post("/{orderId}/cancel", controllers.CancelOwnOrder(svcs.Orders, logg))
			})

			r.Route("/messages", func(r chi.Router) {
				r.Get("/", controllers.ListOwnMessages(svcs.Messages, logg))
				r.Post("/", controllers.SendMessage(svcs.Messages, logg))
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(
				middleware.Identity(svcs.Users, logg),
				middleware.RequireAdmin(logg),
			)

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", controllers.AdminListCategories(svcs.Catalog, logg))
				r.Post("/", controllers.AdminCreateCategory(svcs.Catalog, logg))
				r.Put("/{categoryId}", controllers.AdminUpdateCategory(svcs.Catalog, logg))
				r.Delete("/{categoryId}", controllers.AdminDeleteCategory(svcs.Catalog, logg))
				r.Post("/{categoryId}/prices", controllers.AdminBulkAdjustPrices(svcs.Catalog, logg))
			})

			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.AdminListProducts(svcs.Catalog, logg))
				r.Post("/", controllers.AdminCreateProduct(svcs.Catalog, logg))
				r.Get("/{productId}", controllers.AdminGetProduct(svcs.Catalog, logg))
				r.Put("/{productId}", controllers.AdminUpdateProduct(svcs.Catalog, logg))
				r.Delete("/{productId}", controllers.AdminDeleteProduct(svcs.Catalog, logg))
				r.Post("/{productId}/stock", controllers.AdminAdjustStock(svcs.Catalog, logg))
				r.Post("/{productId}/images", controllers.AdminAttachProductImage(svcs.Catalog, logg))
				r.Delete("/{productId}/images/{imageId}", controllers.AdminDetachProductImage(svcs.Catalog, logg))
			})

			r.Route("/promo-codes", func(r chi.Router) {
				r.Get("/", controllers.AdminListPromos(svcs.Promo, logg))
				r.Post("/", controllers.AdminCreatePromo(svcs.Promo, logg))
				r.Put("/{promoId}", controllers.AdminUpdatePromo(svcs.Promo, logg))
				r.Delete("/{promoId}", controllers.AdminDeletePromo(svcs.Promo, logg))
			})

			r.Route("/delivery-intervals", func(r chi.Router) {
				r.Get("/", controllers.AdminListDeliveryIntervals(svcs.Delivery, logg))
				r.Post("/", controllers.AdminCreateDeliveryInterval(svcs.Delivery, logg))
				r.Put("/{intervalId}", controllers.AdminUpdateDeliveryInterval(svcs.Delivery, logg))
				r.Delete("/{intervalId}", controllers.AdminDeleteDeliveryInterval(svcs.Delivery, logg))
			})

			r.Route("/settings", func(r chi.Router) {
				r.Get("/", controllers.AdminListSettings(svcs.Settings, logg))
				r.Put("/", controllers.AdminUpsertSetting(svcs.Settings, logg))
			})

			r.Route("/faq", func(r chi.Router) {
				r.Get("/", controllers.AdminListFAQ(svcs.FAQ, logg))
				r.Post("/", controllers.AdminCreateFAQ(svcs.FAQ, logg))
				r.Put("/{faqId}", controllers.AdminUpdateFAQ(svcs.FAQ, logg))
				r.Delete("/{faqId}", controllers.AdminDeleteFAQ(svcs.FAQ, logg))
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", controllers.AdminListUsers(svcs.Users, logg))
				r.Put("/{userId}/blocked", controllers.AdminSetUserBlocked(svcs.Users, logg))
				r.Put("/{userId}/admin", controllers.AdminSetUserAdmin(svcs.Users, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.AdminListOrders(svcs.Orders, logg))
				r.Get("/stats", controllers.AdminOrderStats(svcs.Orders, logg))
				r.Get("/{orderId}", controllers.AdminGetOrder(svcs.Orders, logg))
				r.Put("/{orderId}/status", controllers.AdminUpdateOrderStatus(svcs.Orders, logg))
			})

			r.Route("/messages", func(r chi.Router) {
				r.Get("/", controllers.AdminListThreads(svcs.Messages, logg))
				r.Get("/{userId}", controllers.AdminGetThread(svcs.Messages, logg))
				r.Post("/{userId}/reply", controllers.AdminReplyToThread(svcs.Messages, logg))
			})
		})
	})

	return r
}
