package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	adminctrl "github.com/adityapratama/shopeasy-backend/api/controllers/admin"
	authctrl "github.com/adityapratama/shopeasy-backend/api/controllers/auth"
	cartctrl "github.com/adityapratama/shopeasy-backend/api/controllers/cart"
	catalogctrl "github.com/adityapratama/shopeasy-backend/api/controllers/catalog"
	checkoutctrl "github.com/adityapratama/shopeasy-backend/api/controllers/checkout"
	healthctrl "github.com/adityapratama/shopeasy-backend/api/controllers/health"
	mediactrl "github.com/adityapratama/shopeasy-backend/api/controllers/media"
	orderctrl "github.com/adityapratama/shopeasy-backend/api/controllers/orders"
	sellerctrl "github.com/adityapratama/shopeasy-backend/api/controllers/seller"
	"github.com/adityapratama/shopeasy-backend/api/middleware"
	"github.com/adityapratama/shopeasy-backend/pkg/auth"
	"github.com/adityapratama/shopeasy-backend/pkg/enums"
	"github.com/adityapratama/shopeasy-backend/pkg/logger"
	"github.com/adityapratama/shopeasy-backend/pkg/metrics"
)

// Deps is everything the router needs to assemble the API surface.
type Deps struct {
	Logger    *logger.Logger
	Tokens    *auth.TokenManager
	Metrics   *metrics.Registry
	RateLimit *middleware.AuthRateLimiter

	Auth     *authctrl.Controller
	Cart     *cartctrl.Controller
	Catalog  *catalogctrl.Controller
	Checkout *checkoutctrl.Controller
	Orders   *orderctrl.Controller
	Seller   *sellerctrl.Controller
	Admin    *adminctrl.Controller
	Media    *mediactrl.Controller
	Health   *healthctrl.Controller
}

func New(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer(deps.Logger))
	r.Use(middleware.RequestID(deps.Logger))
	r.Use(middleware.Metrics(deps.Metrics))
	r.Use(middleware.Logging(deps.Logger))

	requireAuth := middleware.Auth(deps.Tokens, deps.Logger)

	r.Get("/healthz", deps.Health.Live)
	r.Get("/readyz", deps.Health.Ready)
	r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(deps.RateLimit.Register).Post("/register", deps.Auth.Register)
			r.With(deps.RateLimit.Login).Post("/login", deps.Auth.Login)
			r.Post("/refresh", deps.Auth.Refresh)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/logout", deps.Auth.Logout)
				r.Get("/me", deps.Auth.Me)
				r.Patch("/me", deps.Auth.UpdateMe)
			})
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", deps.Catalog.ListProducts)
			r.Get("/featured", deps.Catalog.FeaturedProducts)
			r.Get("/{productID}", deps.Catalog.GetProduct)
			r.Get("/{productID}/related", deps.Catalog.RelatedProducts)
		})
		r.Get("/categories", deps.Catalog.ListCategories)
		r.Get("/media/{imageName}", deps.Media.ServeImage)

		r.Route("/cart", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", deps.Cart.Get)
			r.Delete("/", deps.Cart.Clear)
			r.Post("/items", deps.Cart.AddItem)
			r.Patch("/items/{productID}", deps.Cart.UpdateItem)
			r.Delete("/items/{productID}", deps.Cart.RemoveItem)
		})

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/checkout", deps.Checkout.PlaceOrder)
			r.Get("/orders", deps.Orders.ListMine)
			r.Get("/orders/{orderID}", deps.Orders.Get)
		})

		r.Route("/seller", func(r chi.Router) {
			r.Use(requireAuth)
			r.Use(middleware.RequireRole(deps.Logger, enums.RoleSeller, enums.RoleAdmin))
			r.Get("/store", deps.Seller.GetStore)
			r.Patch("/store", deps.Seller.UpdateStore)
			r.Post("/store/logo", deps.Seller.UploadStoreLogo)
			r.Get("/products", deps.Seller.ListProducts)
			r.Post("/products", deps.Seller.CreateProduct)
			r.Put("/products/{productID}", deps.Seller.UpdateProduct)
			r.Delete("/products/{productID}", deps.Seller.DeleteProduct)
			r.Post("/products/{productID}/image", deps.Seller.UploadProductImage)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(requireAuth)
			r.Use(middleware.RequireRole(deps.Logger, enums.RoleAdmin))
			r.Get("/dashboard", deps.Admin.Dashboard)
			r.Get("/users", deps.Admin.ListUsers)
			r.Patch("/users/{userID}/role", deps.Admin.ChangeUserRole)
			r.Patch("/users/{userID}/password", deps.Admin.ResetUserPassword)
			r.Patch("/users/{userID}/active", deps.Admin.SetUserActive)
			r.Delete("/users/{userID}", deps.Admin.DeleteUser)
			r.Get("/orders", deps.Admin.ListOrders)
			r.Patch("/orders/{orderID}/status", deps.Admin.ChangeOrderStatus)
			r.Post("/categories", deps.Admin.CreateCategory)
			r.Put("/categories/{categoryID}", deps.Admin.UpdateCategory)
			r.Delete("/categories/{categoryID}", deps.Admin.DeleteCategory)
			r.Patch("/products/{productID}/featured", deps.Admin.SetProductFeatured)
		})
	})

	return r
}
