package router

import (
	"github.com/andikasp/gocommerce/internal/application"
	"github.com/andikasp/gocommerce/internal/container"
	"github.com/andikasp/gocommerce/internal/infrastructure/mongodb"
	handlers "github.com/andikasp/gocommerce/internal/interface/http"
	"github.com/andikasp/gocommerce/internal/router/modules"
)

// InitModules builds every feature module from the container singletons and
// registers it with the router registry. Call once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	db := container.GetMongo()
	jwt := container.GetJWT()

	users := mongodb.NewUserRepository(db)
	products := mongodb.NewProductRepository(db)
	orders := mongodb.NewOrderRepository(db)

	authSvc := application.NewAuthService(users, jwt, container.GetRedis(), container.GetRabbitPub(), logger, cfg)
	cartSvc := application.NewCartService(users, logger)
	productSvc := application.NewProductService(
		products,
		container.GetGCS(),
		cfg.GCSBucket,
		container.GetRedis(),
		logger,
		container.GetES(),
		cfg.ESProductsIndex,
		cfg.CatalogCacheTTL,
	)
	orderSvc := application.NewOrderService(orders, users, products, container.GetPaymentGateway(), cfg.Currency, logger)

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(authSvc, jwt, logger), jwt))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(authSvc), jwt))
	r.Add(modules.NewCartModule(handlers.NewCartHandler(cartSvc), jwt))
	r.Add(modules.NewProductModule(handlers.NewProductHandler(productSvc, logger), jwt))
	r.Add(modules.NewOrderModule(handlers.NewOrderHandler(orderSvc, logger), jwt))

	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
