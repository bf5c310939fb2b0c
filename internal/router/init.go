package router

import (
	"github.com/farmstand/marketplace/internal/application"
	"github.com/farmstand/marketplace/internal/container"
	"github.com/farmstand/marketplace/internal/infrastructure/mongodb"
	handlers "github.com/farmstand/marketplace/internal/interface/http"
	"github.com/farmstand/marketplace/internal/router/modules"
)

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	db := container.GetMongo()
	sessions := container.GetSessions()

	userRepo := mongodb.NewUserRepository(db)
	productRepo := mongodb.NewProductRepository(db)
	orderRepo := mongodb.NewOrderRepository(db)

	userSvc := application.NewUserService(
		userRepo,
		container.GetUploads(),
		container.GetRabbitPub(),
		logger,
		cfg.StaticDir,
		cfg.DefaultFarmerImg,
		cfg.DefaultProfileImg,
		cfg.MailSendEnabled,
	)
	productSvc := application.NewProductService(
		productRepo,
		orderRepo,
		userRepo,
		container.GetUploads(),
		container.GetRabbitPub(),
		logger,
		container.GetES(),
		cfg.ESProductsIndex,
		cfg.MailSendEnabled,
	)

	r.Add(modules.NewHomeModule(handlers.NewHomeHandler(userSvc, productSvc, sessions, logger), sessions))
	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(userSvc, sessions, logger)))
	r.Add(modules.NewProductModule(handlers.NewProductHandler(productSvc, sessions, logger), sessions))
	r.Add(modules.NewProfileModule(handlers.NewProfileHandler(userSvc, sessions, logger), sessions))
}
