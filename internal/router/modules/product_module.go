package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/farmstand/marketplace/internal/interface/http"
	"github.com/farmstand/marketplace/internal/interface/middleware"
	"github.com/farmstand/marketplace/pkg/session"
)

// ProductModule wires the product catalog routes
// Public: GET /products, GET /products/search, GET /products/:id
// Farmer only: GET /products/new, POST /products/new

type ProductModule struct {
	Handler  *handlers.ProductHandler
	Sessions session.Store
}

func NewProductModule(h *handlers.ProductHandler, sessions session.Store) *ProductModule {
	return &ProductModule{Handler: h, Sessions: sessions}
}

func (m *ProductModule) Register(rg *gin.RouterGroup) {
	farmerOnly := middleware.RequireFarmer(m.Sessions, "Please login as a farmer to add products")

	rg.GET("/products", m.Handler.List)
	rg.GET("/products/search", m.Handler.Search)
	rg.GET("/products/new", farmerOnly, m.Handler.NewForm)
	rg.POST("/products/new", farmerOnly, m.Handler.Create)
	rg.GET("/products/:id", m.Handler.Detail)
}
