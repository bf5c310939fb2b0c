package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/farmstand/marketplace/internal/interface/http"
	"github.com/farmstand/marketplace/internal/interface/middleware"
	"github.com/farmstand/marketplace/pkg/session"
)

// HomeModule wires the landing page and the role-aware dashboard

type HomeModule struct {
	Handler  *handlers.HomeHandler
	Sessions session.Store
}

func NewHomeModule(h *handlers.HomeHandler, sessions session.Store) *HomeModule {
	return &HomeModule{Handler: h, Sessions: sessions}
}

func (m *HomeModule) Register(rg *gin.RouterGroup) {
	rg.GET("/", m.Handler.Index)
	rg.GET("/dashboard", middleware.RequireUser(m.Sessions, "Please login to access dashboard"), m.Handler.Dashboard)
}
