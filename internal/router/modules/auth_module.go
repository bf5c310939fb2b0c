package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/farmstand/marketplace/internal/container"
	handlers "github.com/farmstand/marketplace/internal/interface/http"
	"github.com/farmstand/marketplace/internal/interface/middleware"
)

// AuthModule wires registration, login and logout routes
// GET /register, POST /register, GET /login, POST /login, GET /logout

type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// Per-IP limits on the credential endpoints; private addresses bypass
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	registerLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())

	rg.GET("/register", m.Handler.RegisterForm)
	rg.POST("/register", registerLimiter, m.Handler.Register)
	rg.GET("/login", m.Handler.LoginForm)
	rg.POST("/login", loginLimiter, m.Handler.Login)
	rg.GET("/logout", m.Handler.Logout)
}
