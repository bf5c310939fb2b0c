package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/farmstand/marketplace/internal/interface/http"
	"github.com/farmstand/marketplace/internal/interface/middleware"
	"github.com/farmstand/marketplace/pkg/session"
)

// ProfileModule wires the account management routes, all behind a login guard
// GET /profile, POST /update_profile, POST /update_profile_picture,
// POST /update_social_links, POST /change_password

type ProfileModule struct {
	Handler  *handlers.ProfileHandler
	Sessions session.Store
}

func NewProfileModule(h *handlers.ProfileHandler, sessions session.Store) *ProfileModule {
	return &ProfileModule{Handler: h, Sessions: sessions}
}

func (m *ProfileModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.RequireUser(m.Sessions, "Please login first"))
	{
		auth.GET("/profile", m.Handler.Show)
		auth.POST("/update_profile", m.Handler.UpdateProfile)
		auth.POST("/update_profile_picture", m.Handler.UpdatePicture)
		auth.POST("/update_social_links", m.Handler.UpdateSocialLinks)
		auth.POST("/change_password", m.Handler.ChangePassword)
	}
}
