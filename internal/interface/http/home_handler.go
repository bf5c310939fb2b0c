package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/farmstand/marketplace/internal/application"
	"github.com/farmstand/marketplace/internal/domain/entity"
	"github.com/farmstand/marketplace/internal/interface/middleware"
	"github.com/farmstand/marketplace/pkg/session"
)

const (
	featuredProducts = 8
	topFarmers       = 4
)

// HomeHandler covers the index page and the per-role dashboard.
type HomeHandler struct {
	base
	Users    *application.UserService
	Products *application.ProductService
}

func NewHomeHandler(users *application.UserService, products *application.ProductService, sessions session.Store, logger *logrus.Logger) *HomeHandler {
	return &HomeHandler{base: base{Sessions: sessions, Logger: logger}, Users: users, Products: products}
}

// Index GET / — featured products and top farmers. A store failure degrades
// to empty lists with a flash, never an error page.
func (h *HomeHandler) Index(c *gin.Context) {
	ctx := c.Request.Context()
	featured, ferr := h.Products.Featured(ctx, featuredProducts)
	farmers, terr := h.Users.TopFarmers(ctx, topFarmers)
	if ferr != nil || terr != nil {
		if h.Logger != nil {
			h.Logger.WithFields(logrus.Fields{"featured_err": ferr, "farmers_err": terr}).Error("index load failed")
		}
		_ = h.Sessions.AddFlash(ctx, middleware.SessionID(c), session.Flash{Level: session.LevelError, Message: "Error loading page"})
		featured = []entity.Product{}
		farmers = []entity.User{}
	}
	h.view(c, gin.H{"featured_products": featured, "top_farmers": farmers}, "home")
}

// Dashboard GET /dashboard — branches purely on the session user type.
func (h *HomeHandler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	sess := middleware.CurrentSession(c)

	if sess.IsFarmer() {
		products, orders, err := h.Products.FarmerDashboard(ctx, sess.UserID)
		if err != nil {
			h.fail(c, err, "/", "Error loading dashboard")
			return
		}
		h.view(c, gin.H{"products": products, "orders": orders}, "farmer dashboard")
		return
	}

	orders, err := h.Products.CustomerOrders(ctx, sess.UserID)
	if err != nil {
		h.fail(c, err, "/", "Error loading dashboard")
		return
	}
	h.view(c, gin.H{"orders": orders}, "customer dashboard")
}
