package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/farmstand/marketplace/internal/application"
	"github.com/farmstand/marketplace/internal/domain/entity"
	"github.com/farmstand/marketplace/internal/interface/middleware"
	"github.com/farmstand/marketplace/pkg/response"
	"github.com/farmstand/marketplace/pkg/session"
	"github.com/farmstand/marketplace/pkg/validation"
)

// ProductHandler covers the product listing, detail, creation, and search
// surface.
type ProductHandler struct {
	base
	Products *application.ProductService
}

func NewProductHandler(products *application.ProductService, sessions session.Store, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{base: base{Sessions: sessions, Logger: logger}, Products: products}
}

// List GET /products?category=
func (h *ProductHandler) List(c *gin.Context) {
	category := c.Query("category")
	products, err := h.Products.List(c.Request.Context(), category)
	if err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).Error("product list failed")
		}
		_ = h.Sessions.AddFlash(c.Request.Context(), middleware.SessionID(c), session.Flash{Level: session.LevelError, Message: "Error loading products"})
		products = []entity.Product{}
	}
	h.view(c, gin.H{"products": products, "category": category}, "products")
}

// Detail GET /products/:id
func (h *ProductHandler) Detail(c *gin.Context) {
	product, farmer, err := h.Products.Detail(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, application.ErrInvalidID):
			h.redirect(c, "/products", session.LevelError, "Invalid product ID")
		case errors.Is(err, application.ErrProductNotFound):
			h.redirect(c, "/products", session.LevelError, "Product not found")
		default:
			h.fail(c, err, "/products", "Error loading product")
		}
		return
	}
	h.view(c, gin.H{"product": product, "farmer": farmer}, "product detail")
}

type productForm struct {
	Name        string `form:"name" binding:"required"`
	Category    string `form:"category" binding:"required"`
	Price       string `form:"price" binding:"required"`
	Quantity    string `form:"quantity" binding:"required"`
	Description string `form:"description" binding:"required"`
}

// NewForm GET /products/new
func (h *ProductHandler) NewForm(c *gin.Context) {
	h.view(c, gin.H{}, "new product")
}

// Create POST /products/new
func (h *ProductHandler) Create(c *gin.Context) {
	var form productForm
	if err := c.ShouldBind(&form); err != nil {
		if h.Logger != nil {
			h.Logger.WithField("details", validation.ToDetails(err)).Info("product form rejected")
		}
		h.redirect(c, "/products/new", session.LevelError, "Please fill all required fields")
		return
	}
	// Checkbox semantics: presence means organic.
	_, isOrganic := c.GetPostForm("is_organic")
	// A missing multipart part and an empty filename read differently.
	image, err := c.FormFile("image")
	if err != nil {
		h.redirect(c, "/products/new", session.LevelError, "No file was submitted")
		return
	}

	sess := middleware.CurrentSession(c)
	_, err = h.Products.Create(c.Request.Context(), sess.UserID, application.CreateProductInput{
		Name:        form.Name,
		Category:    form.Category,
		Price:       form.Price,
		Quantity:    form.Quantity,
		Description: form.Description,
		IsOrganic:   isOrganic,
	}, image)
	if err != nil {
		if msg := application.ValidationMessage(err); msg != "" {
			h.redirect(c, "/products/new", session.LevelError, msg)
			return
		}
		h.fail(c, err, "/products/new", "Error saving product image")
		return
	}

	h.redirect(c, "/dashboard", session.LevelSuccess, "Product added successfully!")
}

// Search GET /products/search?q=&size=
func (h *ProductHandler) Search(c *gin.Context) {
	q := c.Query("q")
	size, _ := strconv.Atoi(c.Query("size"))
	hits, err := h.Products.Search(c.Request.Context(), q, size)
	if err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).Error("product search failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "search unavailable", nil)
		return
	}
	h.view(c, gin.H{"query": q, "results": hits}, "product search")
}
