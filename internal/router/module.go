package router

import "github.com/gin-gonic/gin"

// Module is one slice of the site (auth, products, profile, views) that
// registers its own routes on a RouterGroup.
type Module interface {
	Register(rg *gin.RouterGroup)
}
