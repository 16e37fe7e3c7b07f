package router

import "github.com/gin-gonic/gin"

// Module is a feature slice (auth, users, items...) that owns its routes and guards.
type Module interface {
	Register(rg *gin.RouterGroup)
}
