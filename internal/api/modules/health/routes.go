package health

import "github.com/gin-gonic/gin"

// RegisterRoutes registers the routes for the health module
func RegisterRoutes(g *gin.RouterGroup, ctrl *Controller) {
	g.GET("/health", ctrl.getStatus)
}
