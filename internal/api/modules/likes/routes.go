package likes_module

import (
	"github.com/gin-gonic/gin"
)

// Register routes for the likes module
func RegisterRoutes(g *gin.RouterGroup, ctrl *Controller) {
	group := g.Group("/likes")

	group.GET("", ctrl.ListLikes)
	group.POST("", ctrl.LikeFact)
	group.DELETE("/:id", ctrl.UnlikeFact)
}
