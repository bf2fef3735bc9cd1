package facts_module

import (
	"github.com/gin-gonic/gin"
)

// Register routes for the facts module
func RegisterRoutes(g *gin.RouterGroup, ctrl *Controller) {
	// Create base group for fact routes
	group := g.Group("/catfacts")

	group.GET("", ctrl.ListFacts)         // Newest facts, cached
	group.GET("/random", ctrl.RandomFact) // One random fact, cached
	group.POST("", ctrl.AddFact)          // Add a fact (form field "fact")
	group.POST("/fetch", ctrl.FetchFact)  // Pull a fact from the external api and store it
	group.PUT("/:id", ctrl.UpdateFact)    // Replace a fact's text
	group.DELETE("/:id", ctrl.DeleteFact) // Delete a fact and its like
}
