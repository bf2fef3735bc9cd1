package likes_module

import (
	"context"
	"net/http"
	"strconv"

	"github.com/ethanbaker/catfacts/pkg/facts"
	"github.com/ethanbaker/catfacts/pkg/sdk"
	"github.com/gin-gonic/gin"
)

// Service manages likes. Writes invalidate the cached fact listing.
type Service interface {
	Like(ctx context.Context, id uint) (facts.LikeResult, error)
	Unlike(ctx context.Context, id uint) (facts.UnlikeResult, error)
	ListLikes(ctx context.Context) ([]facts.LikedFact, error)
}

// Controller handles like requests
type Controller struct {
	service Service
}

// NewController creates a likes controller
func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// ListLikes handles GET requests for liked facts
func (ctrl *Controller) ListLikes(c *gin.Context) {
	likes, err := ctrl.service.ListLikes(c.Request.Context())
	if err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusInternalServerError, "Failed to list likes", err).AsGinResponse())
		return
	}

	c.JSON(sdk.NewSuccessResponse("Likes retrieved successfully", likes).AsGinResponse())
}

// LikeFact handles POST requests liking a fact
func (ctrl *Controller) LikeFact(c *gin.Context) {
	var req sdk.LikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Could not parse request body", err).AsGinResponse())
		return
	}
	if req.FactID == nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Missing fact_id.", nil).AsGinResponse())
		return
	}

	result, err := ctrl.service.Like(c.Request.Context(), *req.FactID)
	if err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusInternalServerError, "Failed to like fact", err).AsGinResponse())
		return
	}
	if !result.OK() {
		c.JSON(sdk.NewErrorResponse(http.StatusConflict, "Fact already liked or does not exist.", result.String()).AsGinResponse())
		return
	}

	c.JSON(sdk.NewSuccess("Fact liked!").AsGinResponse())
}

// UnlikeFact handles DELETE requests removing the like on a fact
func (ctrl *Controller) UnlikeFact(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Invalid fact id.", c.Param("id")).AsGinResponse())
		return
	}

	result, err := ctrl.service.Unlike(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusInternalServerError, "Failed to unlike fact", err).AsGinResponse())
		return
	}
	if result == facts.UnlikeNotFound {
		c.JSON(sdk.NewErrorResponse(http.StatusNotFound, "Like not found.", nil).AsGinResponse())
		return
	}

	c.JSON(sdk.NewSuccess("Fact unliked!").AsGinResponse())
}
