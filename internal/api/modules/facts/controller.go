package facts_module

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ethanbaker/catfacts/pkg/catfact"
	"github.com/ethanbaker/catfacts/pkg/facts"
	"github.com/ethanbaker/catfacts/pkg/sdk"
	"github.com/gin-gonic/gin"
)

// Service is the cache-aware fact service behind the handlers
type Service interface {
	ReadAllCached(ctx context.Context) ([]facts.Fact, error)
	ReadRandomCached(ctx context.Context) (facts.RandomFact, bool, error)
	Insert(ctx context.Context, text string) (facts.InsertResult, error)
	Update(ctx context.Context, id uint, text string) (facts.UpdateResult, error)
	Delete(ctx context.Context, id uint) (facts.DeleteResult, error)
}

// Fetcher pulls one fact from the external api
type Fetcher interface {
	FetchOne(ctx context.Context) (string, error)
}

// Controller handles fact requests
type Controller struct {
	service Service
	fetcher Fetcher
}

// NewController creates a fact controller
func NewController(service Service, fetcher Fetcher) *Controller {
	return &Controller{service: service, fetcher: fetcher}
}

// ListFacts handles GET requests for the newest facts
func (ctrl *Controller) ListFacts(c *gin.Context) {
	list, err := ctrl.service.ReadAllCached(c.Request.Context())
	if err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusInternalServerError, "Failed to list facts", err).AsGinResponse())
		return
	}

	c.JSON(sdk.NewSuccessResponse("Facts retrieved successfully", list).AsGinResponse())
}

// RandomFact handles GET requests for a random fact
func (ctrl *Controller) RandomFact(c *gin.Context) {
	fact, ok, err := ctrl.service.ReadRandomCached(c.Request.Context())
	if err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusInternalServerError, "Failed to get random fact", err).AsGinResponse())
		return
	}
	if !ok {
		c.JSON(sdk.NewErrorResponse(http.StatusNotFound, "No facts found.", nil).AsGinResponse())
		return
	}

	c.JSON(sdk.NewSuccessResponse("Random fact retrieved successfully", fact).AsGinResponse())
}

// AddFact handles form-encoded POST requests adding a fact
func (ctrl *Controller) AddFact(c *gin.Context) {
	text := c.PostForm("fact")
	if strings.TrimSpace(text) == "" {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Fact cannot be empty.", nil).AsGinResponse())
		return
	}

	result, err := ctrl.service.Insert(c.Request.Context(), text)
	if !ctrl.insertOutcome(c, result, err) {
		return
	}

	c.JSON(sdk.NewSuccess("Fact added!").AsGinResponse())
}

// UpdateFact handles PUT requests replacing a fact's text
func (ctrl *Controller) UpdateFact(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req sdk.UpdateFactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Could not parse request body", err).AsGinResponse())
		return
	}
	if strings.TrimSpace(req.Fact) == "" {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Fact cannot be empty.", nil).AsGinResponse())
		return
	}

	result, err := ctrl.service.Update(c.Request.Context(), id, req.Fact)
	switch {
	case errors.Is(err, facts.ErrEmptyText):
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Fact cannot be empty.", nil).AsGinResponse())
	case err != nil:
		c.JSON(sdk.NewErrorResponse(http.StatusInternalServerError, "Failed to update fact", err).AsGinResponse())
	case result == facts.UpdateNotFound:
		c.JSON(sdk.NewErrorResponse(http.StatusConflict, "Fact not found.", result.String()).AsGinResponse())
	case result == facts.UpdateDuplicate:
		c.JSON(sdk.NewErrorResponse(http.StatusConflict, "Duplicate fact.", result.String()).AsGinResponse())
	default:
		c.JSON(sdk.NewSuccess("Fact updated!").AsGinResponse())
	}
}

// DeleteFact handles DELETE requests removing a fact
func (ctrl *Controller) DeleteFact(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := ctrl.service.Delete(c.Request.Context(), id)
	if err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusInternalServerError, "Failed to delete fact", err).AsGinResponse())
		return
	}
	if result == facts.DeleteNotFound {
		c.JSON(sdk.NewErrorResponse(http.StatusNotFound, "Fact not found.", nil).AsGinResponse())
		return
	}

	c.JSON(sdk.NewSuccess("Fact deleted!").AsGinResponse())
}

// FetchFact handles POST requests that pull a fact from the external api and store it
func (ctrl *Controller) FetchFact(c *gin.Context) {
	if ctrl.fetcher == nil {
		c.JSON(sdk.NewErrorResponse(http.StatusServiceUnavailable, "Fact fetching is not configured.", nil).AsGinResponse())
		return
	}

	text, err := ctrl.fetcher.FetchOne(c.Request.Context())
	switch {
	case errors.Is(err, catfact.ErrNoFact):
		c.JSON(sdk.NewErrorResponse(http.StatusInternalServerError, "No fact in response.", nil).AsGinResponse())
		return
	case errors.Is(err, catfact.ErrUpstream):
		c.JSON(sdk.NewErrorResponse(http.StatusBadGateway, "Failed to fetch fact from upstream.", err).AsGinResponse())
		return
	case err != nil:
		c.JSON(sdk.NewErrorResponse(http.StatusInternalServerError, "Failed to fetch fact", err).AsGinResponse())
		return
	}

	result, err := ctrl.service.Insert(c.Request.Context(), text)
	if !ctrl.insertOutcome(c, result, err) {
		return
	}

	c.JSON(sdk.NewSuccessResponse("Fact fetched and added!", sdk.FetchedFact{Fact: strings.TrimSpace(text)}).AsGinResponse())
}

// insertOutcome writes the error response for a failed insert and reports whether it succeeded
func (ctrl *Controller) insertOutcome(c *gin.Context, result facts.InsertResult, err error) bool {
	switch {
	case errors.Is(err, facts.ErrEmptyText):
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Fact cannot be empty.", nil).AsGinResponse())
	case err != nil:
		c.JSON(sdk.NewErrorResponse(http.StatusInternalServerError, "Failed to add fact", err).AsGinResponse())
	case result == facts.InsertDuplicate:
		c.JSON(sdk.NewErrorResponse(http.StatusConflict, "Duplicate fact.", nil).AsGinResponse())
	default:
		return true
	}
	return false
}

// parseID reads the :id path parameter, answering 400 when it is not a positive integer
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Invalid fact id.", c.Param("id")).AsGinResponse())
		return 0, false
	}
	return uint(id), true
}
