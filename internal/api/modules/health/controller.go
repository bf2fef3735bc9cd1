package health

import (
	"context"
	"net/http"
	"time"

	"github.com/ethanbaker/api/pkg/api_types"
	"github.com/ethanbaker/catfacts/pkg/sdk"
	"github.com/gin-gonic/gin"
)

const (
	statusUp   = "up"
	statusDown = "down"
)

// Pinger is a dependency that can report whether it is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Breaker reports the circuit breaker state of the upstream fact api
type Breaker interface {
	State() string
}

// Controller answers health checks
type Controller struct {
	database Pinger
	cache    Pinger
	upstream Breaker
	timeout  time.Duration
}

func NewController(database Pinger, cache Pinger, upstream Breaker) *Controller {
	return &Controller{
		database: database,
		cache:    cache,
		upstream: upstream,
		timeout:  2 * time.Second,
	}
}

// getStatus reports dependency health. Only the database is required; a down cache degrades to the store.
func (ctrl *Controller) getStatus(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), ctrl.timeout)
	defer cancel()

	status := sdk.HealthStatus{
		Database: ping(ctx, ctrl.database),
		Cache:    ping(ctx, ctrl.cache),
		Upstream: "unknown",
	}
	if ctrl.upstream != nil {
		status.Upstream = ctrl.upstream.State()
	}

	if status.Database != statusUp {
		resp := sdk.NewSuccessResponse("Database unavailable", status)
		resp.Status = api_types.StatusFail
		resp.Code = http.StatusServiceUnavailable
		c.JSON(resp.AsGinResponse())
		return
	}

	c.JSON(sdk.NewSuccessResponse("OK", status).AsGinResponse())
}

func ping(ctx context.Context, p Pinger) string {
	if p == nil {
		return statusDown
	}
	if err := p.Ping(ctx); err != nil {
		return statusDown
	}
	return statusUp
}
