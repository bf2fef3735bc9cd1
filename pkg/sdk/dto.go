package sdk

import (
	"net/http"
	"time"

	"github.com/ethanbaker/api/pkg/api_types"
)

// ApiResponse represents a standard API response structure
type ApiResponse[T any] struct {
	Status  api_types.StatusType `json:"status"`          // Status message
	Code    int                  `json:"code"`            // Status code
	Message string               `json:"message"`         // Human-readable message
	Data    T                    `json:"data"`            // Data field for successful responses
	Error   any                  `json:"error,omitempty"` // Optional errors field for error responses
}

// AsGinResponse converts the ApiResponse to a format suitable for Gin framework
func (r ApiResponse[T]) AsGinResponse() (int, any) {
	return r.Code, r
}

func NewSuccess(message string) ApiResponse[any] {
	return ApiResponse[any]{
		Status:  api_types.StatusSuccess,
		Code:    http.StatusOK,
		Message: message,
	}
}

func NewSuccessResponse[T any](message string, data T) ApiResponse[T] {
	return ApiResponse[T]{
		Status:  api_types.StatusSuccess,
		Code:    http.StatusOK,
		Message: message,
		Data:    data,
	}
}

// NewErrorResponse builds an error envelope. Errors are rendered as their message.
func NewErrorResponse(code int, message string, err any) ApiResponse[any] {
	if e, ok := err.(error); ok {
		err = e.Error()
	}

	return ApiResponse[any]{
		Status:  api_types.StatusError,
		Code:    code,
		Message: message,
		Error:   err,
	}
}

/** Requests */

// UpdateFactRequest is the body of a fact update
type UpdateFactRequest struct {
	Fact string `json:"fact"`
}

// LikeRequest is the body of a like. FactID is a pointer so a missing id can be told apart from 0.
type LikeRequest struct {
	FactID *uint `json:"fact_id"`
}

/** Responses */

// Fact is a stored fact
type Fact struct {
	ID        uint   `json:"id"`
	Fact      string `json:"fact"`
	CreatedAt string `json:"created_at"`
}

// RandomFact is a random fact and where the server read it from ("cache" or "store")
type RandomFact struct {
	Fact   string `json:"fact"`
	Source string `json:"source"`
}

// FetchedFact is a fact pulled from the external api and stored
type FetchedFact struct {
	Fact string `json:"fact"`
}

// LikedFact is one entry of the likes listing
type LikedFact struct {
	LikeID    uint      `json:"like_id"`
	FactID    uint      `json:"fact_id"`
	Fact      string    `json:"fact"`
	CreatedAt string    `json:"created_at"`
	LikedAt   time.Time `json:"liked_at"`
}

// HealthStatus reports dependency health
type HealthStatus struct {
	Database string `json:"database"`
	Cache    string `json:"cache"`
	Upstream string `json:"upstream"`
}
