package models

import "errors"

var (
	// ErrFeedUnavailable means the scoreboard could not be fetched or decoded
	ErrFeedUnavailable = errors.New("feed unavailable")

	// ErrPartialFeed means at least one summary fetch failed during a tick
	ErrPartialFeed = errors.New("partial feed failure")

	ErrLegNotFound   = errors.New("leg not found")
	ErrInvalidLeg    = errors.New("invalid leg")
	ErrInvalidStatus = errors.New("invalid leg status")
	ErrNotGradeable  = errors.New("leg cannot be graded")
)

// ErrorResponse is the JSON body of an API error
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
