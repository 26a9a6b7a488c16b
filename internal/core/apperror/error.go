// Package apperror provides structured error handling for the tile engine.
// All request-path errors must use AppError for consistent API responses.
package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"tileserv/internal/core/tile"
)

// Error codes grouped by operator action
const (
	// Infrastructure errors (5xx)
	CodeInternal     = "INTERNAL_ERROR"
	CodePool         = "POOL_ERROR"          // scale the pool
	CodePrepareQuery = "PREPARE_QUERY_ERROR" // fix the SQL or the schema
	CodeGetTile      = "GET_TILE_ERROR"      // investigate data or query shape

	// Startup errors (fatal, process does not start)
	CodeConfiguration = "CONFIGURATION_ERROR"

	// Client errors (4xx)
	CodeInvalidInput  = "INVALID_INPUT"
	CodeBadRequest    = "BAD_REQUEST"
	CodeMergeConflict = "MERGE_CONFLICT"
	CodeNotFound      = "NOT_FOUND"
)

// AppError is the standard error type for the engine.
// It implements the error interface and carries structured details for API responses.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (source id, coordinate, SQL, etc.)
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the suggested HTTP status code
	HTTPStatus int `json:"-"`

	// Err is the underlying error (not exposed in JSON)
	Err error `json:"-"`
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// --- Factory functions for the engine's error taxonomy ---

// NewConfiguration creates a fatal startup configuration error.
func NewConfiguration(message string) *AppError {
	return &AppError{
		Code:       CodeConfiguration,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// NewSourceNotFound creates a not found error (404) for an unknown source id.
func NewSourceNotFound(id string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("Source %s does not exist", id),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"source_id": id},
	}
}

// NewTilesNotFound creates a not found error (404) for a tile request whose
// resolved source set is empty at the requested zoom.
func NewTilesNotFound(ids string, zoom uint8) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("No tiles found for %s at zoom %d", ids, zoom),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"source_ids": ids, "zoom": zoom},
	}
}

// NewMergeConflict creates an error (400) for a request naming sources
// with incompatible format fingerprints. Both fingerprints are named.
func NewMergeConflict(have, got tile.Info) *AppError {
	return &AppError{
		Code:       CodeMergeConflict,
		Message:    fmt.Sprintf("Cannot merge sources with %s and %s", have, got),
		HTTPStatus: http.StatusBadRequest,
		Details: map[string]any{
			"fingerprint":          have.String(),
			"conflict_fingerprint": got.String(),
		},
	}
}

// NewInvalidInput creates an invalid request error (400).
func NewInvalidInput(message string) *AppError {
	return &AppError{
		Code:       CodeInvalidInput,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewBadRequest creates a bad request error (400).
func NewBadRequest(message string) *AppError {
	return &AppError{
		Code:       CodeBadRequest,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewPool creates a connection pool acquisition error (503).
// Retry policy belongs to the pool, not to this error.
func NewPool(err error) *AppError {
	return &AppError{
		Code:       CodePool,
		Message:    "Could not acquire a database connection",
		HTTPStatus: http.StatusServiceUnavailable,
		Err:        err,
	}
}

// NewPrepareQuery creates a statement preparation error (500).
// Carries the source id, the descriptor signature and the raw SQL text so
// operators can locate the offending database object.
func NewPrepareQuery(err error, sourceID, signature, sql string) *AppError {
	return &AppError{
		Code:       CodePrepareQuery,
		Message:    fmt.Sprintf("Can't create prepared statement for %s", signature),
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
		Details: map[string]any{
			"source_id": sourceID,
			"signature": signature,
			"sql":       sql,
		},
	}
}

// NewGetTile creates a tile query execution error (500).
func NewGetTile(err error, sourceID string, coord tile.Coord) *AppError {
	return &AppError{
		Code:       CodeGetTile,
		Message:    fmt.Sprintf("Unable to get tile %s from %s", coord, sourceID),
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
		Details: map[string]any{
			"source_id": sourceID,
			"tile":      coord.String(),
		},
	}
}

// NewGetTileWithQuery creates a tile query execution error (500) that
// additionally carries the caller-supplied URL query for diagnostics.
func NewGetTileWithQuery(err error, sourceID string, coord tile.Coord, query map[string]string) *AppError {
	e := NewGetTile(err, sourceID, coord)
	return e.WithDetail("url_query", query)
}

// NewInternal creates an internal server error (hides details from client)
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// --- Helper functions ---

// IsAppError checks if error is AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError extracts AppError from error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetHTTPStatus returns appropriate HTTP status for any error
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// IsNotFound checks if error is CodeNotFound
func IsNotFound(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == CodeNotFound
	}
	return false
}

// IsMergeConflict checks if error is CodeMergeConflict
func IsMergeConflict(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == CodeMergeConflict
	}
	return false
}
