// Package dto defines request and response shapes for the HTTP API.
package dto

// RegisterSourceRequest asks for a database table to be registered as a
// live tile source.
type RegisterSourceRequest struct {
	Schema string `json:"schema" binding:"required"`
	Table  string `json:"table" binding:"required"`
}

// RegisterSourceResponse reports the id the new source was registered under.
type RegisterSourceResponse struct {
	SourceID string `json:"source_id"`
	Message  string `json:"message"`
}
