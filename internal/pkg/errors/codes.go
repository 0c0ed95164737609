package errors

import "net/http"

var (
	ErrSessionNotFound = New(
		"SESSION_NOT_FOUND",
		"Map session not found",
		http.StatusNotFound,
	)

	ErrSessionLimit = New(
		"SESSION_LIMIT_REACHED",
		"Too many active map sessions",
		http.StatusTooManyRequests,
	)

	ErrEntityNotFound = New(
		"ENTITY_NOT_FOUND",
		"Vehicle or station not found",
		http.StatusNotFound,
	)

	ErrClusterNotFound = New(
		"CLUSTER_NOT_FOUND",
		"Cluster not found at this zoom level",
		http.StatusNotFound,
	)

	ErrInvalidViewport = New(
		"INVALID_VIEWPORT",
		"Invalid viewport: expected min < max and finite coordinates",
		http.StatusBadRequest,
	)

	ErrInvalidZoom = New(
		"INVALID_ZOOM",
		"Invalid zoom level",
		http.StatusBadRequest,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrUpstreamError = New(
		"UPSTREAM_ERROR",
		"Mobility API request failed",
		http.StatusBadGateway,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
