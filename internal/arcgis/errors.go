package arcgis

import (
	"errors"
	"fmt"
)

// ErrEmptyResponse indicates the portal answered with an empty body
var ErrEmptyResponse = errors.New("empty response from ArcGIS portal")

// APIError is the error envelope the portal returns, usually with HTTP 200.
type APIError struct {
	Code    int      `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ArcGIS API error %d: %s", e.Code, e.Message)
}

// StatusError represents a non-2xx HTTP response from the portal
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ArcGIS portal returned HTTP %d for %s", e.StatusCode, e.URL)
}
