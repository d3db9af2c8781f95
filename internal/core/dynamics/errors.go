package dynamics

import "fmt"

// AuthError reports a rejected OAuth2 token exchange. It carries the upstream
// status and response body for diagnostics; callers decide whether a
// substitute dataset can stand in for the live upstream.
type AuthError struct {
	// StatusCode is the HTTP status returned by the identity provider.
	StatusCode int
	// Body is the raw response body, truncated.
	Body string
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	return fmt.Sprintf("token exchange rejected with status %d: %s", e.StatusCode, e.Body)
}

// UpstreamError reports a non-success response from an ERP resource query.
type UpstreamError struct {
	// StatusCode is the HTTP status returned by the ERP.
	StatusCode int
	// Body is the raw response body, truncated.
	Body string
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	return fmt.Sprintf("erp query returned status %d: %s", e.StatusCode, e.Body)
}
