package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/helakart/storefront/pkg/errors"
)

// RemoteErrorResponse mirrors the error body shape returned by the hosted
// backend's REST surface. It is used to parse structured error bodies from
// failed calls.
type RemoteErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Details string `json:"details"`
}

// ParseResponseError reads the body of a non-2xx HTTP response and translates
// it into an appropriate AppError. If the response body matches the backend's
// error format, the message is preserved. Otherwise a generic error is
// returned with the status code and raw body.
//
// The caller should only invoke this when resp.StatusCode indicates an error.
// The response body is fully consumed and closed.
func ParseResponseError(resp *http.Response, serviceName string) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB limit
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", serviceName, resp.StatusCode, err)
	}

	message := string(bodyBytes)
	var remote RemoteErrorResponse
	if json.Unmarshal(bodyBytes, &remote) == nil && remote.Message != "" {
		message = remote.Message
	}

	qualifiedMsg := fmt.Sprintf("%s: %s", serviceName, message)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return apperrors.NotFound(serviceName, message)
	case resp.StatusCode == http.StatusBadRequest:
		return apperrors.InvalidInput(qualifiedMsg)
	case resp.StatusCode == http.StatusConflict:
		return apperrors.Conflict(qualifiedMsg)
	case resp.StatusCode == http.StatusServiceUnavailable:
		return apperrors.Unavailable(qualifiedMsg)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%s server error (%d): %s", serviceName, resp.StatusCode, message)
	default:
		return &apperrors.AppError{
			Code:    "REMOTE_ERROR",
			Message: qualifiedMsg,
			Status:  resp.StatusCode,
		}
	}
}

// IsClientError returns true if the HTTP status code is a 4xx client error.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}
