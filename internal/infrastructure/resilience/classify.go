package resilience

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/kirillkom/department-assistant/internal/core/domain"
)

// StatusError is a non-2xx reply from an HTTP-backed provider.
type StatusError struct {
	Provider   string
	Operation  string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	status := fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("%s %s status: %s", e.Provider, e.Operation, status)
	}
	return fmt.Sprintf("%s %s status: %s: %s", e.Provider, e.Operation, status, body)
}

// StatusCoder is implemented by provider SDK errors that carry an HTTP status.
type StatusCoder interface {
	HTTPStatus() int
}

// ClassifyTransportError retries throttling, 5xx replies and network failures.
// Cancellation is neither retried nor counted against the breaker.
func ClassifyTransportError(err error) ErrorClassification {
	if err == nil {
		return ErrorClassification{}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ErrorClassification{Retryable: false, RecordFailure: false}
	}
	if IsCircuitOpen(err) {
		return ErrorClassification{Retryable: true, RecordFailure: true}
	}

	if code, ok := statusCode(err); ok {
		if IsRetryableHTTPStatus(code) {
			return ErrorClassification{Retryable: true, RecordFailure: true}
		}
		return ErrorClassification{Retryable: false, RecordFailure: false}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return ErrorClassification{Retryable: true, RecordFailure: true}
	}
	return ErrorClassification{Retryable: false, RecordFailure: true}
}

// MarkTemporary tags retryable failures with domain.ErrTemporary.
func MarkTemporary(operation string, err error) error {
	if err == nil || domain.IsKind(err, domain.ErrTemporary) {
		return err
	}
	if ClassifyTransportError(err).Retryable {
		return domain.WrapError(domain.ErrTemporary, operation, err)
	}
	return err
}

func IsRetryableHTTPStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusRequestTimeout, http.StatusTooManyRequests, http.StatusInternalServerError,
		http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

func statusCode(err error) (int, bool) {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode, true
	}
	var coder StatusCoder
	if errors.As(err, &coder) {
		return coder.HTTPStatus(), true
	}
	return 0, false
}
