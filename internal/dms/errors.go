package dms

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"

	"docdesk/internal/resilience"
)

// HTTPStatusError is a non-2xx response from the DMS API.
type HTTPStatusError struct {
	Operation  string
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "dms status error"
	}
	if strings.TrimSpace(e.Body) == "" {
		return fmt.Sprintf("dms %s: %s", e.Operation, e.Status)
	}
	return fmt.Sprintf("dms %s: %s: %s", e.Operation, e.Status, strings.TrimSpace(e.Body))
}

func classifyError(err error) resilience.Outcome {
	if err == nil {
		return resilience.Outcome{}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.Outcome{Retryable: false, RecordFailure: false}
	}
	if resilience.IsCircuitOpen(err) {
		return resilience.Outcome{Retryable: true, RecordFailure: true}
	}

	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		if isRetryableStatus(statusErr.StatusCode) {
			return resilience.Outcome{Retryable: true, RecordFailure: true}
		}
		// 4xx means the request itself is wrong; don't punish the breaker.
		return resilience.Outcome{Retryable: false, RecordFailure: false}
	}

	// Local file problems (upload source missing etc.) are not the server's fault.
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return resilience.Outcome{Retryable: false, RecordFailure: false}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return resilience.Outcome{Retryable: true, RecordFailure: true}
	}

	return resilience.Outcome{Retryable: false, RecordFailure: true}
}

func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusRequestTimeout,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

func openUploadFile(path string) (*os.File, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("dms upload: no file selected")
	}
	return os.Open(path)
}
