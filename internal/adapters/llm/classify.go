package llm

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/PabloGalante/folio-agent/internal/domain"
)

// kindForStatus maps an upstream HTTP status to a failure kind.
func kindForStatus(code int) domain.FailureKind {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return domain.FailureAuth
	case code == http.StatusTooManyRequests:
		return domain.FailureQuota
	case code == http.StatusRequestTimeout || code == http.StatusGatewayTimeout:
		return domain.FailureTimeout
	case code >= 500:
		return domain.FailureNetwork
	default:
		return domain.FailureMalformed
	}
}

// classifyTransport wraps an error that happened before any status came back.
func classifyTransport(model domain.ModelID, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.NewCompletionError(domain.FailureTimeout, model, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return domain.NewCompletionError(domain.FailureTimeout, model, err)
	}
	return domain.NewCompletionError(domain.FailureNetwork, model, err)
}

func validateRequest(model domain.ModelID, prompt string) error {
	if model == "" {
		return domain.ErrEmptyModel
	}
	if prompt == "" {
		return domain.ErrEmptyPrompt
	}
	return nil
}
