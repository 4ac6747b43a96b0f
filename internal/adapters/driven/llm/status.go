// Package llm holds helpers shared by the LLM provider adapters.
package llm

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/custodia-labs/reqbot-cli/internal/core/domain"
)

// maxErrorBody bounds how much of a provider error body ends up in messages.
const maxErrorBody = 512

// StatusError maps a non-200 provider response to an error. Rate limits
// wrap domain.ErrRateLimited and rejected credentials wrap
// domain.ErrLLMUnavailable.
func StatusError(provider string, status int, body []byte) error {
	msg := strings.TrimSpace(string(body))
	if len(msg) > maxErrorBody {
		msg = msg[:maxErrorBody] + "..."
	}

	switch status {
	case http.StatusTooManyRequests:
		return fmt.Errorf("%s (status %d): %w: %s", provider, status, domain.ErrRateLimited, msg)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%s (status %d): %w: %s", provider, status, domain.ErrLLMUnavailable, msg)
	default:
		return fmt.Errorf("%s error (status %d): %s", provider, status, msg)
	}
}
