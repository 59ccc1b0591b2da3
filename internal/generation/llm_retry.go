package generation

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"lammah-backend/internal/llm"
	"lammah-backend/internal/shared/telemetry"
)

const llmRetryBaseDelay = 300 * time.Millisecond

// retryingLLM wraps an llm.Client with a single bounded retry for
// rate-limit and transient network failures.
type retryingLLM struct {
	base      llm.Client
	requestID string
}

func newRetryingLLM(base llm.Client, requestID string) llm.Client {
	if base == nil {
		return nil
	}
	return retryingLLM{base: base, requestID: requestID}
}

func (r retryingLLM) Generate(ctx context.Context, req llm.Request) (string, error) {
	resp, err := r.base.Generate(ctx, req)
	if err == nil || !shouldRetryLLM(err) {
		return resp, err
	}

	telemetry.Info("llm.retry", map[string]any{
		"attempt":    1,
		"request_id": r.requestID,
		"error":      err.Error(),
	})
	select {
	case <-time.After(llmRetryBaseDelay):
	case <-ctx.Done():
		return "", ctx.Err()
	}

	return r.base.Generate(ctx, req)
}

func shouldRetryLLM(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, llm.ErrRateLimited) {
		return true
	}
	if errors.Is(err, llm.ErrAuthFailed) {
		return false
	}
	var upstream *llm.UpstreamError
	if errors.As(err, &upstream) {
		return upstream.Status >= 500
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "tls handshake timeout") ||
		strings.Contains(msg, "eof")
}
