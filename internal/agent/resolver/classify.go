package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var quotaMarkers = []string{
	"429",
	"resource_exhausted",
	"resource exhausted",
	"quota",
	"rate limit",
	"too many requests",
}

// IsQuotaError reports whether err looks like a quota or rate-limit rejection.
func IsQuotaError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrQuotaExceeded) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, m := range quotaMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return err
	case IsQuotaError(err):
		return fmt.Errorf("%w: %w", ErrQuotaExceeded, err)
	default:
		return err
	}
}
