package httputil

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// This package provides shared HTTP client utilities used by the provider-facing
// adapters so that timeouts and retry behavior stay consistent across clients.

// NewClient creates a Resty client with common configuration.
func NewClient(timeout time.Duration) *resty.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return resty.New().
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(2 * time.Second).
		SetRetryMaxWaitTime(10 * time.Second)
}
