// Package netx builds the HTTP client used to reach the blog API.
package netx

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/hyperblog/internal/common"
	"github.com/google/uuid"
)

// newRequestID is a test seam for uuid generation.
var newRequestID = uuid.NewString

// RequestIDTransport stamps every outbound request with a fresh
// X-Request-ID unless the caller already set one.
type RequestIDTransport struct {
	Base http.RoundTripper
}

func (t *RequestIDTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	if req.Header.Get(common.RequestIDHeaderName) != "" {
		return base.RoundTrip(req)
	}

	// RoundTrippers must not mutate the caller's request.
	clone := req.Clone(req.Context())
	clone.Header.Set(common.RequestIDHeaderName, newRequestID())
	return base.RoundTrip(clone)
}

// NewHTTPClient returns an *http.Client with the request-ID transport and
// the given overall timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: &RequestIDTransport{Base: http.DefaultTransport.(*http.Transport).Clone()},
	}
}
