package client

// This file defines functional options that configure the Client during
// construction. Keeping them in a standalone file makes it easy to discover
// all available knobs at a glance.

import (
	"fmt"
	"net/http"
	"time"
)

// Option configures a Client during construction in New.
//
// Options are applied in order, before the request-ID transport wrapper is
// installed, so transport-related options (like debug logging) sit underneath
// it and see the X-Request-ID header.
type Option func(*Client) error

// WithHTTPClient replaces the underlying http.Client. The client is copied, so
// the caller's instance is never modified. Pass it before other transport
// options, since it replaces whatever they installed.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return fmt.Errorf("http client cannot be nil")
		}
		cp := *hc
		c.http = &cp
		return nil
	}
}

// WithHTTPTimeout sets the underlying http.Client Timeout.
//
// It bounds the total time spent on a single HTTP request (connection, TLS
// handshake, redirects, reading the response). The value must be greater
// than zero.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("http timeout must be > 0")
		}
		c.http.Timeout = d
		return nil
	}
}

// WithDebugLogging wraps the client's transport so each request/response is
// dumped to the debug log when enabled is true.
// Do not enable this in production; dumps include full bodies.
func WithDebugLogging(enabled bool) Option {
	return func(c *Client) error {
		if enabled {
			c.http.Transport = &debugTransport{base: c.http.Transport}
		}
		return nil
	}
}

// WithMemberLookup switches GetLoansByMember from its stub to a real
// GET /loans/member/{memberId} call.
func WithMemberLookup(enabled bool) Option {
	return func(c *Client) error {
		c.memberLookup = enabled
		return nil
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) error {
		c.userAgent = ua
		return nil
	}
}
