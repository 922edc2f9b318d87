// SPDX-FileCopyrightText: Copyright (c) 2016-2025, StackScout, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package metadata provides a bounded-timeout client for the local
// instance metadata service.
//
// Every lookup is a single attempt; there are no retries, so a non-cloud
// host pays at most one timeout per probed path. Callers that want retry
// behavior must wrap the client themselves.
package metadata

import (
	"context"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	// DefaultHost is the documented metadata service IP address. An IP is
	// used instead of "metadata.google.internal" because we cannot know
	// how the host's DNS is configured.
	DefaultHost = "169.254.169.254"

	// HostOverrideEnv names the environment variable that redirects
	// metadata requests, which allows spoofing the service in a container
	// for local testing.
	HostOverrideEnv = "GCE_METADATA_HOST"

	// DefaultTimeout bounds each individual lookup. It is deliberately
	// short so a host without a metadata service is not penalized with a
	// long startup delay.
	DefaultTimeout = 500 * time.Millisecond

	// flavorHeader must be present on every request; the real service
	// rejects or redirects requests without it.
	flavorHeader = "Metadata-Flavor"
	flavorValue  = "Google"

	pathPrefix = "/computeMetadata/v1/"

	userAgent = "stackscout-agent/1.0"
)

// Outcome classifies the result of a single metadata lookup.
type Outcome int

const (
	// OutcomeValue means the path resolved to a non-empty value. The
	// metadata service is reachable and this host is a managed-cloud host.
	OutcomeValue Outcome = iota

	// OutcomeAbsent means the service responded but the path has no data
	// (not-found semantics, or an empty body). Still informative: metadata
	// access itself works.
	OutcomeAbsent

	// OutcomeUnreachable means no response was obtained within the
	// timeout. Uninformative: it cannot distinguish "not this environment"
	// from a network hiccup, and must never be treated as definitive
	// evidence of any particular environment.
	OutcomeUnreachable
)

// String returns a human-readable name for diagnostics.
func (o Outcome) String() string {
	switch o {
	case OutcomeValue:
		return "value"
	case OutcomeAbsent:
		return "absent"
	case OutcomeUnreachable:
		return "unreachable"
	default:
		return "invalid"
	}
}

// Result is the outcome of one lookup. Value is non-empty only when
// Outcome is OutcomeValue.
type Result struct {
	Outcome Outcome
	Value   string
}

// Client issues per-path lookups against the metadata service.
type Client interface {
	// Fetch looks up a single metadata path, e.g. "project/project-id".
	// It performs exactly one bounded attempt and never returns an error;
	// failures are folded into the Result outcome.
	Fetch(ctx context.Context, path string) Result
}

// HTTPClient is the production Client backed by net/http.
type HTTPClient struct {
	client *http.Client
	host   string
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithTimeout overrides the per-lookup timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *HTTPClient) {
		c.client.Timeout = timeout
	}
}

// WithHost overrides the metadata service host, taking precedence over
// both the default IP and the HostOverrideEnv variable.
func WithHost(host string) Option {
	return func(c *HTTPClient) {
		c.host = host
	}
}

// NewHTTPClient creates a metadata client. The host defaults to
// DefaultHost unless overridden via HostOverrideEnv or WithHost.
func NewHTTPClient(opts ...Option) *HTTPClient {
	c := &HTTPClient{
		client: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	if host := os.Getenv(HostOverrideEnv); host != "" {
		c.host = host
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.host == "" {
		c.host = DefaultHost
	}
	return c
}

// Fetch implements Client.
func (c *HTTPClient) Fetch(ctx context.Context, path string) Result {
	url := "http://" + c.host + pathPrefix + strings.TrimPrefix(path, "/")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Result{Outcome: OutcomeUnreachable}
	}
	req.Header.Set(flavorHeader, flavorValue)
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		// Connection refused, DNS failure, or timeout: no evidence either way.
		return Result{Outcome: OutcomeUnreachable}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// The service responded, so metadata access works; this specific
		// path simply has nothing for us.
		return Result{Outcome: OutcomeAbsent}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Result{Outcome: OutcomeUnreachable}
	}

	value := strings.TrimSpace(string(body))
	if value == "" {
		return Result{Outcome: OutcomeAbsent}
	}

	return Result{Outcome: OutcomeValue, Value: value}
}

var _ Client = (*HTTPClient)(nil)
