// SPDX-FileCopyrightText: Copyright (c) 2016-2025, StackScout, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package resolver orchestrates detection and resource building, running
// the sequence exactly once per process and caching the outcome.
package resolver

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/stackscout/stackscout-agent/app/detector"
	"github.com/stackscout/stackscout-agent/app/metadata"
	"github.com/stackscout/stackscout-agent/app/resource"
	"github.com/stackscout/stackscout-agent/app/signals"
	"github.com/stackscout/stackscout-agent/app/types"
)

// ProbeResult records one metadata lookup for the diagnostic side channel.
type ProbeResult struct {
	Path     string        `json:"path"`
	Outcome  string        `json:"outcome"`
	Duration time.Duration `json:"duration"`
}

// Resolver resolves the monitored resource for the current process.
//
// The first call to Resolve or Environment performs detection; concurrent
// first callers are serialized by a one-time-initialization guard so
// detection runs at most once and everyone observes the same result.
type Resolver struct {
	meta          metadata.Client
	ambient       *signals.Ambient
	namespaceFile string
	logger        zerolog.Logger

	once        sync.Once
	environment types.Environment
	resource    types.MonitoredResource

	// traceMu guards trace: Trace may be called while another goroutine
	// is inside the first resolution.
	traceMu sync.Mutex
	trace   []ProbeResult
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMetadataClient overrides the metadata client.
func WithMetadataClient(meta metadata.Client) Option {
	return func(r *Resolver) {
		r.meta = meta
	}
}

// WithGetenv overrides the environment accessor, for tests.
func WithGetenv(getenv signals.Getenv) Option {
	return func(r *Resolver) {
		r.ambient = signals.New(getenv)
	}
}

// WithNamespaceFile overrides the mounted namespace file path.
func WithNamespaceFile(path string) Option {
	return func(r *Resolver) {
		r.namespaceFile = path
	}
}

// WithLogger attaches a logger for probe diagnostics. Detection outcomes
// are logged at debug level; nothing is logged by default.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// New creates a Resolver. Without options it probes the real metadata
// service and the real process environment.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		ambient: signals.New(nil),
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.meta == nil {
		r.meta = metadata.NewHTTPClient()
	}
	return r
}

// Resolve returns the monitored resource, computing it on first call and
// returning the cached value afterwards. It never fails; the degraded
// outcome is the "global" resource with an empty label mapping.
func (r *Resolver) Resolve(ctx context.Context) types.MonitoredResource {
	r.resolveOnce(ctx)
	return r.resource.Clone()
}

// Environment returns the detected environment variant, resolving first if
// necessary.
func (r *Resolver) Environment(ctx context.Context) types.Environment {
	r.resolveOnce(ctx)
	return r.environment
}

// Trace returns the metadata probes recorded during resolution, in the
// order they were issued. It returns nil before the first Resolve call.
// This is a diagnostic side channel; the primary result never carries
// errors.
func (r *Resolver) Trace() []ProbeResult {
	r.traceMu.Lock()
	defer r.traceMu.Unlock()

	if r.trace == nil {
		return nil
	}
	probes := make([]ProbeResult, len(r.trace))
	copy(probes, r.trace)
	return probes
}

func (r *Resolver) resolveOnce(ctx context.Context) {
	r.once.Do(func() {
		recorder := &recordingClient{inner: r.meta, logger: r.logger}

		detOpts := []detector.Option{detector.WithAmbient(r.ambient)}
		if r.namespaceFile != "" {
			detOpts = append(detOpts, detector.WithNamespaceFile(r.namespaceFile))
		}
		det := detector.New(recorder, detOpts...)

		env, bag := det.Detect(ctx)
		res := resource.Build(env, bag)

		r.logger.Debug().
			Str("environment", string(env)).
			Str("resource_type", res.Type).
			Int("probes", len(recorder.probes)).
			Msg("resolved monitored resource")

		r.environment = env
		r.resource = res

		r.traceMu.Lock()
		r.trace = recorder.probes
		r.traceMu.Unlock()
	})
}

var _ types.Resolver = (*Resolver)(nil)

// recordingClient decorates a metadata client with probe tracing. Probes
// within one resolution may run concurrently during label collection, so
// the slice is guarded.
type recordingClient struct {
	inner  metadata.Client
	logger zerolog.Logger

	mu     sync.Mutex
	probes []ProbeResult
}

func (c *recordingClient) Fetch(ctx context.Context, path string) metadata.Result {
	start := time.Now()
	result := c.inner.Fetch(ctx, path)
	elapsed := time.Since(start)

	c.logger.Debug().
		Str("path", path).
		Str("outcome", result.Outcome.String()).
		Dur("duration", elapsed).
		Msg("metadata probe")

	c.mu.Lock()
	c.probes = append(c.probes, ProbeResult{
		Path:     path,
		Outcome:  result.Outcome.String(),
		Duration: elapsed,
	})
	c.mu.Unlock()

	return result
}

var defaultResolver = New()

// Resolve resolves the monitored resource using the process-wide default
// Resolver. All callers share one detection.
func Resolve(ctx context.Context) types.MonitoredResource {
	return defaultResolver.Resolve(ctx)
}
