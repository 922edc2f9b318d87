// SPDX-FileCopyrightText: Copyright (c) 2016-2025, StackScout, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package exporter transmits telemetry payloads tagged with the resolved
// monitored resource to the ingest API.
//
// The exporter is the collaborator expected to carry retry policy: the
// metadata client underneath the resolver never retries, while uploads
// here go through a retrying HTTP client.
package exporter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/stackscout/stackscout-agent/app/config"
	"github.com/stackscout/stackscout-agent/app/types"
)

// URLPath is the ingest endpoint for tagged telemetry.
const URLPath = "/v1/telemetry"

// Envelope is the wire format: the resolved resource descriptor plus the
// caller's payload, consumed verbatim by the backend.
type Envelope struct {
	Resource types.MonitoredResource `json:"resource"`
	Payload  any                     `json:"payload"`
}

// Exporter posts envelopes to the ingest API.
type Exporter struct {
	client   *retryablehttp.Client
	endpoint string
	resolver types.Resolver
	logger   zerolog.Logger
}

// New creates an Exporter for the given settings and resolver.
func New(settings *config.Settings, r types.Resolver, logger zerolog.Logger) (*Exporter, error) {
	if settings == nil {
		return nil, errors.New("settings cannot be nil")
	}
	if r == nil {
		return nil, errors.New("resolver cannot be nil")
	}

	scheme := "https"
	if settings.Export.UseHTTP {
		scheme = "http"
	}
	endpoint := url.URL{
		Scheme: scheme,
		Host:   settings.Export.Host,
		Path:   URLPath,
	}

	client := retryablehttp.NewClient()
	client.Logger = newLeveledLogger(logger)
	client.HTTPClient = &http.Client{Timeout: settings.Export.SendTimeout}
	client.RetryMax = settings.Export.MaxRetries
	client.RetryWaitMax = settings.Export.MaxWait

	return &Exporter{
		client:   client,
		endpoint: endpoint.String(),
		resolver: r,
		logger:   logger,
	}, nil
}

// Post resolves the monitored resource (cached after the first call) and
// uploads the payload tagged with it.
func (e *Exporter) Post(ctx context.Context, payload any) error {
	envelope := Envelope{
		Resource: e.resolver.Resolve(ctx),
		Payload:  payload,
	}

	body, err := json.Marshal(envelope)
	if err != nil {
		return errors.Wrap(err, "failed to encode telemetry envelope")
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "failed to build upload request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "telemetry upload failed")
	}
	defer resp.Body.Close()

	// drain so the connection can be reused
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("telemetry upload rejected: status %d", resp.StatusCode)
	}

	e.logger.Debug().
		Str("endpoint", e.endpoint).
		Str("resource_type", envelope.Resource.Type).
		Msg("telemetry uploaded")

	return nil
}

// leveledLogger adapts zerolog to retryablehttp.LeveledLogger.
type leveledLogger struct {
	logger zerolog.Logger
}

func newLeveledLogger(logger zerolog.Logger) *leveledLogger {
	return &leveledLogger{logger: logger}
}

func (l *leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error().Fields(kvsToMap(keysAndValues...)).Msg(msg)
}

func (l *leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info().Fields(kvsToMap(keysAndValues...)).Msg(msg)
}

func (l *leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(kvsToMap(keysAndValues...)).Msg(msg)
}

func (l *leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn().Fields(kvsToMap(keysAndValues...)).Msg(msg)
}

var _ retryablehttp.LeveledLogger = (*leveledLogger)(nil)

func kvsToMap(keysAndValues ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		if key, ok := keysAndValues[i].(string); ok {
			m[key] = keysAndValues[i+1]
		}
	}
	return m
}
