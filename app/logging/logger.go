// SPDX-FileCopyrightText: Copyright (c) 2016-2025, StackScout, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package logging provides the shared zerolog logger construction used by
// the agent binaries and library consumers.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// LoggerOpts holds the logger configuration.
type LoggerOpts struct {
	Level  zerolog.Level
	Writer io.Writer
	Pretty bool
}

// LoggerOption configures the logger.
type LoggerOption func(*LoggerOpts) error

// WithLevel sets the minimum level from its string name (trace, debug,
// info, warn, error, fatal, panic).
func WithLevel(level string) LoggerOption {
	return func(o *LoggerOpts) error {
		parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
		if err != nil {
			return errors.Wrapf(err, "invalid log level %q", level)
		}
		o.Level = parsed
		return nil
	}
}

// WithWriter sets the output destination.
func WithWriter(w io.Writer) LoggerOption {
	return func(o *LoggerOpts) error {
		if w == nil {
			return errors.New("writer cannot be nil")
		}
		o.Writer = w
		return nil
	}
}

// WithPretty enables the human-readable console writer instead of JSON.
func WithPretty() LoggerOption {
	return func(o *LoggerOpts) error {
		o.Pretty = true
		return nil
	}
}

// NewLogger builds a zerolog logger with timestamps attached. Defaults:
// info level, JSON output to stderr.
func NewLogger(opts ...LoggerOption) (*zerolog.Logger, error) {
	cfg := LoggerOpts{
		Level:  zerolog.InfoLevel,
		Writer: os.Stderr,
	}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, errors.Wrap(err, "failed to apply logger option")
		}
	}

	writer := cfg.Writer
	if cfg.Pretty {
		writer = zerolog.ConsoleWriter{Out: cfg.Writer, TimeFormat: time.RFC3339}
	}

	logger := zerolog.New(writer).Level(cfg.Level).With().Timestamp().Logger()
	return &logger, nil
}
