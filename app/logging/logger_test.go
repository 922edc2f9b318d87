// SPDX-FileCopyrightText: Copyright (c) 2016-2025, StackScout, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_Defaults(t *testing.T) {
	logger, err := NewLogger()
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
}

func TestNewLogger_Level(t *testing.T) {
	logger, err := NewLogger(WithLevel("debug"))
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, logger.GetLevel())

	// Case and surrounding whitespace are tolerated.
	logger, err = NewLogger(WithLevel(" WARN "))
	require.NoError(t, err)
	assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	_, err := NewLogger(WithLevel("loud"))
	assert.Error(t, err)
}

func TestNewLogger_NilWriter(t *testing.T) {
	_, err := NewLogger(WithWriter(nil))
	assert.Error(t, err)
}

func TestNewLogger_WritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(WithWriter(&buf), WithLevel("info"))
	require.NoError(t, err)

	logger.Info().Str("component", "test").Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["message"])
	assert.Equal(t, "test", entry["component"])
	assert.Contains(t, entry, "time")
}

func TestNewLogger_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(WithWriter(&buf), WithLevel("error"))
	require.NoError(t, err)

	logger.Debug().Msg("dropped")
	assert.Zero(t, buf.Len())
}
