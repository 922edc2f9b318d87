// SPDX-FileCopyrightText: Copyright (c) 2016-2025, StackScout, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/stackscout/stackscout-agent/app/config"
	"github.com/stackscout/stackscout-agent/app/types"
	"github.com/stackscout/stackscout-agent/app/types/mocks"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewSettings_FromFile(t *testing.T) {
	path := writeConfig(t, `
project_id: my-project
location: us-central1-a
logging:
  level: debug
metadata:
  timeout: 250ms
export:
  host: ingest.example.com
  max_retries: 2
server:
  mode: http
  port: 9090
`)

	settings, err := config.NewSettings(path)
	require.NoError(t, err)

	assert.Equal(t, "my-project", settings.ProjectID)
	assert.Equal(t, "us-central1-a", settings.Location)
	assert.Equal(t, "debug", settings.Logging.Level)
	assert.Equal(t, 250*time.Millisecond, settings.Metadata.Timeout)
	assert.Equal(t, "ingest.example.com", settings.Export.Host)
	assert.Equal(t, 2, settings.Export.MaxRetries)
	assert.Equal(t, uint(9090), settings.Server.Port)
}

func TestNewSettings_MissingFile(t *testing.T) {
	_, err := config.NewSettings(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestNewSettings_EnvironmentOnly(t *testing.T) {
	t.Setenv("PROJECT_ID", "env-project")
	t.Setenv("LOG_LEVEL", "warn")

	settings, err := config.NewSettings()
	require.NoError(t, err)

	assert.Equal(t, "env-project", settings.ProjectID)
	assert.Equal(t, "warn", settings.Logging.Level)
	assert.Equal(t, config.DefaultExportHost, settings.Export.Host)
}

func TestValidate_InvalidServerMode(t *testing.T) {
	path := writeConfig(t, `
server:
  mode: gopher
`)

	_, err := config.NewSettings(path)
	assert.ErrorContains(t, err, "invalid server mode")
}

func TestDetectConfiguration_FillsEmptyFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	r := mocks.NewMockResolver(ctrl)
	r.EXPECT().Resolve(gomock.Any()).Return(types.MonitoredResource{
		Type: "gce_instance",
		Labels: map[string]string{
			"project_id":  "detected-project",
			"instance_id": "1234567891",
			"zone":        "us-central1-a",
		},
	})

	projectID := ""
	location := ""
	err := config.DetectConfiguration(context.Background(), r, &projectID, &location)
	require.NoError(t, err)

	assert.Equal(t, "detected-project", projectID)
	assert.Equal(t, "us-central1-a", location)
}

func TestDetectConfiguration_ExplicitValuesWin(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// The resolver must not even be consulted when everything is set.
	r := mocks.NewMockResolver(ctrl)

	projectID := "explicit-project"
	location := "europe-west1"
	err := config.DetectConfiguration(context.Background(), r, &projectID, &location)
	require.NoError(t, err)

	assert.Equal(t, "explicit-project", projectID)
	assert.Equal(t, "europe-west1", location)
}

func TestDetectConfiguration_GlobalResourceFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	r := mocks.NewMockResolver(ctrl)
	r.EXPECT().Resolve(gomock.Any()).Return(types.GlobalResource())

	projectID := ""
	err := config.DetectConfiguration(context.Background(), r, &projectID, nil)

	assert.ErrorContains(t, err, "could not be auto-detected")
	assert.Empty(t, projectID)
}

func TestDetectConfiguration_LocationFromRegion(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	r := mocks.NewMockResolver(ctrl)
	r.EXPECT().Resolve(gomock.Any()).Return(types.MonitoredResource{
		Type: "cloud_function",
		Labels: map[string]string{
			"project_id": "detected-project",
			"region":     "us-east1",
		},
	})

	location := ""
	err := config.DetectConfiguration(context.Background(), r, nil, &location)
	require.NoError(t, err)

	assert.Equal(t, "us-east1", location)
}
