// SPDX-FileCopyrightText: Copyright (c) 2016-2025, StackScout, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package config implements the configuration for the stackscout agent.
//
// Settings are loaded from YAML files with environment variable overrides
// via cleanenv. Cloud placement fields left empty are backfilled from the
// resolved monitored resource, so deployments only configure what the
// platform cannot tell us.
package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/pkg/errors"

	"github.com/stackscout/stackscout-agent/app/types"
)

const (
	// DefaultExportHost is the production ingest hostname for tagged
	// telemetry uploads.
	DefaultExportHost = "ingest.stackscout.io"

	// DefaultExportTimeout bounds individual upload requests.
	DefaultExportTimeout = 10 * time.Second

	// DefaultMetadataTimeout bounds each metadata-service probe.
	DefaultMetadataTimeout = 500 * time.Millisecond
)

// Settings is the complete agent configuration.
type Settings struct {
	// ProjectID identifies the cloud project. Auto-detected if not
	// specified.
	ProjectID string `yaml:"project_id" env:"PROJECT_ID" env-description:"cloud project identifier"`

	// Location is the zone or region where the workload runs.
	// Auto-detected if not specified.
	Location string `yaml:"location" env:"LOCATION" env-description:"zone or region of the workload"`

	Logging  Logging  `yaml:"logging"`
	Metadata Metadata `yaml:"metadata"`
	Export   Export   `yaml:"export"`
	Server   Server   `yaml:"server"`
}

type Logging struct {
	Level string `yaml:"level" env-default:"info" env:"LOG_LEVEL" env-description:"logging level such as debug, info, error"`
}

type Metadata struct {
	// Host overrides the metadata service endpoint; used to spoof the
	// service in local testing. Empty means the platform default.
	Host    string        `yaml:"host" env:"METADATA_HOST" env-description:"metadata service host override"`
	Timeout time.Duration `yaml:"timeout" env-default:"500ms" env:"METADATA_TIMEOUT" env-description:"per-probe metadata lookup timeout"`
}

type Export struct {
	Host        string        `yaml:"host" env-default:"ingest.stackscout.io" env:"EXPORT_HOST" env-description:"host to send tagged telemetry to"`
	SendTimeout time.Duration `yaml:"send_timeout" env-default:"10s" env:"EXPORT_SEND_TIMEOUT" env-description:"timeout for upload requests"`
	MaxRetries  int           `yaml:"max_retries" env-default:"4" env:"EXPORT_MAX_RETRIES" env-description:"number of times the upload client will retry on failures"`
	MaxWait     time.Duration `yaml:"max_wait" env-default:"30s" env:"EXPORT_MAX_WAIT" env-description:"maximum wait between upload retries"`
	UseHTTP     bool          `yaml:"use_http" env-default:"false" env:"EXPORT_USE_HTTP" env-description:"use http instead of https for uploads"`
}

type Server struct {
	Mode string `yaml:"mode" env-default:"http" env:"SERVER_MODE" env-description:"server mode such as http, https"`
	Port uint   `yaml:"port" env-default:"8080" env:"SERVER_PORT" env-description:"debug server port"`
}

// NewSettings loads configuration from the given YAML files in order, then
// applies environment overrides and validates. Empty file names are
// skipped.
func NewSettings(configFiles ...string) (*Settings, error) {
	var cfg Settings

	loaded := false
	for _, cfgFile := range configFiles {
		if cfgFile == "" {
			continue
		}

		if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
			return nil, fmt.Errorf("no config %s", cfgFile)
		}

		if err := cleanenv.ReadConfig(cfgFile, &cfg); err != nil {
			return nil, fmt.Errorf("config read %s: %w", cfgFile, err)
		}
		loaded = true
	}

	if !loaded {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, errors.Wrap(err, "failed to read environment")
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "failed to validate settings")
	}

	return &cfg, nil
}

// Validate normalizes and checks the settings.
func (s *Settings) Validate() error {
	s.ProjectID = strings.TrimSpace(s.ProjectID)
	s.Location = strings.TrimSpace(s.Location)

	if s.Logging.Level == "" {
		s.Logging.Level = "info"
	}
	if s.Metadata.Timeout <= 0 {
		s.Metadata.Timeout = DefaultMetadataTimeout
	}
	if s.Export.Host == "" {
		s.Export.Host = DefaultExportHost
	}
	if s.Export.SendTimeout <= 0 {
		s.Export.SendTimeout = DefaultExportTimeout
	}
	if s.Export.MaxRetries < 0 {
		return errors.New("export max_retries cannot be negative")
	}
	if s.Server.Mode != "http" && s.Server.Mode != "https" {
		return fmt.Errorf("invalid server mode %q", s.Server.Mode)
	}
	if s.Server.Port == 0 || s.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", s.Server.Port)
	}

	return nil
}

// DetectConfiguration backfills empty placement fields from the resolved
// monitored resource. Non-empty values are left untouched, so explicit
// configuration always wins over detection. Fields that remain
// undeterminable are reported as an error for the caller to surface.
func DetectConfiguration(ctx context.Context, r types.Resolver, projectID *string, location *string) error {
	if (projectID == nil || *projectID != "") && (location == nil || *location != "") {
		return nil
	}

	res := r.Resolve(ctx)
	if res.Type == types.ResourceTypeGlobal {
		return errors.New("cloud environment could not be auto-detected, manual configuration may be required")
	}

	if projectID != nil && *projectID == "" {
		detected, ok := res.Labels[string(types.SignalProjectID)]
		if !ok {
			return errors.New("project ID could not be auto-detected, manual configuration may be required")
		}
		*projectID = detected
	}

	if location != nil && *location == "" {
		for _, name := range []types.Signal{types.SignalZone, types.SignalLocation, types.SignalRegion} {
			if detected, ok := res.Labels[string(name)]; ok {
				*location = detected
				break
			}
		}
		if *location == "" {
			return errors.New("location could not be auto-detected, manual configuration may be required")
		}
	}

	return nil
}
