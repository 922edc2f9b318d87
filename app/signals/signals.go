// SPDX-FileCopyrightText: Copyright (c) 2016-2025, StackScout, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package signals reads the ambient process environment variables that the
// managed serverless and application platforms set for their workloads.
//
// Reading is synchronous, involves no network I/O, and has no failure
// mode: a variable that is unset simply yields an absent signal.
package signals

import (
	"os"

	"github.com/stackscout/stackscout-agent/app/types"
)

// Environment variable names are fixed by the platforms being detected.
const (
	envGAEService    = "GAE_SERVICE"
	envGAEModuleName = "GAE_MODULE_NAME"
	envGAEVersion    = "GAE_VERSION"
	envGAEInstance   = "GAE_INSTANCE"

	envFunctionTarget = "FUNCTION_TARGET"

	envKService       = "K_SERVICE"
	envKRevision      = "K_REVISION"
	envKConfiguration = "K_CONFIGURATION"
	envCloudRunJob    = "CLOUD_RUN_JOB"

	envGoogleCloudProject = "GOOGLE_CLOUD_PROJECT"

	// A deployment that customizes its hostname will leave HOSTNAME with
	// content that is not the pod name; there is no better in-container
	// source, so it is treated as best-effort.
	envHostname = "HOSTNAME"

	// There is no way to derive the container name from within the
	// container; platforms rely on a user-supplied variable.
	envContainerName = "CONTAINER_NAME"

	// Fallback namespace source for clusters where the service account
	// token is not mounted.
	envNamespaceName = "NAMESPACE_NAME"
)

// Getenv is the environment accessor; injectable for tests.
type Getenv func(key string) string

// Ambient reads detection markers and label signals from the process
// environment.
type Ambient struct {
	getenv Getenv
}

// New creates an Ambient reader. A nil getenv uses os.Getenv.
func New(getenv Getenv) *Ambient {
	if getenv == nil {
		getenv = os.Getenv
	}
	return &Ambient{getenv: getenv}
}

// IsAppEngine reports whether the App Engine platform markers are present.
// All three are required; App Engine sets them together.
func (a *Ambient) IsAppEngine() bool {
	return a.getenv(envGAEService) != "" &&
		a.getenv(envGAEVersion) != "" &&
		a.getenv(envGAEInstance) != ""
}

// IsCloudFunction reports whether the serverless function marker is present.
func (a *Ambient) IsCloudFunction() bool {
	return a.getenv(envFunctionTarget) != ""
}

// IsCloudRunService reports whether the managed-revision marker is present.
// A function deployed on the same infrastructure also carries
// K_CONFIGURATION, so the function marker must be absent.
func (a *Ambient) IsCloudRunService() bool {
	return a.getenv(envKConfiguration) != "" && a.getenv(envFunctionTarget) == ""
}

// IsCloudRunJob reports whether the managed-job marker is present.
func (a *Ambient) IsCloudRunJob() bool {
	return a.getenv(envCloudRunJob) != ""
}

// ProjectIDFallback returns the ambient project ID, used only when the
// metadata service cannot supply one on the application platform.
func (a *Ambient) ProjectIDFallback() string {
	return a.getenv(envGoogleCloudProject)
}

// NamespaceFallback returns the user-supplied namespace name.
func (a *Ambient) NamespaceFallback() string {
	return a.getenv(envNamespaceName)
}

// Read gathers all label-valued signals available from the environment
// into a fresh SignalBag. Absent variables yield absent entries.
func (a *Ambient) Read() types.SignalBag {
	bag := types.NewSignalBag()

	moduleID := a.getenv(envGAEService)
	if moduleID == "" {
		moduleID = a.getenv(envGAEModuleName)
	}
	bag.Set(types.SignalModuleID, moduleID)
	bag.Set(types.SignalVersionID, a.getenv(envGAEVersion))

	// K_SERVICE doubles as the function name; FUNCTION_NAME is legacy.
	bag.Set(types.SignalFunctionName, a.getenv(envKService))
	bag.Set(types.SignalServiceName, a.getenv(envKService))
	bag.Set(types.SignalRevisionName, a.getenv(envKRevision))
	bag.Set(types.SignalConfigurationName, a.getenv(envKConfiguration))
	bag.Set(types.SignalJobName, a.getenv(envCloudRunJob))

	bag.Set(types.SignalPodName, a.getenv(envHostname))
	bag.Set(types.SignalContainerName, a.getenv(envContainerName))

	return bag
}
