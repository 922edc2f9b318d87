// SPDX-FileCopyrightText: Copyright (c) 2016-2025, StackScout, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package resource assembles the final monitored resource from a detected
// environment and the signals collected during detection.
//
// Each environment maps to a fixed schema of required and optional labels.
// The builder never emits a partially-labeled typed resource: if any
// required label is missing, the result degrades to the "global" resource
// with an empty label mapping.
package resource

import "github.com/stackscout/stackscout-agent/app/types"

// Schema defines the label rules for one resource type.
type Schema struct {
	// ResourceType is the backend's identifier for this resource kind.
	ResourceType string

	// Required labels must all resolve or the type is not emitted.
	Required []types.Signal

	// Optional labels are included only when present; their absence does
	// not block emission.
	Optional []types.Signal
}

// schemas is the closed mapping from environment variant to label schema.
// EnvironmentUnknown intentionally has no entry; it always builds the
// global resource.
var schemas = map[types.Environment]Schema{
	types.EnvironmentAppEngine: {
		ResourceType: "gae_app",
		Required:     []types.Signal{types.SignalProjectID},
		Optional:     []types.Signal{types.SignalModuleID, types.SignalVersionID, types.SignalZone},
	},
	types.EnvironmentCloudFunction: {
		ResourceType: "cloud_function",
		Required:     []types.Signal{types.SignalProjectID},
		Optional:     []types.Signal{types.SignalRegion, types.SignalFunctionName},
	},
	types.EnvironmentCloudRunService: {
		ResourceType: "cloud_run_revision",
		Required:     []types.Signal{types.SignalProjectID},
		Optional: []types.Signal{
			types.SignalLocation,
			types.SignalServiceName,
			types.SignalRevisionName,
			types.SignalConfigurationName,
		},
	},
	types.EnvironmentCloudRunJob: {
		ResourceType: "cloud_run_job",
		Required:     []types.Signal{types.SignalProjectID},
		Optional:     []types.Signal{types.SignalLocation, types.SignalJobName},
	},
	types.EnvironmentKubernetesEngine: {
		ResourceType: "k8s_container",
		Required: []types.Signal{
			types.SignalProjectID,
			types.SignalClusterName,
			types.SignalNamespaceName,
		},
		Optional: []types.Signal{
			types.SignalLocation,
			types.SignalPodName,
			types.SignalContainerName,
		},
	},
	types.EnvironmentComputeEngine: {
		ResourceType: "gce_instance",
		Required: []types.Signal{
			types.SignalProjectID,
			types.SignalInstanceID,
			types.SignalZone,
		},
	},
}

// SchemaFor returns the label schema for an environment, if one exists.
func SchemaFor(env types.Environment) (Schema, bool) {
	s, ok := schemas[env]
	return s, ok
}

// Build assembles the monitored resource for the detected environment from
// the collected signals. It is a pure transformation with no side effects.
func Build(env types.Environment, bag types.SignalBag) types.MonitoredResource {
	schema, ok := schemas[env]
	if !ok {
		return types.GlobalResource()
	}

	labels := make(map[string]string, len(schema.Required)+len(schema.Optional))

	for _, name := range schema.Required {
		value, ok := bag.Get(name)
		if !ok {
			// Required label unresolvable: never emit a partial resource.
			return types.GlobalResource()
		}
		labels[string(name)] = value
	}

	for _, name := range schema.Optional {
		if value, ok := bag.Get(name); ok {
			labels[string(name)] = value
		}
	}

	return types.MonitoredResource{
		Type:   schema.ResourceType,
		Labels: labels,
	}
}
