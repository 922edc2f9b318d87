// SPDX-FileCopyrightText: Copyright (c) 2016-2025, StackScout, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackscout/stackscout-agent/app/types"
)

func TestBuild_ComputeEngine(t *testing.T) {
	bag := types.SignalBag{
		types.SignalProjectID:  "my-project",
		types.SignalInstanceID: "1234567891",
		types.SignalZone:       "us-central1-a",
	}

	res := Build(types.EnvironmentComputeEngine, bag)

	assert.Equal(t, "gce_instance", res.Type)
	assert.Equal(t, map[string]string{
		"project_id":  "my-project",
		"instance_id": "1234567891",
		"zone":        "us-central1-a",
	}, res.Labels)
}

func TestBuild_MissingRequiredFallsBackToGlobal(t *testing.T) {
	// Compute Engine matched, but the zone lookup came back absent: the
	// output must be global, never a partially-labeled gce_instance.
	bag := types.SignalBag{
		types.SignalProjectID:  "my-project",
		types.SignalInstanceID: "1234567891",
	}

	res := Build(types.EnvironmentComputeEngine, bag)

	assert.Equal(t, types.ResourceTypeGlobal, res.Type)
	assert.Empty(t, res.Labels)
}

func TestBuild_OptionalAbsenceDoesNotBlock(t *testing.T) {
	bag := types.SignalBag{
		types.SignalProjectID: "my-project",
	}

	res := Build(types.EnvironmentCloudFunction, bag)

	assert.Equal(t, "cloud_function", res.Type)
	assert.Equal(t, map[string]string{"project_id": "my-project"}, res.Labels)
}

func TestBuild_OptionalIncludedWhenPresent(t *testing.T) {
	bag := types.SignalBag{
		types.SignalProjectID:         "my-project",
		types.SignalLocation:          "us-central1",
		types.SignalServiceName:       "my-service",
		types.SignalRevisionName:      "my-service-00042-abc",
		types.SignalConfigurationName: "my-service",
	}

	res := Build(types.EnvironmentCloudRunService, bag)

	assert.Equal(t, "cloud_run_revision", res.Type)
	assert.Equal(t, map[string]string{
		"project_id":         "my-project",
		"location":           "us-central1",
		"service_name":       "my-service",
		"revision_name":      "my-service-00042-abc",
		"configuration_name": "my-service",
	}, res.Labels)
}

func TestBuild_Unknown(t *testing.T) {
	bag := types.SignalBag{
		types.SignalProjectID: "my-project",
	}

	res := Build(types.EnvironmentUnknown, bag)

	assert.Equal(t, types.ResourceTypeGlobal, res.Type)
	assert.Empty(t, res.Labels)
}

func TestBuild_KubernetesEngine(t *testing.T) {
	bag := types.SignalBag{
		types.SignalProjectID:     "my-project",
		types.SignalClusterName:   "my-cluster",
		types.SignalNamespaceName: "default",
		types.SignalLocation:      "us-central1",
		types.SignalPodName:       "my-pod-7d9f",
	}

	res := Build(types.EnvironmentKubernetesEngine, bag)

	assert.Equal(t, "k8s_container", res.Type)
	assert.Equal(t, "my-cluster", res.Labels["cluster_name"])
	assert.Equal(t, "default", res.Labels["namespace_name"])
	assert.NotContains(t, res.Labels, "container_name")
}

// TestBuild_LabelSetContainment verifies that no signal leaks into the
// labels of a type whose schema does not define it, for every variant.
func TestBuild_LabelSetContainment(t *testing.T) {
	// A bag stuffed with every signal we know about.
	bag := types.NewSignalBag()
	for _, name := range []types.Signal{
		types.SignalProjectID, types.SignalZone, types.SignalRegion,
		types.SignalLocation, types.SignalInstanceID, types.SignalClusterName,
		types.SignalNamespaceName, types.SignalPodName, types.SignalContainerName,
		types.SignalServiceName, types.SignalRevisionName, types.SignalConfigurationName,
		types.SignalJobName, types.SignalFunctionName, types.SignalModuleID,
		types.SignalVersionID,
	} {
		bag.Set(name, "x")
	}

	environments := []types.Environment{
		types.EnvironmentAppEngine,
		types.EnvironmentCloudFunction,
		types.EnvironmentCloudRunService,
		types.EnvironmentCloudRunJob,
		types.EnvironmentKubernetesEngine,
		types.EnvironmentComputeEngine,
	}

	for _, env := range environments {
		t.Run(string(env), func(t *testing.T) {
			schema, ok := SchemaFor(env)
			require.True(t, ok)

			allowed := make(map[string]bool)
			for _, name := range schema.Required {
				allowed[string(name)] = true
			}
			for _, name := range schema.Optional {
				allowed[string(name)] = true
			}

			res := Build(env, bag)
			require.Equal(t, schema.ResourceType, res.Type)
			for label := range res.Labels {
				assert.True(t, allowed[label], "label %q not in schema for %s", label, env)
			}
		})
	}
}

func TestSchemaFor_UnknownHasNoSchema(t *testing.T) {
	_, ok := SchemaFor(types.EnvironmentUnknown)
	assert.False(t, ok)
}
