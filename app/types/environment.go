// SPDX-FileCopyrightText: Copyright (c) 2016-2025, StackScout, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package types defines the core types for managed-cloud environment
// detection and monitored-resource construction.
package types

// Environment represents the detected managed execution environment.
//
// Exactly one Environment is selected per resolution. EnvironmentUnknown
// is the terminal fallback and carries no required labels.
type Environment string

const (
	// EnvironmentAppEngine represents the App Engine managed application platform
	EnvironmentAppEngine Environment = "app_engine"
	// EnvironmentCloudFunction represents a serverless function
	EnvironmentCloudFunction Environment = "cloud_function"
	// EnvironmentCloudRunService represents a managed serverless service revision
	EnvironmentCloudRunService Environment = "cloud_run_service"
	// EnvironmentCloudRunJob represents a managed serverless job execution
	EnvironmentCloudRunJob Environment = "cloud_run_job"
	// EnvironmentKubernetesEngine represents a managed Kubernetes cluster node
	EnvironmentKubernetesEngine Environment = "kubernetes_engine"
	// EnvironmentComputeEngine represents a plain virtual machine
	EnvironmentComputeEngine Environment = "compute_engine"
	// EnvironmentUnknown represents an undetected or unmanaged environment
	EnvironmentUnknown Environment = "unknown"
)
