// SPDX-FileCopyrightText: Copyright (c) 2016-2025, StackScout, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package types

// Signal names one piece of evidence gathered during detection, either from
// an environment variable or from the metadata service. Signal names double
// as the label names of the resource schemas that consume them.
type Signal string

const (
	SignalProjectID         Signal = "project_id"
	SignalZone              Signal = "zone"
	SignalRegion            Signal = "region"
	SignalLocation          Signal = "location"
	SignalInstanceID        Signal = "instance_id"
	SignalClusterName       Signal = "cluster_name"
	SignalNamespaceName     Signal = "namespace_name"
	SignalPodName           Signal = "pod_name"
	SignalContainerName     Signal = "container_name"
	SignalServiceName       Signal = "service_name"
	SignalRevisionName      Signal = "revision_name"
	SignalConfigurationName Signal = "configuration_name"
	SignalJobName           Signal = "job_name"
	SignalFunctionName      Signal = "function_name"
	SignalModuleID          Signal = "module_id"
	SignalVersionID         Signal = "version_id"
)

// SignalBag holds the signals collected opportunistically during a single
// resolution attempt. A signal is either present with a non-empty value or
// absent entirely; absence is distinct from an empty string.
//
// A SignalBag is created fresh per resolution and discarded once the
// resource has been built. It is not safe for concurrent use.
type SignalBag map[Signal]string

// NewSignalBag returns an empty bag.
func NewSignalBag() SignalBag {
	return make(SignalBag)
}

// Set records a signal value. Empty values are ignored so that absence
// stays distinguishable from empty.
func (b SignalBag) Set(name Signal, value string) {
	if value == "" {
		return
	}
	b[name] = value
}

// Get returns the value for a signal and whether it is present.
func (b SignalBag) Get(name Signal) (string, bool) {
	value, ok := b[name]
	return value, ok
}

// Has reports whether a signal is present.
func (b SignalBag) Has(name Signal) bool {
	_, ok := b[name]
	return ok
}
