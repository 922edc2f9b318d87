// SPDX-FileCopyrightText: Copyright (c) 2016-2025, StackScout, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package types

import "maps"

// ResourceTypeGlobal is the maximally degraded resource type, used when no
// managed environment is detected or a detected environment cannot satisfy
// its required label set.
const ResourceTypeGlobal = "global"

// MonitoredResource is the normalized output of a resolution: a resource
// type from the monitoring backend's fixed vocabulary plus the labels that
// type recognizes.
//
// The label mapping only ever contains labels belonging to the resource
// type's schema; it is never partially populated for a typed resource.
type MonitoredResource struct {
	Type   string            `json:"type" yaml:"type"`
	Labels map[string]string `json:"labels" yaml:"labels"`
}

// GlobalResource returns the fallback resource with an empty label mapping.
func GlobalResource() MonitoredResource {
	return MonitoredResource{
		Type:   ResourceTypeGlobal,
		Labels: map[string]string{},
	}
}

// Clone returns a deep copy so callers cannot mutate a cached resource.
func (m MonitoredResource) Clone() MonitoredResource {
	return MonitoredResource{
		Type:   m.Type,
		Labels: maps.Clone(m.Labels),
	}
}

// Equal reports whether two resources have the same type and labels.
func (m MonitoredResource) Equal(other MonitoredResource) bool {
	return m.Type == other.Type && maps.Equal(m.Labels, other.Labels)
}
