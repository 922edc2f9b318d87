// SPDX-FileCopyrightText: Copyright (c) 2016-2025, StackScout, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignalBag_AbsentVersusEmpty(t *testing.T) {
	bag := NewSignalBag()

	bag.Set(SignalProjectID, "")
	assert.False(t, bag.Has(SignalProjectID), "empty values must not create entries")

	bag.Set(SignalProjectID, "my-project")
	value, ok := bag.Get(SignalProjectID)
	assert.True(t, ok)
	assert.Equal(t, "my-project", value)
}

func TestMonitoredResource_Clone(t *testing.T) {
	original := MonitoredResource{
		Type:   "gce_instance",
		Labels: map[string]string{"project_id": "my-project"},
	}

	clone := original.Clone()
	clone.Labels["project_id"] = "other"

	assert.Equal(t, "my-project", original.Labels["project_id"])
}

func TestMonitoredResource_Equal(t *testing.T) {
	a := MonitoredResource{Type: "gce_instance", Labels: map[string]string{"zone": "us-central1-a"}}
	b := a.Clone()
	assert.True(t, a.Equal(b))

	b.Labels["zone"] = "us-central1-b"
	assert.False(t, a.Equal(b))

	assert.True(t, GlobalResource().Equal(GlobalResource()))
}
