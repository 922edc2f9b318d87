// SPDX-FileCopyrightText: Copyright (c) 2016-2025, StackScout, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package exporter

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/stackscout/stackscout-agent/app/types"
)

// RegisterResourceInfo registers an info-style gauge carrying the resolved
// resource type and labels as constant labels, so scrapers can join other
// series against the detected environment.
func RegisterResourceInfo(reg prometheus.Registerer, res types.MonitoredResource) error {
	constLabels := prometheus.Labels{"resource_type": res.Type}
	for name, value := range res.Labels {
		constLabels[name] = value
	}

	gauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "monitored_resource_info",
		Help:        "Constant gauge describing the detected monitored resource.",
		ConstLabels: constLabels,
	})
	if err := reg.Register(gauge); err != nil {
		return err
	}
	gauge.Set(1)

	return nil
}
