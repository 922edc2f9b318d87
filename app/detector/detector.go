// SPDX-FileCopyrightText: Copyright (c) 2016-2025, StackScout, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package detector decides which managed environment the process runs in.
//
// Probes run in a fixed priority order: ambient environment variables
// first (free and authoritative when present), then the metadata service.
// Cluster membership is checked before generic VM classification because a
// cluster node also exhibits VM-level metadata and the more specific
// classification must win. The detector always terminates in a variant;
// no probe failure is fatal.
package detector

import (
	"context"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/stackscout/stackscout-agent/app/metadata"
	"github.com/stackscout/stackscout-agent/app/signals"
	"github.com/stackscout/stackscout-agent/app/types"
)

// Metadata service paths consulted during detection.
const (
	pathProjectID       = "project/project-id"
	pathZone            = "instance/zone"
	pathRegion          = "instance/region"
	pathInstanceID      = "instance/id"
	pathClusterName     = "instance/attributes/cluster-name"
	pathClusterLocation = "instance/attributes/cluster-location"
)

// defaultNamespaceFile is where the kubelet mounts the pod's namespace.
const defaultNamespaceFile = "/var/run/secrets/kubernetes.io/serviceaccount/namespace"

// Detector runs the ordered probe sequence. It holds no mutable state
// across resolutions; each Detect call owns its own SignalBag.
type Detector struct {
	meta          metadata.Client
	ambient       *signals.Ambient
	namespaceFile string
}

// Option configures a Detector.
type Option func(*Detector)

// WithAmbient overrides the environment-variable reader, for tests.
func WithAmbient(ambient *signals.Ambient) Option {
	return func(d *Detector) {
		d.ambient = ambient
	}
}

// WithNamespaceFile overrides the mounted namespace file path, for tests.
func WithNamespaceFile(path string) Option {
	return func(d *Detector) {
		d.namespaceFile = path
	}
}

// New creates a Detector probing through the given metadata client.
func New(meta metadata.Client, opts ...Option) *Detector {
	d := &Detector{
		meta:          meta,
		ambient:       signals.New(nil),
		namespaceFile: defaultNamespaceFile,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect classifies the current environment and returns it together with
// the signals gathered along the way. Exactly one variant is returned;
// ambient markers set by the platform are treated as ground truth and are
// never overridden by later metadata evidence.
func (d *Detector) Detect(ctx context.Context) (types.Environment, types.SignalBag) {
	bag := d.ambient.Read()

	// Environment variables are zero-cost and deterministic, so they are
	// consulted before any network call.
	switch {
	case d.ambient.IsAppEngine():
		d.collectAppEngine(ctx, bag)
		return types.EnvironmentAppEngine, bag
	case d.ambient.IsCloudFunction():
		d.collectLocated(ctx, bag, types.SignalRegion)
		return types.EnvironmentCloudFunction, bag
	case d.ambient.IsCloudRunService():
		d.collectLocated(ctx, bag, types.SignalLocation)
		return types.EnvironmentCloudRunService, bag
	case d.ambient.IsCloudRunJob():
		d.collectLocated(ctx, bag, types.SignalLocation)
		return types.EnvironmentCloudRunJob, bag
	}

	// Narrow, cheap discriminating probe: only cluster nodes carry a
	// cluster name attribute.
	cluster := d.meta.Fetch(ctx, pathClusterName)
	if cluster.Outcome == metadata.OutcomeValue {
		bag.Set(types.SignalClusterName, cluster.Value)
		d.collectKubernetes(ctx, bag)
		return types.EnvironmentKubernetesEngine, bag
	}

	if cluster.Outcome == metadata.OutcomeAbsent {
		// The service answered, so this is a managed-cloud host; without a
		// cluster marker it classifies as a plain VM.
		d.collectCompute(ctx, bag)
		return types.EnvironmentComputeEngine, bag
	}

	// Every metadata call was unreachable: not a recognized managed-cloud
	// environment, or metadata access is blocked.
	return types.EnvironmentUnknown, bag
}

// collectAppEngine fills the application-platform labels. The module and
// version signals were already read from the environment.
func (d *Detector) collectAppEngine(ctx context.Context, bag types.SignalBag) {
	var project, zone metadata.Result

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		project = d.meta.Fetch(gctx, pathProjectID)
		return nil
	})
	g.Go(func() error {
		zone = d.meta.Fetch(gctx, pathZone)
		return nil
	})
	_ = g.Wait()

	if project.Outcome == metadata.OutcomeValue {
		bag.Set(types.SignalProjectID, project.Value)
	} else {
		bag.Set(types.SignalProjectID, d.ambient.ProjectIDFallback())
	}
	if zone.Outcome == metadata.OutcomeValue {
		bag.Set(types.SignalZone, lastSegment(zone.Value))
	}
}

// collectLocated fills the project and placement labels shared by the
// serverless variants. locationSignal selects the label name the target
// schema expects (region for functions, location for revisions and jobs).
func (d *Detector) collectLocated(ctx context.Context, bag types.SignalBag, locationSignal types.Signal) {
	var project, region metadata.Result

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		project = d.meta.Fetch(gctx, pathProjectID)
		return nil
	})
	g.Go(func() error {
		region = d.meta.Fetch(gctx, pathRegion)
		return nil
	})
	_ = g.Wait()

	if project.Outcome == metadata.OutcomeValue {
		bag.Set(types.SignalProjectID, project.Value)
	}
	if region.Outcome == metadata.OutcomeValue {
		bag.Set(locationSignal, lastSegment(region.Value))
	}
}

// collectKubernetes fills the cluster labels beyond the cluster name,
// which the discriminating probe already recorded.
func (d *Detector) collectKubernetes(ctx context.Context, bag types.SignalBag) {
	var project, location metadata.Result

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		project = d.meta.Fetch(gctx, pathProjectID)
		return nil
	})
	g.Go(func() error {
		location = d.meta.Fetch(gctx, pathClusterLocation)
		return nil
	})
	_ = g.Wait()

	if project.Outcome == metadata.OutcomeValue {
		bag.Set(types.SignalProjectID, project.Value)
	}
	if location.Outcome == metadata.OutcomeValue {
		bag.Set(types.SignalLocation, location.Value)
	}

	bag.Set(types.SignalNamespaceName, d.namespace())
}

// collectCompute fills the VM labels.
func (d *Detector) collectCompute(ctx context.Context, bag types.SignalBag) {
	var project, instance, zone metadata.Result

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		project = d.meta.Fetch(gctx, pathProjectID)
		return nil
	})
	g.Go(func() error {
		instance = d.meta.Fetch(gctx, pathInstanceID)
		return nil
	})
	g.Go(func() error {
		zone = d.meta.Fetch(gctx, pathZone)
		return nil
	})
	_ = g.Wait()

	if project.Outcome == metadata.OutcomeValue {
		bag.Set(types.SignalProjectID, project.Value)
	}
	if instance.Outcome == metadata.OutcomeValue {
		bag.Set(types.SignalInstanceID, instance.Value)
	}
	if zone.Outcome == metadata.OutcomeValue {
		bag.Set(types.SignalZone, lastSegment(zone.Value))
	}
}

// namespace reads the pod namespace from the mounted service account
// directory, falling back to the user-supplied variable when the token is
// not mounted.
func (d *Detector) namespace() string {
	if data, err := os.ReadFile(d.namespaceFile); err == nil {
		if ns := strings.TrimSpace(string(data)); ns != "" {
			return ns
		}
	}
	return d.ambient.NamespaceFallback()
}

// lastSegment returns the portion after the final slash. Zone and region
// values arrive fully qualified, e.g.
// "projects/1234567890/zones/us-central1-a".
func lastSegment(value string) string {
	if idx := strings.LastIndex(value, "/"); idx >= 0 {
		return value[idx+1:]
	}
	return value
}
