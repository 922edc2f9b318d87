// SPDX-FileCopyrightText: Copyright (c) 2016-2025, StackScout, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package types

import "context"

// Resolver defines the interface for monitored-resource resolution.
//
//go:generate mockgen -destination=mocks/resolver_mock.go -package=mocks . Resolver
type Resolver interface {
	// Environment returns the managed environment the process is running
	// in, resolving it first if necessary.
	//
	// Detection runs at most once per Resolver; subsequent calls return
	// the cached result without further metadata-service traffic.
	Environment(ctx context.Context) Environment

	// Resolve returns the monitored resource for the current environment.
	//
	// Resolve never fails: every path terminates in a valid resource, with
	// the "global"/empty-label resource as the maximally degraded case.
	// The context bounds the metadata-service probes of the first call;
	// a short timeout (hundreds of milliseconds per probe) is configured
	// on the underlying metadata client.
	Resolve(ctx context.Context) MonitoredResource
}
