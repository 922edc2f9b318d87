// SPDX-FileCopyrightText: Copyright (c) 2016-2025, StackScout, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-obvious/server"
	"github.com/go-obvious/server/api"
	"github.com/go-obvious/server/request"
	"github.com/rs/zerolog/log"

	"github.com/stackscout/stackscout-agent/app/types"
)

const applicationJSON = "application/json"

// ResourceAPI exposes the resolved monitored resource for debugging and
// for sidecars that want to tag their own telemetry.
type ResourceAPI struct {
	api.Service
	resolver types.Resolver
}

// NewResourceAPI creates the resource debug API backed by the given
// resolver.
func NewResourceAPI(base string, resolver types.Resolver) *ResourceAPI {
	a := &ResourceAPI{
		Service: api.Service{
			APIName: "resource",
			Mounts:  map[string]*chi.Mux{},
		},
		resolver: resolver,
	}
	a.Service.Mounts[base] = a.Routes()
	return a
}

func (a *ResourceAPI) Register(app server.Server) error {
	if err := a.Service.Register(app); err != nil {
		return err
	}
	return nil
}

func (a *ResourceAPI) Routes() *chi.Mux {
	r := chi.NewRouter()
	r.Get("/", a.getResource)
	return r
}

// getResource returns the resolved resource descriptor. The first request
// triggers resolution; later requests serve the cached result.
func (a *ResourceAPI) getResource(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	res := a.resolver.Resolve(ctx)

	w.Header().Set("Content-Type", applicationJSON)
	if err := json.NewEncoder(w).Encode(res); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to encode monitored resource")
		request.Reply(r, w, "failed to encode monitored resource", http.StatusInternalServerError)
	}
}
