// Copyright © 2026 Arka Labs

// Package core wires the engines into one explicit dependency bundle.
//
// There are no process-wide singletons: callers construct a Core from a
// storage gateway and pass it down. Each engine receives its dependencies
// at construction time.
package core

import (
	"context"

	"go.uber.org/zap"

	"github.com/arkalabs/hcm/pkg/artifacts"
	"github.com/arkalabs/hcm/pkg/hindex"
	"github.com/arkalabs/hcm/pkg/missions"
	"github.com/arkalabs/hcm/pkg/packs"
	"github.com/arkalabs/hcm/pkg/storage"
	"github.com/arkalabs/hcm/pkg/versioned"
)

// Core bundles all engines over one storage root.
type Core struct {
	Store     storage.Store
	Contracts *versioned.Engine
	Profiles  *versioned.Engine
	Docs      *versioned.Engine
	Packs     *packs.Engine
	Artifacts *artifacts.Engine
	Missions  *missions.Engine

	log *zap.Logger
}

// Option configures the bundle.
type Option func(*options)

type options struct {
	log *zap.Logger
}

// WithLogger sets the logger shared by every engine in the bundle.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// New builds the engine bundle over the given store.
func New(store storage.Store, opts ...Option) *Core {
	o := options{log: zap.NewNop()}
	for _, apply := range opts {
		apply(&o)
	}
	return &Core{
		Store:     store,
		Contracts: versioned.New(versioned.Contracts(), store, versioned.WithLogger(o.log)),
		Profiles:  versioned.New(versioned.ProjectProfiles(), store, versioned.WithLogger(o.log)),
		Docs:      versioned.New(versioned.EnterpriseDocs(), store, versioned.WithLogger(o.log)),
		Packs:     packs.New(store, packs.WithLogger(o.log)),
		Artifacts: artifacts.New(store, artifacts.WithLogger(o.log)),
		Missions:  missions.New(store, missions.WithLogger(o.log)),
		log:       o.log,
	}
}

// Router constructs the classification router over the bundle's store.
// Separate from New because router construction reads configuration and
// can fail.
func (c *Core) Router(ctx context.Context) (*hindex.Engine, error) {
	return hindex.New(ctx, c.Store, hindex.WithLogger(c.log))
}
