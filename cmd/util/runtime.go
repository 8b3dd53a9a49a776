// Package util wires the shared pieces the subcommands need: configuration,
// the remote catalog client, and the concurrent fetch of both definition sets.
package util

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/riseshia/athenadef/internal/catalog"
	"github.com/riseshia/athenadef/internal/config"
	"github.com/riseshia/athenadef/internal/definition"
	"github.com/riseshia/athenadef/internal/source"
	"github.com/riseshia/athenadef/internal/target"
)

// NewCatalog builds the AWS-backed catalog from the configuration.
func NewCatalog(ctx context.Context, cfg *config.Config) (catalog.Catalog, error) {
	return catalog.NewAWS(ctx, catalog.Options{
		Workgroup:            cfg.Workgroup,
		OutputLocation:       cfg.OutputLocation,
		Region:               cfg.Region,
		DatabasePrefix:       cfg.DatabasePrefix,
		QueryTimeout:         time.Duration(cfg.QueryTimeoutSeconds) * time.Second,
		MaxConcurrentQueries: cfg.MaxConcurrentQueries,
	})
}

// FetchStates loads the local definition tree and the remote catalog state in
// parallel, both restricted to the same resolved target patterns.
func FetchStates(ctx context.Context, baseDir string, cat catalog.Catalog, cliTargets []string, cfg *config.Config) (local, remote map[definition.TableID]*definition.TableDefinition, err error) {
	targets := target.Resolve(cliTargets, cfg.Databases)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		local, err = source.Load(baseDir, targets)
		return err
	})
	g.Go(func() error {
		var err error
		remote, err = cat.ListTables(gctx, targets)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return local, remote, nil
}
