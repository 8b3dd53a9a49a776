package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/athena"
	"github.com/aws/aws-sdk-go-v2/service/glue"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"golang.org/x/sync/errgroup"

	"github.com/riseshia/athenadef/internal/definition"
	"github.com/riseshia/athenadef/internal/target"
)

// Options configure the AWS catalog implementation.
type Options struct {
	Workgroup            string
	OutputLocation       string
	Region               string
	DatabasePrefix       string
	QueryTimeout         time.Duration
	MaxConcurrentQueries int
}

// AWS implements Catalog against Athena for DDL execution, Glue for
// structural metadata, and S3 for query-result cleanup.
type AWS struct {
	runner         *queryRunner
	glue           *glueCatalog
	databasePrefix string
	maxConcurrent  int
}

var _ Catalog = (*AWS)(nil)

// NewAWS builds the AWS clients from the default credential chain, with an
// optional region override.
func NewAWS(ctx context.Context, opts Options) (*AWS, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	cleaner := &resultCleaner{client: s3.NewFromConfig(cfg)}
	runner := newQueryRunner(
		athena.NewFromConfig(cfg),
		opts.Workgroup,
		opts.OutputLocation,
		opts.QueryTimeout,
		opts.MaxConcurrentQueries,
		cleaner,
	)

	return &AWS{
		runner:         runner,
		glue:           &glueCatalog{client: glue.NewFromConfig(cfg)},
		databasePrefix: opts.DatabasePrefix,
		maxConcurrent:  opts.MaxConcurrentQueries,
	}, nil
}

// ListTables fetches the definitions of every table selected by the target
// patterns: structural metadata from Glue, DDL text from SHOW CREATE TABLE.
// Table listing and DDL fetches run concurrently under the configured budget.
func (a *AWS) ListTables(ctx context.Context, targets []string) (map[definition.TableID]*definition.TableDefinition, error) {
	matcher := target.NewMatcher(targets)

	databases, err := a.glue.listDatabases(ctx)
	if err != nil {
		return nil, transientErr(definition.TableID{}, err)
	}

	defs := make(map[definition.TableID]*definition.TableDefinition)
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.maxConcurrent)
	for _, database := range databases {
		database := database
		if a.databasePrefix != "" && !strings.HasPrefix(database, a.databasePrefix) {
			continue
		}
		if !matcher.MatchDatabase(database) {
			continue
		}
		g.Go(func() error {
			tables, err := a.glue.listTables(gctx, database)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			for _, def := range tables {
				if matcher.Match(def.ID.Database, def.ID.Name) {
					defs[def.ID] = def
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, transientErr(definition.TableID{}, err)
	}

	// Fill in the DDL text. The query runner's semaphore bounds concurrency.
	// A table without retrievable DDL fails the whole listing: dropping it
	// would hand the differ a partial remote view and misclassify the table.
	g, gctx = errgroup.WithContext(ctx)
	for _, id := range definition.SortedIDs(defs) {
		id := id
		def := defs[id]
		g.Go(func() error {
			result, err := a.runner.run(gctx, "SHOW CREATE TABLE `"+id.Database+"`.`"+id.Name+"`")
			if err != nil {
				return &Error{ID: id, Kind: classifyKind(err), Err: err}
			}
			ddl, ok := extractDDL(result.rows)
			if !ok {
				return transientErr(id, fmt.Errorf("SHOW CREATE TABLE returned no DDL"))
			}
			def.RawText = ddl
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return defs, nil
}

// CreateTable creates the database if needed, then executes the table's DDL
// text unchanged.
func (a *AWS) CreateTable(ctx context.Context, def *definition.TableDefinition) error {
	if _, err := a.runner.run(ctx, "CREATE DATABASE IF NOT EXISTS `"+def.ID.Database+"`"); err != nil {
		return &Error{ID: def.ID, Kind: classifyKind(err), Err: err}
	}
	if _, err := a.runner.run(ctx, def.RawText); err != nil {
		return &Error{ID: def.ID, Kind: classifyKind(err), Err: err}
	}
	return nil
}

// UpdateTable replaces the remote definition: Athena external tables carry no
// data, so an update is a drop followed by a create from the local DDL.
func (a *AWS) UpdateTable(ctx context.Context, def *definition.TableDefinition) error {
	if err := a.DeleteTable(ctx, def.ID); err != nil {
		return err
	}
	if _, err := a.runner.run(ctx, def.RawText); err != nil {
		return &Error{ID: def.ID, Kind: classifyKind(err), Err: err}
	}
	return nil
}

// DeleteTable drops the table.
func (a *AWS) DeleteTable(ctx context.Context, id definition.TableID) error {
	if _, err := a.runner.run(ctx, "DROP TABLE IF EXISTS `"+id.Database+"`.`"+id.Name+"`"); err != nil {
		return &Error{ID: id, Kind: classifyKind(err), Err: err}
	}
	return nil
}

// classifyKind maps runner errors to the catalog error taxonomy: a query the
// service evaluated and rejected is permanent, everything else (transport,
// throttling, timeout, cancellation) is transient.
func classifyKind(err error) ErrorKind {
	if errors.Is(err, errQueryFailed) {
		return Permanent
	}
	return Transient
}

// extractDDL assembles the CREATE TABLE text from SHOW CREATE TABLE result
// rows, skipping the header row when the service includes one.
func extractDDL(rows [][]string) (string, bool) {
	var lines []string
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		if i == 0 && strings.EqualFold(strings.TrimSpace(row[0]), "createtab_stmt") {
			continue
		}
		lines = append(lines, row[0])
	}
	if len(lines) == 0 {
		return "", false
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n"), true
}
