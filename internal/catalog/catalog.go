// Package catalog talks to the remote Athena / Glue Data Catalog. The rest of
// the tool consumes it through the Catalog interface; the AWS type is the real
// implementation.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/riseshia/athenadef/internal/definition"
)

// Catalog is the remote catalog port. ListTables fetches the current state of
// every table selected by the target patterns; the mutating calls submit a
// remote operation and block until it completes, fails, or times out.
type Catalog interface {
	ListTables(ctx context.Context, targets []string) (map[definition.TableID]*definition.TableDefinition, error)
	CreateTable(ctx context.Context, def *definition.TableDefinition) error
	UpdateTable(ctx context.Context, def *definition.TableDefinition) error
	DeleteTable(ctx context.Context, id definition.TableID) error
}

// ErrorKind separates errors the remote side may clear on its own from errors
// that need a definition or permission fix.
type ErrorKind int

const (
	// Transient covers network failures, throttling, and timeouts.
	Transient ErrorKind = iota
	// Permanent covers rejections of the submitted definition; the remote
	// error text is preserved verbatim.
	Permanent
)

// Error is a catalog operation failure attributed to a table.
type Error struct {
	ID   definition.TableID
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	if e.ID == (definition.TableID{}) {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.ID, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsPermanent reports whether err is a permanent catalog error.
func IsPermanent(err error) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.Kind == Permanent
}

func transientErr(id definition.TableID, err error) error {
	return &Error{ID: id, Kind: Transient, Err: err}
}
