// Package source loads table definitions from the local SQL file tree. The
// layout is one file per table, two levels deep: <base>/<database>/<table>.sql.
package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/riseshia/athenadef/internal/definition"
	"github.com/riseshia/athenadef/internal/logger"
	"github.com/riseshia/athenadef/internal/target"
)

// ErrExists reports a write that would replace an existing definition file.
var ErrExists = errors.New("file already exists")

// Error is a local definition problem: an unreadable file or a file that does
// not fit the directory layout. Any Error aborts the run; a partial view of
// the local state must never reach the differ.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Load walks baseDir and parses every .sql file selected by the target
// patterns into a table definition keyed by its identity.
func Load(baseDir string, targets []string) (map[definition.TableID]*definition.TableDefinition, error) {
	matcher := target.NewMatcher(targets)
	defs := make(map[definition.TableID]*definition.TableDefinition)

	err := filepath.WalkDir(baseDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return &Error{Path: path, Err: err}
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".sql") {
			return nil
		}

		id, err := tableIDFromPath(baseDir, path)
		if err != nil {
			return &Error{Path: path, Err: err}
		}
		if !matcher.Match(id.Database, id.Name) {
			return nil
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			return &Error{Path: path, Err: err}
		}
		if strings.TrimSpace(string(raw)) == "" {
			return &Error{Path: path, Err: fmt.Errorf("definition file is empty")}
		}

		defs[id] = definition.ScanDDL(id, string(raw))
		logger.Get().Debug("loaded table definition", "table", id.String(), "path", path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return defs, nil
}

// tableIDFromPath derives the table identity from the file's position in the
// tree. Exactly <base>/<database>/<table>.sql is accepted.
func tableIDFromPath(baseDir, path string) (definition.TableID, error) {
	rel, err := filepath.Rel(baseDir, path)
	if err != nil {
		return definition.TableID{}, err
	}

	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) != 2 {
		return definition.TableID{}, fmt.Errorf("expected <database>/<table>.sql layout, got %s", rel)
	}

	database := parts[0]
	table := strings.TrimSuffix(parts[1], filepath.Ext(parts[1]))
	if database == "" || table == "" {
		return definition.TableID{}, fmt.Errorf("expected <database>/<table>.sql layout, got %s", rel)
	}

	return definition.TableID{Database: database, Name: table}, nil
}

// WriteTable writes a definition's DDL text to its place in the tree, creating
// the database directory as needed. Existing files are only replaced when
// overwrite is set.
func WriteTable(baseDir string, def *definition.TableDefinition, overwrite bool) (string, error) {
	dir := filepath.Join(baseDir, def.ID.Database)
	path := filepath.Join(dir, def.ID.Name+".sql")

	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return path, &Error{Path: path, Err: ErrExists}
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return path, &Error{Path: path, Err: err}
	}

	text := def.RawText
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return path, &Error{Path: path, Err: err}
	}
	return path, nil
}
