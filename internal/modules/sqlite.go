package modules

import (
	"database/sql"
	"fmt"

	"github.com/lumen-lang/lumen/internal/value"
	_ "modernc.org/sqlite"
)

// newSQLiteModule backs `using "sqlite"` over modernc.org/sqlite's
// database/sql driver (registered under the driver name "sqlite"), exposed
// to Lumen source as open/exec/queryScalar for simple key-value style
// caches. cmd/lumen's own bytecode cache uses the same driver directly
// rather than through this module, since its payloads aren't Lumen values.
func newSQLiteModule() *value.Module {
	return &value.Module{
		Name: "sqlite",
		Members: map[string]value.Value{
			"open":        native("open", sqliteOpen),
			"exec":        native("exec", sqliteExec),
			"queryScalar": native("queryScalar", sqliteQueryScalar),
		},
	}
}

// handles maps an opaque path-keyed handle to its *sql.DB. Lumen has no
// pointer/object value kind to carry a live handle across native calls, so
// callers pass the same path string back in every call and the module
// keeps the connection open for the process lifetime.
var handles = map[string]*sql.DB{}

func sqliteDB(path string) (*sql.DB, error) {
	if db, ok := handles[path]; ok {
		return db, nil
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	handles[path] = db
	return db, nil
}

func sqliteOpen(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("open: expected 1 argument, got %d", len(args))
	}
	path, ok := args[0].(*value.String)
	if !ok {
		return nil, fmt.Errorf("open: path must be a string")
	}
	if _, err := sqliteDB(path.Value); err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	return &value.String{Value: path.Value}, nil
}

func sqliteExec(args []value.Value) (value.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("exec: expected 2 arguments (path, statement), got %d", len(args))
	}
	path, ok := args[0].(*value.String)
	if !ok {
		return nil, fmt.Errorf("exec: path must be a string")
	}
	stmt, ok := args[1].(*value.String)
	if !ok {
		return nil, fmt.Errorf("exec: statement must be a string")
	}
	db, err := sqliteDB(path.Value)
	if err != nil {
		return nil, fmt.Errorf("exec: %w", err)
	}
	if _, err := db.Exec(stmt.Value); err != nil {
		return nil, fmt.Errorf("exec: %w", err)
	}
	return value.Nil{}, nil
}

func sqliteQueryScalar(args []value.Value) (value.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("queryScalar: expected 2 arguments (path, query), got %d", len(args))
	}
	path, ok := args[0].(*value.String)
	if !ok {
		return nil, fmt.Errorf("queryScalar: path must be a string")
	}
	query, ok := args[1].(*value.String)
	if !ok {
		return nil, fmt.Errorf("queryScalar: query must be a string")
	}
	db, err := sqliteDB(path.Value)
	if err != nil {
		return nil, fmt.Errorf("queryScalar: %w", err)
	}
	var out string
	if err := db.QueryRow(query.Value).Scan(&out); err != nil {
		if err == sql.ErrNoRows {
			return value.Nil{}, nil
		}
		return nil, fmt.Errorf("queryScalar: %w", err)
	}
	return &value.String{Value: out}, nil
}
