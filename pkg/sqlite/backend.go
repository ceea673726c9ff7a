// Package sqlite provides the public factory for the SQLite storage engine
// while keeping its implementation internal.
package sqlite

import (
	"go.uber.org/zap"

	"github.com/mesh-intelligence/stockroom/internal/sqlite"
	"github.com/mesh-intelligence/stockroom/pkg/types"
)

// NewBackend creates a new SQLite engine. The engine is not open; call Open
// with a Config to initialize. A nil logger discards log output.
//
// Example:
//
//	engine := sqlite.NewBackend(nil)
//	err := engine.Open(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: dir,
//	})
//	defer engine.Close()
func NewBackend(log *zap.Logger) types.Engine {
	return sqlite.NewBackend(sqlite.WithLogger(log))
}
