// Package pool caches named connections for a single worker goroutine.
//
// A Pool owns one odbc.Environment and a map of alias -> connection. It is
// deliberately lock-free: every pool belongs to exactly one goroutine for its
// whole lifetime and must never be shared, captured into work that may run
// elsewhere, or passed across a goroutine boundary. Workers that need
// connections each construct their own Pool.
package pool

import (
	"fmt"

	"github.com/gaborage/go-odbc/config"
	"github.com/gaborage/go-odbc/logger"
	"github.com/gaborage/go-odbc/odbc"
)

// Error reports a failed lazy connect for an alias. It wraps the underlying
// cause, usually an *odbc.Diagnostic.
type Error struct {
	Alias string
	Err   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("pool: failed to establish connection for alias %q: %v", e.Alias, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Pool is a lazily populated cache of named connections, confined to the
// goroutine that created it.
type Pool struct {
	env     *odbc.Environment
	conns   map[string]*odbc.Connection
	sources map[string]config.DataSource
	log     logger.Logger
}

// New creates a pool backed by a fresh environment allocated from drv.
// cfg may be nil when GetNamed is not used.
func New(drv odbc.Driver, cfg *config.Config, log logger.Logger) (*Pool, error) {
	env, err := odbc.NewEnvironment(drv, log)
	if err != nil {
		return nil, fmt.Errorf("pool: environment setup failed: %w", err)
	}

	var sources map[string]config.DataSource
	if cfg != nil {
		sources = cfg.DataSources
	}

	return &Pool{
		env:     env,
		conns:   make(map[string]*odbc.Connection),
		sources: sources,
		log:     log,
	}, nil
}

// Get returns the connection cached under alias, establishing it on first
// use. A cache hit returns the existing connection unchanged, with no
// reconnect and no liveness check. On a failed connect the partially built
// connection is released and a *Error wrapping the cause is returned;
// nothing is cached.
func (p *Pool) Get(alias, connStr string) (*odbc.Connection, error) {
	if conn, ok := p.conns[alias]; ok {
		return conn, nil
	}

	p.log.Debug().Str("alias", alias).Msg("Creating new connection for alias")

	conn, err := p.env.NewConnection()
	if err != nil {
		return nil, &Error{Alias: alias, Err: err}
	}

	if err := conn.Connect(connStr); err != nil {
		conn.Close()
		return nil, &Error{Alias: alias, Err: err}
	}

	p.conns[alias] = conn
	return conn, nil
}

// GetNamed resolves alias through the configured data sources and delegates
// to Get.
func (p *Pool) GetNamed(alias string) (*odbc.Connection, error) {
	src, ok := p.sources[alias]
	if !ok {
		return nil, &Error{Alias: alias, Err: fmt.Errorf("no configured data source")}
	}
	return p.Get(alias, src.ConnectionString)
}

// Size returns the number of cached connections.
func (p *Pool) Size() int {
	return len(p.conns)
}

// Close releases every cached connection and then the environment, in that
// order. It is idempotent and never fails; cleanup errors are logged by the
// handles themselves.
func (p *Pool) Close() {
	for alias, conn := range p.conns {
		conn.Close()
		delete(p.conns, alias)
	}
	p.env.Close()
}
