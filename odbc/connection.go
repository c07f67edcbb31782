package odbc

import (
	"github.com/google/uuid"

	"github.com/gaborage/go-odbc/logger"
)

// Connection wraps a native connection handle derived from an Environment.
// It is confined to the goroutine that created its Environment.
type Connection struct {
	env       *Environment
	h         Handle
	id        string
	connected bool
	log       logger.Logger
}

// NewConnection allocates a connection handle under the environment.
// Deriving from a closed Environment is a setup failure.
func (e *Environment) NewConnection() (*Connection, error) {
	if e.h == 0 {
		return nil, &SetupError{Kind: ConnHandle, Op: "alloc from closed environment", Code: InvalidHandle}
	}

	h, rc := e.drv.AllocHandle(ConnHandle, e.h)
	if !rc.Succeeded() {
		return nil, &SetupError{Kind: ConnHandle, Op: "alloc", Code: rc}
	}

	id := uuid.NewString()
	return &Connection{
		env: e,
		h:   h,
		id:  id,
		log: e.log.WithFields(map[string]any{"connection_id": id}),
	}, nil
}

// ID returns the correlation id attached to this connection's log events.
func (c *Connection) ID() string {
	return c.id
}

// Handle returns the underlying native handle, or zero after Close.
func (c *Connection) Handle() Handle {
	return c.h
}

// Connect establishes the connection using connStr, passed through to the
// driver untouched. The driver is instructed never to prompt interactively;
// a driver that would show UI fails with a diagnostic instead.
func (c *Connection) Connect(connStr string) error {
	if rc := c.env.drv.DriverConnect(c.h, connStr); !rc.Succeeded() {
		return fallback(diagnose(c.env.drv, ConnHandle, c.h), "unknown connection error via DriverConnect")
	}
	c.connected = true
	c.log.Info().Msg("Connection established")
	return nil
}

// Disconnect explicitly closes the session on the data source. The handle
// stays allocated and may be reconnected.
func (c *Connection) Disconnect() error {
	c.log.Debug().Msg("Disconnecting connection")
	if rc := c.env.drv.Disconnect(c.h); !rc.Succeeded() {
		return fallback(diagnose(c.env.drv, ConnHandle, c.h), "unknown disconnection error")
	}
	c.connected = false
	return nil
}

// Close disconnects if needed and releases the connection handle. It is
// idempotent and never returns an error: cleanup failures are logged and
// swallowed so that a failure path cannot itself fail.
func (c *Connection) Close() {
	if c.h == 0 {
		return
	}

	if c.connected {
		if rc := c.env.drv.Disconnect(c.h); !rc.Succeeded() {
			d := fallback(diagnose(c.env.drv, ConnHandle, c.h), "disconnect failed during close")
			c.log.Warn().Err(d).Msg("Suppressed disconnect failure while closing connection")
		}
		c.connected = false
	}

	if rc := c.env.drv.FreeHandle(ConnHandle, c.h); !rc.Succeeded() {
		c.log.Warn().Int("rc", int(rc)).Msg("Failed to free connection handle")
	}
	c.h = 0
	c.log.Debug().Msg("Connection closed")
}
