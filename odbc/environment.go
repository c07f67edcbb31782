package odbc

import (
	"github.com/gaborage/go-odbc/logger"
)

// Environment is the root of a handle tree. Every Connection in a pool is
// derived from one Environment, and the Environment must be closed last.
type Environment struct {
	drv Driver
	h   Handle
	log logger.Logger
}

// NewEnvironment allocates a native environment handle from drv and declares
// ODBC 3.x behavior on it. On any failure it returns a *SetupError and no
// partially constructed object.
func NewEnvironment(drv Driver, log logger.Logger) (*Environment, error) {
	h, rc := drv.AllocHandle(EnvHandle, 0)
	if !rc.Succeeded() {
		return nil, &SetupError{Kind: EnvHandle, Op: "alloc", Code: rc}
	}

	if rc := drv.SetEnvVersion(h); !rc.Succeeded() {
		drv.FreeHandle(EnvHandle, h)
		return nil, &SetupError{Kind: EnvHandle, Op: "set odbc version", Code: rc}
	}

	return &Environment{drv: drv, h: h, log: log}, nil
}

// Close releases the environment handle. It is idempotent; after the first
// call the Environment is empty and further calls are no-ops. All Connections
// derived from the Environment must be closed first.
func (e *Environment) Close() {
	if e.h == 0 {
		return
	}
	if rc := e.drv.FreeHandle(EnvHandle, e.h); !rc.Succeeded() {
		e.log.Warn().Int("rc", int(rc)).Msg("Failed to free environment handle")
	}
	e.h = 0
}

// Handle returns the underlying native handle, or zero after Close.
func (e *Environment) Handle() Handle {
	return e.h
}
