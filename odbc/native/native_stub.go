//go:build !odbc || !cgo

package native

import (
	"errors"

	"github.com/gaborage/go-odbc/odbc"
)

// ErrUnavailable is returned by New when the module was built without the
// odbc build tag or with cgo disabled.
var ErrUnavailable = errors.New("native: built without odbc support (build with -tags odbc and CGO_ENABLED=1)")

// New reports that no native driver manager is linked into this build.
func New() (odbc.Driver, error) {
	return nil, ErrUnavailable
}
