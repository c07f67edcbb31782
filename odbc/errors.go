package odbc

import "fmt"

// SetupError reports a failed handle allocation or mandatory attribute
// configuration during construction. When it is returned no usable object
// exists and nothing needs releasing.
type SetupError struct {
	Kind HandleKind
	Op   string
	Code ReturnCode
}

// Error implements the error interface.
func (e *SetupError) Error() string {
	return fmt.Sprintf("odbc: %s setup failed during %s (rc=%d)", e.Kind, e.Op, e.Code)
}

// Diagnostic is the structured error state attached to a handle after a
// failed native operation. It is immutable once created.
type Diagnostic struct {
	// State is the five-character SQLSTATE code.
	State string
	// Native is the driver-specific error code.
	Native int32
	// Message is the driver's diagnostic text.
	Message string
}

// Error implements the error interface.
func (d *Diagnostic) Error() string {
	return fmt.Sprintf("odbc error: state=%s native=%d message=%q", d.State, d.Native, d.Message)
}

// generalError is the SQLSTATE used when an operation fails but the driver
// reports no diagnostic record.
const generalError = "HY000"

// diagnose retrieves the first diagnostic record for h. It returns nil when
// the driver reports no error state, which is a valid outcome; callers that
// still face an operation failure must synthesize a Diagnostic via fallback.
func diagnose(drv Driver, kind HandleKind, h Handle) *Diagnostic {
	state, native, message, rc := drv.GetDiagRec(kind, h)
	if !rc.Succeeded() {
		return nil
	}
	return &Diagnostic{State: state, Native: native, Message: message}
}

// fallback returns d unless it is nil, in which case it synthesizes a
// generic Diagnostic carrying msg. Operation failures never surface as an
// empty error.
func fallback(d *Diagnostic, msg string) *Diagnostic {
	if d != nil {
		return d
	}
	return &Diagnostic{State: generalError, Native: 0, Message: msg}
}
