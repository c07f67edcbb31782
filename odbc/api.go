// Package odbc wraps the ODBC driver-manager call surface in ownership-safe
// handle types. Each wrapper owns exactly one native handle; handles form a
// strict Environment -> Connection -> Statement tree in which no child may
// outlive its parent.
//
// Nothing in this package is safe for concurrent use. A handle is created,
// used, and released by a single goroutine; confinement replaces locking.
package odbc

// Handle is an opaque native handle issued by the driver manager.
// Zero means "no handle".
type Handle uintptr

// HandleKind selects the native handle class, mirroring the
// SQL_HANDLE_* constants.
type HandleKind int16

const (
	EnvHandle  HandleKind = 1 // SQL_HANDLE_ENV
	ConnHandle HandleKind = 2 // SQL_HANDLE_DBC
	StmtHandle HandleKind = 3 // SQL_HANDLE_STMT
)

// String returns the conventional name for the handle kind.
func (k HandleKind) String() string {
	switch k {
	case EnvHandle:
		return "environment"
	case ConnHandle:
		return "connection"
	case StmtHandle:
		return "statement"
	default:
		return "unknown"
	}
}

// ReturnCode is the native SQLRETURN value of a driver call.
type ReturnCode int16

const (
	Success         ReturnCode = 0   // SQL_SUCCESS
	SuccessWithInfo ReturnCode = 1   // SQL_SUCCESS_WITH_INFO
	NoData          ReturnCode = 100 // SQL_NO_DATA
	Failure         ReturnCode = -1  // SQL_ERROR
	InvalidHandle   ReturnCode = -2  // SQL_INVALID_HANDLE
)

// Succeeded reports whether rc is SQL_SUCCESS or SQL_SUCCESS_WITH_INFO,
// the same predicate as the SQL_SUCCEEDED macro.
func (rc ReturnCode) Succeeded() bool {
	return rc == Success || rc == SuccessWithInfo
}

// CType selects the C data type of a GetData transfer, mirroring the
// SQL_C_* constants.
type CType int16

const (
	CChar   CType = 1  // SQL_C_CHAR
	CSLong  CType = -6 // SQL_C_SLONG (not the narrow SQL_C_LONG alias)
	CDouble CType = 8  // SQL_C_DOUBLE
)

// Indicator sentinels returned out-of-band by GetData.
const (
	// NullData marks a NULL column value (SQL_NULL_DATA).
	NullData int64 = -1
	// NoTotal means the driver could not determine the remaining length
	// of a variable-length value (SQL_NO_TOTAL).
	NoTotal int64 = -4
)

// RowCountNotApplicable is the sentinel some drivers return from RowCount
// for statements without a meaningful count (DDL, certain INSERTs).
// It is a policy decision for the caller, not an execution failure.
const RowCountNotApplicable int64 = -1

// MaxMessageLength is the driver manager's maximum diagnostic message
// length (SQL_MAX_MESSAGE_LENGTH). GetDiagRec implementations must size
// their message buffer to at least this.
const MaxMessageLength = 512

// Driver is the native driver-manager call surface this package wraps.
// Implementations translate each method to exactly one native call; all
// policy (ownership, retries, diagnostics synthesis) lives in the wrappers.
//
// Contract notes, preserved bit-for-bit from the native API:
//   - AllocHandle for EnvHandle ignores parent; for the other kinds parent
//     must be a live handle of the enclosing kind.
//   - DriverConnect never prompts interactively; a driver that would show
//     UI must fail with a diagnostic instead (SQL_DRIVER_NOPROMPT).
//   - ExecDirect receives the query with an explicit byte length and must
//     pass embedded NUL bytes through unchanged.
//   - GetData writes into the caller's fixed buffer and reports the value's
//     total length (or a sentinel) through the indicator. For CChar the
//     driver NUL-terminates and, when the buffer is too small, truncates
//     and returns SuccessWithInfo.
//   - GetDiagRec retrieves only the first diagnostic record. Returning a
//     non-succeeded code means "no record", which is a valid outcome.
type Driver interface {
	AllocHandle(kind HandleKind, parent Handle) (Handle, ReturnCode)
	FreeHandle(kind HandleKind, h Handle) ReturnCode

	// SetEnvVersion declares ODBC 3.x behavior on a freshly allocated
	// environment (SQLSetEnvAttr SQL_ATTR_ODBC_VERSION = SQL_OV_ODBC3).
	SetEnvVersion(env Handle) ReturnCode

	DriverConnect(conn Handle, connStr string) ReturnCode
	Disconnect(conn Handle) ReturnCode

	ExecDirect(stmt Handle, query []byte) ReturnCode
	Fetch(stmt Handle) ReturnCode
	RowCount(stmt Handle) (int64, ReturnCode)

	// GetData transfers one column of the current row. column is 1-based.
	GetData(stmt Handle, column int, ctype CType, buf []byte) (indicator int64, rc ReturnCode)

	GetDiagRec(kind HandleKind, h Handle) (state string, native int32, message string, rc ReturnCode)
}
