//go:build odbc && cgo

// Package native binds odbc.Driver to the platform's ODBC driver manager
// (unixODBC on Linux, the Windows driver manager via the same call surface).
//
// Build with: go build -tags odbc
// Requires: CGO_ENABLED=1 and the driver-manager development headers.
package native

/*
#cgo linux LDFLAGS: -lodbc
#cgo darwin LDFLAGS: -liodbc
#include <sql.h>
#include <sqlext.h>
*/
import "C"

import (
	"unsafe"

	"github.com/gaborage/go-odbc/odbc"
)

type driver struct{}

var _ odbc.Driver = driver{}

// New returns the driver bound to the platform driver manager.
func New() (odbc.Driver, error) {
	return driver{}, nil
}

func handlePtr(h odbc.Handle) C.SQLHANDLE {
	return C.SQLHANDLE(unsafe.Pointer(uintptr(h))) //nolint:govet // opaque native handle round-trip
}

func (driver) AllocHandle(kind odbc.HandleKind, parent odbc.Handle) (odbc.Handle, odbc.ReturnCode) {
	var out C.SQLHANDLE
	rc := C.SQLAllocHandle(C.SQLSMALLINT(kind), handlePtr(parent), &out)
	return odbc.Handle(uintptr(unsafe.Pointer(out))), odbc.ReturnCode(rc)
}

func (driver) FreeHandle(kind odbc.HandleKind, h odbc.Handle) odbc.ReturnCode {
	return odbc.ReturnCode(C.SQLFreeHandle(C.SQLSMALLINT(kind), handlePtr(h)))
}

func (driver) SetEnvVersion(env odbc.Handle) odbc.ReturnCode {
	return odbc.ReturnCode(C.SQLSetEnvAttr(C.SQLHENV(handlePtr(env)),
		C.SQL_ATTR_ODBC_VERSION,
		C.SQLPOINTER(unsafe.Pointer(uintptr(C.SQL_OV_ODBC3))), 0))
}

func (driver) DriverConnect(conn odbc.Handle, connStr string) odbc.ReturnCode {
	buf := append([]byte(connStr), 0)
	return odbc.ReturnCode(C.SQLDriverConnect(C.SQLHDBC(handlePtr(conn)), nil,
		(*C.SQLCHAR)(unsafe.Pointer(&buf[0])), C.SQL_NTS,
		nil, 0, nil, C.SQL_DRIVER_NOPROMPT))
}

func (driver) Disconnect(conn odbc.Handle) odbc.ReturnCode {
	return odbc.ReturnCode(C.SQLDisconnect(C.SQLHDBC(handlePtr(conn))))
}

func (driver) ExecDirect(stmt odbc.Handle, query []byte) odbc.ReturnCode {
	// The driver sees the explicit length, never a terminator. An empty
	// query still needs a valid pointer, so borrow a one-byte buffer while
	// keeping the reported length at zero.
	buf := query
	if len(buf) == 0 {
		buf = []byte{0}
	}
	return odbc.ReturnCode(C.SQLExecDirect(C.SQLHSTMT(handlePtr(stmt)),
		(*C.SQLCHAR)(unsafe.Pointer(&buf[0])), C.SQLINTEGER(len(query))))
}

func (driver) Fetch(stmt odbc.Handle) odbc.ReturnCode {
	return odbc.ReturnCode(C.SQLFetch(C.SQLHSTMT(handlePtr(stmt))))
}

func (driver) RowCount(stmt odbc.Handle) (int64, odbc.ReturnCode) {
	var count C.SQLLEN
	rc := C.SQLRowCount(C.SQLHSTMT(handlePtr(stmt)), &count)
	return int64(count), odbc.ReturnCode(rc)
}

func (driver) GetData(stmt odbc.Handle, column int, ctype odbc.CType, buf []byte) (int64, odbc.ReturnCode) {
	var indicator C.SQLLEN
	rc := C.SQLGetData(C.SQLHSTMT(handlePtr(stmt)), C.SQLUSMALLINT(column),
		C.SQLSMALLINT(ctype), C.SQLPOINTER(unsafe.Pointer(&buf[0])),
		C.SQLLEN(len(buf)), &indicator)
	return int64(indicator), odbc.ReturnCode(rc)
}

func (driver) GetDiagRec(kind odbc.HandleKind, h odbc.Handle) (string, int32, string, odbc.ReturnCode) {
	var (
		state   [6]C.SQLCHAR
		native  C.SQLINTEGER
		message [odbc.MaxMessageLength]C.SQLCHAR
		textLen C.SQLSMALLINT
	)

	rc := C.SQLGetDiagRec(C.SQLSMALLINT(kind), handlePtr(h), 1,
		&state[0], &native,
		&message[0], C.SQLSMALLINT(len(message)), &textLen)
	if !odbc.ReturnCode(rc).Succeeded() {
		return "", 0, "", odbc.ReturnCode(rc)
	}

	if int(textLen) > len(message) {
		textLen = C.SQLSMALLINT(len(message))
	}
	return C.GoStringN((*C.char)(unsafe.Pointer(&state[0])), 5),
		int32(native),
		C.GoStringN((*C.char)(unsafe.Pointer(&message[0])), C.int(textLen)),
		odbc.ReturnCode(rc)
}
