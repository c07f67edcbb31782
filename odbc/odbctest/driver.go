// Package odbctest provides a scripted in-memory implementation of
// odbc.Driver for unit tests. Results are registered per query text, and
// failure knobs inject diagnostics at each point of the native surface.
package odbctest

import (
	"encoding/binary"
	"math"

	"github.com/gaborage/go-odbc/odbc"
)

// Value is one scripted cell. Supported dynamic types are int32, float64 and
// string; nil is a NULL.
type Value any

// Result is the scripted outcome of one query.
type Result struct {
	// Rows is the result grid, outer slice per row.
	Rows [][]Value
	// RowCount is what RowCount reports after this query. Use
	// odbc.RowCountNotApplicable to mimic drivers that report -1.
	RowCount int64
	// FailAfter, when > 0, makes the FailAfter-th successful fetch be the
	// last one: the next fetch fails hard instead of reporting exhaustion.
	FailAfter int
}

// Diag is a scripted diagnostic record.
type Diag struct {
	State   string
	Native  int32
	Message string
}

type handleState struct {
	kind      odbc.HandleKind
	parent    odbc.Handle
	diag      *Diag
	connected bool

	// statement cursor
	result  *Result
	fetched int
	row     int // 1-based index of the current row, 0 before the first fetch
}

// Driver is a scripted odbc.Driver. It is not safe for concurrent use, which
// matches the confinement contract of the real surface.
type Driver struct {
	// FailAlloc makes AllocHandle fail for the given handle kinds.
	FailAlloc map[odbc.HandleKind]bool
	// FailEnvVersion makes SetEnvVersion fail.
	FailEnvVersion bool
	// ConnectDiag makes DriverConnect fail with this record.
	ConnectDiag *Diag
	// DisconnectDiag makes Disconnect fail with this record.
	DisconnectDiag *Diag
	// NoDiagnostics suppresses all diagnostic records, so failed operations
	// report "no record" and force callers to synthesize a fallback.
	NoDiagnostics bool
	// NullWithInfo reports NULL text columns with SuccessWithInfo instead
	// of Success, as some drivers do.
	NullWithInfo bool
	// ReportNoTotal makes truncated text reads report SQL_NO_TOTAL instead
	// of the value's real length, defeating the resize-and-retry.
	ReportNoTotal bool

	// ConnectCount counts successful DriverConnect calls.
	ConnectCount int

	results map[string]*Result
	handles map[odbc.Handle]*handleState
	freed   map[odbc.Handle]int
	next    odbc.Handle
}

var _ odbc.Driver = (*Driver)(nil)

// New returns an empty scripted driver.
func New() *Driver {
	return &Driver{
		FailAlloc: make(map[odbc.HandleKind]bool),
		results:   make(map[string]*Result),
		handles:   make(map[odbc.Handle]*handleState),
		freed:     make(map[odbc.Handle]int),
	}
}

// Script registers the result returned when query is executed.
func (d *Driver) Script(query string, result *Result) {
	d.results[query] = result
}

// OpenHandles returns the number of allocated, not yet freed handles.
func (d *Driver) OpenHandles() int {
	return len(d.handles)
}

// FreeCount returns how many times h was freed. Anything above one is a
// double release.
func (d *Driver) FreeCount(h odbc.Handle) int {
	return d.freed[h]
}

// AllocHandle implements odbc.Driver.
func (d *Driver) AllocHandle(kind odbc.HandleKind, parent odbc.Handle) (odbc.Handle, odbc.ReturnCode) {
	if d.FailAlloc[kind] {
		return 0, odbc.Failure
	}
	if kind != odbc.EnvHandle {
		p, ok := d.handles[parent]
		if !ok || p.kind != kind-1 {
			return 0, odbc.InvalidHandle
		}
	}

	d.next++
	h := d.next
	d.handles[h] = &handleState{kind: kind, parent: parent}
	return h, odbc.Success
}

// FreeHandle implements odbc.Driver.
func (d *Driver) FreeHandle(kind odbc.HandleKind, h odbc.Handle) odbc.ReturnCode {
	d.freed[h]++
	s, ok := d.handles[h]
	if !ok || s.kind != kind {
		return odbc.InvalidHandle
	}
	delete(d.handles, h)
	return odbc.Success
}

// SetEnvVersion implements odbc.Driver.
func (d *Driver) SetEnvVersion(env odbc.Handle) odbc.ReturnCode {
	if _, ok := d.handles[env]; !ok {
		return odbc.InvalidHandle
	}
	if d.FailEnvVersion {
		return odbc.Failure
	}
	return odbc.Success
}

// DriverConnect implements odbc.Driver.
func (d *Driver) DriverConnect(conn odbc.Handle, _ string) odbc.ReturnCode {
	s, ok := d.handles[conn]
	if !ok || s.kind != odbc.ConnHandle {
		return odbc.InvalidHandle
	}
	if d.ConnectDiag != nil {
		s.diag = d.ConnectDiag
		return odbc.Failure
	}
	s.connected = true
	d.ConnectCount++
	return odbc.Success
}

// Disconnect implements odbc.Driver.
func (d *Driver) Disconnect(conn odbc.Handle) odbc.ReturnCode {
	s, ok := d.handles[conn]
	if !ok || s.kind != odbc.ConnHandle {
		return odbc.InvalidHandle
	}
	if d.DisconnectDiag != nil {
		s.diag = d.DisconnectDiag
		return odbc.Failure
	}
	s.connected = false
	return odbc.Success
}

// ExecDirect implements odbc.Driver. The query bytes are matched verbatim
// against the scripted results, embedded NULs included.
func (d *Driver) ExecDirect(stmt odbc.Handle, query []byte) odbc.ReturnCode {
	s, ok := d.handles[stmt]
	if !ok || s.kind != odbc.StmtHandle {
		return odbc.InvalidHandle
	}
	r, ok := d.results[string(query)]
	if !ok {
		s.diag = &Diag{State: "42000", Message: "no scripted result for query"}
		return odbc.Failure
	}
	s.result = r
	s.fetched = 0
	s.row = 0
	return odbc.Success
}

// Fetch implements odbc.Driver.
func (d *Driver) Fetch(stmt odbc.Handle) odbc.ReturnCode {
	s, ok := d.handles[stmt]
	if !ok || s.kind != odbc.StmtHandle || s.result == nil {
		return odbc.InvalidHandle
	}
	if s.result.FailAfter > 0 && s.fetched >= s.result.FailAfter {
		s.diag = &Diag{State: "08S01", Message: "communication link failure"}
		return odbc.Failure
	}
	if s.fetched >= len(s.result.Rows) {
		s.row = 0
		return odbc.NoData
	}
	s.fetched++
	s.row = s.fetched
	return odbc.Success
}

// RowCount implements odbc.Driver.
func (d *Driver) RowCount(stmt odbc.Handle) (int64, odbc.ReturnCode) {
	s, ok := d.handles[stmt]
	if !ok || s.kind != odbc.StmtHandle || s.result == nil {
		return 0, odbc.InvalidHandle
	}
	return s.result.RowCount, odbc.Success
}

// GetData implements odbc.Driver.
func (d *Driver) GetData(stmt odbc.Handle, column int, ctype odbc.CType, buf []byte) (int64, odbc.ReturnCode) {
	s, ok := d.handles[stmt]
	if !ok || s.kind != odbc.StmtHandle {
		return 0, odbc.InvalidHandle
	}
	if s.result == nil || s.row < 1 || s.row > len(s.result.Rows) {
		s.diag = &Diag{State: "24000", Message: "invalid cursor state"}
		return 0, odbc.Failure
	}
	row := s.result.Rows[s.row-1]
	if column < 1 || column > len(row) {
		s.diag = &Diag{State: "07009", Message: "invalid descriptor index"}
		return 0, odbc.Failure
	}

	cell := row[column-1]
	if cell == nil {
		if ctype == odbc.CChar && d.NullWithInfo {
			return odbc.NullData, odbc.SuccessWithInfo
		}
		return odbc.NullData, odbc.Success
	}

	switch ctype {
	case odbc.CSLong:
		v, ok := cell.(int32)
		if !ok {
			s.diag = &Diag{State: "07006", Message: "restricted data type attribute violation"}
			return 0, odbc.Failure
		}
		binary.NativeEndian.PutUint32(buf, uint32(v))
		return 4, odbc.Success
	case odbc.CDouble:
		v, ok := cell.(float64)
		if !ok {
			s.diag = &Diag{State: "07006", Message: "restricted data type attribute violation"}
			return 0, odbc.Failure
		}
		binary.NativeEndian.PutUint64(buf, math.Float64bits(v))
		return 8, odbc.Success
	case odbc.CChar:
		v, ok := cell.(string)
		if !ok {
			s.diag = &Diag{State: "07006", Message: "restricted data type attribute violation"}
			return 0, odbc.Failure
		}
		return d.putString(s, v, buf)
	default:
		s.diag = &Diag{State: "HYC00", Message: "optional feature not implemented"}
		return 0, odbc.Failure
	}
}

// putString copies v into buf with NUL termination, reporting truncation via
// SuccessWithInfo and the value's total length, the way character transfers
// behave on the real surface.
func (d *Driver) putString(s *handleState, v string, buf []byte) (int64, odbc.ReturnCode) {
	data := []byte(v)
	usable := len(buf) - 1
	if len(data) <= usable {
		copy(buf, data)
		buf[len(data)] = 0
		return int64(len(data)), odbc.Success
	}

	copy(buf, data[:usable])
	buf[usable] = 0
	s.diag = &Diag{State: "01004", Message: "string data, right truncated"}
	if d.ReportNoTotal {
		return odbc.NoTotal, odbc.SuccessWithInfo
	}
	return int64(len(data)), odbc.SuccessWithInfo
}

// GetDiagRec implements odbc.Driver. Only the first (sole) record is kept.
func (d *Driver) GetDiagRec(_ odbc.HandleKind, h odbc.Handle) (string, int32, string, odbc.ReturnCode) {
	s, ok := d.handles[h]
	if !ok || s.diag == nil || d.NoDiagnostics {
		return "", 0, "", odbc.NoData
	}
	return s.diag.State, s.diag.Native, s.diag.Message, odbc.Success
}
