package odbc

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
)

// initialTextBufferSize bounds the first fetch of a variable-length column.
// Values longer than this trigger one resize-and-retry.
const initialTextBufferSize = 1024

// GetInt32 reads a 4-byte signed integer column of the current row.
// column is 1-based. A NULL column yields an invalid Null with a nil error.
func (s *Statement) GetInt32(column int) (sql.Null[int32], error) {
	return fixedColumn(s, column, CSLong, 4, func(buf []byte) int32 {
		return int32(binary.NativeEndian.Uint32(buf))
	})
}

// GetFloat64 reads a double-precision floating-point column of the current
// row. column is 1-based. A NULL column yields an invalid Null with a nil error.
func (s *Statement) GetFloat64(column int) (sql.Null[float64], error) {
	return fixedColumn(s, column, CDouble, 8, func(buf []byte) float64 {
		return math.Float64frombits(binary.NativeEndian.Uint64(buf))
	})
}

// GetString reads a character column of the current row using the two-phase
// buffer protocol: probe with a bounded buffer, and on truncation grow to the
// reported length and retry exactly once. column is 1-based.
//
// A NULL indicator yields an invalid Null with a nil error regardless of the
// driver's return code. An indicator of zero is an empty string, not NULL.
// A value still truncated after the retry is an error, never a silently
// shortened string.
func (s *Statement) GetString(column int) (sql.Null[string], error) {
	var null sql.Null[string]

	if err := s.readable(); err != nil {
		return null, err
	}

	buf, indicator, rc := s.probeVariable(column, CChar, initialTextBufferSize)

	if !rc.Succeeded() {
		if indicator == NullData {
			return null, nil
		}
		return null, s.diag(fmt.Sprintf("unknown error reading text column %d", column))
	}

	if indicator == NullData {
		return null, nil
	}

	// The retry is sized from the driver's own indicator, so landing here
	// means the driver could not report a usable total (SQL_NO_TOTAL) or
	// under-reported it. Surface it instead of returning a shortened value.
	if indicator < 0 || indicator > int64(len(buf)-1) {
		return null, &Diagnostic{
			State:   stateTruncated,
			Message: fmt.Sprintf("text column %d truncated after retry (indicator=%d, capacity=%d)", column, indicator, len(buf)-1),
		}
	}

	return sql.Null[string]{V: string(buf[:indicator]), Valid: true}, nil
}

// probeVariable fetches a variable-length column into a buffer of initial
// bytes. If the driver signals truncation and reports the full length, the
// buffer is resized to hold it and the fetch is retried once.
func (s *Statement) probeVariable(column int, ctype CType, initial int) ([]byte, int64, ReturnCode) {
	buf := make([]byte, initial)
	indicator, rc := s.drv().GetData(s.h, column, ctype, buf)

	// Usable capacity is len-1: the driver reserves one byte for the
	// NUL terminator it writes on CChar transfers.
	if rc == SuccessWithInfo && indicator > int64(len(buf)-1) {
		buf = make([]byte, indicator+1)
		indicator, rc = s.drv().GetData(s.h, column, ctype, buf)
	}

	return buf, indicator, rc
}

// fixedColumn reads a fixed-size column into a buffer of exactly size bytes
// and decodes it with decode. The driver signals NULL through the indicator;
// any non-succeeded return code is a hard failure.
func fixedColumn[T any](s *Statement, column int, ctype CType, size int, decode func([]byte) T) (sql.Null[T], error) {
	var null sql.Null[T]

	if err := s.readable(); err != nil {
		return null, err
	}

	buf := make([]byte, size)
	indicator, rc := s.drv().GetData(s.h, column, ctype, buf)
	if !rc.Succeeded() {
		return null, s.diag(fmt.Sprintf("unknown error reading column %d", column))
	}

	if indicator == NullData {
		return null, nil
	}

	return sql.Null[T]{V: decode(buf), Valid: true}, nil
}
