package odbc_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaborage/go-odbc/odbc"
	"github.com/gaborage/go-odbc/odbc/odbctest"
)

func TestGetInt32AndFloat64(t *testing.T) {
	drv := odbctest.New()
	scriptTestTable(drv)
	stmt := newConnectedStatement(t, drv)

	require.NoError(t, stmt.Execute(selectAllQuery))

	more, err := stmt.Fetch()
	require.NoError(t, err)
	require.True(t, more)

	id, err := stmt.GetInt32(1)
	require.NoError(t, err)
	require.True(t, id.Valid)
	assert.Equal(t, int32(1), id.V)

	value, err := stmt.GetFloat64(3)
	require.NoError(t, err)
	require.True(t, value.Valid)
	assert.InDelta(t, 10.5, value.V, 1e-9)
}

func TestGetInt32Negative(t *testing.T) {
	drv := odbctest.New()
	drv.Script("SELECT -42", &odbctest.Result{
		Rows: [][]odbctest.Value{{int32(-42)}},
	})
	stmt := newConnectedStatement(t, drv)

	require.NoError(t, stmt.Execute("SELECT -42"))
	_, err := stmt.Fetch()
	require.NoError(t, err)

	v, err := stmt.GetInt32(1)
	require.NoError(t, err)
	require.True(t, v.Valid)
	assert.Equal(t, int32(-42), v.V)
}

func TestGetInt32AndFloat64Null(t *testing.T) {
	drv := odbctest.New()
	drv.Script("SELECT id, value FROM test_table WHERE id IS NULL", &odbctest.Result{
		Rows: [][]odbctest.Value{{nil, nil}},
	})
	stmt := newConnectedStatement(t, drv)

	require.NoError(t, stmt.Execute("SELECT id, value FROM test_table WHERE id IS NULL"))
	_, err := stmt.Fetch()
	require.NoError(t, err)

	id, err := stmt.GetInt32(1)
	require.NoError(t, err)
	assert.False(t, id.Valid)

	value, err := stmt.GetFloat64(2)
	require.NoError(t, err)
	assert.False(t, value.Valid)
}

func TestGetStringValue(t *testing.T) {
	drv := odbctest.New()
	scriptTestTable(drv)
	stmt := newConnectedStatement(t, drv)

	require.NoError(t, stmt.Execute(selectAllQuery))
	_, err := stmt.Fetch()
	require.NoError(t, err)

	name, err := stmt.GetString(2)
	require.NoError(t, err)
	require.True(t, name.Valid)
	assert.Equal(t, "First", name.V)
}

func TestGetStringNull(t *testing.T) {
	drv := odbctest.New()
	scriptTestTable(drv)
	stmt := newConnectedStatement(t, drv)

	require.NoError(t, stmt.Execute(selectNameQuery))

	more, err := stmt.Fetch()
	require.NoError(t, err)
	require.True(t, more)

	name, err := stmt.GetString(1)
	require.NoError(t, err)
	assert.False(t, name.Valid)
}

func TestGetStringNullWithInfo(t *testing.T) {
	// NULL maps to an invalid Null regardless of whether the driver says
	// success or success-with-info.
	drv := odbctest.New()
	drv.NullWithInfo = true
	scriptTestTable(drv)
	stmt := newConnectedStatement(t, drv)

	require.NoError(t, stmt.Execute(selectNameQuery))
	_, err := stmt.Fetch()
	require.NoError(t, err)

	name, err := stmt.GetString(1)
	require.NoError(t, err)
	assert.False(t, name.Valid)
}

func TestGetStringEmptyIsNotNull(t *testing.T) {
	drv := odbctest.New()
	drv.Script("SELECT ''", &odbctest.Result{
		Rows: [][]odbctest.Value{{""}},
	})
	stmt := newConnectedStatement(t, drv)

	require.NoError(t, stmt.Execute("SELECT ''"))
	_, err := stmt.Fetch()
	require.NoError(t, err)

	v, err := stmt.GetString(1)
	require.NoError(t, err)
	require.True(t, v.Valid)
	assert.Equal(t, "", v.V)
}

func TestGetStringLongValueRetriesOnce(t *testing.T) {
	long := strings.Repeat("x", 5000)
	drv := odbctest.New()
	drv.Script("SELECT long_text", &odbctest.Result{
		Rows: [][]odbctest.Value{{long}},
	})
	stmt := newConnectedStatement(t, drv)

	require.NoError(t, stmt.Execute("SELECT long_text"))
	_, err := stmt.Fetch()
	require.NoError(t, err)

	v, err := stmt.GetString(1)
	require.NoError(t, err)
	require.True(t, v.Valid)
	assert.Equal(t, long, v.V, "value longer than the probe buffer must come back untruncated")
}

func TestGetStringNoTotalSurfacesTruncation(t *testing.T) {
	long := strings.Repeat("x", 5000)
	drv := odbctest.New()
	drv.ReportNoTotal = true
	drv.Script("SELECT long_text", &odbctest.Result{
		Rows: [][]odbctest.Value{{long}},
	})
	stmt := newConnectedStatement(t, drv)

	require.NoError(t, stmt.Execute("SELECT long_text"))
	_, err := stmt.Fetch()
	require.NoError(t, err)

	// Without a usable total length the retry cannot be sized; the read
	// must fail rather than silently return a shortened value.
	_, err = stmt.GetString(1)
	var diag *odbc.Diagnostic
	require.ErrorAs(t, err, &diag)
	assert.Equal(t, "01004", diag.State)
}

func TestColumnReadWithoutRowIsRejected(t *testing.T) {
	drv := odbctest.New()
	scriptTestTable(drv)
	stmt := newConnectedStatement(t, drv)

	require.NoError(t, stmt.Execute(selectAllQuery))

	_, err := stmt.GetInt32(1)
	var diag *odbc.Diagnostic
	require.ErrorAs(t, err, &diag)
	assert.Equal(t, "24000", diag.State)
}

func TestScenarioTwoRowTable(t *testing.T) {
	drv := odbctest.New()
	scriptTestTable(drv)

	// SELECT id FROM test_table WHERE id = 1
	stmt := newConnectedStatement(t, drv)
	require.NoError(t, stmt.Execute(selectIDQuery))

	more, err := stmt.Fetch()
	require.NoError(t, err)
	require.True(t, more)

	id, err := stmt.GetInt32(1)
	require.NoError(t, err)
	require.True(t, id.Valid)
	assert.Equal(t, int32(1), id.V)

	more, err = stmt.Fetch()
	require.NoError(t, err)
	assert.False(t, more)

	// SELECT name FROM test_table WHERE id = 2
	stmt2 := newConnectedStatement(t, drv)
	require.NoError(t, stmt2.Execute(selectNameQuery))

	more, err = stmt2.Fetch()
	require.NoError(t, err)
	require.True(t, more)

	name, err := stmt2.GetString(1)
	require.NoError(t, err)
	assert.False(t, name.Valid)
}
