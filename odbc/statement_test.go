package odbc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaborage/go-odbc/odbc"
	"github.com/gaborage/go-odbc/odbc/odbctest"
)

func TestExecuteUnknownQueryFails(t *testing.T) {
	drv := odbctest.New()
	stmt := newConnectedStatement(t, drv)

	err := stmt.Execute("SELECT * FROM nowhere")
	var diag *odbc.Diagnostic
	require.ErrorAs(t, err, &diag)
	assert.Equal(t, "42000", diag.State)
}

func TestExecutePassesEmbeddedNulBytes(t *testing.T) {
	// The query travels as bytes with an explicit length, so an embedded
	// NUL must reach the driver intact rather than terminating the text.
	query := "SELECT 1 -- \x00 embedded"
	drv := odbctest.New()
	drv.Script(query, &odbctest.Result{
		Rows: [][]odbctest.Value{{int32(1)}},
	})
	stmt := newConnectedStatement(t, drv)

	require.NoError(t, stmt.Execute(query))

	more, err := stmt.Fetch()
	require.NoError(t, err)
	assert.True(t, more)

	v, err := stmt.GetInt32(1)
	require.NoError(t, err)
	require.True(t, v.Valid)
	assert.Equal(t, int32(1), v.V)
}

func TestExecuteEmptyQueryKeepsZeroLength(t *testing.T) {
	// A zero-length query must reach the driver as zero bytes, not as a
	// one-byte terminator.
	drv := odbctest.New()
	drv.Script("", &odbctest.Result{RowCount: 0})
	stmt := newConnectedStatement(t, drv)

	require.NoError(t, stmt.Execute(""))
}

func TestFetchBeforeExecuteIsSequenceError(t *testing.T) {
	drv := odbctest.New()
	stmt := newConnectedStatement(t, drv)

	_, err := stmt.Fetch()
	var diag *odbc.Diagnostic
	require.ErrorAs(t, err, &diag)
	assert.Equal(t, "HY010", diag.State)
}

func TestFetchReturnsTrueNTimesThenFalseForever(t *testing.T) {
	drv := odbctest.New()
	scriptTestTable(drv)
	stmt := newConnectedStatement(t, drv)

	require.NoError(t, stmt.Execute(selectAllQuery))

	for i := 0; i < 2; i++ {
		more, err := stmt.Fetch()
		require.NoError(t, err)
		assert.True(t, more, "row %d should be available", i+1)
	}

	// Exhaustion is terminal and idempotent, never an error.
	for i := 0; i < 3; i++ {
		more, err := stmt.Fetch()
		require.NoError(t, err)
		assert.False(t, more)
	}
}

func TestFetchHardFailureIsTerminal(t *testing.T) {
	drv := odbctest.New()
	drv.Script(selectAllQuery, &odbctest.Result{
		Rows: [][]odbctest.Value{
			{int32(1), "First", 10.5},
			{int32(2), nil, 20.25},
		},
		FailAfter: 1,
	})
	stmt := newConnectedStatement(t, drv)

	require.NoError(t, stmt.Execute(selectAllQuery))

	more, err := stmt.Fetch()
	require.NoError(t, err)
	require.True(t, more)

	_, err = stmt.Fetch()
	var diag *odbc.Diagnostic
	require.ErrorAs(t, err, &diag)
	assert.Equal(t, "08S01", diag.State)

	// After a hard failure both fetch and column reads are rejected.
	_, err = stmt.Fetch()
	require.ErrorAs(t, err, &diag)
	assert.Equal(t, "HY010", diag.State)

	_, err = stmt.GetInt32(1)
	require.ErrorAs(t, err, &diag)
	assert.Equal(t, "HY010", diag.State)
}

func TestRowCountNotApplicableIsNotAnError(t *testing.T) {
	drv := odbctest.New()
	drv.Script("CREATE TABLE test_table (id INT)", &odbctest.Result{
		RowCount: odbc.RowCountNotApplicable,
	})
	stmt := newConnectedStatement(t, drv)

	require.NoError(t, stmt.Execute("CREATE TABLE test_table (id INT)"))

	count, err := stmt.RowCount()
	require.NoError(t, err)
	// -1 means "not applicable" for some drivers; classifying it is the
	// caller's policy, never a failed statement.
	assert.Equal(t, odbc.RowCountNotApplicable, count)
}

func TestRowCountAfterInsert(t *testing.T) {
	drv := odbctest.New()
	scriptTestTable(drv)
	stmt := newConnectedStatement(t, drv)

	require.NoError(t, stmt.Execute(insertQuery))

	count, err := stmt.RowCount()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
