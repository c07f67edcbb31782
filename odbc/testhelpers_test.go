package odbc_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gaborage/go-odbc/logger"
	"github.com/gaborage/go-odbc/odbc"
	"github.com/gaborage/go-odbc/odbc/odbctest"
)

const (
	selectAllQuery  = "SELECT id, name, value FROM test_table"
	selectIDQuery   = "SELECT id FROM test_table WHERE id = 1"
	selectNameQuery = "SELECT name FROM test_table WHERE id = 2"
	insertQuery     = "INSERT INTO test_table VALUES (1, 'First', 10.5), (2, NULL, 20.25)"
)

// scriptTestTable registers the canonical two-row fixture:
// (1, "First", 10.5) and (2, NULL, 20.25).
func scriptTestTable(drv *odbctest.Driver) {
	drv.Script(selectAllQuery, &odbctest.Result{
		Rows: [][]odbctest.Value{
			{int32(1), "First", 10.5},
			{int32(2), nil, 20.25},
		},
	})
	drv.Script(selectIDQuery, &odbctest.Result{
		Rows: [][]odbctest.Value{{int32(1)}},
	})
	drv.Script(selectNameQuery, &odbctest.Result{
		Rows: [][]odbctest.Value{{nil}},
	})
	drv.Script(insertQuery, &odbctest.Result{RowCount: 2})
}

// newConnectedStatement builds an environment, a connected connection and a
// statement over drv, wiring cleanup in reverse order.
func newConnectedStatement(t *testing.T, drv *odbctest.Driver) *odbc.Statement {
	t.Helper()

	env, err := odbc.NewEnvironment(drv, logger.NewDisabled())
	require.NoError(t, err)
	t.Cleanup(env.Close)

	conn, err := env.NewConnection()
	require.NoError(t, err)
	t.Cleanup(conn.Close)

	require.NoError(t, conn.Connect("DSN=test"))

	stmt, err := conn.NewStatement()
	require.NoError(t, err)
	t.Cleanup(stmt.Close)

	return stmt
}
