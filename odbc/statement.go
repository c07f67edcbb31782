package odbc

// cursorState tracks where the statement's result-set cursor is.
type cursorState int

const (
	// stmtIdle: no result set; Execute has not succeeded yet.
	stmtIdle cursorState = iota
	// stmtActive: Execute succeeded, no row fetched yet.
	stmtActive
	// stmtPositioned: a row is available for column reads.
	stmtPositioned
	// stmtExhausted: the cursor ran past the last row. Terminal but benign;
	// further Fetch calls keep returning false.
	stmtExhausted
	// stmtFailed: a native failure occurred. Terminal; column reads are
	// rejected rather than left undefined.
	stmtFailed
)

// SQLSTATEs synthesized for out-of-sequence use of a statement.
const (
	stateSequenceError = "HY010" // function sequence error
	stateInvalidCursor = "24000" // invalid cursor state
	stateTruncated     = "01004" // string data, right truncated
)

// Statement wraps a native statement handle derived from a Connection.
// It holds the active result-set cursor and is created per unit of work.
type Statement struct {
	conn  *Connection
	h     Handle
	state cursorState
}

// NewStatement allocates a statement handle under the connection.
// Deriving from a closed Connection is a setup failure.
func (c *Connection) NewStatement() (*Statement, error) {
	if c.h == 0 {
		return nil, &SetupError{Kind: StmtHandle, Op: "alloc from closed connection", Code: InvalidHandle}
	}

	h, rc := c.env.drv.AllocHandle(StmtHandle, c.h)
	if !rc.Succeeded() {
		return nil, &SetupError{Kind: StmtHandle, Op: "alloc", Code: rc}
	}

	return &Statement{conn: c, h: h, state: stmtIdle}, nil
}

// Handle returns the underlying native handle, or zero after Close.
func (s *Statement) Handle() Handle {
	return s.h
}

// Close releases the statement handle. Idempotent.
func (s *Statement) Close() {
	if s.h == 0 {
		return
	}
	if rc := s.conn.env.drv.FreeHandle(StmtHandle, s.h); !rc.Succeeded() {
		s.conn.log.Warn().Int("rc", int(rc)).Msg("Failed to free statement handle")
	}
	s.h = 0
}

// drv returns the driver of the owning tree.
func (s *Statement) drv() Driver {
	return s.conn.env.drv
}

// diag builds the statement's first diagnostic record, synthesizing a
// generic one carrying msg when the driver reports none.
func (s *Statement) diag(msg string) *Diagnostic {
	return fallback(diagnose(s.drv(), StmtHandle, s.h), msg)
}

// Execute runs the query directly on the statement. The query is passed to
// the driver with an explicit byte length, so embedded NUL bytes survive.
func (s *Statement) Execute(query string) error {
	if rc := s.drv().ExecDirect(s.h, []byte(query)); !rc.Succeeded() {
		s.state = stmtFailed
		return s.diag("unknown execution error")
	}
	s.state = stmtActive
	return nil
}

// Fetch advances the cursor to the next row. It returns (true, nil) when a
// row is available, (false, nil) when the cursor is exhausted, and a
// *Diagnostic on a hard failure. Fetching past the end stays at (false, nil);
// exhaustion is a normal outcome, not an error.
func (s *Statement) Fetch() (bool, error) {
	switch s.state {
	case stmtIdle:
		return false, &Diagnostic{State: stateSequenceError, Message: "fetch before execute"}
	case stmtExhausted:
		return false, nil
	case stmtFailed:
		return false, &Diagnostic{State: stateSequenceError, Message: "fetch on failed statement"}
	}

	rc := s.drv().Fetch(s.h)
	switch {
	case rc.Succeeded():
		s.state = stmtPositioned
		return true, nil
	case rc == NoData:
		s.state = stmtExhausted
		return false, nil
	default:
		s.state = stmtFailed
		return false, s.diag("unknown fetch error")
	}
}

// RowCount returns the driver's affected-row count for the last executed
// statement. Drivers may legitimately report RowCountNotApplicable (-1) for
// DDL or INSERT statements; classifying that is the caller's policy.
func (s *Statement) RowCount() (int64, error) {
	count, rc := s.drv().RowCount(s.h)
	if !rc.Succeeded() {
		return 0, s.diag("unknown error getting row count")
	}
	return count, nil
}

// readable rejects column reads unless the cursor is positioned on a row.
func (s *Statement) readable() error {
	switch s.state {
	case stmtPositioned:
		return nil
	case stmtFailed:
		return &Diagnostic{State: stateSequenceError, Message: "column read on failed statement"}
	default:
		return &Diagnostic{State: stateInvalidCursor, Message: "no current row"}
	}
}
