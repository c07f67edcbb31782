package odbc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiagnosticError(t *testing.T) {
	d := &Diagnostic{State: "28000", Native: 18456, Message: "login failed"}
	msg := d.Error()
	assert.Contains(t, msg, "28000")
	assert.Contains(t, msg, "18456")
	assert.Contains(t, msg, "login failed")
}

func TestSetupErrorMessage(t *testing.T) {
	err := &SetupError{Kind: ConnHandle, Op: "alloc", Code: Failure}
	assert.Contains(t, err.Error(), "connection")
	assert.Contains(t, err.Error(), "alloc")
}

func TestFallbackSynthesizesGenericDiagnostic(t *testing.T) {
	d := fallback(nil, "unknown fetch error")
	assert.Equal(t, "HY000", d.State)
	assert.Equal(t, int32(0), d.Native)
	assert.Equal(t, "unknown fetch error", d.Message)

	original := &Diagnostic{State: "08001", Message: "no connection"}
	assert.Same(t, original, fallback(original, "ignored"))
}

func TestReturnCodeSucceeded(t *testing.T) {
	assert.True(t, Success.Succeeded())
	assert.True(t, SuccessWithInfo.Succeeded())
	assert.False(t, NoData.Succeeded())
	assert.False(t, Failure.Succeeded())
	assert.False(t, InvalidHandle.Succeeded())
}

func TestHandleKindString(t *testing.T) {
	assert.Equal(t, "environment", EnvHandle.String())
	assert.Equal(t, "connection", ConnHandle.String())
	assert.Equal(t, "statement", StmtHandle.String())
}
