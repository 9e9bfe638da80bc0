package colors

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	SetOutput(&out, &errOut)
	t.Cleanup(func() { SetOutput(nil, nil) })
	return &out, &errOut
}

type recordingLogger struct {
	entries []string
}

func (r *recordingLogger) Debug(msg string, args ...any) { r.entries = append(r.entries, "debug:"+msg) }
func (r *recordingLogger) Info(msg string, args ...any)  { r.entries = append(r.entries, "info:"+msg) }
func (r *recordingLogger) Warn(msg string, args ...any)  { r.entries = append(r.entries, "warn:"+msg) }
func (r *recordingLogger) Error(msg string, args ...any) { r.entries = append(r.entries, "error:"+msg) }

func TestError(t *testing.T) {
	out, errOut := capture(t)

	Error("something went wrong")

	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "Error:")
	assert.Contains(t, errOut.String(), "something went wrong")
	assert.Contains(t, errOut.String(), Red)
}

func TestSuccess(t *testing.T) {
	out, _ := capture(t)

	Success("operation completed")

	assert.Contains(t, out.String(), checkmark)
	assert.Contains(t, out.String(), "operation completed")
	assert.Contains(t, out.String(), Green)
}

func TestWarning(t *testing.T) {
	_, errOut := capture(t)

	Warning("careful")

	assert.Contains(t, errOut.String(), "Warning:")
	assert.Contains(t, errOut.String(), "careful")
}

func TestInfoAndLogInfo(t *testing.T) {
	out, errOut := capture(t)

	Info("multiple", "arguments", "joined")
	LogInfo("to stderr")

	assert.Contains(t, out.String(), "multiple arguments joined")
	assert.Contains(t, errOut.String(), "to stderr")
	assert.NotContains(t, out.String(), "to stderr")
}

func TestDebugGated(t *testing.T) {
	_, errOut := capture(t)
	t.Cleanup(func() { SetDebug(false) })

	SetDebug(false)
	Debug("hidden")
	assert.Empty(t, errOut.String())

	SetDebug(true)
	Debug("shown")
	assert.Contains(t, errOut.String(), "Debug:")
	assert.Contains(t, errOut.String(), "shown")
}

func TestMirrorsToLogger(t *testing.T) {
	capture(t)
	rec := &recordingLogger{}
	SetLogger(rec)
	t.Cleanup(func() { SetLogger(nil) })

	Error("e")
	Warning("w")
	Success("s")

	assert.Equal(t, []string{"error:e", "warn:w", "info:s"}, rec.entries)
}
