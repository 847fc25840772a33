package logger

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_WritesAndReadsBack(t *testing.T) {
	l, err := NewLogger(t.TempDir(), false)
	require.NoError(t, err)
	defer l.Close()

	l.Log(LogEntry{Level: LevelInfo, Category: CategoryTriage, Action: "update_status", Message: "3 photos rejected"})
	l.Log(LogEntry{Level: LevelError, Category: CategoryTriage, Action: "update_status", Message: "write failed", Error: "deadlock detected"})
	l.Log(LogEntry{Level: LevelInfo, Category: CategoryAuth, Action: "login", Message: "ok"})

	all, err := l.ReadLogs(ReadLogsOptions{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	triage, err := l.ReadLogs(ReadLogsOptions{Category: CategoryTriage, Level: LevelError})
	require.NoError(t, err)
	require.Len(t, triage, 1)
	assert.Equal(t, "deadlock detected", triage[0].Error)

	found, err := l.ReadLogs(ReadLogsOptions{Search: "DEADLOCK"})
	require.NoError(t, err)
	assert.Len(t, found, 1)

	files, err := l.ListLogFiles()
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestLogger_MinLevelAndConsole(t *testing.T) {
	l, err := NewLogger("", false)
	require.NoError(t, err)
	var buf bytes.Buffer
	l.console = &buf
	l.SetMinLevel(LevelWarn)

	l.Log(LogEntry{Level: LevelInfo, Category: CategoryAPI, Action: "request", Message: "dropped"})
	l.Log(LogEntry{Level: LevelWarn, Category: CategoryAPI, Action: "request", Message: "slow", Data: map[string]interface{}{"ms": 900}})

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "request: slow")
	assert.Contains(t, out, `"ms": 900`)
}

func TestHelpersUseDefault(t *testing.T) {
	l, err := NewLogger(t.TempDir(), false)
	require.NoError(t, err)
	SetDefault(l)
	t.Cleanup(func() { SetDefault(nil) })

	TriageError("update_highlight", "write failed", errors.New("boom"), nil)
	Scheduler("cleanup", "done", nil)

	entries, err := ReadLogs(ReadLogsOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "nil", GetTypeName(nil))
}
