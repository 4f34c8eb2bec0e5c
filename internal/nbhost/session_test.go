package nbhost

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cellwire/cellwire/internal/protocol"
	"github.com/cellwire/cellwire/internal/testutil/testlog"
)

func newTestSession(t *testing.T) (*Session, *MemoryNotebook) {
	t.Helper()
	nb := NewMemoryNotebook("scratch")
	s, err := NewSession(DefaultConfig("ws://127.0.0.1:8765/ws"), nb)
	require.NoError(t, err)
	return s, nb
}

func answerFor(t *testing.T, s *Session, cmd any) []byte {
	t.Helper()
	frame, err := json.Marshal(cmd)
	require.NoError(t, err)
	return s.answer(frame)
}

func TestNewSessionValidation(t *testing.T) {
	testlog.Start(t)
	_, err := NewSession(DefaultConfig(" "), NewMemoryNotebook("x"))
	require.ErrorIs(t, err, ErrRelayURLRequired)

	_, err = NewSession(DefaultConfig("ws://127.0.0.1:8765/ws"), nil)
	require.ErrorIs(t, err, ErrExecutorRequired)
}

func TestAnswerEchoesRequestID(t *testing.T) {
	testlog.Start(t)
	s, _ := newTestSession(t)

	answer := answerFor(t, s, protocol.NewInsertAndExecuteCellCommand("r1", "code", 0, "print('hi')"))
	require.NotNil(t, answer)

	var result protocol.InsertCellResult
	require.NoError(t, json.Unmarshal(answer, &result))
	require.Equal(t, protocol.TypeInsertCellResult, result.Type)
	require.Equal(t, "r1", result.RequestID)
	require.Equal(t, protocol.StatusSuccess, result.Status)
	require.Equal(t, "executed: print('hi')", result.Output)
}

func TestAnswerExecutorFailureBecomesErrorFrame(t *testing.T) {
	testlog.Start(t)
	s, _ := newTestSession(t)

	// Empty notebook: any index is out of range.
	answer := answerFor(t, s, protocol.NewRunCellCommand("r2", 5))
	require.NotNil(t, answer)

	var frame protocol.ErrorFrame
	require.NoError(t, json.Unmarshal(answer, &frame))
	require.Equal(t, protocol.TypeError, frame.Type)
	require.Equal(t, "r2", frame.RequestID)
	require.Contains(t, frame.Message, "out of range")
}

func TestAnswerIgnoresNonCommandFrames(t *testing.T) {
	testlog.Start(t)
	s, _ := newTestSession(t)

	// Results fanned out to other peers must not trigger execution.
	require.Nil(t, answerFor(t, s, protocol.SaveResult{
		Type:      protocol.TypeSaveResult,
		RequestID: "r3",
		Status:    protocol.StatusSuccess,
	}))
	require.Nil(t, answerFor(t, s, map[string]string{"type": "bogus"}))
	require.Nil(t, s.answer([]byte("not json")))
}

func TestAnswerCoversEveryCommand(t *testing.T) {
	testlog.Start(t)
	s, nb := newTestSession(t)
	_, _, err := nb.InsertAndExecuteCell("code", 0, "print('seed')")
	require.NoError(t, err)

	commands := []any{
		protocol.NewInsertAndExecuteCellCommand("r1", "code", -1, "x = 1"),
		protocol.NewSaveNotebookCommand("r2"),
		protocol.NewGetCellsInfoCommand("r3"),
		protocol.NewGetNotebookInfoCommand("r4"),
		protocol.NewRunCellCommand("r5", 0),
		protocol.NewRunAllCellsCommand("r6"),
		protocol.NewGetCellTextOutputCommand("r7", 0, 1500),
		protocol.NewGetCellImageOutputCommand("r8", 0),
		protocol.NewEditCellContentCommand("r9", 0, "y = 2", true),
		protocol.NewSetSlideshowTypeCommand("r10", 0, "slide"),
	}
	for _, cmd := range commands {
		answer := answerFor(t, s, cmd)
		require.NotNil(t, answer)

		result, err := protocol.DecodeResult(answer)
		require.NoError(t, err)
		require.False(t, result.IsError(), "command %T answered %s", cmd, answer)

		expected, ok := protocol.ResultTypeFor(jsonType(t, cmd))
		require.True(t, ok)
		require.Equal(t, expected, result.Type)
	}
}

func jsonType(t *testing.T, cmd any) string {
	t.Helper()
	frame, err := json.Marshal(cmd)
	require.NoError(t, err)
	var tag struct {
		Type string `json:"type"`
	}
	require.NoError(t, json.Unmarshal(frame, &tag))
	return tag.Type
}
