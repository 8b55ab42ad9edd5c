package diagnostics

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsyncReporter_DeliversInOrder(t *testing.T) {
	var mu sync.Mutex
	var got []Report

	r := NewAsyncReporter(nil, func(rep Report) {
		mu.Lock()
		got = append(got, rep)
		mu.Unlock()
	})

	r.Capture("session", errors.New("first"), map[string]any{"user_id": "u1"})
	r.Capture("session", nil, nil)
	r.Capture("registration", errors.New("second"), nil)
	r.Close()

	require.Len(t, got, 2)
	assert.EqualError(t, got[0].Err, "first")
	assert.Equal(t, "u1", got[0].Attrs["user_id"])
	assert.Equal(t, "registration", got[1].Component)
	assert.False(t, got[0].At.IsZero())
}

func TestAsyncReporter_SinkPanicDoesNotStopWorker(t *testing.T) {
	calls := 0
	r := NewAsyncReporter(nil, func(rep Report) {
		calls++
		if calls == 1 {
			panic("sink down")
		}
	})

	r.Capture("a", errors.New("x"), nil)
	r.Capture("b", errors.New("y"), nil)
	r.Close()

	assert.Equal(t, 2, calls)
}

func TestAsyncReporter_CaptureAfterClose(t *testing.T) {
	calls := 0
	r := NewAsyncReporter(nil, func(Report) { calls++ })
	r.Close()

	assert.NotPanics(t, func() {
		r.Capture("session", errors.New("late"), nil)
		r.Close()
	})
	assert.Equal(t, 0, calls)
}
