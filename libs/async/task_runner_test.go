package async

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskRunnerFIFO(t *testing.T) {
	tr := NewTaskRunner(16, nil)
	defer tr.Stop()

	var got []int
	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		i := i
		require.True(t, tr.Enqueue(func() {
			got = append(got, i)
			if i == 9 {
				close(done)
			}
		}))
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("tasks did not run")
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, got)
}

func TestTaskRunnerStopRejectsNewTasks(t *testing.T) {
	tr := NewTaskRunner(1, nil)
	tr.Stop()
	assert.False(t, tr.Enqueue(func() {}))
	// stopping twice is fine
	tr.Stop()
}

func TestTaskRunnerRecoversPanics(t *testing.T) {
	var panics atomic.Int32
	tr := NewTaskRunner(1, func(any, []byte) { panics.Add(1) })
	defer tr.Stop()

	ran := make(chan struct{})
	require.True(t, tr.Enqueue(func() { panic("boom") }))
	require.True(t, tr.Enqueue(func() { close(ran) }))

	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("runner died after panic")
	}
	assert.EqualValues(t, 1, panics.Load())
}
