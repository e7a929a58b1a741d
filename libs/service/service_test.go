package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testService struct {
	BaseService
	started int
	stopped int
}

func newTestService() *testService {
	ts := &testService{}
	ts.BaseService = *NewBaseService(nil, "testService", ts)
	return ts
}

func (ts *testService) OnStart() error { ts.started++; return nil }
func (ts *testService) OnStop()        { ts.stopped++ }

func TestBaseServiceLifecycle(t *testing.T) {
	ts := newTestService()
	assert.False(t, ts.IsRunning())

	require.NoError(t, ts.Start())
	assert.True(t, ts.IsRunning())
	assert.Equal(t, 1, ts.started)

	err := ts.Start()
	require.ErrorIs(t, err, ErrAlreadyStarted)
	assert.Equal(t, 1, ts.started)

	require.NoError(t, ts.Stop())
	assert.False(t, ts.IsRunning())
	assert.Equal(t, 1, ts.stopped)

	select {
	case <-ts.Quit():
	default:
		t.Error("quit channel should be closed after Stop")
	}

	require.ErrorIs(t, ts.Stop(), ErrAlreadyStopped)
	require.ErrorIs(t, ts.Start(), ErrAlreadyStopped)
}

func TestBaseServiceStopWithoutStart(t *testing.T) {
	ts := newTestService()
	require.ErrorIs(t, ts.Stop(), ErrNotStarted)
}
