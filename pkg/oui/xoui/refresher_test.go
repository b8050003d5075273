package xoui

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xoui/pkg/observability/xlog"
)

func TestNewRefresher_Errors(t *testing.T) {
	_, err := NewRefresher(nil, "")
	assert.ErrorIs(t, err, ErrNilRegistry)

	r := newTestRegistry(t, newFakeStore(time.Now, ""))
	_, err = NewRefresher(r, "every tuesday")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestRefresher_Immediate(t *testing.T) {
	r := newTestRegistry(t, newFakeStore(time.Now, loadSample(t)))
	f, err := NewRefresher(r, "", WithImmediate(), WithRefreshTimeout(time.Second))
	require.NoError(t, err)

	f.Start()
	f.Start()
	require.Eventually(t, func() bool {
		return r.Snapshot().Tables != nil
	}, 2*time.Second, 10*time.Millisecond)

	<-f.Stop().Done()
	assert.Equal(t, uint64(1), r.Stats().Updates)
}

func TestRefresher_Schedule(t *testing.T) {
	r := newTestRegistry(t, newFakeStore(time.Now, loadSample(t)))
	f, err := NewRefresher(r, "@every 1s", WithRefresherLogger(xlog.Discard()))
	require.NoError(t, err)

	f.Start()
	defer func() { <-f.Stop().Done() }()

	assert.Nil(t, r.Snapshot().Tables)
	require.Eventually(t, func() bool {
		return r.Snapshot().Tables != nil
	}, 3*time.Second, 20*time.Millisecond)
}

func TestRefresher_FailureKeepsRunning(t *testing.T) {
	store := newFakeStore(time.Now, "")
	store.remoteErr = errors.New("registry down")
	r := newTestRegistry(t, store)
	f, err := NewRefresher(r, "", WithImmediate())
	require.NoError(t, err)

	f.Start()
	require.Eventually(t, func() bool {
		return r.Stats().UpdateFailures > 0
	}, 2*time.Second, 10*time.Millisecond)
	<-f.Stop().Done()
	assert.Nil(t, r.Snapshot().Tables)
}

func TestRefresher_StopWithoutStart(t *testing.T) {
	r := newTestRegistry(t, newFakeStore(time.Now, ""))
	f, err := NewRefresher(r, "@every 1h")
	require.NoError(t, err)
	<-f.Stop().Done()
}

func TestKVAttrs(t *testing.T) {
	attrs := kvAttrs([]any{"entry", 1, 2, "two", "dangling"})
	require.Len(t, attrs, 2)
	assert.Equal(t, "entry", attrs[0].Key)
	assert.Equal(t, "2", attrs[1].Key)
	assert.Equal(t, "two", attrs[1].Value.String())
}
