package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var samples = []string{"/a.jpg", "/b.jpg"}

func startQueue(t *testing.T, delay time.Duration) *Queue {
	t.Helper()
	q := New(delay, samples)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		q.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return q
}

func waitDone(t *testing.T, q *Queue, id string) Job {
	t.Helper()
	ch, _, err := q.Subscribe(id)
	require.NoError(t, err)
	select {
	case j, ok := <-ch:
		require.True(t, ok, "subscription closed without a job")
		return j
	case <-time.After(5 * time.Second):
		t.Fatal("job did not complete")
	}
	return Job{}
}

func TestSubmitValidation(t *testing.T) {
	q := startQueue(t, time.Millisecond)

	tests := []struct {
		name string
		kind Kind
		in   Input
		want error
	}{
		{"classify without upload", KindClassify, Input{Prompt: "a kolam"}, ErrNeedUpload},
		{"recreate with nothing", KindRecreate, Input{Prompt: "   "}, ErrNeedInput},
		{"unknown kind", Kind("paint"), Input{Image: []byte{1}}, ErrUnknownKind},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := q.Submit(tt.kind, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Zero(t, q.Len())
}

func TestClassifyCompletes(t *testing.T) {
	q := startQueue(t, 10*time.Millisecond)

	j, err := q.Submit(KindClassify, Input{Filename: "k.jpg", Image: []byte{0xff, 0xd8}})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, j.Status)
	assert.Nil(t, j.Result)
	assert.NotEmpty(t, j.ID)

	done := waitDone(t, q, j.ID)
	assert.Equal(t, StatusDone, done.Status)
	require.NotNil(t, done.Result)
	assert.Equal(t, ClassifyLabel, done.Result.Label)
	assert.False(t, done.Finished.Before(done.Created))

	got, err := q.Get(j.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusDone, got.Status)
}

func TestRecreateWithPrompt(t *testing.T) {
	q := startQueue(t, time.Millisecond)

	j, err := q.Submit(KindRecreate, Input{Prompt: "  lotus  "})
	require.NoError(t, err)
	assert.Equal(t, "lotus", j.Prompt)

	done := waitDone(t, q, j.ID)
	require.NotNil(t, done.Result)
	assert.Equal(t, samples, done.Result.Images)

	// Snapshots are copies.
	done.Result.Images[0] = "changed"
	again, err := q.Get(j.ID)
	require.NoError(t, err)
	assert.Equal(t, "/a.jpg", again.Result.Images[0])
}

func TestPendingUntilDelay(t *testing.T) {
	q := startQueue(t, time.Hour)
	j, err := q.Submit(KindClassify, Input{Image: []byte{1}})
	require.NoError(t, err)

	got, err := q.Get(j.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, got.Status)
}

func TestSubscribeCancel(t *testing.T) {
	q := startQueue(t, time.Hour)
	j, err := q.Submit(KindClassify, Input{Image: []byte{1}})
	require.NoError(t, err)

	ch, cancel, err := q.Subscribe(j.ID)
	require.NoError(t, err)
	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}

func TestUnknownJob(t *testing.T) {
	q := startQueue(t, time.Millisecond)
	_, err := q.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
	_, _, err = q.Subscribe("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoppedQueue(t *testing.T) {
	q := New(time.Hour, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		q.Run(ctx)
		close(done)
	}()

	j, err := q.Submit(KindClassify, Input{Image: []byte{1}})
	require.NoError(t, err)
	ch, _, err := q.Subscribe(j.ID)
	require.NoError(t, err)

	cancel()
	<-done

	_, ok := <-ch
	assert.False(t, ok, "subscription should close on stop")
	_, err = q.Get(j.ID)
	assert.ErrorIs(t, err, ErrClosed)
	_, err = q.Submit(KindClassify, Input{Image: []byte{1}})
	assert.ErrorIs(t, err, ErrClosed)
}
