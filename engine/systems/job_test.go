package systems

import (
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobSystemConfig(t *testing.T) {
	_, err := NewJobSystem(0, 1)
	assert.ErrorIs(t, err, ErrNoWorkers)
	_, err = NewJobSystem(1, -1)
	assert.ErrorIs(t, err, ErrNegativeChannelSize)
}

func TestJobSystemRunsInOrder(t *testing.T) {
	js, err := NewJobSystem(1, 8)
	require.NoError(t, err)

	var mu sync.Mutex
	var order []int
	var failed []error
	boom := errors.New("boom")

	for i := 0; i < 5; i++ {
		i := i
		require.NoError(t, js.Submit(JobTask{
			Name: "record",
			Run: func() error {
				if i == 3 {
					return boom
				}
				return nil
			},
			OnComplete: func() {
				mu.Lock()
				defer mu.Unlock()
				order = append(order, i)
			},
			OnFailure: func(err error) {
				mu.Lock()
				defer mu.Unlock()
				failed = append(failed, err)
			},
		}))
	}
	require.NoError(t, js.Shutdown())
	require.NoError(t, js.Shutdown())

	assert.Equal(t, []int{0, 1, 2, 4}, order)
	assert.Equal(t, []error{boom}, failed)
	assert.ErrorIs(t, js.Submit(JobTask{Name: "late", Run: func() error { return nil }}), ErrJobSystemStopped)
}
