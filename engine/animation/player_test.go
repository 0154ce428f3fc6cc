package animation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/keyframer/engine/math"
)

type recordingSink struct {
	mu     sync.Mutex
	frames []Frame
}

func (s *recordingSink) SetFrame(frame []math.RigidBodyTransform) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = append(s.frames, Frame(frame).Clone())
	return nil
}

func (s *recordingSink) xs() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var xs []float64
	for _, f := range s.frames {
		xs = append(xs, f[0].Translation.X)
	}
	return xs
}

// 100 ms between keyframes at 10 frames/s: one step per keyframe.
var coarse = PlayerConfig{MsBetweenKeyframes: 100, FramesPerSecond: 10}

func TestPlayerNeedsFourKeyframes(t *testing.T) {
	kl := listOf(t, frameX(0), frameX(1), frameX(2))
	sink := &recordingSink{}
	p := NewPlayer(kl, sink, clock.NewMock(), coarse)

	assert.ErrorIs(t, p.Start(), ErrNotEnoughKeyframes)
	assert.ErrorIs(t, p.Run(context.Background()), ErrNotEnoughKeyframes)
	assert.False(t, p.Playing())
	assert.False(t, p.Step())
	assert.Empty(t, sink.xs())
}

func TestPlayerStepsToTheEnd(t *testing.T) {
	kl := listOf(t, frameX(0), frameX(1), frameX(2), frameX(3), frameX(4))
	sink := &recordingSink{}
	p := NewPlayer(kl, sink, clock.NewMock(), coarse)

	var finished []bool
	p.OnFinished = func(stopped bool) { finished = append(finished, stopped) }

	require.NoError(t, p.Start())
	assert.True(t, p.Step())
	assert.True(t, p.Step())
	assert.False(t, p.Step())
	assert.False(t, p.Playing())

	assert.InDeltaSlice(t, []float64{1, 2}, sink.xs(), tol)
	assert.Equal(t, 3, kl.CurrentIndex())
	assert.Equal(t, []bool{false}, finished)
	assert.Equal(t, int64(2), p.Metrics().TotalSteps)
}

func TestPlayerDefaultRate(t *testing.T) {
	kl := listOf(t, frameX(0), frameX(1), frameX(2), frameX(3))
	sink := &recordingSink{}
	p := NewPlayer(kl, sink, clock.NewMock(), PlayerConfig{})

	assert.Equal(t, 16*time.Millisecond, p.Interval())
	assert.Equal(t, DEFAULT_MS_BETWEEN_KEYFRAMES, p.MsBetweenKeyframes())

	require.NoError(t, p.Start())
	steps := 0
	for p.Step() {
		steps++
	}
	// ms = 0, 16, ..., 1984 all stay below one keyframe interval
	assert.Equal(t, 125, steps)
	assert.Equal(t, 2, kl.CurrentIndex())

	xs := sink.xs()
	assert.InDelta(t, 1.0, xs[0], tol)
	for i := 1; i < len(xs); i++ {
		assert.Greater(t, xs[i], xs[i-1])
	}
}

func TestPlayerStopResetsToCurrentKeyframe(t *testing.T) {
	kl := listOf(t, frameX(0), frameX(1), frameX(2), frameX(3), frameX(4))
	require.NoError(t, kl.SetCurrent(0))
	sink := &recordingSink{}
	p := NewPlayer(kl, sink, clock.NewMock(), coarse)

	var finished []bool
	p.OnFinished = func(stopped bool) { finished = append(finished, stopped) }

	require.NoError(t, p.Start())
	assert.True(t, p.Step())
	p.Stop()
	assert.False(t, p.Step())
	p.Stop()

	assert.InDeltaSlice(t, []float64{1, 0}, sink.xs(), tol)
	assert.Equal(t, 0, kl.CurrentIndex())
	assert.Equal(t, []bool{true}, finished)
}

func TestPlayerRunWithMockClock(t *testing.T) {
	kl := listOf(t, frameX(0), frameX(1), frameX(2), frameX(3), frameX(4))
	sink := &recordingSink{}
	mock := clock.NewMock()
	p := NewPlayer(kl, sink, mock, coarse)

	done := make(chan error, 1)
	go func() { done <- p.Run(context.Background()) }()

	var runErr error
	assert.Eventually(t, func() bool {
		mock.Add(p.Interval())
		select {
		case runErr = <-done:
			return true
		default:
			return false
		}
	}, 5*time.Second, time.Millisecond)

	assert.NoError(t, runErr)
	assert.InDeltaSlice(t, []float64{1, 2}, sink.xs(), tol)
	assert.Equal(t, 3, kl.CurrentIndex())
}

func TestPlayerRunCancelled(t *testing.T) {
	kl := listOf(t, frameX(0), frameX(1), frameX(2), frameX(3), frameX(4))
	sink := &recordingSink{}
	p := NewPlayer(kl, sink, clock.NewMock(), coarse)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, p.Run(ctx), context.Canceled)
	assert.False(t, p.Playing())
	// one interpolated step, then the reset to the current keyframe
	assert.InDeltaSlice(t, []float64{1, 4}, sink.xs(), tol)
}

func TestPlayerSpeed(t *testing.T) {
	p := NewPlayer(NewKeyframeList(), &recordingSink{}, clock.NewMock(), PlayerConfig{MsBetweenKeyframes: 300})

	assert.Equal(t, 200, p.Faster())
	assert.Equal(t, 100, p.Faster())
	assert.Equal(t, 100, p.Faster())
	assert.Equal(t, 200, p.Slower())

	assert.Equal(t, MIN_MS_BETWEEN_KEYFRAMES, NewPlayer(NewKeyframeList(), &recordingSink{}, nil, PlayerConfig{MsBetweenKeyframes: 10}).MsBetweenKeyframes())
}

func TestPlayerRestartDrivesOneChain(t *testing.T) {
	var frames []Frame
	for i := 0; i < 12; i++ {
		frames = append(frames, frameX(float64(i)))
	}
	kl := listOf(t, frames...)
	require.NoError(t, kl.SetCurrent(0))
	sink := &recordingSink{}
	mock := clock.NewMock()
	p := NewPlayer(kl, sink, mock, coarse)

	require.NoError(t, p.Start())
	first := make(chan error, 1)
	go func() { first <- p.Play(context.Background()) }()
	require.Eventually(t, func() bool { return len(sink.xs()) == 1 }, 5*time.Second, time.Millisecond)

	// stop and restart before the first loop's timer fires
	p.Stop()
	require.NoError(t, p.Start())
	second := make(chan error, 1)
	go func() { second <- p.Play(context.Background()) }()

	var secondErr error
	assert.Eventually(t, func() bool {
		mock.Add(p.Interval())
		select {
		case secondErr = <-second:
			return true
		default:
			return false
		}
	}, 5*time.Second, time.Millisecond)
	assert.NoError(t, secondErr)

	select {
	case err := <-first:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("the stopped loop is still running")
	}
	// one run up to the stop, the reset, then a single chain through all keyframes
	assert.InDeltaSlice(t, []float64{1, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, sink.xs(), tol)
	assert.Equal(t, 10, kl.CurrentIndex())
}

func TestPlayerPlayWithoutStart(t *testing.T) {
	kl := listOf(t, frameX(0), frameX(1), frameX(2), frameX(3))
	sink := &recordingSink{}
	p := NewPlayer(kl, sink, clock.NewMock(), coarse)

	assert.NoError(t, p.Play(context.Background()))
	assert.Empty(t, sink.xs())
}

func TestPlayerMetricsMeasureTimeBetweenSteps(t *testing.T) {
	kl := listOf(t, frameX(0), frameX(1), frameX(2), frameX(3), frameX(4))
	mock := clock.NewMock()
	p := NewPlayer(kl, &recordingSink{}, mock, coarse)

	require.NoError(t, p.Start())
	mock.Add(100 * time.Millisecond)
	assert.True(t, p.Step())
	mock.Add(100 * time.Millisecond)
	assert.True(t, p.Step())
	assert.False(t, p.Step())

	m := p.Metrics()
	assert.Equal(t, int64(2), m.TotalSteps)
	assert.InDelta(t, 100.0, m.StepTime(), 1e-6)
	assert.InDelta(t, 10.0, m.StepsPerSecond(), 1e-6)
}
