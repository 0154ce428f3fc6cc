package animation

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"

	"github.com/spaghettifunk/keyframer/engine/core"
	"github.com/spaghettifunk/keyframer/engine/math"
)

const (
	DEFAULT_MS_BETWEEN_KEYFRAMES = 2000
	DEFAULT_FRAMES_PER_SECOND    = 60
	MIN_MS_BETWEEN_KEYFRAMES     = 100
	MS_BETWEEN_KEYFRAMES_STEP    = 100
)

// FrameSink receives the frames produced by playback, typically the scene graph.
type FrameSink interface {
	SetFrame(frame []math.RigidBodyTransform) error
}

type PlayerConfig struct {
	MsBetweenKeyframes int
	FramesPerSecond    int
}

/**
 * @brief Plays a keyframe list back into a FrameSink. Every step interpolates
 * one frame at the current time and, unless the end was reached, the next
 * step is scheduled 1000/fps milliseconds later. Stopping is a flag checked
 * at the top of every step.
 *
 * Every Start begins a new run. A step belonging to an older run does
 * nothing, and each run is driven by at most one Play loop.
 */
type Player struct {
	mu    sync.Mutex
	list  *KeyframeList
	sink  FrameSink
	clock clock.Clock

	msBetweenKeyframes int
	framesPerSecond    int

	playing bool
	ms      int
	run     uint64
	driven  bool

	stepClock *core.Clock
	metrics   *core.Metrics

	// OnFinished, when set, is called after playback ends. stopped is true
	// when playback was interrupted rather than run to the end.
	OnFinished func(stopped bool)
}

func NewPlayer(list *KeyframeList, sink FrameSink, clk clock.Clock, config PlayerConfig) *Player {
	if clk == nil {
		clk = clock.New()
	}
	if config.MsBetweenKeyframes <= 0 {
		config.MsBetweenKeyframes = DEFAULT_MS_BETWEEN_KEYFRAMES
	}
	if config.FramesPerSecond <= 0 {
		config.FramesPerSecond = DEFAULT_FRAMES_PER_SECOND
	}
	return &Player{
		list:               list,
		sink:               sink,
		clock:              clk,
		msBetweenKeyframes: math.Clamp(config.MsBetweenKeyframes, MIN_MS_BETWEEN_KEYFRAMES, int(^uint(0)>>1)),
		framesPerSecond:    config.FramesPerSecond,
		stepClock:          core.NewClock(clk),
		metrics:            core.NewMetrics(),
	}
}

func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

func (p *Player) MsBetweenKeyframes() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.msBetweenKeyframes
}

// Faster shortens the time between keyframes by 100 ms, never going below 100 ms.
func (p *Player) Faster() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.msBetweenKeyframes-MS_BETWEEN_KEYFRAMES_STEP < MIN_MS_BETWEEN_KEYFRAMES {
		core.LogWarn("Time between keyframes cannot go below %d ms", MIN_MS_BETWEEN_KEYFRAMES)
	}
	p.msBetweenKeyframes = math.Clamp(p.msBetweenKeyframes-MS_BETWEEN_KEYFRAMES_STEP, MIN_MS_BETWEEN_KEYFRAMES, p.msBetweenKeyframes)
	core.LogInfo("Time between keyframes is now %d ms", p.msBetweenKeyframes)
	return p.msBetweenKeyframes
}

// Slower lengthens the time between keyframes by 100 ms.
func (p *Player) Slower() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.msBetweenKeyframes += MS_BETWEEN_KEYFRAMES_STEP
	core.LogInfo("Time between keyframes is now %d ms", p.msBetweenKeyframes)
	return p.msBetweenKeyframes
}

// Interval is the delay between two playback steps.
func (p *Player) Interval() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.interval()
}

func (p *Player) interval() time.Duration {
	return time.Duration(1000/p.framesPerSecond) * time.Millisecond
}

// Start arms playback from the beginning of the list. It fails with
// ErrNotEnoughKeyframes when fewer than 4 keyframes are stored.
func (p *Player) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if n := p.list.Size(); n < MIN_PLAYBACK_KEYFRAMES {
		return errors.Wrapf(ErrNotEnoughKeyframes, "have %d", n)
	}
	p.playing = true
	p.ms = 0
	p.run++
	p.driven = false
	p.metrics.Reset()
	p.stepClock.Start()
	core.LogInfo("Playing %d keyframes, %d ms apart", p.list.Size(), p.msBetweenKeyframes)
	return nil
}

/**
 * @brief Runs one playback step and reports whether another one should be
 * scheduled. When the end is reached the cursor is parked on the
 * penultimate keyframe and playback ends.
 */
func (p *Player) Step() bool {
	return p.step(p.currentRun())
}

func (p *Player) currentRun() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.run
}

// claim hands the current run to a Play loop, unless one drives it already.
func (p *Player) claim() (uint64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.playing || p.driven {
		return 0, false
	}
	p.driven = true
	return p.run, true
}

func (p *Player) step(run uint64) bool {
	p.mu.Lock()
	if !p.playing || run != p.run {
		p.mu.Unlock()
		return false
	}

	t := float64(p.ms) / float64(p.msBetweenKeyframes)
	frame, ok := p.list.InterpolateKeyframes(t)
	if ok {
		if err := p.sink.SetFrame(frame); err != nil {
			core.LogError("Playback could not update the scene: %s", err)
		}
		p.ms += 1000 / p.framesPerSecond
		// time since the previous step, or since Start for the first one
		p.stepClock.Update()
		p.metrics.Update(p.stepClock.Elapsed())
		p.stepClock.Start()
		p.mu.Unlock()
		return true
	}

	p.playing = false
	if err := p.list.SetCurrent(p.list.Size() - 2); err != nil {
		core.LogError("Could not park the keyframe cursor: %s", err)
	}
	core.LogInfo("Animation playback is finished (%d steps, %.1f ms apart on average)", p.metrics.TotalSteps, p.metrics.StepTime())
	onFinished := p.OnFinished
	p.mu.Unlock()

	if onFinished != nil {
		onFinished(false)
	}
	return false
}

// Stop interrupts playback and resets the sink to the current keyframe.
// Stopping a player that is not playing does nothing.
func (p *Player) Stop() {
	p.stop(p.currentRun())
}

func (p *Player) stop(run uint64) {
	p.mu.Lock()
	if !p.playing || run != p.run {
		p.mu.Unlock()
		return
	}
	p.playing = false
	onFinished := p.OnFinished
	p.mu.Unlock()

	core.LogInfo("Animation playback stopped")
	if frame, err := p.list.CurrentKeyframe(); err == nil {
		if err := p.sink.SetFrame(frame); err != nil {
			core.LogError("Could not reset the scene to the current keyframe: %s", err)
		}
	}
	if onFinished != nil {
		onFinished(true)
	}
}

/**
 * @brief Starts playback and drives it until the end of the keyframes, a
 * call to Stop, or the cancellation of ctx.
 */
func (p *Player) Run(ctx context.Context) error {
	if err := p.Start(); err != nil {
		return err
	}
	return p.Play(ctx)
}

/**
 * @brief Drives a started player. The first step runs immediately; every
 * following step waits on a fresh one-shot timer. Returns nil once playback
 * ends or is stopped, and ctx.Err() if ctx is cancelled first. Returns nil
 * right away when the player is not playing or another Play drives it.
 */
func (p *Player) Play(ctx context.Context) error {
	run, ok := p.claim()
	if !ok {
		return nil
	}
	for p.step(run) {
		timer := p.clock.Timer(p.Interval())
		select {
		case <-ctx.Done():
			timer.Stop()
			p.stop(run)
			return ctx.Err()
		case <-timer.C:
		}
	}
	return nil
}

// Metrics returns the time between steps of the last playback.
func (p *Player) Metrics() core.Metrics {
	p.mu.Lock()
	defer p.mu.Unlock()
	return *p.metrics
}
