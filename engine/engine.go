package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"

	"github.com/spaghettifunk/keyframer/engine/animation"
	"github.com/spaghettifunk/keyframer/engine/core"
	"github.com/spaghettifunk/keyframer/engine/scene"
	"github.com/spaghettifunk/keyframer/engine/systems"
)

var ErrWrongStage = errors.New("engine is not in the right stage")

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

type options struct {
	clock clock.Clock
}

type Option func(*options)

// WithClock drives playback and the frame loop from clk instead of the wall clock.
func WithClock(clk clock.Clock) Option {
	return func(o *options) {
		o.clock = clk
	}
}

/**
 * @brief Owns the scene, the keyframe list and the systems, and turns
 * input events into keyframe commands and scene manipulation. Events are
 * dispatched on the goroutine calling ProcessEvents (or Run); playback runs
 * on its own goroutine and reports back through posted events.
 */
type Engine struct {
	currentStage  Stage
	gameInstance  *Game
	config        *ApplicationConfig
	running       atomic.Bool
	graph         *scene.Graph
	keyframes     *animation.KeyframeList
	player        *animation.Player
	systemManager *systems.SystemManager
	events        *core.EventSystem
	watcher       *animation.Watcher
	clock         *core.Clock
	lastTime      float64
	commands      map[rune]*command

	ctx          context.Context
	cancel       context.CancelFunc
	playback     sync.WaitGroup
	shutdownOnce sync.Once
}

func New(g *Game, opts ...Option) (*Engine, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.clock == nil {
		o.clock = clock.New()
	}

	config := g.ApplicationConfig
	if config == nil {
		config = DefaultConfig()
		g.ApplicationConfig = config
	}
	if err := config.Validate(); err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	level, _ := core.ParseLogLevel(config.LogLevel)
	core.SetLogLevel(level)

	graph := scene.NewGraph("world")
	eyes, err := g.FnInitialize(graph)
	if err != nil {
		core.LogError("Scene initialization failed: %s", err)
		return nil, err
	}
	nodes := graph.TransformNodes()
	core.LogDebug("Scene has %d transform nodes, %d eyes", len(nodes), len(eyes))

	sm, err := systems.NewSystemManager(graph, systems.SystemManagerConfig{
		Camera: systems.CameraConfig{
			MinFovY: config.Camera.MinFovY,
			Near:    config.Camera.Near,
			Far:     config.Camera.Far,
			Width:   config.Window.Width,
			Height:  config.Window.Height,
		},
		Manipulation: systems.ManipulationConfig{
			Eyes:     eyes,
			EgoScale: config.Manipulation.EgoScale,
		},
	})
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		currentStage:  EngineStageUninitialized,
		gameInstance:  g,
		config:        config,
		graph:         graph,
		keyframes:     animation.NewKeyframeList(),
		systemManager: sm,
		events:        core.NewEventSystem(core.DEFAULT_EVENT_QUEUE_SIZE),
		clock:         core.NewClock(o.clock),
		ctx:           ctx,
		cancel:        cancel,
	}
	e.player = animation.NewPlayer(e.keyframes, graph, o.clock, animation.PlayerConfig{
		MsBetweenKeyframes: config.Animation.MsBetweenKeyframes,
		FramesPerSecond:    config.Animation.FramesPerSecond,
	})
	e.player.OnFinished = e.postPlaybackFinished
	e.commands = newCommandTable()
	return e, nil
}

func (e *Engine) Initialize() error {
	if e.currentStage != EngineStageUninitialized {
		return errors.Wrap(ErrWrongStage, "initialize")
	}

	listeners := []struct {
		code core.SystemEventCode
		fn   core.FnOnEvent
	}{
		{core.EVENT_CODE_APPLICATION_QUIT, e.onEvent},
		{core.EVENT_CODE_KEY_PRESSED, e.onKey},
		{core.EVENT_CODE_BUTTON_PRESSED, e.onButton},
		{core.EVENT_CODE_BUTTON_RELEASED, e.onButton},
		{core.EVENT_CODE_MOUSE_MOVED, e.onMouseMoved},
		{core.EVENT_CODE_RESIZED, e.onResized},
		{core.EVENT_CODE_KEYFRAMES_CHANGED, e.onKeyframesChanged},
		{core.EVENT_CODE_KEYFRAMES_LOADED, e.onKeyframesLoaded},
		{core.EVENT_CODE_PLAYBACK_FINISHED, e.onPlaybackFinished},
	}
	for _, l := range listeners {
		if err := e.events.Register(l.code, e, l.fn); err != nil {
			return err
		}
	}

	if e.config.Animation.Watch {
		w, err := animation.NewWatcher(e.config.Animation.KeyframeFile, func(path string) {
			ctx := core.EventContext{}
			ctx.Data.C = path
			if err := e.events.Post(core.EVENT_CODE_KEYFRAMES_CHANGED, e, ctx); err != nil {
				core.LogWarn(err.Error())
			}
		})
		if err != nil {
			core.LogError("Could not watch %s: %s", e.config.Animation.KeyframeFile, err)
			return err
		}
		e.watcher = w
		core.LogInfo("Watching %s for changes", e.config.Animation.KeyframeFile)
	}

	e.currentStage = EngineStageInitialized
	return nil
}

/**
 * @brief Runs the frame loop until Quit is called or ctx is cancelled.
 * Each frame dispatches the posted events, then calls the game's update
 * and render hooks.
 */
func (e *Engine) Run(ctx context.Context) error {
	if e.currentStage != EngineStageInitialized {
		return errors.Wrap(ErrWrongStage, "run")
	}
	e.currentStage = EngineStageRunning
	e.running.Store(true)

	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	ticker := e.clock.Source().Ticker(e.frameInterval())
	defer ticker.Stop()

	for e.running.Load() {
		select {
		case <-ctx.Done():
			e.running.Store(false)
		case <-ticker.C:
			if err := e.Tick(); err != nil {
				e.running.Store(false)
				return err
			}
		}
	}
	return nil
}

func (e *Engine) frameInterval() time.Duration {
	return time.Second / time.Duration(e.config.Animation.FramesPerSecond)
}

// Tick runs a single frame of the loop.
func (e *Engine) Tick() error {
	e.clock.Update()
	current := e.clock.Elapsed()
	delta := current - e.lastTime
	e.lastTime = current

	e.events.ProcessEvents()

	if e.gameInstance.FnUpdate != nil {
		if err := e.gameInstance.FnUpdate(delta); err != nil {
			core.LogError("Game update failed, shutting down: %s", err)
			return err
		}
	}
	if e.gameInstance.FnRender != nil {
		packet, err := e.RenderPacket(delta)
		if err != nil {
			return err
		}
		if err := e.gameInstance.FnRender(packet); err != nil {
			core.LogError("Game render failed, shutting down: %s", err)
			return err
		}
	}
	return nil
}

// RenderPacket describes the current state of the scene as seen from the eye.
func (e *Engine) RenderPacket(delta float64) (*RenderPacket, error) {
	ms := e.systemManager.Manipulation()
	eye, err := ms.EyeRbt()
	if err != nil {
		return nil, err
	}
	packet := &RenderPacket{
		DeltaTime:  delta,
		Eye:        eye,
		View:       eye.Inverse().ToMat4(),
		Projection: e.systemManager.Camera().Projection(),
		Items:      e.graph.DrawList(),
	}
	if center, shown := ms.ArcballPivot(); shown {
		arcball := ms.Arcball()
		packet.ArcballShown = true
		packet.ArcballCenter = center
		packet.ArcballRadius = arcball.ScreenRadius * arcball.Scale
	}
	return packet, nil
}

// ProcessEvents dispatches every posted event and returns how many there were.
func (e *Engine) ProcessEvents() int {
	return e.events.ProcessEvents()
}

func (e *Engine) Events() *core.EventSystem {
	return e.events
}

func (e *Engine) Scene() *scene.Graph {
	return e.graph
}

func (e *Engine) Keyframes() *animation.KeyframeList {
	return e.keyframes
}

func (e *Engine) Player() *animation.Player {
	return e.player
}

func (e *Engine) Systems() *systems.SystemManager {
	return e.systemManager
}

func (e *Engine) Config() *ApplicationConfig {
	return e.config
}

func (e *Engine) Stage() Stage {
	return e.currentStage
}

func (e *Engine) Running() bool {
	return e.running.Load()
}

/**
 * @brief Stops playback, waits for background jobs and releases the watcher.
 * Safe to call more than once.
 */
func (e *Engine) Shutdown() error {
	var err error
	e.shutdownOnce.Do(func() {
		e.currentStage = EngineStageShuttingDown
		e.running.Store(false)
		e.cancel()
		e.playback.Wait()

		if e.watcher != nil {
			if werr := e.watcher.Close(); werr != nil {
				err = werr
			}
		}
		if serr := e.systemManager.Shutdown(); serr != nil && err == nil {
			err = serr
		}
		e.events.Shutdown()
		core.LogInfo("Engine shut down")
	})
	return err
}
