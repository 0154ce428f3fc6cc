package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/spaghettifunk/keyframer/engine"
	"github.com/spaghettifunk/keyframer/engine/animation"
	"github.com/spaghettifunk/keyframer/engine/core"
	"github.com/spaghettifunk/keyframer/testbed"
)

var errBadStep = errors.New("sample step must be positive")

func loadConfig(c *cli.Context) (*engine.ApplicationConfig, error) {
	config, err := engine.LoadConfig(c.String(flagConfig))
	if err != nil {
		return nil, err
	}
	if c.Bool(flagDebug) {
		config.LogLevel = "debug"
	}
	level, err := core.ParseLogLevel(config.LogLevel)
	if err != nil {
		return nil, err
	}
	core.SetLogLevel(level)
	return config, nil
}

// keyframeFile is the first argument, or the configured keyframe file.
func keyframeFile(c *cli.Context, config *engine.ApplicationConfig) string {
	if c.Args().Present() {
		return c.Args().First()
	}
	return config.Animation.KeyframeFile
}

func readList(path string) (*animation.KeyframeList, error) {
	kl := animation.NewKeyframeList()
	if err := kl.ImportFile(path); err != nil {
		return nil, err
	}
	return kl, nil
}

func newTestbedEngine(config *engine.ApplicationConfig) (*engine.Engine, *testbed.TestGame, error) {
	game := testbed.NewTestGame(config)
	e, err := engine.New(game.Game)
	if err != nil {
		return nil, nil, err
	}
	if err := e.Initialize(); err != nil {
		_ = e.Shutdown()
		return nil, nil, err
	}
	return e, game, nil
}

// PlayAction plays a keyframe file from start to end, then exits.
func PlayAction(c *cli.Context) error {
	config, err := loadConfig(c)
	if err != nil {
		return err
	}
	if ms := c.Int(flagSpeed); ms > 0 {
		config.Animation.MsBetweenKeyframes = ms
	}
	config.Animation.KeyframeFile = keyframeFile(c, config)

	e, game, err := newTestbedEngine(config)
	if err != nil {
		return err
	}
	defer e.Shutdown()

	if err := e.LoadKeyframes(config.Animation.KeyframeFile); err != nil {
		return err
	}
	if err := e.Events().Register(core.EVENT_CODE_PLAYBACK_FINISHED, game, func(code core.SystemEventCode, sender, listener interface{}, data core.EventContext) bool {
		_ = e.Quit()
		return true
	}); err != nil {
		return err
	}
	if err := e.HandleKey('y'); err != nil {
		return err
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer signal.Stop(sigCh)

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()
	go func() {
		select {
		case <-sigCh:
			core.LogInfo("Interrupted, stopping playback")
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := e.Run(ctx); err != nil {
		return err
	}
	m := e.Player().Metrics()
	fmt.Fprintf(c.App.Writer, "played %d keyframes in %d steps, %d frames rendered\n", e.Keyframes().Size(), m.TotalSteps, game.Frames())
	return nil
}

// InspectAction prints a summary of a keyframe file.
func InspectAction(c *cli.Context) error {
	config, err := loadConfig(c)
	if err != nil {
		return err
	}
	path := keyframeFile(c, config)
	kl, err := readList(path)
	if err != nil {
		return err
	}

	w := c.App.Writer
	fmt.Fprintf(w, "file:                    %s\n", path)
	fmt.Fprintf(w, "keyframes:               %d\n", kl.Size())
	fmt.Fprintf(w, "transforms per keyframe: %d\n", kl.RbtCount())
	if kl.Size() < animation.MIN_PLAYBACK_KEYFRAMES {
		fmt.Fprintf(w, "playable:                no (needs %d keyframes)\n", animation.MIN_PLAYBACK_KEYFRAMES)
		return nil
	}
	seconds := kl.PlaybackEnd() * float64(config.Animation.MsBetweenKeyframes) / 1000
	fmt.Fprintf(w, "playable:                yes, %.1fs at %d ms between keyframes\n", seconds, config.Animation.MsBetweenKeyframes)

	frames := kl.Frames()
	for i := 1; i < len(frames); i++ {
		moved := 0
		for j := range frames[i] {
			if !frames[i][j].Compare(frames[i-1][j], 1e-9) {
				moved++
			}
		}
		fmt.Fprintf(w, "  %d -> %d: %d transforms change\n", i-1, i, moved)
	}
	return nil
}

// SampleAction writes interpolated frames every --step keyframes to stdout.
func SampleAction(c *cli.Context) error {
	config, err := loadConfig(c)
	if err != nil {
		return err
	}
	step := c.Float64(flagStep)
	if step <= 0 {
		return errors.Wrapf(errBadStep, "got %v", step)
	}
	kl, err := readList(keyframeFile(c, config))
	if err != nil {
		return err
	}
	if kl.Size() < animation.MIN_PLAYBACK_KEYFRAMES {
		return errors.Wrapf(animation.ErrNotEnoughKeyframes, "have %d", kl.Size())
	}

	var samples []animation.Frame
	for i := 0; ; i++ {
		frame, ok := kl.InterpolateKeyframes(float64(i) * step)
		if !ok {
			break
		}
		samples = append(samples, frame)
	}
	return animation.WriteKeyframes(c.App.Writer, samples)
}

// DemoAction records the scripted demo animation and writes it out.
func DemoAction(c *cli.Context) error {
	config, err := loadConfig(c)
	if err != nil {
		return err
	}
	out := c.String(flagOut)
	if out == "" {
		out = config.Animation.KeyframeFile
	}
	config.Animation.Watch = false

	e, _, err := newTestbedEngine(config)
	if err != nil {
		return err
	}
	defer e.Shutdown()

	n, err := testbed.RunDemo(e, testbed.DemoSteps)
	if err != nil {
		return err
	}
	if err := e.Keyframes().ExportFile(out); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "wrote %d keyframes to %s\n", n, out)
	return nil
}

// ConfigAction prints the configuration after loading and flags.
func ConfigAction(c *cli.Context) error {
	config, err := loadConfig(c)
	if err != nil {
		return err
	}
	return config.Encode(c.App.Writer)
}
