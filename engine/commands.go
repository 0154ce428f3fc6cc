package engine

import (
	"reflect"
	"sort"

	"github.com/pkg/errors"

	"github.com/spaghettifunk/keyframer/engine/animation"
	"github.com/spaghettifunk/keyframer/engine/core"
	"github.com/spaghettifunk/keyframer/engine/systems"
)

var ErrUnknownCommand = errors.New("unknown command")

type command struct {
	key  rune
	help string
	run  func(e *Engine) error
}

func newCommandTable() map[rune]*command {
	table := []*command{
		{' ', "copy the current keyframe to the scene", (*Engine).showCurrentKeyframe},
		{'u', "update the current keyframe from the scene (adds one if there is none)", (*Engine).updateKeyframe},
		{'n', "add a keyframe from the scene after the current one", (*Engine).newKeyframe},
		{'d', "delete the current keyframe", (*Engine).deleteKeyframe},
		{'>', "advance to the next keyframe", (*Engine).nextKeyframe},
		{'<', "retreat to the previous keyframe", (*Engine).previousKeyframe},
		{'y', "play or stop the animation", (*Engine).togglePlayback},
		{'+', "play faster", (*Engine).faster},
		{'-', "play slower", (*Engine).slower},
		{'w', "write the keyframes to the keyframe file", (*Engine).exportKeyframes},
		{'i', "read the keyframes from the keyframe file", (*Engine).importKeyframes},
		{'v', "cycle the viewpoint", (*Engine).cycleEye},
		{'m', "toggle the world-sky frame", (*Engine).toggleWorldSky},
		{'h', "print this help", (*Engine).help},
		{'q', "quit", (*Engine).quit},
	}
	commands := make(map[rune]*command, len(table))
	for _, c := range table {
		commands[c.key] = c
	}
	return commands
}

// informational errors leave the state unchanged and are not failures.
func informational(err error) bool {
	return errors.Is(err, animation.ErrNoKeyframes) ||
		errors.Is(err, animation.ErrFirstKeyframe) ||
		errors.Is(err, animation.ErrLastKeyframe) ||
		errors.Is(err, animation.ErrNotEnoughKeyframes)
}

/**
 * @brief Runs the command bound to key and reports the current keyframe
 * afterwards. Conditions that leave the state unchanged, such as advancing
 * past the last keyframe, are logged and returned.
 */
func (e *Engine) HandleKey(key rune) error {
	c, ok := e.commands[key]
	if !ok {
		err := errors.Wrapf(ErrUnknownCommand, "%q", key)
		core.LogWarn("%s, press h for help", err)
		return err
	}

	err := c.run(e)
	switch {
	case err == nil:
	case informational(err):
		core.LogInfo(err.Error())
	default:
		core.LogError("%q failed: %s", key, err)
	}
	if key != 'h' && key != 'q' {
		core.LogInfo("Current keyframe: %d of %d", e.keyframes.CurrentIndex(), e.keyframes.Size())
	}
	return err
}

func (e *Engine) pushToScene(frame animation.Frame) error {
	return e.graph.SetFrame(frame)
}

func (e *Engine) showCurrentKeyframe() error {
	frame, err := e.keyframes.CurrentKeyframe()
	if err != nil {
		return err
	}
	return e.pushToScene(frame)
}

func (e *Engine) updateKeyframe() error {
	if e.keyframes.Empty() {
		return e.newKeyframe()
	}
	return e.keyframes.UpdateCurrentKeyframe(e.graph.DumpFrame())
}

func (e *Engine) newKeyframe() error {
	id, err := e.keyframes.AddNewKeyframe(e.graph.DumpFrame())
	if err != nil {
		return err
	}
	core.LogDebug("Added keyframe %s", id)
	return nil
}

func (e *Engine) deleteKeyframe() error {
	frame, err := e.keyframes.RemoveCurrentKeyframe()
	if err != nil {
		return err
	}
	if frame == nil {
		return nil
	}
	return e.pushToScene(frame)
}

func (e *Engine) nextKeyframe() error {
	frame, err := e.keyframes.Advance()
	if err != nil {
		return err
	}
	return e.pushToScene(frame)
}

func (e *Engine) previousKeyframe() error {
	frame, err := e.keyframes.Retreat()
	if err != nil {
		return err
	}
	return e.pushToScene(frame)
}

func (e *Engine) togglePlayback() error {
	if e.player.Playing() {
		e.player.Stop()
		return nil
	}
	if err := e.player.Start(); err != nil {
		return err
	}
	e.playback.Add(1)
	go func() {
		defer e.playback.Done()
		if err := e.player.Play(e.ctx); err != nil && !errors.Is(err, e.ctx.Err()) {
			core.LogError("Playback failed: %s", err)
		}
	}()
	return nil
}

func (e *Engine) faster() error {
	e.player.Faster()
	return nil
}

func (e *Engine) slower() error {
	e.player.Slower()
	return nil
}

/**
 * @brief Writes a snapshot of the keyframes to the keyframe file on the job
 * system, so that keyframe editing never waits on the disk.
 */
func (e *Engine) exportKeyframes() error {
	frames := e.keyframes.Frames()
	if len(frames) == 0 {
		return animation.ErrNoKeyframes
	}
	snapshot := animation.NewKeyframeList()
	if err := snapshot.Replace(frames); err != nil {
		return err
	}
	path := e.config.Animation.KeyframeFile
	return e.systemManager.Jobs().Submit(systems.JobTask{
		Name: "export " + path,
		Run:  func() error { return snapshot.ExportFile(path) },
		OnComplete: func() {
			core.LogInfo("Wrote %d keyframes to %s", len(frames), path)
		},
	})
}

func (e *Engine) importKeyframes() error {
	return e.submitImport(e.config.Animation.KeyframeFile, false)
}

/**
 * @brief Replaces the keyframes with the ones stored at path and resets the
 * cursor to the first one. Files whose transform count does not match the
 * scene are rejected. With skipUnchanged, a file holding the keyframes
 * already loaded is left alone and false is reported.
 */
func (e *Engine) readKeyframes(path string, skipUnchanged bool) (bool, error) {
	incoming := animation.NewKeyframeList()
	if err := incoming.ImportFile(path); err != nil {
		return false, err
	}
	frames := incoming.Frames()
	if want := len(e.graph.TransformNodes()); len(frames[0]) != want {
		return false, errors.Wrapf(animation.ErrFrameSizeMismatch, "%s holds %d transforms per keyframe, the scene has %d", path, len(frames[0]), want)
	}
	if skipUnchanged && reflect.DeepEqual(frames, e.keyframes.Frames()) {
		core.LogDebug("%s holds the loaded keyframes already", path)
		return false, nil
	}
	return true, e.keyframes.Replace(frames)
}

// LoadKeyframes reads path right away and shows its first keyframe.
func (e *Engine) LoadKeyframes(path string) error {
	if _, err := e.readKeyframes(path, false); err != nil {
		return err
	}
	core.LogInfo("Loaded %d keyframes from %s", e.keyframes.Size(), path)
	return e.showCurrentKeyframe()
}

// submitImport reads path on the job system and announces the new keyframes
// with EVENT_CODE_KEYFRAMES_LOADED.
func (e *Engine) submitImport(path string, skipUnchanged bool) error {
	changed := false
	return e.systemManager.Jobs().Submit(systems.JobTask{
		Name: "import " + path,
		Run: func() (err error) {
			changed, err = e.readKeyframes(path, skipUnchanged)
			return err
		},
		OnComplete: func() {
			if !changed {
				return
			}
			ctx := core.EventContext{}
			ctx.Data.C = path
			if err := e.events.Post(core.EVENT_CODE_KEYFRAMES_LOADED, e, ctx); err != nil {
				core.LogWarn(err.Error())
			}
		},
	})
}

func (e *Engine) cycleEye() error {
	e.systemManager.Manipulation().CycleEye()
	return nil
}

func (e *Engine) toggleWorldSky() error {
	on := e.systemManager.Manipulation().ToggleWorldSky()
	core.LogInfo("World-sky frame: %t", on)
	return nil
}

func (e *Engine) help() error {
	keys := make([]rune, 0, len(e.commands))
	for k := range e.commands {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	for _, k := range keys {
		core.LogInfo("%q  %s", k, e.commands[k].help)
	}
	return nil
}

func (e *Engine) quit() error {
	return e.events.Post(core.EVENT_CODE_APPLICATION_QUIT, e, core.EventContext{})
}
