package engine

import (
	"github.com/spaghettifunk/keyframer/engine/core"
)

// PressKey posts a key press for the next frame.
func (e *Engine) PressKey(key rune) error {
	ctx := core.EventContext{}
	ctx.Data.U16[0] = uint16(key)
	return e.events.Post(core.EVENT_CODE_KEY_PRESSED, e, ctx)
}

// MouseButton posts a button press or release at window position (x, y).
func (e *Engine) MouseButton(button core.Button, pressed bool, x, y int) error {
	ctx := core.EventContext{}
	ctx.Data.U16[0] = uint16(button)
	ctx.Data.I32[0] = int32(x)
	ctx.Data.I32[1] = int32(y)
	code := core.EVENT_CODE_BUTTON_RELEASED
	if pressed {
		code = core.EVENT_CODE_BUTTON_PRESSED
	}
	return e.events.Post(code, e, ctx)
}

func (e *Engine) MouseMove(x, y int) error {
	ctx := core.EventContext{}
	ctx.Data.I32[0] = int32(x)
	ctx.Data.I32[1] = int32(y)
	return e.events.Post(core.EVENT_CODE_MOUSE_MOVED, e, ctx)
}

func (e *Engine) Resize(width, height int) error {
	ctx := core.EventContext{}
	ctx.Data.U16[0] = uint16(width)
	ctx.Data.U16[1] = uint16(height)
	return e.events.Post(core.EVENT_CODE_RESIZED, e, ctx)
}

// Quit asks the frame loop to stop after the current frame.
func (e *Engine) Quit() error {
	return e.events.Post(core.EVENT_CODE_APPLICATION_QUIT, e, core.EventContext{})
}

func (e *Engine) postPlaybackFinished(stopped bool) {
	ctx := core.EventContext{}
	if stopped {
		ctx.Data.I32[0] = 1
	}
	if err := e.events.Post(core.EVENT_CODE_PLAYBACK_FINISHED, e, ctx); err != nil {
		core.LogWarn(err.Error())
	}
}

func (e *Engine) onEvent(code core.SystemEventCode, sender interface{}, listener interface{}, context core.EventContext) bool {
	if code == core.EVENT_CODE_APPLICATION_QUIT {
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
		e.running.Store(false)
		return true
	}
	return false
}

func (e *Engine) onKey(code core.SystemEventCode, sender interface{}, listener interface{}, context core.EventContext) bool {
	_ = e.HandleKey(rune(context.Data.U16[0]))
	return true
}

func (e *Engine) onButton(code core.SystemEventCode, sender interface{}, listener interface{}, context core.EventContext) bool {
	button := core.Button(context.Data.U16[0])
	pressed := code == core.EVENT_CODE_BUTTON_PRESSED
	e.systemManager.Manipulation().MouseButton(button, pressed, int(context.Data.I32[0]), int(context.Data.I32[1]))
	return true
}

func (e *Engine) onMouseMoved(code core.SystemEventCode, sender interface{}, listener interface{}, context core.EventContext) bool {
	if _, err := e.systemManager.Manipulation().MouseMotion(int(context.Data.I32[0]), int(context.Data.I32[1])); err != nil {
		core.LogError("Mouse motion could not update the scene: %s", err)
	}
	return true
}

func (e *Engine) onResized(code core.SystemEventCode, sender interface{}, listener interface{}, context core.EventContext) bool {
	width, height := int(context.Data.U16[0]), int(context.Data.U16[1])
	if err := e.systemManager.Manipulation().Reshape(width, height); err != nil {
		return true
	}
	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(width, height); err != nil {
			core.LogError("Game resize failed: %s", err)
		}
	}
	return true
}

func (e *Engine) onKeyframesChanged(code core.SystemEventCode, sender interface{}, listener interface{}, context core.EventContext) bool {
	core.LogInfo("%s changed on disk, reloading", context.Data.C)
	// our own export triggers this too, so identical files are skipped
	if err := e.submitImport(context.Data.C, true); err != nil {
		core.LogError(err.Error())
	}
	return true
}

func (e *Engine) onKeyframesLoaded(code core.SystemEventCode, sender interface{}, listener interface{}, context core.EventContext) bool {
	core.LogInfo("Loaded %d keyframes from %s", e.keyframes.Size(), context.Data.C)
	if err := e.showCurrentKeyframe(); err != nil && !informational(err) {
		core.LogError("Could not show the first keyframe: %s", err)
	}
	return true
}

func (e *Engine) onPlaybackFinished(code core.SystemEventCode, sender interface{}, listener interface{}, context core.EventContext) bool {
	m := e.player.Metrics()
	core.LogInfo("Playback finished after %d steps, %.1f steps/s", m.TotalSteps, m.StepsPerSecond())
	if context.Data.I32[0] == 0 {
		// the cursor is parked on the penultimate keyframe
		if err := e.showCurrentKeyframe(); err != nil && !informational(err) {
			core.LogError(err.Error())
		}
	}
	// other listeners, such as a headless player waiting for the end, still see it
	return false
}
