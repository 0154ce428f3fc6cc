package animation

import (
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/spaghettifunk/keyframer/engine/math"
)

var (
	ErrNoKeyframes        = errors.New("keyframe list is empty")
	ErrFrameSizeMismatch  = errors.New("frame size does not match the keyframe list")
	ErrCorruptKeyframes   = errors.New("corrupt keyframe data")
	ErrNotEnoughKeyframes = errors.New("at least 4 keyframes are needed to play")
	ErrFirstKeyframe      = errors.New("already at the first keyframe")
	ErrLastKeyframe       = errors.New("already at the last keyframe")
	ErrKeyframeNotFound   = errors.New("keyframe not found")
)

// Frame holds one transform per transform node of the scene, in the
// scene's fixed node order.
type Frame []math.RigidBodyTransform

// Clone returns a copy that does not share storage with f.
func (f Frame) Clone() Frame {
	if f == nil {
		return nil
	}
	return append(Frame(nil), f...)
}

type keyframe struct {
	id    uuid.UUID
	frame Frame
}

/**
 * @brief An ordered list of keyframes with a current cursor. The cursor is
 * -1 exactly when the list is empty. Every keyframe carries a stable UUID so
 * callers can keep referring to it across inserts and removals.
 *
 * All frames stored in one list have the same length.
 */
type KeyframeList struct {
	mu        sync.RWMutex
	keyframes []keyframe
	current   int
}

func NewKeyframeList() *KeyframeList {
	return &KeyframeList{current: -1}
}

func (kl *KeyframeList) Size() int {
	kl.mu.RLock()
	defer kl.mu.RUnlock()
	return len(kl.keyframes)
}

func (kl *KeyframeList) Empty() bool {
	return kl.Size() == 0
}

// RbtCount returns the number of transforms per frame, 0 for an empty list.
func (kl *KeyframeList) RbtCount() int {
	kl.mu.RLock()
	defer kl.mu.RUnlock()
	if len(kl.keyframes) == 0 {
		return 0
	}
	return len(kl.keyframes[0].frame)
}

func (kl *KeyframeList) checkSize(frame Frame) error {
	if len(kl.keyframes) > 0 && len(frame) != len(kl.keyframes[0].frame) {
		return errors.Wrapf(ErrFrameSizeMismatch, "got %d transforms, list holds %d", len(frame), len(kl.keyframes[0].frame))
	}
	return nil
}

/**
 * @brief Inserts frame right after the current keyframe and makes it current.
 * On an empty list the frame becomes the only keyframe.
 */
func (kl *KeyframeList) AddNewKeyframe(frame Frame) (uuid.UUID, error) {
	kl.mu.Lock()
	defer kl.mu.Unlock()

	if err := kl.checkSize(frame); err != nil {
		return uuid.Nil, err
	}
	kf := keyframe{id: uuid.New(), frame: frame.Clone()}
	at := kl.current + 1
	kl.keyframes = append(kl.keyframes, keyframe{})
	copy(kl.keyframes[at+1:], kl.keyframes[at:])
	kl.keyframes[at] = kf
	kl.current = at
	return kf.id, nil
}

/**
 * @brief Removes the current keyframe. The new current keyframe is the former
 * successor when the first keyframe was removed and the former predecessor
 * otherwise. It is returned so the caller can push it to the scene; the
 * returned frame is nil when the list became empty.
 */
func (kl *KeyframeList) RemoveCurrentKeyframe() (Frame, error) {
	kl.mu.Lock()
	defer kl.mu.Unlock()

	if len(kl.keyframes) == 0 {
		return nil, ErrNoKeyframes
	}
	at := kl.current
	kl.keyframes = append(kl.keyframes[:at], kl.keyframes[at+1:]...)
	switch {
	case len(kl.keyframes) == 0:
		kl.current = -1
		return nil, nil
	case at == 0:
		kl.current = 0
	default:
		kl.current = at - 1
	}
	return kl.keyframes[kl.current].frame.Clone(), nil
}

// Advance moves the cursor to the next keyframe and returns it.
func (kl *KeyframeList) Advance() (Frame, error) {
	kl.mu.Lock()
	defer kl.mu.Unlock()

	if len(kl.keyframes) == 0 {
		return nil, ErrNoKeyframes
	}
	if kl.current == len(kl.keyframes)-1 {
		return nil, ErrLastKeyframe
	}
	kl.current++
	return kl.keyframes[kl.current].frame.Clone(), nil
}

// Retreat moves the cursor to the previous keyframe and returns it.
func (kl *KeyframeList) Retreat() (Frame, error) {
	kl.mu.Lock()
	defer kl.mu.Unlock()

	if len(kl.keyframes) == 0 {
		return nil, ErrNoKeyframes
	}
	if kl.current == 0 {
		return nil, ErrFirstKeyframe
	}
	kl.current--
	return kl.keyframes[kl.current].frame.Clone(), nil
}

// UpdateCurrentKeyframe overwrites the current keyframe in place. Its UUID
// is kept.
func (kl *KeyframeList) UpdateCurrentKeyframe(frame Frame) error {
	kl.mu.Lock()
	defer kl.mu.Unlock()

	if len(kl.keyframes) == 0 {
		return ErrNoKeyframes
	}
	if err := kl.checkSize(frame); err != nil {
		return err
	}
	kl.keyframes[kl.current].frame = frame.Clone()
	return nil
}

func (kl *KeyframeList) CurrentKeyframe() (Frame, error) {
	kl.mu.RLock()
	defer kl.mu.RUnlock()

	if len(kl.keyframes) == 0 {
		return nil, ErrNoKeyframes
	}
	return kl.keyframes[kl.current].frame.Clone(), nil
}

// CurrentIndex returns the zero-based position of the cursor, or -1 when
// the list is empty.
func (kl *KeyframeList) CurrentIndex() int {
	kl.mu.RLock()
	defer kl.mu.RUnlock()
	return kl.current
}

// CurrentID returns the handle of the current keyframe.
func (kl *KeyframeList) CurrentID() (uuid.UUID, error) {
	kl.mu.RLock()
	defer kl.mu.RUnlock()

	if len(kl.keyframes) == 0 {
		return uuid.Nil, ErrNoKeyframes
	}
	return kl.keyframes[kl.current].id, nil
}

// IndexOf returns the position of the keyframe with the given handle.
func (kl *KeyframeList) IndexOf(id uuid.UUID) (int, error) {
	kl.mu.RLock()
	defer kl.mu.RUnlock()

	for i, kf := range kl.keyframes {
		if kf.id == id {
			return i, nil
		}
	}
	return -1, errors.Wrapf(ErrKeyframeNotFound, "%s", id)
}

// SetCurrent moves the cursor to position index.
func (kl *KeyframeList) SetCurrent(index int) error {
	kl.mu.Lock()
	defer kl.mu.Unlock()

	if len(kl.keyframes) == 0 {
		return ErrNoKeyframes
	}
	if index < 0 || index >= len(kl.keyframes) {
		return errors.Wrapf(ErrKeyframeNotFound, "index %d out of [0, %d)", index, len(kl.keyframes))
	}
	kl.current = index
	return nil
}

// FrameAt returns a copy of the keyframe at position index.
func (kl *KeyframeList) FrameAt(index int) (Frame, error) {
	kl.mu.RLock()
	defer kl.mu.RUnlock()

	if index < 0 || index >= len(kl.keyframes) {
		return nil, errors.Wrapf(ErrKeyframeNotFound, "index %d out of [0, %d)", index, len(kl.keyframes))
	}
	return kl.keyframes[index].frame.Clone(), nil
}

// Frames returns a copy of every keyframe in list order.
func (kl *KeyframeList) Frames() []Frame {
	kl.mu.RLock()
	defer kl.mu.RUnlock()

	frames := make([]Frame, len(kl.keyframes))
	for i, kf := range kl.keyframes {
		frames[i] = kf.frame.Clone()
	}
	return frames
}

/**
 * @brief Replaces the whole list with frames and moves the cursor to the
 * first keyframe. All frames must have the same length; on error the list
 * is left untouched.
 */
func (kl *KeyframeList) Replace(frames []Frame) error {
	keyframes := make([]keyframe, len(frames))
	for i, f := range frames {
		if len(f) != len(frames[0]) {
			return errors.Wrapf(ErrFrameSizeMismatch, "frame %d has %d transforms, frame 0 has %d", i, len(f), len(frames[0]))
		}
		keyframes[i] = keyframe{id: uuid.New(), frame: f.Clone()}
	}

	kl.mu.Lock()
	defer kl.mu.Unlock()

	kl.keyframes = keyframes
	kl.current = -1
	if len(keyframes) > 0 {
		kl.current = 0
	}
	return nil
}
