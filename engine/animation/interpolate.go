package animation

import (
	m "math"

	"github.com/spaghettifunk/keyframer/engine/math"
)

// MIN_PLAYBACK_KEYFRAMES is the number of keyframes Catmull-Rom playback needs:
// one before and one after the segment being interpolated.
const MIN_PLAYBACK_KEYFRAMES = 4

/**
 * @brief Returns the end of the playback range: valid times lie in
 * [0, PlaybackEnd()). It is 0 when fewer than 4 keyframes are stored.
 */
func (kl *KeyframeList) PlaybackEnd() float64 {
	n := kl.Size()
	if n < MIN_PLAYBACK_KEYFRAMES {
		return 0
	}
	return float64(n - 3)
}

/**
 * @brief Interpolates the keyframes at time t, measured in keyframes.
 *
 * The first stored keyframe only serves as the incoming tangent control, so
 * t in [i, i+1) moves from keyframe i+1 to keyframe i+2 with keyframes i and
 * i+3 shaping the tangents. When keyframe i+3 does not exist the end of the
 * animation has been reached: the second result is false and no frame is
 * produced.
 */
func (kl *KeyframeList) InterpolateKeyframes(t float64) (Frame, bool) {
	if t < 0 || m.IsNaN(t) || m.IsInf(t, 0) {
		return nil, false
	}

	kl.mu.RLock()
	defer kl.mu.RUnlock()

	i := int(m.Floor(t))
	alpha := t - float64(i)
	if i+3 > len(kl.keyframes)-1 {
		return nil, false
	}

	prev := kl.keyframes[i].frame
	start := kl.keyframes[i+1].frame
	end := kl.keyframes[i+2].frame
	next := kl.keyframes[i+3].frame

	out := make(Frame, len(start))
	for j := range start {
		out[j] = math.CatmullRom(prev[j], start[j], end[j], next[j], alpha)
	}
	return out, true
}
