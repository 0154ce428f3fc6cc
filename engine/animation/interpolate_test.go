package animation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/keyframer/engine/math"
)

const tol = 1e-9

func listOf(t *testing.T, frames ...Frame) *KeyframeList {
	t.Helper()
	kl := NewKeyframeList()
	for _, f := range frames {
		_, err := kl.AddNewKeyframe(f)
		require.NoError(t, err)
	}
	return kl
}

func TestInterpolateColinear(t *testing.T) {
	kl := listOf(t, frameX(0), frameX(1), frameX(2), frameX(3))

	frame, ok := kl.InterpolateKeyframes(0.5)
	require.True(t, ok)
	require.Len(t, frame, 1)
	assert.InDelta(t, 1.5, frame[0].Translation.X, tol)
	assert.InDelta(t, 0.0, frame[0].Translation.Y, tol)
	assert.InDelta(t, 0.0, frame[0].Translation.Z, tol)
}

func TestInterpolateHitsKeyframes(t *testing.T) {
	rbt := func(x, deg float64) Frame {
		return Frame{math.RBTFromTranslationRotation(math.NewVec3(x, x*x, -x), math.NewQuatYRotation(deg).Mul(math.NewQuatXRotation(deg/2)))}
	}
	frames := []Frame{rbt(0, 0), rbt(1, 20), rbt(2, 70), rbt(3, 80), rbt(4, 150), rbt(5, 170)}
	kl := listOf(t, frames...)
	assert.Equal(t, 3.0, kl.PlaybackEnd())

	for i := 0; i < 3; i++ {
		frame, ok := kl.InterpolateKeyframes(float64(i))
		require.True(t, ok, "t=%d", i)
		assert.True(t, frame[0].Compare(frames[i+1][0], tol), "t=%d: %v != %v", i, frame[0], frames[i+1][0])
	}
}

func TestInterpolateConstant(t *testing.T) {
	x := Frame{
		math.RBTFromTranslationRotation(math.NewVec3(1, 2, 3), math.NewQuatZRotation(33)),
		math.RBTFromXRotation(-12),
	}
	kl := listOf(t, x, x, x, x)

	for _, tt := range []float64{0, 0.25, 0.5, 0.999} {
		frame, ok := kl.InterpolateKeyframes(tt)
		require.True(t, ok)
		for j := range x {
			assert.True(t, frame[j].Compare(x[j], tol))
		}
	}
}

func TestInterpolateEndOfAnimation(t *testing.T) {
	kl := listOf(t, frameX(0), frameX(1), frameX(2), frameX(3), frameX(4))

	_, ok := kl.InterpolateKeyframes(1.999)
	assert.True(t, ok)

	for _, tt := range []float64{2, 2.5, 10, -0.1} {
		frame, ok := kl.InterpolateKeyframes(tt)
		assert.False(t, ok, "t=%v", tt)
		assert.Nil(t, frame)
	}

	short := listOf(t, frameX(0), frameX(1), frameX(2))
	_, ok = short.InterpolateKeyframes(0)
	assert.False(t, ok)
	assert.Equal(t, 0.0, short.PlaybackEnd())
}
