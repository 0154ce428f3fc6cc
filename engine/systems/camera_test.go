package systems

import (
	m "math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/keyframer/engine/math"
)

const tol = 1e-9

var square = CameraConfig{MinFovY: 60, Near: 0.1, Far: 50, Width: 512, Height: 512}

func newCamera(t *testing.T) *Camera {
	t.Helper()
	c, err := NewCamera(square)
	require.NoError(t, err)
	return c
}

func TestCameraFovY(t *testing.T) {
	c := newCamera(t)
	assert.InDelta(t, 60.0, c.FovY(), tol)
	assert.InDelta(t, 1.0, c.Aspect(), tol)
	assert.InDelta(t, 128.0, c.ArcballScreenRadius(), tol)

	require.NoError(t, c.Reshape(1024, 512))
	assert.InDelta(t, 60.0, c.FovY(), tol)
	assert.InDelta(t, 128.0, c.ArcballScreenRadius(), tol)

	require.NoError(t, c.Reshape(256, 512))
	assert.Greater(t, c.FovY(), 60.0)
	// the horizontal field of view stays at the minimum
	halfX := m.Atan(m.Tan(math.DegToRad(c.FovY())/2) * c.Aspect())
	assert.InDelta(t, 30.0, math.RadToDeg(halfX), 1e-6)
	assert.InDelta(t, 64.0, c.ArcballScreenRadius(), tol)
}

func TestCameraInvalidConfig(t *testing.T) {
	bad := []CameraConfig{
		{MinFovY: 0, Near: 0.1, Far: 50, Width: 1, Height: 1},
		{MinFovY: 60, Near: 0, Far: 50, Width: 1, Height: 1},
		{MinFovY: 60, Near: 1, Far: 0.5, Width: 1, Height: 1},
		{MinFovY: 60, Near: 0.1, Far: 50, Width: 0, Height: 1},
	}
	for _, cfg := range bad {
		_, err := NewCamera(cfg)
		assert.ErrorIs(t, err, ErrInvalidCameraConfig)
	}

	c := newCamera(t)
	assert.ErrorIs(t, c.Reshape(-1, 10), ErrInvalidCameraConfig)
	assert.Equal(t, 512, c.Width())
}

func TestCameraProjection(t *testing.T) {
	c := newCamera(t)
	want := mgl64.Perspective(math.DegToRad(60), 1, 0.1, 50)
	got := c.Projection().Mgl()
	for i := range want {
		assert.InDelta(t, want[i], got[i], tol)
	}
}

func TestScreenSpaceCoord(t *testing.T) {
	c := newCamera(t)

	p, ok := c.ScreenSpaceCoord(math.NewVec3(0, 0, -4))
	assert.True(t, ok)
	assert.InDelta(t, 255.5, p.X, tol)
	assert.InDelta(t, 255.5, p.Y, tol)

	// ten pixels worth of eye-space units at the same depth
	scale, ok := c.ScreenToEyeScale(-4)
	require.True(t, ok)
	p, ok = c.ScreenSpaceCoord(math.NewVec3(10*scale, -10*scale, -4))
	assert.True(t, ok)
	assert.InDelta(t, 265.5, p.X, 1e-6)
	assert.InDelta(t, 245.5, p.Y, 1e-6)

	p, ok = c.ScreenSpaceCoord(math.NewVec3(1, 1, 2))
	assert.False(t, ok)
	assert.Equal(t, math.NewVec2(255.5, 255.5), p)
}

func TestScreenToEyeScale(t *testing.T) {
	c := newCamera(t)

	scale, ok := c.ScreenToEyeScale(-4)
	assert.True(t, ok)
	assert.InDelta(t, 4*m.Tan(math.DegToRad(30))*2/512, scale, tol)

	scale, ok = c.ScreenToEyeScale(0)
	assert.False(t, ok)
	assert.Equal(t, 1.0, scale)
}
