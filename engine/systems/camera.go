package systems

import (
	m "math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"github.com/spaghettifunk/keyframer/engine/core"
	"github.com/spaghettifunk/keyframer/engine/math"
)

var ErrInvalidCameraConfig = errors.New("invalid camera configuration")

/** @brief The camera configuration. */
type CameraConfig struct {
	/** @brief Vertical field of view, in degrees, for windows at least as wide as they are tall. */
	MinFovY float64
	/** @brief Distance to the near clipping plane. */
	Near float64
	/** @brief Distance to the far clipping plane. */
	Far float64
	/** @brief Window size in pixels. */
	Width  int
	Height int
}

/**
 * @brief A perspective camera looking down its own negative z axis. It
 * tracks the window size, derives the vertical field of view from it, and
 * maps eye-space points to screen pixels (origin bottom-left).
 */
type Camera struct {
	config CameraConfig
	width  int
	height int
	fovY   float64
}

/**
 * @brief Creates a camera and applies the initial window size.
 *
 * @param config The configuration for the camera.
 * @return The camera, or ErrInvalidCameraConfig.
 */
func NewCamera(config CameraConfig) (*Camera, error) {
	if config.MinFovY <= 0 || config.MinFovY >= 180 {
		err := errors.Wrapf(ErrInvalidCameraConfig, "min fov %v must be in (0, 180)", config.MinFovY)
		core.LogError(err.Error())
		return nil, err
	}
	if config.Near <= 0 || config.Far <= config.Near {
		err := errors.Wrapf(ErrInvalidCameraConfig, "need 0 < near (%v) < far (%v)", config.Near, config.Far)
		core.LogError(err.Error())
		return nil, err
	}
	c := &Camera{config: config}
	if err := c.Reshape(config.Width, config.Height); err != nil {
		return nil, err
	}
	return c, nil
}

/**
 * @brief Updates the window size. Windows wider than tall use the minimum
 * field of view; taller windows widen it so the horizontal field of view
 * never drops below the minimum.
 */
func (c *Camera) Reshape(width, height int) error {
	if width <= 0 || height <= 0 {
		err := errors.Wrapf(ErrInvalidCameraConfig, "window size %dx%d", width, height)
		core.LogError(err.Error())
		return err
	}
	c.width = width
	c.height = height
	if width >= height {
		c.fovY = c.config.MinFovY
	} else {
		halfRad := 0.5 * math.DegToRad(c.config.MinFovY)
		c.fovY = m.Atan2(m.Sin(halfRad)*float64(height)/float64(width), m.Cos(halfRad)) / (0.5 * math.K_DEG2RAD_MULTIPLIER)
	}
	core.LogDebug("Size of window is now %dx%d, fovY %.2f", width, height, c.fovY)
	return nil
}

func (c *Camera) Width() int {
	return c.width
}

func (c *Camera) Height() int {
	return c.height
}

// FovY returns the vertical field of view in degrees.
func (c *Camera) FovY() float64 {
	return c.fovY
}

func (c *Camera) Aspect() float64 {
	return float64(c.width) / float64(c.height)
}

/**
 * @brief Returns the column-major perspective projection matrix.
 */
func (c *Camera) Projection() math.Mat4 {
	return math.NewMat4FromMgl(mgl64.Perspective(math.DegToRad(c.fovY), c.Aspect(), c.config.Near, c.config.Far))
}

// ArcballScreenRadius is the on-screen radius of the arcball, in pixels.
func (c *Camera) ArcballScreenRadius() float64 {
	return 0.25 * float64(min(c.width, c.height))
}

/**
 * @brief Projects an eye-space point to screen pixels. A point on or behind
 * the z=0 plane has no projection: the screen center is returned along with
 * false.
 */
func (c *Camera) ScreenSpaceCoord(p math.Vec3) (math.Vec2, bool) {
	center := math.NewVec2(float64(c.width-1)/2.0, float64(c.height-1)/2.0)
	if p.Z > -math.K_EPSILON {
		core.LogWarn("Screen space projection of a point near or behind the z=0 plane, using the screen center")
		return center, false
	}
	q := c.Projection().MulVec4(p.ToVec4(1))
	return math.NewVec2(
		q.X/q.W*float64(c.width)/2.0+center.X,
		q.Y/q.W*float64(c.height)/2.0+center.Y,
	), true
}

/**
 * @brief Returns how many eye-space units one screen pixel spans at depth z.
 * A depth on or behind the z=0 plane yields 1 and false.
 */
func (c *Camera) ScreenToEyeScale(z float64) (float64, bool) {
	if z > -math.K_EPSILON {
		core.LogWarn("Screen to eye scale on a depth near or behind the z=0 plane, using 1")
		return 1, false
	}
	return -(z * m.Tan(c.fovY*math.K_PI/360.0)) * 2 / float64(c.height), true
}
