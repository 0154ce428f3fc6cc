package engine

import (
	"bytes"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"

	"github.com/spaghettifunk/keyframer/engine/animation"
	"github.com/spaghettifunk/keyframer/engine/core"
)

var ErrInvalidConfig = errors.New("invalid application configuration")

type WindowConfig struct {
	// Window starting width.
	Width int `toml:"width"`
	// Window starting height.
	Height int `toml:"height"`
}

type CameraConfig struct {
	// Vertical field of view, in degrees, for windows wider than tall.
	MinFovY float64 `toml:"min_fov_y"`
	Near    float64 `toml:"near"`
	Far     float64 `toml:"far"`
}

type AnimationConfig struct {
	MsBetweenKeyframes int `toml:"ms_between_keyframes"`
	FramesPerSecond    int `toml:"frames_per_second"`
	// File used by the export and import commands.
	KeyframeFile string `toml:"keyframe_file"`
	// Re-import the keyframe file whenever it changes on disk.
	Watch bool `toml:"watch"`
}

type ManipulationConfig struct {
	// Pixels to units for ego motion translations.
	EgoScale float64 `toml:"ego_scale"`
}

type ApplicationConfig struct {
	// The application name used in logs.
	Name         string             `toml:"name"`
	LogLevel     string             `toml:"log_level"`
	Window       WindowConfig       `toml:"window"`
	Camera       CameraConfig       `toml:"camera"`
	Animation    AnimationConfig    `toml:"animation"`
	Manipulation ManipulationConfig `toml:"manipulation"`
}

func DefaultConfig() *ApplicationConfig {
	return &ApplicationConfig{
		Name:     "keyframer",
		LogLevel: "info",
		Window:   WindowConfig{Width: 512, Height: 512},
		Camera:   CameraConfig{MinFovY: 60, Near: 0.1, Far: 50},
		Animation: AnimationConfig{
			MsBetweenKeyframes: animation.DEFAULT_MS_BETWEEN_KEYFRAMES,
			FramesPerSecond:    animation.DEFAULT_FRAMES_PER_SECOND,
			KeyframeFile:       "keyframe.txt",
		},
		Manipulation: ManipulationConfig{EgoScale: 0.01},
	}
}

/**
 * @brief Reads a TOML configuration. Keys missing from the file keep their
 * default value; unknown keys are rejected.
 */
func DecodeConfig(r io.Reader) (*ApplicationConfig, error) {
	config := DefaultConfig()
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(config); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, errors.Wrap(ErrInvalidConfig, strict.String())
		}
		return nil, errors.Wrap(err, "decoding configuration")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadConfig reads the configuration at path. An empty path yields the defaults.
func LoadConfig(path string) (*ApplicationConfig, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening configuration %s", path)
	}
	defer f.Close()

	config, err := DecodeConfig(f)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", path)
	}
	core.LogDebug("Loaded configuration from %s", path)
	return config, nil
}

// Encode writes the configuration as TOML.
func (c *ApplicationConfig) Encode(w io.Writer) error {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(c); err != nil {
		return errors.Wrap(err, "encoding configuration")
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func (c *ApplicationConfig) Validate() error {
	if _, err := core.ParseLogLevel(c.LogLevel); err != nil {
		return errors.Wrap(ErrInvalidConfig, err.Error())
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "window size %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Animation.MsBetweenKeyframes < animation.MIN_MS_BETWEEN_KEYFRAMES {
		return errors.Wrapf(ErrInvalidConfig, "ms_between_keyframes %d is below %d", c.Animation.MsBetweenKeyframes, animation.MIN_MS_BETWEEN_KEYFRAMES)
	}
	if c.Animation.FramesPerSecond <= 0 || c.Animation.FramesPerSecond > 1000 {
		return errors.Wrapf(ErrInvalidConfig, "frames_per_second %d", c.Animation.FramesPerSecond)
	}
	if c.Animation.KeyframeFile == "" {
		return errors.Wrap(ErrInvalidConfig, "keyframe_file is empty")
	}
	if c.Manipulation.EgoScale <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "ego_scale %v", c.Manipulation.EgoScale)
	}
	return nil
}
