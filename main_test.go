package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/keyframer/engine/animation"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"keyframer"}, args...))
	return out.String(), err
}

func TestDemoInspectSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.txt")

	out, err := run(t, "demo", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote 6 keyframes")

	out, err = run(t, "inspect", path)
	require.NoError(t, err)
	assert.Contains(t, out, "keyframes:               6")
	assert.Contains(t, out, "transforms per keyframe: 22")
	assert.Contains(t, out, "playable:                yes, 6.0s")

	out, err = run(t, "sample", "--step", "0.5", path)
	require.NoError(t, err)
	samples, err := animation.ReadKeyframes(strings.NewReader(out))
	require.NoError(t, err)
	// t = 0, 0.5, ..., 2.5 stays below the end at 3
	assert.Len(t, samples, 6)

	kl := animation.NewKeyframeList()
	require.NoError(t, kl.ImportFile(path))
	second, err := kl.FrameAt(1)
	require.NoError(t, err)
	for i := range second {
		assert.True(t, samples[0][i].Compare(second[i], 1e-9))
	}
}

func TestPlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.txt")
	_, err := run(t, "demo", "--out", path)
	require.NoError(t, err)

	out, err := run(t, "play", "--ms-between-keyframes", "100", path)
	require.NoError(t, err)
	assert.Contains(t, out, "played 6 keyframes")
}

func TestSampleRejects(t *testing.T) {
	_, err := run(t, "sample", "--step", "0", "keyframe.txt")
	assert.ErrorIs(t, err, errBadStep)

	_, err = run(t, "sample", filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestConfigCommand(t *testing.T) {
	out, err := run(t, "--debug", "config")
	require.NoError(t, err)
	assert.Contains(t, out, "log_level")
	assert.Contains(t, out, "debug")
	assert.Contains(t, out, "ms_between_keyframes = 2000")
}
