package animation

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/keyframer/engine/math"
)

func sampleList(t *testing.T) *KeyframeList {
	t.Helper()
	return listOf(t,
		Frame{
			math.RBTFromTranslation(math.NewVec3(0, 0.25, 4)),
			math.RBTFromTranslationRotation(math.NewVec3(-10, 1, 0), math.NewQuatYRotation(30)),
		},
		Frame{
			math.RBTFromTranslationRotation(math.NewVec3(0.1, 0.2, 0.3), math.NewQuatXRotation(-15)),
			math.RBTFromTranslationRotation(math.NewVec3(1e-9, -2.5, 1e6), math.NewQuatZRotation(179)),
		},
	)
}

func TestExportFormat(t *testing.T) {
	kl := listOf(t,
		Frame{math.RBTFromTranslation(math.NewVec3(1, 2, 3))},
		Frame{math.RBTFromTranslationRotation(math.NewVec3(-1, 0.5, 0), math.NewQuat(0, 1, 0, 0))},
	)

	var buf bytes.Buffer
	require.NoError(t, kl.Export(&buf))
	assert.Equal(t, "2 1\n1 2 3 1 0 0 0\n-1 0.5 0 0 1 0 0\n", buf.String())
}

func TestExportImportRoundTrip(t *testing.T) {
	kl := sampleList(t)
	require.NoError(t, kl.SetCurrent(1))

	var buf bytes.Buffer
	require.NoError(t, kl.Export(&buf))

	imported := listOf(t, Frame{math.RBTCreate()})
	require.NoError(t, imported.Import(&buf))

	assert.Equal(t, kl.Frames(), imported.Frames())
	assert.Equal(t, 0, imported.CurrentIndex())
	assert.Equal(t, 2, imported.RbtCount())
}

func TestExportImportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keyframe.txt")
	kl := sampleList(t)
	require.NoError(t, kl.ExportFile(path))

	imported := NewKeyframeList()
	require.NoError(t, imported.ImportFile(path))
	assert.Equal(t, kl.Frames(), imported.Frames())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	err = imported.ImportFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
	assert.Equal(t, kl.Frames(), imported.Frames())
}

func TestExportEmpty(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, NewKeyframeList().Export(&buf), ErrNoKeyframes)
	assert.ErrorIs(t, NewKeyframeList().ExportFile(filepath.Join(t.TempDir(), "k.txt")), ErrNoKeyframes)
	assert.Empty(t, buf.String())
}

func TestImportRejectsCorruptData(t *testing.T) {
	cases := map[string]string{
		"empty":           "",
		"short header":    "1\n0 0 0 1 0 0 0\n",
		"zero frames":     "0 1\n",
		"zero transforms": "1 0\n\n",
		"bad count":       "x 1\n0 0 0 1 0 0 0\n",
		"missing line":    "2 1\n0 0 0 1 0 0 0\n",
		"extra line":      "1 1\n0 0 0 1 0 0 0\n0 0 0 1 0 0 0\n",
		"short line":      "1 1\n0 0 0 1 0 0\n",
		"long line":       "1 1\n0 0 0 1 0 0 0 0\n",
		"not a number":    "1 1\n0 0 zero 1 0 0 0\n",
	}

	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			kl := listOf(t, frameX(42))
			err := kl.Import(strings.NewReader(data))
			assert.ErrorIs(t, err, ErrCorruptKeyframes)
			assert.Equal(t, []float64{42}, listX(kl))
			assert.Equal(t, 0, kl.CurrentIndex())
		})
	}
}

func TestImportRejectsNonUnitRotation(t *testing.T) {
	kl := listOf(t, frameX(42))
	err := kl.Import(strings.NewReader("1 1\n0 0 0 2 0 0 0\n"))
	assert.ErrorIs(t, err, math.ErrNotUnitQuaternion)
	assert.Equal(t, []float64{42}, listX(kl))
}

func TestImportToleratesBlankLinesAndPrintedPrecision(t *testing.T) {
	kl := NewKeyframeList()
	data := "2 1\n\n0 0 0 0.707107 0.707107 0 0 \n1 2 3 1 0 0 0\n\n"
	require.NoError(t, kl.Import(strings.NewReader(data)))
	assert.Equal(t, 2, kl.Size())
}
