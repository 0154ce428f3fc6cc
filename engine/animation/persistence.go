package animation

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/spaghettifunk/keyframer/engine/math"
)

// Number of floats used to store one transform: tx ty tz qw qx qy qz.
const FLOATS_PER_RBT = 7

// Export writes the list in the flat keyframe format.
func (kl *KeyframeList) Export(w io.Writer) error {
	frames := kl.Frames()
	if len(frames) == 0 {
		return ErrNoKeyframes
	}
	return WriteKeyframes(w, frames)
}

// ExportFile writes the list to path. The file is replaced atomically so a
// watcher never observes a half-written list.
func (kl *KeyframeList) ExportFile(path string) error {
	frames := kl.Frames()
	if len(frames) == 0 {
		return ErrNoKeyframes
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".keyframes-*")
	if err != nil {
		return errors.Wrap(err, "creating keyframe file")
	}
	defer os.Remove(tmp.Name())

	if err := WriteKeyframes(tmp, frames); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "closing keyframe file")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(err, "writing keyframe file %s", path)
	}
	return nil
}

// Import replaces the list with the keyframes read from r and moves the
// cursor to the first keyframe. On error the list is left unchanged.
func (kl *KeyframeList) Import(r io.Reader) error {
	frames, err := ReadKeyframes(r)
	if err != nil {
		return err
	}
	return kl.Replace(frames)
}

func (kl *KeyframeList) ImportFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "opening keyframe file %s", path)
	}
	defer f.Close()

	if err := kl.Import(f); err != nil {
		return errors.Wrapf(err, "importing %s", path)
	}
	return nil
}

/**
 * @brief Writes frames as a header line "<frames> <rbts per frame>" followed
 * by one line per frame holding, for each transform, the 7 floats
 * tx ty tz qw qx qy qz. Floats use the shortest representation that parses
 * back to the same value.
 */
func WriteKeyframes(w io.Writer, frames []Frame) error {
	if len(frames) == 0 {
		return ErrNoKeyframes
	}

	bw := bufio.NewWriter(w)
	rbtCount := len(frames[0])
	bw.WriteString(strconv.Itoa(len(frames)))
	bw.WriteByte(' ')
	bw.WriteString(strconv.Itoa(rbtCount))
	bw.WriteByte('\n')

	buf := make([]byte, 0, 32)
	for i, frame := range frames {
		if len(frame) != rbtCount {
			return errors.Wrapf(ErrFrameSizeMismatch, "frame %d has %d transforms, frame 0 has %d", i, len(frame), rbtCount)
		}
		for j, rbt := range frame {
			values := [FLOATS_PER_RBT]float64{
				rbt.Translation.X, rbt.Translation.Y, rbt.Translation.Z,
				rbt.Rotation.W, rbt.Rotation.X, rbt.Rotation.Y, rbt.Rotation.Z,
			}
			for k, v := range values {
				if j > 0 || k > 0 {
					bw.WriteByte(' ')
				}
				buf = strconv.AppendFloat(buf[:0], v, 'g', -1, 64)
				bw.Write(buf)
			}
		}
		bw.WriteByte('\n')
	}
	return errors.Wrap(bw.Flush(), "writing keyframes")
}

/**
 * @brief Parses the flat keyframe format strictly. The header must declare
 * a positive frame count and transform count, every data line must hold
 * exactly 7 floats per transform, every rotation must be a unit quaternion,
 * and the number of data lines must match the header. Blank lines are ignored.
 */
func ReadKeyframes(r io.Reader) ([]Frame, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	lineNo := 0
	nextLine := func() ([]string, bool) {
		for scanner.Scan() {
			lineNo++
			if fields := strings.Fields(scanner.Text()); len(fields) > 0 {
				return fields, true
			}
		}
		return nil, false
	}

	header, ok := nextLine()
	if !ok {
		if err := scanner.Err(); err != nil {
			return nil, errors.Wrap(err, "reading keyframes")
		}
		return nil, errors.Wrap(ErrCorruptKeyframes, "missing header")
	}
	if len(header) != 2 {
		return nil, errors.Wrapf(ErrCorruptKeyframes, "line %d: header needs 2 fields, got %d", lineNo, len(header))
	}
	frameCount, err := strconv.Atoi(header[0])
	if err != nil || frameCount <= 0 {
		return nil, errors.Wrapf(ErrCorruptKeyframes, "line %d: bad frame count %q", lineNo, header[0])
	}
	rbtCount, err := strconv.Atoi(header[1])
	if err != nil || rbtCount <= 0 {
		return nil, errors.Wrapf(ErrCorruptKeyframes, "line %d: bad transform count %q", lineNo, header[1])
	}

	frames := make([]Frame, 0, frameCount)
	for {
		fields, ok := nextLine()
		if !ok {
			break
		}
		if len(frames) == frameCount {
			return nil, errors.Wrapf(ErrCorruptKeyframes, "line %d: header declares %d frames, found more", lineNo, frameCount)
		}
		frame, err := parseFrame(fields, rbtCount)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNo)
		}
		frames = append(frames, frame)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading keyframes")
	}
	if len(frames) != frameCount {
		return nil, errors.Wrapf(ErrCorruptKeyframes, "header declares %d frames, found %d", frameCount, len(frames))
	}
	return frames, nil
}

func parseFrame(fields []string, rbtCount int) (Frame, error) {
	if len(fields) != rbtCount*FLOATS_PER_RBT {
		return nil, errors.Wrapf(ErrCorruptKeyframes, "expected %d floats, got %d", rbtCount*FLOATS_PER_RBT, len(fields))
	}

	var values [FLOATS_PER_RBT]float64
	frame := make(Frame, rbtCount)
	for i := range frame {
		for k := range values {
			v, err := strconv.ParseFloat(fields[i*FLOATS_PER_RBT+k], 64)
			if err != nil {
				return nil, errors.Wrapf(ErrCorruptKeyframes, "transform %d: %v", i, err)
			}
			values[k] = v
		}
		frame[i] = math.RBTFromTranslationRotation(
			math.NewVec3(values[0], values[1], values[2]),
			math.NewQuat(values[3], values[4], values[5], values[6]),
		)
		if err := frame[i].Validate(); err != nil {
			return nil, errors.Wrapf(err, "transform %d", i)
		}
	}
	return frame, nil
}
